package extract

import (
	"regexp"
	"sort"
	"strings"
)

// propertyTypes is in priority order: the first one present wins.
var propertyTypes = []string{
	"single family", "condo", "townhouse", "apartment", "duplex", "triplex", "land",
	"multi-family", "manufactured", "mobile", "co-op",
}

// amenityKeywords maps each keyword to the amenity it reports. "ac" and
// "air conditioning" are the same amenity.
var amenityKeywords = []struct {
	keyword string
	amenity string
}{
	{"pool", "pool"},
	{"garage", "garage"},
	{"fireplace", "fireplace"},
	{"hardwood", "hardwood"},
	{"garden", "garden"},
	{"deck", "deck"},
	{"patio", "patio"},
	{"balcony", "balcony"},
	{"elevator", "elevator"},
	{"gym", "gym"},
	{"fitness", "fitness"},
	{"doorman", "doorman"},
	{"basement", "basement"},
	{"fenced", "fenced"},
	{"central air", "central air"},
	{"air conditioning", "air conditioning"},
	{"walk-in closet", "walk-in closet"},
	{"granite", "granite"},
	{"stainless", "stainless"},
}

// acRe matches "ac" only as a word; as a substring it hits "back", "space".
var acRe = regexp.MustCompile(`\bac\b`)

// PropertyType returns the highest-priority property type mentioned in text.
func PropertyType(text string) *string {
	lower := strings.ToLower(text)
	for _, t := range propertyTypes {
		if strings.Contains(lower, t) {
			v := t
			return &v
		}
	}
	return nil
}

// Amenities returns the amenities mentioned in text, deduplicated and
// sorted. The result is never nil.
func Amenities(text string) []string {
	lower := strings.ToLower(text)
	seen := make(map[string]bool)
	for _, kw := range amenityKeywords {
		if strings.Contains(lower, kw.keyword) {
			seen[kw.amenity] = true
		}
	}
	if acRe.MatchString(lower) {
		seen["air conditioning"] = true
	}

	out := make([]string, 0, len(seen))
	for a := range seen {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Parking returns "garage", else "carport", else nil.
func Parking(text string) *string {
	lower := strings.ToLower(text)
	for _, p := range []string{"garage", "carport"} {
		if strings.Contains(lower, p) {
			v := p
			return &v
		}
	}
	return nil
}
