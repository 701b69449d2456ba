package address

import "strings"

// abbrToState maps lowercase state abbreviations to lowercase full names.
var abbrToState = map[string]string{
	"al": "alabama", "ak": "alaska", "az": "arizona", "ar": "arkansas",
	"ca": "california", "co": "colorado", "ct": "connecticut", "de": "delaware",
	"fl": "florida", "ga": "georgia", "hi": "hawaii", "id": "idaho",
	"il": "illinois", "in": "indiana", "ia": "iowa", "ks": "kansas",
	"ky": "kentucky", "la": "louisiana", "me": "maine", "md": "maryland",
	"ma": "massachusetts", "mi": "michigan", "mn": "minnesota", "ms": "mississippi",
	"mo": "missouri", "mt": "montana", "ne": "nebraska", "nv": "nevada",
	"nh": "new hampshire", "nj": "new jersey", "nm": "new mexico", "ny": "new york",
	"nc": "north carolina", "nd": "north dakota", "oh": "ohio", "ok": "oklahoma",
	"or": "oregon", "pa": "pennsylvania", "ri": "rhode island", "sc": "south carolina",
	"sd": "south dakota", "tn": "tennessee", "tx": "texas", "ut": "utah",
	"vt": "vermont", "va": "virginia", "wa": "washington", "wv": "west virginia",
	"wi": "wisconsin", "wy": "wyoming", "dc": "district of columbia",
	"pr": "puerto rico",
}

// stateToAbbr maps lowercase full names to lowercase abbreviations.
var stateToAbbr = func() map[string]string {
	m := make(map[string]string, len(abbrToState))
	for abbr, full := range abbrToState {
		m[full] = abbr
	}
	return m
}()

// isStateAbbr reports whether s is an upper-case USPS state code ("IL").
// Lower-case two-letter words ("in", "me", "or") are ordinary prose.
func isStateAbbr(s string) bool {
	if len(s) != 2 || strings.ToUpper(s) != s {
		return false
	}
	_, ok := abbrToState[strings.ToLower(s)]
	return ok
}

// isLowerStateAbbr reports whether s is a lower-case state code ("il").
func isLowerStateAbbr(s string) bool {
	if len(s) != 2 || strings.ToLower(s) != s {
		return false
	}
	_, ok := abbrToState[s]
	return ok
}

// stateName reports whether words spell a full state name ("Illinois",
// "new york") and whether every word is capitalized.
func stateName(words []string) (ok bool, cased bool) {
	if _, ok = stateToAbbr[strings.ToLower(strings.Join(words, " "))]; !ok {
		return false, false
	}
	cased = true
	for _, w := range words {
		if !isCapitalized(w) {
			cased = false
		}
	}
	return true, cased
}

// streetTypes are the USPS street suffixes recognized as StreetNamePostType.
var streetTypes = map[string]bool{
	"st": true, "street": true, "ave": true, "av": true, "avenue": true,
	"rd": true, "road": true, "blvd": true, "boulevard": true,
	"dr": true, "drive": true, "ln": true, "lane": true,
	"ct": true, "court": true, "way": true, "pl": true, "place": true,
	"ter": true, "terrace": true, "cir": true, "circle": true,
	"pkwy": true, "parkway": true, "hwy": true, "highway": true,
	"trl": true, "trail": true, "sq": true, "square": true,
	"loop": true, "aly": true, "alley": true, "xing": true, "crossing": true,
}

// preTypes precede the street name ("Route 66", "Highway 1").
var preTypes = map[string]bool{
	"route": true, "rte": true, "highway": true, "hwy": true,
}

var directionals = map[string]bool{
	"n": true, "s": true, "e": true, "w": true,
	"ne": true, "nw": true, "se": true, "sw": true,
	"north": true, "south": true, "east": true, "west": true,
	"northeast": true, "northwest": true, "southeast": true, "southwest": true,
}

var occupancyTypes = map[string]bool{
	"apt": true, "apartment": true, "unit": true, "suite": true,
	"ste": true, "floor": true, "rm": true, "room": true,
}

// stopwords never start or continue a street name or city.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"of": true, "in": true, "on": true, "at": true, "to": true, "for": true,
	"with": true, "near": true, "by": true, "from": true, "into": true,
	"is": true, "are": true, "was": true, "be": true, "has": true, "have": true,
	"it": true, "its": true, "this": true, "that": true, "our": true, "my": true,
	"your": true, "we": true, "i": true, "you": true, "me": true, "us": true,
	"call": true, "text": true, "email": true, "asking": true, "only": true,
}

func isStreetType(s string) bool  { return streetTypes[strings.ToLower(s)] }
func isPreType(s string) bool     { return preTypes[strings.ToLower(s)] }
func isOccupancy(s string) bool   { return occupancyTypes[strings.ToLower(s)] }
func isDirectional(s string) bool { return directionals[strings.ToLower(s)] }
func isStopword(s string) bool    { return stopwords[strings.ToLower(s)] }
