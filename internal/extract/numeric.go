package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sells-group/realtor-intake/internal/model"
)

const (
	minYearBuilt = 1800
	maxYearBuilt = 2100
)

var (
	// currencyRe takes comma-grouped amounts first so "$350000" is not read as "$350".
	currencyRe = regexp.MustCompile(`\$\s*([0-9]{1,3}(?:,[0-9]{3})+(?:\.[0-9]{1,2})?|[0-9]+(?:\.[0-9]{1,2})?)`)
	bedRe      = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)[\s-]*(?:bed|beds|bedroom|bedrooms)\b`)
	bathRe     = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)[\s-]*(?:bath|baths|bathroom|bathrooms)\b`)
	sqftRe     = regexp.MustCompile(`(?i)(?:^|[^\d,])(\d{1,3},\d{3}|\d{3,6})\s*(?:sq\.?\s?ft|sqft|square\s?feet|square\s?foot)\b`)
	acresRe    = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(?:acre|acres)\b`)
	lotSqftRe  = regexp.MustCompile(`(?i)\b(\d{1,3}(?:,\d{3}){1,2}|\d{3,7})\s*(?:sq\.?\s?ft|sqft|square\s?feet|square\s?foot)\b`)
	yearRe     = regexp.MustCompile(`(?i)\bbuilt\s*(?:in\s*)?(\d{4})\b`)
	hoaRe      = regexp.MustCompile(`(?i)\bHOA\s*(?:fees?)?\s*[:\-]?\s*\$\s*([0-9]{1,4}(?:\.[0-9]{1,2})?)\b`)
	nonNumRe   = regexp.MustCompile(`[^0-9.]+`)
)

// Price prefers the first MONEY span and falls back to the first
// dollar amount in text.
func Price(text string, spans []model.EntitySpan) *float64 {
	for _, s := range spans {
		if s.Category != model.EntityMoney {
			continue
		}
		if v, err := strconv.ParseFloat(nonNumRe.ReplaceAllString(s.Text, ""), 64); err == nil {
			return &v
		}
		break
	}
	if m := currencyRe.FindStringSubmatch(text); m != nil {
		return parseFloat(m[1])
	}
	return nil
}

// Bedrooms returns the number before "bed(s)/bedroom(s)".
func Bedrooms(text string) *float64 { return firstFloat(bedRe, text) }

// Bathrooms returns the number before "bath(s)/bathroom(s)", including halves.
func Bathrooms(text string) *float64 { return firstFloat(bathRe, text) }

// SquareFeet returns the interior area before a square-footage unit.
func SquareFeet(text string) *float64 { return firstFloat(sqftRe, text) }

// LotSize returns "<n> acre" or "<n> sqft", acres first. The unit is kept
// as written; nothing is converted.
func LotSize(text string) *string {
	if m := acresRe.FindStringSubmatch(text); m != nil {
		s := m[1] + " acre"
		return &s
	}
	if m := lotSqftRe.FindStringSubmatch(text); m != nil {
		s := strings.ReplaceAll(m[1], ",", "") + " sqft"
		return &s
	}
	return nil
}

// YearBuilt returns the year after "built [in]" when it lies in [1800, 2100].
func YearBuilt(text string) *int {
	m := yearRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	y, err := strconv.Atoi(m[1])
	if err != nil || y < minYearBuilt || y > maxYearBuilt {
		return nil
	}
	return &y
}

// HOAFees returns the dollar amount following "HOA [fee(s)]".
func HOAFees(text string) *float64 { return firstFloat(hoaRe, text) }

func firstFloat(re *regexp.Regexp, text string) *float64 {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return parseFloat(m[1])
}

func parseFloat(s string) *float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &v
}
