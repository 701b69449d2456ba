package extract

import (
	"regexp"

	"github.com/nyaruka/phonenumbers"

	"github.com/sells-group/realtor-intake/internal/model"
)

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	// phoneCandidateRe finds digit runs shaped like phone numbers; the
	// phonenumbers grammar decides which ones are real.
	phoneCandidateRe = regexp.MustCompile(`(?:\+\d{1,3}[\s.-]?)?(?:\(\d{2,4}\)|\d{2,4})[\s.-]?\d{3,4}[\s.-]?\d{3,4}\b`)
)

// Email returns the first email address in text.
func Email(text string) *string {
	if m := emailRe.FindString(text); m != "" {
		return &m
	}
	return nil
}

// ContactName returns the text of the first PERSON span, verbatim.
func ContactName(spans []model.EntitySpan) *string {
	for _, s := range spans {
		if s.Category == model.EntityPerson {
			name := s.Text
			return &name
		}
	}
	return nil
}

// Phone returns the first valid phone number in text, formatted E.164.
// Numbers without a country code are read in region.
func Phone(text, region string) *string {
	for _, loc := range phoneCandidateRe.FindAllStringIndex(text, -1) {
		// Skip candidates cut out of a longer digit run.
		if loc[0] > 0 && isDigit(text[loc[0]-1]) {
			continue
		}
		num, err := phonenumbers.Parse(text[loc[0]:loc[1]], region)
		if err != nil || !phonenumbers.IsValidNumber(num) {
			continue
		}
		formatted := phonenumbers.Format(num, phonenumbers.E164)
		return &formatted
	}
	return nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
