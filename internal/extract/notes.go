package extract

import (
	"strings"

	"github.com/sells-group/realtor-intake/internal/model"
)

const (
	noteNoContact = "Contact name not confidently detected."
	noteNoAddress = "Address not confidently detected."
	noteNoPrice   = "Asking price not confidently detected."
	noteNoReach   = "No contact email or phone detected."
)

// Notes returns one caveat sentence per under-populated part of l,
// space-joined, or "" when nothing is missing.
func Notes(l *model.Listing) string {
	var notes []string
	if l.ContactName == nil {
		notes = append(notes, noteNoContact)
	}
	if l.Address.IsEmpty() {
		notes = append(notes, noteNoAddress)
	}
	if l.Price == nil {
		notes = append(notes, noteNoPrice)
	}
	if l.Email == nil && l.Phone == nil {
		notes = append(notes, noteNoReach)
	}
	return strings.Join(notes, " ")
}
