package validate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/realtor-intake/internal/model"
)

func sampleListing() *model.Listing {
	l := model.NewListing()
	l.ContactName = model.Ptr("John Doe")
	l.Email = model.Ptr("john@example.com")
	l.Phone = model.Ptr("+12175551212")
	l.Address.Street = model.Ptr("123 Main St")
	l.Address.City = model.Ptr("Springfield")
	l.Address.State = model.Ptr("IL")
	l.Address.PostalCode = model.Ptr("62704")
	l.Price = model.Ptr(350000.0)
	l.Bedrooms = model.Ptr(3.0)
	l.Bathrooms = model.Ptr(2.5)
	l.YearBuilt = model.Ptr(1994)
	l.Amenities = []string{"garage", "hardwood"}
	return l
}

func TestListing_Valid(t *testing.T) {
	require.NoError(t, Listing(sampleListing()))
	require.NoError(t, Listing(model.NewListing()))
}

func TestListing_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(l *model.Listing)
	}{
		{"negative price", func(l *model.Listing) { l.Price = model.Ptr(-1.0) }},
		{"year out of range", func(l *model.Listing) { l.YearBuilt = model.Ptr(1700) }},
		{"bad email", func(l *model.Listing) { l.Email = model.Ptr("not-an-email") }},
		{"missing country", func(l *model.Listing) { l.Address.Country = "" }},
		{"empty street", func(l *model.Listing) { l.Address.Street = model.Ptr("") }},
		{"nil amenities", func(l *model.Listing) { l.Amenities = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := sampleListing()
			tt.mutate(l)
			err := Listing(l)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
		})
	}
}

func TestRecord(t *testing.T) {
	rec := model.NewPropertyRecord("raw-1", sampleListing())
	rec.CreatedAt = time.Now().UTC()
	rec.UpdatedAt = rec.CreatedAt
	require.NoError(t, Record(rec))

	rec.DescriptionRawID = ""
	err := Record(rec)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Contains(t, err.Error(), "description_raw_id")
}

func TestJSON(t *testing.T) {
	ok := `{"contact_name":null,"address":{"street":null,"city":"Austin","country":"US"},"amenities":[],"year_built":1994}`
	require.NoError(t, JSON([]byte(ok)))

	err := JSON([]byte(`{"address":{"country":"US"},"amenities":[],"year_built":1994.5}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))

	err = JSON([]byte(`{"address":`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Contains(t, err.Error(), "malformed json")

	err = JSON([]byte(`{"amenities":"pool"}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
}
