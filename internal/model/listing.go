// Package model defines the records produced by the listing extractor and
// the documents persisted by the intake store.
package model

// DefaultCountry is attached to every extracted address.
const DefaultCountry = "US"

// EntityCategory is the semantic label of a recognized entity span.
type EntityCategory string

const (
	EntityPerson EntityCategory = "PERSON"
	EntityMoney  EntityCategory = "MONEY"
	EntityOrg    EntityCategory = "ORG"
	EntityGPE    EntityCategory = "GPE"
	EntityOther  EntityCategory = "OTHER"
)

// EntitySpan is a labeled substring produced by the entity recognizer.
// Position is the zero-based order of appearance; Start and End are byte
// offsets into the recognized text.
type EntitySpan struct {
	Category EntityCategory `json:"category"`
	Text     string         `json:"text"`
	Position int            `json:"position"`
	Start    int            `json:"start"`
	End      int            `json:"end"`
}

// Address holds the tagged address components. Nil means the component was
// not found.
type Address struct {
	Street     *string `json:"street" yaml:"street"`
	Unit       *string `json:"unit" yaml:"unit"`
	City       *string `json:"city" yaml:"city"`
	State      *string `json:"state" yaml:"state"`
	PostalCode *string `json:"postal_code" yaml:"postal_code"`
	Country    string  `json:"country" yaml:"country"`
}

// IsEmpty reports whether none of street, city, state or postal code is set.
// Unit and country are not considered.
func (a Address) IsEmpty() bool {
	return a.Street == nil && a.City == nil && a.State == nil && a.PostalCode == nil
}

// Listing is the structured record extracted from a free-form seller
// description. Every pointer field is nullable. Amenities is never nil.
type Listing struct {
	ContactName  *string  `json:"contact_name" yaml:"contact_name"`
	Email        *string  `json:"email" yaml:"email"`
	Phone        *string  `json:"phone" yaml:"phone"`
	Address      Address  `json:"address" yaml:"address"`
	Price        *float64 `json:"price" yaml:"price"`
	Bedrooms     *float64 `json:"bedrooms" yaml:"bedrooms"`
	Bathrooms    *float64 `json:"bathrooms" yaml:"bathrooms"`
	SquareFeet   *float64 `json:"square_feet" yaml:"square_feet"`
	LotSize      *string  `json:"lot_size" yaml:"lot_size"`
	YearBuilt    *int     `json:"year_built" yaml:"year_built"`
	PropertyType *string  `json:"property_type" yaml:"property_type"`
	Amenities    []string `json:"amenities" yaml:"amenities"`
	Parking      *string  `json:"parking" yaml:"parking"`
	HOAFees      *float64 `json:"hoa_fees" yaml:"hoa_fees"`
	Notes        string   `json:"notes" yaml:"notes"`
}

// NewListing returns an empty listing with the default country set and a
// non-nil amenity list.
func NewListing() *Listing {
	return &Listing{
		Address:   Address{Country: DefaultCountry},
		Amenities: []string{},
	}
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
