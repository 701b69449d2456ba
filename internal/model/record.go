package model

import "time"

// RawDescription is the seller's original free-form text as stored.
type RawDescription struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// PropertyRecord is the reviewed structured listing persisted alongside its
// raw description.
type PropertyRecord struct {
	ID               string  `json:"id,omitempty"`
	DescriptionRawID string  `json:"description_raw_id"`
	SellerName       *string `json:"seller_name"`
	Email            *string `json:"email"`
	Phone            *string `json:"phone"`

	Address Address `json:"address"`

	Price        *float64 `json:"price"`
	Bedrooms     *float64 `json:"bedrooms"`
	Bathrooms    *float64 `json:"bathrooms"`
	SquareFeet   *float64 `json:"square_feet"`
	LotSize      *string  `json:"lot_size"`
	YearBuilt    *int     `json:"year_built"`
	PropertyType *string  `json:"property_type"`

	Amenities []string `json:"amenities"`
	Parking   *string  `json:"parking"`
	HOAFees   *float64 `json:"hoa_fees"`

	Notes *string `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPropertyRecord maps an extracted (and possibly hand-edited) listing to a
// record linked to the raw description rawID. The contact name becomes the
// seller name; an empty notes string is stored as null.
func NewPropertyRecord(rawID string, l *Listing) *PropertyRecord {
	rec := &PropertyRecord{
		DescriptionRawID: rawID,
		SellerName:       l.ContactName,
		Email:            l.Email,
		Phone:            l.Phone,
		Address:          l.Address,
		Price:            l.Price,
		Bedrooms:         l.Bedrooms,
		Bathrooms:        l.Bathrooms,
		SquareFeet:       l.SquareFeet,
		LotSize:          l.LotSize,
		YearBuilt:        l.YearBuilt,
		PropertyType:     l.PropertyType,
		Amenities:        l.Amenities,
		Parking:          l.Parking,
		HOAFees:          l.HOAFees,
	}
	if rec.Address.Country == "" {
		rec.Address.Country = DefaultCountry
	}
	if rec.Amenities == nil {
		rec.Amenities = []string{}
	}
	if l.Notes != "" {
		rec.Notes = Ptr(l.Notes)
	}
	return rec
}

// RecentListing is the summary row shown in the intake history.
type RecentListing struct {
	ID               string    `json:"id"`
	DescriptionRawID string    `json:"description_raw_id"`
	SellerName       *string   `json:"seller_name"`
	Address          Address   `json:"address"`
	CreatedAt        time.Time `json:"created_at"`
}
