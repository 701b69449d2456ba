// Package extract turns free-form seller text into a structured listing.
package extract

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/realtor-intake/internal/address"
	"github.com/sells-group/realtor-intake/internal/config"
	"github.com/sells-group/realtor-intake/internal/model"
	"github.com/sells-group/realtor-intake/internal/ner"
)

// Extractor runs the recognizer once per text and the field extractors
// around it. It holds no per-call state and is safe for concurrent use.
type Extractor struct {
	rec     ner.Recognizer
	tagger  *address.Tagger
	region  string
	country string
}

// New creates an Extractor. rec is typically a shared *ner.Handle.
func New(cfg config.ExtractConfig, rec ner.Recognizer) *Extractor {
	region := cfg.DefaultRegion
	if region == "" {
		region = "US"
	}
	country := cfg.DefaultCountry
	if country == "" {
		country = model.DefaultCountry
	}
	return &Extractor{
		rec:     rec,
		tagger:  address.New(),
		region:  strings.ToUpper(region),
		country: country,
	}
}

// Extract builds a Listing from text. Fields that cannot be found are nil.
// The only error is the recognizer failing to load or run; blank text never
// touches the recognizer.
func (e *Extractor) Extract(ctx context.Context, text string) (*model.Listing, error) {
	text = norm.NFC.String(text)

	l := model.NewListing()
	l.Address.Country = e.country
	if strings.TrimSpace(text) == "" {
		l.Notes = Notes(l)
		return l, nil
	}

	spans, err := e.rec.Recognize(ctx, text)
	if err != nil {
		return nil, eris.Wrap(err, "extract: recognize entities")
	}

	l.ContactName = ContactName(spans)
	l.Email = Email(text)
	l.Phone = Phone(text, e.region)
	l.Address = Address(e.tagger, text, e.country)
	l.Price = Price(text, spans)
	l.Bedrooms = Bedrooms(text)
	l.Bathrooms = Bathrooms(text)
	l.SquareFeet = SquareFeet(text)
	l.LotSize = LotSize(text)
	l.YearBuilt = YearBuilt(text)
	l.PropertyType = PropertyType(text)
	l.Amenities = Amenities(text)
	l.Parking = Parking(text)
	l.HOAFees = HOAFees(text)
	l.Notes = Notes(l)

	zap.L().Debug("extract: listing extracted",
		zap.Int("entities", len(spans)),
		zap.Bool("has_contact", l.ContactName != nil),
		zap.Bool("has_address", !l.Address.IsEmpty()),
		zap.Int("amenities", len(l.Amenities)),
	)
	return l, nil
}
