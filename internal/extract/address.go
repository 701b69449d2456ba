package extract

import (
	"github.com/sells-group/realtor-intake/internal/address"
	"github.com/sells-group/realtor-intake/internal/model"
)

// Address tags the address in text. country is attached whatever the tagging
// outcome; an ambiguous parse leaves every other component nil.
func Address(tagger *address.Tagger, text, country string) model.Address {
	addr := model.Address{}

	res := tagger.Tag(text)
	if res.Outcome == address.Tagged {
		addr.Street = nonEmpty(res.Street())
		addr.Unit = nonEmpty(res.Unit())
		addr.City = component(res, address.PlaceName)
		addr.State = component(res, address.StateName)
		addr.PostalCode = component(res, address.ZipCode)
	}

	addr.Country = country
	return addr
}

func component(res address.Result, l address.Label) *string {
	v, ok := res.Component(l)
	if !ok {
		return nil
	}
	return &v
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
