package ner

import (
	"context"
	"regexp"
	"sort"

	"github.com/sells-group/realtor-intake/internal/model"
)

// moneyRe matches currency phrases: "$350,000", "$ 1200.50", "450,000 dollars".
var moneyRe = regexp.MustCompile(
	`\$\s?\d{1,3}(?:,\d{3})+(?:\.\d{1,2})?` +
		`|\$\s?\d+(?:\.\d{1,2})?` +
		`|\b\d{1,3}(?:,\d{3})+(?:\.\d{1,2})?\s?(?:dollars|USD)\b` +
		`|\b\d+(?:\.\d{1,2})?\s?(?:dollars|USD)\b`)

// MoneyTagger emits a MONEY span for every currency phrase.
type MoneyTagger struct{}

// Recognize implements Recognizer.
func (MoneyTagger) Recognize(_ context.Context, text string) ([]model.EntitySpan, error) {
	return moneySpans(text), nil
}

func moneySpans(text string) []model.EntitySpan {
	var spans []model.EntitySpan
	for _, loc := range moneyRe.FindAllStringIndex(text, -1) {
		spans = append(spans, model.EntitySpan{
			Category: model.EntityMoney,
			Text:     text[loc[0]:loc[1]],
			Start:    loc[0],
			End:      loc[1],
		})
	}
	return spans
}

// merge combines span lists by byte offset, dropping spans that overlap an
// earlier one, and renumbers Position in order of appearance.
func merge(lists ...[]model.EntitySpan) []model.EntitySpan {
	var all []model.EntitySpan
	for _, l := range lists {
		all = append(all, l...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Start < all[j].Start })

	out := make([]model.EntitySpan, 0, len(all))
	end := -1
	for _, s := range all {
		if s.Start < end {
			continue
		}
		s.Position = len(out)
		out = append(out, s)
		end = s.End
	}
	return out
}

// withMoney wraps a model-backed recognizer so its output also carries
// MONEY spans.
type withMoney struct {
	base Recognizer
}

// WithMoney returns a Recognizer that merges base's spans with currency
// phrases. Model spans win where the two overlap.
func WithMoney(base Recognizer) Recognizer {
	return &withMoney{base: base}
}

func (w *withMoney) Recognize(ctx context.Context, text string) ([]model.EntitySpan, error) {
	spans, err := w.base.Recognize(ctx, text)
	if err != nil {
		return nil, err
	}
	return merge(spans, moneySpans(text)), nil
}

func (w *withMoney) Close() error {
	if c, ok := w.base.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
