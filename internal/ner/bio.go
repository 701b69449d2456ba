package ner

import (
	"strings"

	"github.com/sells-group/realtor-intake/internal/model"
)

// decodeBIO groups per-token BIO tags into entity spans. offsets holds the
// [start, end) byte range of each token in text. An I- tag that does not
// continue an entity of the same type starts a new one.
func decodeBIO(text string, tags []string, offsets [][]int) []model.EntitySpan {
	var spans []model.EntitySpan
	var cur *model.EntitySpan
	curType := ""

	flush := func() {
		if cur != nil {
			cur.Text = text[cur.Start:cur.End]
			cur.Position = len(spans)
			spans = append(spans, *cur)
		}
		cur, curType = nil, ""
	}

	for i, tag := range tags {
		if i >= len(offsets) || len(offsets[i]) < 2 {
			break
		}
		start, end := offsets[i][0], offsets[i][1]
		if start < 0 || end > len(text) || start >= end {
			continue
		}

		prefix, typ, ok := strings.Cut(tag, "-")
		if !ok || (prefix != "B" && prefix != "I") {
			flush()
			continue
		}
		if prefix == "I" && cur != nil && typ == curType {
			cur.End = end
			continue
		}
		flush()
		cur = &model.EntitySpan{Category: bioCategory(typ), Start: start, End: end}
		curType = typ
	}
	flush()
	return spans
}

func bioCategory(typ string) model.EntityCategory {
	switch typ {
	case "PER", "PERSON":
		return model.EntityPerson
	case "ORG":
		return model.EntityOrg
	case "LOC", "GPE":
		return model.EntityGPE
	case "MONEY":
		return model.EntityMoney
	default:
		return model.EntityOther
	}
}
