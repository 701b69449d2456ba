package ner

import (
	"context"
	"os"
	"strings"

	"github.com/jdkato/prose/v2"
	"github.com/rotisserie/eris"

	"github.com/sells-group/realtor-intake/internal/model"
)

// bundledModel is the name prose gives its embedded English model.
const bundledModel = "en-v2.0.0"

// ProseRecognizer runs the prose averaged-perceptron entity model. The
// bundled model labels PERSON and GPE.
type ProseRecognizer struct {
	model *prose.Model
}

// LoadProse loads the bundled prose model, or a model directory written by
// prose's Model.Write when dir is non-empty. The model is decoded here and
// shared by every Recognize call.
func LoadProse(dir string) (*ProseRecognizer, error) {
	if dir == "" {
		return &ProseRecognizer{model: prose.ModelFromData(bundledModel)}, nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "ner: stat prose model %s", dir)
	}
	if !info.IsDir() {
		return nil, eris.Errorf("ner: prose model %s is not a directory", dir)
	}
	return &ProseRecognizer{model: prose.ModelFromDisk(dir)}, nil
}

// Recognize implements Recognizer.
func (p *ProseRecognizer) Recognize(_ context.Context, text string) ([]model.EntitySpan, error) {
	if p.model == nil {
		return nil, eris.Wrap(ErrModelUnavailable, "ner: prose model not loaded")
	}
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false), prose.UsingModel(p.model))
	if err != nil {
		return nil, eris.Wrap(err, "ner: prose document")
	}

	var spans []model.EntitySpan
	cursor := 0
	for _, ent := range doc.Entities() {
		// prose reports entity text only; recover offsets by scanning forward.
		start, end := locate(text, ent.Text, cursor)
		if start < 0 {
			continue
		}
		cursor = end
		spans = append(spans, model.EntitySpan{
			Category: proseCategory(ent.Label),
			Text:     text[start:end],
			Position: len(spans),
			Start:    start,
			End:      end,
		})
	}
	return spans, nil
}

// locate finds entity text at or after from. prose rejoins tokens with
// single spaces, so a direct miss is retried token by token.
func locate(text, entity string, from int) (int, int) {
	if from > len(text) {
		return -1, -1
	}
	if i := strings.Index(text[from:], entity); i >= 0 {
		return from + i, from + i + len(entity)
	}

	words := strings.Fields(entity)
	if len(words) == 0 {
		return -1, -1
	}
	i := strings.Index(text[from:], words[0])
	if i < 0 {
		return -1, -1
	}
	start := from + i
	end := start + len(words[0])
	for _, w := range words[1:] {
		j := strings.Index(text[end:], w)
		if j < 0 {
			return -1, -1
		}
		end += j + len(w)
	}
	return start, end
}

func proseCategory(label string) model.EntityCategory {
	switch label {
	case "PERSON":
		return model.EntityPerson
	case "GPE":
		return model.EntityGPE
	case "ORG":
		return model.EntityOrg
	case "MONEY":
		return model.EntityMoney
	default:
		return model.EntityOther
	}
}
