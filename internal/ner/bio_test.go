package ner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/realtor-intake/internal/model"
)

func TestDecodeBIO(t *testing.T) {
	text := "Contact Jane Smith at Acme Realty in Denver"
	// [CLS] Contact Jane Smith at Acme Realty in Den ##ver [SEP]
	tags := []string{"O", "O", "B-PER", "I-PER", "O", "B-ORG", "I-ORG", "O", "B-LOC", "I-LOC", "O"}
	offsets := [][]int{
		{0, 0}, {0, 7}, {8, 12}, {13, 18}, {19, 21}, {22, 26}, {27, 33}, {34, 36}, {37, 40}, {40, 43}, {0, 0},
	}

	spans := decodeBIO(text, tags, offsets)
	require.Len(t, spans, 3)

	assert.Equal(t, model.EntitySpan{Category: model.EntityPerson, Text: "Jane Smith", Position: 0, Start: 8, End: 18}, spans[0])
	assert.Equal(t, "Acme Realty", spans[1].Text)
	assert.Equal(t, model.EntityOrg, spans[1].Category)
	assert.Equal(t, "Denver", spans[2].Text)
	assert.Equal(t, model.EntityGPE, spans[2].Category)
	assert.Equal(t, 2, spans[2].Position)
}

func TestDecodeBIO_TypeChangeStartsNewSpan(t *testing.T) {
	text := "Jane Acme"
	spans := decodeBIO(text, []string{"B-PER", "I-ORG"}, [][]int{{0, 4}, {5, 9}})
	require.Len(t, spans, 2)
	assert.Equal(t, "Jane", spans[0].Text)
	assert.Equal(t, "Acme", spans[1].Text)
	assert.Equal(t, model.EntityOrg, spans[1].Category)
}

func TestDecodeBIO_LeadingInside(t *testing.T) {
	spans := decodeBIO("Bob", []string{"I-PER"}, [][]int{{0, 3}})
	require.Len(t, spans, 1)
	assert.Equal(t, model.EntityPerson, spans[0].Category)
}

func TestDecodeBIO_BadOffsetsSkipped(t *testing.T) {
	spans := decodeBIO("Bob", []string{"B-PER", "B-PER"}, [][]int{{0, 30}, {0, 3}})
	require.Len(t, spans, 1)
	assert.Equal(t, "Bob", spans[0].Text)
}

func TestArgmaxTags(t *testing.T) {
	labels := []string{"O", "B-PER", "I-PER"}
	logits := []float32{
		0.9, 0.05, 0.05,
		0.1, 0.8, 0.1,
		0.1, 0.2, 0.7,
	}
	assert.Equal(t, []string{"O", "B-PER", "I-PER"}, argmaxTags(logits, 3, labels))
}
