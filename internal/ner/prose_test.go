package ner

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/realtor-intake/internal/model"
)

func TestLocate(t *testing.T) {
	text := "Jane  Doe sold to Jane Doe"

	start, end := locate(text, "Jane Doe", 0)
	assert.Equal(t, 18, start)
	assert.Equal(t, 26, end)

	// Whitespace collapsed by the tokenizer.
	start, end = locate("Jane  Doe", "Jane Doe", 0)
	assert.Equal(t, 0, start)
	assert.Equal(t, 9, end)

	start, _ = locate(text, "Bob", 0)
	assert.Equal(t, -1, start)

	start, _ = locate(text, "Jane", 100)
	assert.Equal(t, -1, start)
}

func TestProseCategory(t *testing.T) {
	assert.Equal(t, model.EntityPerson, proseCategory("PERSON"))
	assert.Equal(t, model.EntityGPE, proseCategory("GPE"))
	assert.Equal(t, model.EntityOther, proseCategory("NORP"))
}

func TestLoadProse_MissingDir(t *testing.T) {
	_, err := LoadProse(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestProseRecognizer_SpansMatchText(t *testing.T) {
	rec, err := LoadProse("")
	require.NoError(t, err)

	text := "Call Maria Gonzalez about the house in Chicago."
	spans, err := rec.Recognize(context.Background(), text)
	require.NoError(t, err)
	for i, s := range spans {
		assert.Equal(t, s.Text, text[s.Start:s.End])
		assert.Equal(t, i, s.Position)
	}
}

func TestLoadProse_BundledModelIsReused(t *testing.T) {
	rec, err := LoadProse("")
	require.NoError(t, err)
	require.NotNil(t, rec.model)
	loaded := rec.model

	for _, text := range []string{"Jane Smith sells.", "Call Maria Gonzalez in Chicago."} {
		_, err := rec.Recognize(context.Background(), text)
		require.NoError(t, err)
		assert.Same(t, loaded, rec.model)
	}
}

func TestProseRecognizer_ZeroValue(t *testing.T) {
	_, err := (&ProseRecognizer{}).Recognize(context.Background(), "Jane Smith sells.")
	assert.ErrorIs(t, err, ErrModelUnavailable)
}
