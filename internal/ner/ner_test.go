package ner

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/realtor-intake/internal/model"
)

type stubRecognizer struct {
	spans  []model.EntitySpan
	closed atomic.Bool
}

func (s *stubRecognizer) Recognize(_ context.Context, _ string) ([]model.EntitySpan, error) {
	return s.spans, nil
}

func (s *stubRecognizer) Close() error {
	s.closed.Store(true)
	return nil
}

func TestHandle_LoadsOnceUnderConcurrency(t *testing.T) {
	var loads atomic.Int32
	release := make(chan struct{})
	rec := &stubRecognizer{spans: []model.EntitySpan{{Category: model.EntityPerson, Text: "Jane"}}}

	h := NewHandle("stub", func(_ context.Context) (Recognizer, error) {
		loads.Add(1)
		<-release
		return rec, nil
	})

	const callers = 16
	var wg sync.WaitGroup
	results := make([][]model.EntitySpan, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = h.Recognize(context.Background(), "Jane")
		}(i)
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), loads.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "Jane", results[i][0].Text)
	}
	assert.True(t, h.Loaded())
}

func TestHandle_FailureIsNotCached(t *testing.T) {
	var loads atomic.Int32
	h := NewHandle("stub", func(_ context.Context) (Recognizer, error) {
		if loads.Add(1) == 1 {
			return nil, errors.New("dial tcp: connection refused")
		}
		return &stubRecognizer{}, nil
	})

	_, err := h.Recognize(context.Background(), "text")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrModelUnavailable))
	assert.Contains(t, err.Error(), "connection refused")
	assert.False(t, h.Loaded())

	_, err = h.Recognize(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, int32(2), loads.Load())

	// Steady state: no further loads.
	_, err = h.Recognize(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, int32(2), loads.Load())
}

func TestHandle_NilRecognizer(t *testing.T) {
	h := NewHandle("broken", func(_ context.Context) (Recognizer, error) { return nil, nil })
	_, err := h.Recognizer(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrModelUnavailable))
}

func TestHandle_Close(t *testing.T) {
	rec := &stubRecognizer{}
	h := NewHandle("stub", func(_ context.Context) (Recognizer, error) { return rec, nil })

	require.NoError(t, h.Close())
	assert.False(t, rec.closed.Load())

	_, err := h.Recognizer(context.Background())
	require.NoError(t, err)
	require.NoError(t, h.Close())
	assert.True(t, rec.closed.Load())
	assert.False(t, h.Loaded())
	assert.Equal(t, "stub", h.Name())
}
