// Package ner finds PERSON and MONEY entities in listing text.
//
// The statistical model behind a Recognizer is expensive to load and may
// have to be downloaded on first use, so callers share one Handle that
// loads it lazily and exactly once per successful load.
package ner

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sells-group/realtor-intake/internal/model"
)

// ErrModelUnavailable is returned when the entity model cannot be loaded.
// Extraction cannot proceed without it.
var ErrModelUnavailable = eris.New("ner: model unavailable")

// Recognizer returns the entity spans of text in order of appearance.
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]model.EntitySpan, error)
}

// Loader builds a ready Recognizer. It is called at most once at a time.
type Loader func(ctx context.Context) (Recognizer, error)

type loaded struct {
	rec Recognizer
}

// Handle is a lazily loaded, process-wide Recognizer. Concurrent first
// callers wait on a single load; once published the recognizer is read
// without locking. A failed load is not cached: the next call tries again.
type Handle struct {
	name  string
	load  Loader
	group singleflight.Group
	rec   atomic.Pointer[loaded]
}

// NewHandle returns a Handle that uses load on first use. name identifies
// the backend in logs and errors.
func NewHandle(name string, load Loader) *Handle {
	return &Handle{name: name, load: load}
}

// Name returns the backend name.
func (h *Handle) Name() string { return h.name }

// Loaded reports whether the recognizer has been loaded.
func (h *Handle) Loaded() bool { return h.rec.Load() != nil }

// Recognizer returns the loaded recognizer, loading it if needed.
func (h *Handle) Recognizer(ctx context.Context) (Recognizer, error) {
	if l := h.rec.Load(); l != nil {
		return l.rec, nil
	}

	v, err, _ := h.group.Do("load", func() (any, error) {
		if l := h.rec.Load(); l != nil {
			return l.rec, nil
		}

		zap.L().Info("ner: loading model", zap.String("backend", h.name))
		rec, err := h.load(ctx)
		if err == nil && rec == nil {
			err = eris.New("loader returned no recognizer")
		}
		if err != nil {
			zap.L().Error("ner: model load failed", zap.String("backend", h.name), zap.Error(err))
			return nil, eris.Wrapf(ErrModelUnavailable, "ner: load %s model: %v", h.name, err)
		}
		h.rec.Store(&loaded{rec: rec})
		zap.L().Info("ner: model ready", zap.String("backend", h.name))
		return rec, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(Recognizer), nil
}

// Recognize loads the recognizer if needed and runs it on text.
func (h *Handle) Recognize(ctx context.Context, text string) ([]model.EntitySpan, error) {
	rec, err := h.Recognizer(ctx)
	if err != nil {
		return nil, err
	}
	return rec.Recognize(ctx, text)
}

// Close releases the loaded recognizer, if it holds resources.
func (h *Handle) Close() error {
	l := h.rec.Swap(nil)
	if l == nil {
		return nil
	}
	if c, ok := l.rec.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
