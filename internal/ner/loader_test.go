package ner

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/sells-group/realtor-intake/internal/config"
	"github.com/sells-group/realtor-intake/internal/fetcher"
	"github.com/sells-group/realtor-intake/internal/model"
)

func testFetcher() *fetcher.HTTPFetcher {
	return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{Limiter: rate.NewLimiter(rate.Inf, 1)})
}

func TestProvision_DownloadsMissingAssets(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(r.URL.Path))
	}))
	defer srv.Close()

	cfg := config.NERConfig{
		Backend:      "onnx",
		ModelURL:     srv.URL + "/model.onnx",
		TokenizerURL: srv.URL + "/tokenizer.json",
		CacheDir:     t.TempDir(),
	}

	assets, err := Provision(context.Background(), cfg, testFetcher())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.CacheDir, "model.onnx"), assets.ModelPath)

	data, err := os.ReadFile(assets.TokenizerPath)
	require.NoError(t, err)
	assert.Equal(t, "/tokenizer.json", string(data))

	_, err = Provision(context.Background(), cfg, testFetcher())
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestOnnxLoader_FetchFailureIsModelUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := config.NERConfig{
		Backend:      "onnx",
		ModelURL:     srv.URL + "/model.onnx",
		TokenizerURL: srv.URL + "/tokenizer.json",
		CacheDir:     t.TempDir(),
		Labels:       config.DefaultLabels,
	}
	h, err := NewHandleFromConfig(cfg, testFetcher())
	require.NoError(t, err)
	assert.Equal(t, "onnx", h.Name())

	_, err = h.Recognize(context.Background(), "John Doe")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrModelUnavailable))
	assert.Contains(t, err.Error(), "502")
}

func TestNewLoader_UnsupportedBackend(t *testing.T) {
	_, err := NewLoader(config.NERConfig{Backend: "spacy"}, testFetcher())
	assert.Error(t, err)
}

func TestProseHandle_AddsMoney(t *testing.T) {
	h, err := NewHandleFromConfig(config.NERConfig{Backend: "prose"}, testFetcher())
	require.NoError(t, err)

	spans, err := h.Recognize(context.Background(), "Asking $350,000 for the cottage.")
	require.NoError(t, err)

	var money []string
	for _, s := range spans {
		if s.Category == model.EntityMoney {
			money = append(money, s.Text)
		}
	}
	assert.Equal(t, []string{"$350,000"}, money)
}

func TestProseHandle_KeepsLoadedModel(t *testing.T) {
	h, err := NewHandleFromConfig(config.NERConfig{Backend: "prose"}, testFetcher())
	require.NoError(t, err)

	first, err := h.Recognizer(context.Background())
	require.NoError(t, err)
	_, err = h.Recognize(context.Background(), "Jane Smith sells.")
	require.NoError(t, err)
	second, err := h.Recognizer(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)

	wrapped, ok := first.(*withMoney)
	require.True(t, ok)
	p, ok := wrapped.base.(*ProseRecognizer)
	require.True(t, ok)
	assert.NotNil(t, p.model)
}
