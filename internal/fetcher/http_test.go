package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestFetcher() *HTTPFetcher {
	return NewHTTPFetcher(HTTPOptions{
		UserAgent: "test-agent",
		Timeout:   5 * time.Second,
		Limiter:   rate.NewLimiter(rate.Inf, 1),
	})
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Write([]byte("model bytes"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "nested", "model.onnx")

	n, err := newTestFetcher().Download(context.Background(), srv.URL+"/model.onnx", dest)
	require.NoError(t, err)
	assert.Equal(t, int64(11), n)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "model bytes", string(data))

	// No partial files left behind.
	entries, err := os.ReadDir(filepath.Dir(dest))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestDownload_NonOKKeepsExistingFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "tokenizer.json")
	require.NoError(t, os.WriteFile(dest, []byte("old"), 0o644))

	_, err := newTestFetcher().Download(context.Background(), srv.URL, dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}

func TestDownload_NoRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestFetcher().Download(context.Background(), srv.URL, filepath.Join(t.TempDir(), "m"))
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDownload_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestFetcher().Download(context.Background(), url, filepath.Join(t.TempDir(), "m"))
	assert.Error(t, err)
}

func TestDownload_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewHTTPFetcher(HTTPOptions{Limiter: rate.NewLimiter(1, 1)})
	_, err := f.Download(ctx, "http://127.0.0.1:1/never", filepath.Join(t.TempDir(), "m"))
	assert.Error(t, err)
}

func TestNewHTTPFetcher_Defaults(t *testing.T) {
	f := NewHTTPFetcher(HTTPOptions{})
	assert.Equal(t, "realtor-intake/1.0", f.opts.UserAgent)
	assert.Equal(t, 5*time.Minute, f.client.Timeout)
	assert.NotNil(t, f.limiter)
}

func TestEnsureFile_Existing(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "model.onnx")
	require.NoError(t, writeTestFile(dest, "cached"))

	// No server: an existing file must not trigger a download.
	path, err := EnsureFile(context.Background(), newTestFetcher(), "http://127.0.0.1:1/x", dest)
	require.NoError(t, err)
	assert.Equal(t, dest, path)
}

func TestEnsureFile_Downloads(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "tokenizer.json")
	f := newTestFetcher()

	_, err := EnsureFile(context.Background(), f, srv.URL, dest)
	require.NoError(t, err)
	_, err = EnsureFile(context.Background(), f, srv.URL, dest)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestEnsureFile_MissingWithoutURL(t *testing.T) {
	_, err := EnsureFile(context.Background(), newTestFetcher(), "", filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no url is configured")
}
