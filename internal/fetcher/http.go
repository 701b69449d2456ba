package fetcher

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	UserAgent string
	Timeout   time.Duration
	// Limiter throttles requests. Defaults to 2 req/s with a burst of 2.
	Limiter *rate.Limiter
}

// HTTPFetcher implements Fetcher using net/http. A failed download is
// reported to the caller as-is; there are no retries.
type HTTPFetcher struct {
	client  *http.Client
	opts    HTTPOptions
	limiter *rate.Limiter
}

// NewHTTPFetcher creates a new HTTPFetcher with the given options.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Minute
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "realtor-intake/1.0"
	}
	lim := opts.Limiter
	if lim == nil {
		lim = rate.NewLimiter(2, 2)
	}
	transport := &http.Transport{
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		opts:    opts,
		limiter: lim,
	}
}

// Download streams rawURL to a temporary file next to dest and renames it
// into place once the body has been fully written. dest is left untouched
// on any failure.
func (f *HTTPFetcher) Download(ctx context.Context, rawURL string, dest string) (int64, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return 0, eris.Wrap(err, "fetcher: rate limiter wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, eris.Wrap(err, "fetcher: create request")
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, eris.Wrapf(err, "fetcher: get %s", rawURL)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, eris.Errorf("fetcher: unexpected status %d from %s", resp.StatusCode, rawURL)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, eris.Wrap(err, "fetcher: create cache dir")
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".*.part")
	if err != nil {
		return 0, eris.Wrap(err, "fetcher: create temp file")
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	n, err := io.Copy(tmp, resp.Body)
	if err != nil {
		cleanup()
		return n, eris.Wrap(err, "fetcher: write body")
	}
	if resp.ContentLength > 0 && n != resp.ContentLength {
		cleanup()
		return n, eris.Errorf("fetcher: short body from %s: got %d of %d bytes", rawURL, n, resp.ContentLength)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return n, eris.Wrap(err, "fetcher: close temp file")
	}
	if err := os.Rename(tmpName, dest); err != nil {
		_ = os.Remove(tmpName)
		return n, eris.Wrap(err, "fetcher: rename into place")
	}

	zap.L().Info("downloaded asset",
		zap.String("url", rawURL),
		zap.String("path", dest),
		zap.Int64("bytes", n),
	)
	return n, nil
}

// EnsureFile returns dest when it already exists, otherwise downloads rawURL
// into it first.
func EnsureFile(ctx context.Context, f Fetcher, rawURL, dest string) (string, error) {
	if info, err := os.Stat(dest); err == nil && info.Size() > 0 {
		return dest, nil
	}
	if rawURL == "" {
		return "", eris.Errorf("fetcher: %s is missing and no url is configured", dest)
	}
	if _, err := f.Download(ctx, rawURL, dest); err != nil {
		return "", err
	}
	return dest, nil
}
