// Package fetcher downloads model assets over HTTP into a local cache.
package fetcher

import "context"

// Fetcher downloads remote files.
type Fetcher interface {
	// Download fetches url into dest, replacing it atomically. Returns bytes written.
	Download(ctx context.Context, url string, dest string) (int64, error)
}
