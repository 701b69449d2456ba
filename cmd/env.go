package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/realtor-intake/internal/config"
	"github.com/sells-group/realtor-intake/internal/extract"
	"github.com/sells-group/realtor-intake/internal/fetcher"
	"github.com/sells-group/realtor-intake/internal/ner"
	"github.com/sells-group/realtor-intake/internal/store"
)

// newFetcher builds the model asset downloader from config.
func newFetcher(c *config.Config) fetcher.Fetcher {
	return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		Timeout: time.Duration(c.NER.DownloadTimeout) * time.Second,
	})
}

// initExtractor validates c for mode and builds an extractor around a
// lazily loaded model handle. Callers close the handle.
func initExtractor(c *config.Config, mode string) (*extract.Extractor, *ner.Handle, error) {
	if err := c.Validate(mode); err != nil {
		return nil, nil, err
	}
	h, err := ner.NewHandleFromConfig(c.NER, newFetcher(c))
	if err != nil {
		return nil, nil, err
	}
	return extract.New(c.Extract, h), h, nil
}

// initStore opens and migrates the configured store.
func initStore(ctx context.Context, c *config.Config) (store.Store, error) {
	st, err := store.Open(ctx, c.Store)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// readInput returns the text of the named file, or stdin for "-" or no
// argument.
func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", eris.Wrap(err, "read stdin")
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", eris.Wrapf(err, "read %s", args[0])
	}
	return string(data), nil
}
