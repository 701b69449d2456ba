package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/realtor-intake/internal/model"
)

var (
	parseFormat      string
	parseDir         string
	parseConcurrency int
)

var parseCmd = &cobra.Command{
	Use:   "parse [file|-]",
	Short: "Extract a structured listing from a description",
	Long:  "Reads a seller description from a file or stdin and prints the extracted listing. With --dir every *.txt file in the directory is parsed concurrently.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ex, h, err := initExtractor(cfg, "parse")
		if err != nil {
			return err
		}
		defer h.Close() //nolint:errcheck

		if parseDir != "" {
			return parseBatch(cmd.Context(), cmd.OutOrStdout(), ex, parseDir, parseConcurrency)
		}

		text, err := readInput(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		l, err := ex.Extract(cmd.Context(), text)
		if err != nil {
			return err
		}
		return writeListing(cmd.OutOrStdout(), l, parseFormat)
	},
}

func init() {
	parseCmd.Flags().StringVar(&parseFormat, "format", "json", "output format: json or yaml")
	parseCmd.Flags().StringVar(&parseDir, "dir", "", "parse every *.txt file in this directory")
	parseCmd.Flags().IntVar(&parseConcurrency, "concurrency", 4, "files parsed in parallel with --dir")
	rootCmd.AddCommand(parseCmd)
}

// listingExtractor is the part of *extract.Extractor the commands use.
type listingExtractor interface {
	Extract(ctx context.Context, text string) (*model.Listing, error)
}

func writeListing(w io.Writer, l *model.Listing, format string) error {
	switch format {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(l), "encode json")
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(l); err != nil {
			return eris.Wrap(err, "encode yaml")
		}
		return eris.Wrap(enc.Close(), "encode yaml")
	default:
		return eris.Errorf("unsupported format %q", format)
	}
}

// batchResult is one line of --dir output.
type batchResult struct {
	File    string         `json:"file"`
	Listing *model.Listing `json:"listing,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// parseBatch extracts every *.txt file under dir with at most concurrency
// files in flight and writes one JSON document per file, in name order.
// A failed file is reported in its document; the batch still completes.
func parseBatch(ctx context.Context, w io.Writer, ex listingExtractor, dir string, concurrency int) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return eris.Wrap(err, "list batch files")
	}
	sort.Strings(files)
	if len(files) == 0 {
		zap.L().Info("no .txt files found", zap.String("dir", dir))
		return nil
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	zap.L().Info("parsing batch", zap.Int("files", len(files)), zap.Int("concurrency", concurrency))

	results := make([]batchResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range files {
		g.Go(func() error {
			res := batchResult{File: filepath.Base(path)}
			defer func() { results[i] = res }()

			data, err := os.ReadFile(path)
			if err != nil {
				res.Error = err.Error()
				return nil
			}
			l, err := ex.Extract(gctx, string(data))
			if err != nil {
				zap.L().Warn("parse failed", zap.String("file", res.File), zap.Error(err))
				res.Error = err.Error()
				return nil
			}
			res.Listing = l
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch parse")
	}

	enc := json.NewEncoder(w)
	failed := 0
	for _, res := range results {
		if res.Error != "" {
			failed++
		}
		if err := enc.Encode(res); err != nil {
			return eris.Wrap(err, "encode batch result")
		}
	}
	if failed > 0 {
		return eris.Errorf("batch parse: %d of %d files failed", failed, len(files))
	}
	return nil
}
