package ner

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/realtor-intake/internal/config"
	"github.com/sells-group/realtor-intake/internal/fetcher"
)

const (
	modelFile     = "model.onnx"
	tokenizerFile = "tokenizer.json"
)

// Assets are the local paths of the onnx model files.
type Assets struct {
	ModelPath     string
	TokenizerPath string
}

// Provision makes sure the onnx model and tokenizer exist locally,
// downloading any that are missing into cfg.CacheDir.
func Provision(ctx context.Context, cfg config.NERConfig, f fetcher.Fetcher) (Assets, error) {
	if cfg.DownloadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.DownloadTimeout)*time.Second)
		defer cancel()
	}

	modelPath := cfg.ModelPath
	if modelPath == "" {
		modelPath = filepath.Join(cfg.CacheDir, modelFile)
	}
	tokPath := cfg.TokenizerPath
	if tokPath == "" {
		tokPath = filepath.Join(cfg.CacheDir, tokenizerFile)
	}

	var err error
	var a Assets
	if a.ModelPath, err = fetcher.EnsureFile(ctx, f, cfg.ModelURL, modelPath); err != nil {
		return Assets{}, eris.Wrap(err, "ner: provision model")
	}
	if a.TokenizerPath, err = fetcher.EnsureFile(ctx, f, cfg.TokenizerURL, tokPath); err != nil {
		return Assets{}, eris.Wrap(err, "ner: provision tokenizer")
	}
	return a, nil
}

// NewLoader returns the Loader for the configured backend. Every backend is
// combined with the currency tagger so MONEY spans are always present.
func NewLoader(cfg config.NERConfig, f fetcher.Fetcher) (Loader, error) {
	switch cfg.Backend {
	case "", "prose":
		return func(_ context.Context) (Recognizer, error) {
			p, err := LoadProse(cfg.ModelPath)
			if err != nil {
				return nil, err
			}
			return WithMoney(p), nil
		}, nil
	case "onnx":
		return func(ctx context.Context) (Recognizer, error) {
			assets, err := Provision(ctx, cfg, f)
			if err != nil {
				return nil, err
			}
			r, err := LoadOnnx(OnnxOptions{
				ModelPath:     assets.ModelPath,
				TokenizerPath: assets.TokenizerPath,
				LibraryPath:   cfg.OnnxLibraryPath,
				Labels:        cfg.Labels,
				MaxTokens:     cfg.MaxTokens,
			})
			if err != nil {
				return nil, err
			}
			return WithMoney(r), nil
		}, nil
	default:
		return nil, eris.Errorf("ner: unsupported backend %q", cfg.Backend)
	}
}

// NewHandleFromConfig builds a Handle for the configured backend.
func NewHandleFromConfig(cfg config.NERConfig, f fetcher.Fetcher) (*Handle, error) {
	load, err := NewLoader(cfg, f)
	if err != nil {
		return nil, err
	}
	name := cfg.Backend
	if name == "" {
		name = "prose"
	}
	return NewHandle(name, load), nil
}
