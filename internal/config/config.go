package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store" mapstructure:"store"`
	NER     NERConfig     `yaml:"ner" mapstructure:"ner"`
	Extract ExtractConfig `yaml:"extract" mapstructure:"extract"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	History HistoryConfig `yaml:"history" mapstructure:"history"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	// Transient write failures (busy SQLite file, dropped connection) are
	// retried with exponential backoff.
	RetryAttempts  int `yaml:"retry_attempts" mapstructure:"retry_attempts"`
	RetryBackoffMs int `yaml:"retry_backoff_ms" mapstructure:"retry_backoff_ms"`
}

// NERConfig configures the entity recognition model.
type NERConfig struct {
	// Backend is "prose" (default) or "onnx".
	Backend string `yaml:"backend" mapstructure:"backend"`
	// ModelPath is a prose model directory, or the ONNX model file.
	ModelPath       string   `yaml:"model_path" mapstructure:"model_path"`
	ModelURL        string   `yaml:"model_url" mapstructure:"model_url"`
	TokenizerPath   string   `yaml:"tokenizer_path" mapstructure:"tokenizer_path"`
	TokenizerURL    string   `yaml:"tokenizer_url" mapstructure:"tokenizer_url"`
	CacheDir        string   `yaml:"cache_dir" mapstructure:"cache_dir"`
	OnnxLibraryPath string   `yaml:"onnx_library_path" mapstructure:"onnx_library_path"`
	Labels          []string `yaml:"labels" mapstructure:"labels"`
	MaxTokens       int      `yaml:"max_tokens" mapstructure:"max_tokens"`
	DownloadTimeout int      `yaml:"download_timeout_secs" mapstructure:"download_timeout_secs"`
}

// ExtractConfig configures the field extractors.
type ExtractConfig struct {
	DefaultRegion  string `yaml:"default_region" mapstructure:"default_region"`
	DefaultCountry string `yaml:"default_country" mapstructure:"default_country"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	RateLimit   float64  `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst   int      `yaml:"rate_burst" mapstructure:"rate_burst"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// HistoryConfig configures the recent-listings view.
type HistoryConfig struct {
	Limit int `yaml:"limit" mapstructure:"limit"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultLabels is the id2label table of the bert-base-NER token
// classification model.
var DefaultLabels = []string{"O", "B-MISC", "I-MISC", "B-PER", "I-PER", "B-ORG", "I-ORG", "B-LOC", "I-LOC"}

// Load reads configuration from .env, file and environment.
func Load() (*Config, error) {
	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("REALTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "realtor.db")
	v.SetDefault("store.retry_attempts", 3)
	v.SetDefault("store.retry_backoff_ms", 100)
	v.SetDefault("ner.backend", "prose")
	v.SetDefault("ner.model_path", "")
	v.SetDefault("ner.model_url", "https://huggingface.co/dslim/bert-base-NER/resolve/main/onnx/model.onnx")
	v.SetDefault("ner.tokenizer_path", "")
	v.SetDefault("ner.tokenizer_url", "https://huggingface.co/dslim/bert-base-NER/resolve/main/tokenizer.json")
	v.SetDefault("ner.cache_dir", ".cache/realtor-intake")
	v.SetDefault("ner.onnx_library_path", "")
	v.SetDefault("ner.labels", DefaultLabels)
	v.SetDefault("ner.max_tokens", 512)
	v.SetDefault("ner.download_timeout_secs", 300)
	v.SetDefault("extract.default_region", "US")
	v.SetDefault("extract.default_country", "US")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("history.limit", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the settings required by the given command mode are
// present. Modes: "parse" (extraction only), "save" (extraction + store),
// "serve" (save + HTTP server).
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "parse", "save", "serve":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	switch c.NER.Backend {
	case "prose":
	case "onnx":
		if c.NER.ModelPath == "" && c.NER.ModelURL == "" {
			errs = append(errs, "ner.model_path or ner.model_url is required for the onnx backend")
		}
		if c.NER.TokenizerPath == "" && c.NER.TokenizerURL == "" {
			errs = append(errs, "ner.tokenizer_path or ner.tokenizer_url is required for the onnx backend")
		}
		if len(c.NER.Labels) == 0 {
			errs = append(errs, "ner.labels must not be empty for the onnx backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("unsupported ner backend %q", c.NER.Backend))
	}

	if len(c.Extract.DefaultRegion) != 2 {
		errs = append(errs, fmt.Sprintf("extract.default_region must be a two-letter region code, got %q", c.Extract.DefaultRegion))
	}

	if mode == "save" || mode == "serve" {
		switch c.Store.Driver {
		case "sqlite":
		case "postgres":
			if c.Store.DatabaseURL == "" {
				errs = append(errs, "store.database_url is required for postgres (REALTOR_STORE_DATABASE_URL)")
			}
		default:
			errs = append(errs, fmt.Sprintf("unsupported store driver %q", c.Store.Driver))
		}
	}

	if mode == "serve" {
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		if c.Server.RateLimit <= 0 || c.Server.RateBurst <= 0 {
			errs = append(errs, "server.rate_limit and server.rate_burst must be > 0")
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
