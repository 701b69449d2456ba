package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sells-group/realtor-intake/internal/ner"
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Manage the entity recognition model",
}

var modelFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the onnx model and tokenizer into the cache directory",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("parse"); err != nil {
			return err
		}
		if cfg.NER.Backend != "onnx" {
			fmt.Fprintf(cmd.ErrOrStderr(), "ner.backend is %q; nothing to fetch.\n", cfg.NER.Backend)
			return nil
		}

		start := time.Now()
		assets, err := ner.Provision(cmd.Context(), cfg.NER, newFetcher(cfg))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "model:     %s\ntokenizer: %s\n(%s)\n",
			assets.ModelPath, assets.TokenizerPath, time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func init() {
	modelCmd.AddCommand(modelFetchCmd)
	rootCmd.AddCommand(modelCmd)
}
