package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/realtor-intake/internal/model"
	"github.com/sells-group/realtor-intake/internal/store"
	"github.com/sells-group/realtor-intake/internal/validate"
)

var saveCmd = &cobra.Command{
	Use:   "save [file|-]",
	Short: "Extract, validate and store a description",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		ex, h, err := initExtractor(cfg, "save")
		if err != nil {
			return err
		}
		defer h.Close() //nolint:errcheck

		st, err := initStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		text, err := readInput(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		return saveListing(ctx, cmd.OutOrStdout(), ex, st, text)
	},
}

func init() {
	rootCmd.AddCommand(saveCmd)
}

// saveListing stores text and the record extracted from it. Nothing is
// written when the extracted listing fails validation.
func saveListing(ctx context.Context, w io.Writer, ex listingExtractor, st store.Store, text string) error {
	l, err := ex.Extract(ctx, text)
	if err != nil {
		return err
	}
	if err := validate.Listing(l); err != nil {
		return err
	}

	rawID, err := st.SaveRawDescription(ctx, text)
	if err != nil {
		return eris.Wrap(err, "save raw description")
	}
	rec := model.NewPropertyRecord(rawID, l)
	if err := validate.Record(rec); err != nil {
		return err
	}
	id, err := st.SavePropertyRecord(ctx, rec)
	if err != nil {
		return eris.Wrap(err, "save property record")
	}

	zap.L().Info("listing saved", zap.String("raw_id", rawID), zap.String("id", id))
	_, err = fmt.Fprintf(w, "raw_id=%s id=%s\n", rawID, id)
	return err
}
