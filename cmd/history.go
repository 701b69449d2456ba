package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/realtor-intake/internal/model"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently saved listings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("save"); err != nil {
			return err
		}

		st, err := initStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		limit := historyLimit
		if limit <= 0 {
			limit = cfg.History.Limit
		}
		recent, err := st.ListRecent(ctx, limit)
		if err != nil {
			return eris.Wrap(err, "history")
		}
		if len(recent) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "No listings saved yet.")
			return nil
		}
		formatHistory(cmd.OutOrStdout(), recent)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "number of records (default from config)")
	rootCmd.AddCommand(historyCmd)
}

func formatHistory(out io.Writer, recent []model.RecentListing) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSELLER\tADDRESS\tCREATED")
	for _, r := range recent {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			r.ID,
			orDash(r.SellerName),
			formatAddress(r.Address),
			r.CreatedAt.Format(time.DateTime),
		)
	}
	_ = w.Flush()
}

// formatAddress renders "street, city, state postal" skipping missing parts.
func formatAddress(a model.Address) string {
	var parts []string
	if a.Street != nil {
		parts = append(parts, *a.Street)
	}
	if a.City != nil {
		parts = append(parts, *a.City)
	}
	region := strings.TrimSpace(deref(a.State) + " " + deref(a.PostalCode))
	if region != "" {
		parts = append(parts, region)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
