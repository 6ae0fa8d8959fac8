package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/brigade/app"
	"github.com/kilianp07/brigade/config"
	"github.com/kilianp07/brigade/core/dispatch/logging"
	"github.com/kilianp07/brigade/pkg/export"
)

var (
	journalDish    string
	journalStation string
	journalBatch   string
	journalSince   time.Duration
	journalFormat  string
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query recorded dispatch batches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(_ *config.Config, svc *app.Service) error {
			q := logging.LogQuery{Dish: journalDish, Station: journalStation, BatchID: journalBatch}
			if journalSince > 0 {
				q.Start = time.Now().Add(-journalSince)
			}
			recs, err := svc.Journal(cmd.Context(), q)
			if err != nil {
				return fmt.Errorf("query journal: %w", err)
			}
			out := cmd.OutOrStdout()
			switch journalFormat {
			case "json":
				return export.WriteJSON(out, recs)
			case "csv":
				return export.WriteCSV(out, recs)
			case "html":
				return export.WriteHTMLChart(out, recs)
			case "text":
			default:
				return fmt.Errorf("unknown format %q", journalFormat)
			}
			for _, r := range recs {
				fmt.Fprintf(out, "%s %s prepared=%d failed=%d transfers=%d remaining=%v\n",
					r.Timestamp.Format(time.RFC3339), r.BatchID, len(r.Prepared), len(r.Failed), len(r.Replenishments), r.Remaining)
			}
			return nil
		})
	},
}

func init() {
	journalCmd.Flags().StringVar(&journalDish, "dish", "", "only batches that handled this dish")
	journalCmd.Flags().StringVar(&journalStation, "station", "", "only batches that involved this station")
	journalCmd.Flags().StringVar(&journalBatch, "batch", "", "a single batch id")
	journalCmd.Flags().DurationVar(&journalSince, "since", 0, "only batches started within this duration")
	journalCmd.Flags().StringVarP(&journalFormat, "format", "f", "text", "output format: text, json, csv or html")
	rootCmd.AddCommand(journalCmd)
}
