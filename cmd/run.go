package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/brigade/app"
	"github.com/kilianp07/brigade/config"
	"github.com/kilianp07/brigade/core/dispatch"
)

var (
	runQuiet bool
	runServe bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Dispatch every queued order once, replenishing from the backup stock",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(cfg *config.Config, svc *app.Service) error {
			out := cmd.OutOrStdout()
			quiet := cfg.Dispatch.Quiet
			if cmd.Flags().Changed("quiet") {
				quiet = runQuiet
			}
			if !quiet {
				svc.Engine.SetTracer(dispatch.WriterTracer{W: out})
			}
			res := svc.RunBatch()
			printSummary(cmd, res)
			if !runServe {
				return nil
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return svc.Serve(ctx)
		})
	},
}

func init() {
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "do not print the dispatch trace (overrides dispatch.quiet)")
	runCmd.Flags().BoolVar(&runServe, "serve", false, "keep serving the http endpoints after the batch until interrupted")
	rootCmd.AddCommand(runCmd)
}

func printSummary(cmd *cobra.Command, res dispatch.BatchResult) {
	out := cmd.OutOrStdout()
	s := dispatch.Summarize(res)
	fmt.Fprintf(out, "\nbatch %s: %d/%d prepared, %d transfers (%.0f units)\n",
		res.ID, s.Prepared, s.Orders, s.Transfers, s.UnitsTransferred)
	if len(res.Remaining) == 0 {
		fmt.Fprintln(out, "queue is empty")
		return
	}
	fmt.Fprintln(out, "remaining queue:")
	for _, name := range res.Remaining {
		fmt.Fprintf(out, "  %s\n", name)
	}
}
