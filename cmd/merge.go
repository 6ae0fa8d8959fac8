package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/brigade/app"
	"github.com/kilianp07/brigade/config"
)

var mergeRun bool

var mergeCmd = &cobra.Command{
	Use:   "merge TARGET SOURCE",
	Short: "Fold station SOURCE into TARGET and print the station order",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(_ *config.Config, svc *app.Service) error {
			out := cmd.OutOrStdout()
			if !svc.Engine.Merge(args[0], args[1]) {
				return fmt.Errorf("cannot merge %q into %q", args[1], args[0])
			}
			snap := svc.Engine.Snapshot()
			names := make([]string, 0, len(snap.Stations))
			for _, st := range snap.Stations {
				names = append(names, st.Name)
			}
			fmt.Fprintf(out, "stations: %s\n", strings.Join(names, ", "))
			for _, st := range snap.Stations {
				if st.Name != args[0] {
					continue
				}
				for _, ing := range st.Stock {
					fmt.Fprintf(out, "  %-20s %d\n", ing.Name, ing.Quantity)
				}
			}
			if mergeRun {
				printSummary(cmd, svc.RunBatch())
			}
			return nil
		})
	},
}

func init() {
	mergeCmd.Flags().BoolVar(&mergeRun, "run", false, "dispatch the queue after merging")
	rootCmd.AddCommand(mergeCmd)
}
