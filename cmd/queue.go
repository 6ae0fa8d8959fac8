package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/brigade/app"
	"github.com/kilianp07/brigade/config"
)

var queueVerbose bool

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Print the queued orders after dietary adjustments",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(_ *config.Config, svc *app.Service) error {
			out := cmd.OutOrStdout()
			if !queueVerbose {
				return svc.Engine.Queue().Display(out)
			}
			for _, d := range svc.Engine.Queue().Items() {
				fmt.Fprintf(out, "%s (%s)\n", d.Name, d.Course)
				for _, ing := range d.Ingredients {
					fmt.Fprintf(out, "  %-20s %d\n", ing.Name, ing.RequiredQuantity)
				}
			}
			return nil
		})
	},
}

func init() {
	queueCmd.Flags().BoolVarP(&queueVerbose, "verbose", "v", false, "list the requirements of each order")
	rootCmd.AddCommand(queueCmd)
}
