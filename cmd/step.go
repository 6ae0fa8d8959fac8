package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/brigade/app"
	"github.com/kilianp07/brigade/config"
)

var stepCount int

var stepCmd = &cobra.Command{
	Use:   "step",
	Short: "Prepare orders from the head of the queue without touching the backup stock",
	RunE: func(cmd *cobra.Command, args []string) error {
		if stepCount <= 0 {
			return fmt.Errorf("--count must be positive")
		}
		return withService(func(_ *config.Config, svc *app.Service) error {
			out := cmd.OutOrStdout()
			prepared := svc.Step(stepCount)
			for _, name := range prepared {
				fmt.Fprintf(out, "prepared %s\n", name)
			}
			if front, ok := svc.Engine.Queue().Front(); ok && len(prepared) < stepCount {
				fmt.Fprintf(out, "no station can prepare %s yet\n", front.Name)
			}
			fmt.Fprintf(out, "%d orders left\n", svc.Engine.Queue().Len())
			return nil
		})
	},
}

func init() {
	stepCmd.Flags().IntVarP(&stepCount, "count", "n", 1, "maximum number of orders to prepare")
	rootCmd.AddCommand(stepCmd)
}
