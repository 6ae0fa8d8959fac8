package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/brigade/app"
	"github.com/kilianp07/brigade/config"
	"github.com/kilianp07/brigade/core/monitoring"
	"github.com/kilianp07/brigade/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:          "brigade",
	Short:        "Kitchen station order dispatcher",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI. Panics are reported to the configured monitor
// before being re-raised.
func Execute() error {
	defer func() {
		if r := recover(); r != nil {
			monitoring.CapturePanic(r)
			panic(r)
		}
	}()
	return rootCmd.Execute()
}

// withService loads the configuration, builds the service and closes it
// once fn returns.
func withService(fn func(cfg *config.Config, svc *app.Service) error, opts ...app.Option) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return fn(cfg, svc)
}
