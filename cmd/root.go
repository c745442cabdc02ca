// Package cmd implements the soilmatch command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/soilmatch/app"
	"github.com/kilianp07/soilmatch/config"
	"github.com/kilianp07/soilmatch/core/scheduler"
	"github.com/kilianp07/soilmatch/infra/logger"
	"github.com/kilianp07/soilmatch/pkg/export"
)

var (
	cfgPath      string
	schedCfgPath string
	outFormat    string
)

var rootCmd = &cobra.Command{
	Use:           "soilmatch",
	Short:         "Soil exchange matching and scheduling engine",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
	rootCmd.PersistentFlags().StringVar(&schedCfgPath, "scheduling-config", "", "scheduling table file (yaml or json) replacing the scheduling section")
	rootCmd.PersistentFlags().StringVarP(&outFormat, "format", "f", "json", "output format: json or csv")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// withService loads the configuration, opens the service and runs fn.
func withService(cmd *cobra.Command, fn func(ctx context.Context, svc *app.Service) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return fn(ctx, svc)
}

// loadConfig reads the main configuration and, when --scheduling-config is
// set, swaps in the standalone scheduling table.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if schedCfgPath != "" {
		sc, err := scheduler.LoadConfig(schedCfgPath)
		if err != nil {
			return nil, fmt.Errorf("load scheduling config: %w", err)
		}
		cfg.Scheduling = sc
	}
	return cfg, nil
}

// render writes v as JSON or, when csv is requested and supported, as CSV.
func render(w io.Writer, v any, csv func(io.Writer) error) error {
	f, err := export.ParseFormat(outFormat)
	if err != nil {
		return err
	}
	if f == export.FormatCSV {
		if csv == nil {
			return fmt.Errorf("csv output is not available for this command")
		}
		return csv(w)
	}
	return export.WriteJSON(w, v)
}
