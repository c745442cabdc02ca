package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kilianp07/soilmatch/app"
)

var trendDays int

var performanceCmd = &cobra.Command{
	Use:   "performance <driver-id>",
	Short: "Aggregate a driver's delivery KPIs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			p, err := svc.Engine.DriverPerformance(ctx, args[0])
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), p, nil)
		})
	},
}

var trendsCmd = &cobra.Command{
	Use:   "trends [driver-id]",
	Short: "Daily delivery trends for one driver or the whole fleet",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var driverID string
		if len(args) == 1 {
			driverID = args[0]
		}
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			trends, err := svc.Engine.PerformanceTrends(ctx, driverID, trendDays)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), trends, nil)
		})
	},
}

func init() {
	trendsCmd.Flags().IntVar(&trendDays, "days", 0, "window length in days (0 uses the configured default)")
	rootCmd.AddCommand(performanceCmd, trendsCmd)
}
