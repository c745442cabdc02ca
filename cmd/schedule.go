package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/soilmatch/api/schedules"
	"github.com/kilianp07/soilmatch/app"
	"github.com/kilianp07/soilmatch/core/model"
	"github.com/kilianp07/soilmatch/core/scheduler"
	"github.com/kilianp07/soilmatch/pkg/export"
)

var scheduleStart string

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Build schedules for approved matches",
	RunE: func(cmd *cobra.Command, _ []string) error {
		start := time.Now()
		if scheduleStart != "" {
			t, err := schedules.ParseDate(scheduleStart)
			if err != nil {
				return fmt.Errorf("start: %w", err)
			}
			start = t
		}
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			res, err := svc.Engine.BuildSchedules(ctx, start)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), res, func(w io.Writer) error {
				return export.WriteSchedulesCSV(w, res.Schedules)
			})
		})
	},
}

var (
	simHauler    string
	simDate      string
	simVolume    float64
	simRouteType string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <schedule-id>",
	Short: "Run a what-if scenario against a stored schedule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var o scheduler.Overrides
		flags := cmd.Flags()
		if flags.Changed("hauler") {
			o.HaulerID = &simHauler
		}
		if flags.Changed("date") {
			t, err := schedules.ParseDate(simDate)
			if err != nil {
				return fmt.Errorf("date: %w", err)
			}
			o.Date = &t
		}
		if flags.Changed("volume") {
			o.Volume = &simVolume
		}
		if flags.Changed("route-type") {
			rt := model.RouteType(simRouteType)
			o.RouteType = &rt
		}
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			sc, err := svc.Engine.Simulate(ctx, args[0], o)
			if err != nil {
				return err
			}
			alerts, err := svc.Engine.CheckConflicts(ctx, sc.Simulated)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), schedules.SimulateResponse{Scenario: sc, Alerts: alerts}, nil)
		})
	},
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleStart, "start", "", "first schedule date (YYYY-MM-DD), defaults to today")
	simulateCmd.Flags().StringVar(&simHauler, "hauler", "", "hauler id")
	simulateCmd.Flags().StringVar(&simDate, "date", "", "new date (YYYY-MM-DD)")
	simulateCmd.Flags().Float64Var(&simVolume, "volume", 0, "new volume in cubic yards")
	simulateCmd.Flags().StringVar(&simRouteType, "route-type", "", "fastest, cheapest or greenest")
	rootCmd.AddCommand(scheduleCmd, simulateCmd)
}
