package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/soilmatch/app"
)

var (
	dispatchSite   string
	dispatchVolume float64
	dispatchLimit  int
	dispatchBest   bool
)

var dispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Rank drivers for a pickup",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if dispatchSite == "" {
			return fmt.Errorf("--site is required")
		}
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			if dispatchBest {
				best, ok, err := svc.Engine.BestDriver(ctx, dispatchSite, dispatchVolume)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no driver can carry %.1f yd3", dispatchVolume)
				}
				return render(cmd.OutOrStdout(), best, nil)
			}
			recs, err := svc.Engine.RecommendDrivers(ctx, dispatchSite, dispatchVolume, dispatchLimit)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), recs, nil)
		})
	},
}

func init() {
	dispatchCmd.Flags().StringVar(&dispatchSite, "site", "", "pickup site id")
	dispatchCmd.Flags().Float64Var(&dispatchVolume, "volume", 0, "required volume in cubic yards")
	dispatchCmd.Flags().IntVar(&dispatchLimit, "limit", 0, "maximum recommendations (0 uses the configured default)")
	dispatchCmd.Flags().BoolVar(&dispatchBest, "best", false, "print only the best driver")
	rootCmd.AddCommand(dispatchCmd)
}
