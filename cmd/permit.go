package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/kilianp07/soilmatch/app"
	"github.com/kilianp07/soilmatch/core/permit"
	"github.com/kilianp07/soilmatch/pkg/export"
)

var permitCmd = &cobra.Command{
	Use:   "permit [permit-id]",
	Short: "Score permits for earthwork likelihood",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			var scores []permit.Score
			if len(args) == 1 {
				s, err := svc.Engine.ScorePermit(ctx, args[0])
				if err != nil {
					return err
				}
				scores = []permit.Score{s}
			} else {
				var err error
				if scores, err = svc.Engine.ScorePermits(ctx); err != nil {
					return err
				}
			}
			return render(cmd.OutOrStdout(), scores, func(w io.Writer) error {
				return export.WritePermitScoresCSV(w, scores)
			})
		})
	},
}

func init() {
	rootCmd.AddCommand(permitCmd)
}
