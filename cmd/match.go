package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/kilianp07/soilmatch/app"
	"github.com/kilianp07/soilmatch/pkg/export"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score pending export/import site pairs and store the suggestions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			res, err := svc.Engine.RunMatching(ctx)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), res, func(w io.Writer) error {
				return export.WriteMatchesCSV(w, res.Matches)
			})
		})
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
}
