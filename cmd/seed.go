package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/soilmatch/app"
	"github.com/kilianp07/soilmatch/core/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed <snapshot.json>",
	Short: "Load a JSON snapshot of collections into the store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			return store.Seed(ctx, svc.Store, doc)
		})
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print every stored collection as a JSON snapshot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			snap, err := store.Dump(ctx, svc.Store)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), snap, nil)
		})
	},
}

func init() {
	rootCmd.AddCommand(seedCmd, dumpCmd)
}
