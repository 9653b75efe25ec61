package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"stock_sync/internal/feature/marketsync/usecase"
)

func newSyncCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:     "sync <symbol>",
		Short:   "Synchronize a single symbol",
		Example: `  stocksync sync RELIANCE.NS --period 1mo --interval 1d`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			f := flags.resolve(app.Config)
			out, err := app.Batch.SyncSymbol(cmd.Context(), usecase.SyncRequest{
				Symbol:   args[0],
				Period:   f.period,
				Interval: f.interval,
				Force:    f.force,
			})
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], err)
				return err
			}
			switch {
			case !out.Success:
				fmt.Fprintf(cmd.OutOrStdout(), "%s: failed: %s\n", out.Symbol, out.Reason())
				return ErrFailures
			case out.Skipped:
				fmt.Fprintf(cmd.OutOrStdout(), "%s: up to date\n", out.Symbol)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "%s: stored %d records\n", out.Symbol, out.Records)
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
