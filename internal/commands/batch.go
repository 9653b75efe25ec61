package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"stock_sync/internal/feature/marketsync/domain/entity"
	"stock_sync/internal/feature/marketsync/usecase"
)

func newBatchCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "batch <index>",
		Short: "Synchronize every constituent of one index",
		Example: `  stocksync batch nifty50
  stocksync batch us_stocks --force --period 1y`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			f := flags.resolve(app.Config)
			res, err := app.Batch.RunBatch(cmd.Context(), usecase.BatchRequest{
				Index:    args[0],
				Force:    f.force,
				Period:   f.period,
				Interval: f.interval,
			})
			printSummary(cmd.OutOrStdout(), res)
			if err != nil {
				logFailure(app.Logger, "batch", err)
				return err
			}
			if res.HasFailures() {
				return ErrFailures
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newAllCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "all",
		Short: "Synchronize every configured index in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			f := flags.resolve(app.Config)
			results, err := app.Batch.RunAll(cmd.Context(), f.force, f.period, f.interval)
			if err != nil {
				logFailure(app.Logger, "run", err)
				return err
			}
			failed := false
			for _, res := range results {
				printSummary(cmd.OutOrStdout(), res)
				failed = failed || res.HasFailures()
			}
			if failed {
				return ErrFailures
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func printSummary(w io.Writer, res entity.BatchResult) {
	if res.Error != "" {
		fmt.Fprintf(w, "%s: %s\n", res.IndexName, res.Error)
		return
	}
	fmt.Fprintf(w, "%s: %d total, %d succeeded, %d failed\n", res.IndexName, res.Total, res.SuccessCount, res.FailedCount)
	if len(res.FailedSymbols) > 0 {
		fmt.Fprintf(w, "  failed: %s\n", strings.Join(res.FailedSymbols, ", "))
	}
}
