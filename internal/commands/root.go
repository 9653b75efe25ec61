// Package commands implements the stocksync command line.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"stock_sync/internal/app/di"
	"stock_sync/internal/platform/config"
	"stock_sync/internal/platform/logger"
)

// ErrFailures is returned when a run finished but some symbols failed.
// main turns it into exit status 1.
var ErrFailures = errors.New("one or more symbols failed")

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "stocksync",
		Short: "Keep local OHLCV series of index constituents fresh",
		Long: `stocksync downloads historical price series for the constituents of
market indices (Nifty, FTSE, US stocks), skips symbols whose stored data is
still fresh, and records an auditable summary of every batch run.`,
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newBatchCmd(),
		newAllCmd(),
		newSyncCmd(),
		newScheduleCmd(),
		newServeCmd(),
		newProvisionCmd(),
	)
	return root
}

// Execute runs the command line with os.Args.
func Execute() error {
	return ExecuteContext(context.Background(), os.Args[1:])
}

// ExecuteContext runs the command line with args. SIGINT and SIGTERM cancel ctx.
func ExecuteContext(ctx context.Context, args []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, ErrFailures) {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
	}
	return err
}

// bootstrap loads configuration, builds the logger and wires the application.
// The returned cleanup closes every resource.
func bootstrap(ctx context.Context) (*di.App, func(), error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	log, closeLog, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	app, err := di.NewApp(ctx, cfg, log)
	if err != nil {
		_ = closeLog()
		return nil, nil, err
	}
	cleanup := func() {
		if err := app.Close(); err != nil {
			log.Error("failed to close resources", "error", err)
		}
		_ = closeLog()
	}
	return app, cleanup, nil
}

type runFlags struct {
	force    bool
	period   string
	interval string
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.force, "force", false, "refetch even when stored data is fresh")
	cmd.Flags().StringVar(&f.period, "period", "", "history to request, e.g. 1mo, 1y, 5y (default SYNC_PERIOD)")
	cmd.Flags().StringVar(&f.interval, "interval", "", "bar interval, e.g. 1d, 1wk (default SYNC_INTERVAL)")
}

// resolve fills empty flags from configuration.
func (f runFlags) resolve(cfg *config.Config) runFlags {
	if f.period == "" {
		f.period = cfg.Sync.Period
	}
	if f.interval == "" {
		f.interval = cfg.Sync.Interval
	}
	return f
}

func logFailure(log *slog.Logger, what string, err error) {
	log.Error(what+" failed", "error", err)
}
