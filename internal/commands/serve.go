package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"stock_sync/internal/app/di"
	"stock_sync/internal/app/router"
	indexhandler "stock_sync/internal/feature/indexcatalog/transport/handler"
	synchandler "stock_sync/internal/feature/marketsync/transport/handler"
	healthhandler "stock_sync/internal/platform/http/handler"
)

func newServeCmd() *cobra.Command {
	var withScheduler bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the status and trigger HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Serve(cmd.Context(), withScheduler)
		},
	}
	cmd.Flags().BoolVar(&withScheduler, "with-scheduler", false, "also run the daily scheduler in this process")
	return cmd
}

// Serve runs the HTTP API until ctx is cancelled, then shuts down gracefully.
// The scheduler also runs when withScheduler or SERVER_WITH_SCHEDULER is set.
func Serve(ctx context.Context, withScheduler bool) error {
	app, cleanup, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	schedDone := make(chan struct{})
	if withScheduler || app.Config.Server.WithScheduler {
		s, err := newScheduler(app)
		if err != nil {
			return err
		}
		go func() {
			defer close(schedDone)
			_ = s.Run(ctx)
		}()
	} else {
		close(schedDone)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", app.Config.Server.Port),
		Handler: newHandler(app),
	}
	errCh := make(chan error, 1)
	go func() {
		app.Logger.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			cancel()
			<-schedDone
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	app.Logger.Info("shutting down http server")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancelShutdown()
	err = srv.Shutdown(shutdownCtx)
	cancel()
	<-schedDone
	return err
}

func newHandler(app *di.App) *gin.Engine {
	return router.NewRouter(
		healthhandler.NewHealthHandler(app.HealthProbes()),
		indexhandler.NewIndexHandler(app.Catalog),
		synchandler.NewSyncHandler(app.Status, app.Batch),
		app.Config.Server.CORSOrigins,
	)
}
