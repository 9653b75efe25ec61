package commands

import (
	"github.com/spf13/cobra"

	"stock_sync/internal/app/di"
	"stock_sync/internal/feature/marketsync/scheduler"
)

func newScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run every index now and then daily at SCHEDULE_AT",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			s, err := newScheduler(app)
			if err != nil {
				return err
			}
			return s.Run(cmd.Context())
		},
	}
}

func newScheduler(app *di.App) (*scheduler.Scheduler, error) {
	sc := app.Config.Schedule
	hour, minute, err := sc.Clock()
	if err != nil {
		return nil, err
	}
	loc, err := sc.Location()
	if err != nil {
		return nil, err
	}
	return scheduler.New(app.Batch, scheduler.Config{
		Hour:     hour,
		Minute:   minute,
		Location: loc,
		Force:    sc.Force,
		Period:   app.Config.Sync.Period,
		Interval: app.Config.Sync.Interval,
	}, app.Logger), nil
}
