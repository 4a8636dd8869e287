package tasks

import "context"

// newRealtimeRefreshTask resamples the weather, crowd and traffic snapshot.
func newRealtimeRefreshTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "realtime_refresh")

	return func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		snap := deps.Feed.Refresh()
		log.DebugContext(ctx, "Realtime snapshot updated", "weather", snap.Weather, "generated_at", snap.GeneratedAt)
		return nil
	}
}
