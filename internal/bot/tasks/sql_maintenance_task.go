package tasks

import (
	"context"
	"fmt"
	"time"
)

// newSQLMaintenanceTask trims each chat's message log to the configured size, then runs
// VACUUM and ANALYZE.
func newSQLMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "sql_maintenance")

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Starting scheduled SQL maintenance task...")
		startTime := time.Now()

		if keep := deps.Config.Database.MaxMessagesPerChat; keep > 0 {
			deleted, err := deps.Store.TrimMessages(ctx, keep)
			if err != nil {
				log.ErrorContext(ctx, "Message trim failed", "error", err)
				return fmt.Errorf("sql maintenance failed: %w", err)
			}
			log.InfoContext(ctx, "Trimmed message log", "keep", keep, "deleted", deleted)
		}

		if err := deps.Store.RunSQLMaintenance(ctx); err != nil {
			log.ErrorContext(ctx, "SQL maintenance task failed", "error", err, "duration", time.Since(startTime))
			return fmt.Errorf("sql maintenance failed: %w", err)
		}

		log.InfoContext(ctx, "Scheduled SQL maintenance task completed successfully", "duration", time.Since(startTime))
		return nil
	}
}
