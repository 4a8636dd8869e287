package tasks

import (
	"context"

	"github.com/edgard/pondyguide/internal/config"
)

// ScheduledTaskFunc is the signature of every scheduled task. Tasks should honour ctx
// cancellation and report failures through the returned error.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks returns every task keyed by the name used in the scheduler config.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := map[string]ScheduledTaskFunc{
		config.TaskRealtimeRefresh: newRealtimeRefreshTask(deps),
		config.TaskSQLMaintenance:  newSQLMaintenanceTask(deps),
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
