// Package tasks implements the bot's scheduled background jobs.
package tasks

import (
	"log/slog"

	"github.com/edgard/pondyguide/internal/config"
	"github.com/edgard/pondyguide/internal/database"
	"github.com/edgard/pondyguide/internal/realtime"
)

// TaskDeps contains the dependencies of scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Feed   *realtime.Feed
	Config *config.Config
}
