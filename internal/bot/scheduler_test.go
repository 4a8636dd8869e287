package bot_test

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/edgard/pondyguide/internal/bot"
	"github.com/edgard/pondyguide/internal/bot/tasks"
	"github.com/edgard/pondyguide/internal/config"
)

func TestScheduler_RunsIntervalTasks(t *testing.T) {
	t.Parallel()

	ran := make(chan struct{}, 8)
	taskMap := map[string]tasks.ScheduledTaskFunc{
		"tick": func(ctx context.Context) error {
			select {
			case ran <- struct{}{}:
			default:
			}
			return ctx.Err()
		},
		"nightly":  func(context.Context) error { return nil },
		"disabled": func(context.Context) error { return nil },
		"broken":   func(context.Context) error { return nil },
		"empty":    func(context.Context) error { return nil },
	}
	cfg := &config.SchedulerConfig{Tasks: map[string]config.TaskConfig{
		"tick":     {Enabled: true, Interval: 20 * time.Millisecond},
		"nightly":  {Enabled: true, Schedule: "0 0 3 * * *"},
		"disabled": {Enabled: false, Interval: time.Second},
		"broken":   {Enabled: true, Schedule: "not a cron line"},
		"empty":    {Enabled: true},
		"missing":  {Enabled: true, Interval: time.Second},
	}}

	s, err := bot.NewScheduler(slog.New(slog.NewTextHandler(io.Discard, nil)), cfg, taskMap)
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := s.Start(); err == nil {
		t.Error("second Start() should fail")
	}

	jobs := s.Jobs()
	slices.Sort(jobs)
	if diff := cmp.Diff([]string{"nightly", "tick"}, jobs); diff != "" {
		t.Errorf("scheduled jobs mismatch (-want +got):\n%s", diff)
	}

	for range 2 {
		select {
		case <-ran:
		case <-time.After(2 * time.Second):
			t.Fatal("interval task did not run")
		}
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}
