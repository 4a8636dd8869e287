package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/pondyguide/internal/logger"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		if got := logger.ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestPreview(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is long", 7, "this..."},
		{"வணக்கம் நண்பரே", 6, "வணக..."},
		{"abc", 2, "..."},
	}
	for _, tt := range tests {
		if got := logger.Preview(tt.in, tt.max); got != tt.want {
			t.Errorf("Preview(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(&buf, "info", true)

	called := false
	next := func(context.Context, *bot.Bot, *models.Update) { called = true }
	handler := logger.Middleware(log)(next)

	handler(context.Background(), nil, &models.Update{
		ID: 9,
		Message: &models.Message{
			ID:   3,
			Chat: models.Chat{ID: 77},
			From: &models.User{ID: 5},
			Text: "Where can I rent a scooter?",
		},
	})

	if !called {
		t.Fatal("middleware did not call next")
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines at info, want 1:\n%s", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["chat_id"] != float64(77) || entry["user_id"] != float64(5) || entry["update_type"] != "message" {
		t.Errorf("unexpected log entry %v", entry)
	}
}
