package handlers_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"sync"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/go-cmp/cmp"

	"github.com/edgard/pondyguide/internal/assistant"
	"github.com/edgard/pondyguide/internal/bot/handlers"
	"github.com/edgard/pondyguide/internal/config"
	"github.com/edgard/pondyguide/internal/database"
	"github.com/edgard/pondyguide/internal/intent"
	"github.com/edgard/pondyguide/internal/locale"
	"github.com/edgard/pondyguide/internal/profile"
	"github.com/edgard/pondyguide/internal/realtime"
	"github.com/edgard/pondyguide/internal/responder"
)

const (
	adminID  = 42
	botID    = 1000
	botName  = "PondyBot"
	privChat = 7
	grpChat  = -99
)

type call struct {
	Method string
	Params map[string]string
}

// fakeTelegram records Bot API calls and answers them with minimal successful results.
type fakeTelegram struct {
	mu    sync.Mutex
	calls []call
}

func (f *fakeTelegram) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	method := path.Base(r.URL.Path)
	params := map[string]string{}
	if err := r.ParseMultipartForm(1 << 20); err == nil {
		for k, v := range r.MultipartForm.Value {
			params[k] = v[0]
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, call{Method: method, Params: params})
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if method == "sendChatAction" {
		_, _ = io.WriteString(w, `{"ok":true,"result":true}`)
		return
	}
	_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":1,"type":"private"}}}`)
}

func (f *fakeTelegram) methods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.Method)
	}
	return out
}

func (f *fakeTelegram) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		if c.Method == "sendMessage" {
			out = append(out, c.Params["text"])
		}
	}
	return out
}

func (f *fakeTelegram) find(method string) (call, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c.Method == method {
			return c, true
		}
	}
	return call{}, false
}

type fixture struct {
	tg   *fakeTelegram
	bot  *bot.Bot
	deps handlers.HandlerDeps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tg := &fakeTelegram{}
	srv := httptest.NewServer(tg)
	t.Cleanup(srv.Close)

	b, err := bot.New("123:test", bot.WithServerURL(srv.URL), bot.WithSkipGetMe())
	if err != nil {
		t.Fatalf("bot.New() error = %v", err)
	}

	templates, err := locale.Default()
	if err != nil {
		t.Fatalf("locale.Default() error = %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gen := responder.NewGenerator(templates, rand.New(rand.NewPCG(1, 1)))
	feed := realtime.NewFeed(realtime.NewGenerator(rand.New(rand.NewPCG(2, 2))), logger)

	cfg := &config.Config{
		Telegram: config.TelegramConfig{
			Token:       "123:test",
			AdminUserID: adminID,
			BotInfo:     &models.User{ID: botID, Username: botName, IsBot: true},
		},
		Messages: config.MessagesConfig{
			NotAuthorized:    "not authorized",
			GeneralError:     "general error",
			EmptyMessage:     "say something",
			Help:             "help text",
			SessionReset:     "session reset",
			AllSessionsReset: "all reset",
			LanguageUsage:    "usage: /language <{languages}>",
			PlanUsage:        "usage: /plan [1-14]",
			PrefsUsage:       "usage: /prefs\n{prefs}",
			PrefsUpdated:     "updated {field} to {value}",
		},
	}

	return &fixture{
		tg:  tg,
		bot: b,
		deps: handlers.HandlerDeps{
			Logger:    logger,
			Config:    cfg,
			Assistant: assistant.New(gen, feed, logger),
			Sessions:  assistant.NewSessions(nil, nil, 10, logger),
		},
	}
}

func textUpdate(chatID int64, chatType models.ChatType, fromID int64, text string) *models.Update {
	return &models.Update{
		ID: 1,
		Message: &models.Message{
			ID:   5,
			Chat: models.Chat{ID: chatID, Type: chatType},
			From: &models.User{ID: fromID, FirstName: "Asha"},
			Text: text,
		},
	}
}

func (f *fixture) session(t *testing.T, chatID int64) *assistant.Session {
	t.Helper()
	s, err := f.deps.Sessions.Get(context.Background(), chatID)
	if err != nil {
		t.Fatalf("Sessions.Get() error = %v", err)
	}
	return s
}

func TestMessageHandler_PrivateChat(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	handlers.NewMessageHandler(f.deps)(context.Background(), f.bot,
		textUpdate(privChat, models.ChatTypePrivate, 5, "Which temple has the best aarti?"))

	want := []string{"sendChatAction", "sendMessage", "sendMessage", "sendLocation"}
	if diff := cmp.Diff(want, f.tg.methods()); diff != "" {
		t.Fatalf("API calls mismatch (-want +got):\n%s", diff)
	}

	texts := f.tg.texts()
	if texts[1] != "Opening map for Sri Aurobindo Ashram..." {
		t.Errorf("map notice = %q", texts[1])
	}
	loc, _ := f.tg.find("sendLocation")
	if loc.Params["latitude"] != "11.9416" || loc.Params["longitude"] != "79.8083" {
		t.Errorf("location params = %v", loc.Params)
	}

	s := f.session(t, privChat)
	if n := len(s.Messages()); n != 2 {
		t.Errorf("session has %d messages, want 2", n)
	}
	if !s.User().HasInterest(intent.Devotional) {
		t.Error("devotional interest not recorded")
	}
}

func TestMessageHandler_GroupGating(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		update  *models.Update
		handled bool
	}{
		{
			name:   "not addressed",
			update: textUpdate(grpChat, models.ChatTypeGroup, 5, "best beach around here?"),
		},
		{
			name:    "mentioned",
			update:  textUpdate(grpChat, models.ChatTypeSupergroup, 5, "@pondybot best beach around here?"),
			handled: true,
		},
		{
			name: "reply to bot",
			update: func() *models.Update {
				u := textUpdate(grpChat, models.ChatTypeGroup, 5, "and a beach for kayaking?")
				u.Message.ReplyToMessage = &models.Message{From: &models.User{ID: botID}}
				return u
			}(),
			handled: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)

			handlers.NewMessageHandler(f.deps)(context.Background(), f.bot, tt.update)

			calls := f.tg.methods()
			if !tt.handled {
				if len(calls) != 0 {
					t.Errorf("unexpected API calls %v", calls)
				}
				return
			}
			loc, ok := f.tg.find("sendLocation")
			if !ok || loc.Params["latitude"] != "12.0167" {
				t.Errorf("expected Paradise Beach location, calls %v", calls)
			}
			for _, text := range f.tg.texts() {
				if strings.Contains(strings.ToLower(text), "@pondybot") {
					t.Errorf("mention leaked into reply %q", text)
				}
			}
		})
	}
}

func TestMessageHandler_MentionOnly(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	handlers.NewMessageHandler(f.deps)(context.Background(), f.bot,
		textUpdate(grpChat, models.ChatTypeGroup, 5, "@PondyBot"))

	if diff := cmp.Diff([]string{"say something"}, f.tg.texts()); diff != "" {
		t.Errorf("replies mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want string
	}{
		{"/plan 20", "usage: /plan [1-14]"},
		{"/plan soon", "usage: /plan [1-14]"},
		{"/plan 2", "Perfect 2-day itinerary"},
		{"/plan", "Perfect 3-day itinerary"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)

			handlers.NewPlanHandler(f.deps)(context.Background(), f.bot,
				textUpdate(privChat, models.ChatTypePrivate, 5, tt.text))

			texts := f.tg.texts()
			if len(texts) != 1 || !strings.Contains(texts[0], tt.want) {
				t.Errorf("replies = %q, want one containing %q", texts, tt.want)
			}
			if n := len(f.session(t, privChat).Messages()); n != 0 {
				t.Errorf("/plan recorded %d messages", n)
			}
		})
	}
}

func TestPrefsHandler(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	h := handlers.NewPrefsHandler(f.deps)
	ctx := context.Background()

	h(ctx, f.bot, textUpdate(privChat, models.ChatTypePrivate, 5, "/prefs budget luxury"))
	h(ctx, f.bot, textUpdate(privChat, models.ChatTypePrivate, 5, "/prefs days 5"))
	h(ctx, f.bot, textUpdate(privChat, models.ChatTypePrivate, 5, "/prefs group 0"))
	h(ctx, f.bot, textUpdate(privChat, models.ChatTypePrivate, 5, "/prefs"))

	texts := f.tg.texts()
	if len(texts) != 4 {
		t.Fatalf("got %d replies, want 4: %q", len(texts), texts)
	}
	if texts[0] != "updated budget to luxury" || texts[1] != "updated days to 5" {
		t.Errorf("confirmations = %q", texts[:2])
	}
	for _, text := range texts[2:] {
		if !strings.HasPrefix(text, "usage: /prefs") || !strings.Contains(text, "budget: luxury") {
			t.Errorf("usage reply = %q", text)
		}
	}

	uc := f.session(t, privChat).User()
	if uc.BudgetTier != profile.TierLuxury || uc.VisitDurationDays != 5 || uc.GroupSize != 1 {
		t.Errorf("context = %+v", uc)
	}
}

func TestLanguageHandler(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	h := handlers.NewLanguageHandler(f.deps)
	ctx := context.Background()

	h(ctx, f.bot, textUpdate(privChat, models.ChatTypePrivate, 5, "/language Klingon"))
	h(ctx, f.bot, textUpdate(privChat, models.ChatTypePrivate, 5, "/language french"))

	texts := f.tg.texts()
	if len(texts) != 2 {
		t.Fatalf("got %d replies, want 2: %q", len(texts), texts)
	}
	if !strings.HasPrefix(texts[0], "usage: /language <English, French") {
		t.Errorf("usage reply = %q", texts[0])
	}
	if !strings.HasPrefix(texts[1], "Parfait!") {
		t.Errorf("confirmation = %q", texts[1])
	}
	if got := f.session(t, privChat).User().PreferredLanguage; got != "French" {
		t.Errorf("PreferredLanguage = %q, want French", got)
	}
}

func TestCommandMessages_WithoutPlaceholders(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.deps.Config.Messages.LanguageUsage = "Pick a language."
	f.deps.Config.Messages.PrefsUsage = "Try /prefs budget luxury."
	f.deps.Config.Messages.PrefsUpdated = "Saved."
	ctx := context.Background()

	handlers.NewLanguageHandler(f.deps)(ctx, f.bot, textUpdate(privChat, models.ChatTypePrivate, 5, "/language Klingon"))
	prefs := handlers.NewPrefsHandler(f.deps)
	prefs(ctx, f.bot, textUpdate(privChat, models.ChatTypePrivate, 5, "/prefs"))
	prefs(ctx, f.bot, textUpdate(privChat, models.ChatTypePrivate, 5, "/prefs days 3"))

	want := []string{"Pick a language.", "Try /prefs budget luxury.", "Saved."}
	if diff := cmp.Diff(want, f.tg.texts()); diff != "" {
		t.Errorf("replies mismatch (-want +got):\n%s", diff)
	}
}

func TestStartHandler(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	handlers.NewStartHandler(f.deps)(context.Background(), f.bot,
		textUpdate(privChat, models.ChatTypePrivate, 5, "/start"))

	texts := f.tg.texts()
	if len(texts) != 1 || !strings.Contains(texts[0], "Asha") {
		t.Errorf("welcome = %q", texts)
	}
	if got := f.session(t, privChat).User().Name; got != "Asha" {
		t.Errorf("Name = %q, want Asha", got)
	}
}

func TestResetHandlers(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	registry := handlers.RegisterAllCommands(f.deps)

	s := f.session(t, privChat)
	_ = s.Update(func(uc *profile.UserContext) error {
		uc.Name = "Asha"
		return nil
	})

	handlers.NewResetHandler(f.deps)(ctx, f.bot, textUpdate(privChat, models.ChatTypePrivate, 5, "/reset"))
	if got := f.session(t, privChat).User().Name; got != "" {
		t.Errorf("Name after reset = %q, want empty", got)
	}

	resetAll := registry["/reset_all"]
	h := resetAll.Handler
	for i := len(resetAll.Middleware) - 1; i >= 0; i-- {
		h = resetAll.Middleware[i](h)
	}
	h(ctx, f.bot, textUpdate(privChat, models.ChatTypePrivate, 5, "/reset_all"))
	h(ctx, f.bot, textUpdate(privChat, models.ChatTypePrivate, adminID, "/reset_all"))

	want := []string{"session reset", "not authorized", "all reset"}
	if diff := cmp.Diff(want, f.tg.texts()); diff != "" {
		t.Errorf("replies mismatch (-want +got):\n%s", diff)
	}
}

func TestRegisterAllCommands(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	registry := handlers.RegisterAllCommands(f.deps)
	for _, name := range []string{"/start", "/help", "/language", "/plan", "/prefs", "/reset", "/reset_all"} {
		h, ok := registry[name]
		if !ok || h.Handler == nil {
			t.Errorf("command %s not registered", name)
			continue
		}
		if h.Pattern != strings.TrimPrefix(name, "/") {
			t.Errorf("%s pattern = %q", name, h.Pattern)
		}
	}
	if len(registry["/reset_all"].Middleware) != 1 || len(registry["/plan"].Middleware) != 0 {
		t.Error("only /reset_all should be admin-only")
	}
}

// flakyStore fails the first n session writes, n being failures.
type flakyStore struct {
	mu       sync.Mutex
	failures int
	saved    map[int64]database.SessionRecord
	messages int
}

func (f *flakyStore) LoadSession(context.Context, int64) (*database.SessionRecord, error) {
	return nil, nil
}

func (f *flakyStore) SaveSession(_ context.Context, rec *database.SessionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return errors.New("database is locked")
	}
	f.saved[rec.ChatID] = *rec
	return nil
}

func (f *flakyStore) SaveMessage(context.Context, *database.MessageRecord) error {
	f.mu.Lock()
	f.messages++
	f.mu.Unlock()
	return nil
}

func (f *flakyStore) GetRecentMessages(context.Context, int64, int) ([]database.MessageRecord, error) {
	return nil, nil
}

func (f *flakyStore) DeleteSession(context.Context, int64) error { return nil }
func (f *flakyStore) DeleteAllSessions(context.Context) error { return nil }

func TestStartHandler_RetriesSave(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	store := &flakyStore{failures: 1, saved: map[int64]database.SessionRecord{}}
	f.deps.Sessions = assistant.NewSessions(store, nil, 10, f.deps.Logger)

	handlers.NewStartHandler(f.deps)(context.Background(), f.bot,
		textUpdate(privChat, models.ChatTypePrivate, 5, "/start"))

	store.mu.Lock()
	defer store.mu.Unlock()
	if got := store.saved[privChat].Name; got != "Asha" {
		t.Errorf("stored name = %q, want Asha after retry", got)
	}
}

func TestMessageHandler_PersistsTurn(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	store := &flakyStore{saved: map[int64]database.SessionRecord{}}
	f.deps.Sessions = assistant.NewSessions(store, nil, 10, f.deps.Logger)

	handlers.NewMessageHandler(f.deps)(context.Background(), f.bot,
		textUpdate(privChat, models.ChatTypePrivate, 5, "How much should I budget?"))

	store.mu.Lock()
	defer store.mu.Unlock()
	if store.messages != 2 {
		t.Errorf("stored %d messages, want 2", store.messages)
	}
	if _, ok := store.saved[privChat]; !ok {
		t.Error("session not stored")
	}
}
