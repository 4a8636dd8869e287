package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/pondyguide/internal/locale"
	"github.com/edgard/pondyguide/internal/profile"
)

// NewPrefsHandler returns a handler for /prefs budget|days|group <value>.
func NewPrefsHandler(deps HandlerDeps) bot.HandlerFunc {
	return prefsHandler{deps}.Handle
}

type prefsHandler struct {
	deps HandlerDeps
}

func (h prefsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "prefs")
	if update.Message == nil {
		return
	}
	msg := update.Message

	s, ok := chatSession(ctx, b, h.deps, msg)
	if !ok {
		return
	}

	args := commandArgs(msg.Text)
	if len(args) != 2 {
		h.sendUsage(ctx, b, msg.Chat.ID, s.User())
		return
	}

	field, value := strings.ToLower(args[0]), args[1]
	err := s.Update(func(uc *profile.UserContext) error {
		return applyPref(uc, field, value)
	})
	if err != nil {
		log.InfoContext(ctx, "Rejected preference", "chat_id", msg.Chat.ID, "field", field, "error", err)
		h.sendUsage(ctx, b, msg.Chat.ID, s.User())
		return
	}
	saveWithRetry(ctx, h.deps, s)

	log.InfoContext(ctx, "Preference updated", "chat_id", msg.Chat.ID, "field", field, "value", value)
	sendText(ctx, b, h.deps, msg.Chat.ID, locale.Render(h.deps.Config.Messages.PrefsUpdated, map[string]string{
		"field": field,
		"value": value,
	}))
}

func (h prefsHandler) sendUsage(ctx context.Context, b *bot.Bot, chatID int64, uc *profile.UserContext) {
	sendText(ctx, b, h.deps, chatID, locale.Render(h.deps.Config.Messages.PrefsUsage, map[string]string{"prefs": describePrefs(uc)}))
}

func applyPref(uc *profile.UserContext, field, value string) error {
	switch field {
	case "budget":
		tier, err := profile.ParseBudgetTier(value)
		if err != nil {
			return err
		}
		uc.BudgetTier = tier
		return nil
	case "days":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("days must be a number: %w", err)
		}
		return uc.SetVisitDuration(n)
	case "group":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("group must be a number: %w", err)
		}
		return uc.SetGroupSize(n)
	default:
		return fmt.Errorf("unknown preference %q", field)
	}
}

func describePrefs(uc *profile.UserContext) string {
	interests := make([]string, 0, len(uc.Interests))
	for _, in := range uc.Interests {
		interests = append(interests, in.String())
	}
	return fmt.Sprintf("budget: %s\ndays: %d\ngroup: %d\nlanguage: %s\ninterests: %s",
		uc.BudgetTier, uc.VisitDurationDays, uc.GroupSize, uc.PreferredLanguage, strings.Join(interests, ", "))
}
