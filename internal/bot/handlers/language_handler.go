package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/pondyguide/internal/locale"
	"github.com/edgard/pondyguide/internal/profile"
)

// NewLanguageHandler returns a handler for /language <name>.
func NewLanguageHandler(deps HandlerDeps) bot.HandlerFunc {
	return languageHandler{deps}.Handle
}

type languageHandler struct {
	deps HandlerDeps
}

func (h languageHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "language")
	if update.Message == nil {
		return
	}
	msg := update.Message

	args := commandArgs(msg.Text)
	lang, ok := locale.FindLanguage(strings.Join(args, " "))
	if !ok {
		sendText(ctx, b, h.deps, msg.Chat.ID, locale.Render(h.deps.Config.Messages.LanguageUsage, map[string]string{"languages": languageNames()}))
		return
	}

	s, ok := chatSession(ctx, b, h.deps, msg)
	if !ok {
		return
	}
	_ = s.Update(func(uc *profile.UserContext) error {
		uc.PreferredLanguage = lang.Name
		return nil
	})
	saveWithRetry(ctx, h.deps, s)

	log.InfoContext(ctx, "Language changed", "chat_id", msg.Chat.ID, "language", lang.Name)
	sendText(ctx, b, h.deps, msg.Chat.ID, h.deps.Assistant.Generator().LanguageChanged(lang.Name))
}

func languageNames() string {
	names := make([]string, 0, len(locale.Languages))
	for _, l := range locale.Languages {
		names = append(names, l.Name)
	}
	return strings.Join(names, ", ")
}
