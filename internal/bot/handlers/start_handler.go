package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/pondyguide/internal/profile"
)

// NewStartHandler returns a handler for the /start command.
func NewStartHandler(deps HandlerDeps) bot.HandlerFunc {
	return startHandler{deps}.Handle
}

// startHandler greets the user by first name in their language.
type startHandler struct {
	deps HandlerDeps
}

func (h startHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "start")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Start handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	msg := update.Message
	log.InfoContext(ctx, "Handling /start command", "chat_id", msg.Chat.ID, "user_id", msg.From.ID)

	s, ok := chatSession(ctx, b, h.deps, msg)
	if !ok {
		return
	}
	_ = s.Update(func(uc *profile.UserContext) error {
		if msg.From.FirstName != "" {
			uc.Name = msg.From.FirstName
		}
		return nil
	})
	saveWithRetry(ctx, h.deps, s)

	sendText(ctx, b, h.deps, msg.Chat.ID, h.deps.Assistant.Generator().Welcome(s.User()))
}
