package handlers

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const resetTimeout = 30 * time.Second

// NewResetHandler returns a handler for /reset, which forgets the current chat.
func NewResetHandler(deps HandlerDeps) bot.HandlerFunc {
	return resetHandler{deps: deps}.Handle
}

// NewResetAllHandler returns a handler for /reset_all, which forgets every chat.
// Register it behind AdminOnly.
func NewResetAllHandler(deps HandlerDeps) bot.HandlerFunc {
	return resetHandler{deps: deps, all: true}.Handle
}

type resetHandler struct {
	deps HandlerDeps
	all  bool
}

func (h resetHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "reset")
	if update.Message == nil {
		log.ErrorContext(ctx, "Reset handler called with nil Message", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	timeoutCtx, cancel := context.WithTimeout(ctx, resetTimeout)
	defer cancel()

	var err error
	reply := h.deps.Config.Messages.SessionReset
	if h.all {
		err = h.deps.Sessions.ResetAll(timeoutCtx)
		reply = h.deps.Config.Messages.AllSessionsReset
	} else {
		err = h.deps.Sessions.Reset(timeoutCtx, chatID)
	}
	if err != nil {
		log.ErrorContext(ctx, "Failed to reset sessions", "chat_id", chatID, "all", h.all, "error", err)
		sendText(ctx, b, h.deps, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	log.InfoContext(ctx, "Sessions reset", "chat_id", chatID, "all", h.all)
	sendText(ctx, b, h.deps, chatID, reply)
}
