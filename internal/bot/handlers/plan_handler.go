package handlers

import (
	"context"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/pondyguide/internal/profile"
)

// NewPlanHandler returns a handler for /plan [days]. Without days the user's visit
// duration is used.
func NewPlanHandler(deps HandlerDeps) bot.HandlerFunc {
	return planHandler{deps}.Handle
}

type planHandler struct {
	deps HandlerDeps
}

func (h planHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "plan")
	if update.Message == nil {
		return
	}
	msg := update.Message

	s, ok := chatSession(ctx, b, h.deps, msg)
	if !ok {
		return
	}

	days := s.User().VisitDurationDays
	if args := commandArgs(msg.Text); len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < profile.MinVisitDays || n > profile.MaxVisitDays {
			sendText(ctx, b, h.deps, msg.Chat.ID, h.deps.Config.Messages.PlanUsage)
			return
		}
		days = n
	}

	resp := h.deps.Assistant.Itinerary(s, days)
	log.InfoContext(ctx, "Itinerary requested", "chat_id", msg.Chat.ID, "days", days)
	sendText(ctx, b, h.deps, msg.Chat.ID, resp.Text)
}
