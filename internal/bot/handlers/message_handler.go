package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/pondyguide/internal/assistant"
	"github.com/edgard/pondyguide/internal/responder"
)

type messageHandler struct {
	deps HandlerDeps
}

// NewMessageHandler returns the default handler for plain text. Private chats are always
// answered; in groups the bot answers only when mentioned or replied to.
func NewMessageHandler(deps HandlerDeps) bot.HandlerFunc {
	return messageHandler{deps}.Handle
}

func (h messageHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	deps := h.deps
	log := deps.Logger.With("handler", "message")

	msg := update.Message
	if msg == nil || msg.From == nil {
		log.DebugContext(ctx, "Ignoring update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := msg.Chat.ID

	if !h.shouldHandle(msg) {
		log.DebugContext(ctx, "Bot not addressed, skipping", "chat_id", chatID)
		return
	}

	text := h.stripMention(msg.Text)
	if strings.TrimSpace(text) == "" {
		log.InfoContext(ctx, "Received empty message", "chat_id", chatID)
		sendText(ctx, b, deps, chatID, deps.Config.Messages.EmptyMessage)
		return
	}

	s, ok := chatSession(ctx, b, deps, msg)
	if !ok {
		return
	}

	if _, err := b.SendChatAction(ctx, &bot.SendChatActionParams{ChatID: chatID, Action: models.ChatActionTyping}); err != nil {
		log.WarnContext(ctx, "Failed to send typing action", "chat_id", chatID, "error", err)
	}

	turnCtx, cancel := context.WithTimeout(ctx, turnTimeout)
	defer cancel()

	reply, err := deps.Assistant.Submit(turnCtx, s, text)
	switch {
	case errors.Is(err, assistant.ErrEmptyMessage):
		sendText(ctx, b, deps, chatID, deps.Config.Messages.EmptyMessage)
		return
	case err != nil:
		log.WarnContext(ctx, "Turn aborted", "chat_id", chatID, "error", err)
		return
	}

	sendCtx, sendCancel := context.WithTimeout(ctx, sendMessageTimeout)
	_, err = b.SendMessage(sendCtx, &bot.SendMessageParams{
		ChatID:          chatID,
		Text:            reply.Text,
		ReplyParameters: &models.ReplyParameters{MessageID: msg.ID},
	})
	sendCancel()
	if err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "chat_id", chatID, "error", err)
	}

	lang := s.User().PreferredLanguage
	for _, action := range reply.Actions {
		h.dispatch(ctx, b, chatID, lang, action)
	}

	saveWithRetry(ctx, deps, s, reply.UserMessage, reply.BotMessage)
	log.InfoContext(ctx, "Replied", "chat_id", chatID, "intent", reply.Intent.String(), "failed", reply.Failed)
}

// dispatch performs the follow-up an action asks for.
func (h messageHandler) dispatch(ctx context.Context, b *bot.Bot, chatID int64, lang string, action responder.Action) {
	log := h.deps.Logger.With("handler", "message")
	gen := h.deps.Assistant.Generator()

	switch action.Type {
	case responder.ActionShowMap:
		sendText(ctx, b, h.deps, chatID, gen.Text("map.opening", lang, action.Data))
		lat, latErr := strconv.ParseFloat(action.Data["lat"], 64)
		lng, lngErr := strconv.ParseFloat(action.Data["lng"], 64)
		if latErr != nil || lngErr != nil {
			log.DebugContext(ctx, "Map action without coordinates", "location", action.Data["location"])
			return
		}
		sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
		defer cancel()
		if _, err := b.SendLocation(sendCtx, &bot.SendLocationParams{ChatID: chatID, Latitude: lat, Longitude: lng}); err != nil {
			log.ErrorContext(ctx, "Failed to send location", "chat_id", chatID, "error", err)
		}
	case responder.ActionShowWeather:
		sendText(ctx, b, h.deps, chatID, gen.Text("weather.note", lang, action.Data))
	case responder.ActionBookReminder:
		sendText(ctx, b, h.deps, chatID, gen.Text("reminder.set", lang, action.Data))
	case responder.ActionCreateItinerary:
		// The plan is already part of the reply text.
		log.DebugContext(ctx, "Itinerary created", "chat_id", chatID, "days", action.Data["days"], "total_cost", action.Data["total_cost"])
	default:
		log.WarnContext(ctx, "Unknown action", "type", string(action.Type))
	}
}

func (h messageHandler) shouldHandle(msg *models.Message) bool {
	if msg.Chat.Type == models.ChatTypePrivate {
		return true
	}

	info := h.deps.Config.Telegram.BotInfo
	if info == nil {
		return false
	}
	if msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil && msg.ReplyToMessage.From.ID == info.ID {
		return true
	}
	if info.Username == "" {
		return false
	}

	username := strings.ToLower(info.Username)
	for _, w := range strings.Fields(strings.ToLower(msg.Text)) {
		if strings.TrimFunc(w, unicode.IsPunct) == username {
			return true
		}
	}
	return false
}

// stripMention removes @username tokens addressed to the bot.
func (h messageHandler) stripMention(text string) string {
	info := h.deps.Config.Telegram.BotInfo
	if info == nil || info.Username == "" {
		return strings.TrimSpace(text)
	}

	mention := "@" + strings.ToLower(info.Username)
	fields := strings.Fields(text)
	kept := fields[:0]
	for _, w := range fields {
		if strings.ToLower(strings.TrimRightFunc(w, unicode.IsPunct)) == mention {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}
