package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/pondyguide/internal/assistant"
	"github.com/edgard/pondyguide/internal/profile"
)

const (
	turnTimeout        = 30 * time.Second
	sendMessageTimeout = 10 * time.Second
	dbSaveTimeout      = 5 * time.Second
	saveRetries        = 3
	saveRetryDelay     = 200 * time.Millisecond
)

// sendText sends text to chatID, logging failures.
func sendText(ctx context.Context, b *bot.Bot, deps HandlerDeps, chatID int64, text string) {
	log := deps.Logger.With("handler", "send")
	if ctx.Err() != nil {
		log.WarnContext(ctx, "Context cancelled before sending message", "chat_id", chatID, "error", ctx.Err())
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendMessageTimeout)
	defer cancel()
	if _, err := b.SendMessage(sendCtx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send message", "chat_id", chatID, "error", err)
	}
}

// commandArgs returns the whitespace-separated words after the /command.
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	return fields[1:]
}

// chatSession resolves the session of the update's chat, replying with the general error
// when it cannot be loaded.
func chatSession(ctx context.Context, b *bot.Bot, deps HandlerDeps, msg *models.Message) (*assistant.Session, bool) {
	s, err := deps.Sessions.Get(ctx, msg.Chat.ID)
	if err != nil {
		deps.Logger.ErrorContext(ctx, "Failed to load session", "chat_id", msg.Chat.ID, "error", err)
		sendText(ctx, b, deps, msg.Chat.ID, deps.Config.Messages.GeneralError)
		return nil, false
	}
	return s, true
}

// saveWithRetry persists the session and msgs, retrying transient failures with backoff.
func saveWithRetry(ctx context.Context, deps HandlerDeps, s *assistant.Session, msgs ...profile.Message) {
	log := deps.Logger.With("handler", "save")

	err := retry.Do(
		func() error {
			dbCtx, cancel := context.WithTimeout(ctx, dbSaveTimeout)
			defer cancel()
			return deps.Sessions.Save(dbCtx, s, msgs...)
		},
		retry.Context(ctx),
		retry.Attempts(saveRetries),
		retry.Delay(saveRetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.WarnContext(ctx, "Failed to save session, retrying", "chat_id", s.ChatID, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		log.ErrorContext(ctx, "Failed to save session after retries", "chat_id", s.ChatID, "retries", saveRetries, "error", err)
		return
	}
	log.DebugContext(ctx, "Session saved", "chat_id", s.ChatID, "messages", len(msgs))
}
