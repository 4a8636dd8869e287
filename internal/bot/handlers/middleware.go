// Package handlers contains the Telegram command and message handlers, their
// registration table and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// AdminOnly lets only the configured admin through. With no admin configured every
// sender is refused.
func AdminOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			if update.Message == nil || update.Message.From == nil {
				return
			}

			userID := update.Message.From.ID
			adminID := deps.Config.Telegram.AdminUserID
			if adminID == 0 || userID != adminID {
				chatID := update.Message.Chat.ID
				deps.Logger.With("middleware", "AdminOnly").WarnContext(ctx, "Unauthorized access attempt", "user_id", userID, "chat_id", chatID)
				sendText(ctx, bot, deps, chatID, deps.Config.Messages.NotAuthorized)
				return
			}

			next(ctx, bot, update)
		}
	}
}
