package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler is a command handler with its match rules and middleware.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
	// Description is shown in the Telegram command menu.
	Description string
}

func command(pattern, description string, h tgbot.HandlerFunc, mw ...tgbot.Middleware) RegisteredHandler {
	return RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     pattern,
		Handler:     h,
		Middleware:  mw,
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Description: description,
	}
}

// RegisterAllCommands returns every bot command keyed by its slash form. Free text is
// served by the default handler, see NewMessageHandler.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	return map[string]RegisteredHandler{
		"/start":     command("start", "Start a conversation", NewStartHandler(deps)),
		"/help":      command("help", "Show what I can do", NewHelpHandler(deps)),
		"/language":  command("language", "Change the reply language", NewLanguageHandler(deps)),
		"/plan":      command("plan", "Plan a trip of 1-14 days", NewPlanHandler(deps)),
		"/prefs":     command("prefs", "Set budget, days or group size", NewPrefsHandler(deps)),
		"/reset":     command("reset", "Forget this conversation", NewResetHandler(deps)),
		"/reset_all": command("reset_all", "", NewResetAllHandler(deps), AdminOnly(deps)),
	}
}
