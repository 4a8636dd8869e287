// Package main contains the entrypoint for the Pondicherry travel assistant bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/pondyguide/internal/assistant"
	"github.com/edgard/pondyguide/internal/bot"
	"github.com/edgard/pondyguide/internal/bot/handlers"
	"github.com/edgard/pondyguide/internal/bot/tasks"
	"github.com/edgard/pondyguide/internal/config"
	"github.com/edgard/pondyguide/internal/database"
	"github.com/edgard/pondyguide/internal/locale"
	"github.com/edgard/pondyguide/internal/logger"
	"github.com/edgard/pondyguide/internal/profile"
	"github.com/edgard/pondyguide/internal/realtime"
	"github.com/edgard/pondyguide/internal/responder"
	"github.com/edgard/pondyguide/internal/telegram"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run wires every component, blocks until shutdown and returns the exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	envPath := flag.String("env", ".env", "Optional dotenv file with PONDY_* variables")
	flag.Parse()

	if err := config.LoadEnvFiles(*envPath); err != nil {
		slog.Error("Failed to load env file", "path", *envPath, "error", err)
		return 1
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path, log)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db, log)
	store := database.NewStore(db, log)

	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	err = store.Ping(pingCtx)
	cancelPing()
	if err != nil {
		log.Error("Database is not reachable", "path", cfg.Database.Path, "error", err)
		return 1
	}

	templates, err := locale.Default()
	if err != nil {
		log.Error("Failed to load response templates", "error", err)
		return 1
	}

	seed := cfg.Assistant.RandomSeed
	if seed == 0 {
		seed = rand.Uint64()
	}
	generator := responder.NewGenerator(templates, rand.New(rand.NewPCG(seed, 1)))
	feed := realtime.NewFeed(realtime.NewGenerator(rand.New(rand.NewPCG(seed, 2))), log)
	asst := assistant.New(generator, feed, log,
		assistant.WithTypingDelay(cfg.Assistant.TypingDelay, cfg.Assistant.TypingJitter),
		assistant.WithRand(rand.New(rand.NewPCG(seed, 3))),
	)
	sessions := assistant.NewSessions(store, newContextFunc(cfg.Assistant), cfg.Assistant.HistorySize, log)

	hDeps := handlers.HandlerDeps{
		Logger:    log,
		Config:    cfg,
		Assistant: asst,
		Sessions:  sessions,
	}
	tDeps := tasks.TaskDeps{
		Logger: log,
		Store:  store,
		Feed:   feed,
		Config: cfg,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewMessageHandler(hDeps)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	cfg.Telegram.BotInfo, err = tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", cfg.Telegram.BotInfo.ID, "bot_username", cfg.Telegram.BotInfo.Username)

	cmdHandlers := handlers.RegisterAllCommands(hDeps)
	if err := telegram.RegisterHandlers(tg, log, cmdHandlers); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}
	if err := telegram.PublishCommands(ctx, tg, cmdHandlers); err != nil {
		log.Warn("Failed to publish command menu", "error", err)
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}
	app := bot.NewBot(log, cfg, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully")
	return 0
}

// newContextFunc returns the user context factory for chats with no stored state.
func newContextFunc(cfg config.AssistantConfig) func() *profile.UserContext {
	return func() *profile.UserContext {
		uc := profile.NewUserContext()
		uc.PreferredLanguage = cfg.DefaultLanguage
		if tier, err := profile.ParseBudgetTier(cfg.DefaultBudget); err == nil {
			uc.BudgetTier = tier
		}
		if err := uc.SetVisitDuration(cfg.DefaultDuration); err != nil {
			slog.Warn("Ignoring configured default duration", "error", err)
		}
		if err := uc.SetGroupSize(cfg.DefaultGroupSize); err != nil {
			slog.Warn("Ignoring configured default group size", "error", err)
		}
		return uc
	}
}
