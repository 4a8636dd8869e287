// Package config loads the bot configuration from a YAML file, PONDY_* environment
// variables and built-in defaults.
package config

import (
	"errors"
	"time"

	"github.com/go-telegram/bot/models"
)

// ErrConfiguration wraps every loading or validation failure.
var ErrConfiguration = errors.New("configuration error")

// Config is the complete application configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Messages  MessagesConfig  `mapstructure:"messages"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

type TelegramConfig struct {
	Token       string `mapstructure:"token"         validate:"required"`
	AdminUserID int64  `mapstructure:"admin_user_id" validate:"gte=0"`

	// BotInfo is filled in at startup from getMe.
	BotInfo *models.User `mapstructure:"-"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
	// MaxMessagesPerChat bounds the stored message log per chat; 0 keeps everything.
	MaxMessagesPerChat int `mapstructure:"max_messages_per_chat" validate:"gte=0"`
}

// AssistantConfig tunes the conversation engine.
type AssistantConfig struct {
	TypingDelay  time.Duration `mapstructure:"typing_delay"  validate:"gte=0"`
	TypingJitter time.Duration `mapstructure:"typing_jitter" validate:"gte=0"`
	HistorySize  int           `mapstructure:"history_size"  validate:"gte=1"`
	// RandomSeed makes replies reproducible when non-zero.
	RandomSeed uint64 `mapstructure:"random_seed"`

	DefaultLanguage  string `mapstructure:"default_language"   validate:"oneof=English French Tamil Hindi Spanish German"`
	DefaultBudget    string `mapstructure:"default_budget"     validate:"oneof=budget moderate luxury"`
	DefaultDuration  int    `mapstructure:"default_duration"   validate:"min=1,max=14"`
	DefaultGroupSize int    `mapstructure:"default_group_size" validate:"gte=1"`
}

// MessagesConfig holds the fixed texts of the chat shell. LanguageUsage may use
// {languages}, PrefsUsage {prefs} and PrefsUpdated {field} and {value}; a text without
// them is sent as is.
type MessagesConfig struct {
	NotAuthorized    string `mapstructure:"not_authorized"     validate:"required"`
	GeneralError     string `mapstructure:"general_error"      validate:"required"`
	EmptyMessage     string `mapstructure:"empty_message"      validate:"required"`
	Help             string `mapstructure:"help"               validate:"required"`
	SessionReset     string `mapstructure:"session_reset"      validate:"required"`
	AllSessionsReset string `mapstructure:"all_sessions_reset" validate:"required"`
	LanguageUsage    string `mapstructure:"language_usage"     validate:"required"`
	PlanUsage        string `mapstructure:"plan_usage"         validate:"required"`
	PrefsUsage       string `mapstructure:"prefs_usage"        validate:"required"`
	PrefsUpdated     string `mapstructure:"prefs_updated"      validate:"required"`
}

type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig schedules one task either on a cron Schedule or every Interval.
type TaskConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Schedule string        `mapstructure:"schedule"`
	Interval time.Duration `mapstructure:"interval" validate:"gte=0"`
}
