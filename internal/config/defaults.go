package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultLogLevel = "info"
	DefaultDBPath   = "pondyguide.db"

	DefaultTypingDelay  = 1500 * time.Millisecond
	DefaultTypingJitter = time.Second
	DefaultHistorySize  = 10

	DefaultRealtimeRefresh    = 30 * time.Second
	DefaultMaintenanceCron    = "0 0 3 * * *" // 03:00 daily, seconds field first
	DefaultMaxMessagesPerChat = 500
)

// Task names known to the scheduler.
const (
	TaskRealtimeRefresh = "realtime_refresh"
	TaskSQLMaintenance  = "sql_maintenance"
)

const defaultHelp = "🌺 I'm your Pondicherry travel companion. Ask me about temples, beaches, " +
	"food, transport, weather, nightlife, events or where to stay.\n\n" +
	"/start - Welcome message\n" +
	"/help - This help\n" +
	"/language <name> - Change language\n" +
	"/plan [days] - Build an itinerary\n" +
	"/prefs budget|days|group <value> - Set preferences\n" +
	"/reset - Forget our conversation"

var defaults = map[string]any{
	"logger.level": DefaultLogLevel,
	"logger.json":  false,

	"telegram.admin_user_id": 0,

	"database.path":                  DefaultDBPath,
	"database.max_messages_per_chat": DefaultMaxMessagesPerChat,

	"assistant.typing_delay":       DefaultTypingDelay,
	"assistant.typing_jitter":      DefaultTypingJitter,
	"assistant.history_size":       DefaultHistorySize,
	"assistant.random_seed":        0,
	"assistant.default_language":   "English",
	"assistant.default_budget":     "moderate",
	"assistant.default_duration":   3,
	"assistant.default_group_size": 1,

	"messages.not_authorized":     "🚫 Access denied. This command is for the administrator only.",
	"messages.general_error":      "❌ Something went wrong. Please try again later.",
	"messages.empty_message":      "ℹ️ Send me a text message and I'll help you explore Pondicherry.",
	"messages.session_reset":      "🔄 Your conversation and preferences have been reset.",
	"messages.all_sessions_reset": "🔄 All sessions have been reset.",
	"messages.language_usage":     "🌐 Usage: /language <name>\nAvailable: {languages}",
	"messages.plan_usage":         "📅 Usage: /plan [days], with days between 1 and 14.",
	"messages.prefs_usage":        "⚙️ Usage: /prefs budget|days|group <value>\n\nCurrent preferences:\n{prefs}",
	"messages.prefs_updated":      "✅ Updated {field} to {value}.",
	"messages.help":               defaultHelp,

	"scheduler.tasks." + TaskRealtimeRefresh + ".enabled":  true,
	"scheduler.tasks." + TaskRealtimeRefresh + ".interval": DefaultRealtimeRefresh,
	"scheduler.tasks." + TaskSQLMaintenance + ".enabled":   true,
	"scheduler.tasks." + TaskSQLMaintenance + ".schedule":  DefaultMaintenanceCron,
}

func setDefaults(v *viper.Viper) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}
