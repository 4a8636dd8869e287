package database

import "time"

// SessionRecord is the stored user context of one chat. Interests and VisitHistory hold
// JSON, intents encoded by name.
type SessionRecord struct {
	ChatID            int64     `db:"chat_id"`
	Name              string    `db:"name"`
	Interests         string    `db:"interests"`
	BudgetTier        string    `db:"budget_tier"`
	VisitDurationDays int       `db:"visit_duration_days"`
	GroupSize         int       `db:"group_size"`
	PreferredLanguage string    `db:"preferred_language"`
	VisitHistory      string    `db:"visit_history"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

// MessageRecord is one logged chat message. Intent is empty for user messages.
type MessageRecord struct {
	ID        string    `db:"id"` // uuid
	ChatID    int64     `db:"chat_id"`
	Text      string    `db:"text"`
	IsUser    bool      `db:"is_user"`
	Intent    string    `db:"intent"`
	Timestamp time.Time `db:"timestamp"`
	CreatedAt time.Time `db:"created_at"`
}
