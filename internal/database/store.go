package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the persistence operations for chat sessions.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// LoadSession returns the stored session for chatID, or nil, nil if there is none.
	LoadSession(ctx context.Context, chatID int64) (*SessionRecord, error)

	// SaveSession inserts or updates a session.
	SaveSession(ctx context.Context, session *SessionRecord) error

	// SaveMessage appends a message to the chat log. Saving an existing ID is a no-op.
	SaveMessage(ctx context.Context, message *MessageRecord) error

	// GetRecentMessages returns up to limit of the chat's latest messages, oldest first.
	GetRecentMessages(ctx context.Context, chatID int64, limit int) ([]MessageRecord, error)

	// DeleteSession removes a chat's session and its messages.
	DeleteSession(ctx context.Context, chatID int64) error

	// DeleteAllSessions removes every session and message.
	DeleteAllSessions(ctx context.Context) error

	// TrimMessages keeps only the newest keep messages of every chat and returns how many
	// were deleted.
	TrimMessages(ctx context.Context, keep int) (int64, error)

	// RunSQLMaintenance performs VACUUM and ANALYZE.
	RunSQLMaintenance(ctx context.Context) error
}

type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore returns a Store backed by db.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) LoadSession(ctx context.Context, chatID int64) (*SessionRecord, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("chat_id cannot be zero")
	}

	var session SessionRecord
	query := `SELECT chat_id, name, interests, budget_tier, visit_duration_days, group_size,
	                 preferred_language, visit_history, created_at, updated_at
	          FROM sessions WHERE chat_id = ?`

	err := s.db.GetContext(ctx, &session, query, chatID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No stored session", "chat_id", chatID)
		return nil, nil

	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		return nil, err

	case err != nil:
		s.logger.ErrorContext(ctx, "Error loading session", "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("failed to load session for chat %d: %w", chatID, err)
	}

	return &session, nil
}

func (s *sqlxStore) SaveSession(ctx context.Context, session *SessionRecord) error {
	if session == nil {
		return fmt.Errorf("cannot save nil session")
	}
	if session.ChatID == 0 {
		return fmt.Errorf("session must have a non-zero chat_id")
	}

	now := time.Now().UTC()
	session.UpdatedAt = now
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}

	query := `
		INSERT INTO sessions (
			chat_id, name, interests, budget_tier, visit_duration_days, group_size,
			preferred_language, visit_history, created_at, updated_at
		) VALUES (
			:chat_id, :name, :interests, :budget_tier, :visit_duration_days, :group_size,
			:preferred_language, :visit_history, :created_at, :updated_at
		)
		ON CONFLICT (chat_id) DO UPDATE SET
			name = excluded.name,
			interests = excluded.interests,
			budget_tier = excluded.budget_tier,
			visit_duration_days = excluded.visit_duration_days,
			group_size = excluded.group_size,
			preferred_language = excluded.preferred_language,
			visit_history = excluded.visit_history,
			updated_at = excluded.updated_at
	`
	if _, err := s.db.NamedExecContext(ctx, query, session); err != nil {
		s.logger.ErrorContext(ctx, "Error saving session", "chat_id", session.ChatID, "error", err)
		return fmt.Errorf("failed to save session for chat %d: %w", session.ChatID, err)
	}

	s.logger.DebugContext(ctx, "Session saved", "chat_id", session.ChatID)
	return nil
}

func (s *sqlxStore) SaveMessage(ctx context.Context, message *MessageRecord) error {
	if message == nil {
		return fmt.Errorf("cannot save nil message")
	}
	if message.ID == "" {
		return fmt.Errorf("message must have an id")
	}
	if message.ChatID == 0 {
		return fmt.Errorf("message must have a non-zero chat_id")
	}
	if message.Timestamp.IsZero() {
		return fmt.Errorf("message must have a non-zero timestamp")
	}
	message.CreatedAt = time.Now().UTC()

	query := `
		INSERT INTO messages (id, chat_id, text, is_user, intent, timestamp, created_at)
		VALUES (:id, :chat_id, :text, :is_user, :intent, :timestamp, :created_at)
		ON CONFLICT (id) DO NOTHING
	`
	result, err := s.db.NamedExecContext(ctx, query, message)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving message", "chat_id", message.ChatID, "error", err)
		return fmt.Errorf("failed to save message (chat %d): %w", message.ChatID, err)
	}

	// A retried save of the same message is a no-op.
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		s.logger.DebugContext(ctx, "Message already stored", "chat_id", message.ChatID, "message_id", message.ID)
	}
	return nil
}

func (s *sqlxStore) GetRecentMessages(ctx context.Context, chatID int64, limit int) ([]MessageRecord, error) {
	if chatID == 0 {
		return nil, fmt.Errorf("chat_id cannot be zero")
	}
	if limit <= 0 {
		limit = 20
	}

	var messages []MessageRecord
	query := `
		SELECT id, chat_id, text, is_user, intent, timestamp, created_at FROM (
			SELECT rowid AS seq, * FROM messages
			WHERE chat_id = ?
			ORDER BY timestamp DESC, rowid DESC
			LIMIT ?
		) ORDER BY timestamp ASC, seq ASC
	`
	if err := s.db.SelectContext(ctx, &messages, query, chatID, limit); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "Error getting recent messages", "chat_id", chatID, "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to get recent messages for chat %d: %w", chatID, err)
	}
	return messages, nil
}

func (s *sqlxStore) DeleteSession(ctx context.Context, chatID int64) error {
	return s.inTx(ctx, "delete session", func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE chat_id = ?`, chatID); err != nil {
			return fmt.Errorf("failed to delete messages for chat %d: %w", chatID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE chat_id = ?`, chatID); err != nil {
			return fmt.Errorf("failed to delete session for chat %d: %w", chatID, err)
		}
		s.logger.InfoContext(ctx, "Session deleted", "chat_id", chatID)
		return nil
	})
}

func (s *sqlxStore) DeleteAllSessions(ctx context.Context) error {
	return s.inTx(ctx, "delete all sessions", func(tx *sqlx.Tx) error {
		messages, err := tx.ExecContext(ctx, `DELETE FROM messages`)
		if err != nil {
			return fmt.Errorf("failed to delete messages: %w", err)
		}
		sessions, err := tx.ExecContext(ctx, `DELETE FROM sessions`)
		if err != nil {
			return fmt.Errorf("failed to delete sessions: %w", err)
		}

		messagesCount, _ := messages.RowsAffected()
		sessionsCount, _ := sessions.RowsAffected()
		s.logger.InfoContext(ctx, "Deleted all sessions",
			"messages_deleted", messagesCount,
			"sessions_deleted", sessionsCount)
		return nil
	})
}

func (s *sqlxStore) TrimMessages(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, fmt.Errorf("keep must be positive, got %d", keep)
	}

	query := `
		DELETE FROM messages WHERE rowid IN (
			SELECT seq FROM (
				SELECT rowid AS seq,
				       ROW_NUMBER() OVER (PARTITION BY chat_id ORDER BY timestamp DESC, rowid DESC) AS rn
				FROM messages
			) WHERE rn > ?
		)
	`
	result, err := s.db.ExecContext(ctx, query, keep)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error trimming messages", "keep", keep, "error", err)
		return 0, fmt.Errorf("failed to trim messages: %w", err)
	}

	deleted, _ := result.RowsAffected()
	s.logger.DebugContext(ctx, "Trimmed messages", "keep", keep, "deleted", deleted)
	return deleted, nil
}

func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance")

	// VACUUM cannot run inside a transaction.
	for _, stmt := range []string{"VACUUM;", "ANALYZE;"} {
		_, err := s.db.ExecContext(ctx, stmt)
		switch {
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
			s.logger.WarnContext(ctx, "Database maintenance timed out or was cancelled", "statement", stmt, "error", err)
			return fmt.Errorf("database maintenance (%s) timed out: %w", stmt, err)
		case err != nil:
			s.logger.ErrorContext(ctx, "Database maintenance failed", "statement", stmt, "error", err)
			return fmt.Errorf("failed to execute %s: %w", stmt, err)
		}
	}

	s.logger.InfoContext(ctx, "Database maintenance completed successfully")
	return nil
}

// inTx runs fn in a transaction, rolling back when fn fails.
func (s *sqlxStore) inTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction", "op", op, "error", err)
		return fmt.Errorf("failed to begin transaction for %s: %w", op, err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				s.logger.WarnContext(ctx, "Error rolling back transaction", "op", op, "error", rollbackErr)
			}
		}
	}()

	if err := fn(tx); err != nil {
		s.logger.ErrorContext(ctx, "Transaction failed", "op", op, "error", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction", "op", op, "error", err)
		return fmt.Errorf("failed to commit %s: %w", op, err)
	}
	tx = nil
	return nil
}
