package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/edgard/pondyguide/internal/database"
	"github.com/edgard/pondyguide/internal/intent"
	"github.com/edgard/pondyguide/internal/profile"
)

// Session is one chat's conversation state. The turn lock is held for a whole Submit,
// so a second message from the same chat waits for the first reply.
type Session struct {
	ChatID int64

	turn    sync.Mutex
	user    *profile.UserContext
	history *profile.History

	msgMu    sync.RWMutex
	messages []profile.Message
}

// NewSession returns a session for chatID starting from uc.
func NewSession(chatID int64, uc *profile.UserContext, historySize int) *Session {
	if uc == nil {
		uc = profile.NewUserContext()
	}
	return &Session{
		ChatID:  chatID,
		user:    uc,
		history: profile.NewHistory(historySize),
	}
}

// User returns a copy of the session's user context.
func (s *Session) User() *profile.UserContext {
	s.turn.Lock()
	defer s.turn.Unlock()
	return s.user.Clone()
}

// Update applies fn to the user context between turns.
func (s *Session) Update(fn func(uc *profile.UserContext) error) error {
	s.turn.Lock()
	defer s.turn.Unlock()
	return fn(s.user)
}

// Messages returns the chat log, oldest first.
func (s *Session) Messages() []profile.Message {
	s.msgMu.RLock()
	defer s.msgMu.RUnlock()
	return append([]profile.Message(nil), s.messages...)
}

// History returns the recent conversation lines.
func (s *Session) History() []string {
	return s.history.Recent()
}

func (s *Session) appendMessage(m profile.Message) {
	s.msgMu.Lock()
	s.messages = append(s.messages, m)
	s.msgMu.Unlock()
}

func (s *Session) restoreMessage(m profile.Message) {
	s.appendMessage(m)
	if m.IsUser {
		s.history.AddUser(m.Text)
	} else {
		s.history.AddBot(m.Text)
	}
}

// SessionStore persists user contexts and the message log. Implemented by database.Store.
type SessionStore interface {
	LoadSession(ctx context.Context, chatID int64) (*database.SessionRecord, error)
	SaveSession(ctx context.Context, session *database.SessionRecord) error
	SaveMessage(ctx context.Context, message *database.MessageRecord) error
	GetRecentMessages(ctx context.Context, chatID int64, limit int) ([]database.MessageRecord, error)
	DeleteSession(ctx context.Context, chatID int64) error
	DeleteAllSessions(ctx context.Context) error
}

// Sessions keeps live sessions by chat ID, loading them from the store on first use.
// A nil store keeps everything in memory.
type Sessions struct {
	store       SessionStore
	newContext  func() *profile.UserContext
	historySize int
	logger      *slog.Logger

	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewSessions returns a session registry. newContext supplies the context of chats with
// no stored state; nil uses profile.NewUserContext.
func NewSessions(store SessionStore, newContext func() *profile.UserContext, historySize int, logger *slog.Logger) *Sessions {
	if newContext == nil {
		newContext = profile.NewUserContext
	}
	if logger == nil {
		logger = slog.Default()
	}
	if historySize <= 0 {
		historySize = profile.DefaultHistorySize
	}
	return &Sessions{
		store:       store,
		newContext:  newContext,
		historySize: historySize,
		logger:      logger.With("component", "sessions"),
		sessions:    make(map[int64]*Session),
	}
}

// Get returns the session for chatID, creating it when needed. A stored session comes
// back with its context and its latest messages.
func (m *Sessions) Get(ctx context.Context, chatID int64) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[chatID]; ok {
		return s, nil
	}

	uc := m.newContext()
	var recent []database.MessageRecord
	if m.store != nil {
		rec, err := m.store.LoadSession(ctx, chatID)
		if err != nil {
			return nil, fmt.Errorf("failed to load session for chat %d: %w", chatID, err)
		}
		if rec != nil {
			if uc, err = contextFromRecord(rec); err != nil {
				return nil, fmt.Errorf("failed to decode session for chat %d: %w", chatID, err)
			}
			if recent, err = m.store.GetRecentMessages(ctx, chatID, m.historySize); err != nil {
				return nil, fmt.Errorf("failed to load messages for chat %d: %w", chatID, err)
			}
			m.logger.DebugContext(ctx, "Session restored", "chat_id", chatID, "messages", len(recent))
		}
	}

	s := NewSession(chatID, uc, m.historySize)
	for _, rec := range recent {
		s.restoreMessage(messageFromRecord(rec))
	}
	m.sessions[chatID] = s
	return s, nil
}

// Save stores the session's user context and the given messages. A session dropped by
// Reset or ResetAll is no longer saved, so a turn that was running during the reset
// cannot bring it back.
func (m *Sessions) Save(ctx context.Context, s *Session, msgs ...profile.Message) error {
	if m.store == nil {
		return nil
	}

	// User waits for a running turn; take it before m.mu so Get is not blocked meanwhile.
	rec, err := recordFromContext(s.ChatID, s.User())
	if err != nil {
		return fmt.Errorf("failed to encode session for chat %d: %w", s.ChatID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sessions[s.ChatID] != s {
		m.logger.DebugContext(ctx, "Skipping save of reset session", "chat_id", s.ChatID)
		return nil
	}
	if err := m.store.SaveSession(ctx, rec); err != nil {
		return err
	}
	for _, msg := range msgs {
		if err := m.store.SaveMessage(ctx, messageRecord(s.ChatID, msg)); err != nil {
			return err
		}
	}
	return nil
}

// Reset forgets the chat's session in memory and in the store.
func (m *Sessions) Reset(ctx context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, chatID)
	if m.store == nil {
		return nil
	}
	return m.store.DeleteSession(ctx, chatID)
}

// ResetAll forgets every session.
func (m *Sessions) ResetAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clear(m.sessions)
	if m.store == nil {
		return nil
	}
	return m.store.DeleteAllSessions(ctx)
}

func recordFromContext(chatID int64, uc *profile.UserContext) (*database.SessionRecord, error) {
	interests, err := json.Marshal(uc.Interests)
	if err != nil {
		return nil, err
	}
	visits, err := json.Marshal(uc.VisitHistory)
	if err != nil {
		return nil, err
	}
	return &database.SessionRecord{
		ChatID:            chatID,
		Name:              uc.Name,
		Interests:         string(interests),
		BudgetTier:        string(uc.BudgetTier),
		VisitDurationDays: uc.VisitDurationDays,
		GroupSize:         uc.GroupSize,
		PreferredLanguage: uc.PreferredLanguage,
		VisitHistory:      string(visits),
	}, nil
}

func contextFromRecord(rec *database.SessionRecord) (*profile.UserContext, error) {
	uc := &profile.UserContext{
		Name:              rec.Name,
		BudgetTier:        profile.BudgetTier(rec.BudgetTier),
		VisitDurationDays: rec.VisitDurationDays,
		GroupSize:         rec.GroupSize,
		PreferredLanguage: rec.PreferredLanguage,
	}
	if err := json.Unmarshal([]byte(rec.Interests), &uc.Interests); err != nil {
		return nil, fmt.Errorf("interests: %w", err)
	}
	if err := json.Unmarshal([]byte(rec.VisitHistory), &uc.VisitHistory); err != nil {
		return nil, fmt.Errorf("visit history: %w", err)
	}
	if uc.VisitHistory == nil {
		uc.VisitHistory = map[intent.Intent]int{}
	}
	return uc, nil
}

func messageFromRecord(rec database.MessageRecord) profile.Message {
	in, err := intent.Parse(rec.Intent)
	if err != nil {
		in = intent.General
	}
	return profile.Message{
		ID:        rec.ID,
		Text:      rec.Text,
		IsUser:    rec.IsUser,
		Intent:    in,
		Timestamp: rec.Timestamp,
	}
}

func messageRecord(chatID int64, m profile.Message) *database.MessageRecord {
	rec := &database.MessageRecord{
		ID:        m.ID,
		ChatID:    chatID,
		Text:      m.Text,
		IsUser:    m.IsUser,
		Timestamp: m.Timestamp.UTC(),
	}
	if !m.IsUser {
		rec.Intent = m.Intent.String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	return rec
}
