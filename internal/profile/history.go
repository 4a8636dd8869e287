package profile

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edgard/pondyguide/internal/intent"
)

// DefaultHistorySize is how many turns History keeps unless told otherwise.
const DefaultHistorySize = 10

// Message is one chat bubble. Intent is only meaningful on bot messages.
type Message struct {
	ID        string
	Text      string
	IsUser    bool
	Intent    intent.Intent
	Timestamp time.Time
}

// NewMessage stamps text with a fresh ID and the current time.
func NewMessage(text string, isUser bool) Message {
	return Message{
		ID:        uuid.NewString(),
		Text:      text,
		IsUser:    isUser,
		Intent:    intent.General,
		Timestamp: time.Now(),
	}
}

// History is a bounded FIFO of recent turns rendered as "User: ..." / "Bot: ..." lines.
type History struct {
	mu    sync.Mutex
	size  int
	lines []string
}

// NewHistory returns an empty history holding at most size lines.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{size: size}
}

// AddUser records a user turn.
func (h *History) AddUser(text string) {
	h.add("User: " + text)
}

// AddBot records a bot turn.
func (h *History) AddBot(text string) {
	h.add("Bot: " + text)
}

func (h *History) add(line string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lines = append(h.lines, line)
	if over := len(h.lines) - h.size; over > 0 {
		h.lines = append(h.lines[:0:0], h.lines[over:]...)
	}
}

// Recent returns a copy of the retained lines, oldest first.
func (h *History) Recent() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]string(nil), h.lines...)
}
