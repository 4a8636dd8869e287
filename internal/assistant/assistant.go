// Package assistant runs one chat turn end to end: classify the message, generate the
// reply against the live snapshot, and fold the intent back into the user's context.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/edgard/pondyguide/internal/intent"
	"github.com/edgard/pondyguide/internal/itinerary"
	"github.com/edgard/pondyguide/internal/profile"
	"github.com/edgard/pondyguide/internal/realtime"
	"github.com/edgard/pondyguide/internal/responder"
)

// ErrEmptyMessage is returned by Submit for blank input. Nothing is recorded.
var ErrEmptyMessage = errors.New("empty message")

// Reply is the outcome of one turn.
type Reply struct {
	Text      string
	Intent    intent.Intent
	Actions   []responder.Action
	Itinerary *itinerary.Plan
	Sentiment float64
	// Failed is set when the turn errored and Text holds the apology.
	Failed bool

	// UserMessage and BotMessage are the two entries the turn appended to the session.
	UserMessage profile.Message
	BotMessage  profile.Message
}

// Assistant is safe for concurrent use across sessions. Turns within one session are
// serialized by the session.
type Assistant struct {
	generator *responder.Generator
	feed      *realtime.Feed
	logger    *slog.Logger

	typingDelay  time.Duration
	typingJitter time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithTypingDelay sets the pause before each reply: base plus a random share of jitter.
func WithTypingDelay(base, jitter time.Duration) Option {
	return func(a *Assistant) {
		a.typingDelay = base
		a.typingJitter = jitter
	}
}

// WithRand sets the source used for the typing jitter.
func WithRand(rng *rand.Rand) Option {
	return func(a *Assistant) { a.rng = rng }
}

// New returns an assistant with no typing delay unless configured.
func New(generator *responder.Generator, feed *realtime.Feed, logger *slog.Logger, opts ...Option) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Assistant{
		generator: generator,
		feed:      feed,
		logger:    logger.With("component", "assistant"),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return a
}

// Generator exposes the response generator for auxiliary messages.
func (a *Assistant) Generator() *responder.Generator {
	return a.generator
}

// Submit runs a turn for text in session s. Blank text returns ErrEmptyMessage. A
// cancelled ctx during the typing delay returns ctx.Err() with only the user message
// recorded. Any failure while generating is logged and answered with the apology in the
// user's language; Submit itself does not return it.
func (a *Assistant) Submit(ctx context.Context, s *Session, text string) (Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{}, ErrEmptyMessage
	}

	s.turn.Lock()
	defer s.turn.Unlock()

	userMsg := profile.NewMessage(text, true)
	s.appendMessage(userMsg)
	s.history.AddUser(text)

	if err := a.wait(ctx); err != nil {
		return Reply{}, err
	}

	reply := Reply{UserMessage: userMsg}
	resp, err := a.respond(s, text)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to generate reply", "chat_id", s.ChatID, "error", err)
		reply.Text = a.generator.Apology(s.user.PreferredLanguage)
		reply.Intent = intent.General
		reply.Failed = true
	} else {
		reply.Text = resp.Text
		reply.Intent = resp.Intent
		reply.Actions = resp.Actions
		reply.Itinerary = resp.Itinerary
		profile.Personalize(s.user, resp.Intent)
	}
	reply.Sentiment = intent.Sentiment(text)

	botMsg := profile.NewMessage(reply.Text, false)
	botMsg.Intent = reply.Intent
	s.appendMessage(botMsg)
	s.history.AddBot(reply.Text)
	reply.BotMessage = botMsg

	a.logger.DebugContext(ctx, "Turn complete",
		"chat_id", s.ChatID,
		"intent", reply.Intent.String(),
		"sentiment", reply.Sentiment,
		"actions", len(reply.Actions))
	return reply, nil
}

func (a *Assistant) respond(s *Session, text string) (resp responder.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while generating reply: %v", r)
		}
	}()

	in := intent.Classify(text)
	return a.generator.Generate(in, s.user, s.history.Recent(), a.feed.Current()), nil
}

func (a *Assistant) wait(ctx context.Context) error {
	d := a.typingDelay
	if a.typingJitter > 0 {
		a.mu.Lock()
		d += time.Duration(a.rng.Int64N(int64(a.typingJitter)))
		a.mu.Unlock()
	}
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Itinerary renders the itinerary reply for the session's context with the visit length
// set to days. Nothing is recorded and the context is not changed.
func (a *Assistant) Itinerary(s *Session, days int) responder.Response {
	uc := s.User()
	uc.VisitDurationDays = days
	return a.generator.Generate(intent.Itinerary, uc, s.History(), a.feed.Current())
}
