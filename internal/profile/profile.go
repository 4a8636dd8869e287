// Package profile holds the per-session user context, the conversation history and the
// personalization rules that fold each classified intent back into the context.
package profile

import (
	"fmt"
	"slices"
	"strings"

	"github.com/edgard/pondyguide/internal/intent"
)

// MaxInterests bounds UserContext.Interests.
const MaxInterests = 5

// Visit duration bounds, in days.
const (
	MinVisitDays = 1
	MaxVisitDays = 14
)

// BudgetTier selects cost estimates and price ranges.
type BudgetTier string

const (
	TierBudget   BudgetTier = "budget"
	TierModerate BudgetTier = "moderate"
	TierLuxury   BudgetTier = "luxury"
)

// ParseBudgetTier validates a tier name.
func ParseBudgetTier(s string) (BudgetTier, error) {
	switch tier := BudgetTier(strings.ToLower(strings.TrimSpace(s))); tier {
	case TierBudget, TierModerate, TierLuxury:
		return tier, nil
	default:
		return "", fmt.Errorf("unknown budget tier %q", s)
	}
}

// UserContext is the mutable profile of one chat user.
type UserContext struct {
	Name              string                `json:"name"`
	Interests         []intent.Intent       `json:"interests"`
	BudgetTier        BudgetTier            `json:"budget_tier"`
	VisitDurationDays int                   `json:"visit_duration_days"`
	GroupSize         int                   `json:"group_size"`
	PreferredLanguage string                `json:"preferred_language"`
	VisitHistory      map[intent.Intent]int `json:"visit_history"`
}

// NewUserContext returns the defaults a new session starts with.
func NewUserContext() *UserContext {
	return &UserContext{
		Interests:         []intent.Intent{intent.Culture, intent.Adventure},
		BudgetTier:        TierModerate,
		VisitDurationDays: 3,
		GroupSize:         1,
		PreferredLanguage: "English",
		VisitHistory:      map[intent.Intent]int{},
	}
}

// SetVisitDuration updates the visit length after checking it is within bounds.
func (c *UserContext) SetVisitDuration(days int) error {
	if days < MinVisitDays || days > MaxVisitDays {
		return fmt.Errorf("visit duration must be between %d and %d days, got %d", MinVisitDays, MaxVisitDays, days)
	}
	c.VisitDurationDays = days
	return nil
}

// SetGroupSize updates the group size.
func (c *UserContext) SetGroupSize(n int) error {
	if n < 1 {
		return fmt.Errorf("group size must be at least 1, got %d", n)
	}
	c.GroupSize = n
	return nil
}

// HasInterest reports whether in is among the user's interests.
func (c *UserContext) HasInterest(in intent.Intent) bool {
	return slices.Contains(c.Interests, in)
}

// Personalize records that the user just asked about in. A new non-general intent is
// appended to Interests, dropping the oldest entries beyond MaxInterests. Every intent,
// general included, bumps its VisitHistory counter.
func Personalize(c *UserContext, in intent.Intent) {
	if in != intent.General && !c.HasInterest(in) {
		c.Interests = append(c.Interests, in)
		if n := len(c.Interests); n > MaxInterests {
			c.Interests = slices.Clone(c.Interests[n-MaxInterests:])
		}
	}

	if c.VisitHistory == nil {
		c.VisitHistory = map[intent.Intent]int{}
	}
	c.VisitHistory[in]++
}

// Clone returns a deep copy of c.
func (c *UserContext) Clone() *UserContext {
	out := *c
	out.Interests = slices.Clone(c.Interests)
	out.VisitHistory = make(map[intent.Intent]int, len(c.VisitHistory))
	for k, v := range c.VisitHistory {
		out.VisitHistory[k] = v
	}
	return &out
}
