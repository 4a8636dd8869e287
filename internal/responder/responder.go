// Package responder turns a classified intent into a reply: it picks a localized
// template variant, fills in live values from the user context and the realtime
// snapshot, and lists the follow-up actions the chat shell should perform.
package responder

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/edgard/pondyguide/internal/intent"
	"github.com/edgard/pondyguide/internal/itinerary"
	"github.com/edgard/pondyguide/internal/locale"
	"github.com/edgard/pondyguide/internal/profile"
	"github.com/edgard/pondyguide/internal/realtime"
)

// Confidence is reported on every response. It is a fixed value, not a computed score.
const Confidence = 0.85

// ActionType names a follow-up the chat shell performs after showing the reply.
type ActionType string

const (
	ActionShowMap         ActionType = "show_map"
	ActionCreateItinerary ActionType = "create_itinerary"
	ActionShowWeather     ActionType = "show_weather"
	ActionBookReminder    ActionType = "book_reminder"
)

// Action is a follow-up with its payload.
type Action struct {
	Type ActionType
	Data map[string]string
}

// Response is the generated reply for one turn.
type Response struct {
	Text       string
	Intent     intent.Intent
	Actions    []Action
	Confidence float64
	Itinerary  *itinerary.Plan
}

// Generator renders responses. It is safe for concurrent use.
type Generator struct {
	templates *locale.Store
	now       func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock overrides the time source used for time-of-day hints and event lookups.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator returns a generator choosing template variants with rng. A nil rng uses a
// randomly seeded source.
func NewGenerator(templates *locale.Store, rng *rand.Rand, opts ...Option) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	g := &Generator{templates: templates, rng: rng, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds the reply for in. history is accepted as conversational context but
// does not influence the reply. uc is only read.
func (g *Generator) Generate(in intent.Intent, uc *profile.UserContext, history []string, snap realtime.Snapshot) Response {
	code := locale.CodeFor(uc.PreferredLanguage)
	values := liveValues(uc, snap)
	resp := Response{Intent: in, Confidence: Confidence}

	switch in {
	case intent.Devotional:
		resp.Text = g.pick("devotional", code, values)
		switch hour := g.now().Hour(); {
		case hour < 10:
			resp.Text += "\n\n" + g.templates.Text("devotional.morning", code)
		case hour > 17:
			resp.Text += "\n\n" + g.templates.Text("devotional.evening", code)
		}
	case intent.Food:
		tier := uc.BudgetTier
		if tier != profile.TierBudget && tier != profile.TierLuxury {
			tier = profile.TierModerate
		}
		resp.Text = g.pick("food."+string(tier), code, values)
	case intent.Weather:
		adviceKey := "weather." + string(snap.Weather)
		if !g.templates.Has(adviceKey) {
			adviceKey = "weather.unknown"
		}
		values["advice"] = g.templates.Text(adviceKey, code)
		resp.Text = g.pick("weather", code, values)
	case intent.Itinerary:
		plan := itinerary.Build(uc.VisitDurationDays, uc.Interests, uc.BudgetTier)
		values["plan"] = plan.Render()
		values["total_cost"] = strconv.Itoa(plan.TotalEstimatedCost)
		resp.Text = g.pick("itinerary", code, values)
		resp.Itinerary = &plan
	case intent.Adventure, intent.Culture, intent.Transport, intent.Budget,
		intent.Party, intent.Events, intent.Accommodation:
		resp.Text = g.pick(in.String(), code, values)
	default:
		resp.Text = g.pick("general", code, values)
	}

	resp.Actions = g.actions(in, resp.Itinerary, snap)
	return resp
}

func (g *Generator) actions(in intent.Intent, plan *itinerary.Plan, snap realtime.Snapshot) []Action {
	switch in {
	case intent.Devotional:
		return []Action{mapAction(realtime.SriAurobindoAshram)}
	case intent.Adventure:
		return []Action{mapAction(realtime.ParadiseBeach)}
	case intent.Itinerary:
		data := map[string]string{}
		if plan != nil {
			data["days"] = strconv.Itoa(len(plan.Days))
			data["budget_tier"] = string(plan.BudgetTier)
			data["total_cost"] = strconv.Itoa(plan.TotalEstimatedCost)
		}
		return []Action{{Type: ActionCreateItinerary, Data: data}}
	case intent.Weather:
		return []Action{{Type: ActionShowWeather, Data: map[string]string{"weather": string(snap.Weather)}}}
	case intent.Events:
		ev := nextEvent(g.now())
		return []Action{{Type: ActionBookReminder, Data: map[string]string{
			"title":    ev.Name,
			"date":     ev.Date,
			"location": ev.Location,
		}}}
	default:
		return nil
	}
}

func mapAction(place string) Action {
	data := map[string]string{"location": place}
	if c, ok := realtime.Locate(place); ok {
		data["lat"] = strconv.FormatFloat(c.Lat, 'f', 4, 64)
		data["lng"] = strconv.FormatFloat(c.Lng, 'f', 4, 64)
	}
	return Action{Type: ActionShowMap, Data: data}
}

// Welcome returns the greeting for a new conversation, addressed by name when known.
func (g *Generator) Welcome(uc *profile.UserContext) string {
	code := locale.CodeFor(uc.PreferredLanguage)
	text := g.pick("welcome", code, nil)
	if name := strings.TrimSpace(uc.Name); name != "" && g.templates.Has("welcome.named") {
		text = g.pick("welcome.named", code, map[string]string{"name": name})
	}
	return text + "\n\n" + g.templates.Text("what_to_explore", code)
}

// LanguageChanged confirms a language switch in the new language.
func (g *Generator) LanguageChanged(language string) string {
	return g.templates.Text("language_changed", locale.CodeFor(language))
}

// Apology is the reply used when a turn fails.
func (g *Generator) Apology(language string) string {
	return g.templates.Text("apology", locale.CodeFor(language))
}

// Text renders an auxiliary message such as a map or reminder notice.
func (g *Generator) Text(key, language string, values map[string]string) string {
	return locale.Render(g.templates.Text(key, locale.CodeFor(language)), values)
}

func (g *Generator) pick(key, code string, values map[string]string) string {
	variants := g.templates.Variants(key, code)

	g.mu.Lock()
	i := g.rng.IntN(len(variants))
	g.mu.Unlock()

	return locale.Render(variants[i], values)
}

func liveValues(uc *profile.UserContext, snap realtime.Snapshot) map[string]string {
	interests := make([]string, 0, len(uc.Interests))
	for _, in := range uc.Interests {
		interests = append(interests, in.String())
	}

	return map[string]string{
		"budget":                 string(uc.BudgetTier),
		"days":                   strconv.Itoa(uc.VisitDurationDays),
		"interests":              strings.Join(interests, ", "),
		"weather":                string(snap.Weather),
		"ashram_crowd":           string(snap.Crowd(realtime.SriAurobindoAshram)),
		"promenade_crowd":        string(snap.Crowd(realtime.PromenadeBeach)),
		"paradise_crowd":         string(snap.Crowd(realtime.ParadiseBeach)),
		"french_quarter_crowd":   string(snap.Crowd(realtime.FrenchQuarter)),
		"mg_road_traffic":        string(snap.Traffic(realtime.MGRoad)),
		"mission_street_traffic": string(snap.Traffic(realtime.MissionStreet)),
		"ecr_traffic":            string(snap.Traffic(realtime.ECR)),
	}
}
