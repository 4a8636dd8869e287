// Package itinerary builds day-by-day visit plans from fixed day templates, themed by
// the user's interests and priced by budget tier.
package itinerary

import (
	"fmt"
	"strings"

	"github.com/edgard/pondyguide/internal/intent"
	"github.com/edgard/pondyguide/internal/profile"
)

// Activity is one timed stop in a day.
type Activity struct {
	Time            string
	Name            string
	DurationMinutes int
	Location        string
	Category        intent.Intent
}

// DayPlan is the schedule for one day. TemplateDay is the day template the activities
// were taken from, which differs from DayNumber once the templates wrap around.
type DayPlan struct {
	DayNumber           int
	TemplateDay         int
	Theme               string
	Activities          []Activity
	Meals               []string
	TransportSuggestion string
	EstimatedCost       int
	CrowdForecast       string
}

// Plan is a complete itinerary.
type Plan struct {
	Days               []DayPlan
	BudgetTier         profile.BudgetTier
	CostPerDay         int
	TotalEstimatedCost int
}

var costPerDay = map[profile.BudgetTier]int{
	profile.TierBudget:   1500,
	profile.TierModerate: 2500,
	profile.TierLuxury:   4000,
}

// CostPerDay returns the flat daily estimate for tier. Unknown tiers are priced as moderate.
func CostPerDay(tier profile.BudgetTier) int {
	if cost, ok := costPerDay[tier]; ok {
		return cost
	}
	return costPerDay[profile.TierModerate]
}

// themePriority is the order in which interests claim day themes.
var themePriority = []intent.Intent{intent.Devotional, intent.Adventure, intent.Culture, intent.Food}

var interestThemes = map[intent.Intent]string{
	intent.Devotional: "Spiritual Pondicherry",
	intent.Adventure:  "Adventure & Nature",
	intent.Culture:    "French Colonial Heritage",
	intent.Food:       "Franco-Tamil Flavours",
}

var defaultThemes = []string{"French Colonial Heritage", "Adventure & Nature", "Culture & Relaxation"}

// Themes returns the theme for each of days days. Interests among devotional, adventure,
// culture and food are taken in that fixed priority order and cycled; with none of them
// the default three-theme rotation is cycled instead.
func Themes(days int, interests []intent.Intent) []string {
	var rotation []string
	for _, in := range themePriority {
		for _, have := range interests {
			if have == in {
				rotation = append(rotation, interestThemes[in])
				break
			}
		}
	}
	if len(rotation) == 0 {
		rotation = defaultThemes
	}

	themes := make([]string, days)
	for i := range themes {
		themes[i] = rotation[i%len(rotation)]
	}
	return themes
}

// Build returns a days-day plan. days is clamped to the visit duration bounds. Day
// templates exist for days 1-3; later days reuse them in order (day 4 uses template 1).
func Build(days int, interests []intent.Intent, tier profile.BudgetTier) Plan {
	days = max(profile.MinVisitDays, min(profile.MaxVisitDays, days))
	perDay := CostPerDay(tier)
	if _, ok := costPerDay[tier]; !ok {
		tier = profile.TierModerate
	}

	plan := Plan{
		Days:       make([]DayPlan, 0, days),
		BudgetTier: tier,
		CostPerDay: perDay,
	}
	for i, theme := range Themes(days, interests) {
		tmpl := dayTemplates[i%len(dayTemplates)]
		plan.Days = append(plan.Days, DayPlan{
			DayNumber:           i + 1,
			TemplateDay:         tmpl.day,
			Theme:               theme,
			Activities:          append([]Activity(nil), tmpl.activities...),
			Meals:               append([]string(nil), tmpl.meals...),
			TransportSuggestion: tmpl.transport,
			EstimatedCost:       perDay,
			CrowdForecast:       tmpl.crowd,
		})
		plan.TotalEstimatedCost += perDay
	}
	return plan
}

// Render formats the plan for a chat message.
func (p Plan) Render() string {
	var sb strings.Builder
	for _, day := range p.Days {
		fmt.Fprintf(&sb, "Day %d: %s\n", day.DayNumber, day.Theme)
		for _, a := range day.Activities {
			fmt.Fprintf(&sb, "• %s: %s (%d min)\n", a.Time, a.Name, a.DurationMinutes)
		}
		if len(day.Meals) > 0 {
			fmt.Fprintf(&sb, "🍽️ %s\n", strings.Join(day.Meals, " · "))
		}
		fmt.Fprintf(&sb, "🚲 %s\n", day.TransportSuggestion)
		fmt.Fprintf(&sb, "👥 %s\n", day.CrowdForecast)
		fmt.Fprintf(&sb, "💰 ~₹%d\n\n", day.EstimatedCost)
	}
	return sb.String()
}
