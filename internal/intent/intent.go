// Package intent classifies free-text chat messages into a closed set of travel intents
// using keyword substring scoring.
package intent

import (
	"fmt"
	"strings"
)

// Intent is the classified category of a user message.
type Intent uint8

// Declaration order matters: ties in Classify resolve to the earlier intent.
const (
	Devotional Intent = iota
	Adventure
	Culture
	Food
	Transport
	Itinerary
	Budget
	Weather
	Party
	Events
	Accommodation
	General
)

var names = [...]string{
	Devotional:    "devotional",
	Adventure:     "adventure",
	Culture:       "culture",
	Food:          "food",
	Transport:     "transport",
	Itinerary:     "itinerary",
	Budget:        "budget",
	Weather:       "weather",
	Party:         "party",
	Events:        "events",
	Accommodation: "accommodation",
	General:       "general",
}

// All returns every intent in declaration order.
func All() []Intent {
	all := make([]Intent, 0, len(names))
	for i := range names {
		all = append(all, Intent(i))
	}
	return all
}

func (i Intent) String() string {
	if int(i) < len(names) {
		return names[i]
	}
	return fmt.Sprintf("intent(%d)", uint8(i))
}

// Valid reports whether i is a member of the enumeration.
func (i Intent) Valid() bool {
	return int(i) < len(names)
}

// Parse returns the intent named s (case-insensitive).
func Parse(s string) (Intent, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range names {
		if name == s {
			return Intent(i), nil
		}
	}
	return General, fmt.Errorf("unknown intent %q", s)
}

// MarshalText encodes the intent by name so it can be used as a JSON value or map key.
func (i Intent) MarshalText() ([]byte, error) {
	if !i.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid intent %d", uint8(i))
	}
	return []byte(i.String()), nil
}

// UnmarshalText decodes an intent name.
func (i *Intent) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
