package locale_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/edgard/pondyguide/internal/locale"
)

func TestStore_Fallback(t *testing.T) {
	t.Parallel()

	store := locale.NewStore(map[string]map[string][]string{
		"greeting":  {"en": {"Hello"}, "fr": {"Bonjour"}},
		"base_only": {"en": {"Only English"}},
		"no_base":   {"fr": {"Seulement français"}},
	})

	tests := []struct {
		name string
		key  string
		code string
		want string
	}{
		{name: "translated", key: "greeting", code: "fr", want: "Bonjour"},
		{name: "base locale", key: "greeting", code: "en", want: "Hello"},
		{name: "missing translation uses base", key: "base_only", code: "ta", want: "Only English"},
		{name: "unknown locale uses base", key: "greeting", code: "xx", want: "Hello"},
		{name: "missing key", key: "nope", code: "fr", want: locale.NotAvailable},
		{name: "missing in both", key: "no_base", code: "de", want: locale.NotAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := store.Text(tt.key, tt.code); got != tt.want {
				t.Errorf("Text(%q, %q) = %q, want %q", tt.key, tt.code, got, tt.want)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	t.Parallel()

	store, err := locale.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	for _, key := range []string{"welcome", "apology", "language_changed", "general", "itinerary"} {
		if !store.Has(key) {
			t.Errorf("embedded templates missing base entry for %q", key)
		}
	}

	if got := store.Variants("general", "en"); len(got) < 2 {
		t.Errorf("general variants = %d, want at least 2", len(got))
	}

	// Intent replies exist only in English.
	if got, want := store.Text("budget", "fr"), store.Text("budget", "en"); got != want {
		t.Errorf("Text(budget, fr) = %q, want base %q", got, want)
	}
	if got := store.Text("language_changed", "ta"); got == store.Text("language_changed", "en") {
		t.Error("Tamil language_changed should be translated")
	}
}

func TestFindLanguage(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"French", "french", " FR "} {
		l, ok := locale.FindLanguage(in)
		if !ok || l.Code != "fr" {
			t.Errorf("FindLanguage(%q) = %+v, %v; want fr", in, l, ok)
		}
	}
	if _, ok := locale.FindLanguage("Klingon"); ok {
		t.Error("FindLanguage(Klingon) should fail")
	}
	if got := locale.CodeFor("Klingon"); got != locale.BaseCode {
		t.Errorf("CodeFor(Klingon) = %q, want %q", got, locale.BaseCode)
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	got := locale.Render("Weather {weather}, crowd {crowd}, {unknown}", map[string]string{
		"weather": "sunny",
		"crowd":   "low",
	})
	if want := "Weather sunny, crowd low, {unknown}"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

// Every embedded key is looked up somewhere; a key added here must also be rendered.
func TestDefault_Keys(t *testing.T) {
	t.Parallel()

	store, err := locale.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}

	want := []string{
		"accommodation", "adventure", "apology", "budget", "culture",
		"devotional", "devotional.evening", "devotional.morning", "events",
		"food.budget", "food.luxury", "food.moderate", "general", "itinerary",
		"language_changed", "map.opening", "party", "reminder.set", "transport",
		"weather", "weather.cloudy", "weather.note", "weather.rainy", "weather.sunny",
		"weather.unknown", "weather.windy", "welcome", "welcome.named", "what_to_explore",
	}
	if diff := cmp.Diff(want, store.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}
