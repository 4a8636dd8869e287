// Package locale holds the localized response templates and the supported language list.
package locale

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// BaseCode is the locale every lookup falls back to.
const BaseCode = "en"

// NotAvailable is returned when a key is missing from both the requested and the base locale.
const NotAvailable = "Message not available"

//go:embed templates.json
var templatesJSON []byte

// Language is a selectable chat language.
type Language struct {
	Name string
	Code string
}

// Languages lists the languages a user can select, in menu order.
var Languages = []Language{
	{Name: "English", Code: "en"},
	{Name: "French", Code: "fr"},
	{Name: "Tamil", Code: "ta"},
	{Name: "Hindi", Code: "hi"},
	{Name: "Spanish", Code: "es"},
	{Name: "German", Code: "de"},
}

// FindLanguage returns the language whose name or code matches s, ignoring case.
func FindLanguage(s string) (Language, bool) {
	s = strings.TrimSpace(s)
	for _, l := range Languages {
		if strings.EqualFold(l.Name, s) || strings.EqualFold(l.Code, s) {
			return l, true
		}
	}
	return Language{}, false
}

// CodeFor maps a language name to its locale code, defaulting to BaseCode.
func CodeFor(name string) string {
	if l, ok := FindLanguage(name); ok {
		return l.Code
	}
	return BaseCode
}

// Store maps template keys to per-locale variant lists.
type Store struct {
	entries map[string]map[string][]string
}

// NewStore builds a store from key → locale code → variants.
func NewStore(entries map[string]map[string][]string) *Store {
	return &Store{entries: entries}
}

// Default returns the store backed by the embedded templates.
func Default() (*Store, error) {
	var entries map[string]map[string][]string
	if err := json.Unmarshal(templatesJSON, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse embedded templates: %w", err)
	}
	return NewStore(entries), nil
}

// Variants returns the template variants for key in the locale code. A key missing in
// code falls back to BaseCode, then to a single NotAvailable entry.
func (s *Store) Variants(key, code string) []string {
	byLocale := s.entries[key]
	if v := byLocale[code]; len(v) > 0 {
		return v
	}
	if v := byLocale[BaseCode]; len(v) > 0 {
		return v
	}
	return []string{NotAvailable}
}

// Text returns the first variant for key in code, with the same fallback as Variants.
func (s *Store) Text(key, code string) string {
	return s.Variants(key, code)[0]
}

// Keys returns every template key, sorted.
func (s *Store) Keys() []string {
	return slices.Sorted(maps.Keys(s.entries))
}

// Has reports whether key exists in at least the base locale.
func (s *Store) Has(key string) bool {
	return len(s.entries[key][BaseCode]) > 0
}

// Render replaces {placeholder} markers in tmpl with values. Unknown markers are left as is.
func Render(tmpl string, values map[string]string) string {
	if len(values) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
