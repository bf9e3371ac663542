// Package translation loads per-locale message lines and serves them to the
// validation engine.
//
// Lines live in YAML files named after their locale (lang/en.yaml,
// lang/es.yaml). Nested keys are flattened with dots, so
//
//	validation:
//	  required: "The :attribute field is required."
//	  attributes:
//	    email: "email address"
//
// yields "validation.required" and "validation.attributes.email".
package translation

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cast"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedLocale is returned for a locale tag that cannot be parsed.
var ErrUnsupportedLocale = errors.New("translation: unsupported locale")

// Translator stores lines per locale. It is safe for concurrent use and
// implements validation.MessageStore.
type Translator struct {
	mu       sync.RWMutex
	lines    map[string]map[string]string // locale → key → line
	fallback string
}

// New creates a translator that falls back to the given locale.
func New(fallback string) *Translator {
	return &Translator{
		lines:    make(map[string]map[string]string),
		fallback: normalize(fallback),
	}
}

// AddLines merges lines into locale, overwriting existing keys.
func (t *Translator) AddLines(locale string, lines map[string]string) {
	locale = normalize(locale)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lines[locale] == nil {
		t.lines[locale] = make(map[string]string, len(lines))
	}
	for k, v := range lines {
		t.lines[locale][k] = v
	}
}

// Load decodes a YAML document of lines for locale.
func (t *Translator) Load(locale string, r io.Reader) error {
	if _, err := language.Parse(locale); err != nil {
		return fmt.Errorf("%w: %q", ErrUnsupportedLocale, locale)
	}
	var doc map[string]any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s lines: %w", locale, err)
	}
	lines := make(map[string]string)
	flatten("", doc, lines)
	t.AddLines(locale, lines)
	return nil
}

// LoadFile loads one file; the locale is the file name without extension.
func (t *Translator) LoadFile(path string) error {
	fh, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fh.Close()
	locale := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return t.Load(locale, fh)
}

// LoadDir loads every *.yaml and *.yml file in dir.
func (t *Translator) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read lang dir: %w", err)
	}
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		if err := t.LoadFile(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the line for key in locale, then in the locale's base language
// ("es" for "es-MX"), then in the fallback locale.
func (t *Translator) Get(locale, key string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, l := range t.chain(normalize(locale)) {
		if line, ok := t.lines[l][key]; ok {
			return line, true
		}
	}
	return "", false
}

// Locales lists the loaded locales, sorted.
func (t *Translator) Locales() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.lines))
	for l := range t.lines {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Match picks the best loaded locale for an Accept-Language header, or the
// fallback locale when nothing matches.
func (t *Translator) Match(acceptLanguage string) string {
	locales := t.Locales()
	if len(locales) == 0 {
		return t.fallback
	}
	desired, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(desired) == 0 {
		return t.fallback
	}

	// fallback first: it is what the matcher returns on no match
	supported := make([]language.Tag, 0, len(locales)+1)
	names := make([]string, 0, len(locales)+1)
	supported = append(supported, language.Make(t.fallback))
	names = append(names, t.fallback)
	for _, l := range locales {
		if l == t.fallback {
			continue
		}
		supported = append(supported, language.Make(l))
		names = append(names, l)
	}

	_, idx, conf := language.NewMatcher(supported).Match(desired...)
	if conf == language.No {
		return t.fallback
	}
	return names[idx]
}

func (t *Translator) chain(locale string) []string {
	out := []string{locale}
	if base, _, ok := strings.Cut(locale, "-"); ok {
		out = append(out, base)
	}
	if t.fallback != "" && t.fallback != locale {
		out = append(out, t.fallback)
	}
	return out
}

func normalize(locale string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(locale)), "_", "-")
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case nil:
			out[key] = ""
		default:
			out[key] = cast.ToString(val)
		}
	}
}
