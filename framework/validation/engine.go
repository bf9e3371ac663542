package validation

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// RuleFunc is a custom rule predicate registered with Engine.Extend.
// It receives the field name, its raw value, the rule parameters
// ("digits:4" → ["4"]) and the full data set under validation.
//
//	engine.Extend("even", func(field string, value any, params []string, data map[string]any) bool {
//	    return cast.ToInt(value)%2 == 0
//	}, "The :attribute must be even.")
type RuleFunc func(field string, value any, params []string, data map[string]any) bool

// MessageStore supplies message templates by key ("validation.required").
// framework/translation.Translator implements it.
type MessageStore interface {
	Get(locale, key string) (string, bool)
}

type extension struct {
	rule    RuleFunc
	message string
}

// Engine is the rule-evaluation engine, Laravel's Validator factory.
// It owns the registry of custom rules, the message store and the presence
// verifier; validators it makes share those collaborators.
//
// An Engine is safe for concurrent use. The Validators it returns are not.
type Engine struct {
	mu         sync.RWMutex
	extensions map[string]extension

	messages MessageStore
	locale   string
	presence PresenceVerifier
	logger   *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithMessageStore resolves rule messages through store before the built-in defaults.
func WithMessageStore(store MessageStore) EngineOption {
	return func(e *Engine) { e.messages = store }
}

// WithDefaultLocale sets the locale used when the context carries none.
func WithDefaultLocale(locale string) EngineOption {
	return func(e *Engine) {
		if locale != "" {
			e.locale = locale
		}
	}
}

// WithPresenceVerifier enables the unique and exists rules.
func WithPresenceVerifier(v PresenceVerifier) EngineOption {
	return func(e *Engine) { e.presence = v }
}

// WithLogger sets the engine logger. Nil is ignored.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an engine with the built-in rule set.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		extensions: make(map[string]extension),
		locale:     "en",
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ── Registry ─────────────────────────────────────────────────────────────────

// Extend registers (or replaces) a custom rule.
//
//	// Laravel: Validator::extend('foo', fn($attribute, $value, $parameters, $validator) => ...)
func (e *Engine) Extend(name string, rule RuleFunc, message string) {
	if name == "" || rule == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.extensions[name] = extension{rule: rule, message: message}
	e.logger.Debug("validation rule registered", zap.String("rule", name))
}

// HasRule reports whether name is a built-in or registered rule.
func (e *Engine) HasRule(name string) bool {
	if _, ok := builtinRules[name]; ok {
		return true
	}
	_, ok := e.extension(name)
	return ok
}

func (e *Engine) extension(name string) (extension, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ext, ok := e.extensions[name]
	return ext, ok
}

// ── Evaluation ───────────────────────────────────────────────────────────────

// Make creates a Validator for data. rules maps a field to its ordered rule
// strings; messages holds custom overrides keyed by "rule" or "field.rule".
func (e *Engine) Make(ctx context.Context, data map[string]any, rules map[string][]string, messages map[string]string) *Validator {
	if ctx == nil {
		ctx = context.Background()
	}
	if data == nil {
		data = map[string]any{}
	}
	return &Validator{
		ctx:      ctx,
		engine:   e,
		data:     data,
		rules:    rules,
		messages: messages,
		errors:   NewErrors(),
	}
}

// Evaluate runs the rules once and returns the outcome with its messages.
func (e *Engine) Evaluate(ctx context.Context, data map[string]any, rules map[string][]string, messages map[string]string) (bool, *Errors) {
	v := e.Make(ctx, data, rules, messages)
	if v.Fails() {
		return false, v.Errors()
	}
	return true, v.Errors()
}

func (e *Engine) localeFor(ctx context.Context) string {
	if l := LocaleFrom(ctx); l != "" {
		return l
	}
	return e.locale
}
