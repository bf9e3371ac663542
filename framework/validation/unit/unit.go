package unit

import (
	"context"

	"go.uber.org/zap"

	"github.com/km-arc/go-laravel-validation/framework/validation"
)

// Evaluator is the rule-evaluation engine a Unit delegates to.
// *validation.Engine implements it.
type Evaluator interface {
	Evaluate(ctx context.Context, attributes map[string]any, rules map[string][]string, messages map[string]string) (bool, *validation.Errors)
	Extend(name string, rule validation.RuleFunc, message string)
}

// AttributeSource supplies the input when a unit is built without explicit
// attributes, like Laravel's Input::all(). *http.Request wrappers implement it.
type AttributeSource interface {
	All() map[string]any
}

// SourceFunc adapts a plain function to AttributeSource.
type SourceFunc func() map[string]any

// All implements AttributeSource.
func (f SourceFunc) All() map[string]any { return f() }

// Unit is one validator: attributes, scoped rules, bindings, custom messages
// and the peer units it was extended with.
//
// A Unit is not safe for concurrent use.
type Unit struct {
	name         string
	engine       Evaluator
	definition   Definition
	attributes   map[string]any
	source       AttributeSource
	messages     map[string]string
	scopes       []string
	bindings     Bindings
	peers        []*Unit
	defaultScope string
	connection   string
	logger       *zap.Logger

	// nil until the first pass
	errors *validation.Errors
}

// Option configures a Unit at construction.
type Option func(*Unit)

// WithAttributes sets the data under validation.
func WithAttributes(attributes map[string]any) Option {
	return func(u *Unit) { u.attributes = attributes }
}

// WithSource pulls attributes from src when none are given explicitly.
func WithSource(src AttributeSource) Option {
	return func(u *Unit) { u.source = src }
}

// WithScopes activates scopes, same as calling With.
func WithScopes(scopes ...string) Option {
	return func(u *Unit) { u.With(scopes...) }
}

// WithPeers attaches peer units, same as calling Extend.
func WithPeers(peers ...*Unit) Option {
	return func(u *Unit) { u.Extend(peers...) }
}

// WithDefaultScope renames the base scope (default "default").
func WithDefaultScope(scope string) Option {
	return func(u *Unit) {
		if scope != "" {
			u.defaultScope = scope
		}
	}
}

// WithConnection forwards a presence-verifier connection to the engine.
func WithConnection(name string) Option {
	return func(u *Unit) { u.connection = name }
}

// WithName labels the unit in logs.
func WithName(name string) Option {
	return func(u *Unit) { u.name = name }
}

// WithLogger sets the unit logger. Nil is ignored.
func WithLogger(l *zap.Logger) Option {
	return func(u *Unit) {
		if l != nil {
			u.logger = l
		}
	}
}

// New creates a Unit for def, evaluated by engine.
//
//	// Laravel: UserValidator::make($input, 'edit', $profileValidator)
//	user := unit.New(engine, validators.User(),
//	    unit.WithAttributes(input),
//	    unit.WithScopes("edit"),
//	    unit.WithPeers(profile),
//	)
func New(engine Evaluator, def Definition, opts ...Option) *Unit {
	u := &Unit{
		engine:       engine,
		definition:   def,
		messages:     make(map[string]string, len(def.Messages)),
		bindings:     make(Bindings),
		defaultScope: DefaultScope,
		logger:       zap.NewNop(),
	}
	for rule, msg := range def.Messages {
		u.messages[rule] = msg
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.attributes == nil && u.source != nil {
		u.attributes = u.source.All()
	}
	if u.attributes == nil {
		u.attributes = make(map[string]any)
	}
	return u
}

// ── Mutation ─────────────────────────────────────────────────────────────────

// With activates one or more scopes. Later scopes override earlier ones.
//
//	// Laravel: $validator->with('edit')
func (u *Unit) With(scopes ...string) *Unit {
	u.scopes = append(u.scopes, scopes...)
	return u
}

// Bind sets the placeholder values for a field, or for every field when
// field is Wildcard. A later Bind for the same field replaces the earlier one.
//
//	u.Bind("*", map[string]any{"id": 33}) // unique:users,email,{id} → unique:users,email,33
func (u *Unit) Bind(field string, replacements map[string]any) *Unit {
	u.bindings[field] = replacements
	return u
}

// Extend attaches peer units whose failures are merged into this unit's
// report. Nil peers and u itself are ignored.
func (u *Unit) Extend(peers ...*Unit) *Unit {
	for _, peer := range peers {
		if peer != nil && peer != u {
			u.peers = append(u.peers, peer)
		}
	}
	return u
}

// Mixin registers an ad-hoc rule with the engine and, when message is not
// empty, a custom message for it on this unit.
func (u *Unit) Mixin(name string, rule validation.RuleFunc, message string) *Unit {
	if message != "" {
		u.messages[name] = message
	}
	u.engine.Extend(name, rule, "")
	return u
}

// On selects the presence-verifier connection for this unit's own rules.
func (u *Unit) On(connection string) *Unit {
	u.connection = connection
	return u
}

// SetAttributes replaces the data under validation.
func (u *Unit) SetAttributes(attributes map[string]any) {
	if attributes == nil {
		attributes = make(map[string]any)
	}
	u.attributes = attributes
}

// Reset drops the cached report so the next Passes evaluates again.
func (u *Unit) Reset() *Unit {
	u.errors = nil
	return u
}

// ── Aggregation ──────────────────────────────────────────────────────────────

// Passes validates this unit and every peer.
func (u *Unit) Passes() bool {
	return u.PassesContext(context.Background())
}

// PassesContext validates this unit first, then each peer. A failing root
// replaces the report; failing peers are merged into it. Once the report holds
// messages the call returns false without evaluating again.
func (u *Unit) PassesContext(ctx context.Context) bool {
	if u.errors.Has() {
		return false
	}
	if u.errors == nil {
		u.errors = validation.NewErrors()
	}

	u.validate(ctx)

	for _, peer := range u.peers {
		if !peer.validate(ctx) {
			u.errors.Merge(peer.errors)
		}
	}

	return !u.errors.Has()
}

// Fails is the inverse of Passes.
func (u *Unit) Fails() bool { return !u.Passes() }

// Errors returns the report, running a pass first if none has happened.
func (u *Unit) Errors() *validation.Errors {
	return u.ErrorsContext(context.Background())
}

// ErrorsContext is Errors with a context for the implicit pass.
func (u *Unit) ErrorsContext(ctx context.Context) *validation.Errors {
	if u.errors == nil {
		u.PassesContext(ctx)
	}
	return u.errors
}

// MessageBag is an alias of Errors.
func (u *Unit) MessageBag() *validation.Errors { return u.Errors() }

// validate runs this unit's own rules only.
func (u *Unit) validate(ctx context.Context) bool {
	rules := u.Rules()
	ctx = validation.WithConnection(ctx, u.connection)

	ok, errs := u.engine.Evaluate(ctx, u.attributes, rules.Expand(), u.messages)

	u.logger.Debug("validation unit evaluated",
		zap.String("unit", u.name),
		zap.Strings("scopes", u.scopes),
		zap.Int("fields", len(rules)),
		zap.Bool("passed", ok),
		zap.Int("messages", errs.Count()),
	)

	if ok {
		return true
	}
	if errs == nil {
		errs = validation.NewErrors()
	}
	u.errors = errs
	return false
}

// ── Accessors ────────────────────────────────────────────────────────────────

// Rules returns the effective rules: scopes resolved, bindings substituted.
func (u *Unit) Rules() FieldRules {
	return Substitute(u.definition.Resolve(u.scopes, u.defaultScope), u.bindings)
}

// Name returns the log label given with WithName.
func (u *Unit) Name() string { return u.name }

// Definition returns the static rules and messages.
func (u *Unit) Definition() Definition { return u.definition }

// Attributes returns the data under validation.
func (u *Unit) Attributes() map[string]any { return u.attributes }

// Scopes returns the active scopes in the order they were added.
func (u *Unit) Scopes() []string { return append([]string(nil), u.scopes...) }

// DefaultScope returns the base scope name.
func (u *Unit) DefaultScope() string { return u.defaultScope }

// HasScope reports whether rules resolve in scoped mode.
func (u *Unit) HasScope() bool { return u.definition.HasScope(u.scopes, u.defaultScope) }

// Bindings returns the field's own replacements (empty when none).
func (u *Unit) Bindings(field string) map[string]any {
	if b, ok := u.bindings[field]; ok {
		return b
	}
	return map[string]any{}
}

// HasBindings reports whether the field has its own replacements.
func (u *Unit) HasBindings(field string) bool {
	_, ok := u.bindings[field]
	return ok
}

// GlobalBindings returns the Wildcard replacements.
func (u *Unit) GlobalBindings() map[string]any { return u.Bindings(Wildcard) }

// HasGlobalBindings reports whether Wildcard replacements exist.
func (u *Unit) HasGlobalBindings() bool { return u.HasBindings(Wildcard) }

// Peers returns the attached units.
func (u *Unit) Peers() []*Unit { return append([]*Unit(nil), u.peers...) }

// Connection returns the connection override, or "".
func (u *Unit) Connection() string { return u.connection }
