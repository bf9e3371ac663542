package unit

import "sort"

// DefaultScope is the scope every scoped resolution starts from.
const DefaultScope = "default"

// FieldRules maps a field name to its rule set.
type FieldRules map[string]RuleSet

// Clone returns a shallow copy.
func (f FieldRules) Clone() FieldRules {
	out := make(FieldRules, len(f))
	for field, rules := range f {
		out[field] = rules
	}
	return out
}

// Expand converts every rule set to the engine's list form.
func (f FieldRules) Expand() map[string][]string {
	out := make(map[string][]string, len(f))
	for field, rules := range f {
		out[field] = rules.Rules()
	}
	return out
}

// Definition is the static part of a validator: its rules and messages.
//
//	var UserRules = unit.Definition{
//	    Scopes: map[string]unit.FieldRules{
//	        "default": {"email": unit.Pipe("required|email")},
//	        "edit":    {"email": unit.Pipe("email")},
//	    },
//	}
type Definition struct {
	// Rules are flat, non-scoped rules. They apply only when no scope is
	// active and Scopes has no default entry.
	Rules FieldRules `yaml:"rules,omitempty" json:"rules,omitempty"`

	// Scopes maps a scope name to the field rules it contributes.
	Scopes map[string]FieldRules `yaml:"scopes,omitempty" json:"scopes,omitempty"`

	// Messages are custom messages keyed by "rule" or "field.rule".
	Messages map[string]string `yaml:"messages,omitempty" json:"messages,omitempty"`
}

// HasScope reports whether resolution runs in scoped mode: a scope is active
// or a default scope is defined.
func (d Definition) HasScope(active []string, defaultScope string) bool {
	if len(active) > 0 {
		return true
	}
	_, ok := d.Scopes[defaultScope]
	return ok
}

// Resolve produces the effective rules for the active scopes.
//
// Unscoped definitions return their flat rules. Otherwise the default scope
// is the base and each active scope, in order, overrides it field by field.
// Scopes that are not defined contribute nothing.
func (d Definition) Resolve(active []string, defaultScope string) FieldRules {
	if !d.HasScope(active, defaultScope) {
		return d.Rules.Clone()
	}

	resolved := d.Scopes[defaultScope].Clone()
	for _, scope := range active {
		rules, ok := d.Scopes[scope]
		if !ok {
			continue
		}
		for field, set := range rules {
			resolved[field] = set
		}
	}
	return resolved
}

// ScopeNames lists the scopes the definition declares, sorted.
func (d Definition) ScopeNames() []string {
	names := make([]string, 0, len(d.Scopes))
	for name := range d.Scopes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
