package unit

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/km-arc/go-laravel-validation/framework/validation"
)

// RuleSet holds the rules of one field, either as a single piped string
// ("required|email") or as an ordered list (["required", "email"]).
// The form is preserved through substitution and serialisation.
type RuleSet struct {
	piped  string
	list   []string
	isList bool
}

// Pipe builds a piped rule set. An empty string means "no rules".
func Pipe(rules string) RuleSet {
	return RuleSet{piped: rules}
}

// List builds a list rule set.
func List(rules ...string) RuleSet {
	return RuleSet{list: append([]string(nil), rules...), isList: true}
}

// IsList reports whether the set was defined as a list.
func (r RuleSet) IsList() bool { return r.isList }

// Rules expands the set into the ordered rule strings handed to the engine.
func (r RuleSet) Rules() []string {
	if !r.isList {
		return validation.SplitRules(r.piped)
	}
	out := make([]string, 0, len(r.list))
	for _, rule := range r.list {
		if rule = strings.TrimSpace(rule); rule != "" {
			out = append(out, rule)
		}
	}
	return out
}

// String renders the set in piped form.
func (r RuleSet) String() string {
	if r.isList {
		return strings.Join(r.list, "|")
	}
	return r.piped
}

// Replace swaps every occurrence of old with repl; list sets are replaced
// element by element.
func (r RuleSet) Replace(old, repl string) RuleSet {
	if !r.isList {
		return Pipe(strings.ReplaceAll(r.piped, old, repl))
	}
	out := make([]string, len(r.list))
	for i, rule := range r.list {
		out[i] = strings.ReplaceAll(rule, old, repl)
	}
	return RuleSet{list: out, isList: true}
}

// ── Encoding ─────────────────────────────────────────────────────────────────

// UnmarshalYAML accepts a scalar ("required|email") or a sequence.
func (r *RuleSet) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*r = Pipe(node.Value)
		return nil
	case yaml.SequenceNode:
		var rules []string
		if err := node.Decode(&rules); err != nil {
			return err
		}
		*r = List(rules...)
		return nil
	}
	return fmt.Errorf("%w: rule set at line %d must be a string or a list", ErrInvalidDefinition, node.Line)
}

// MarshalYAML keeps the original form.
func (r RuleSet) MarshalYAML() (any, error) {
	if r.isList {
		return r.list, nil
	}
	return r.piped, nil
}

// UnmarshalJSON accepts a string or an array of strings.
func (r *RuleSet) UnmarshalJSON(b []byte) error {
	var piped string
	if err := json.Unmarshal(b, &piped); err == nil {
		*r = Pipe(piped)
		return nil
	}
	var rules []string
	if err := json.Unmarshal(b, &rules); err != nil {
		return fmt.Errorf("%w: rule set must be a string or an array of strings", ErrInvalidDefinition)
	}
	*r = List(rules...)
	return nil
}

// MarshalJSON keeps the original form.
func (r RuleSet) MarshalJSON() ([]byte, error) {
	if r.isList {
		return json.Marshal(r.list)
	}
	return json.Marshal(r.piped)
}
