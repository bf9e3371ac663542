package unit

import (
	"sort"

	"github.com/spf13/cast"
)

// Wildcard is the binding key that applies to every field.
const Wildcard = "*"

const (
	tokenPrefix = "{"
	tokenSuffix = "}"
)

// Bindings maps a field (or Wildcard) to token → value replacements.
//
//	unit.Bindings{
//	    "*":     {"id": 33},
//	    "email": {"table": "admins"},
//	}
type Bindings map[string]map[string]any

// For merges the field's own tokens with the global ones. Field tokens win.
func (b Bindings) For(field string) map[string]any {
	merged := make(map[string]any, len(b[field])+len(b[Wildcard]))
	for token, value := range b[field] {
		merged[token] = value
	}
	for token, value := range b[Wildcard] {
		if _, ok := merged[token]; !ok {
			merged[token] = value
		}
	}
	return merged
}

// Token builds the placeholder for key: "id" → "{id}".
func Token(key string) string {
	return tokenPrefix + key + tokenSuffix
}

// Substitute replaces "{token}" placeholders in every rule set with the bound
// values, one token at a time in sorted key order. With no bindings the rules
// are returned as-is.
func Substitute(rules FieldRules, bindings Bindings) FieldRules {
	if len(bindings) == 0 {
		return rules
	}

	out := make(FieldRules, len(rules))
	for field, set := range rules {
		tokens := bindings.For(field)
		keys := make([]string, 0, len(tokens))
		for key := range tokens {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			set = set.Replace(Token(key), cast.ToString(tokens[key]))
		}
		out[field] = set
	}
	return out
}
