// Package validation is the rule-evaluation engine: Laravel's Validator
// facade and its rule syntax.
//
// # Overview
//
// Rules are expressed as pipe-separated strings (or ordered lists) on a map of
// field names. An Engine owns the custom-rule registry, the message store and
// the presence verifier; every Validator it makes evaluates one data set once.
// Composition of several rule sets, scopes and placeholder bindings lives one
// level up, in package unit.
//
// # Basic Usage
//
//	v := validation.Make(map[string]any{
//	    "name":  "Alice",
//	    "email": "alice@example.com",
//	}, validation.Rules{
//	    "name":  "required|min:2|max:100",
//	    "email": "required|email",
//	})
//
//	if v.Fails() {
//	    // v.Errors() returns *Errors with Bag map[string][]string
//	    // JSON: {"errors": {"field": ["message1", "message2"]}}
//	}
//
// # Engine
//
//	engine := validation.NewEngine(
//	    validation.WithMessageStore(translator),
//	    validation.WithPresenceVerifier(db),
//	    validation.WithLogger(logger),
//	)
//	engine.Extend("even", isEven, "The :attribute must be even.")
//
//	ok, errs := engine.Evaluate(ctx, data, map[string][]string{
//	    "email": {"required", "email", "unique:users,email,33"},
//	}, nil)
//
// # Available Rules
//
// String rules:
//   - required: field must be present and non-empty
//   - string: value must be a Go string when present
//   - min:n, max:n, size:n: UTF-8 character (or element) count
//   - between:min,max: count between min and max (inclusive)
//   - alpha, alpha_num, alpha_dash: character classes
//   - regex:pattern: must match regexp pattern
//
// Format rules:
//   - email: a bare RFC 5322 address
//   - url: must start with http:// or https://
//   - uuid: any RFC 4122 UUID
//
// Numeric rules:
//   - numeric, integer
//   - gt:n, gte:n, lt:n, lte:n
//
// Comparison rules:
//   - confirmed: field_confirmation must match field
//   - same:other, different:other
//
// Type rules:
//   - boolean: true/false/1/0/yes/no (case-insensitive)
//   - in:a,b,c and not_in:a,b,c
//
// Database rules (need a PresenceVerifier):
//   - unique:[connection.]table[,column[,except[,idColumn]]]
//   - exists:[connection.]table[,column]
//
// Control rules:
//   - nullable: empty values stop further rule processing
//   - sometimes: skips all rules silently if field is absent
//
// Processing of a field stops at its first failing rule.
//
// # Messages
//
// A failed rule looks up its template in this order: "field.rule" and "rule"
// overrides passed with the rules, the message store's
// "validation.custom.<field>.<rule>" and "validation.<rule>" lines, the
// message given to Extend, then the built-in English default. ":attribute" is
// replaced by the store's "validation.attributes.<field>" line when present.
package validation
