// Package unit composes validators.
//
// A Unit pairs a data set with a Definition (flat or scoped rules plus custom
// messages). Before each evaluation it resolves the active scopes on top of
// the default scope, substitutes "{token}" placeholders from its bindings and
// hands the result to an Evaluator. Units extended with peers report every
// peer's failures in one merged bag.
//
//	user := unit.New(engine, validators.User(), unit.WithAttributes(input)).
//	    With("edit").
//	    Bind("*", map[string]any{"id": 33}).
//	    Extend(unit.New(engine, validators.Profile(), unit.WithAttributes(profile)))
//
//	if !user.Passes() {
//	    res.ValidationError(user.Errors())
//	}
//
// # Scopes
//
// The default scope ("default") is always the base. Each scope passed to With
// overrides it field by field, in order. A definition with no default scope
// and no active scope falls back to its flat Rules.
//
// # Bindings
//
// Bind("email", ...) applies to one field, Bind("*", ...) to all of them;
// field tokens win over global ones. Values are stringified.
//
// # Aggregation
//
// Passes evaluates the unit itself first: on failure its report is replaced
// by the engine's messages. Every peer is then evaluated on its own rules and
// its messages are appended. A report that already holds messages makes
// Passes return false without evaluating again; call Reset to start over.
package unit
