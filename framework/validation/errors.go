package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ── Sentinels ────────────────────────────────────────────────────────────────

var (
	// ErrMissingPresenceVerifier is logged when unique/exists run without a verifier.
	ErrMissingPresenceVerifier = errors.New("validation: no presence verifier configured")

	// ErrInvalidIdentifier is returned when a table or column name is not a plain identifier.
	ErrInvalidIdentifier = errors.New("validation: invalid table or column identifier")
)

// ── Errors (MessageBag) ──────────────────────────────────────────────────────

// Errors holds validation errors, like Laravel's MessageBag.
// JSON output: {"errors": {"field": ["msg1", "msg2"]}}
//
// The zero value is ready to use.
type Errors struct {
	Bag map[string][]string `json:"errors"`
}

// NewErrors returns an empty bag.
func NewErrors() *Errors {
	return &Errors{Bag: make(map[string][]string)}
}

// Add appends a message for a field.
func (e *Errors) Add(field, msg string) {
	if e.Bag == nil {
		e.Bag = make(map[string][]string)
	}
	e.Bag[field] = append(e.Bag[field], msg)
}

// Merge appends every message of other into e, field by field.
// Existing messages are kept; nothing is overwritten.
//
//	// Laravel: $errors->merge($other->getMessages())
func (e *Errors) Merge(other *Errors) *Errors {
	if other == nil {
		return e
	}
	for _, field := range other.Keys() {
		for _, msg := range other.Bag[field] {
			e.Add(field, msg)
		}
	}
	return e
}

// Count returns the total number of messages across all fields.
func (e *Errors) Count() int {
	if e == nil {
		return 0
	}
	n := 0
	for _, msgs := range e.Bag {
		n += len(msgs)
	}
	return n
}

// Has returns true if there are any errors.
func (e *Errors) Has() bool { return e.Count() > 0 }

// IsEmpty is the inverse of Has.
func (e *Errors) IsEmpty() bool { return !e.Has() }

// HasField reports whether the field has at least one message.
func (e *Errors) HasField(field string) bool {
	return e != nil && len(e.Bag[field]) > 0
}

// First returns the first error for a field.
func (e *Errors) First(field string) string {
	if e == nil {
		return ""
	}
	if msgs, ok := e.Bag[field]; ok && len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Get returns all messages for a field.
func (e *Errors) Get(field string) []string {
	if e == nil {
		return nil
	}
	return e.Bag[field]
}

// Keys returns the fields with messages in sorted order.
func (e *Errors) Keys() []string {
	if e == nil {
		return nil
	}
	keys := make([]string, 0, len(e.Bag))
	for k, msgs := range e.Bag {
		if len(msgs) > 0 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// All returns every message, ordered by field name.
func (e *Errors) All() []string {
	var out []string
	for _, field := range e.Keys() {
		out = append(out, e.Bag[field]...)
	}
	return out
}

// Messages returns a copy of the underlying bag.
func (e *Errors) Messages() map[string][]string {
	out := make(map[string][]string)
	if e == nil {
		return out
	}
	for field, msgs := range e.Bag {
		out[field] = append([]string(nil), msgs...)
	}
	return out
}

// Error implements the error interface so a failed bag can be returned as-is.
func (e *Errors) Error() string {
	if e.IsEmpty() {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Bag))
	for _, field := range e.Keys() {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.First(field)))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
