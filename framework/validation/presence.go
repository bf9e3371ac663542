package validation

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/spf13/cast"
)

// Exclusion skips one row when counting, e.g. the record being edited.
//
//	// unique:users,email,33,id  →  Exclusion{Column: "id", Value: "33"}
type Exclusion struct {
	Column string
	Value  string
}

// PresenceVerifier answers "how many rows hold this value" for unique/exists.
// An empty connection means the verifier's default connection.
type PresenceVerifier interface {
	Count(ctx context.Context, connection, table, column string, value any, exclude *Exclusion) (int64, error)
}

var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether name is safe to use as a table or column.
func ValidIdentifier(name string) bool {
	return identifierRe.MatchString(name)
}

// ── MemoryPresenceVerifier ───────────────────────────────────────────────────

// MemoryPresenceVerifier keeps rows in memory. It backs tests and the CLI's
// fixture mode; values are compared in their string form.
type MemoryPresenceVerifier struct {
	mu   sync.RWMutex
	rows map[string]map[string][]map[string]any // connection → table → rows
}

// NewMemoryPresenceVerifier creates an empty verifier.
func NewMemoryPresenceVerifier() *MemoryPresenceVerifier {
	return &MemoryPresenceVerifier{rows: make(map[string]map[string][]map[string]any)}
}

// Add inserts rows into connection.table. Use "" for the default connection.
func (m *MemoryPresenceVerifier) Add(connection, table string, rows ...map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rows[connection] == nil {
		m.rows[connection] = make(map[string][]map[string]any)
	}
	m.rows[connection][table] = append(m.rows[connection][table], rows...)
}

// Count implements PresenceVerifier.
func (m *MemoryPresenceVerifier) Count(_ context.Context, connection, table, column string, value any, exclude *Exclusion) (int64, error) {
	if !ValidIdentifier(table) || !ValidIdentifier(column) {
		return 0, fmt.Errorf("%w: %s.%s", ErrInvalidIdentifier, table, column)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	want := cast.ToString(value)
	var n int64
	for _, row := range m.rows[connection][table] {
		if cast.ToString(row[column]) != want {
			continue
		}
		if exclude != nil && cast.ToString(row[exclude.Column]) == exclude.Value {
			continue
		}
		n++
	}
	return n, nil
}
