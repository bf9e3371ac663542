package unit

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Registry holds named definitions so transports can build units by name
// ("user", "profile") from a rules file.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register adds or replaces a definition.
func (r *Registry) Register(name string, def Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[name] = def
}

// Definition looks a definition up by name.
func (r *Registry) Definition(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Make builds a unit from the named definition.
func (r *Registry) Make(name string, engine Evaluator, opts ...Option) (*Unit, error) {
	def, ok := r.Definition(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownValidator, name)
	}
	return New(engine, def, append([]Option{WithName(name)}, opts...)...), nil
}

// LoadFile reads a rules file and registers every definition in it.
func (r *Registry) LoadFile(path string) error {
	defs, err := LoadFile(path)
	if err != nil {
		return err
	}
	for name, def := range defs {
		r.Register(name, def)
	}
	return nil
}

// ── Rule files ───────────────────────────────────────────────────────────────

// file is the on-disk layout:
//
//	validators:
//	  user:
//	    scopes:
//	      default:
//	        email: required|email
//	      edit:
//	        email: [email]
//	    messages:
//	      email.required: We need your email.
type file struct {
	Validators map[string]Definition `yaml:"validators"`
}

// LoadDefinitions decodes a YAML rules document.
func LoadDefinitions(r io.Reader) (map[string]Definition, error) {
	var f file
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]Definition{}, nil
		}
		if errors.Is(err, ErrInvalidDefinition) {
			return nil, err
		}
		return nil, errors.Join(ErrInvalidDefinition, err)
	}
	if f.Validators == nil {
		f.Validators = map[string]Definition{}
	}
	return f.Validators, nil
}

// LoadFile decodes the YAML rules file at path.
func LoadFile(path string) (map[string]Definition, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rules file: %w", err)
	}
	defer fh.Close()
	return LoadDefinitions(fh)
}
