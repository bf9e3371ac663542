package container

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrNotBound is returned by Make for an abstract nothing was registered under.
	ErrNotBound = errors.New("container: no binding registered")

	// ErrTypeMismatch is returned by Resolve when the instance has another type.
	ErrTypeMismatch = errors.New("container: resolved instance has the wrong type")
)

// ── Binding types ─────────────────────────────────────────────────────────────

// Factory builds a concrete value from the container.
type Factory func(c *Container) (any, error)

// binding holds a registered factory and whether it is a singleton.
type binding struct {
	factory   Factory
	singleton bool
	deferred  bool // placeholder for a deferred provider
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the IoC container, modelled on Laravel's
// Illuminate\Container\Container: Bind, Singleton, Instance, Alias and Make.
// It is safe for concurrent use; factories run without the lock held so they
// may resolve other abstracts.
type Container struct {
	mu sync.RWMutex

	// abstract → binding
	bindings map[string]*binding

	// abstract → resolved singleton instance
	instances map[string]any

	// alias → abstract (canonical key)
	aliases map[string]string
}

// New creates an empty container bound to itself as "container".
func New() *Container {
	c := &Container{
		bindings:  make(map[string]*binding),
		instances: make(map[string]any),
		aliases:   make(map[string]string),
	}
	c.Instance("container", c)
	return c
}

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers a transient factory: every Make builds a new value.
//
//	// Laravel: $app->bind('validator.user', fn($app) => ...)
//	c.Bind("validator.user", func(c *container.Container) (any, error) {
//	    engine, err := container.Resolve[*validation.Engine](c, "validation.engine")
//	    ...
//	})
func (c *Container) Bind(abstract string, factory Factory) {
	c.bind(abstract, factory, false)
}

// Singleton registers a factory whose result is cached after first resolution.
//
//	// Laravel: $app->singleton('validator', fn($app) => new Factory(...))
//	c.Singleton("validation.engine", func(c *container.Container) (any, error) {
//	    return validation.NewEngine(), nil
//	})
func (c *Container) Singleton(abstract string, factory Factory) {
	c.bind(abstract, factory, true)
}

// Instance registers a pre-built value as a singleton.
//
//	// Laravel: $app->instance('config', $config)
//	c.Instance("config", cfg)
func (c *Container) Instance(abstract string, instance any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	delete(c.bindings, key)
	c.instances[key] = instance
}

func (c *Container) bind(abstract string, factory Factory, singleton bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	// drop a cached singleton so the new factory takes effect
	delete(c.instances, key)
	c.bindings[key] = &binding{factory: factory, singleton: singleton}
}

func (c *Container) bindDeferred(abstract string, factory Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings[c.canonical(abstract)] = &binding{factory: factory, deferred: true}
}

func (c *Container) isDeferred(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.bindings[c.canonical(abstract)]
	return ok && b.deferred
}

// Alias registers an alternative name for an abstract.
//
//	// Laravel: $app->alias('validator', ValidationFactory::class)
//	c.Alias("validation.engine", "validator")
func (c *Container) Alias(abstract, alias string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if abstract == alias {
		panic(fmt.Sprintf("container: [%s] is aliased to itself", abstract))
	}
	c.aliases[alias] = c.canonical(abstract)
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Make resolves an abstract from the container.
//
//	// Laravel: $app->make('validator')
//	engine, err := c.Make("validator")
func (c *Container) Make(abstract string) (any, error) {
	c.mu.RLock()
	key := c.canonical(abstract)
	if inst, ok := c.instances[key]; ok {
		c.mu.RUnlock()
		return inst, nil
	}
	b, ok := c.bindings[key]
	c.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: [%s]", ErrNotBound, abstract)
	}

	instance, err := b.factory(c)
	if err != nil {
		return nil, fmt.Errorf("container: resolve [%s]: %w", abstract, err)
	}
	if !b.singleton {
		return instance, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// first writer wins when two goroutines built the same singleton
	if existing, ok := c.instances[key]; ok {
		return existing, nil
	}
	if c.bindings[key] == b {
		c.instances[key] = instance
	}
	return instance, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Bound reports whether an abstract has been registered.
//
//	// Laravel: $app->bound('db')
func (c *Container) Bound(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key := c.canonical(abstract)
	_, hasBinding := c.bindings[key]
	_, hasInstance := c.instances[key]
	return hasBinding || hasInstance
}

// Resolved reports whether a singleton has been built or an instance set.
//
//	// Laravel: $app->resolved('db')
func (c *Container) Resolved(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.instances[c.canonical(abstract)]
	return ok
}

// Forget removes the binding and any cached instance.
//
//	// Laravel: $app->forgetInstance('db')
func (c *Container) Forget(abstract string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	delete(c.bindings, key)
	delete(c.instances, key)
}

// Bindings returns every registered abstract key, sorted.
func (c *Container) Bindings() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.bindings)+len(c.instances))
	for k := range c.bindings {
		out = append(out, k)
	}
	for k := range c.instances {
		if _, already := c.bindings[k]; !already {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// canonical resolves an alias to its canonical key (caller holds mu).
func (c *Container) canonical(abstract string) string {
	if target, ok := c.aliases[abstract]; ok {
		return target
	}
	return abstract
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve calls Make and type-asserts the result.
//
//	// Instead of: raw, err := c.Make("db"); db := raw.(*database.Manager)
//	// Write:      db, err := container.Resolve[*database.Manager](c, "db")
func Resolve[T any](c *Container, abstract string) (T, error) {
	var zero T
	instance, err := c.Make(abstract)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("%w: [%s] is %T, want %T", ErrTypeMismatch, abstract, instance, zero)
	}
	return typed, nil
}

// MustResolve is Resolve for bootstrap code: it panics on error.
func MustResolve[T any](c *Container, abstract string) T {
	typed, err := Resolve[T](c, abstract)
	if err != nil {
		panic(err)
	}
	return typed
}
