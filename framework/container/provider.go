package container

import (
	"fmt"
	"sync"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider mirrors Laravel's Illuminate\Support\ServiceProvider.
//
// Register binds services. Boot runs after every provider is registered, so it
// may resolve other bindings.
//
//	type RulesServiceProvider struct{ container.BaseProvider }
//
//	func (p *RulesServiceProvider) Register(app *container.Container) {
//	    app.Singleton("rules", func(c *container.Container) (any, error) { ... })
//	}
//
//	func (p *RulesServiceProvider) Boot(app *container.Container) error {
//	    engine, err := container.Resolve[*validation.Engine](app, "validation.engine")
//	    ...
//	}
type ServiceProvider interface {
	// Register binds services into the container.
	// Do NOT resolve other bindings here; use Boot for that.
	Register(app *Container)

	// Boot is called after all providers are registered.
	Boot(app *Container) error

	// Provides lists the abstracts a deferred provider registers.
	//
	//	// Laravel: public function provides(): array { return ['db']; }
	Provides() []string

	// IsDeferred reports whether the provider is loaded lazily, the first
	// time one of its Provides abstracts is resolved.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable no-op for Boot, Provides and IsDeferred.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }
func (p *BaseProvider) Provides() []string      { return nil }
func (p *BaseProvider) IsDeferred() bool        { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots providers, including deferred ones,
// like Laravel's Application::registerConfiguredProviders and bootProviders.
type ProviderRegistry struct {
	app *Container

	mu         sync.Mutex
	eager      []ServiceProvider
	registered map[ServiceProvider]bool
	booted     bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider. Eager providers are registered at once, and
// booted at once when the registry already booted.
//
//	// Laravel: $app->register(new ValidationServiceProvider($app))
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return nil
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		r.mu.Unlock()
		r.registerDeferred(provider)
		return nil
	}

	r.eager = append(r.eager, provider)
	booted := r.booted
	r.mu.Unlock()

	provider.Register(r.app)
	if booted {
		return r.boot(provider)
	}
	return nil
}

// registerDeferred binds a placeholder for each provided abstract. The first
// Make registers the provider for real, which replaces the placeholders.
func (r *ProviderRegistry) registerDeferred(provider ServiceProvider) {
	d := &deferred{}
	for _, abstract := range provider.Provides() {
		abs := abstract
		r.app.bindDeferred(abs, func(c *Container) (any, error) {
			d.once.Do(func() { d.err = r.load(provider) })
			if d.err != nil {
				return nil, d.err
			}
			if c.isDeferred(abs) {
				return nil, fmt.Errorf("%w: [%s] was not bound by %T", ErrNotBound, abs, provider)
			}
			return c.Make(abs)
		})
	}
}

type deferred struct {
	once sync.Once
	err  error
}

func (r *ProviderRegistry) load(provider ServiceProvider) error {
	provider.Register(r.app)
	if r.Booted() {
		return r.boot(provider)
	}
	return nil
}

// Boot boots every eager provider once, stopping at the first error.
//
//	// Laravel: $app->boot()
func (r *ProviderRegistry) Boot() error {
	r.mu.Lock()
	if r.booted {
		r.mu.Unlock()
		return nil
	}
	r.booted = true
	providers := append([]ServiceProvider(nil), r.eager...)
	r.mu.Unlock()

	for _, provider := range providers {
		if err := r.boot(provider); err != nil {
			return err
		}
	}
	return nil
}

func (r *ProviderRegistry) boot(provider ServiceProvider) error {
	if err := provider.Boot(r.app); err != nil {
		return fmt.Errorf("boot %T: %w", provider, err)
	}
	return nil
}

// Booted reports whether Boot has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns the eager providers in registration order.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ServiceProvider(nil), r.eager...)
}
