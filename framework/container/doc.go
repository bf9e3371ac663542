// Package container is a small Laravel-style IoC container with service
// providers. Factories are explicit functions; there is no reflection-based
// auto-wiring.
//
// # Lifecycle
//
//  1. Create: c := container.New()
//  2. Register providers: registry.Register(&providers.ValidationServiceProvider{})
//  3. Boot: registry.Boot(), after which everything may be resolved
//  4. Serve requests
//
// # Bindings
//
//	// Laravel: $app->singleton('validator', ...)
//	c.Singleton("validation.engine", func(c *container.Container) (any, error) {
//	    logger, err := container.Resolve[*zap.Logger](c, "logger")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return validation.NewEngine(validation.WithLogger(logger)), nil
//	})
//
//	// Laravel: $app->instance('config', $config)
//	c.Instance("config", cfg)
//
//	// Laravel: $app->alias('validation.engine', 'validator')
//	c.Alias("validation.engine", "validator")
//
// # Resolving
//
//	raw, err := c.Make("validator")
//	engine, err := container.Resolve[*validation.Engine](c, "validator")
//
// # Deferred providers
//
// A provider whose IsDeferred returns true is registered the first time one
// of its Provides abstracts is resolved. The database provider works this way
// so that no connection is opened until a unique or exists rule needs one.
//
//	func (p *DatabaseServiceProvider) IsDeferred() bool   { return true }
//	func (p *DatabaseServiceProvider) Provides() []string { return []string{"db"} }
package container
