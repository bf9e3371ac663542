package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/km-arc/go-laravel-validation/framework/config"
	"github.com/km-arc/go-laravel-validation/framework/container"
	"github.com/km-arc/go-laravel-validation/framework/database"
	"github.com/km-arc/go-laravel-validation/framework/providers"
	"github.com/km-arc/go-laravel-validation/framework/routing"
	"github.com/km-arc/go-laravel-validation/framework/validation"
	"github.com/km-arc/go-laravel-validation/framework/validation/unit"
)

// Application is the top-level application container.
// It embeds the IoC Container and ProviderRegistry so user code can
// call app.Bind(), app.Singleton(), app.Register() directly,
// like $app in Laravel's bootstrap/app.php.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
}

// Option configures the framework providers registered by New.
type Option func(*options)

type options struct {
	envFiles    []string
	extensions  []func(*validation.Engine)
	definitions map[string]unit.Definition
}

// WithEnvFiles loads these .env files instead of ".env".
func WithEnvFiles(files ...string) Option {
	return func(o *options) { o.envFiles = files }
}

// WithRules registers custom rules on the engine at boot.
func WithRules(register func(*validation.Engine)) Option {
	return func(o *options) { o.extensions = append(o.extensions, register) }
}

// WithDefinitions registers named validator definitions at boot.
func WithDefinitions(defs map[string]unit.Definition) Option {
	return func(o *options) {
		if o.definitions == nil {
			o.definitions = make(map[string]unit.Definition, len(defs))
		}
		for name, def := range defs {
			o.definitions[name] = def
		}
	}
}

// New creates the application and registers the framework providers.
//
//	application := app.New(
//	    app.WithRules(validators.Register),
//	    app.WithDefinitions(validators.Definitions()),
//	)
func New(opts ...Option) *Application {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := container.New()
	registry := container.NewProviderRegistry(c)
	a := &Application{Container: c, Providers: registry}

	// Register framework core providers (same order as Laravel)
	for _, p := range []container.ServiceProvider{
		&providers.ConfigServiceProvider{EnvFiles: o.envFiles},
		&providers.LoggingServiceProvider{},
		&providers.DatabaseServiceProvider{},
		&providers.TranslationServiceProvider{},
		&providers.ValidationServiceProvider{Extensions: o.extensions, Definitions: o.definitions},
		&providers.RoutingServiceProvider{},
	} {
		_ = registry.Register(p) // not booted yet, cannot fail
	}
	return a
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Container, "config")
}

// Logger resolves the application logger.
func (a *Application) Logger() *zap.Logger {
	return container.MustResolve[*zap.Logger](a.Container, "logger")
}

// Router resolves *routing.Router from the container.
func (a *Application) Router() *routing.Router {
	return container.MustResolve[*routing.Router](a.Container, "router")
}

// Engine resolves the rule engine.
func (a *Application) Engine() *validation.Engine {
	return container.MustResolve[*validation.Engine](a.Container, "validation.engine")
}

// Validators resolves the registry of named validator definitions.
func (a *Application) Validators() *unit.Registry {
	return container.MustResolve[*unit.Registry](a.Container, "validation.registry")
}

// DB resolves the database manager, opening the default connection on
// first use.
func (a *Application) DB() (*database.Manager, error) {
	return container.Resolve[*database.Manager](a.Container, "db")
}

// Validator builds a unit from a registered definition, wired to the
// application's engine and logger.
//
//	// Laravel: UserValidator::make($input)
//	user, err := application.Validator("user", unit.WithAttributes(input))
func (a *Application) Validator(name string, opts ...unit.Option) (*unit.Unit, error) {
	opts = append([]unit.Option{
		unit.WithLogger(a.Logger().Named("validation")),
		unit.WithDefaultScope(a.Config().Validation.DefaultScope),
	}, opts...)
	return a.Validators().Make(name, a.Engine(), opts...)
}

// Run boots the application (if needed) and serves HTTP on APP_PORT until
// ctx is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	if !a.Providers.Booted() {
		if err := a.Boot(); err != nil {
			return err
		}
	}
	cfg := a.Config()
	logger := a.Logger()
	defer func() { _ = logger.Sync() }()

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started",
			zap.String("app", cfg.App.Name),
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Env),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("server shutting down")
	err := srv.Shutdown(shutdownCtx)

	if a.Resolved("db") {
		if db, dbErr := a.DB(); dbErr == nil {
			err = errors.Join(err, db.Close())
		}
	}
	return err
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
