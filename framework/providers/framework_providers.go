package providers

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/km-arc/go-laravel-validation/framework/config"
	"github.com/km-arc/go-laravel-validation/framework/container"
	"github.com/km-arc/go-laravel-validation/framework/database"
	gohttp "github.com/km-arc/go-laravel-validation/framework/http"
	"github.com/km-arc/go-laravel-validation/framework/logging"
	"github.com/km-arc/go-laravel-validation/framework/routing"
	"github.com/km-arc/go-laravel-validation/framework/translation"
	"github.com/km-arc/go-laravel-validation/framework/validation"
	"github.com/km-arc/go-laravel-validation/framework/validation/unit"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration from .env and
// binds it into the container as "config".
//
// Bound abstracts:
//   - "config", alias "configuration" → *config.Config
//
// Laravel equivalent:
//
//	// Illuminate\Foundation\Bootstrap\LoadConfiguration
//	$app->singleton('config', fn() => new Repository($items));
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) {
	envFiles := p.EnvFiles
	app.Singleton("config", func(c *container.Container) (any, error) {
		return config.Load(envFiles...)
	})
	app.Alias("config", "configuration")
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider builds the zap logger from LOG_* settings.
//
// Bound abstracts:
//   - "logger" → *zap.Logger
type LoggingServiceProvider struct {
	container.BaseProvider
}

func (p *LoggingServiceProvider) Register(app *container.Container) {
	app.Singleton("logger", func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, "config")
		if err != nil {
			return nil, err
		}
		return logging.New(cfg.Log)
	})
}

// ── DatabaseServiceProvider ───────────────────────────────────────────────────

// DatabaseServiceProvider opens the default connection. It is deferred: the
// connection is only opened when a unique or exists rule first needs it.
//
// Bound abstracts:
//   - "db" → *database.Manager
//
// Laravel equivalent:
//
//	// Illuminate\Database\DatabaseServiceProvider
//	$app->singleton('db', fn($app) => new DatabaseManager($app, ...));
type DatabaseServiceProvider struct {
	container.BaseProvider
}

func (p *DatabaseServiceProvider) IsDeferred() bool   { return true }
func (p *DatabaseServiceProvider) Provides() []string { return []string{"db"} }

func (p *DatabaseServiceProvider) Register(app *container.Container) {
	app.Singleton("db", func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, "config")
		if err != nil {
			return nil, err
		}
		logger, err := container.Resolve[*zap.Logger](c, "logger")
		if err != nil {
			return nil, err
		}
		m := database.NewManager(logger)
		if _, err := m.Open(database.DefaultConnection, cfg.DB); err != nil {
			return nil, err
		}
		return m, nil
	})
}

// ── TranslationServiceProvider ────────────────────────────────────────────────

// TranslationServiceProvider loads lang/*.yaml.
//
// Bound abstracts:
//   - "translator" → *translation.Translator
type TranslationServiceProvider struct {
	container.BaseProvider
}

func (p *TranslationServiceProvider) Register(app *container.Container) {
	app.Singleton("translator", func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, "config")
		if err != nil {
			return nil, err
		}
		tr := translation.New(cfg.App.FallbackLocale)
		if err := tr.LoadDir(cfg.Validation.LangPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return tr, nil
	})
}

// ── ValidationServiceProvider ─────────────────────────────────────────────────

// ValidationServiceProvider builds the rule engine and the validator registry.
// Boot registers custom rules and definitions, then loads VALIDATION_RULES
// when that file exists.
//
// Bound abstracts:
//   - "validation.engine", alias "validator" → *validation.Engine
//   - "validation.registry"                  → *unit.Registry
//
// Laravel equivalent:
//
//	// Illuminate\Validation\ValidationServiceProvider
//	$app->singleton('validator', fn($app) => new Factory($app['translator'], $app));
type ValidationServiceProvider struct {
	container.BaseProvider

	// Extensions register custom rules on the engine at boot.
	Extensions []func(*validation.Engine)

	// Definitions are registered before the rules file is loaded, so the
	// file may override them.
	Definitions map[string]unit.Definition
}

func (p *ValidationServiceProvider) Register(app *container.Container) {
	app.Singleton("validation.engine", func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, "config")
		if err != nil {
			return nil, err
		}
		logger, err := container.Resolve[*zap.Logger](c, "logger")
		if err != nil {
			return nil, err
		}
		opts := []validation.EngineOption{
			validation.WithLogger(logger.Named("validation")),
			validation.WithDefaultLocale(cfg.App.Locale),
			validation.WithPresenceVerifier(lazyVerifier{c: c}),
		}
		tr, err := container.Resolve[*translation.Translator](c, "translator")
		if err != nil {
			return nil, err
		}
		opts = append(opts, validation.WithMessageStore(tr))
		return validation.NewEngine(opts...), nil
	})
	app.Alias("validation.engine", "validator")

	app.Singleton("validation.registry", func(c *container.Container) (any, error) {
		return unit.NewRegistry(), nil
	})
}

func (p *ValidationServiceProvider) Boot(app *container.Container) error {
	engine, err := container.Resolve[*validation.Engine](app, "validation.engine")
	if err != nil {
		return err
	}
	for _, extend := range p.Extensions {
		extend(engine)
	}

	registry, err := container.Resolve[*unit.Registry](app, "validation.registry")
	if err != nil {
		return err
	}
	for name, def := range p.Definitions {
		registry.Register(name, def)
	}

	cfg, err := container.Resolve[*config.Config](app, "config")
	if err != nil {
		return err
	}
	if cfg.Validation.RulesPath == "" {
		return nil
	}
	if _, err := os.Stat(cfg.Validation.RulesPath); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return registry.LoadFile(cfg.Validation.RulesPath)
}

// lazyVerifier resolves "db" on the first presence query, so the deferred
// database provider opens its connection only when a rule needs it.
type lazyVerifier struct{ c *container.Container }

func (v lazyVerifier) Count(ctx context.Context, connection, table, column string, value any, exclude *validation.Exclusion) (int64, error) {
	db, err := container.Resolve[*database.Manager](v.c, "db")
	if err != nil {
		return 0, err
	}
	return db.Count(ctx, connection, table, column, value, exclude)
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router with request logging and
// locale negotiation for validation messages.
//
// Bound abstracts:
//   - "router" → *routing.Router
//
// Laravel equivalent:
//
//	// Illuminate\Routing\RoutingServiceProvider
//	$app->singleton('router', fn($app) => new Router($app['events'], $app));
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) {
	app.Singleton("router", func(c *container.Container) (any, error) {
		logger, err := container.Resolve[*zap.Logger](c, "logger")
		if err != nil {
			return nil, err
		}
		tr, err := container.Resolve[*translation.Translator](c, "translator")
		if err != nil {
			return nil, err
		}
		r := routing.New(logger)
		r.Middleware(gohttp.Localize(tr))
		return r, nil
	})
}
