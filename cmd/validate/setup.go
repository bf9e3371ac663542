package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/km-arc/go-laravel-validation/framework/config"
	"github.com/km-arc/go-laravel-validation/framework/logging"
	"github.com/km-arc/go-laravel-validation/framework/translation"
	"github.com/km-arc/go-laravel-validation/framework/validation"
	"github.com/km-arc/go-laravel-validation/framework/validation/unit"
	"github.com/km-arc/go-laravel-validation/validators"
)

type environment struct {
	engine   *validation.Engine
	registry *unit.Registry
	logger   *zap.Logger
}

// setup builds the engine and registry the same way the application's
// validation provider does, with fixtures standing in for the database.
func setup(v *viper.Viper, stderr io.Writer) (*environment, error) {
	logger, err := logging.NewWithWriter(config.LogConfig{
		Level:  v.GetString("log-level"),
		Format: "console",
	}, stderr)
	if err != nil {
		return nil, err
	}

	tr := translation.New("en")
	if err := tr.LoadDir(v.GetString("lang")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	opts := []validation.EngineOption{
		validation.WithLogger(logger.Named("validation")),
		validation.WithDefaultLocale(v.GetString("locale")),
		validation.WithMessageStore(tr),
	}
	if path := v.GetString("fixtures"); path != "" {
		fixtures, err := loadFixtures(path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, validation.WithPresenceVerifier(fixtures))
	}
	engine := validation.NewEngine(opts...)
	validators.Register(engine)

	registry := unit.NewRegistry()
	for name, def := range validators.Definitions() {
		registry.Register(name, def)
	}
	rules := v.GetString("rules")
	if err := registry.LoadFile(rules); err != nil {
		// only the default path may be absent
		if rules != defaultRulesPath || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return &environment{engine: engine, registry: registry, logger: logger}, nil
}

// loadFixtures reads rows keyed by table, or by connection.table:
//
//	users:
//	  - {id: 33, email: taken@example.com}
//	reporting.accounts:
//	  - {id: 1, email: ops@example.com}
func loadFixtures(path string) (*validation.MemoryPresenceVerifier, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	var tables map[string][]map[string]any
	if err := yaml.Unmarshal(raw, &tables); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}

	fixtures := validation.NewMemoryPresenceVerifier()
	for key, rows := range tables {
		connection, table, ok := strings.Cut(key, ".")
		if !ok {
			connection, table = "", key
		}
		fixtures.Add(connection, table, rows...)
	}
	return fixtures, nil
}

// readData decodes a YAML or JSON document from path, or from stdin for ""
// and "-".
func readData(stdin io.Reader, path string) (map[string]any, error) {
	r := stdin
	if path != "" && path != "-" {
		fh, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open data: %w", err)
		}
		defer fh.Close()
		r = fh
	}

	var data map[string]any
	if err := yaml.NewDecoder(r).Decode(&data); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode data: %w", err)
	}
	if data == nil {
		data = make(map[string]any)
	}
	return data, nil
}

// parseBindings turns "key=value" (every field) and "field:key=value" into
// unit bindings.
func parseBindings(pairs []string) (unit.Bindings, error) {
	out := make(unit.Bindings)
	for _, pair := range pairs {
		target, value, ok := strings.Cut(pair, "=")
		if !ok || target == "" {
			return nil, fmt.Errorf("invalid binding %q, want key=value or field:key=value", pair)
		}
		field, key, scoped := strings.Cut(target, ":")
		if !scoped {
			field, key = unit.Wildcard, target
		}
		if out[field] == nil {
			out[field] = make(map[string]any)
		}
		out[field][key] = value
	}
	return out, nil
}
