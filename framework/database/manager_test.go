package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-laravel-validation/framework/config"
	"github.com/km-arc/go-laravel-validation/framework/database"
	"github.com/km-arc/go-laravel-validation/framework/validation"
)

type user struct {
	ID    uint `gorm:"primaryKey"`
	Email string
}

func memory() config.DBConfig {
	return config.DBConfig{Driver: "sqlite", Database: ":memory:", MaxOpenConns: 1}
}

func seeded(t *testing.T) *database.Manager {
	t.Helper()
	m := database.NewManager(nil)
	t.Cleanup(func() { _ = m.Close() })

	db, err := m.Open(database.DefaultConnection, memory())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&user{}))
	require.NoError(t, db.Create(&[]user{
		{ID: 33, Email: "taken@example.com"},
		{ID: 34, Email: "other@example.com"},
	}).Error)
	return m
}

func TestManager_Count(t *testing.T) {
	m := seeded(t)
	ctx := context.Background()

	n, err := m.Count(ctx, "", "users", "email", "taken@example.com", nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = m.Count(ctx, "", "users", "email", "taken@example.com", &validation.Exclusion{Column: "id", Value: "33"})
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = m.Count(ctx, "", "users", "email", "free@example.com", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestManager_CountRejectsIdentifiers(t *testing.T) {
	m := seeded(t)

	_, err := m.Count(context.Background(), "", "users; drop table users", "email", "x", nil)
	assert.ErrorIs(t, err, validation.ErrInvalidIdentifier)

	_, err = m.Count(context.Background(), "", "users", "email", "x", &validation.Exclusion{Column: "id--", Value: "1"})
	assert.ErrorIs(t, err, validation.ErrInvalidIdentifier)
}

func TestManager_UnknownConnection(t *testing.T) {
	m := seeded(t)

	_, err := m.Count(context.Background(), "reporting", "users", "email", "x", nil)
	assert.ErrorIs(t, err, database.ErrUnknownConnection)
}

func TestManager_NamedConnections(t *testing.T) {
	m := seeded(t)
	reporting, err := m.Open("reporting", memory())
	require.NoError(t, err)
	require.NoError(t, reporting.AutoMigrate(&user{}))

	assert.Equal(t, []string{"default", "reporting"}, m.Names())

	n, err := m.Count(context.Background(), "reporting", "users", "email", "taken@example.com", nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	m.SetDefault("reporting")
	db, err := m.Connection("")
	require.NoError(t, err)
	assert.Same(t, reporting, db)
}

func TestManager_UniqueAndExistsRules(t *testing.T) {
	engine := validation.NewEngine(validation.WithPresenceVerifier(seeded(t)))
	ctx := context.Background()

	ok, errs := engine.Evaluate(ctx, map[string]any{"email": "taken@example.com"},
		map[string][]string{"email": {"unique:users,email"}}, nil)
	assert.False(t, ok)
	assert.Equal(t, "The email has already been taken.", errs.First("email"))

	ok, _ = engine.Evaluate(ctx, map[string]any{"email": "taken@example.com"},
		map[string][]string{"email": {"unique:users,email,33"}}, nil)
	assert.True(t, ok)

	ok, _ = engine.Evaluate(ctx, map[string]any{"email": "other@example.com"},
		map[string][]string{"email": {"exists:users"}}, nil)
	assert.True(t, ok)
}

func TestManager_Close(t *testing.T) {
	m := database.NewManager(nil)
	_, err := m.Open("a", memory())
	require.NoError(t, err)

	require.NoError(t, m.Close())
	assert.Empty(t, m.Names())
}

func TestDialector(t *testing.T) {
	for _, driver := range []string{"mysql", "postgres", "sqlite"} {
		d, err := database.Dialector(config.DBConfig{Driver: driver})
		require.NoError(t, err, driver)
		assert.NotNil(t, d)
	}

	_, err := database.Dialector(config.DBConfig{Driver: "oracle"})
	assert.ErrorIs(t, err, database.ErrUnsupportedDriver)
}

func TestDSN(t *testing.T) {
	cfg := config.DBConfig{Host: "db", Port: "3306", Database: "app", Username: "root", Password: "secret"}

	cfg.Driver = "mysql"
	assert.Equal(t, "root:secret@tcp(db:3306)/app?charset=utf8mb4&parseTime=True&loc=Local", database.DSN(cfg))

	cfg.Driver = "postgres"
	cfg.Port = "5432"
	assert.Equal(t, "host=db port=5432 user=root password=secret dbname=app sslmode=disable", database.DSN(cfg))

	cfg.Driver = "sqlite"
	assert.Equal(t, "app", database.DSN(cfg))

	cfg.URL = "file:test.db"
	assert.Equal(t, "file:test.db", database.DSN(cfg))
}
