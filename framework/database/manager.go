// Package database manages named gorm connections and answers the presence
// queries behind the unique and exists validation rules.
//
//	db := database.NewManager(logger)
//	if _, err := db.Open(database.DefaultConnection, cfg.DB); err != nil { ... }
//	engine := validation.NewEngine(validation.WithPresenceVerifier(db))
package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/km-arc/go-laravel-validation/framework/config"
	"github.com/km-arc/go-laravel-validation/framework/validation"
)

// DefaultConnection is the name used when a rule does not pick one.
const DefaultConnection = "default"

// Manager holds named connections. It is safe for concurrent use.
type Manager struct {
	mu          sync.RWMutex
	conns       map[string]*gorm.DB
	defaultName string
	logger      *zap.Logger
}

// NewManager creates an empty manager. A nil logger discards output.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		conns:       make(map[string]*gorm.DB),
		defaultName: DefaultConnection,
		logger:      logger,
	}
}

// Open connects using cfg and registers the connection under name.
func (m *Manager) Open(name string, cfg config.DBConfig) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: newGormLogger(m.logger)})
	if err != nil {
		return nil, fmt.Errorf("open %s connection %q: %w", cfg.Driver, name, err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	m.Add(name, db)
	m.logger.Info("database connection opened", zap.String("connection", name), zap.String("driver", cfg.Driver))
	return db, nil
}

// Add registers an existing handle, replacing any connection with that name.
func (m *Manager) Add(name string, db *gorm.DB) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conns[name] = db
}

// SetDefault changes which connection "" resolves to.
func (m *Manager) SetDefault(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultName = name
}

// Connection returns the named handle; "" means the default connection.
func (m *Manager) Connection(name string) (*gorm.DB, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if name == "" {
		name = m.defaultName
	}
	db, ok := m.conns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownConnection, name)
	}
	return db, nil
}

// Names lists the registered connections, sorted.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.conns))
	for name := range m.conns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes every connection and forgets them.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for name, db := range m.conns {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Close()
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("close %q: %w", name, err))
		}
		delete(m.conns, name)
	}
	return errors.Join(errs...)
}

// Count implements validation.PresenceVerifier.
//
//	SELECT count(*) FROM `table` WHERE `column` = ? AND `exclude.Column` <> ?
func (m *Manager) Count(ctx context.Context, connection, table, column string, value any, exclude *validation.Exclusion) (int64, error) {
	if !validation.ValidIdentifier(table) || !validation.ValidIdentifier(column) {
		return 0, fmt.Errorf("%w: %s.%s", validation.ErrInvalidIdentifier, table, column)
	}
	if exclude != nil && !validation.ValidIdentifier(exclude.Column) {
		return 0, fmt.Errorf("%w: %s", validation.ErrInvalidIdentifier, exclude.Column)
	}

	db, err := m.Connection(connection)
	if err != nil {
		return 0, err
	}

	q := db.WithContext(ctx).Table(table).
		Where(clause.Eq{Column: clause.Column{Name: column}, Value: value})
	if exclude != nil {
		q = q.Where(clause.Neq{Column: clause.Column{Name: exclude.Column}, Value: exclude.Value})
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count %s.%s: %w", table, column, err)
	}
	return n, nil
}

// Dialector picks the gorm driver for cfg.Driver.
func Dialector(cfg config.DBConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql":
		return mysql.Open(DSN(cfg)), nil
	case "postgres", "pgsql":
		return postgres.Open(DSN(cfg)), nil
	case "sqlite", "sqlite3":
		return sqlite.Open(DSN(cfg)), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
}

// DSN builds the driver connection string. DB_URL wins when set.
func DSN(cfg config.DBConfig) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	switch cfg.Driver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database)
	case "postgres", "pgsql":
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database)
	}
	return cfg.Database
}

// ── gorm → zap ───────────────────────────────────────────────────────────────

type zapWriter struct{ log *zap.SugaredLogger }

func (w zapWriter) Printf(format string, args ...any) { w.log.Debugf(format, args...) }

func newGormLogger(l *zap.Logger) gormlogger.Interface {
	return gormlogger.New(zapWriter{log: l.Named("gorm").Sugar()}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
