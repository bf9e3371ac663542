package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct.
// Embed or extend it in your app's own AppConfig.
type Config struct {
	App        AppConfig
	DB         DBConfig
	Log        LogConfig
	Validation ValidationConfig
}

type AppConfig struct {
	Name           string `env:"APP_NAME" envDefault:"GoLaravel"`
	Env            string `env:"APP_ENV" envDefault:"local"` // local | production | testing
	Debug          bool   `env:"APP_DEBUG" envDefault:"true"`
	URL            string `env:"APP_URL" envDefault:"http://localhost"`
	Port           string `env:"APP_PORT" envDefault:"8000"`
	Locale         string `env:"APP_LOCALE" envDefault:"en"`
	FallbackLocale string `env:"APP_FALLBACK_LOCALE" envDefault:"en"`
}

// DBConfig describes the default connection used by unique/exists rules.
type DBConfig struct {
	Driver       string `env:"DB_DRIVER" envDefault:"sqlite"` // mysql | postgres | sqlite
	URL          string `env:"DB_URL"`                        // full DSN, wins over the fields below
	Host         string `env:"DB_HOST" envDefault:"127.0.0.1"`
	Port         string `env:"DB_PORT" envDefault:"3306"`
	Database     string `env:"DB_DATABASE" envDefault:"database.sqlite"`
	Username     string `env:"DB_USERNAME" envDefault:"root"`
	Password     string `env:"DB_PASSWORD"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
}

type LogConfig struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	Format     string `env:"LOG_FORMAT" envDefault:"json"` // json | console
	File       string `env:"LOG_FILE"`                     // empty → stderr
	MaxSizeMB  int    `env:"LOG_MAX_SIZE" envDefault:"100"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"3"`
	MaxAgeDays int    `env:"LOG_MAX_AGE" envDefault:"28"`
	Compress   bool   `env:"LOG_COMPRESS" envDefault:"false"`
}

type ValidationConfig struct {
	RulesPath    string `env:"VALIDATION_RULES" envDefault:"config/validators.yaml"`
	DefaultScope string `env:"VALIDATION_DEFAULT_SCOPE" envDefault:"default"`
	LangPath     string `env:"LANG_PATH" envDefault:"lang"`
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg, err := config.Load()
func Load(envFiles ...string) (*Config, error) {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	i, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultVal
	}
	return b
}
