// Package config reads process configuration from the environment, with an
// optional .env file loaded first.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/samber/lo"

	"github.com/csg33k/leadform/internal/adapters/firebase"
	"github.com/csg33k/leadform/internal/dialog"
	"github.com/csg33k/leadform/internal/domain"
	"github.com/csg33k/leadform/internal/ports"
)

const (
	DriverFirebase = "firebase"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Firebase is the hosted store's parameters. Writes only need DatabaseURL
// plus optional credentials; APIKey, AuthDomain and ProjectID feed the
// startup status log.
type Firebase struct {
	APIKey          string `env:"FIREBASE_API_KEY"`
	AuthDomain      string `env:"FIREBASE_AUTH_DOMAIN"`
	DatabaseURL     string `env:"FIREBASE_DATABASE_URL"`
	ProjectID       string `env:"FIREBASE_PROJECT_ID"`
	CredentialsFile string `env:"FIREBASE_CREDENTIALS_FILE"`
	AuthToken       string `env:"FIREBASE_AUTH_TOKEN"`
}

type Config struct {
	Port       string `env:"PORT" envDefault:"8080"`
	Debug      bool   `env:"DEBUG_MODE"`
	Driver     string `env:"STORE_DRIVER" envDefault:"firebase"`
	Collection string `env:"COLLECTION_PATH" envDefault:"users"`

	DBPath        string `env:"DB_PATH" envDefault:"leads.db"`
	DatabaseURL   string `env:"DATABASE_URL"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	Firebase Firebase

	Countdown   int           `env:"COUNTDOWN_SECONDS" envDefault:"3"`
	Stagger     time.Duration `env:"OPEN_STAGGER" envDefault:"500ms"`
	Targets     []string      `env:"OPEN_TARGETS" envSeparator:","`
	DisplayText string        `env:"OPEN_DISPLAY_TEXT"`
}

// Load reads an optional dotenv file, then the environment. A missing
// dotenv file is not an error; the returned bool reports whether one was
// read.
func Load(files ...string) (Config, bool, error) {
	loaded := true
	if err := godotenv.Load(files...); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, false, fmt.Errorf("config: load dotenv: %w", err)
		}
		loaded = false
	}
	cfg, err := Parse()
	return cfg, loaded, err
}

// Parse reads the environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.Driver = strings.ToLower(strings.TrimSpace(cfg.Driver))
	if strings.TrimSpace(cfg.Collection) == "" {
		cfg.Collection = domain.DefaultCollection
	}
	return cfg, nil
}

// Addr is the HTTP listen address.
func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// FirebaseConfig is the hosted store's connection parameters.
func (c Config) FirebaseConfig() firebase.Config {
	return firebase.Config(c.Firebase)
}

// Dialog is the countdown configuration shared by the web page and the
// terminal client.
func (c Config) Dialog() dialog.Config {
	targets := lo.Compact(lo.Map(c.Targets, func(t string, _ int) string {
		return strings.TrimSpace(t)
	}))
	return dialog.Config{
		Countdown:   c.Countdown,
		Tick:        dialog.DefaultTick,
		Stagger:     c.Stagger,
		Targets:     targets,
		DisplayText: c.DisplayText,
	}
}

// Missing lists the hosted-store parameters a write cannot do without. It
// is empty for every other driver.
func (c Config) Missing() []string {
	if c.Driver != DriverFirebase {
		return nil
	}
	var out []string
	if c.Firebase.DatabaseURL == "" {
		out = append(out, "FIREBASE_DATABASE_URL")
	}
	return out
}

// LogStatus writes the startup configuration diagnostic. Missing hosted-store
// parameters are a warning; writes will fail when attempted.
func (c Config) LogStatus(logger ports.Logger) {
	logger.Info("store configuration",
		"driver", c.Driver,
		"collection", c.Collection,
		"hasApiKey", c.Firebase.APIKey != "",
		"hasDatabaseURL", c.Firebase.DatabaseURL != "",
		"projectId", c.Firebase.ProjectID,
	)
	if missing := c.Missing(); len(missing) > 0 {
		logger.Warn("hosted store is not fully configured; submissions will fail", "missing", missing)
	}
}
