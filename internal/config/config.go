package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported chat store backends.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName          string
	AppEnv           string
	AppPort          string
	AllowOrigins     string
	StoreDriver      string
	DatabaseURL      string
	SQLitePath       string
	RedisURL         string
	InsightsCacheTTL time.Duration
	NATSURL          string
	NATSSubject      string
	FixturesPath     string
	VitalsRateLimit  int
	VitalsRateWindow time.Duration
	ShutdownTimeout  time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// UsesSQL reports whether the chat store is backed by gorm.
func (c Config) UsesSQL() bool {
	return c.StoreDriver == StoreSQLite || c.StoreDriver == StorePostgres
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CHATSHELL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Chatshell API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("cors.allow_origins", "*")
	v.SetDefault("store.driver", StoreMemory)
	v.SetDefault("sqlite.path", "file:chatshell?mode=memory&cache=shared")
	v.SetDefault("insights.cache_ttl", "5m")
	v.SetDefault("nats.subject", "chatshell.vitals")
	v.SetDefault("vitals.rate_limit", 60)
	v.SetDefault("vitals.rate_window", "1m")
	v.SetDefault("shutdown.timeout", "5s")

	ttl, err := parseDuration(v, "insights.cache_ttl", 5*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid insights cache ttl: %w", err)
	}

	window, err := parseDuration(v, "vitals.rate_window", time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid vitals rate window: %w", err)
	}

	shutdown, err := parseDuration(v, "shutdown.timeout", 5*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	cfg := Config{
		AppName:          v.GetString("app.name"),
		AppEnv:           v.GetString("app.env"),
		AppPort:          v.GetString("app.port"),
		AllowOrigins:     v.GetString("cors.allow_origins"),
		StoreDriver:      strings.ToLower(strings.TrimSpace(v.GetString("store.driver"))),
		DatabaseURL:      v.GetString("database.url"),
		SQLitePath:       v.GetString("sqlite.path"),
		RedisURL:         v.GetString("redis.url"),
		InsightsCacheTTL: ttl,
		NATSURL:          v.GetString("nats.url"),
		NATSSubject:      v.GetString("nats.subject"),
		FixturesPath:     v.GetString("fixtures.path"),
		VitalsRateLimit:  v.GetInt("vitals.rate_limit"),
		VitalsRateWindow: window,
		ShutdownTimeout:  shutdown,
	}

	switch cfg.StoreDriver {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("database url must be provided for the postgres store")
		}
	default:
		return Config{}, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}

	if cfg.VitalsRateLimit <= 0 {
		cfg.VitalsRateLimit = 60
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return fallback, nil
	}
	return time.ParseDuration(raw)
}
