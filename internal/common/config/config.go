package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	StorageRedis = "redis"
	StorageFile  = "file"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"HTTP_PORT" envDefault:"8080"`
		Origin string `env:"CORS_ORIGIN" envDefault:"*"`
	}

	Discord struct {
		Token   string `env:"DISCORD_TOKEN,required,notEmpty"`
		OwnerID string `env:"OWNER_ID" envDefault:""`
	}

	Storage struct {
		Backend string `env:"STORAGE_BACKEND" envDefault:"redis"`
		DataDir string `env:"DATA_DIR" envDefault:"data"`
	}

	Redis struct {
		Host      string `env:"REDIS_HOST" envDefault:"localhost"`
		Port      int    `env:"REDIS_PORT" envDefault:"6379"`
		Password  string `env:"REDIS_PASSWORD" envDefault:""`
		DB        int    `env:"REDIS_DB" envDefault:"0"`
		KeyPrefix string `env:"REDIS_KEY_PREFIX" envDefault:"tracker:"`
	}

	Tracker struct {
		ScanHistoryLimit      int           `env:"SCAN_HISTORY_LIMIT" envDefault:"200"`
		PendingImportTTL      time.Duration `env:"PENDING_IMPORT_TTL" envDefault:"10m"`
		LeaderboardSize       int           `env:"LEADERBOARD_SIZE" envDefault:"10"`
		DefaultUpdateInterval int           `env:"DEFAULT_UPDATE_INTERVAL_MINUTES" envDefault:"60"`
	}

	Metrics struct {
		Enabled bool `env:"METRICS_ENABLED" envDefault:"true"`
	}
}

// Load reads an optional .env file and then the process environment.
// A missing DISCORD_TOKEN is reported as an error; callers treat it as fatal.
func Load() (*Config, error) {
	// .env is optional, production sets variables directly
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case StorageRedis, StorageFile:
	default:
		return fmt.Errorf("invalid STORAGE_BACKEND %q: expected %q or %q", c.Storage.Backend, StorageRedis, StorageFile)
	}
	if c.Tracker.ScanHistoryLimit <= 0 {
		return fmt.Errorf("invalid SCAN_HISTORY_LIMIT: %d", c.Tracker.ScanHistoryLimit)
	}
	if c.Tracker.PendingImportTTL <= 0 {
		return fmt.Errorf("invalid PENDING_IMPORT_TTL: %s", c.Tracker.PendingImportTTL)
	}
	if c.Tracker.LeaderboardSize <= 0 {
		return fmt.Errorf("invalid LEADERBOARD_SIZE: %d", c.Tracker.LeaderboardSize)
	}
	if c.Tracker.DefaultUpdateInterval <= 0 {
		return fmt.Errorf("invalid DEFAULT_UPDATE_INTERVAL_MINUTES: %d", c.Tracker.DefaultUpdateInterval)
	}
	return nil
}

// RedisAddr returns host:port of the configured Redis server.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
