package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DatabaseURL     string        `mapstructure:"DATABASE_URL"`
	Port            string        `mapstructure:"APP_PORT"`
	Env             string        `mapstructure:"ENV"`
	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	RedisPassword   string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int           `mapstructure:"REDIS_DB"`
	ConfigCacheTTL  time.Duration `mapstructure:"CONFIG_CACHE_TTL"`
	RateLimitRPS    float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst  int           `mapstructure:"RATE_LIMIT_BURST"`
	DefaultWindows  int           `mapstructure:"DEFAULT_WINDOWS"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

var defaults = map[string]any{
	"DATABASE_URL":     "",
	"APP_PORT":         "8080",
	"ENV":              "development",
	"REDIS_ADDR":       "",
	"REDIS_PASSWORD":   "",
	"REDIS_DB":         0,
	"CONFIG_CACHE_TTL": "60s",
	"RATE_LIMIT_RPS":   20,
	"RATE_LIMIT_BURST": 40,
	"DEFAULT_WINDOWS":  5,
	"SHUTDOWN_TIMEOUT": "5s",
}

// Load reads .env files (when present) into the environment, then the
// environment into a Config.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !isNotExist(err) {
		return Config{}, fmt.Errorf("failed to load env file: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive, got %v and %d", c.RateLimitRPS, c.RateLimitBurst)
	}
	if c.DefaultWindows <= 0 {
		return fmt.Errorf("DEFAULT_WINDOWS must be positive, got %d", c.DefaultWindows)
	}
	return nil
}

// CacheEnabled reports whether store configuration is cached in Redis.
func (c Config) CacheEnabled() bool { return c.RedisAddr != "" }

func isNotExist(err error) bool { return errors.Is(err, fs.ErrNotExist) }
