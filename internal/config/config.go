package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                  string
	AppEnv                   string
	AppPort                  string
	DatabaseURL              string
	RedisURL                 string
	NATSURL                  string
	JWTSecret                string
	DashboardCacheTTL        time.Duration
	DashboardRefreshInterval time.Duration
	StreamKeepAlive          time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("VIREO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Vireo HR API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("dashboard.cache_ttl", "5m")
	v.SetDefault("dashboard.refresh_interval", "30s")
	v.SetDefault("stream.keep_alive", "15s")

	ttl, err := parseDuration(v.GetString("dashboard.cache_ttl"), "dashboard cache ttl")
	if err != nil {
		return Config{}, err
	}

	refreshInterval, err := parseDuration(v.GetString("dashboard.refresh_interval"), "dashboard refresh interval")
	if err != nil {
		return Config{}, err
	}

	keepAlive, err := parseDuration(v.GetString("stream.keep_alive"), "stream keep alive")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:                  v.GetString("app.name"),
		AppEnv:                   v.GetString("app.env"),
		AppPort:                  v.GetString("app.port"),
		DatabaseURL:              v.GetString("database.url"),
		RedisURL:                 v.GetString("redis.url"),
		NATSURL:                  v.GetString("nats.url"),
		JWTSecret:                v.GetString("jwt.secret"),
		DashboardCacheTTL:        ttl,
		DashboardRefreshInterval: refreshInterval,
		StreamKeepAlive:          keepAlive,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	return cfg, nil
}

func parseDuration(value, name string) (time.Duration, error) {
	if value == "" {
		return 0, fmt.Errorf("invalid %s: empty value", name)
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}

	return duration, nil
}
