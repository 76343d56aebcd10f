package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration. Defaults come from PAY_*
// environment variables; an optional TOML file overlays them.
type Config struct {
	ChannelSize int    `toml:"channel_size"`
	LogLevel    string `toml:"log_level"`

	Metrics MetricsConfig `toml:"metrics"`
	NATS    NATSConfig    `toml:"nats"`
}

type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
}

type NATSConfig struct {
	URL      string `toml:"url"`
	Stream   string `toml:"stream"`
	Subject  string `toml:"subject"`
	Consumer string `toml:"consumer"`
}

// Default builds the configuration from environment variables.
// The channel bound defaults to 100 transactions in flight.
func Default() Config {
	return Config{
		ChannelSize: envIntOrDefault("PAY_CHANNEL_SIZE", 100),
		LogLevel:    envOrDefault("PAY_LOG_LEVEL", "info"),
		Metrics: MetricsConfig{
			Enabled: envBoolOrDefault("PAY_METRICS_ENABLED", false),
			Addr:    envOrDefault("PAY_METRICS_ADDR", ":9091"),
		},
		NATS: NATSConfig{
			URL:      envOrDefault("PAY_NATS_URL", "nats://localhost:4222"),
			Stream:   envOrDefault("PAY_NATS_STREAM", "PAY_TRANSACTIONS"),
			Subject:  envOrDefault("PAY_NATS_SUBJECT", "pay.transactions.>"),
			Consumer: envOrDefault("PAY_NATS_CONSUMER", "paystream"),
		},
	}
}

// Load overlays the TOML file at path over Default. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOrDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBoolOrDefault(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
