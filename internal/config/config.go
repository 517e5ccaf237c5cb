// Package config loads service configuration from environment variables
// (per §6's table), with an optional YAML file overlay and .env loading
// for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every tunable named in §6's configuration table, plus
// rate limiting and CORS knobs for the HTTP surface.
type Config struct {
	Port                string  `yaml:"port"`
	Host                string  `yaml:"host"`
	CleanupIntervalSecs int     `yaml:"cleanup_interval_secs"`
	DataRetentionHours  int     `yaml:"data_retention_hours"`
	MaxRequestBytes     int64   `yaml:"max_request_bytes"`
	RequestTimeoutSecs  int     `yaml:"request_timeout_secs"`
	DefaultSpeedMps     float64 `yaml:"default_speed_mps"`
	CORSAllowOrigins    string  `yaml:"cors_allow_origins"`
	RateRPS             float64 `yaml:"rate_rps"`
	RateBurst           int     `yaml:"rate_burst"`
}

// Default returns the configuration with every default named in §6.
func Default() Config {
	return Config{
		Port:               "3000",
		Host:               "0.0.0.0",
		CleanupIntervalSecs: 1800,
		DataRetentionHours:  12,
		MaxRequestBytes:     500 * 1024 * 1024,
		RequestTimeoutSecs:  600,
		DefaultSpeedMps:     15,
		CORSAllowOrigins:    "*",
		RateRPS:             50,
		RateBurst:           100,
	}
}

// Load builds a Config starting from Default, optionally overlaying a
// YAML file named by CONFIG_FILE, then applying environment variables —
// env always wins over the file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(data, &cfg)
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("HOST"); v != "" {
		cfg.Host = v
	}
	if v := envInt("CLEANUP_INTERVAL_SECS"); v != nil {
		cfg.CleanupIntervalSecs = *v
	}
	if v := envInt("DATA_RETENTION_HOURS"); v != nil {
		cfg.DataRetentionHours = *v
	}
	if v := envInt64("MAX_REQUEST_BYTES"); v != nil {
		cfg.MaxRequestBytes = *v
	}
	if v := envInt("REQUEST_TIMEOUT_SECS"); v != nil {
		cfg.RequestTimeoutSecs = *v
	}
	if v := envFloat("DEFAULT_SPEED_MPS"); v != nil {
		cfg.DefaultSpeedMps = *v
	}
	if v := os.Getenv("CORS_ALLOW_ORIGINS"); v != "" {
		cfg.CORSAllowOrigins = v
	}
	if v := envFloat("RATE_RPS"); v != nil {
		cfg.RateRPS = *v
	}
	if v := envInt("RATE_BURST"); v != nil {
		cfg.RateBurst = *v
	}

	return cfg
}

func envInt(key string) *int {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

func envInt64(key string) *int64 {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func envFloat(key string) *float64 {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &n
}
