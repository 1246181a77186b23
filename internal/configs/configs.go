/*
Package configs is responsible for loading and parsing the application's configuration settings.

It reads operating system environment variables for the running environment, the TCP
game listener, the HTTP/WebSocket surface, CORS origins, the mob encounter timings, the
starting currency grant, and the connection and message rate limits.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig contains all configuration parameters required for the application to run.
// All configuration values are loaded from environment variables.
type AppConfig struct {
	// General Server Settings
	Environment string
	Host        string
	Port        int
	HTTPPort    int

	// Security Settings
	AllowedOrigins []string

	// Game Settings
	MobPollInterval time.Duration
	CombatDelay     time.Duration
	StartingCash    int

	// Rate Limit Settings
	MsgRate   float64
	MsgBurst  int
	ConnRate  float64
	ConnBurst int
}

// IsDevelopment reports whether the server runs in the development environment.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// GameAddr returns the host:port the TCP game listener binds to.
func (c *AppConfig) GameAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// HTTPAddr returns the host:port the HTTP server binds to, or "" when disabled.
func (c *AppConfig) HTTPAddr() string {
	if c.HTTPPort == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.Host, c.HTTPPort)
}

// LoadConfig reads and parses the application configuration from environment variables.
// It applies a default for every item and validates ranges.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	var err error

	// --- General Server Settings ---
	cfg.Environment = getEnv("ENVIRONMENT", "development")
	cfg.Host = getEnv("HOST", "127.0.0.1")

	if cfg.Port, err = intEnv("PORT", 4000); err != nil {
		return nil, err
	}
	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	if cfg.HTTPPort, err = intEnv("HTTP_PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.HTTPPort != 0 && (cfg.HTTPPort < 1024 || cfg.HTTPPort > 65535) {
		return nil, fmt.Errorf("HTTP_PORT %d is outside the recommended range (%d-%d); use 0 to disable", cfg.HTTPPort, 1024, 65535)
	}
	if cfg.HTTPPort == cfg.Port {
		return nil, fmt.Errorf("HTTP_PORT and PORT must differ (both %d)", cfg.Port)
	}

	// --- Security Settings ---
	cfg.AllowedOrigins = []string{}
	if originsStr := os.Getenv("ALLOWED_ORIGINS"); originsStr != "" {
		for _, origin := range strings.Split(originsStr, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	}

	// --- Game Settings ---
	if cfg.MobPollInterval, err = durationEnv("MOB_POLL_INTERVAL", 500*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.CombatDelay, err = durationEnv("COMBAT_DELAY", 100*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.MobPollInterval <= 0 {
		return nil, fmt.Errorf("MOB_POLL_INTERVAL must be positive, got %s", cfg.MobPollInterval)
	}
	if cfg.CombatDelay < 0 {
		return nil, fmt.Errorf("COMBAT_DELAY must not be negative, got %s", cfg.CombatDelay)
	}

	if cfg.StartingCash, err = intEnv("STARTING_CASH", 150); err != nil {
		return nil, err
	}
	if cfg.StartingCash < 0 {
		return nil, fmt.Errorf("STARTING_CASH must not be negative, got %d", cfg.StartingCash)
	}

	// --- Rate Limit Settings ---
	if cfg.MsgRate, err = floatEnv("MSG_RATE", 20); err != nil {
		return nil, err
	}
	if cfg.MsgBurst, err = intEnv("MSG_BURST", 40); err != nil {
		return nil, err
	}
	if cfg.ConnRate, err = floatEnv("CONN_RATE", 1); err != nil {
		return nil, err
	}
	if cfg.ConnBurst, err = intEnv("CONN_BURST", 10); err != nil {
		return nil, err
	}
	if cfg.MsgRate <= 0 || cfg.MsgBurst <= 0 || cfg.ConnRate <= 0 || cfg.ConnBurst <= 0 {
		return nil, fmt.Errorf("rate limits must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return n, nil
}

func floatEnv(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return f, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return d, nil
}
