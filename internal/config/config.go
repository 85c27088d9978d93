// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port           string
	FrontendURL    string
	DBPath         string
	AllowedOrigins []string
	GRPCPort       string // serve the challenge service over gRPC when set
	ChallengeAddr  string // use a remote challenge service when set
	Timing         TimingConfig
	SessionTTL     time.Duration
	PlayLog        PlayLogConfig
}

// TimingConfig holds the delays before timed transitions after a verdict.
type TimingConfig struct {
	Correct time.Duration
	Retry   time.Duration
	Reveal  time.Duration
}

// PlayLogConfig controls NDJSON play-session logging.
type PlayLogConfig struct {
	Enabled   bool
	Dir       string
	QueueSize int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	queueSize := getEnvInt("PLAY_LOG_QUEUE_SIZE", 1000)
	if queueSize <= 0 {
		queueSize = 1000
	}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		FrontendURL:    getEnv("FRONTEND_URL", ""),
		DBPath:         getEnv("DB_PATH", "./data/mindcraft.db"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		GRPCPort:       getEnv("GRPC_PORT", ""),
		ChallengeAddr:  getEnv("CHALLENGE_SERVICE_ADDR", ""),
		Timing: TimingConfig{
			Correct: getEnvDuration("CHALLENGE_CORRECT_DELAY", 2*time.Second),
			Retry:   getEnvDuration("CHALLENGE_RETRY_DELAY", 2*time.Second),
			Reveal:  getEnvDuration("CHALLENGE_REVEAL_DELAY", 3*time.Second),
		},
		SessionTTL: getEnvDuration("PLAY_SESSION_TTL", 30*time.Minute),
		PlayLog: PlayLogConfig{
			Enabled:   getEnvBool("PLAY_LOG_ENABLED", true),
			Dir:       getEnv("PLAY_LOG_DIR", "./data/logs/play"),
			QueueSize: queueSize,
		},
	}

	if cfg.FrontendURL != "" {
		cfg.AllowedOrigins = append(cfg.AllowedOrigins, strings.TrimRight(cfg.FrontendURL, "/"))
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.Timing.Correct <= 0 || c.Timing.Retry <= 0 || c.Timing.Reveal <= 0 {
		return fmt.Errorf("challenge delays must be > 0")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("PLAY_SESSION_TTL must be > 0")
	}
	if c.PlayLog.Enabled && c.PlayLog.Dir == "" {
		return fmt.Errorf("PLAY_LOG_DIR cannot be empty")
	}
	if c.PlayLog.QueueSize <= 0 {
		return fmt.Errorf("PLAY_LOG_QUEUE_SIZE must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

// getEnvDuration accepts Go duration strings ("2s", "1m30s") or a bare
// number of milliseconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	value = strings.TrimSpace(value)
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
