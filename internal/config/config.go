package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultSourceURL = "https://www.forsyth.k12.ga.us/fs/pages/0/page-pops"
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	SourceURL       string
	SourceUserAgent string
	FetchTimeout    time.Duration
	MaxResponseSize int64
	CacheTTL        time.Duration
	AlertMinLength  int
	ExcerptMax      int

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Alert bus configuration. Enabled implicitly when brokers are set.
	AlertBusEnabled bool
	AlertBrokers    []string
	AlertTopic      string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	fetchTimeout, err := durationEnv("FETCH_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := durationEnv("CACHE_TTL", 60*time.Second)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := durationEnv("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	maxResponseSize, err := intEnv("MAX_RESPONSE_SIZE", 1_000_000)
	if err != nil {
		return nil, err
	}
	alertMinLength, err := intEnv("ALERT_MIN_LENGTH", 150)
	if err != nil {
		return nil, err
	}
	excerptMax, err := intEnv("EXCERPT_MAX_LENGTH", 240)
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("ALERT_KAFKA_BROKERS"))
	alertBusEnabled := len(brokers) > 0
	if v := os.Getenv("ALERT_BUS_ENABLED"); v != "" {
		alertBusEnabled = v == "true"
	}

	cfg := &Config{
		SourceURL:       envOrDefault("SOURCE_URL", defaultSourceURL),
		SourceUserAgent: envOrDefault("SOURCE_USER_AGENT", defaultUserAgent),
		FetchTimeout:    fetchTimeout,
		MaxResponseSize: int64(maxResponseSize),
		CacheTTL:        cacheTTL,
		AlertMinLength:  alertMinLength,
		ExcerptMax:      excerptMax,

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		AlertBusEnabled: alertBusEnabled,
		AlertBrokers:    brokers,
		AlertTopic:      envOrDefault("ALERT_KAFKA_TOPIC", "school-status-alerts"),
	}

	if cfg.SourceURL == "" {
		return nil, errors.New("SOURCE_URL is required")
	}
	if cfg.CacheTTL < 0 {
		return nil, errors.New("CACHE_TTL must not be negative")
	}
	if cfg.AlertBusEnabled && len(cfg.AlertBrokers) == 0 {
		return nil, errors.New("ALERT_BUS_ENABLED is true but ALERT_KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
