package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

// Config holds all settings for one batch run, populated from environment
// variables.
type Config struct {
	TreesCSV      string
	BoundariesZip string
	OutDir        string
	PerCultivar   bool
	MapCluster    bool

	LogLevel  string
	LogFormat string

	// HTTPAddr enables the health/metrics server when non-empty. A plain
	// batch invocation leaves it unset.
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// Kafka publishing of the cleaned record set, enabled when brokers are
	// configured.
	KafkaBrokers []string
	KafkaTopic   string
}

// KafkaEnabled reports whether the cleaned record set should be published.
func (c *Config) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }

// Load reads configuration from environment variables, applying defaults
// where unset. Validation failures here are fatal to the run.
func Load() (*Config, error) {
	shutdownTimeout, err := parseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		TreesCSV:        os.Getenv("TREES_CSV"),
		BoundariesZip:   os.Getenv("BOUNDARIES_ZIP"),
		OutDir:          envOrDefault("OUT_DIR", "out"),
		PerCultivar:     os.Getenv("PER_CULTIVAR") == "true",
		MapCluster:      envOrDefault("MAP_CLUSTER", "true") == "true",
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		ShutdownTimeout: shutdownTimeout,
		KafkaBrokers:    parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:      envOrDefault("KAFKA_TOPIC", "cherry-records"),
	}

	if cfg.TreesCSV == "" {
		return nil, errors.New("TREES_CSV is required")
	}
	if cfg.BoundariesZip == "" {
		return nil, errors.New("BOUNDARIES_ZIP is required")
	}
	if cfg.KafkaEnabled() && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_BROKERS is set but KAFKA_TOPIC is empty")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseShutdownTimeout() (time.Duration, error) {
	s := envOrDefault("SHUTDOWN_TIMEOUT", "10s")
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, errors.New("invalid SHUTDOWN_TIMEOUT")
	}
	return d, nil
}

// parseBrokers splits a comma-separated broker list, dropping empty entries.
func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
