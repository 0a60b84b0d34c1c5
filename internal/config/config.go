package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultDirectoryURL is the published location of the WWFF directory CSV.
const DefaultDirectoryURL = "https://wwff.co/wwff-data/wwff_directory.csv"

// Config holds all service settings, populated from environment variables.
type Config struct {
	// DirectoryURL is the upstream CSV location used for fetch and refresh.
	DirectoryURL string
	// DirectoryFile, when set, bootstraps the initial directory from a local
	// file instead of the first download.
	DirectoryFile string

	RefreshInterval  time.Duration
	FetchTimeout     time.Duration
	FetchMinInterval time.Duration

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kafka change feed configuration.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool
}

// Load reads configuration from environment variables, applying defaults
// where unset. A local .env file is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	refreshInterval, err := durationOrDefault("REFRESH_INTERVAL", time.Hour)
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := durationOrDefault("FETCH_TIMEOUT", 2*time.Minute)
	if err != nil {
		return nil, err
	}
	fetchMinInterval, err := durationOrDefault("FETCH_MIN_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := durationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		DirectoryURL:     envOrDefault("DIRECTORY_URL", DefaultDirectoryURL),
		DirectoryFile:    os.Getenv("DIRECTORY_FILE"),
		RefreshInterval:  refreshInterval,
		FetchTimeout:     fetchTimeout,
		FetchMinInterval: fetchMinInterval,
		HTTPAddr:         envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		LogFormat:        envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:  shutdownTimeout,
		KafkaBrokers:     brokers,
		KafkaTopic:       envOrDefault("KAFKA_TOPIC", "wwff-directory-changes"),
		KafkaEnabled:     kafkaEnabled,
	}

	if cfg.DirectoryURL == "" {
		return nil, errors.New("DIRECTORY_URL is required")
	}
	if cfg.RefreshInterval <= 0 {
		return nil, errors.New("REFRESH_INTERVAL must be positive")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is empty")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationOrDefault(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}

func parseBrokers(v string) []string {
	var brokers []string
	for _, b := range strings.Split(v, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
