package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the producer process
type Config struct {
	Kafka struct {
		BootstrapServers string
		SecurityProtocol string
		SASLMechanism    string
		SASLUsername     string
		SASLPassword     string
		Topic            string
	}
	CatalogPath   string
	LogLevel      string
	HTTPPort      string
	EventInterval time.Duration
	EventJitter   time.Duration
	RetryWait     time.Duration
	DrainTimeout  time.Duration
}

// Load reads configuration from the environment, after a best-effort
// .env load. Missing broker credentials are a startup error, not a
// condition to retry.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.Kafka.BootstrapServers = os.Getenv("BOOTSTRAP_SERVERS")
	cfg.Kafka.SecurityProtocol = getEnv("SECURITY_PROTOCOL", "SASL_SSL")
	cfg.Kafka.SASLMechanism = getEnv("SASL_MECHANISM", "PLAIN")
	cfg.Kafka.SASLUsername = os.Getenv("SASL_USERNAME")
	cfg.Kafka.SASLPassword = os.Getenv("SASL_PASSWORD")
	cfg.Kafka.Topic = getEnv("KAFKA_TOPIC", "ecommerce-topic-1")

	cfg.CatalogPath = getEnv("CATALOG_PATH", "data/TV_DATASET_USA.csv")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.HTTPPort = getEnv("HTTP_PORT", "8090")

	cfg.EventInterval = getEnvAsDuration("EVENT_INTERVAL_MS", 100*time.Millisecond)
	cfg.EventJitter = getEnvAsDuration("EVENT_JITTER_MS", 0)
	cfg.RetryWait = getEnvAsDuration("RETRY_WAIT_MS", time.Second)
	cfg.DrainTimeout = getEnvAsDuration("DRAIN_TIMEOUT_MS", 30*time.Second)

	var missing []string
	if cfg.Kafka.BootstrapServers == "" {
		missing = append(missing, "BOOTSTRAP_SERVERS")
	}
	if cfg.Kafka.SASLUsername == "" {
		missing = append(missing, "SASL_USERNAME")
	}
	if cfg.Kafka.SASLPassword == "" {
		missing = append(missing, "SASL_PASSWORD")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return time.Duration(n) * time.Millisecond
		}
	}
	return defaultValue
}
