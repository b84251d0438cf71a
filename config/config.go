package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Points configuration
	PointsConfigPath      string
	DefaultActionPoints   map[string]int64
	IdempotencyCacheSize  int // Per-guild bound of the duplicate fast-path set
	MultiplierCacheGuilds int // Number of guild multiplier tables kept in memory

	// Chain holder sync
	HolderSyncEnabled  bool
	HolderSyncInterval time.Duration

	// NATS configuration
	NATSEnabled bool
	NATSServers string

	// OpenTelemetry configuration
	OTelEnabled              bool
	OTelServiceName          string
	OTelExporterType         string // "console", "otlp" or "none"
	OTelOTLPEndpoint         string
	OTelExportIntervalMillis int

	// Logging
	LogLevel string

	// Environment
	Environment string // "development", "production" or "test"
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Failed to load .env file")
	}

	config := &Config{
		DiscordToken: os.Getenv("DISCORD_TOKEN"),

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		PointsConfigPath:      os.Getenv("POINTS_CONFIG_PATH"),
		IdempotencyCacheSize:  getEnvInt("IDEMPOTENCY_CACHE_SIZE", 10000),
		MultiplierCacheGuilds: getEnvInt("MULTIPLIER_CACHE_GUILDS", 1000),

		HolderSyncEnabled:  os.Getenv("HOLDER_SYNC_ENABLED") == "true",
		HolderSyncInterval: getEnvDuration("HOLDER_SYNC_INTERVAL", 6*time.Hour),

		NATSEnabled: os.Getenv("NATS_ENABLED") == "true",
		NATSServers: getEnv("NATS_SERVERS", "nats://localhost:4222"),

		OTelEnabled:              os.Getenv("OTEL_ENABLED") == "true",
		OTelServiceName:          getEnv("OTEL_SERVICE_NAME", "pointsbot"),
		OTelExporterType:         getEnv("OTEL_EXPORTER_TYPE", "console"),
		OTelOTLPEndpoint:         getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTelExportIntervalMillis: getEnvInt("OTEL_EXPORT_INTERVAL_MILLIS", 30000),

		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	defaults, err := LoadActionPoints(config.PointsConfigPath)
	if err != nil {
		return nil, err
	}
	config.DefaultActionPoints = defaults

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}

// NewTestConfig returns a configuration suitable for tests
func NewTestConfig() *Config {
	return &Config{
		DefaultActionPoints:      DefaultActionPoints(),
		IdempotencyCacheSize:     1000,
		MultiplierCacheGuilds:    100,
		HolderSyncInterval:       time.Hour,
		NATSServers:              "nats://localhost:4222",
		OTelServiceName:          "pointsbot-test",
		OTelExporterType:         "none",
		OTelExportIntervalMillis: 1000,
		LogLevel:                 "debug",
		Environment:              "test",
	}
}

// ConfigureLogging applies the log level and formatter for this environment
func (c *Config) ConfigureLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.WithField("level", c.LogLevel).Warn("Unknown log level, defaulting to info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if c.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

// RequireDiscord validates the settings needed to connect to the gateway
func (c *Config) RequireDiscord() error {
	if strings.TrimSpace(c.DiscordToken) == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		log.WithField("key", key).Warn("Invalid integer in environment, using default")
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
		log.WithField("key", key).Warn("Invalid duration in environment, using default")
	}
	return fallback
}
