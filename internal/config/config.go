package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// MongoURI, when set, is used verbatim and the credential fields are
	// ignored. Otherwise the URI is assembled from username/password/cluster.
	MongoURI        string
	MongoUsername   string
	MongoPassword   string
	MongoCluster    string
	MongoDatabase   string
	MongoCollection string
	MongoTimeout    time.Duration

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Advisory freshness windows for the read-through caches.
	FilterCacheTTL time.Duration
	ReportCacheTTL time.Duration
	TrendCacheTTL  time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	mongoTimeout, err := parseDuration("MONGO_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	filterTTL, err := parseDuration("FILTER_CACHE_TTL", "10m")
	if err != nil {
		return nil, err
	}
	reportTTL, err := parseDuration("REPORT_CACHE_TTL", "20s")
	if err != nil {
		return nil, err
	}
	trendTTL, err := parseDuration("TREND_CACHE_TTL", "5m")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		MongoURI:        os.Getenv("MONGO_URI"),
		MongoUsername:   os.Getenv("MONGO_USERNAME"),
		MongoPassword:   os.Getenv("MONGO_PASSWORD"),
		MongoCluster:    os.Getenv("MONGO_CLUSTER"),
		MongoDatabase:   envOrDefault("MONGO_DATABASE", "dam-dash"),
		MongoCollection: envOrDefault("MONGO_COLLECTION", "reports"),
		MongoTimeout:    mongoTimeout,

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		FilterCacheTTL: filterTTL,
		ReportCacheTTL: reportTTL,
		TrendCacheTTL:  trendTTL,
	}

	if cfg.MongoURI == "" {
		if cfg.MongoUsername == "" {
			return nil, errors.New("MONGO_USERNAME is required")
		}
		if cfg.MongoPassword == "" {
			return nil, errors.New("MONGO_PASSWORD is required")
		}
		if cfg.MongoCluster == "" {
			return nil, errors.New("MONGO_CLUSTER is required")
		}
	}

	return cfg, nil
}

// ConnectionURI returns the MongoDB connection string. Credentials are
// percent-encoded so passwords containing URI metacharacters survive.
func (c *Config) ConnectionURI() string {
	if c.MongoURI != "" {
		return c.MongoURI
	}
	return fmt.Sprintf("mongodb+srv://%s:%s@%s",
		url.QueryEscape(c.MongoUsername),
		url.QueryEscape(c.MongoPassword),
		c.MongoCluster,
	)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	raw := envOrDefault(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return d, nil
}
