// Package config reads process configuration from the environment so main
// stays lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything the server process needs to start.
type Config struct {
	Addr        string
	Environment string
	LogLevel    string

	PostgresDSN string
	Redis       RedisConfig
	Kafka       KafkaConfig

	// EnforcementDefault overrides the environment-derived process default
	// when set. Must parse as an enforcement mode.
	EnforcementDefault string

	JWTSigningKey   string
	AdminAPIKeyHash string
}

// RedisConfig holds connection settings for the override store cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds the trace event sink settings.
type KafkaConfig struct {
	Brokers    []string
	TraceTopic string
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		Addr:        envOr("ANSWERWIRE_ADDR", ":8080"),
		Environment: envOr("ANSWERWIRE_ENV", "development"),
		LogLevel:    envOr("LOG_LEVEL", "info"),
		PostgresDSN: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:    splitList(os.Getenv("KAFKA_BROKERS")),
			TraceTopic: envOr("TRACE_TOPIC", "wiring.trace.events"),
		},
		EnforcementDefault: os.Getenv("ENFORCEMENT_DEFAULT"),
		// Dev fallback; must be overridden in production.
		JWTSigningKey:   envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		AdminAPIKeyHash: os.Getenv("ADMIN_API_KEY_HASH"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
