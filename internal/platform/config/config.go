package config

import (
	"errors"
	"os"
	"strings"
	"time"

	platformstrings "shelterhub/pkg/platform/strings"
)

// Server captures process level configuration so main stays lean.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string

	DatabaseURL string

	Redis RedisConfig

	KafkaBrokers []string
	NotifyTopic  string

	StatsInterval time.Duration
}

// RedisConfig holds connection tuning for the notification gateway.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables. The signing key
// has no development fallback: an unset key is a startup error, never a
// silently guessable secret.
func FromEnv() (Server, error) {
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		return Server{}, errors.New("JWT_SIGNING_KEY must be set")
	}

	cfg := Server{
		Addr:          envOr("SHELTERHUB_ADDR", ":8080"),
		JWTSigningKey: jwtSigningKey,
		JWTIssuer:     envOr("JWT_ISSUER", "shelterhub"),
		JWTAudience:   envOr("JWT_AUDIENCE", "shelterhub-api"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		NotifyTopic:   envOr("NOTIFY_TOPIC", "shelterhub.notifications"),
		StatsInterval: 30 * time.Second,
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = platformstrings.DedupeAndTrim(strings.Split(brokers, ","))
	}
	if interval := os.Getenv("STATS_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return Server{}, errors.New("STATS_INTERVAL must be a duration such as 30s")
		}
		cfg.StatsInterval = d
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
