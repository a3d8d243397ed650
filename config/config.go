package config

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"time"
)

type Config struct {
	Env                string
	Port               string
	DBURL              string
	RedisAddr          string
	RedisPassword      string
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	FeedCacheTTL       time.Duration
	OutboxPollInterval time.Duration
}

func Load() *Config {
	return &Config{
		Env:                getEnv("ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		DBURL:              mustGetEnv("DB_URL"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		AccessTokenSecret:  mustGetEnv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: mustGetEnv("REFRESH_TOKEN_SECRET"),
		AccessTokenExpiry:  getEnvAsExpiry("ACCESS_TOKEN_EXPIRY", "15m"),
		RefreshTokenExpiry: getEnvAsExpiry("REFRESH_TOKEN_EXPIRY", "7d"),
		FeedCacheTTL:       getEnvAsExpiry("FEED_CACHE_TTL", "1h"),
		OutboxPollInterval: getEnvAsExpiry("OUTBOX_POLL_INTERVAL", "2s"),
	}
}

var expiryPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

// ParseExpiry parses duration strings like "900s", "15m", "1h" or "7d".
func ParseExpiry(s string) (time.Duration, error) {
	m := expiryPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid expiration format: %q", s)
	}

	value, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("invalid expiration value: %q", s)
	}

	switch m[2] {
	case "s":
		return time.Duration(value) * time.Second, nil
	case "m":
		return time.Duration(value) * time.Minute, nil
	case "h":
		return time.Duration(value) * time.Hour, nil
	case "d":
		return time.Duration(value) * 24 * time.Hour, nil
	}

	return 0, fmt.Errorf("invalid expiration unit: %q", s)
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required environment variable: %s", key)
	return ""
}

func getEnvAsExpiry(key string, defaultVal string) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		valStr = defaultVal
	}

	d, err := ParseExpiry(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %s", key, defaultVal)
		d, _ = ParseExpiry(defaultVal)
	}

	return d
}
