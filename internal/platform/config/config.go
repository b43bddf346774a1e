package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures everything the server needs from the environment. Relay
// API keys stay here, server-side only; the wizard core never sees them.
type Config struct {
	Addr string

	// Session storage. RedisURL empty means in-memory sessions.
	RedisURL   string
	SessionTTL time.Duration

	// Lead archive. DatabaseURL empty means in-memory archive.
	DatabaseURL string

	// Address-suggestion relay (getAddress.io).
	GetAddressURL string
	GetAddressKey string

	// Finance-submission relay (AutoConvert).
	AutoConvertURL string
	AutoConvertKey string

	// MaxPreviousAddresses bounds the previous-address phase. The source
	// disagreed with itself (4 vs 5); it is configuration here.
	MaxPreviousAddresses int

	// PlaceholderFallback reproduces the source's synthetic address/employment
	// substitution when the mapped lists come out empty. Off by default: an
	// empty list is a validation failure.
	PlaceholderFallback bool
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Addr:                 envOr("LEADGATE_ADDR", ":8080"),
		RedisURL:             os.Getenv("WIZARD_REDIS_URL"),
		SessionTTL:           envDuration("SESSION_TTL", 24*time.Hour),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		GetAddressURL:        envOr("GETADDRESS_API_URL", "https://api.getAddress.io"),
		GetAddressKey:        os.Getenv("GETADDRESS_API_KEY"),
		AutoConvertURL:       envOr("AUTOCONVERT_API_URL", "https://api.autoconvert.co.uk"),
		AutoConvertKey:       os.Getenv("AUTOCONVERT_API_KEY"),
		MaxPreviousAddresses: envInt("MAX_PREVIOUS_ADDRESSES", 4),
		PlaceholderFallback:  os.Getenv("SUBMIT_PLACEHOLDER_FALLBACK") == "true",
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
	if err != nil || n <= 0 {
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
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
