package redis

import (
	"errors"
	"fmt"
	"time"
)

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// TTL settings for different entity types. Zero means no expiry.
	// Registered players never expire; games expire a while after their
	// last change so abandoned tables do not pile up.
	GuestPlayerTTL time.Duration
	SessionTTL     time.Duration // expiry itself is checked by the auth service
	GameTTL        time.Duration
	SummaryTTL     time.Duration // zero keeps history forever
}

// Validate reports settings the client cannot start with
func (c Config) Validate() error {
	if c.URL == "" {
		return errors.New("redis URL is required")
	}
	if c.PoolSize < 0 || c.MinIdleConns < 0 {
		return fmt.Errorf("invalid pool settings: size %d, min idle %d", c.PoolSize, c.MinIdleConns)
	}
	for name, ttl := range map[string]time.Duration{
		"guest player": c.GuestPlayerTTL,
		"session":      c.SessionTTL,
		"game":         c.GameTTL,
		"summary":      c.SummaryTTL,
	} {
		if ttl < 0 {
			return fmt.Errorf("%s TTL must not be negative", name)
		}
	}
	return nil
}

// DefaultConfig returns the settings used unless overridden
func DefaultConfig() Config {
	return Config{
		URL:            "redis://localhost:6379",
		PoolSize:       10,
		MinIdleConns:   2,
		GuestPlayerTTL: 24 * time.Hour,
		SessionTTL:     48 * time.Hour,
		GameTTL:        24 * time.Hour,
		SummaryTTL:     0,
	}
}
