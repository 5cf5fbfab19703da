package ratelimit

import "time"

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type RateLimiter interface {
	Allow(key string, config RateLimitConfig) (bool, error)
	GetRemaining(key string, config RateLimitConfig) (int64, error)
	Reset(key string) error
}
