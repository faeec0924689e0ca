// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables on top of New().
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory submission queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of calculation workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the submission id deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// ReductionRate is the assumed annual emissions reduction used by forecasts.
	ReductionRate float64 `koanf:"reduction_rate"`

	// ForecastMonths is the forecast horizon used when a request omits ?months.
	ForecastMonths int `koanf:"forecast_months"`

	// RecommendationLimit is the default number of tips returned per employee.
	RecommendationLimit int `koanf:"recommendation_limit"`

	// PeerTopN is the length of the company and department top lists on /peers.
	PeerTopN int `koanf:"peer_top_n"`

	// TrendMonths is the number of calendar months reported by /company/trends.
	TrendMonths int `koanf:"trend_months"`

	// SubmitRateLimit is the sustained write requests per second accepted on
	// POST endpoints; 0 disables limiting.
	SubmitRateLimit float64 `koanf:"submit_rate_limit"`

	// SubmitBurst is the token bucket size for SubmitRateLimit.
	SubmitBurst int `koanf:"submit_burst"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		QueueSize:           50_000,
		WorkerCount:         runtime.NumCPU() * 4,
		DedupeSize:          200_000,
		MaxLeaderboardLimit: 100,
		ReductionRate:       0.10,
		ForecastMonths:      12,
		RecommendationLimit: 3,
		PeerTopN:            5,
		TrendMonths:         6,
		SubmitRateLimit:     0,
		SubmitBurst:         100,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.ReductionRate < 0 || c.ReductionRate > 1:
		return fmt.Errorf("%w: reduction_rate must be within [0,1], got %v", ErrInvalidConfig, c.ReductionRate)
	case c.ForecastMonths <= 0:
		return fmt.Errorf("%w: forecast_months must be positive, got %d", ErrInvalidConfig, c.ForecastMonths)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive, got %d", ErrInvalidConfig, c.QueueSize)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive, got %d", ErrInvalidConfig, c.WorkerCount)
	case c.SubmitRateLimit < 0:
		return fmt.Errorf("%w: submit_rate_limit must not be negative, got %v", ErrInvalidConfig, c.SubmitRateLimit)
	case c.SubmitRateLimit > 0 && c.SubmitBurst <= 0:
		return fmt.Errorf("%w: submit_burst must be positive when rate limiting, got %d", ErrInvalidConfig, c.SubmitBurst)
	}
	return nil
}
