// Package loadgen drives a running footprint service with generated
// submissions and checks the resulting rankings.
package loadgen

import (
	"errors"
	"fmt"
	"runtime"
	"time"
)

// Defaults used by NewConfig.
const (
	DefaultBaseURL        = "http://localhost:9080"
	DefaultCount          = 10_000
	DefaultTopN           = 50
	DefaultTimeout        = 30 * time.Second
	DefaultProcessTimeout = 2 * time.Minute
	workersPerCPU         = 2
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid load generator config")

// Config holds configuration for a load run.
type Config struct {
	BaseURL        string        // Base URL of the service
	Count          int           // Number of submissions, one per employee
	TopN           int           // Leaderboard entries to fetch
	Workers        int           // Concurrent HTTP requests
	Timeout        time.Duration // Per-request timeout
	ProcessTimeout time.Duration // How long to wait for the service to drain
	OutputFile     string        // Optional JSON dump of generated submissions
	Seed           uint64        // Generator seed; 0 picks a random seed
	Verbose        bool
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	return &Config{
		BaseURL:        DefaultBaseURL,
		Count:          DefaultCount,
		TopN:           DefaultTopN,
		Workers:        runtime.NumCPU() * workersPerCPU,
		Timeout:        DefaultTimeout,
		ProcessTimeout: DefaultProcessTimeout,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.BaseURL == "":
		return fmt.Errorf("%w: url must not be empty", ErrInvalidConfig)
	case c.Count < 1:
		return fmt.Errorf("%w: count must be positive, got %d", ErrInvalidConfig, c.Count)
	case c.TopN < 1:
		return fmt.Errorf("%w: top must be positive, got %d", ErrInvalidConfig, c.TopN)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	case c.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// Stats summarises a load run.
type Stats struct {
	Generated          int
	Submitted          int
	Accepted           int
	Duplicate          int
	Failed             int
	RankingsRetrieved  int
	LeaderboardEntries int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}

// SuccessRate is the accepted share of submitted requests in percent.
func (s *Stats) SuccessRate() float64 {
	if s.Submitted == 0 {
		return 0
	}
	return float64(s.Accepted) / float64(s.Submitted) * 100
}

// Throughput is submitted requests per second over the whole run.
func (s *Stats) Throughput() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Submitted) / s.Duration.Seconds()
}
