package service

import (
	"time"

	"github.com/okian/footprint/internal/adapters/repository"
	"github.com/okian/footprint/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of pending submissions.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many submission ids are remembered.
// Zero or negative keeps every id.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		s.dedupeSize = size
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithReductionRate sets the annual reduction rate used by forecasts.
func WithReductionRate(rate float64) Option {
	return func(s *Service) {
		if rate >= 0 {
			s.reductionRate = rate
		}
	}
}

// WithForecastMonths sets the horizon used when a request names none.
func WithForecastMonths(months int) Option {
	return func(s *Service) {
		if months > 0 {
			s.forecastMonths = months
		}
	}
}

// WithRecommendationLimit sets how many tips are returned by default.
func WithRecommendationLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.recommendationLimit = limit
		}
	}
}

// WithPeerTopN sets the size of the leaderboards attached to peer comparisons.
func WithPeerTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.peerTopN = n
		}
	}
}

// WithTrendMonths sets how many months the trend report covers by default.
func WithTrendMonths(months int) Option {
	return func(s *Service) {
		if months > 0 {
			s.trendMonths = months
		}
	}
}

// WithClock sets the time source for submission dates and month windows.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithStore replaces the in-memory store created by Start.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}
