package api

import (
	"net/http"

	"golang.org/x/time/rate"
)

// newLimiter returns a token bucket for rps requests per second, or nil when
// rps is not positive.
func newLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// RateLimitMiddleware rejects requests with 429 once limiter is exhausted.
// A nil limiter disables limiting.
func RateLimitMiddleware(next http.HandlerFunc, limiter *rate.Limiter) http.HandlerFunc {
	if limiter == nil {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			writeFailure(w, r, NewKind("api.rate_limit", ErrRateLimited))
			return
		}
		next(w, r)
	}
}
