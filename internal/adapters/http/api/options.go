package api

// Option configures a Server.
type Option func(*Server)

// WithMaxLeaderboardLimit caps GET /leaderboard?limit.
func WithMaxLeaderboardLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLeaderboardLimit = n
		}
	}
}

// WithSubmitRateLimit limits POST /footprints and POST /transactions to rps
// requests per second with the given burst. rps <= 0 disables limiting.
func WithSubmitRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		s.submitRate = rps
		s.submitBurst = burst
	}
}
