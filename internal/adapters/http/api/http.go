// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

const defaultMaxLeaderboardLimit = 100

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	FootprintDependencies
	TransactionDependencies
	ForecastDependencies
	CompanyDependencies
	RecommendationDependencies
	PeerDependencies
	LeaderboardDependencies
	RankDependencies
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	maxLeaderboardLimit int
	submitRate          float64
	submitBurst         int

	healthHandler         *HealthHandler
	statsHandler          *StatsHandler
	footprintsHandler     *FootprintsHandler
	transactionsHandler   *TransactionsHandler
	forecastHandler       *ForecastHandler
	companyHandler        *CompanyHandler
	recommendationHandler *RecommendationHandler
	peersHandler          *PeersHandler
	leaderboardHandler    *LeaderboardHandler
	rankHandler           *RankHandler
	dashboardHandler      *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{maxLeaderboardLimit: defaultMaxLeaderboardLimit}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(deps)
	s.footprintsHandler = NewFootprintsHandler(deps)
	s.transactionsHandler = NewTransactionsHandler(deps)
	s.forecastHandler = NewForecastHandler(deps)
	s.companyHandler = NewCompanyHandler(deps)
	s.recommendationHandler = NewRecommendationHandler(deps)
	s.peersHandler = NewPeersHandler(deps)
	s.leaderboardHandler = NewLeaderboardHandler(deps, s.maxLeaderboardLimit)
	s.rankHandler = NewRankHandler(deps)
	s.dashboardHandler = newDashboardHandler()
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	// Footprint and transaction writes share one token bucket.
	limiter := newLimiter(s.submitRate, s.submitBurst)

	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /footprints", MetricsMiddleware(RateLimitMiddleware(s.footprintsHandler.HandleSubmit, limiter), "footprints"))
	mux.HandleFunc("GET /footprints/{employee_id}", MetricsMiddleware(s.footprintsHandler.HandleLatest, "footprint"))
	mux.HandleFunc("GET /footprints/{employee_id}/history", MetricsMiddleware(s.footprintsHandler.HandleHistory, "footprint_history"))
	mux.HandleFunc("POST /calculate", MetricsMiddleware(s.footprintsHandler.HandleCalculate, "calculate"))

	mux.HandleFunc("POST /transactions", MetricsMiddleware(RateLimitMiddleware(s.transactionsHandler.HandleRecord, limiter), "transactions"))
	mux.HandleFunc("GET /transactions/{employee_id}", MetricsMiddleware(s.transactionsHandler.HandleList, "transactions_list"))

	mux.HandleFunc("GET /forecast/{employee_id}", MetricsMiddleware(s.forecastHandler.HandleForecast, "forecast"))
	mux.HandleFunc("GET /scenarios/{employee_id}", MetricsMiddleware(s.forecastHandler.HandleScenarios, "scenarios"))
	mux.HandleFunc("GET /company/forecast", MetricsMiddleware(s.forecastHandler.HandleCompanyForecast, "company_forecast"))

	mux.HandleFunc("GET /company/metrics", MetricsMiddleware(s.companyHandler.HandleMetrics, "company_metrics"))
	mux.HandleFunc("GET /company/departments", MetricsMiddleware(s.companyHandler.HandleDepartments, "company_departments"))
	mux.HandleFunc("GET /company/trends", MetricsMiddleware(s.companyHandler.HandleTrends, "company_trends"))

	mux.HandleFunc("GET /recommendations/{employee_id}", MetricsMiddleware(s.recommendationHandler.HandleRecommendations, "recommendations"))
	mux.HandleFunc("GET /peers/{employee_id}", MetricsMiddleware(s.peersHandler.HandlePeers, "peers"))

	mux.HandleFunc("GET /leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("GET /rank/{employee_id}", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
}

// Compress wraps h with gzip response compression for clients that accept it.
func Compress(h http.Handler) http.Handler {
	return gzhttp.GzipHandler(h)
}
