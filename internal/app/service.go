// Package service wires the footprint domain to storage and the submission
// pipeline and implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/footprint/internal/adapters/mq/queue"
	"github.com/okian/footprint/internal/adapters/mq/worker"
	"github.com/okian/footprint/internal/adapters/repository"
	"github.com/okian/footprint/internal/domain/dedupe"
	"github.com/okian/footprint/internal/domain/emission"
	"github.com/okian/footprint/internal/domain/forecast"
	"github.com/okian/footprint/internal/domain/insights"
	"github.com/okian/footprint/internal/domain/mathx"
	"github.com/okian/footprint/internal/domain/model"
	"github.com/okian/footprint/internal/domain/recommend"
	"github.com/okian/footprint/pkg/logger"
	"github.com/okian/footprint/pkg/metrics"
)

const defaultTransactionSource = "manual"

// Service implements the API dependencies for the footprint tracker.
type Service struct {
	mu sync.RWMutex

	// Core components
	store       repository.Store
	ownsStore   bool
	deduper     dedupe.Deduper
	queue       *queue.InMemoryQueue
	pool        *worker.Pool
	calc        *emission.Calculator
	forecaster  *forecast.Forecaster
	recommender *recommend.Engine

	// Configuration
	workerCount         int
	queueSize           int
	dedupeSize          int
	reductionRate       float64
	forecastMonths      int
	recommendationLimit int
	peerTopN            int
	trendMonths         int
	now                 func() time.Time

	// State
	started   bool
	startedAt time.Time
	cancel    context.CancelFunc

	logger logger.Logger
}

// New constructs a Service. Call Start before submitting.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:         runtime.NumCPU() * 4,
		queueSize:           50_000,
		dedupeSize:          200_000,
		reductionRate:       forecast.DefaultReductionRate,
		forecastMonths:      forecast.DefaultMonths,
		recommendationLimit: recommend.DefaultLimit,
		peerTopN:            5,
		trendMonths:         insights.DefaultTrendMonths,
		now:                 time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.calc = emission.New()
	s.forecaster = forecast.New(
		forecast.WithReductionRate(s.reductionRate),
		forecast.WithClock(s.now),
	)
	s.recommender = recommend.New(recommend.WithDefaultLimit(s.recommendationLimit))
	return s
}

// Start creates the store, deduper, queue and worker pool. Workers outlive
// ctx cancellation and only stop through Stop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.logger.Info(ctx, "starting footprint service...")

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	if s.store == nil {
		s.store = repository.NewMemoryStore(runCtx, repository.WithClock(s.now))
		s.ownsStore = true
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s, s.store)
	s.pool.Start(runCtx)

	s.started = true
	s.startedAt = s.now()
	s.logger.Info(ctx, "footprint service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Float64("reductionRate", s.reductionRate),
	)
	return nil
}

// Stop closes intake, lets the workers drain the queue until ctx expires,
// and releases the store created by Start. An injected store is kept.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	pool, cancel, store, owns := s.pool, s.cancel, s.store, s.ownsStore
	s.mu.Unlock()

	s.logger.Info(ctx, "stopping footprint service...")

	// workers call back into Assess, so the lock must not be held here
	err := pool.Shutdown(ctx)
	cancel()

	if owns {
		if closer, ok := store.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
		s.mu.Lock()
		s.store, s.ownsStore = nil, false
		s.mu.Unlock()
	}

	s.logger.Info(ctx, "footprint service stopped", logger.Int("processed", int(pool.Processed())))
	return err
}

// Submit validates a submission, drops duplicates, and enqueues the rest
// for scoring. A missing submission id is replaced by a random UUID.
func (s *Service) Submit(ctx context.Context, sub model.Submission) (model.Receipt, error) {
	sub.EmployeeID = strings.TrimSpace(sub.EmployeeID)
	sub.Department = strings.TrimSpace(sub.Department)
	if err := validateSubmission(sub); err != nil {
		return model.Receipt{}, err
	}
	if sub.SubmissionID == "" {
		sub.SubmissionID = uuid.NewString()
	}
	if sub.TS.IsZero() {
		sub.TS = s.now().UTC()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return model.Receipt{}, ErrNotStarted
	}

	if s.deduper.SeenAndRecord(ctx, sub.SubmissionID) {
		metrics.RecordSubmissionDuplicate()
		s.logger.Debug(ctx, "duplicate submission, skipping",
			logger.String("submission_id", sub.SubmissionID),
			logger.String("employee_id", sub.EmployeeID),
		)
		return model.Receipt{SubmissionID: sub.SubmissionID, Status: model.StatusDuplicate, Duplicate: true}, nil
	}

	if err := s.queue.Enqueue(ctx, sub); err != nil {
		// let the client retry the same id
		s.deduper.Unrecord(ctx, sub.SubmissionID)
		if errors.Is(err, queue.ErrFull) || errors.Is(err, queue.ErrClosed) {
			return model.Receipt{}, fmt.Errorf("%w: %w", ErrBusy, err)
		}
		return model.Receipt{}, err
	}

	metrics.RecordSubmissionAccepted(string(sub.FormType))
	return model.Receipt{SubmissionID: sub.SubmissionID, Status: model.StatusAccepted}, nil
}

func validateSubmission(sub model.Submission) error { //nolint:gocritic // hugeParam
	switch {
	case sub.EmployeeID == "":
		return fmt.Errorf("%w: missing employee_id", ErrInvalidSubmission)
	case !sub.FormType.Valid():
		return fmt.Errorf("%w: unknown form_type %q", ErrInvalidSubmission, sub.FormType)
	case sub.FormType == model.FormOffice && sub.Office == nil:
		return fmt.Errorf("%w: office form requires office inputs", ErrInvalidSubmission)
	case sub.FormType == model.FormLifestyle && sub.Lifestyle == nil:
		return fmt.Errorf("%w: lifestyle form requires lifestyle inputs", ErrInvalidSubmission)
	}
	return nil
}

// Assess scores a submission into a footprint. It implements worker.Assessor.
func (s *Service) Assess(ctx context.Context, sub model.Submission) (model.Footprint, error) { //nolint:gocritic // hugeParam
	if sub.TS.IsZero() {
		sub.TS = s.now().UTC()
	}
	b, err := s.breakdown(ctx, sub)
	if err != nil {
		return model.Footprint{}, err
	}
	return model.Footprint{
		SubmissionID: sub.SubmissionID,
		EmployeeID:   sub.EmployeeID,
		Department:   sub.Department,
		FormType:     sub.FormType,
		Date:         sub.TS,
		Breakdown:    b,
		Office:       sub.Office,
		Lifestyle:    sub.Lifestyle,
	}, nil
}

// Calculate scores a submission without storing it.
func (s *Service) Calculate(ctx context.Context, sub model.Submission) (emission.Breakdown, error) { //nolint:gocritic // hugeParam
	sub.EmployeeID = strings.TrimSpace(sub.EmployeeID)
	if sub.FormType != model.FormPersonal && sub.EmployeeID == "" {
		// only personal forms need an employee to look up transactions
		sub.EmployeeID = "anonymous"
	}
	if err := validateSubmission(sub); err != nil {
		return emission.Breakdown{}, err
	}
	if sub.TS.IsZero() {
		sub.TS = s.now().UTC()
	}
	return s.breakdown(ctx, sub)
}

// breakdown scores sub and rejects totals that overflow float64.
func (s *Service) breakdown(ctx context.Context, sub model.Submission) (emission.Breakdown, error) { //nolint:gocritic // hugeParam
	b, err := s.formBreakdown(ctx, sub)
	if err != nil {
		return emission.Breakdown{}, err
	}
	if !finite(b.Commute, b.Diet, b.Office, b.Travel, b.Transaction, b.Total) {
		return emission.Breakdown{}, fmt.Errorf("%w: inputs produce a non-finite footprint", ErrInvalidSubmission)
	}
	return b, nil
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

func (s *Service) formBreakdown(ctx context.Context, sub model.Submission) (emission.Breakdown, error) { //nolint:gocritic // hugeParam
	switch sub.FormType {
	case model.FormOffice:
		if sub.Office == nil {
			return emission.Breakdown{}, fmt.Errorf("%w: office form requires office inputs", ErrInvalidSubmission)
		}
		o := sub.Office
		return s.calc.OfficeBreakdown(
			emission.CommuteUsage{
				Distance:          o.CommuteDistance,
				DaysByCar:         o.CommuteDaysByCar,
				DaysPublicTransit: o.CommuteDaysPublicTransit,
				DaysEV:            o.CommuteDaysEV,
				CarType:           emission.ParseCarType(o.CarType),
			},
			emission.OfficeUsage{
				RemoteDays:    o.RemoteWorkDays,
				VideoHours:    o.VideoConferenceHours,
				ComputerHours: o.ComputerHours,
				PrinterPages:  o.PrinterPages,
				HVAC:          emission.ParseLevel(o.HVACUsage),
			},
			emission.TravelUsage{
				AirMiles:      o.AirTravelMiles,
				HotelNights:   o.HotelNights,
				RentalCarDays: o.RentalCarDays,
			},
		), nil

	case model.FormPersonal:
		store, err := s.getStore()
		if err != nil {
			return emission.Breakdown{}, err
		}
		from := insights.MonthStart(sub.TS)
		txs, err := store.Transactions(ctx, sub.EmployeeID, from, from.AddDate(0, 1, 0))
		if err != nil {
			return emission.Breakdown{}, fmt.Errorf("load transactions: %w", err)
		}
		var sum float64
		for _, tx := range txs {
			sum += tx.CarbonImpact
		}
		return s.calc.PersonalBreakdown(sum), nil

	case model.FormLifestyle:
		if sub.Lifestyle == nil {
			return emission.Breakdown{}, fmt.Errorf("%w: lifestyle form requires lifestyle inputs", ErrInvalidSubmission)
		}
		l := sub.Lifestyle
		return s.calc.LifestyleBreakdown(
			emission.CommuteInput{
				Distance: l.CommuteDistance,
				Mode:     emission.ParseCommuteMode(l.CommuteMode),
				CarType:  emission.ParseCarType(l.CarType),
			},
			emission.DietInput{
				Diet:         emission.ParseDietType(l.DietType),
				LocalFoodPct: l.LocalFoodPercentage,
			},
			emission.OfficeInput{
				DaysPerWeek: l.OfficeDaysPerWeek,
				Paper:       emission.ParseLevel(l.PaperUsage),
				Energy:      emission.ParseLevel(l.EnergyUsage),
			},
		), nil
	}
	return emission.Breakdown{}, fmt.Errorf("%w: unknown form_type %q", ErrInvalidSubmission, sub.FormType)
}

func (s *Service) getStore() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// Latest returns an employee's most recent footprint.
func (s *Service) Latest(ctx context.Context, employeeID string) (model.Footprint, error) {
	store, err := s.getStore()
	if err != nil {
		return model.Footprint{}, err
	}
	return store.Latest(ctx, employeeID)
}

// History returns every footprint of an employee, oldest first.
func (s *Service) History(ctx context.Context, employeeID string) ([]model.Footprint, error) {
	store, err := s.getStore()
	if err != nil {
		return nil, err
	}
	history, err := store.History(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, ErrNotFound
	}
	return history, nil
}

// RecordTransaction attributes a carbon impact to a purchase and stores it.
func (s *Service) RecordTransaction(ctx context.Context, tx model.Transaction) (model.Transaction, error) { //nolint:gocritic // hugeParam
	store, err := s.getStore()
	if err != nil {
		return model.Transaction{}, err
	}
	tx.EmployeeID = strings.TrimSpace(tx.EmployeeID)
	if tx.EmployeeID == "" {
		return model.Transaction{}, fmt.Errorf("%w: missing employee_id", ErrInvalidSubmission)
	}
	if tx.Amount < 0 || !finite(tx.Amount) {
		return model.Transaction{}, fmt.Errorf("%w: amount must be a non-negative number", ErrInvalidSubmission)
	}
	tx.Category = emission.ParseCategory(tx.Category)
	tx.CarbonImpact = mathx.Round2(s.calc.TransactionImpact(tx.Category, tx.Amount))
	if !finite(tx.CarbonImpact) {
		return model.Transaction{}, fmt.Errorf("%w: amount produces a non-finite impact", ErrInvalidSubmission)
	}
	if tx.Source == "" {
		tx.Source = defaultTransactionSource
	}
	if tx.Date.IsZero() {
		tx.Date = s.now().UTC()
	}
	return store.SaveTransaction(ctx, tx)
}

// Transactions returns an employee's transactions in the calendar month of at.
func (s *Service) Transactions(ctx context.Context, employeeID string, at time.Time) ([]model.Transaction, error) {
	store, err := s.getStore()
	if err != nil {
		return nil, err
	}
	if at.IsZero() {
		at = s.now()
	}
	from := insights.MonthStart(at)
	return store.Transactions(ctx, employeeID, from, from.AddDate(0, 1, 0))
}

// Forecast projects an employee's latest footprint. months <= 0 selects the
// configured horizon.
func (s *Service) Forecast(ctx context.Context, employeeID string, months int) (forecast.EmployeeForecast, error) {
	latest, err := s.Latest(ctx, employeeID)
	if err != nil {
		return forecast.EmployeeForecast{}, err
	}
	if months <= 0 {
		months = s.forecastMonths
	}
	metrics.RecordForecastGenerated("individual")
	return s.forecaster.ForEmployee(employeeID, latest.Total, months), nil
}

// Scenarios runs the reduction scenario catalog for an employee.
func (s *Service) Scenarios(ctx context.Context, employeeID string) (forecast.EmployeeScenarios, error) {
	latest, err := s.Latest(ctx, employeeID)
	if err != nil {
		return forecast.EmployeeScenarios{}, err
	}
	metrics.RecordForecastGenerated("scenarios")
	return s.forecaster.ScenariosForEmployee(employeeID, latest.Total), nil
}

// CompanyForecast forecasts the whole company from every employee's latest
// footprint.
func (s *Service) CompanyForecast(ctx context.Context, months int) (forecast.CompanyOverview, error) {
	store, err := s.getStore()
	if err != nil {
		return forecast.CompanyOverview{}, err
	}
	latest, err := store.LatestAll(ctx)
	if err != nil {
		return forecast.CompanyOverview{}, err
	}
	if months <= 0 {
		months = s.forecastMonths
	}
	records := make([]forecast.EmployeeEmissions, len(latest))
	for i, fp := range latest {
		records[i] = forecast.EmployeeEmissions{EmployeeID: fp.EmployeeID, TotalFootprint: fp.Total}
	}
	metrics.RecordForecastGenerated("company")
	return forecast.Overview(s.forecaster.Company(records, months)), nil
}

// CompanyMetrics compares this calendar month with the previous one.
func (s *Service) CompanyMetrics(ctx context.Context) (insights.CompanyMetrics, error) {
	store, err := s.getStore()
	if err != nil {
		return insights.CompanyMetrics{}, err
	}
	thisMonth := insights.MonthStart(s.now())
	current, err := store.Between(ctx, thisMonth, thisMonth.AddDate(0, 1, 0))
	if err != nil {
		return insights.CompanyMetrics{}, err
	}
	previous, err := store.Between(ctx, thisMonth.AddDate(0, -1, 0), thisMonth)
	if err != nil {
		return insights.CompanyMetrics{}, err
	}
	return insights.Company(current, previous, store.Count(ctx)), nil
}

// Departments summarises the latest footprints per department.
func (s *Service) Departments(ctx context.Context) ([]insights.DepartmentStats, error) {
	store, err := s.getStore()
	if err != nil {
		return nil, err
	}
	latest, err := store.LatestAll(ctx)
	if err != nil {
		return nil, err
	}
	return insights.Departments(latest), nil
}

// Trends reports monthly totals for the last months calendar months.
// months <= 0 selects the configured window.
func (s *Service) Trends(ctx context.Context, months int) ([]insights.TrendPoint, error) {
	store, err := s.getStore()
	if err != nil {
		return nil, err
	}
	if months <= 0 {
		months = s.trendMonths
	}
	now := s.now()
	thisMonth := insights.MonthStart(now)
	records, err := store.Between(ctx, thisMonth.AddDate(0, -(months-1), 0), thisMonth.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}
	return insights.Trends(records, now, months), nil
}

// Recommendations returns tips for an employee's latest footprint.
func (s *Service) Recommendations(ctx context.Context, employeeID string, limit int) ([]recommend.Recommendation, error) {
	latest, err := s.Latest(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return s.recommender.ForFootprint(latest, limit), nil
}

// Peers compares an employee with the company and their department.
func (s *Service) Peers(ctx context.Context, employeeID string) (insights.PeerComparison, error) {
	store, err := s.getStore()
	if err != nil {
		return insights.PeerComparison{}, err
	}
	user, err := store.Latest(ctx, employeeID)
	if err != nil {
		return insights.PeerComparison{}, err
	}
	latest, err := store.LatestAll(ctx)
	if err != nil {
		return insights.PeerComparison{}, err
	}

	pc := insights.Peers(user, latest)
	if pc.TopCompany, err = store.TopN(ctx, s.peerTopN); err != nil {
		return insights.PeerComparison{}, err
	}
	if user.Department != "" {
		if pc.TopDepartment, err = store.TopNInDepartment(ctx, user.Department, s.peerTopN); err != nil {
			return insights.PeerComparison{}, err
		}
	}
	return pc, nil
}

// TopN returns the top N employees by score.
func (s *Service) TopN(ctx context.Context, n int) ([]model.Ranked, error) {
	store, err := s.getStore()
	if err != nil {
		return nil, err
	}
	return store.TopN(ctx, n)
}

// Rank returns an employee's leaderboard entry.
func (s *Service) Rank(ctx context.Context, employeeID string) (model.Ranked, error) {
	store, err := s.getStore()
	if err != nil {
		return model.Ranked{}, err
	}
	return store.Rank(ctx, employeeID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":       s.started,
		"workerCount":   s.workerCount,
		"queueSize":     s.queueSize,
		"dedupeSize":    s.dedupeSize,
		"reductionRate": s.reductionRate,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		employees := s.store.Count(ctx)

		stats["queueLength"] = queueLen
		stats["trackedEmployees"] = employees
		stats["dedupeEntries"] = s.deduper.Size()
		stats["processed"] = s.pool.Processed()
		stats["uptimeSeconds"] = int64(s.now().Sub(s.startedAt).Seconds())

		metrics.UpdateTrackedEmployees(employees)
		metrics.UpdateWorkerCount(s.workerCount)
	}
	return stats
}
