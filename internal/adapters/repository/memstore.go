package repository

import (
	"context"
	"crypto/rand"
	"io"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/okian/footprint/internal/domain/model"
	"github.com/okian/footprint/pkg/metrics"
)

const defaultMetricsUpdateInterval = 5 * time.Second

// MemoryStore is an in-memory Store. Histories are kept sorted by date and
// the latest score of every employee is indexed by a treap for ranking.
type MemoryStore struct {
	mu           sync.RWMutex
	root         *node
	history      map[string][]model.Footprint
	transactions map[string][]model.Transaction
	records      int
	entropy      io.Reader
	now          func() time.Time

	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopOnce sync.Once
	stopChan chan struct{}
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs a store and starts its background metrics updater,
// which runs until ctx is done or Close is called.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		history:               make(map[string][]model.Footprint),
		transactions:          make(map[string][]model.Transaction),
		entropy:               ulid.Monotonic(rand.Reader, 0),
		now:                   time.Now,
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.startMetricsUpdater(ctx)
	return s
}

// Close stops the background metrics updater.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

// newID returns a ULID stamped with t. Must be called with s.mu held.
func (s *MemoryStore) newID(t time.Time) string {
	id, err := ulid.New(ulid.Timestamp(t), s.entropy)
	if err != nil {
		// t is outside the ULID time range or entropy overflowed
		return ulid.Make().String()
	}
	return id.String()
}

// Save implements Store.Save in O(log n) for the ranking plus the history insert.
func (s *MemoryStore) Save(_ context.Context, fp model.Footprint) (model.Footprint, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	if fp.EmployeeID == "" {
		metrics.RecordStoreError()
		return model.Footprint{}, ErrMissingEmployee
	}

	s.mu.Lock()
	if fp.Date.IsZero() {
		fp.Date = s.now().UTC()
	}
	if fp.ID == "" {
		fp.ID = s.newID(fp.Date)
	}

	hist := s.history[fp.EmployeeID]
	var prevLatest *model.Footprint
	if len(hist) > 0 {
		prevLatest = &hist[len(hist)-1]
	}

	// insert after any record with the same date so equal dates keep arrival order
	i := sort.Search(len(hist), func(i int) bool { return hist[i].Date.After(fp.Date) })
	if i > 0 {
		fp.ChangePct = model.ChangePct(hist[i-1].Total, fp.Total)
	} else {
		fp.ChangePct = 0
	}

	newEmployee := prevLatest == nil
	if !newEmployee && i == len(hist) {
		s.root = remove(s.root, fp.EmployeeID, prevLatest.Score)
	}
	if i == len(hist) {
		s.root = insert(s.root, fp.EmployeeID, fp.Score)
	}
	if i < len(hist) {
		// a back-dated record changes the successor's delta
		hist[i].ChangePct = model.ChangePct(fp.Total, hist[i].Total)
	}
	s.history[fp.EmployeeID] = slices.Insert(hist, i, fp)
	s.records++
	employees := len(s.history)
	s.mu.Unlock()

	if newEmployee {
		metrics.UpdateTrackedEmployees(employees)
	}
	return fp, nil
}

// Latest implements Store.Latest.
func (s *MemoryStore) Latest(_ context.Context, employeeID string) (model.Footprint, error) {
	defer s.observeQuery(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	hist := s.history[employeeID]
	if len(hist) == 0 {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.Footprint{}, ErrNotFound
	}
	return hist[len(hist)-1], nil
}

// History implements Store.History. Unknown employees yield an empty slice.
func (s *MemoryStore) History(_ context.Context, employeeID string) ([]model.Footprint, error) {
	defer s.observeQuery(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.history[employeeID]), nil
}

// Between implements Store.Between.
func (s *MemoryStore) Between(_ context.Context, from, to time.Time) ([]model.Footprint, error) {
	defer s.observeQuery(time.Now())

	s.mu.RLock()
	var out []model.Footprint
	for _, hist := range s.history {
		lo := sort.Search(len(hist), func(i int) bool { return !hist[i].Date.Before(from) })
		hi := sort.Search(len(hist), func(i int) bool { return !hist[i].Date.Before(to) })
		if lo < hi {
			out = append(out, hist[lo:hi]...)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out, nil
}

// LatestAll implements Store.LatestAll.
func (s *MemoryStore) LatestAll(_ context.Context) ([]model.Footprint, error) {
	defer s.observeQuery(time.Now())

	s.mu.RLock()
	out := make([]model.Footprint, 0, len(s.history))
	for _, hist := range s.history {
		out = append(out, hist[len(hist)-1])
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

// Rank implements Store.Rank in O(log n). Equal scores share a rank and the
// next distinct score skips the tied positions.
func (s *MemoryStore) Rank(_ context.Context, employeeID string) (model.Ranked, error) {
	defer s.observeQuery(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	hist := s.history[employeeID]
	if len(hist) == 0 {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.Ranked{}, ErrNotFound
	}
	latest := hist[len(hist)-1]
	return model.Ranked{
		Rank:       countAbove(s.root, latest.Score) + 1,
		EmployeeID: employeeID,
		Department: latest.Department,
		Score:      latest.Score,
		Total:      latest.Total,
	}, nil
}

// TopN implements Store.TopN.
func (s *MemoryStore) TopN(ctx context.Context, n int) ([]model.Ranked, error) {
	return s.top(ctx, n, func(model.Footprint) bool { return true })
}

// TopNInDepartment implements Store.TopNInDepartment.
func (s *MemoryStore) TopNInDepartment(ctx context.Context, department string, n int) ([]model.Ranked, error) {
	return s.top(ctx, n, func(fp model.Footprint) bool { return fp.Department == department })
}

func (s *MemoryStore) top(_ context.Context, n int, keep func(model.Footprint) bool) ([]model.Ranked, error) {
	defer s.observeQuery(time.Now())

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Ranked, 0, min(n, len(s.history)))
	walk(s.root, func(nd *node) bool {
		hist := s.history[nd.id]
		latest := hist[len(hist)-1]
		if !keep(latest) {
			return true
		}
		rank := len(out) + 1
		if len(out) > 0 && out[len(out)-1].Score == latest.Score {
			rank = out[len(out)-1].Rank
		}
		out = append(out, model.Ranked{
			Rank:       rank,
			EmployeeID: nd.id,
			Department: latest.Department,
			Score:      latest.Score,
			Total:      latest.Total,
		})
		return len(out) < n
	})
	return out, nil
}

// Count implements Store.Count.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// SaveTransaction implements Store.SaveTransaction.
func (s *MemoryStore) SaveTransaction(_ context.Context, tx model.Transaction) (model.Transaction, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	if tx.EmployeeID == "" {
		metrics.RecordStoreError()
		return model.Transaction{}, ErrMissingEmployee
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if tx.Date.IsZero() {
		tx.Date = s.now().UTC()
	}
	if tx.ID == "" {
		tx.ID = s.newID(tx.Date)
	}
	txs := s.transactions[tx.EmployeeID]
	i := sort.Search(len(txs), func(i int) bool { return txs[i].Date.After(tx.Date) })
	s.transactions[tx.EmployeeID] = slices.Insert(txs, i, tx)
	return tx, nil
}

// Transactions implements Store.Transactions.
func (s *MemoryStore) Transactions(_ context.Context, employeeID string, from, to time.Time) ([]model.Transaction, error) {
	defer s.observeQuery(time.Now())

	s.mu.RLock()
	defer s.mu.RUnlock()

	txs := s.transactions[employeeID]
	lo := sort.Search(len(txs), func(i int) bool { return !txs[i].Date.Before(from) })
	hi := len(txs)
	if !to.IsZero() {
		hi = sort.Search(len(txs), func(i int) bool { return !txs[i].Date.Before(to) })
	}
	if lo >= hi {
		return nil, nil
	}
	return slices.Clone(txs[lo:hi]), nil
}

func (s *MemoryStore) observeQuery(start time.Time) {
	metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
}

// startMetricsUpdater starts a background goroutine that publishes store gauges.
func (s *MemoryStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

func (s *MemoryStore) updateMetrics() {
	s.mu.RLock()
	records := s.records
	employees := len(s.history)
	s.mu.RUnlock()

	metrics.UpdateStoreRecordsTotal(records)
	metrics.UpdateTrackedEmployees(employees)
}
