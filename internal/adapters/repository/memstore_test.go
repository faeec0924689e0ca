package repository

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/okian/footprint/internal/domain/emission"
	"github.com/okian/footprint/internal/domain/model"
)

var day0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func footprint(emp, dept string, at time.Time, total float64, score int) model.Footprint {
	return model.Footprint{
		EmployeeID: emp,
		Department: dept,
		FormType:   model.FormLifestyle,
		Date:       at,
		Breakdown:  emission.Breakdown{Total: total, Score: score},
	}
}

func mustSave(t *testing.T, s *MemoryStore, fp model.Footprint) model.Footprint {
	t.Helper()
	saved, err := s.Save(context.Background(), fp)
	if err != nil {
		t.Fatalf("save %s: %v", fp.EmployeeID, err)
	}
	return saved
}

func newStore(t *testing.T) *MemoryStore {
	t.Helper()
	s := NewMemoryStore(context.Background())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestMemoryStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	if count := s.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}

	saved := mustSave(t, s, footprint("emp-1", "Engineering", day0, 105.5, 47))
	if saved.ID == "" {
		t.Fatal("expected an id to be assigned")
	}
	if _, err := ulid.ParseStrict(saved.ID); err != nil {
		t.Errorf("id %q is not a ulid: %v", saved.ID, err)
	}
	if saved.ChangePct != 0 {
		t.Errorf("first record should have no change, got %f", saved.ChangePct)
	}
	if count := s.Count(ctx); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	latest, err := s.Latest(ctx, "emp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest.ID != saved.ID || latest.Total != 105.5 {
		t.Errorf("unexpected latest: %+v", latest)
	}

	entry, err := s.Rank(ctx, "emp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Rank != 1 || entry.Score != 47 || entry.Department != "Engineering" {
		t.Errorf("unexpected rank entry: %+v", entry)
	}
}

func TestMemoryStore_Errors(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	if _, err := s.Latest(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Rank(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Save(ctx, model.Footprint{}); !errors.Is(err, ErrMissingEmployee) {
		t.Errorf("expected ErrMissingEmployee, got %v", err)
	}
	if _, err := s.SaveTransaction(ctx, model.Transaction{}); !errors.Is(err, ErrMissingEmployee) {
		t.Errorf("expected ErrMissingEmployee, got %v", err)
	}
	for _, n := range []int{0, -1} {
		if _, err := s.TopN(ctx, n); !errors.Is(err, ErrInvalidLimit) {
			t.Errorf("TopN(%d): expected ErrInvalidLimit, got %v", n, err)
		}
		if _, err := s.TopNInDepartment(ctx, "Sales", n); !errors.Is(err, ErrInvalidLimit) {
			t.Errorf("TopNInDepartment(%d): expected ErrInvalidLimit, got %v", n, err)
		}
	}

	hist, err := s.History(ctx, "ghost")
	if err != nil || len(hist) != 0 {
		t.Errorf("expected empty history, got %v, %v", hist, err)
	}
}

func TestMemoryStore_HistoryAndChange(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	mustSave(t, s, footprint("emp-1", "Sales", day0, 100, 55))
	second := mustSave(t, s, footprint("emp-1", "Sales", day0.AddDate(0, 1, 0), 80, 63))
	if second.ChangePct != -20 {
		t.Errorf("expected -20%% change, got %f", second.ChangePct)
	}

	// a back-dated record lands in the middle and re-bases its successor
	middle := mustSave(t, s, footprint("emp-1", "Sales", day0.AddDate(0, 0, 10), 50, 75))
	if middle.ChangePct != -50 {
		t.Errorf("expected -50%% change, got %f", middle.ChangePct)
	}

	hist, err := s.History(ctx, "emp-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hist) != 3 {
		t.Fatalf("expected 3 records, got %d", len(hist))
	}
	for i := 1; i < len(hist); i++ {
		if hist[i].Date.Before(hist[i-1].Date) {
			t.Errorf("history not sorted at %d", i)
		}
	}
	if hist[2].ChangePct != 60 {
		t.Errorf("successor change should be re-based to 60%%, got %f", hist[2].ChangePct)
	}

	latest, _ := s.Latest(ctx, "emp-1")
	if latest.Total != 80 {
		t.Errorf("back-dated record must not become latest, got total %f", latest.Total)
	}
	entry, _ := s.Rank(ctx, "emp-1")
	if entry.Score != 63 {
		t.Errorf("rank should use the latest score, got %d", entry.Score)
	}

	// mutating the returned slice must not leak into the store
	hist[0].Total = -1
	again, _ := s.History(ctx, "emp-1")
	if again[0].Total == -1 {
		t.Error("History returned internal state")
	}
}

func TestMemoryStore_ScoreUpdatesMoveRank(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	mustSave(t, s, footprint("a", "", day0, 50, 80))
	mustSave(t, s, footprint("b", "", day0, 60, 70))
	mustSave(t, s, footprint("c", "", day0, 70, 60))

	if r, _ := s.Rank(ctx, "c"); r.Rank != 3 {
		t.Errorf("expected c at rank 3, got %d", r.Rank)
	}

	mustSave(t, s, footprint("c", "", day0.Add(time.Hour), 20, 90))

	top, err := s.TopN(ctx, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"c", "a", "b"}
	for i, id := range want {
		if top[i].EmployeeID != id || top[i].Rank != i+1 {
			t.Errorf("position %d: want %s rank %d, got %+v", i, id, i+1, top[i])
		}
	}
	if s.Count(ctx) != 3 {
		t.Errorf("score updates must not add employees, got %d", s.Count(ctx))
	}

	// a worse score drops the employee again
	mustSave(t, s, footprint("c", "", day0.Add(2*time.Hour), 95, 10))
	if r, _ := s.Rank(ctx, "c"); r.Rank != 3 {
		t.Errorf("expected c back at rank 3, got %d", r.Rank)
	}
}

func TestMemoryStore_TiesShareRank(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	mustSave(t, s, footprint("d", "", day0, 10, 90))
	mustSave(t, s, footprint("b", "", day0, 30, 70))
	mustSave(t, s, footprint("a", "", day0, 30, 70))
	mustSave(t, s, footprint("c", "", day0, 40, 60))

	top, err := s.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantIDs := []string{"d", "a", "b", "c"}
	wantRanks := []int{1, 2, 2, 4}
	if len(top) != len(wantIDs) {
		t.Fatalf("expected %d entries, got %d", len(wantIDs), len(top))
	}
	for i := range top {
		if top[i].EmployeeID != wantIDs[i] || top[i].Rank != wantRanks[i] {
			t.Errorf("position %d: want %s/%d, got %s/%d", i, wantIDs[i], wantRanks[i], top[i].EmployeeID, top[i].Rank)
		}
		r, _ := s.Rank(ctx, top[i].EmployeeID)
		if r.Rank != top[i].Rank {
			t.Errorf("Rank(%s)=%d disagrees with TopN %d", top[i].EmployeeID, r.Rank, top[i].Rank)
		}
	}
}

func TestMemoryStore_TopNInDepartment(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	mustSave(t, s, footprint("e1", "Engineering", day0, 10, 95))
	mustSave(t, s, footprint("s1", "Sales", day0, 20, 90))
	mustSave(t, s, footprint("e2", "Engineering", day0, 30, 85))
	mustSave(t, s, footprint("s2", "Sales", day0, 40, 80))
	mustSave(t, s, footprint("e3", "Engineering", day0, 50, 75))

	top, err := s.TopNInDepartment(ctx, "Sales", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != 2 || top[0].EmployeeID != "s1" || top[1].EmployeeID != "s2" {
		t.Fatalf("unexpected sales board: %+v", top)
	}
	if top[0].Rank != 1 || top[1].Rank != 2 {
		t.Errorf("department ranks should be local, got %d and %d", top[0].Rank, top[1].Rank)
	}

	top, _ = s.TopNInDepartment(ctx, "Engineering", 2)
	if len(top) != 2 || top[1].EmployeeID != "e2" {
		t.Errorf("unexpected engineering board: %+v", top)
	}

	top, _ = s.TopNInDepartment(ctx, "Legal", 3)
	if len(top) != 0 {
		t.Errorf("expected empty board, got %+v", top)
	}
}

func TestMemoryStore_BetweenAndLatestAll(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	march := day0
	april := day0.AddDate(0, 1, 0)
	mustSave(t, s, footprint("b", "", march, 10, 90))
	mustSave(t, s, footprint("a", "", march.Add(time.Hour), 20, 80))
	mustSave(t, s, footprint("a", "", april, 30, 70))

	got, err := s.Between(ctx, march, april)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].EmployeeID != "b" || got[1].EmployeeID != "a" {
		t.Errorf("unexpected march records: %+v", got)
	}

	got, _ = s.Between(ctx, april, april.AddDate(0, 1, 0))
	if len(got) != 1 || got[0].Total != 30 {
		t.Errorf("unexpected april records: %+v", got)
	}

	latest, err := s.LatestAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(latest) != 2 || latest[0].EmployeeID != "a" || latest[0].Total != 30 || latest[1].EmployeeID != "b" {
		t.Errorf("unexpected latest set: %+v", latest)
	}
}

func TestMemoryStore_DefaultDateFromClock(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 7, 4, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore(ctx, WithClock(func() time.Time { return fixed }))
	defer s.Close()

	saved := mustSave(t, s, model.Footprint{EmployeeID: "emp-1"})
	if !saved.Date.Equal(fixed) {
		t.Errorf("expected clock date, got %v", saved.Date)
	}
	id, _ := ulid.ParseStrict(saved.ID)
	if ulid.Time(id.Time()).UnixMilli() != fixed.UnixMilli() {
		t.Errorf("ulid should carry the record date")
	}

	tx, err := s.SaveTransaction(ctx, model.Transaction{EmployeeID: "emp-1", Amount: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tx.Date.Equal(fixed) || tx.ID == "" {
		t.Errorf("unexpected transaction: %+v", tx)
	}
}

func TestMemoryStore_Transactions(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	dates := []time.Time{
		day0.AddDate(0, 0, 5),
		day0.AddDate(0, -1, 0),
		day0,
		day0.AddDate(0, 1, 0),
	}
	for i, d := range dates {
		if _, err := s.SaveTransaction(ctx, model.Transaction{
			EmployeeID:   "emp-1",
			Date:         d,
			Category:     "food",
			Amount:       float64(i + 1),
			CarbonImpact: float64(i+1) * 0.4,
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	march, err := s.Transactions(ctx, "emp-1", day0, day0.AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(march) != 2 || !march[0].Date.Equal(day0) || march[1].Amount != 1 {
		t.Errorf("unexpected march transactions: %+v", march)
	}

	all, _ := s.Transactions(ctx, "emp-1", time.Time{}, time.Time{})
	if len(all) != 4 {
		t.Fatalf("expected 4 transactions, got %d", len(all))
	}
	if !sort.SliceIsSorted(all, func(i, j int) bool { return all[i].Date.Before(all[j].Date) }) {
		t.Error("transactions not sorted by date")
	}

	none, _ := s.Transactions(ctx, "emp-2", time.Time{}, time.Time{})
	if len(none) != 0 {
		t.Errorf("expected no transactions, got %d", len(none))
	}
}

func TestMemoryStore_MatchesSortedReference(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	rng := rand.New(rand.NewSource(7))

	scores := make(map[string]int)
	for i := 0; i < 2000; i++ {
		id := fmt.Sprintf("emp-%03d", rng.Intn(300))
		score := rng.Intn(101)
		mustSave(t, s, footprint(id, "", day0.Add(time.Duration(i)*time.Minute), float64(100-score), score))
		scores[id] = score
	}

	type row struct {
		id    string
		score int
	}
	ref := make([]row, 0, len(scores))
	for id, sc := range scores {
		ref = append(ref, row{id, sc})
	}
	sort.Slice(ref, func(i, j int) bool {
		if ref[i].score != ref[j].score {
			return ref[i].score > ref[j].score
		}
		return ref[i].id < ref[j].id
	})

	top, err := s.TopN(ctx, len(ref)+10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != len(ref) {
		t.Fatalf("expected %d entries, got %d", len(ref), len(top))
	}
	for i := range ref {
		if top[i].EmployeeID != ref[i].id || top[i].Score != ref[i].score {
			t.Fatalf("position %d: want %+v, got %+v", i, ref[i], top[i])
		}
	}

	for _, probe := range ref[:50] {
		want := 1
		for _, r := range ref {
			if r.score > probe.score {
				want++
			}
		}
		got, _ := s.Rank(ctx, probe.id)
		if got.Rank != want {
			t.Errorf("Rank(%s): want %d, got %d", probe.id, want, got.Rank)
		}
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	const writers = 8
	const perWriter = 250
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				id := fmt.Sprintf("emp-%d-%d", w, i%50)
				_, _ = s.Save(ctx, footprint(id, "Ops", day0.Add(time.Duration(i)*time.Second), float64(i), i%100))
				_, _ = s.TopN(ctx, 10)
				_, _ = s.Rank(ctx, id)
			}
		}(w)
	}
	wg.Wait()

	if got := s.Count(ctx); got != writers*50 {
		t.Errorf("expected %d employees, got %d", writers*50, got)
	}
	top, _ := s.TopN(ctx, writers*50)
	for i := 1; i < len(top); i++ {
		if top[i].Score > top[i-1].Score {
			t.Fatalf("leaderboard out of order at %d", i)
		}
	}
}

func TestMemoryStore_CloseIsIdempotent(t *testing.T) {
	s := NewMemoryStore(context.Background(), WithMetricsUpdateInterval(time.Millisecond))
	time.Sleep(5 * time.Millisecond)
	if err := s.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
