package loadgen

import (
	"errors"
	"fmt"
	"slices"

	"github.com/okian/footprint/internal/domain/model"
)

// ErrInconsistent is returned when the leaderboard and rankings disagree.
var ErrInconsistent = errors.New("inconsistent leaderboard")

// VerifyLeaderboard checks that entries are ordered by score and carry
// competition ranks: ties share a rank and the next rank skips.
func VerifyLeaderboard(entries []model.Ranked) error {
	for i, e := range entries {
		if i == 0 {
			if e.Rank != 1 {
				return fmt.Errorf("%w: first entry has rank %d", ErrInconsistent, e.Rank)
			}
			continue
		}
		prev := entries[i-1]
		switch {
		case e.Score > prev.Score:
			return fmt.Errorf("%w: entry %d scores %d above entry %d (%d)", ErrInconsistent, i, e.Score, i-1, prev.Score)
		case e.Score == prev.Score && e.Rank != prev.Rank:
			return fmt.Errorf("%w: tied entries %d and %d have ranks %d and %d", ErrInconsistent, i-1, i, prev.Rank, e.Rank)
		case e.Score < prev.Score && e.Rank != i+1:
			return fmt.Errorf("%w: entry %d has rank %d, want %d", ErrInconsistent, i, e.Rank, i+1)
		}
	}
	return nil
}

// VerifyAgainstRankings checks that no looked-up employee outscores the
// leaderboard head and that every lookup agrees with the leaderboard on the
// entries both contain. The leaderboard may hold employees outside rankings.
func VerifyAgainstRankings(leaderboard, rankings []model.Ranked) error {
	if len(leaderboard) == 0 || len(rankings) == 0 {
		return nil
	}
	best := slices.MaxFunc(rankings, func(a, b model.Ranked) int { return a.Score - b.Score })
	if leaderboard[0].Score < best.Score {
		return fmt.Errorf("%w: leaderboard top score %d, best ranked score %d", ErrInconsistent, leaderboard[0].Score, best.Score)
	}
	byID := make(map[string]model.Ranked, len(leaderboard))
	for _, e := range leaderboard {
		byID[e.EmployeeID] = e
	}
	for _, r := range rankings {
		if e, ok := byID[r.EmployeeID]; ok && (e.Rank != r.Rank || e.Score != r.Score) {
			return fmt.Errorf("%w: %s is rank %d on the leaderboard but %d by lookup", ErrInconsistent, r.EmployeeID, e.Rank, r.Rank)
		}
	}
	return nil
}
