package loadgen

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/okian/footprint/internal/domain/model"
	"github.com/okian/footprint/pkg/logger"
)

const (
	directoryPermission = 0o750
	pollInterval        = 100 * time.Millisecond
)

// Runner executes a load run against one service.
type Runner struct {
	cfg    *Config
	client *Client
	gen    *Generator
	out    io.Writer
}

// NewRunner validates cfg and returns a Runner that reports to out.
func NewRunner(cfg *Config, out io.Writer) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Runner{
		cfg:    cfg,
		client: NewClient(cfg.BaseURL, cfg.Timeout),
		gen:    NewGenerator(cfg.Seed),
		out:    out,
	}, nil
}

// Run generates and submits submissions, waits for the service to process
// them, then checks the rankings against the leaderboard.
func (r *Runner) Run(ctx context.Context) (*Stats, error) {
	log := logger.Named("loadgen")
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting load run",
		logger.String("url", r.cfg.BaseURL),
		logger.Int("count", r.cfg.Count),
		logger.Int("workers", r.cfg.Workers))

	if err := r.client.Healthy(ctx); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	subs := r.gen.Generate(r.cfg.Count)
	stats.Generated = len(subs)

	// The service may already hold records from earlier runs.
	baseline, err := r.client.Processed(ctx)
	if err != nil {
		return stats, fmt.Errorf("read service stats: %w", err)
	}

	if err := r.submit(ctx, subs, stats); err != nil {
		return stats, fmt.Errorf("submission failed: %w", err)
	}

	if err := r.awaitProcessed(ctx, baseline+int64(stats.Accepted)); err != nil {
		return stats, err
	}

	rankings, err := r.rankings(ctx, subs, stats)
	if err != nil {
		return stats, fmt.Errorf("ranking retrieval failed: %w", err)
	}

	leaderboard, err := r.client.Leaderboard(ctx, r.cfg.TopN)
	if err != nil {
		return stats, fmt.Errorf("leaderboard retrieval failed: %w", err)
	}
	stats.LeaderboardEntries = len(leaderboard)

	if err := VerifyLeaderboard(leaderboard); err != nil {
		return stats, err
	}
	if err := VerifyAgainstRankings(leaderboard, rankings); err != nil {
		return stats, err
	}

	if r.cfg.OutputFile != "" {
		if err := SaveSubmissions(r.cfg.OutputFile, subs); err != nil {
			log.Warn(ctx, "failed to save submissions", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	r.report(stats, leaderboard)
	return stats, nil
}

// submit posts every submission with at most Workers requests in flight.
// Individual failures are counted, not returned.
func (r *Runner) submit(ctx context.Context, subs []model.Submission, stats *Stats) error {
	var accepted, duplicate, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i := range subs {
		sub := subs[i]
		g.Go(func() error {
			outcome, err := r.client.Submit(gctx, sub)
			switch outcome {
			case OutcomeAccepted:
				accepted.Add(1)
			case OutcomeDuplicate:
				duplicate.Add(1)
			default:
				failed.Add(1)
				if r.cfg.Verbose {
					logger.Get().Warn(gctx, "submission failed",
						logger.String("submission_id", sub.SubmissionID), logger.Error(err))
				}
			}
			return gctx.Err()
		})
	}
	err := g.Wait()

	stats.Accepted = int(accepted.Load())
	stats.Duplicate = int(duplicate.Load())
	stats.Failed = int(failed.Load())
	stats.Submitted = stats.Accepted + stats.Duplicate + stats.Failed
	return err
}

// awaitProcessed polls /stats until the service has processed want
// submissions or ProcessTimeout elapses.
func (r *Runner) awaitProcessed(ctx context.Context, want int64) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ProcessTimeout)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		processed, err := r.client.Processed(ctx)
		if err == nil && processed >= want {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %d submissions to be processed (last %d): %w", want, processed, ctx.Err())
		case <-ticker.C:
		}
	}
}

// rankings looks up every generated employee. Lookups that fail are skipped.
func (r *Runner) rankings(ctx context.Context, subs []model.Submission, stats *Stats) ([]model.Ranked, error) {
	found := make([]model.Ranked, len(subs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i := range subs {
		g.Go(func() error {
			entry, err := r.client.Rank(gctx, subs[i].EmployeeID)
			if err == nil {
				found[i] = entry
			}
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rankings := found[:0]
	for _, e := range found {
		if e.EmployeeID != "" {
			rankings = append(rankings, e)
		}
	}
	stats.RankingsRetrieved = len(rankings)
	return rankings, nil
}

func (r *Runner) report(stats *Stats, leaderboard []model.Ranked) {
	fmt.Fprintf(r.out, "Submitted   %s (accepted %s, duplicate %s, failed %s)\n",
		humanize.Comma(int64(stats.Submitted)),
		humanize.Comma(int64(stats.Accepted)),
		humanize.Comma(int64(stats.Duplicate)),
		humanize.Comma(int64(stats.Failed)))
	fmt.Fprintf(r.out, "Rankings    %s retrieved\n", humanize.Comma(int64(stats.RankingsRetrieved)))
	fmt.Fprintf(r.out, "Duration    %s (%s req/s, %.1f%% accepted)\n",
		stats.Duration.Round(time.Millisecond),
		humanize.CommafWithDigits(stats.Throughput(), 1),
		stats.SuccessRate())

	n := min(len(leaderboard), 10)
	if n == 0 {
		return
	}
	fmt.Fprintf(r.out, "Top %d\n", n)
	for _, e := range leaderboard[:n] {
		fmt.Fprintf(r.out, "  %s  %-42s %-12s %3d  %s kg\n",
			humanize.Ordinal(e.Rank), e.EmployeeID, e.Department, e.Score,
			humanize.CommafWithDigits(e.Total, 2))
	}
}

// SaveSubmissions writes subs to path as a JSON array.
func SaveSubmissions(path string, subs []model.Submission) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(subs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal submissions: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	logger.Get().Info(context.Background(), "submissions saved",
		logger.String("path", path),
		logger.String("size", humanize.Bytes(uint64(len(data)))))
	return nil
}
