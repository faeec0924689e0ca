// Command loadgen submits generated footprints to a running service and
// verifies the leaderboard it produces.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/footprint/internal/loadgen"
	"github.com/okian/footprint/pkg/logger"
)

const defaultRunTimeout = 10 * time.Minute

func main() {
	if err := logger.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := loadgen.NewConfig()
	var runTimeout time.Duration

	cmd := &cobra.Command{
		Use:          "loadgen",
		Short:        "Generate footprint submissions and verify the leaderboard",
		Example:      "  loadgen --url http://localhost:9080 --count 5000 --top 20",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if runTimeout <= 0 {
				return fmt.Errorf("run-timeout must be positive, got %s", runTimeout)
			}
			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.Verbose {
				_ = logger.SetLevelString("debug")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
			defer cancel()

			runner, err := loadgen.NewRunner(cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			_, err = runner.Run(ctx)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "base URL of the service")
	flags.IntVar(&cfg.Count, "count", cfg.Count, "number of submissions, one per employee")
	flags.IntVar(&cfg.TopN, "top", cfg.TopN, "leaderboard entries to fetch")
	flags.IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent requests")
	flags.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "per-request timeout")
	flags.DurationVar(&cfg.ProcessTimeout, "process-timeout", cfg.ProcessTimeout, "how long to wait for the service to process submissions")
	flags.DurationVar(&runTimeout, "run-timeout", defaultRunTimeout, "overall run timeout")
	flags.StringVar(&cfg.OutputFile, "output", "", "write generated submissions to this JSON file")
	flags.Uint64Var(&cfg.Seed, "seed", 0, "generator seed (0 picks a random seed)")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "log individual failures")
	return cmd
}
