package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"vidbrief/internal/repository"
)

// ReplenishJob tops up every account whose credit balance has fallen below
// the configured floor. One run is a single UPDATE against the accounts
// table, so a run that overlaps a concurrent debit is safe: the debit is
// guarded by its own balance check.
type ReplenishJob struct {
	Accounts repository.AccountRepository
	Floor    int
	Timeout  time.Duration
	Logger   *slog.Logger
}

// Run executes a single replenishment pass and records its outcome in the
// worker metrics. The pass is bounded by the configured timeout.
func (j *ReplenishJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, j.Timeout)
	defer cancel()

	start := time.Now()
	j.Logger.Info("credit replenishment started", slog.Int("floor", j.Floor))

	n, err := j.Accounts.ReplenishBelow(ctx, j.Floor)
	elapsed := time.Since(start)
	if err != nil {
		RecordRunFailure(elapsed)
		j.Logger.Error("credit replenishment failed",
			slog.Any("error", err),
			slog.Duration("elapsed", elapsed))
		return fmt.Errorf("replenish credits: %w", err)
	}

	RecordRunSuccess(elapsed, n)
	j.Logger.Info("credit replenishment completed",
		slog.Int64("accounts_replenished", n),
		slog.Duration("elapsed", elapsed))
	return nil
}
