package refdata

import (
	"context"
	"log/slog"
	"time"
)

// Refresher drives periodic cache refreshes.
type Refresher struct {
	cache  *Cache
	logger *slog.Logger
}

// NewRefresher creates a refresher for the given cache.
func NewRefresher(cache *Cache, logger *slog.Logger) *Refresher {
	return &Refresher{
		cache:  cache,
		logger: logger.With(slog.String("component", "refresher")),
	}
}

// RunLoop refreshes immediately, then on every tick until the context ends.
func (r *Refresher) RunLoop(ctx context.Context, interval time.Duration) error {
	// Run immediately on start.
	r.logOutcome(ctx, r.cache.Refresh(ctx))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("refresh loop stopped")
			return ctx.Err()
		case <-ticker.C:
			r.logOutcome(ctx, r.cache.Refresh(ctx))
		}
	}
}

func (r *Refresher) logOutcome(ctx context.Context, outcome Outcome) {
	attrs := []any{
		slog.Int("accounts", outcome.Accounts),
		slog.Int("contracts", outcome.Contracts),
		slog.Duration("elapsed", outcome.Elapsed),
	}
	switch outcome.Status() {
	case RefreshSuccess:
		r.logger.InfoContext(ctx, "reference data refreshed", attrs...)
	case RefreshPartial:
		attrs = append(attrs, slog.Int("failed_symbols", len(outcome.ContractErrors)))
		if outcome.AccountsErr != nil {
			attrs = append(attrs, slog.String("accounts_error", outcome.AccountsErr.Error()))
		}
		r.logger.WarnContext(ctx, "reference data partially refreshed", attrs...)
	case RefreshFailed:
		if outcome.AccountsErr != nil {
			attrs = append(attrs, slog.String("accounts_error", outcome.AccountsErr.Error()))
		}
		r.logger.ErrorContext(ctx, "reference data refresh failed", attrs...)
	}
}
