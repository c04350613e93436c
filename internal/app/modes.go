package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/tradeforgeio/projectx-mcp/internal/refdata"
	"github.com/tradeforgeio/projectx-mcp/internal/secrets"
)

// ServeMode authenticates against the gateway and then runs the MCP stdio
// server alongside the reference-data refresh loop. It blocks until the
// context is cancelled or either loop fails.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting serve mode",
		slog.String("base_url", a.cfg.ProjectX.ResolveBaseURL()),
		slog.Int("symbols", len(a.cfg.Cache.Symbols)),
		slog.Duration("refresh_interval", a.cfg.Cache.RefreshInterval.Duration),
	)

	// Authenticate up front so credential problems surface at startup instead
	// of on the first tool call.
	if _, err := deps.Session.Token(ctx); err != nil {
		return fmt.Errorf("serve mode: login: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	// The refresh loop runs its first pass immediately, so the cache warms
	// while the MCP handshake is still in flight. A failed warmup is not
	// fatal; tool calls fall back to on-demand contract lookups.
	g.Go(func() error {
		return deps.Refresher.RunLoop(ctx, a.cfg.Cache.RefreshInterval.Duration)
	})

	g.Go(func() error {
		return deps.Server.Run(ctx)
	})

	return g.Wait()
}

// CheckMode is a one-shot connectivity check: it logs in, runs a single
// reference-data refresh, and reports what it found. Useful for validating
// credentials and the symbol allow-list before wiring the server into an MCP
// client.
func (a *App) CheckMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting check mode")

	if _, err := deps.Session.Token(ctx); err != nil {
		return fmt.Errorf("check mode: login: %w", err)
	}
	a.logger.InfoContext(ctx, "login ok",
		slog.String("username", a.cfg.ProjectX.Username),
		slog.String("base_url", a.cfg.ProjectX.ResolveBaseURL()),
	)

	outcome := deps.Cache.Refresh(ctx)
	a.logger.InfoContext(ctx, "reference data check",
		slog.String("status", string(outcome.Status())),
		slog.Int("accounts", outcome.Accounts),
		slog.Int("contracts", outcome.Contracts),
		slog.Duration("elapsed", outcome.Elapsed),
	)
	for symbol, err := range outcome.ContractErrors {
		a.logger.WarnContext(ctx, "contract lookup failed",
			slog.String("symbol", symbol),
			slog.String("error", err.Error()),
		)
	}

	if outcome.Status() == refdata.RefreshFailed {
		return fmt.Errorf("check mode: refresh failed: %w", outcome.AccountsErr)
	}
	return nil
}

// EncryptKeyMode encrypts the configured plaintext API key with the key
// password and writes the resulting JSON blob to api_key_file. Afterwards the
// plaintext api_key can be removed from the config.
func (a *App) EncryptKeyMode(ctx context.Context, _ *Dependencies) error {
	a.logger.InfoContext(ctx, "starting encrypt-key mode")

	blob, err := secrets.EncryptCredential(a.cfg.ProjectX.APIKey, a.cfg.ProjectX.APIKeyPassword)
	if err != nil {
		return fmt.Errorf("encrypt-key mode: %w", err)
	}
	if err := os.WriteFile(a.cfg.ProjectX.APIKeyFile, blob, 0o600); err != nil {
		return fmt.Errorf("encrypt-key mode: write key file: %w", err)
	}

	a.logger.InfoContext(ctx, "encrypted api key written",
		slog.String("path", a.cfg.ProjectX.APIKeyFile),
	)
	return nil
}
