// Package refdata maintains the in-memory account and contract snapshot
// that tool handlers read. Accounts refresh as a unit; contracts populate
// eagerly for a configured allow-list and lazily for anything else.
package refdata

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tradeforgeio/projectx-mcp/internal/domain"
)

// Searcher is the slice of the gateway client the cache needs.
type Searcher interface {
	SearchActiveAccounts(ctx context.Context) ([]domain.Account, error)
	SearchContracts(ctx context.Context, searchText string) ([]domain.Contract, error)
}

// RefreshStatus classifies one refresh cycle.
type RefreshStatus string

const (
	RefreshSuccess RefreshStatus = "success"
	RefreshPartial RefreshStatus = "partial"
	RefreshFailed  RefreshStatus = "failed"
)

// Outcome reports what one refresh cycle accomplished. Refresh never fails
// outward; degraded cycles are visible here instead of only in logs.
type Outcome struct {
	Accounts       int
	Contracts      int
	AccountsErr    error
	ContractErrors map[string]error
	Elapsed        time.Duration
}

// Status derives the cycle's overall state: Failed when nothing refreshed,
// Partial when any fetch failed, Success otherwise.
func (o Outcome) Status() RefreshStatus {
	if o.AccountsErr != nil && o.Contracts == 0 {
		return RefreshFailed
	}
	if o.AccountsErr != nil || len(o.ContractErrors) > 0 {
		return RefreshPartial
	}
	return RefreshSuccess
}

// Cache holds the latest reference-data snapshot. All readers are safe for
// concurrent use with Refresh; they see either the prior snapshot or the new
// one, never a half-built state.
type Cache struct {
	searcher Searcher
	symbols  []string
	logger   *slog.Logger

	mu         sync.RWMutex
	accounts   map[int64]domain.Account
	accountIDs []int64
	contracts  map[string]domain.Contract
}

// NewCache creates an empty cache. symbols is the eager allow-list; entries
// are normalized and deduplicated, order preserved.
func NewCache(searcher Searcher, symbols []string, logger *slog.Logger) *Cache {
	normalized := make([]string, 0, len(symbols))
	seen := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		symbol := domain.NormalizeSymbol(s)
		if symbol == "" {
			continue
		}
		if _, ok := seen[symbol]; ok {
			continue
		}
		seen[symbol] = struct{}{}
		normalized = append(normalized, symbol)
	}
	return &Cache{
		searcher:  searcher,
		symbols:   normalized,
		logger:    logger.With(slog.String("component", "refdata")),
		accounts:  make(map[int64]domain.Account),
		contracts: make(map[string]domain.Contract),
	}
}

// Refresh rebuilds the snapshot. The account map is replaced only when the
// account search succeeds; the contract map is replaced with this cycle's
// successful allow-list fetches, dropping lazily-cached symbols (they
// re-fetch on next lookup). Refresh never returns an error.
func (c *Cache) Refresh(ctx context.Context) Outcome {
	start := time.Now()
	outcome := Outcome{ContractErrors: make(map[string]error)}

	accounts, err := c.searcher.SearchActiveAccounts(ctx)
	if err != nil {
		outcome.AccountsErr = err
		c.logger.WarnContext(ctx, "account refresh failed", slog.String("error", err.Error()))
	}

	next := make(map[string]domain.Contract, len(c.symbols))
	for _, symbol := range c.symbols {
		contract, err := c.fetchContract(ctx, symbol)
		if err != nil {
			outcome.ContractErrors[symbol] = err
			c.logger.WarnContext(ctx, "contract refresh failed",
				slog.String("symbol", symbol),
				slog.String("error", err.Error()),
			)
			continue
		}
		next[symbol] = contract
	}
	outcome.Contracts = len(next)

	c.mu.Lock()
	if outcome.AccountsErr == nil {
		byID := make(map[int64]domain.Account, len(accounts))
		ids := make([]int64, 0, len(accounts))
		for _, account := range accounts {
			byID[account.ID] = account
			ids = append(ids, account.ID)
		}
		c.accounts = byID
		c.accountIDs = ids
		outcome.Accounts = len(accounts)
	}
	c.contracts = next
	c.mu.Unlock()

	outcome.Elapsed = time.Since(start)
	return outcome
}

// Accounts returns the accounts of the last successful refresh in
// gateway-reported order.
func (c *Cache) Accounts() []domain.Account {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Account, 0, len(c.accountIDs))
	for _, id := range c.accountIDs {
		out = append(out, c.accounts[id])
	}
	return out
}

// Account returns one cached account by ID.
func (c *Cache) Account(id int64) (domain.Account, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	account, ok := c.accounts[id]
	return account, ok
}

// DefaultAccountID returns the first account of the snapshot. It stands in
// when a tool call names no account.
func (c *Cache) DefaultAccountID() (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.accountIDs) == 0 {
		return 0, false
	}
	return c.accountIDs[0], true
}

// CommonContracts returns the allow-list contracts in configured order,
// skipping symbols whose last fetch failed.
func (c *Cache) CommonContracts() []domain.Contract {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Contract, 0, len(c.symbols))
	for _, symbol := range c.symbols {
		if contract, ok := c.contracts[symbol]; ok {
			out = append(out, contract)
		}
	}
	return out
}

// LookupContract resolves a symbol to its contract, fetching and caching it
// on first sight. Cached symbols never trigger a remote call.
func (c *Cache) LookupContract(ctx context.Context, symbol string) (domain.Contract, error) {
	normalized := domain.NormalizeSymbol(symbol)
	if normalized == "" {
		return domain.Contract{}, fmt.Errorf("%w: symbol is required", domain.ErrValidation)
	}

	c.mu.RLock()
	contract, ok := c.contracts[normalized]
	c.mu.RUnlock()
	if ok {
		return contract, nil
	}

	contract, err := c.fetchContract(ctx, normalized)
	if err != nil {
		return domain.Contract{}, err
	}

	c.mu.Lock()
	c.contracts[normalized] = contract
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "cached contract",
		slog.String("symbol", normalized),
		slog.String("contract_id", contract.ID),
	)
	return contract, nil
}

// fetchContract runs one contract search and picks the match for symbol.
func (c *Cache) fetchContract(ctx context.Context, symbol string) (domain.Contract, error) {
	contracts, err := c.searcher.SearchContracts(ctx, symbol)
	if err != nil {
		return domain.Contract{}, err
	}
	contract, ok := pickContract(symbol, contracts)
	if !ok {
		return domain.Contract{}, fmt.Errorf("%w: no contract matches symbol %q", domain.ErrNotFound, symbol)
	}
	return contract, nil
}

// pickContract prefers the first result whose symbol matches exactly, then
// falls back to the first result. Search is a prefix match remotely, so
// "ES" can come back behind "MES".
func pickContract(symbol string, contracts []domain.Contract) (domain.Contract, bool) {
	if len(contracts) == 0 {
		return domain.Contract{}, false
	}
	for _, contract := range contracts {
		if contract.Symbol == symbol {
			return contract, true
		}
	}
	return contracts[0], true
}
