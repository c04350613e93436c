package projectx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tradeforgeio/projectx-mcp/internal/domain"
)

// SearchActiveAccounts returns every active account visible to the
// authenticated user.
func (c *Client) SearchActiveAccounts(ctx context.Context) ([]domain.Account, error) {
	payload, err := c.Request(ctx, http.MethodPost, "/Account/search", accountSearchRequest{
		OnlyActiveAccounts: true,
	})
	if err != nil {
		return nil, fmt.Errorf("projectx: search accounts: %w", err)
	}

	var res struct {
		Accounts []APIAccount `json:"accounts"`
	}
	if err := json.Unmarshal(payload, &res); err != nil {
		return nil, fmt.Errorf("projectx: decode accounts: %w", err)
	}

	accounts := make([]domain.Account, 0, len(res.Accounts))
	for i := range res.Accounts {
		accounts = append(accounts, res.Accounts[i].ToDomain())
	}
	return accounts, nil
}

// SearchContracts runs a text search over tradable contracts. The gateway
// matches symbol prefixes, so "ES" returns ES plus MES and friends.
func (c *Client) SearchContracts(ctx context.Context, searchText string) ([]domain.Contract, error) {
	payload, err := c.Request(ctx, http.MethodPost, "/Contract/search", contractSearchRequest{
		SearchText: searchText,
		Live:       false,
	})
	if err != nil {
		return nil, fmt.Errorf("projectx: search contracts: %w", err)
	}

	var res struct {
		Contracts []APIContract `json:"contracts"`
	}
	if err := json.Unmarshal(payload, &res); err != nil {
		return nil, fmt.Errorf("projectx: decode contracts: %w", err)
	}

	contracts := make([]domain.Contract, 0, len(res.Contracts))
	for i := range res.Contracts {
		contracts = append(contracts, res.Contracts[i].ToDomain())
	}
	return contracts, nil
}
