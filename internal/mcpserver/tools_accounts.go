package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tradeforgeio/projectx-mcp/internal/domain"
)

type emptyArgs struct{}

type getAccountsOutput struct {
	Accounts []accountPayload `json:"accounts"`
	Count    int              `json:"count"`
}

type accountSummaryInput struct {
	AccountID *int64 `json:"accountId,omitempty" jsonschema:"account ID; defaults to the first cached account"`
}

type accountSummaryOutput struct {
	Account accountPayload `json:"account"`
}

func (s *Server) registerAccountTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_accounts",
		Description: "List all active trading accounts with balances and trade permissions.",
	}, s.handleGetAccounts)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_account_summary",
		Description: "Get one account's details. Omit accountId to use the default account.",
	}, s.handleGetAccountSummary)
}

func (s *Server) handleGetAccounts(ctx context.Context, req *mcp.CallToolRequest, in emptyArgs) (*mcp.CallToolResult, getAccountsOutput, error) {
	accounts := s.cache.Accounts()
	return nil, getAccountsOutput{
		Accounts: toAccountPayloads(accounts),
		Count:    len(accounts),
	}, nil
}

func (s *Server) handleGetAccountSummary(ctx context.Context, req *mcp.CallToolRequest, in accountSummaryInput) (*mcp.CallToolResult, accountSummaryOutput, error) {
	id, err := s.resolveAccountID(in.AccountID)
	if err != nil {
		return nil, accountSummaryOutput{}, err
	}
	account, ok := s.cache.Account(id)
	if !ok {
		return nil, accountSummaryOutput{}, fmt.Errorf("%w: account %d", domain.ErrNotFound, id)
	}
	return nil, accountSummaryOutput{Account: toAccountPayload(account)}, nil
}
