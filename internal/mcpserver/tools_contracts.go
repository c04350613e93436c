package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tradeforgeio/projectx-mcp/internal/domain"
)

const defaultSearchLimit = 10

type searchContractsInput struct {
	SearchText string `json:"searchText" jsonschema:"text matched against contract symbols and names"`
	Limit      *int   `json:"limit,omitempty" jsonschema:"maximum number of results; defaults to 10"`
}

type contractListOutput struct {
	Contracts []contractPayload `json:"contracts"`
	Count     int               `json:"count"`
}

type contractDetailsInput struct {
	Symbol string `json:"symbol" jsonschema:"contract symbol, e.g. MES or NQ"`
}

type contractDetailsOutput struct {
	Contract contractPayload `json:"contract"`
}

func (s *Server) registerContractTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search_contracts",
		Description: "Search tradable futures contracts by symbol or name.",
	}, s.handleSearchContracts)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_contract_details",
		Description: "Get full contract details for a symbol, including tick size and point value.",
	}, s.handleGetContractDetails)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_common_contracts",
		Description: "List the cached contracts for the configured common symbols.",
	}, s.handleGetCommonContracts)
}

func (s *Server) handleSearchContracts(ctx context.Context, req *mcp.CallToolRequest, in searchContractsInput) (*mcp.CallToolResult, contractListOutput, error) {
	text := strings.TrimSpace(in.SearchText)
	if text == "" {
		return nil, contractListOutput{}, fmt.Errorf("%w: searchText is required", domain.ErrValidation)
	}
	limit := defaultSearchLimit
	if in.Limit != nil {
		if *in.Limit <= 0 {
			return nil, contractListOutput{}, fmt.Errorf("%w: limit must be positive, got %d", domain.ErrValidation, *in.Limit)
		}
		limit = *in.Limit
	}

	contracts, err := s.client.SearchContracts(ctx, text)
	if err != nil {
		return nil, contractListOutput{}, err
	}
	if len(contracts) > limit {
		contracts = contracts[:limit]
	}
	return nil, contractListOutput{
		Contracts: toContractPayloads(contracts),
		Count:     len(contracts),
	}, nil
}

func (s *Server) handleGetContractDetails(ctx context.Context, req *mcp.CallToolRequest, in contractDetailsInput) (*mcp.CallToolResult, contractDetailsOutput, error) {
	if strings.TrimSpace(in.Symbol) == "" {
		return nil, contractDetailsOutput{}, fmt.Errorf("%w: symbol is required", domain.ErrValidation)
	}
	contract, err := s.cache.LookupContract(ctx, in.Symbol)
	if err != nil {
		return nil, contractDetailsOutput{}, err
	}
	return nil, contractDetailsOutput{Contract: toContractPayload(contract)}, nil
}

func (s *Server) handleGetCommonContracts(ctx context.Context, req *mcp.CallToolRequest, in emptyArgs) (*mcp.CallToolResult, contractListOutput, error) {
	contracts := s.cache.CommonContracts()
	return nil, contractListOutput{
		Contracts: toContractPayloads(contracts),
		Count:     len(contracts),
	}, nil
}
