package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tradeforgeio/projectx-mcp/internal/domain"
)

const (
	accountsResourceURI      = "projectx://account/"
	accountResourceTemplate  = "projectx://account/{id}"
	positionsResourceURI     = "projectx://position/"
	positionResourceTemplate = "projectx://position/{accountId}"

	resourceMIMEType = "application/json"
)

func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		URI:         accountsResourceURI,
		Name:        "accounts",
		Description: "All cached trading accounts.",
		MIMEType:    resourceMIMEType,
	}, s.handleAccountsResource)

	s.mcp.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: accountResourceTemplate,
		Name:        "account",
		Description: "One cached trading account by ID.",
		MIMEType:    resourceMIMEType,
	}, s.handleAccountResource)

	s.mcp.AddResource(&mcp.Resource{
		URI:         positionsResourceURI,
		Name:        "positions",
		Description: "Open positions. Always empty until the gateway exposes position retrieval.",
		MIMEType:    resourceMIMEType,
	}, s.handlePositionsResource)

	s.mcp.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: positionResourceTemplate,
		Name:        "account-positions",
		Description: "Open positions for one account. Always empty until the gateway exposes position retrieval.",
		MIMEType:    resourceMIMEType,
	}, s.handlePositionResource)
}

func (s *Server) handleAccountsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	accounts := s.cache.Accounts()
	return jsonResource(req.Params.URI, getAccountsOutput{
		Accounts: toAccountPayloads(accounts),
		Count:    len(accounts),
	})
}

func (s *Server) handleAccountResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	raw := strings.TrimPrefix(req.Params.URI, accountsResourceURI)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: account id %q is not numeric", domain.ErrValidation, raw)
	}
	account, ok := s.cache.Account(id)
	if !ok {
		return nil, fmt.Errorf("%w: account %d", domain.ErrNotFound, id)
	}
	return jsonResource(req.Params.URI, toAccountPayload(account))
}

func (s *Server) handlePositionsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, listPositionsOutput{Positions: []positionPayload{}, Count: 0})
}

func (s *Server) handlePositionResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	raw := strings.TrimPrefix(req.Params.URI, positionsResourceURI)
	if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
		return nil, fmt.Errorf("%w: account id %q is not numeric", domain.ErrValidation, raw)
	}
	return jsonResource(req.Params.URI, listPositionsOutput{Positions: []positionPayload{}, Count: 0})
}

func jsonResource(uri string, payload any) (*mcp.ReadResourceResult, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("mcpserver: marshal resource payload: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: resourceMIMEType,
			Text:     string(data),
		}},
	}, nil
}
