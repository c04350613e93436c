package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// The gateway exposes no position or order retrieval endpoints. These tools
// return empty collections so clients get a well-formed answer instead of a
// failure; close_position and the order tools remain fully functional.

type listPositionsInput struct {
	AccountID *int64 `json:"accountId,omitempty" jsonschema:"account to list positions for; defaults to the first cached account"`
}

type listPositionsOutput struct {
	Positions []positionPayload `json:"positions"`
	Count     int               `json:"count"`
}

type listOrdersInput struct {
	AccountID *int64 `json:"accountId,omitempty" jsonschema:"account to list orders for; defaults to the first cached account"`
	OnlyOpen  *bool  `json:"onlyOpen,omitempty" jsonschema:"restrict to working orders; defaults to true"`
}

type listOrdersOutput struct {
	Orders []orderPayload `json:"orders"`
	Count  int            `json:"count"`
}

func (s *Server) registerPositionTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_positions",
		Description: "List open positions. The gateway does not expose position retrieval yet, so this always returns an empty list.",
	}, s.handleListPositions)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_orders",
		Description: "List orders. The gateway does not expose order retrieval yet, so this always returns an empty list.",
	}, s.handleListOrders)
}

func (s *Server) handleListPositions(ctx context.Context, req *mcp.CallToolRequest, in listPositionsInput) (*mcp.CallToolResult, listPositionsOutput, error) {
	return nil, listPositionsOutput{Positions: []positionPayload{}, Count: 0}, nil
}

func (s *Server) handleListOrders(ctx context.Context, req *mcp.CallToolRequest, in listOrdersInput) (*mcp.CallToolResult, listOrdersOutput, error) {
	return nil, listOrdersOutput{Orders: []orderPayload{}, Count: 0}, nil
}
