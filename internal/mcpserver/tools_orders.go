package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tradeforgeio/projectx-mcp/internal/domain"
)

type placeOrderInput struct {
	Symbol      string   `json:"symbol" jsonschema:"contract symbol to trade"`
	Side        string   `json:"side" jsonschema:"Buy or Sell"`
	Quantity    int      `json:"quantity" jsonschema:"number of contracts; must be positive"`
	OrderType   string   `json:"orderType,omitempty" jsonschema:"Market, Limit, Stop, or StopLimit; defaults to Market"`
	Price       *float64 `json:"price,omitempty" jsonschema:"limit price; required for Limit and StopLimit orders"`
	StopPrice   *float64 `json:"stopPrice,omitempty" jsonschema:"stop trigger price; required for Stop and StopLimit orders"`
	AccountID   *int64   `json:"accountId,omitempty" jsonschema:"account to trade in; defaults to the first cached account"`
	TimeInForce string   `json:"timeInForce,omitempty" jsonschema:"Day, GTC, IOC, or FOK; defaults to Day"`
}

type placeOrderOutput struct {
	Success   bool   `json:"success"`
	OrderID   int64  `json:"orderId"`
	CustomTag string `json:"customTag"`
}

type modifyOrderInput struct {
	OrderID   int64    `json:"orderId" jsonschema:"ID of the working order to modify"`
	AccountID *int64   `json:"accountId,omitempty" jsonschema:"owning account; defaults to the first cached account"`
	Quantity  *int     `json:"quantity,omitempty" jsonschema:"new contract count"`
	Price     *float64 `json:"price,omitempty" jsonschema:"new limit price"`
	StopPrice *float64 `json:"stopPrice,omitempty" jsonschema:"new stop trigger price"`
}

type modifyOrderOutput struct {
	Success bool  `json:"success"`
	OrderID int64 `json:"orderId"`
}

type cancelOrderInput struct {
	OrderID   int64  `json:"orderId" jsonschema:"ID of the working order to cancel"`
	AccountID *int64 `json:"accountId,omitempty" jsonschema:"owning account; defaults to the first cached account"`
}

type cancelOrderOutput struct {
	Success bool  `json:"success"`
	OrderID int64 `json:"orderId"`
}

type closePositionInput struct {
	Symbol    string `json:"symbol" jsonschema:"contract symbol of the position to close"`
	AccountID *int64 `json:"accountId,omitempty" jsonschema:"owning account; defaults to the first cached account"`
	Quantity  *int   `json:"quantity,omitempty" jsonschema:"contracts to close; omit to close the whole position"`
}

type closePositionOutput struct {
	Success    bool   `json:"success"`
	ContractID string `json:"contractId"`
	AccountID  int64  `json:"accountId"`
	Quantity   *int   `json:"quantity,omitempty"`
}

func (s *Server) registerOrderTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "place_order",
		Description: "Place an order: market, limit, stop, or stop-limit.",
	}, s.handlePlaceOrder)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "modify_order",
		Description: "Modify a working order's quantity, price, or stop price.",
	}, s.handleModifyOrder)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "cancel_order",
		Description: "Cancel a working order by ID.",
	}, s.handleCancelOrder)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "close_position",
		Description: "Close an open position, fully or partially.",
	}, s.handleClosePosition)
}

func (s *Server) handlePlaceOrder(ctx context.Context, req *mcp.CallToolRequest, in placeOrderInput) (*mcp.CallToolResult, placeOrderOutput, error) {
	var out placeOrderOutput
	if strings.TrimSpace(in.Symbol) == "" {
		return nil, out, fmt.Errorf("%w: symbol is required", domain.ErrValidation)
	}
	side, err := domain.ParseOrderSide(in.Side)
	if err != nil {
		return nil, out, err
	}
	orderType, err := domain.ParseOrderType(in.OrderType)
	if err != nil {
		return nil, out, err
	}
	tif, err := domain.ParseTimeInForce(in.TimeInForce)
	if err != nil {
		return nil, out, err
	}

	ticket := domain.OrderTicket{
		Type:        orderType,
		Side:        side,
		Quantity:    in.Quantity,
		LimitPrice:  in.Price,
		StopPrice:   in.StopPrice,
		TimeInForce: tif,
		CustomTag:   uuid.New().String(),
	}
	// Argument problems must surface before any account or contract
	// resolution touches the network.
	if err := ticket.Validate(); err != nil {
		return nil, out, err
	}

	accountID, err := s.resolveAccountID(in.AccountID)
	if err != nil {
		return nil, out, err
	}
	contract, err := s.cache.LookupContract(ctx, in.Symbol)
	if err != nil {
		return nil, out, err
	}
	ticket.AccountID = accountID
	ticket.ContractID = contract.ID

	orderID, err := s.client.PlaceOrder(ctx, ticket)
	if err != nil {
		return nil, out, err
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.Int64("order_id", orderID),
		slog.String("symbol", contract.Symbol),
		slog.String("side", string(side)),
		slog.String("type", string(orderType)),
		slog.Int("quantity", in.Quantity),
	)
	return nil, placeOrderOutput{Success: true, OrderID: orderID, CustomTag: ticket.CustomTag}, nil
}

func (s *Server) handleModifyOrder(ctx context.Context, req *mcp.CallToolRequest, in modifyOrderInput) (*mcp.CallToolResult, modifyOrderOutput, error) {
	var out modifyOrderOutput
	if in.OrderID <= 0 {
		return nil, out, fmt.Errorf("%w: orderId is required", domain.ErrValidation)
	}
	update := domain.OrderUpdate{
		OrderID:    in.OrderID,
		Quantity:   in.Quantity,
		LimitPrice: in.Price,
		StopPrice:  in.StopPrice,
	}
	if err := update.Validate(); err != nil {
		return nil, out, err
	}

	accountID, err := s.resolveAccountID(in.AccountID)
	if err != nil {
		return nil, out, err
	}
	update.AccountID = accountID

	if err := s.client.ModifyOrder(ctx, update); err != nil {
		return nil, out, err
	}

	s.logger.InfoContext(ctx, "order modified", slog.Int64("order_id", in.OrderID))
	return nil, modifyOrderOutput{Success: true, OrderID: in.OrderID}, nil
}

func (s *Server) handleCancelOrder(ctx context.Context, req *mcp.CallToolRequest, in cancelOrderInput) (*mcp.CallToolResult, cancelOrderOutput, error) {
	var out cancelOrderOutput
	if in.OrderID <= 0 {
		return nil, out, fmt.Errorf("%w: orderId is required", domain.ErrValidation)
	}
	accountID, err := s.resolveAccountID(in.AccountID)
	if err != nil {
		return nil, out, err
	}

	if err := s.client.CancelOrder(ctx, accountID, in.OrderID); err != nil {
		return nil, out, err
	}

	s.logger.InfoContext(ctx, "order cancelled", slog.Int64("order_id", in.OrderID))
	return nil, cancelOrderOutput{Success: true, OrderID: in.OrderID}, nil
}

func (s *Server) handleClosePosition(ctx context.Context, req *mcp.CallToolRequest, in closePositionInput) (*mcp.CallToolResult, closePositionOutput, error) {
	var out closePositionOutput
	if strings.TrimSpace(in.Symbol) == "" {
		return nil, out, fmt.Errorf("%w: symbol is required", domain.ErrValidation)
	}
	if in.Quantity != nil && *in.Quantity <= 0 {
		return nil, out, fmt.Errorf("%w: quantity must be positive, got %d", domain.ErrValidation, *in.Quantity)
	}

	accountID, err := s.resolveAccountID(in.AccountID)
	if err != nil {
		return nil, out, err
	}
	contract, err := s.cache.LookupContract(ctx, in.Symbol)
	if err != nil {
		return nil, out, err
	}

	err = s.client.ClosePosition(ctx, domain.CloseRequest{
		AccountID:  accountID,
		ContractID: contract.ID,
		Quantity:   in.Quantity,
	})
	if err != nil {
		return nil, out, err
	}

	s.logger.InfoContext(ctx, "position closed",
		slog.String("contract_id", contract.ID),
		slog.Int64("account_id", accountID),
	)
	return nil, closePositionOutput{
		Success:    true,
		ContractID: contract.ID,
		AccountID:  accountID,
		Quantity:   in.Quantity,
	}, nil
}
