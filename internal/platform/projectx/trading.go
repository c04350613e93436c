package projectx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tradeforgeio/projectx-mcp/internal/domain"
)

// PlaceOrder submits the ticket and returns the gateway-assigned order ID.
func (c *Client) PlaceOrder(ctx context.Context, ticket domain.OrderTicket) (int64, error) {
	if err := ticket.Validate(); err != nil {
		return 0, fmt.Errorf("projectx: place order: %w", err)
	}

	req := placeOrderRequest{
		AccountID:   ticket.AccountID,
		ContractID:  ticket.ContractID,
		Type:        ticket.Type.Code(),
		Side:        ticket.Side.Code(),
		Size:        ticket.Quantity,
		LimitPrice:  ticket.LimitPrice,
		StopPrice:   ticket.StopPrice,
		TimeInForce: ticket.TimeInForce.Code(),
		CustomTag:   ticket.CustomTag,
	}
	payload, err := c.Request(ctx, http.MethodPost, "/Order/place", req)
	if err != nil {
		return 0, fmt.Errorf("projectx: place order: %w", err)
	}

	var res placeOrderResponse
	if err := json.Unmarshal(payload, &res); err != nil {
		return 0, fmt.Errorf("projectx: decode order id: %w", err)
	}
	return res.OrderID, nil
}

// ModifyOrder updates a working order in place. Only the fields set on the
// update are sent; the gateway leaves the rest untouched.
func (c *Client) ModifyOrder(ctx context.Context, update domain.OrderUpdate) error {
	if err := update.Validate(); err != nil {
		return fmt.Errorf("projectx: modify order: %w", err)
	}

	req := modifyOrderRequest{
		AccountID:  update.AccountID,
		OrderID:    update.OrderID,
		Size:       update.Quantity,
		LimitPrice: update.LimitPrice,
		StopPrice:  update.StopPrice,
	}
	if _, err := c.Request(ctx, http.MethodPost, "/Order/modify", req); err != nil {
		return fmt.Errorf("projectx: modify order: %w", err)
	}
	return nil
}

// CancelOrder cancels a working order.
func (c *Client) CancelOrder(ctx context.Context, accountID, orderID int64) error {
	req := cancelOrderRequest{AccountID: accountID, OrderID: orderID}
	if _, err := c.Request(ctx, http.MethodPost, "/Order/cancel", req); err != nil {
		return fmt.Errorf("projectx: cancel order: %w", err)
	}
	return nil
}

// ClosePosition flattens a position, fully when the request carries no
// quantity and partially otherwise.
func (c *Client) ClosePosition(ctx context.Context, close domain.CloseRequest) error {
	if err := close.Validate(); err != nil {
		return fmt.Errorf("projectx: close position: %w", err)
	}

	req := closePositionRequest{
		AccountID:  close.AccountID,
		ContractID: close.ContractID,
		Size:       close.Quantity,
	}
	if _, err := c.Request(ctx, http.MethodPost, "/Position/close-partial", req); err != nil {
		return fmt.Errorf("projectx: close position: %w", err)
	}
	return nil
}
