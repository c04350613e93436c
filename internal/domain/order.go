package domain

import (
	"fmt"
	"strings"
)

// OrderSide indicates whether this is a buy or sell.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "Buy"
	OrderSideSell OrderSide = "Sell"
)

// Code returns the gateway wire code for the side.
func (s OrderSide) Code() int {
	if s == OrderSideSell {
		return 1
	}
	return 0
}

// ParseOrderSide parses a case-insensitive side string.
func ParseOrderSide(s string) (OrderSide, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return OrderSideBuy, nil
	case "sell":
		return OrderSideSell, nil
	default:
		return "", fmt.Errorf("%w: side must be Buy or Sell, got %q", ErrValidation, s)
	}
}

// OrderType indicates how the order prices itself.
type OrderType string

const (
	OrderTypeMarket    OrderType = "Market"
	OrderTypeLimit     OrderType = "Limit"
	OrderTypeStop      OrderType = "Stop"
	OrderTypeStopLimit OrderType = "StopLimit"
)

// Code returns the gateway wire code for the order type.
func (t OrderType) Code() int {
	switch t {
	case OrderTypeLimit:
		return 1
	case OrderTypeStopLimit:
		return 3
	case OrderTypeStop:
		return 4
	default:
		return 2 // Market
	}
}

// RequiresPrice reports whether the type needs a limit price.
func (t OrderType) RequiresPrice() bool {
	return t == OrderTypeLimit || t == OrderTypeStopLimit
}

// RequiresStopPrice reports whether the type needs a stop trigger price.
func (t OrderType) RequiresStopPrice() bool {
	return t == OrderTypeStop || t == OrderTypeStopLimit
}

// ParseOrderType parses a case-insensitive order type string. Empty input
// defaults to Market.
func ParseOrderType(s string) (OrderType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "market":
		return OrderTypeMarket, nil
	case "limit":
		return OrderTypeLimit, nil
	case "stop":
		return OrderTypeStop, nil
	case "stoplimit", "stop_limit", "stop-limit":
		return OrderTypeStopLimit, nil
	default:
		return "", fmt.Errorf("%w: orderType must be Market, Limit, Stop, or StopLimit, got %q", ErrValidation, s)
	}
}

// TimeInForce indicates how long an order stays working.
type TimeInForce string

const (
	TimeInForceDay TimeInForce = "Day"
	TimeInForceGTC TimeInForce = "GTC" // Good-Till-Cancelled
	TimeInForceIOC TimeInForce = "IOC" // Immediate-Or-Cancel
	TimeInForceFOK TimeInForce = "FOK" // Fill-Or-Kill
)

// Code returns the gateway wire code for the time-in-force policy.
func (t TimeInForce) Code() int {
	switch t {
	case TimeInForceGTC:
		return 1
	case TimeInForceIOC:
		return 2
	case TimeInForceFOK:
		return 3
	default:
		return 0 // Day
	}
}

// ParseTimeInForce parses a case-insensitive time-in-force string. Empty
// input defaults to Day.
func ParseTimeInForce(s string) (TimeInForce, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "day":
		return TimeInForceDay, nil
	case "gtc":
		return TimeInForceGTC, nil
	case "ioc":
		return TimeInForceIOC, nil
	case "fok":
		return TimeInForceFOK, nil
	default:
		return "", fmt.Errorf("%w: timeInForce must be Day, GTC, IOC, or FOK, got %q", ErrValidation, s)
	}
}

// OrderTicket carries everything needed to place one order.
type OrderTicket struct {
	AccountID   int64
	ContractID  string
	Type        OrderType
	Side        OrderSide
	Quantity    int
	LimitPrice  *float64
	StopPrice   *float64
	TimeInForce TimeInForce
	CustomTag   string
}

// Validate checks the ticket for internally inconsistent or missing fields.
func (t OrderTicket) Validate() error {
	if t.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrValidation, t.Quantity)
	}
	if t.Type.RequiresPrice() && t.LimitPrice == nil {
		return fmt.Errorf("%w: %s orders require a price", ErrValidation, t.Type)
	}
	if t.Type.RequiresStopPrice() && t.StopPrice == nil {
		return fmt.Errorf("%w: %s orders require a stopPrice", ErrValidation, t.Type)
	}
	return nil
}

// OrderUpdate carries the mutable fields of a working order. Nil fields are
// left unchanged by the gateway.
type OrderUpdate struct {
	AccountID  int64
	OrderID    int64
	Quantity   *int
	LimitPrice *float64
	StopPrice  *float64
}

// Validate checks that the update changes at least one field and that any
// new quantity is positive.
func (u OrderUpdate) Validate() error {
	if u.Quantity == nil && u.LimitPrice == nil && u.StopPrice == nil {
		return fmt.Errorf("%w: modify requires at least one of quantity, price, or stopPrice", ErrValidation)
	}
	if u.Quantity != nil && *u.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrValidation, *u.Quantity)
	}
	return nil
}

// CloseRequest asks the gateway to flatten a position. A nil Quantity closes
// the full position; otherwise only that many contracts are closed.
type CloseRequest struct {
	AccountID  int64
	ContractID string
	Quantity   *int
}

// Validate checks the close request for missing or nonsensical fields.
func (c CloseRequest) Validate() error {
	if strings.TrimSpace(c.ContractID) == "" {
		return fmt.Errorf("%w: contractId is required", ErrValidation)
	}
	if c.Quantity != nil && *c.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrValidation, *c.Quantity)
	}
	return nil
}
