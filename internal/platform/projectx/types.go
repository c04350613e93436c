package projectx

import (
	"time"

	"github.com/tradeforgeio/projectx-mcp/internal/domain"
)

// --------------------------------------------------------------------------
// Auth DTOs
// --------------------------------------------------------------------------

type loginRequest struct {
	UserName string `json:"userName"`
	APIKey   string `json:"apiKey"`
}

type loginResponse struct {
	Token        string `json:"token"`
	Success      bool   `json:"success"`
	ErrorCode    int    `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// --------------------------------------------------------------------------
// Reference-data DTOs
// --------------------------------------------------------------------------

type accountSearchRequest struct {
	OnlyActiveAccounts bool `json:"onlyActiveAccounts"`
}

// APIAccount represents an account as returned by /Account/search.
type APIAccount struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Balance   float64 `json:"balance"`
	CanTrade  bool    `json:"canTrade"`
	IsVisible bool    `json:"isVisible"`
	Simulated bool    `json:"simulated"`
}

// ToDomain converts an APIAccount to a domain.Account.
func (a *APIAccount) ToDomain() domain.Account {
	return domain.Account{
		ID:        a.ID,
		Name:      a.Name,
		Balance:   a.Balance,
		CanTrade:  a.CanTrade,
		IsVisible: a.IsVisible,
		Simulated: a.Simulated,
	}
}

type contractSearchRequest struct {
	SearchText string `json:"searchText"`
	Live       bool   `json:"live"`
}

// APIContract represents a contract as returned by /Contract/search.
type APIContract struct {
	ID             string  `json:"id"`
	Symbol         string  `json:"symbol"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Exchange       string  `json:"exchange"`
	TickSize       float64 `json:"tickSize"`
	PointValue     float64 `json:"pointValue"`
	MinQuantity    int     `json:"minQuantity"`
	MaxQuantity    int     `json:"maxQuantity"`
	TradingHours   string  `json:"tradingHours"`
	ActiveContract bool    `json:"activeContract"`
}

// ToDomain converts an APIContract to a domain.Contract. Some gateway
// deployments omit the symbol field; the name then doubles as the symbol.
func (c *APIContract) ToDomain() domain.Contract {
	symbol := c.Symbol
	if symbol == "" {
		symbol = c.Name
	}
	return domain.Contract{
		ID:             c.ID,
		Symbol:         domain.NormalizeSymbol(symbol),
		Name:           c.Name,
		Description:    c.Description,
		Exchange:       c.Exchange,
		TickSize:       c.TickSize,
		PointValue:     c.PointValue,
		MinQuantity:    c.MinQuantity,
		MaxQuantity:    c.MaxQuantity,
		TradingHours:   c.TradingHours,
		ActiveContract: c.ActiveContract,
	}
}

// --------------------------------------------------------------------------
// Order DTOs
// --------------------------------------------------------------------------

type placeOrderRequest struct {
	AccountID   int64    `json:"accountId"`
	ContractID  string   `json:"contractId"`
	Type        int      `json:"type"`
	Side        int      `json:"side"`
	Size        int      `json:"size"`
	LimitPrice  *float64 `json:"limitPrice,omitempty"`
	StopPrice   *float64 `json:"stopPrice,omitempty"`
	TimeInForce int      `json:"timeInForce"`
	CustomTag   string   `json:"customTag,omitempty"`
}

type placeOrderResponse struct {
	OrderID int64 `json:"orderId"`
}

type modifyOrderRequest struct {
	AccountID  int64    `json:"accountId"`
	OrderID    int64    `json:"orderId"`
	Size       *int     `json:"size,omitempty"`
	LimitPrice *float64 `json:"limitPrice,omitempty"`
	StopPrice  *float64 `json:"stopPrice,omitempty"`
}

type cancelOrderRequest struct {
	AccountID int64 `json:"accountId"`
	OrderID   int64 `json:"orderId"`
}

type closePositionRequest struct {
	AccountID  int64  `json:"accountId"`
	ContractID string `json:"contractId"`
	Size       *int   `json:"size,omitempty"`
}

// --------------------------------------------------------------------------
// Market-data DTOs
// --------------------------------------------------------------------------

type retrieveBarsRequest struct {
	ContractID string `json:"contractId"`
	StartTime  string `json:"startTime"` // RFC 3339
	EndTime    string `json:"endTime"`   // RFC 3339
	Unit       int    `json:"unit"`
	UnitNumber int    `json:"unitNumber"`
}

// APIBar represents one candle as returned by /MarketData/retrieve-bars.
// The gateway uses single-letter keys.
type APIBar struct {
	Timestamp string  `json:"t"`
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Close     float64 `json:"c"`
	Volume    int64   `json:"v"`
}

// ToDomain converts an APIBar to a domain.Bar. Unparseable timestamps come
// back as the zero time rather than failing the whole window.
func (b *APIBar) ToDomain() domain.Bar {
	ts, _ := time.Parse(time.RFC3339, b.Timestamp)
	return domain.Bar{
		Timestamp: ts,
		Open:      b.Open,
		High:      b.High,
		Low:       b.Low,
		Close:     b.Close,
		Volume:    b.Volume,
	}
}
