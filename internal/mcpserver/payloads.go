package mcpserver

import (
	"time"

	"github.com/tradeforgeio/projectx-mcp/internal/domain"
)

// Tool and resource payload shapes. Domain types stay JSON-free; these carry
// the field names clients see.

type accountPayload struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Balance   float64 `json:"balance"`
	CanTrade  bool    `json:"canTrade"`
	IsVisible bool    `json:"isVisible"`
	Simulated bool    `json:"simulated"`
}

func toAccountPayload(a domain.Account) accountPayload {
	return accountPayload{
		ID:        a.ID,
		Name:      a.Name,
		Balance:   a.Balance,
		CanTrade:  a.CanTrade,
		IsVisible: a.IsVisible,
		Simulated: a.Simulated,
	}
}

func toAccountPayloads(accounts []domain.Account) []accountPayload {
	out := make([]accountPayload, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, toAccountPayload(account))
	}
	return out
}

type contractPayload struct {
	ID             string  `json:"id"`
	Symbol         string  `json:"symbol"`
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	Exchange       string  `json:"exchange,omitempty"`
	TickSize       float64 `json:"tickSize"`
	PointValue     float64 `json:"pointValue"`
	MinQuantity    int     `json:"minQuantity,omitempty"`
	MaxQuantity    int     `json:"maxQuantity,omitempty"`
	TradingHours   string  `json:"tradingHours,omitempty"`
	ActiveContract bool    `json:"activeContract"`
}

func toContractPayload(c domain.Contract) contractPayload {
	return contractPayload{
		ID:             c.ID,
		Symbol:         c.Symbol,
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

func toContractPayloads(contracts []domain.Contract) []contractPayload {
	out := make([]contractPayload, 0, len(contracts))
	for _, contract := range contracts {
		out = append(out, toContractPayload(contract))
	}
	return out
}

type barPayload struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
}

func toBarPayload(b domain.Bar) barPayload {
	return barPayload{
		Timestamp: b.Timestamp,
		Open:      b.Open,
		High:      b.High,
		Low:       b.Low,
		Close:     b.Close,
		Volume:    b.Volume,
	}
}

type positionPayload struct {
	AccountID    int64   `json:"accountId"`
	ContractID   string  `json:"contractId"`
	Size         int     `json:"size"`
	AveragePrice float64 `json:"averagePrice"`
}

type orderPayload struct {
	OrderID    int64  `json:"orderId"`
	AccountID  int64  `json:"accountId"`
	ContractID string `json:"contractId"`
	Type       string `json:"type"`
	Side       string `json:"side"`
	Size       int    `json:"size"`
}
