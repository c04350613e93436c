package mcpserver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tradeforgeio/projectx-mcp/internal/domain"
)

// snapshotWindow is how far back get_market_data looks for the latest bar.
const snapshotWindow = 30 * time.Minute

type getBarsInput struct {
	Symbol    string `json:"symbol" jsonschema:"contract symbol"`
	StartTime string `json:"startTime" jsonschema:"window start, RFC 3339"`
	EndTime   string `json:"endTime" jsonschema:"window end, RFC 3339"`
	BarType   string `json:"barType,omitempty" jsonschema:"1min, 5min, 15min, 30min, 1hour, 4hour, or 1day; defaults to 1min"`
}

type getBarsOutput struct {
	Symbol     string       `json:"symbol"`
	ContractID string       `json:"contractId"`
	BarType    string       `json:"barType"`
	Bars       []barPayload `json:"bars"`
	Count      int          `json:"count"`
}

type getMarketDataInput struct {
	Symbol string `json:"symbol" jsonschema:"contract symbol"`
}

type getMarketDataOutput struct {
	Symbol     string    `json:"symbol"`
	ContractID string    `json:"contractId"`
	Price      float64   `json:"price"`
	Open       float64   `json:"open"`
	High       float64   `json:"high"`
	Low        float64   `json:"low"`
	Close      float64   `json:"close"`
	Volume     int64     `json:"volume"`
	Timestamp  time.Time `json:"timestamp"`
}

func (s *Server) registerMarketDataTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_bars",
		Description: "Get historical OHLCV bars for a contract over a time window.",
	}, s.handleGetBars)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_market_data",
		Description: "Get the latest price snapshot for a contract from its most recent one-minute bar.",
	}, s.handleGetMarketData)
}

func (s *Server) handleGetBars(ctx context.Context, req *mcp.CallToolRequest, in getBarsInput) (*mcp.CallToolResult, getBarsOutput, error) {
	var out getBarsOutput
	if strings.TrimSpace(in.Symbol) == "" {
		return nil, out, fmt.Errorf("%w: symbol is required", domain.ErrValidation)
	}
	barType, err := domain.ParseBarType(in.BarType)
	if err != nil {
		return nil, out, err
	}
	startTime, err := parseRFC3339("startTime", in.StartTime)
	if err != nil {
		return nil, out, err
	}
	endTime, err := parseRFC3339("endTime", in.EndTime)
	if err != nil {
		return nil, out, err
	}
	query := domain.BarQuery{StartTime: startTime, EndTime: endTime, Type: barType}
	if err := query.Validate(); err != nil {
		return nil, out, err
	}

	contract, err := s.cache.LookupContract(ctx, in.Symbol)
	if err != nil {
		return nil, out, err
	}
	query.ContractID = contract.ID

	bars, err := s.client.RetrieveBars(ctx, query)
	if err != nil {
		return nil, out, err
	}

	payloads := make([]barPayload, 0, len(bars))
	for _, bar := range bars {
		payloads = append(payloads, toBarPayload(bar))
	}
	return nil, getBarsOutput{
		Symbol:     contract.Symbol,
		ContractID: contract.ID,
		BarType:    string(barType),
		Bars:       payloads,
		Count:      len(payloads),
	}, nil
}

func (s *Server) handleGetMarketData(ctx context.Context, req *mcp.CallToolRequest, in getMarketDataInput) (*mcp.CallToolResult, getMarketDataOutput, error) {
	var out getMarketDataOutput
	if strings.TrimSpace(in.Symbol) == "" {
		return nil, out, fmt.Errorf("%w: symbol is required", domain.ErrValidation)
	}

	contract, err := s.cache.LookupContract(ctx, in.Symbol)
	if err != nil {
		return nil, out, err
	}

	end := time.Now().UTC()
	bars, err := s.client.RetrieveBars(ctx, domain.BarQuery{
		ContractID: contract.ID,
		StartTime:  end.Add(-snapshotWindow),
		EndTime:    end,
		Type:       domain.BarType1Min,
	})
	if err != nil {
		return nil, out, err
	}
	if len(bars) == 0 {
		return nil, out, fmt.Errorf("%w: no recent bars for %s", domain.ErrNotFound, contract.Symbol)
	}

	latest := bars[0]
	for _, bar := range bars[1:] {
		if bar.Timestamp.After(latest.Timestamp) {
			latest = bar
		}
	}
	return nil, getMarketDataOutput{
		Symbol:     contract.Symbol,
		ContractID: contract.ID,
		Price:      latest.Close,
		Open:       latest.Open,
		High:       latest.High,
		Low:        latest.Low,
		Close:      latest.Close,
		Volume:     latest.Volume,
		Timestamp:  latest.Timestamp,
	}, nil
}

func parseRFC3339(field, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required", domain.ErrValidation, field)
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be RFC 3339, got %q", domain.ErrValidation, field, value)
	}
	return t, nil
}
