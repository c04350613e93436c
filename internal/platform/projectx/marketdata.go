package projectx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/tradeforgeio/projectx-mcp/internal/domain"
)

// RetrieveBars fetches historical candles for the query window. Bars come
// back in gateway order, newest first.
func (c *Client) RetrieveBars(ctx context.Context, query domain.BarQuery) ([]domain.Bar, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("projectx: retrieve bars: %w", err)
	}

	unit, unitNumber := query.Type.Wire()
	req := retrieveBarsRequest{
		ContractID: query.ContractID,
		StartTime:  query.StartTime.UTC().Format(time.RFC3339),
		EndTime:    query.EndTime.UTC().Format(time.RFC3339),
		Unit:       unit,
		UnitNumber: unitNumber,
	}
	payload, err := c.Request(ctx, http.MethodPost, "/MarketData/retrieve-bars", req)
	if err != nil {
		return nil, fmt.Errorf("projectx: retrieve bars: %w", err)
	}

	var res struct {
		Bars []APIBar `json:"bars"`
	}
	if err := json.Unmarshal(payload, &res); err != nil {
		return nil, fmt.Errorf("projectx: decode bars: %w", err)
	}

	bars := make([]domain.Bar, 0, len(res.Bars))
	for i := range res.Bars {
		bars = append(bars, res.Bars[i].ToDomain())
	}
	return bars, nil
}
