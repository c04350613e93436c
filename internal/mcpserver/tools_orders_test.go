package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeforgeio/projectx-mcp/internal/domain"
)

func float64Ptr(v float64) *float64 { return &v }
func intPtr(v int) *int             { return &v }

// capturePath decodes each request body for path into a fresh map and
// returns a getter for the last one.
func capturePath(mux *http.ServeMux, path, response string) func() map[string]any {
	var captured map[string]any
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		captured = map[string]any{}
		json.NewDecoder(r.Body).Decode(&captured)
		w.Write([]byte(response))
	})
	return func() map[string]any { return captured }
}

func TestPlaceOrder_ShapesLimitOrder(t *testing.T) {
	var lastOrder func() map[string]any
	s, counter := newTestEnv(t, func(mux *http.ServeMux) {
		withReferenceData(mux)
		lastOrder = capturePath(mux, "/Order/place", `{"orderId": 9001, "success": true}`)
	})
	refresh(t, s)

	_, out, err := s.handlePlaceOrder(context.Background(), nil, placeOrderInput{
		Symbol:      "MES",
		Side:        "Buy",
		Quantity:    2,
		OrderType:   "Limit",
		Price:       float64Ptr(5000.25),
		TimeInForce: "GTC",
	})
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.Equal(t, int64(9001), out.OrderID)
	assert.NotEmpty(t, out.CustomTag, "every order gets a fresh custom tag")

	body := lastOrder()
	assert.Equal(t, float64(1001), body["accountId"], "account defaults to the first cached account")
	assert.Equal(t, "CON.F.US.MES.U25", body["contractId"], "symbol resolves from the cache")
	assert.Equal(t, float64(1), body["type"])
	assert.Equal(t, float64(0), body["side"])
	assert.Equal(t, float64(2), body["size"])
	assert.Equal(t, 5000.25, body["limitPrice"])
	assert.Equal(t, float64(1), body["timeInForce"])
	assert.Equal(t, out.CustomTag, body["customTag"])

	assert.Equal(t, 1, counter.count("/Contract/search"), "a cached symbol is not searched again")
}

func TestPlaceOrder_MarketDefaults(t *testing.T) {
	var lastOrder func() map[string]any
	s, _ := newTestEnv(t, func(mux *http.ServeMux) {
		withReferenceData(mux)
		lastOrder = capturePath(mux, "/Order/place", `{"orderId": 9002, "success": true}`)
	})
	refresh(t, s)

	_, _, err := s.handlePlaceOrder(context.Background(), nil, placeOrderInput{
		Symbol:   "MES",
		Side:     "sell",
		Quantity: 1,
	})
	require.NoError(t, err)

	body := lastOrder()
	assert.Equal(t, float64(2), body["type"], "omitted orderType means Market")
	assert.Equal(t, float64(1), body["side"])
	assert.Equal(t, float64(0), body["timeInForce"], "omitted timeInForce means Day")
	assert.NotContains(t, body, "limitPrice")
	assert.NotContains(t, body, "stopPrice")
}

func TestPlaceOrder_ValidationBeforeAnyRemoteCall(t *testing.T) {
	tests := []struct {
		name string
		in   placeOrderInput
	}{
		{"missing symbol", placeOrderInput{Side: "Buy", Quantity: 1}},
		{"bad side", placeOrderInput{Symbol: "MES", Side: "Hold", Quantity: 1}},
		{"bad order type", placeOrderInput{Symbol: "MES", Side: "Buy", Quantity: 1, OrderType: "Trailing"}},
		{"bad time in force", placeOrderInput{Symbol: "MES", Side: "Buy", Quantity: 1, TimeInForce: "GTD"}},
		{"zero quantity", placeOrderInput{Symbol: "MES", Side: "Buy", Quantity: 0}},
		{"limit without price", placeOrderInput{Symbol: "MES", Side: "Buy", Quantity: 1, OrderType: "Limit"}},
		{"stop without stop price", placeOrderInput{Symbol: "MES", Side: "Buy", Quantity: 1, OrderType: "Stop"}},
		{"stop-limit without stop price", placeOrderInput{Symbol: "MES", Side: "Buy", Quantity: 1, OrderType: "StopLimit", Price: float64Ptr(5000)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, counter := newTestEnv(t, withReferenceData)

			_, _, err := s.handlePlaceOrder(context.Background(), nil, tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, 0, counter.remoteCalls(), "validation must fail before any remote call")
		})
	}
}

func TestPlaceOrder_NoAccountAvailable(t *testing.T) {
	s, counter := newTestEnv(t, withReferenceData)
	// No refresh: the cache is empty.

	_, _, err := s.handlePlaceOrder(context.Background(), nil, placeOrderInput{
		Symbol:   "MES",
		Side:     "Buy",
		Quantity: 1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, counter.count("/Order/place"))
}

func TestModifyOrder(t *testing.T) {
	var lastModify func() map[string]any
	s, _ := newTestEnv(t, func(mux *http.ServeMux) {
		withReferenceData(mux)
		lastModify = capturePath(mux, "/Order/modify", `{"success": true}`)
	})
	refresh(t, s)

	_, out, err := s.handleModifyOrder(context.Background(), nil, modifyOrderInput{
		OrderID: 9001,
		Price:   float64Ptr(5002.75),
	})
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, int64(9001), out.OrderID)

	body := lastModify()
	assert.Equal(t, float64(1001), body["accountId"])
	assert.Equal(t, float64(9001), body["orderId"])
	assert.Equal(t, 5002.75, body["limitPrice"])
	assert.NotContains(t, body, "size")
	assert.NotContains(t, body, "stopPrice")
}

func TestModifyOrder_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   modifyOrderInput
	}{
		{"missing order id", modifyOrderInput{Price: float64Ptr(5000)}},
		{"no change requested", modifyOrderInput{OrderID: 9001}},
		{"zero quantity", modifyOrderInput{OrderID: 9001, Quantity: intPtr(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, counter := newTestEnv(t, withReferenceData)

			_, _, err := s.handleModifyOrder(context.Background(), nil, tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, 0, counter.remoteCalls())
		})
	}
}

func TestCancelOrder(t *testing.T) {
	var lastCancel func() map[string]any
	s, _ := newTestEnv(t, func(mux *http.ServeMux) {
		withReferenceData(mux)
		lastCancel = capturePath(mux, "/Order/cancel", `{"success": true}`)
	})
	refresh(t, s)

	_, out, err := s.handleCancelOrder(context.Background(), nil, cancelOrderInput{OrderID: 9001})
	require.NoError(t, err)
	assert.True(t, out.Success)

	body := lastCancel()
	assert.Equal(t, float64(1001), body["accountId"])
	assert.Equal(t, float64(9001), body["orderId"])
}

func TestCancelOrder_RequiresOrderID(t *testing.T) {
	s, counter := newTestEnv(t, withReferenceData)

	_, _, err := s.handleCancelOrder(context.Background(), nil, cancelOrderInput{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, counter.remoteCalls())
}

func TestClosePosition_Full(t *testing.T) {
	var lastClose func() map[string]any
	s, _ := newTestEnv(t, func(mux *http.ServeMux) {
		withReferenceData(mux)
		lastClose = capturePath(mux, "/Position/close-partial", `{"success": true}`)
	})
	refresh(t, s)

	_, out, err := s.handleClosePosition(context.Background(), nil, closePositionInput{Symbol: "MES"})
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, "CON.F.US.MES.U25", out.ContractID)
	assert.Equal(t, int64(1001), out.AccountID)
	assert.Nil(t, out.Quantity)

	body := lastClose()
	assert.Equal(t, "CON.F.US.MES.U25", body["contractId"])
	assert.NotContains(t, body, "size", "a full close sends no size")
}

func TestClosePosition_Partial(t *testing.T) {
	var lastClose func() map[string]any
	s, _ := newTestEnv(t, func(mux *http.ServeMux) {
		withReferenceData(mux)
		lastClose = capturePath(mux, "/Position/close-partial", `{"success": true}`)
	})
	refresh(t, s)

	_, out, err := s.handleClosePosition(context.Background(), nil, closePositionInput{
		Symbol:   "MES",
		Quantity: intPtr(2),
	})
	require.NoError(t, err)
	require.NotNil(t, out.Quantity)
	assert.Equal(t, 2, *out.Quantity)
	assert.Equal(t, float64(2), lastClose()["size"])
}

func TestClosePosition_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   closePositionInput
	}{
		{"missing symbol", closePositionInput{}},
		{"zero quantity", closePositionInput{Symbol: "MES", Quantity: intPtr(0)}},
		{"negative quantity", closePositionInput{Symbol: "MES", Quantity: intPtr(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, counter := newTestEnv(t, withReferenceData)

			_, _, err := s.handleClosePosition(context.Background(), nil, tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Equal(t, 0, counter.remoteCalls())
		})
	}
}
