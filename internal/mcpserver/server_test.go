package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeforgeio/projectx-mcp/internal/platform/projectx"
	"github.com/tradeforgeio/projectx-mcp/internal/refdata"
)

// gatewayCounter counts requests per path so tests can assert exactly how
// many remote calls a handler made.
type gatewayCounter struct {
	mu    sync.Mutex
	calls map[string]int
}

func (g *gatewayCounter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		g.calls[r.URL.Path]++
		g.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (g *gatewayCounter) count(path string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[path]
}

// remoteCalls counts every API call, login excluded.
func (g *gatewayCounter) remoteCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	total := 0
	for path, n := range g.calls {
		if path == "/Auth/loginKey" {
			continue
		}
		total += n
	}
	return total
}

// newTestEnv builds a Server wired to a fake gateway. configure installs
// the API handlers a test needs; login always succeeds.
func newTestEnv(t *testing.T, configure func(mux *http.ServeMux)) (*Server, *gatewayCounter) {
	t.Helper()

	counter := &gatewayCounter{calls: make(map[string]int)}
	mux := http.NewServeMux()
	mux.HandleFunc("/Auth/loginKey", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"token": "tok-test", "success": true}`))
	})
	if configure != nil {
		configure(mux)
	}
	httpServer := httptest.NewServer(counter.middleware(mux))
	t.Cleanup(httpServer.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	session := projectx.NewSession(projectx.SessionConfig{
		BaseURL:  httpServer.URL,
		Username: "trader",
		APIKey:   "key-123",
	}, logger)
	client := projectx.NewClient(projectx.ClientConfig{BaseURL: httpServer.URL}, session, logger)
	cache := refdata.NewCache(client, []string{"MES"}, logger)

	return New(Config{Version: "test"}, cache, client, logger), counter
}

// withReferenceData installs account and contract search handlers. The
// contract search answers any symbol with a single matching contract whose
// ID is CON.F.US.<SYMBOL>.U25.
func withReferenceData(mux *http.ServeMux) {
	mux.HandleFunc("/Account/search", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"accounts": [
				{"id": 1001, "name": "PRAC-1", "balance": 50000.0, "canTrade": true, "isVisible": true, "simulated": true},
				{"id": 2002, "name": "EXPRESS-2", "balance": 2500.0, "canTrade": true, "isVisible": true, "simulated": false}
			],
			"success": true
		}`))
	})
	mux.HandleFunc("/Contract/search", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SearchText string `json:"searchText"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		symbol := strings.ToUpper(strings.TrimSpace(req.SearchText))
		fmt.Fprintf(w, `{
			"contracts": [
				{"id": "CON.F.US.%s.U25", "symbol": "%s", "name": "%sU25",
				 "description": "%s future", "exchange": "CME",
				 "tickSize": 0.25, "pointValue": 5, "activeContract": true}
			],
			"success": true
		}`, symbol, symbol, symbol, symbol)
	})
}

func refresh(t *testing.T, s *Server) {
	t.Helper()
	outcome := s.cache.Refresh(context.Background())
	require.Equal(t, refdata.RefreshSuccess, outcome.Status())
}

func TestResolveAccountID(t *testing.T) {
	s, _ := newTestEnv(t, withReferenceData)

	_, err := s.resolveAccountID(nil)
	require.Error(t, err, "empty cache has no default account")

	refresh(t, s)

	id, err := s.resolveAccountID(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1001), id, "default is the first account in gateway order")

	explicit := int64(7777)
	id, err = s.resolveAccountID(&explicit)
	require.NoError(t, err)
	assert.Equal(t, int64(7777), id, "an explicit account passes through")
}
