package projectx

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradeforgeio/projectx-mcp/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSessionToken_LoginAndCache(t *testing.T) {
	var loginCalls int
	var captured loginRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/Auth/loginKey", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		loginCalls++
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(loginResponse{Token: "tok-abc", Success: true})
	}))
	defer server.Close()

	session := NewSession(SessionConfig{
		BaseURL:  server.URL,
		Username: "trader",
		APIKey:   "key-123",
	}, testLogger())

	token, err := session.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", token)
	assert.Equal(t, "trader", captured.UserName)
	assert.Equal(t, "key-123", captured.APIKey)

	// Second call reuses the cached token.
	token, err = session.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", token)
	assert.Equal(t, 1, loginCalls)
}

func TestSessionToken_MissingCredentials(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	session := NewSession(SessionConfig{BaseURL: server.URL}, testLogger())

	_, err := session.Token(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthentication)
	assert.Equal(t, 0, calls, "missing credentials must not hit the gateway")
}

func TestSessionToken_GatewayRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(loginResponse{
			Success:      false,
			ErrorCode:    3,
			ErrorMessage: "invalid credentials",
		})
	}))
	defer server.Close()

	session := NewSession(SessionConfig{
		BaseURL:  server.URL,
		Username: "trader",
		APIKey:   "wrong",
	}, testLogger())

	_, err := session.Token(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthentication)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestSessionToken_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	session := NewSession(SessionConfig{
		BaseURL:  server.URL,
		Username: "trader",
		APIKey:   "key-123",
	}, testLogger())

	_, err := session.Token(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthentication)
}

func TestSessionToken_ReauthenticatesAfterExpiry(t *testing.T) {
	var loginCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		loginCalls++
		json.NewEncoder(w).Encode(loginResponse{Token: "tok-abc", Success: true})
	}))
	defer server.Close()

	current := time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC)
	session := NewSession(SessionConfig{
		BaseURL:  server.URL,
		Username: "trader",
		APIKey:   "key-123",
		Now:      func() time.Time { return current },
	}, testLogger())

	_, err := session.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, loginCalls)

	// Still inside the 24h window.
	current = current.Add(23 * time.Hour)
	_, err = session.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, loginCalls)

	// Past the window the session logs in again.
	current = current.Add(2 * time.Hour)
	_, err = session.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, loginCalls)
}

func TestSessionInvalidate(t *testing.T) {
	var loginCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		loginCalls++
		json.NewEncoder(w).Encode(loginResponse{Token: "tok-abc", Success: true})
	}))
	defer server.Close()

	session := NewSession(SessionConfig{
		BaseURL:  server.URL,
		Username: "trader",
		APIKey:   "key-123",
	}, testLogger())

	_, err := session.Token(context.Background())
	require.NoError(t, err)

	session.Invalidate()

	_, err = session.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, loginCalls)
}
