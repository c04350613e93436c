// Package projectx provides the REST client for the ProjectX futures
// gateway: session management, the authenticated request path, and typed
// wrappers for the endpoints the server uses.
package projectx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/tradeforgeio/projectx-mcp/internal/domain"
)

const (
	// tokenTTL is how long an issued token is trusted. The gateway does not
	// report an expiry, so sessions renew on this fixed schedule.
	tokenTTL = 24 * time.Hour

	// loginTimeout bounds the login round trip.
	loginTimeout = 10 * time.Second
)

// SessionConfig carries what a Session needs to authenticate.
type SessionConfig struct {
	BaseURL  string
	Username string
	APIKey   string

	// HTTPClient overrides the default login client.
	HTTPClient *http.Client
	// Now overrides the session clock.
	Now func() time.Time
}

// Session owns the gateway credentials and the current bearer token. It is
// safe for concurrent use; login is serialized, so callers racing into an
// expired token wait for one authentication instead of issuing duplicates.
type Session struct {
	baseURL    string
	username   string
	apiKey     string
	httpClient *http.Client
	now        func() time.Time
	logger     *slog.Logger

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewSession creates a Session for the given gateway.
func NewSession(cfg SessionConfig, logger *slog.Logger) *Session {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: loginTimeout}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Session{
		baseURL:    cfg.BaseURL,
		username:   cfg.Username,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		now:        now,
		logger:     logger.With(slog.String("component", "session")),
	}
}

// Token returns a valid bearer token, logging in when none is held or the
// held one has expired. Missing credentials fail without a network call.
func (s *Session) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.username == "" || s.apiKey == "" {
		return "", fmt.Errorf("%w: username and API key are required", domain.ErrAuthentication)
	}
	if s.token != "" && s.now().Before(s.expiry) {
		return s.token, nil
	}
	return s.login(ctx)
}

// Invalidate discards the held token. The next Token call re-authenticates.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.expiry = time.Time{}
}

// login performs the key-based authentication call. The caller must hold mu.
func (s *Session) login(ctx context.Context) (string, error) {
	payload, err := json.Marshal(loginRequest{UserName: s.username, APIKey: s.apiKey})
	if err != nil {
		return "", fmt.Errorf("projectx: marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/Auth/loginKey", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("projectx: create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: login request: %v", domain.ErrAuthentication, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read login response: %v", domain.ErrAuthentication, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: login failed (HTTP %d): %s", domain.ErrAuthentication, resp.StatusCode, string(body))
	}

	var lr loginResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return "", fmt.Errorf("%w: decode login response: %v", domain.ErrAuthentication, err)
	}
	if !lr.Success || lr.Token == "" {
		msg := lr.ErrorMessage
		if msg == "" {
			msg = fmt.Sprintf("gateway rejected credentials (code %d)", lr.ErrorCode)
		}
		return "", fmt.Errorf("%w: %s", domain.ErrAuthentication, msg)
	}

	s.token = lr.Token
	s.expiry = s.now().Add(tokenTTL)
	s.logger.InfoContext(ctx, "authenticated with gateway",
		slog.String("username", s.username),
		slog.Time("token_expiry", s.expiry),
	)
	return s.token, nil
}
