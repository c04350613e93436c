package projectx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/tradeforgeio/projectx-mcp/internal/domain"
)

// requestTimeout bounds every authenticated gateway call.
const requestTimeout = 30 * time.Second

// ClientConfig carries gateway connection parameters.
type ClientConfig struct {
	BaseURL string

	// HTTPClient overrides the default request client.
	HTTPClient *http.Client
}

// Client is the single entry point for authenticated gateway calls. Every
// request carries the session's bearer token; a 401 response invalidates the
// session, re-authenticates, and retries the call exactly once.
type Client struct {
	baseURL    string
	session    *Session
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a gateway client bound to the given session.
func NewClient(cfg ClientConfig, session *Session, logger *slog.Logger) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		session:    session,
		httpClient: httpClient,
		logger:     logger.With(slog.String("component", "gateway")),
	}
}

// CloseIdleConnections releases pooled gateway connections. Called on
// shutdown.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// Request sends one authenticated call and returns the normalized response
// payload. Envelope failures ({"success": false}) surface as ErrRequest; a
// second 401 after re-authentication surfaces as ErrUnauthorized.
func (c *Client) Request(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	raw, err := c.do(ctx, method, path, body)
	if errors.Is(err, domain.ErrUnauthorized) {
		c.logger.WarnContext(ctx, "gateway returned 401, re-authenticating",
			slog.String("path", path),
		)
		c.session.Invalidate()
		raw, err = c.do(ctx, method, path, body)
	}
	if err != nil {
		return nil, err
	}
	return normalizeEnvelope(raw)
}

// do builds, sends, and reads one HTTP request, acquiring a session token
// first. It returns the raw response body.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	token, err := c.session.Token(ctx)
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("projectx: marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("projectx: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrRequest, method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrRequest, err)
	}

	if err := checkHTTPStatus(resp.StatusCode, respBody); err != nil {
		return nil, err
	}
	return respBody, nil
}

// checkHTTPStatus maps non-2xx status codes to domain errors. Only 401 maps
// to ErrUnauthorized; it is the trigger for the single re-auth retry.
func checkHTTPStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	switch statusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, string(body))
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, string(body))
	default:
		return fmt.Errorf("%w: HTTP %d: %s", domain.ErrRequest, statusCode, string(body))
	}
}

// normalizeEnvelope unwraps the gateway's {success, data?, errorMessage?}
// envelope. Responses without a success field (and non-object payloads) pass
// through unchanged; a data field replaces the envelope when present.
func normalizeEnvelope(body []byte) (json.RawMessage, error) {
	var env struct {
		Success      *bool           `json:"success"`
		Data         json.RawMessage `json:"data"`
		ErrorCode    int             `json:"errorCode"`
		ErrorMessage string          `json:"errorMessage"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return body, nil
	}
	if env.Success == nil {
		return body, nil
	}
	if !*env.Success {
		msg := env.ErrorMessage
		if msg == "" {
			msg = fmt.Sprintf("gateway reported failure (code %d)", env.ErrorCode)
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrRequest, msg)
	}
	if len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		return env.Data, nil
	}
	return body, nil
}
