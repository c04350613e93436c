package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tradeforgeio/projectx-mcp/internal/config"
	"github.com/tradeforgeio/projectx-mcp/internal/mcpserver"
	"github.com/tradeforgeio/projectx-mcp/internal/platform/projectx"
	"github.com/tradeforgeio/projectx-mcp/internal/refdata"
	"github.com/tradeforgeio/projectx-mcp/internal/secrets"
)

// Dependencies bundles everything the application modes need to operate. It is
// constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Session   *projectx.Session
	Gateway   *projectx.Client
	Cache     *refdata.Cache
	Refresher *refdata.Refresher
	Server    *mcpserver.Server
}

// Wire constructs the dependency graph from the given configuration and
// returns it together with a cleanup function to call on shutdown. Nothing
// here touches the network; the first gateway call happens when a mode
// authenticates the session.
func Wire(ctx context.Context, cfg *config.Config) (*Dependencies, func(), error) {
	logger := slog.Default()

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	apiKey, err := secrets.LoadAPIKey(secrets.KeySource{
		RawKey:           cfg.ProjectX.APIKey,
		EncryptedKeyPath: cfg.ProjectX.APIKeyFile,
		KeyPassword:      cfg.ProjectX.APIKeyPassword,
	})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: api key: %w", err)
	}

	baseURL := cfg.ProjectX.ResolveBaseURL()

	session := projectx.NewSession(projectx.SessionConfig{
		BaseURL:  baseURL,
		Username: cfg.ProjectX.Username,
		APIKey:   apiKey,
	}, logger)

	gateway := projectx.NewClient(projectx.ClientConfig{BaseURL: baseURL}, session, logger)
	closers = append(closers, gateway.CloseIdleConnections)

	cache := refdata.NewCache(gateway, cfg.Cache.Symbols, logger)
	refresher := refdata.NewRefresher(cache, logger)

	server := mcpserver.New(mcpserver.Config{Version: Version}, cache, gateway, logger)

	return &Dependencies{
		Session:   session,
		Gateway:   gateway,
		Cache:     cache,
		Refresher: refresher,
		Server:    server,
	}, cleanup, nil
}
