// Package mcpserver exposes the gateway as MCP tools and resources served
// over stdio. Handlers return errors; the SDK converts them into isError
// tool results, so a bad call never takes the serve loop down.
package mcpserver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tradeforgeio/projectx-mcp/internal/domain"
	"github.com/tradeforgeio/projectx-mcp/internal/platform/projectx"
	"github.com/tradeforgeio/projectx-mcp/internal/refdata"
)

const serverName = "projectx-mcp"

// Config carries the server identity reported to MCP clients.
type Config struct {
	Version string
}

// Server wires the tool and resource handlers to an MCP server instance.
type Server struct {
	mcp    *mcp.Server
	cache  *refdata.Cache
	client *projectx.Client
	logger *slog.Logger
}

// New builds the MCP server and registers every tool and resource.
func New(cfg Config, cache *refdata.Cache, client *projectx.Client, logger *slog.Logger) *Server {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	s := &Server{
		cache:  cache,
		client: client,
		logger: logger.With(slog.String("component", "mcp")),
	}
	s.mcp = mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil)

	s.registerAccountTools()
	s.registerContractTools()
	s.registerOrderTools()
	s.registerPositionTools()
	s.registerMarketDataTools()
	s.registerResources()

	return s
}

// Run serves MCP over stdio until the context ends. stdout carries the
// protocol; logging must go to stderr.
func (s *Server) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "serving MCP over stdio", slog.String("server", serverName))
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// resolveAccountID picks the explicit account when given and falls back to
// the cache's default account.
func (s *Server) resolveAccountID(explicit *int64) (int64, error) {
	if explicit != nil {
		return *explicit, nil
	}
	id, ok := s.cache.DefaultAccountID()
	if !ok {
		return 0, fmt.Errorf("%w: no account available", domain.ErrNotFound)
	}
	return id, nil
}
