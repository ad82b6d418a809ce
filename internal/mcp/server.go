package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/downtime/internal/chat"
	"github.com/rpggio/downtime/internal/config"
	"github.com/rpggio/downtime/internal/domain/history"
	"github.com/rpggio/downtime/internal/domain/planner"
	"github.com/rpggio/downtime/internal/locale"
	"github.com/rpggio/downtime/internal/repository"
)

// PlannerService opens planner sessions for a user.
type PlannerService interface {
	Open(ctx context.Context, userID string, host planner.Host) (*planner.Session, error)
}

// HistoryService defines history operations needed by MCP.
type HistoryService interface {
	Recent(ctx context.Context, userID string, opts history.ListOptions) ([]history.Entry, error)
}

// ChatLog lists posted reports.
type ChatLog interface {
	List(ctx context.Context, opts repository.ListChatOptions) ([]chat.Message, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Planner PlannerService
	History HistoryService
	ChatLog ChatLog
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      UserResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	Catalog       *locale.Catalog
	Version       string
	Logger        *slog.Logger
}

// DefaultUser is the user every request runs as when auth is disabled.
const DefaultUser = "default"

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "0.1.0"
	}
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "downtime",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	catalog := cfg.Catalog
	if catalog == nil {
		catalog = locale.Default()
	}
	registerRuleResources(server, catalog)

	// Stdio is local only, so auth never applies there.
	if cfg.TransportMode != config.TransportStdio && cfg.AuthEnabled {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	} else {
		server.AddReceivingMiddleware(noAuthMiddleware(DefaultUser))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, &tools{services: cfg.Services, catalog: catalog, logger: cfg.Logger})

	return server
}
