package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// SessionTimeout closes idle streamable HTTP sessions.
const SessionTimeout = 30 * time.Minute

// Options configures the HTTP router. MCP is required; the rest are optional.
type Options struct {
	MCP     http.Handler
	Metrics http.Handler
	Auth    func(http.Handler) http.Handler
	Logger  *slog.Logger
}

// NewMCPHandler serves server over the streamable HTTP transport.
func NewMCPHandler(server *sdkmcp.Server) http.Handler {
	return sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: SessionTimeout,
		},
	)
}

// NewServer creates an HTTP router. Only the MCP endpoint is authenticated.
func NewServer(opts Options) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(SessionMiddleware)
	if opts.Logger != nil {
		r.Use(RequestLogger(opts.Logger))
	}

	r.Get("/health", handleHealth)
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics)
	}

	r.Group(func(r chi.Router) {
		if opts.Auth != nil {
			r.Use(opts.Auth)
		}
		r.Handle("/mcp", opts.MCP)
		r.Handle("/mcp/*", opts.MCP)
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
