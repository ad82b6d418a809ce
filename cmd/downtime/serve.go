package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/downtime/internal/config"
	"github.com/rpggio/downtime/internal/locale"
	"github.com/rpggio/downtime/internal/mcp"
	"github.com/rpggio/downtime/internal/transport"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func serveCmd() *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdio or HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			if mode != "" {
				a.cfg.Transport.Mode = mode
				if err := a.cfg.Validate(); err != nil {
					return err
				}
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&mode, "transport", "", "stdio or http (overrides config)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	svc, err := a.newServices()
	if err != nil {
		return err
	}

	server := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Planner: svc.planner,
			History: svc.history,
			ChatLog: svc.chatLog,
		},
		Resolver:      svc.apiKeys,
		AuthEnabled:   a.cfg.Auth.Enabled,
		TransportMode: a.cfg.Transport.Mode,
		Catalog:       locale.Default(),
		Version:       Version,
		Logger:        a.logger,
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if a.cfg.Transport.Mode == config.TransportStdio {
		return runStdio(ctx, a.logger, server)
	}

	opts := transport.Options{
		MCP:    transport.NewMCPHandler(server),
		Logger: a.logger,
	}
	if svc.recorder != nil {
		opts.Metrics = svc.recorder.Handler()
	}
	if a.cfg.Auth.Enabled {
		opts.Auth = transport.AuthMiddleware(svc.apiKeys)
	}
	return runHTTP(ctx, a.logger, a.cfg.Addr(), transport.NewServer(opts))
}

func runStdio(ctx context.Context, logger *slog.Logger, server *sdkmcp.Server) error {
	logger.Info("starting stdio transport", "auth", "disabled")
	if err := server.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("shutting down")
	return nil
}

func runHTTP(ctx context.Context, logger *slog.Logger, addr string, handler http.Handler) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("shutting down")
	return httpServer.Shutdown(shutdownCtx)
}
