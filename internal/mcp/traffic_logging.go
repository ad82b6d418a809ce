package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// maxLoggedPayload caps each logged params or result body.
const maxLoggedPayload = 2048

// trafficLoggingMiddleware logs every MCP request and response at debug.
func trafficLoggingMiddleware(logger *slog.Logger, direction string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if logger == nil || !logger.Enabled(ctx, slog.LevelDebug) {
				return next(ctx, method, req)
			}

			log := logger.With(
				"direction", direction,
				"method", method,
				"session_id", requestSessionID(req),
				"user_id", getUserID(ctx),
			)
			log.Debug("mcp request", "params", payloadString(requestParams(req)))

			start := time.Now()
			result, err := next(ctx, method, req)
			if strings.HasPrefix(method, "notifications/") {
				return result, err
			}

			attrs := []any{"elapsed", time.Since(start), "result", payloadString(result)}
			if err != nil {
				attrs = append(attrs, "error", err)
			}
			log.Debug("mcp response", attrs...)
			return result, err
		}
	}
}

// requestSessionID tolerates requests whose session is not set yet.
func requestSessionID(req sdkmcp.Request) (id string) {
	defer func() {
		if recover() != nil {
			id = ""
		}
	}()
	if req == nil {
		return ""
	}
	if session := req.GetSession(); session != nil {
		return session.ID()
	}
	return ""
}

func requestParams(req sdkmcp.Request) (params any) {
	defer func() {
		if recover() != nil {
			params = nil
		}
	}()
	if req == nil {
		return nil
	}
	return req.GetParams()
}

func payloadString(payload any) string {
	if payload == nil {
		return "<nil>"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%T", payload)
	}
	if len(data) > maxLoggedPayload {
		return string(data[:maxLoggedPayload]) + "..."
	}
	return string(data)
}
