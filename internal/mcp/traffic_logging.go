package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// maxTracedPayload caps how much of a request or result is written to the
// debug log. Invoice results with long timesheets are otherwise unreadable.
const maxTracedPayload = 2048

// untracedMethods are skipped: they fire constantly and carry nothing useful.
var untracedMethods = map[string]bool{
	"ping":                      true,
	"notifications/initialized": true,
	"notifications/progress":    true,
}

// trafficLoggingMiddleware writes request and result payloads at debug level.
func trafficLoggingMiddleware(logger *slog.Logger, direction string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if untracedMethods[method] || !logger.Enabled(ctx, slog.LevelDebug) {
				return next(ctx, method, req)
			}

			sessionID := getSessionID(ctx)
			if sessionID == "" {
				sessionID = safeSessionID(req)
			}
			log := logger.With("direction", direction, "method", method, "session_id", sessionID)
			log.DebugContext(ctx, "mcp request", "params", tracePayload(safeParams(req)))

			result, err := next(ctx, method, req)
			if strings.HasPrefix(method, "notifications/") {
				return result, err
			}
			if err != nil {
				log.DebugContext(ctx, "mcp response", "error", err)
			} else {
				log.DebugContext(ctx, "mcp response", "result", tracePayload(result))
			}
			return result, err
		}
	}
}

// safeSessionID returns the request's session ID. Requests built outside a
// live session panic on access, so the lookups recover.
func safeSessionID(req sdkmcp.Request) (id string) {
	if req == nil {
		return ""
	}
	defer func() {
		if recover() != nil {
			id = ""
		}
	}()
	if session := req.GetSession(); session != nil {
		return session.ID()
	}
	return ""
}

func safeParams(req sdkmcp.Request) (params any) {
	if req == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			params = nil
		}
	}()
	return req.GetParams()
}

func tracePayload(payload any) string {
	if payload == nil {
		return "<nil>"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%T", payload)
	}
	if len(data) > maxTracedPayload {
		return fmt.Sprintf("%s... (%d bytes)", data[:maxTracedPayload], len(data))
	}
	return string(data)
}
