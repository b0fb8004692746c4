package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("GymLog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("GymLog workout tracker. Log weight/rep sets, browse set history, and read exercise progression data. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolLogSet, Handler: h.logSet},
		server.ServerTool{Tool: toolGetRecentSets, Handler: h.getRecentSets},
		server.ServerTool{Tool: toolGetProgression, Handler: h.getProgression},
		server.ServerTool{Tool: toolGetHistory, Handler: h.getHistory},
	)

	s.AddResources(
		server.ServerResource{Resource: resRecentHistory, Handler: h.recentHistory},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resRecentHistory = mcp.NewResource(
	"gymlog://recent_history",
	"Recent Training History",
	mcp.WithResourceDescription("Logged sets from the last 30 days, grouped by day with total volume"),
	mcp.WithMIMEType("application/json"),
)
