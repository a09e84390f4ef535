package mcp

import (
	"log/slog"

	"github.com/claude/coachplan/internal/render"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, renderer *render.Service, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("CoachPlan", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("CoachPlan workout plan server. List clients and plans, read a plan, see the effective prescription for any week, and preview how a plan paginates in each print style."),
	)

	h := &handlers{ds: ds, renderer: renderer, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListClients, Handler: h.listClients},
		server.ServerTool{Tool: toolListPlans, Handler: h.listPlans},
		server.ServerTool{Tool: toolGetPlan, Handler: h.getPlan},
		server.ServerTool{Tool: toolResolveWeek, Handler: h.resolveWeek},
		server.ServerTool{Tool: toolPaginatePlan, Handler: h.paginatePlan},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resStats, Handler: h.stats},
		server.ServerResource{Resource: resStyles, Handler: h.styles},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds       DataSource
	renderer *render.Service
	log      *slog.Logger
}

// --- Resource definitions ---

var resStats = mcp.NewResource(
	"coachplan://stats",
	"Library Stats",
	mcp.WithResourceDescription("Counts of clients, plans, exercises and tools, plus plans per goal"),
	mcp.WithMIMEType("application/json"),
)

var resStyles = mcp.NewResource(
	"coachplan://styles",
	"Print Styles",
	mcp.WithResourceDescription("Available document styles with page size, orientation and column budget"),
	mcp.WithMIMEType("application/json"),
)
