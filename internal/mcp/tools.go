package mcp

import (
	"context"
	"errors"

	"github.com/claude/coachplan/internal/plan"
	"github.com/claude/coachplan/internal/render"
	"github.com/claude/coachplan/internal/storage"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolListClients = mcp.NewTool("list_clients",
	mcp.WithDescription("List all clients with their ids, names and contact notes."),
)

var toolListPlans = mcp.NewTool("list_plans",
	mcp.WithDescription("List workout plans, newest first. Returns id, title, client, goal, duration and last update."),
	mcp.WithString("client_id", mcp.Description("Only plans for this client id")),
)

var toolGetPlan = mcp.NewTool("get_plan",
	mcp.WithDescription("Get the full workout plan document: sessions, warmup/main/cooldown sections, exercise rows, groupings and weekly progressions."),
	mcp.WithString("plan_id", mcp.Required(), mcp.Description("Plan id (UUID)")),
)

var toolResolveWeek = mcp.NewTool("resolve_week",
	mcp.WithDescription("Show the effective prescription for one week of a plan. Each row's weekly overrides are applied to its base values, and supersets, trisets, circuits and dropsets are grouped and labeled (A1, A2, ...)."),
	mcp.WithString("plan_id", mcp.Required(), mcp.Description("Plan id (UUID)")),
	mcp.WithNumber("week", mcp.Required(), mcp.Description("Week number, 1 to the plan's duration")),
)

var toolPaginatePlan = mcp.NewTool("paginate_plan",
	mcp.WithDescription("Preview how a plan paginates when printed: page count, page size and which exercise units land on which page. Nothing is drawn."),
	mcp.WithString("plan_id", mcp.Required(), mcp.Description("Plan id (UUID)")),
	mcp.WithString("style", mcp.Description("Document style. Defaults to compact."), mcp.Enum("compact", "landscape", "enhanced")),
	mcp.WithString("weeks", mcp.Description("Comma separated weeks to print (e.g. '1,2,3'). Defaults to every week.")),
)

// --- Tool handlers ---

func (h *handlers) listClients(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clients, err := h.ds.ListClients(ctx)
	if err != nil {
		h.log.Error("mcp list_clients", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(clients)
}

func (h *handlers) listPlans(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plans, err := h.ds.ListPlans(ctx, req.GetString("client_id", ""))
	if err != nil {
		h.log.Error("mcp list_plans", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(plans)
}

func (h *handlers) getPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, errResult := h.loadPlan(ctx, req)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(p)
}

func (h *handlers) resolveWeek(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	week, err := req.RequireInt("week")
	if err != nil {
		return mcp.NewToolResultError("week parameter is required"), nil
	}
	p, errResult := h.loadPlan(ctx, req)
	if errResult != nil {
		return errResult, nil
	}
	if err := plan.Validate(p); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rp, err := render.Resolve(p, render.Input{Tools: h.toolNames(ctx), Weeks: []int{week}})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(rp)
}

func (h *handlers) paginatePlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weeks, err := render.ParseWeeks(req.GetString("weeks", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, errResult := h.loadPlan(ctx, req)
	if errResult != nil {
		return errResult, nil
	}

	doc, err := h.renderer.Layout(ctx, render.Request{
		Plan:  p,
		Tools: h.toolNames(ctx),
		Weeks: weeks,
		Style: render.Style(req.GetString("style", string(render.StyleCompact))),
	})
	if err != nil {
		if errors.Is(err, plan.ErrInvalidPlan) || errors.Is(err, render.ErrInvalidInput) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		h.log.Error("mcp paginate_plan", "plan_id", p.ID, "error", err)
		return mcp.NewToolResultError("could not paginate plan"), nil
	}
	return jsonResult(doc.Summary())
}

func (h *handlers) loadPlan(ctx context.Context, req mcp.CallToolRequest) (plan.WorkoutPlan, *mcp.CallToolResult) {
	raw, err := req.RequireString("plan_id")
	if err != nil {
		return plan.WorkoutPlan{}, mcp.NewToolResultError("plan_id parameter is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return plan.WorkoutPlan{}, mcp.NewToolResultError("plan_id is not a valid UUID")
	}
	p, err := h.ds.GetPlan(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return plan.WorkoutPlan{}, mcp.NewToolResultError("plan not found")
		}
		h.log.Error("mcp load plan", "plan_id", id, "error", err)
		return plan.WorkoutPlan{}, mcp.NewToolResultError("query failed: " + err.Error())
	}
	return p, nil
}

// toolNames returns the tool library labels, or nil so rows keep their
// stored names.
func (h *handlers) toolNames(ctx context.Context) map[string]string {
	names, err := h.ds.ToolNames(ctx)
	if err != nil {
		h.log.Warn("mcp tool lookup failed", "error", err)
		return nil
	}
	return names
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
