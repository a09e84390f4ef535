package mcp

import (
	"context"

	"github.com/claude/coachplan/internal/models"
	"github.com/claude/coachplan/internal/plan"
	"github.com/claude/coachplan/internal/storage"
	"github.com/google/uuid"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	ListClients(ctx context.Context) ([]models.Client, error)
	ListPlans(ctx context.Context, clientID string) ([]models.PlanSummary, error)
	GetPlan(ctx context.Context, id uuid.UUID) (plan.WorkoutPlan, error)
	ToolNames(ctx context.Context) (map[string]string, error)
	GetStats(ctx context.Context) (*storage.Stats, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
