package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/claude/coachplan/internal/models"
	"github.com/claude/coachplan/internal/plan"
	"github.com/google/uuid"
)

// SavePlan stores the whole plan document, replacing any previous version
// with the same id (last write wins). UpdatedAt is bumped to now; CreatedAt
// is kept from the first save.
func (db *DB) SavePlan(ctx context.Context, p *plan.WorkoutPlan, now time.Time) error {
	// Postgres keeps microseconds; truncate so the document and the column agree.
	now = now.UTC().Truncate(time.Microsecond)
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}

	var created time.Time
	err = db.Pool.QueryRow(ctx,
		`INSERT INTO plans (id, client_id, client_name, title, goal, duration_weeks, document, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET
			client_id = EXCLUDED.client_id,
			client_name = EXCLUDED.client_name,
			title = EXCLUDED.title,
			goal = EXCLUDED.goal,
			duration_weeks = EXCLUDED.duration_weeks,
			document = EXCLUDED.document,
			updated_at = EXCLUDED.updated_at
		 RETURNING created_at`,
		p.ID, p.Client.ID, p.Client.Name, p.Title, string(p.Goal), p.DurationWeeks, doc, p.CreatedAt, p.UpdatedAt,
	).Scan(&created)
	if err != nil {
		return fmt.Errorf("saving plan %s: %w", p.ID, err)
	}
	p.CreatedAt = created.UTC()
	return nil
}

// GetPlan loads one plan document.
func (db *DB) GetPlan(ctx context.Context, id uuid.UUID) (plan.WorkoutPlan, error) {
	var (
		doc              []byte
		created, updated time.Time
	)
	err := db.Pool.QueryRow(ctx,
		`SELECT document, created_at, updated_at FROM plans WHERE id = $1`, id,
	).Scan(&doc, &created, &updated)
	if err != nil {
		return plan.WorkoutPlan{}, notFound(err, "plan", id.String())
	}

	var p plan.WorkoutPlan
	if err := json.Unmarshal(doc, &p); err != nil {
		return plan.WorkoutPlan{}, fmt.Errorf("decoding plan %s: %w", id, err)
	}
	p.ID = id
	p.CreatedAt = created.UTC()
	p.UpdatedAt = updated.UTC()
	return p, nil
}

// ListPlans returns plan summaries, newest first. An empty clientID lists
// every plan.
func (db *DB) ListPlans(ctx context.Context, clientID string) ([]models.PlanSummary, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, title, client_id, client_name, goal, duration_weeks, updated_at
		 FROM plans
		 WHERE $1 = '' OR client_id = $1
		 ORDER BY updated_at DESC, id`, clientID)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer rows.Close()

	out := []models.PlanSummary{}
	for rows.Next() {
		var (
			s  models.PlanSummary
			id uuid.UUID
		)
		if err := rows.Scan(&id, &s.Title, &s.ClientID, &s.ClientName, &s.Goal, &s.DurationWeeks, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning plan: %w", err)
		}
		s.ID = id.String()
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeletePlan removes a plan.
func (db *DB) DeletePlan(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	return affected(tag.RowsAffected(), "plan", id.String())
}
