package storage

import (
	"context"
	"fmt"

	"github.com/claude/coachplan/internal/models"
	"github.com/google/uuid"
)

// CreateExercise inserts an exercise library entry.
func (db *DB) CreateExercise(ctx context.Context, e models.Exercise) (models.Exercise, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO exercises (id, name, category, default_tool_id) VALUES ($1, $2, $3, $4)`,
		e.ID, e.Name, e.Category, e.DefaultToolID)
	if err != nil {
		return models.Exercise{}, fmt.Errorf("inserting exercise: %w", err)
	}
	return e, nil
}

// ListExercises returns the exercise library ordered by name.
func (db *DB) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, category, default_tool_id FROM exercises ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	out := []models.Exercise{}
	for rows.Next() {
		var e models.Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.Category, &e.DefaultToolID); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpdateExercise replaces an exercise's fields. Plans keep the name they
// stored when the row was written.
func (db *DB) UpdateExercise(ctx context.Context, e models.Exercise) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE exercises SET name = $2, category = $3, default_tool_id = $4 WHERE id = $1`,
		e.ID, e.Name, e.Category, e.DefaultToolID)
	if err != nil {
		return fmt.Errorf("updating exercise: %w", err)
	}
	return affected(tag.RowsAffected(), "exercise", e.ID)
}

// DeleteExercise removes an exercise. Plans are not touched.
func (db *DB) DeleteExercise(ctx context.Context, id string) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM exercises WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting exercise: %w", err)
	}
	return affected(tag.RowsAffected(), "exercise", id)
}

// CreateTool inserts a tool library entry.
func (db *DB) CreateTool(ctx context.Context, t models.Tool) (models.Tool, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	_, err := db.Pool.Exec(ctx, `INSERT INTO tools (id, name) VALUES ($1, $2)`, t.ID, t.Name)
	if err != nil {
		return models.Tool{}, fmt.Errorf("inserting tool: %w", err)
	}
	return t, nil
}

// ListTools returns the tool library ordered by name.
func (db *DB) ListTools(ctx context.Context) ([]models.Tool, error) {
	rows, err := db.Pool.Query(ctx, `SELECT id, name FROM tools ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("querying tools: %w", err)
	}
	defer rows.Close()

	out := []models.Tool{}
	for rows.Next() {
		var t models.Tool
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scanning tool: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// DeleteTool removes a tool. Exercises defaulting to it lose the default.
func (db *DB) DeleteTool(ctx context.Context, id string) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM tools WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting tool: %w", err)
	}
	return affected(tag.RowsAffected(), "tool", id)
}

// ToolNames returns the id to display name lookup used for labels.
func (db *DB) ToolNames(ctx context.Context) (map[string]string, error) {
	tools, err := db.ListTools(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(tools))
	for _, t := range tools {
		out[t.ID] = t.Name
	}
	return out, nil
}
