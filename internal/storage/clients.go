package storage

import (
	"context"
	"fmt"

	"github.com/claude/coachplan/internal/models"
	"github.com/google/uuid"
)

// CreateClient inserts a client, assigning an id when empty.
func (db *DB) CreateClient(ctx context.Context, c models.Client) (models.Client, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO clients (id, name, email, notes) VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		c.ID, c.Name, c.Email, c.Notes,
	).Scan(&c.CreatedAt)
	if err != nil {
		return models.Client{}, fmt.Errorf("inserting client: %w", err)
	}
	return c, nil
}

// GetClient returns one client.
func (db *DB) GetClient(ctx context.Context, id string) (models.Client, error) {
	var c models.Client
	err := db.Pool.QueryRow(ctx,
		`SELECT id, name, email, notes, created_at FROM clients WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Email, &c.Notes, &c.CreatedAt)
	if err != nil {
		return models.Client{}, notFound(err, "client", id)
	}
	return c, nil
}

// ListClients returns every client ordered by name.
func (db *DB) ListClients(ctx context.Context) ([]models.Client, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, email, notes, created_at FROM clients ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("querying clients: %w", err)
	}
	defer rows.Close()

	out := []models.Client{}
	for rows.Next() {
		var c models.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Notes, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning client: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateClient replaces a client's editable fields.
func (db *DB) UpdateClient(ctx context.Context, c models.Client) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE clients SET name = $2, email = $3, notes = $4 WHERE id = $1`,
		c.ID, c.Name, c.Email, c.Notes)
	if err != nil {
		return fmt.Errorf("updating client: %w", err)
	}
	return affected(tag.RowsAffected(), "client", c.ID)
}

// DeleteClient removes a client. Plans referencing it keep their stored name.
func (db *DB) DeleteClient(ctx context.Context, id string) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting client: %w", err)
	}
	return affected(tag.RowsAffected(), "client", id)
}
