package storage

import (
	"context"
	"fmt"
	"time"
)

// Stats holds aggregate counts across the library and plans.
type Stats struct {
	TotalClients   int64      `json:"total_clients"`
	TotalPlans     int64      `json:"total_plans"`
	TotalExercises int64      `json:"total_exercises"`
	TotalTools     int64      `json:"total_tools"`
	LatestUpdate   *time.Time `json:"latest_update"`
	PlansByGoal    []GoalStat `json:"plans_by_goal"`
}

// GoalStat counts plans for one training goal.
type GoalStat struct {
	Goal        string  `json:"goal"`
	Count       int64   `json:"count"`
	AvgDuration float64 `json:"avg_duration_weeks"`
}

// GetStats returns aggregate statistics.
func (db *DB) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{PlansByGoal: []GoalStat{}}

	err := db.Pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM clients),
			(SELECT COUNT(*) FROM plans),
			(SELECT COUNT(*) FROM exercises),
			(SELECT COUNT(*) FROM tools),
			(SELECT MAX(updated_at) FROM plans)`,
	).Scan(&stats.TotalClients, &stats.TotalPlans, &stats.TotalExercises, &stats.TotalTools, &stats.LatestUpdate)
	if err != nil {
		return nil, fmt.Errorf("counting records: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT goal, COUNT(*), AVG(duration_weeks)::float8
		 FROM plans
		 GROUP BY goal
		 ORDER BY COUNT(*) DESC, goal`)
	if err != nil {
		return nil, fmt.Errorf("querying plans by goal: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s GoalStat
		if err := rows.Scan(&s.Goal, &s.Count, &s.AvgDuration); err != nil {
			return nil, fmt.Errorf("scanning goal stat: %w", err)
		}
		stats.PlansByGoal = append(stats.PlansByGoal, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
