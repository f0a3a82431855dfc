package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"fitness-coach/internal/plan"
)

// SaveGoal stores the athlete's current goal, replacing any previous one.
func (db *DB) SaveGoal(ctx context.Context, g plan.Goal) error {
	body, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("encoding goal: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO goal (id, body, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET body = excluded.body, updated_at = CURRENT_TIMESTAMP
	`, string(body))
	return err
}

// GetGoal returns the stored goal or ErrNoGoal.
func (db *DB) GetGoal(ctx context.Context) (plan.Goal, error) {
	var body string
	err := db.QueryRowContext(ctx, `SELECT body FROM goal WHERE id = 1`).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return plan.Goal{}, ErrNoGoal
	}
	if err != nil {
		return plan.Goal{}, err
	}

	var g plan.Goal
	if err := json.Unmarshal([]byte(body), &g); err != nil {
		return plan.Goal{}, fmt.Errorf("decoding goal: %w", err)
	}
	return g, nil
}

// DeleteGoal clears the stored goal.
func (db *DB) DeleteGoal(ctx context.Context) error {
	_, err := db.ExecContext(ctx, `DELETE FROM goal WHERE id = 1`)
	return err
}
