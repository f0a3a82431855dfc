package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SavePlanRun stores a generated plan. An empty ID is filled with a new
// UUID, which is returned.
func (db *DB) SavePlanRun(ctx context.Context, run PlanRun) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO plan_runs (
			id, created_at, goal_type, phase, weekly_target, total_miles,
			mileage_multiplier, rules_fired, report
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.CreatedAt.UTC().Format(timestampLayout), run.GoalType, run.Phase,
		run.WeeklyTarget, run.TotalMiles, run.MileageMultiplier, run.RulesFired, string(run.Report))
	if err != nil {
		return "", fmt.Errorf("saving plan run: %w", err)
	}
	return run.ID, nil
}

// timestampLayout is fixed width so stored timestamps sort as text.
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

const planRunColumns = `id, created_at, goal_type, phase, weekly_target, total_miles,
	mileage_multiplier, rules_fired, report`

// ListPlanRuns returns the most recent plan runs first.
func (db *DB) ListPlanRuns(ctx context.Context, limit int) ([]PlanRun, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+planRunColumns+`
		FROM plan_runs
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []PlanRun
	for rows.Next() {
		r, err := scanPlanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetPlanRun returns one plan run by id.
func (db *DB) GetPlanRun(ctx context.Context, id string) (PlanRun, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+planRunColumns+` FROM plan_runs WHERE id = ?`, id)
	if err != nil {
		return PlanRun{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return PlanRun{}, err
		}
		return PlanRun{}, ErrPlanRunNotFound
	}
	return scanPlanRun(rows)
}

func scanPlanRun(rows *sql.Rows) (PlanRun, error) {
	var r PlanRun
	var created, report string
	err := rows.Scan(&r.ID, &created, &r.GoalType, &r.Phase, &r.WeeklyTarget, &r.TotalMiles,
		&r.MileageMultiplier, &r.RulesFired, &report)
	if err != nil {
		return PlanRun{}, err
	}
	if r.CreatedAt, err = time.Parse(timestampLayout, created); err != nil {
		return PlanRun{}, fmt.Errorf("parsing created_at %q: %w", created, err)
	}
	r.Report = []byte(report)
	return r, nil
}
