package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fitness-coach/internal/telemetry"
)

const activityColumns = `id, name, type, start_time, distance, duration,
	avg_hr, max_hr, perceived_exertion, aerobic_effect, anaerobic_effect`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// UpsertActivity inserts or replaces an activity
func (db *DB) UpsertActivity(ctx context.Context, a telemetry.Activity, source string) error {
	return upsertActivity(ctx, db, a, source)
}

// UpsertActivities stores a batch of activities in one transaction.
func (db *DB) UpsertActivities(ctx context.Context, acts []telemetry.Activity, source string) error {
	return db.inTx(ctx, func(tx *sql.Tx) error {
		for _, a := range acts {
			if err := upsertActivity(ctx, tx, a, source); err != nil {
				return fmt.Errorf("activity %d: %w", a.ID, err)
			}
		}
		return nil
	})
}

func upsertActivity(ctx context.Context, ex execer, a telemetry.Activity, source string) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO activities (`+activityColumns+`, source, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			start_time = excluded.start_time,
			distance = excluded.distance,
			duration = excluded.duration,
			avg_hr = excluded.avg_hr,
			max_hr = excluded.max_hr,
			perceived_exertion = excluded.perceived_exertion,
			aerobic_effect = excluded.aerobic_effect,
			anaerobic_effect = excluded.anaerobic_effect,
			source = excluded.source,
			updated_at = CURRENT_TIMESTAMP
	`,
		a.ID, a.Name, string(a.Type), a.StartTime.UTC().Format(time.RFC3339), a.Distance, a.Duration,
		a.AvgHR, a.MaxHR, a.PerceivedExertion, a.AerobicEffect, a.AnaerobicEffect, source,
	)
	return err
}

// GetActivity retrieves an activity by ID
func (db *DB) GetActivity(ctx context.Context, id int64) (*telemetry.Activity, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+activityColumns+` FROM activities WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	acts, err := scanActivities(rows)
	if err != nil {
		return nil, err
	}
	if len(acts) == 0 {
		return nil, ErrActivityNotFound
	}
	return &acts[0], nil
}

// ListActivities returns activities started in [from, to), oldest first.
func (db *DB) ListActivities(ctx context.Context, from, to time.Time) ([]telemetry.Activity, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+activityColumns+`
		FROM activities
		WHERE start_time >= ? AND start_time < ?
		ORDER BY start_time ASC, id ASC
	`, from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// RecentActivities returns the newest activities first.
func (db *DB) RecentActivities(ctx context.Context, limit int) ([]telemetry.Activity, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+activityColumns+`
		FROM activities
		ORDER BY start_time DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActivities(rows)
}

// CountActivities returns the total number of activities
func (db *DB) CountActivities(ctx context.Context) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM activities").Scan(&count)
	return count, err
}

// LatestActivityStart returns the start time of the newest activity from
// source. ok is false when there is none.
func (db *DB) LatestActivityStart(ctx context.Context, source string) (t time.Time, ok bool, err error) {
	var s sql.NullString
	err = db.QueryRowContext(ctx, `SELECT MAX(start_time) FROM activities WHERE source = ?`, source).Scan(&s)
	if err != nil || !s.Valid {
		return time.Time{}, false, err
	}
	t, err = time.Parse(time.RFC3339, s.String)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parsing start_time %q: %w", s.String, err)
	}
	return t, true, nil
}

// scanActivities scans multiple activities from rows
func scanActivities(rows *sql.Rows) ([]telemetry.Activity, error) {
	var activities []telemetry.Activity

	for rows.Next() {
		var a telemetry.Activity
		var typ, start string

		err := rows.Scan(
			&a.ID, &a.Name, &typ, &start, &a.Distance, &a.Duration,
			&a.AvgHR, &a.MaxHR, &a.PerceivedExertion, &a.AerobicEffect, &a.AnaerobicEffect,
		)
		if err != nil {
			return nil, err
		}

		a.Type = telemetry.ActivityType(typ)
		a.StartTime, err = time.Parse(time.RFC3339, start)
		if err != nil {
			return nil, fmt.Errorf("parsing start_time %q: %w", start, err)
		}
		activities = append(activities, a)
	}

	return activities, rows.Err()
}

// inTx runs fn in a transaction, rolling back when it fails.
func (db *DB) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.Join(err, rbErr)
		}
		return err
	}
	return tx.Commit()
}
