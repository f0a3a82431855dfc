package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fitness-coach/internal/telemetry"
)

// LoadSnapshot reads the telemetry of the `days` calendar days ending on
// end (inclusive).
func (db *DB) LoadSnapshot(ctx context.Context, end time.Time, days int) (telemetry.Snapshot, error) {
	last := telemetry.DateOf(end)
	first := last.AddDate(0, 0, -(days - 1))

	var snap telemetry.Snapshot
	var err error
	if snap.Activities, err = db.ListActivities(ctx, first, last.AddDate(0, 0, 1)); err != nil {
		return snap, fmt.Errorf("loading activities: %w", err)
	}
	if snap.Sleep, err = db.ListSleep(ctx, first, last); err != nil {
		return snap, fmt.Errorf("loading sleep: %w", err)
	}
	if snap.HeartRate, err = db.ListHeartRate(ctx, first, last); err != nil {
		return snap, fmt.Errorf("loading heart rate: %w", err)
	}
	if snap.Daily, err = db.ListDaily(ctx, first, last); err != nil {
		return snap, fmt.Errorf("loading daily summaries: %w", err)
	}
	if snap.Vo2Max, err = db.ListVo2Max(ctx, first, last); err != nil {
		return snap, fmt.Errorf("loading vo2max: %w", err)
	}
	return snap, nil
}

// ImportStats counts the records written by ImportSnapshot.
type ImportStats struct {
	Activities int
	Sleep      int
	HeartRate  int
	Daily      int
	Vo2Max     int
}

// Total returns the number of records imported.
func (s ImportStats) Total() int {
	return s.Activities + s.Sleep + s.HeartRate + s.Daily + s.Vo2Max
}

// ImportSnapshot writes every record of snap in a single transaction.
// Either all records are stored or none are.
func (db *DB) ImportSnapshot(ctx context.Context, snap telemetry.Snapshot) (ImportStats, error) {
	var stats ImportStats
	err := db.inTx(ctx, func(tx *sql.Tx) error {
		for _, a := range snap.Activities {
			if err := upsertActivity(ctx, tx, a, SourceImport); err != nil {
				return fmt.Errorf("activity %d: %w", a.ID, err)
			}
			stats.Activities++
		}
		for _, r := range snap.Sleep {
			if err := upsertSleep(ctx, tx, r); err != nil {
				return fmt.Errorf("sleep %s: %w", formatDate(r.Date), err)
			}
			stats.Sleep++
		}
		for _, r := range snap.HeartRate {
			if err := upsertHeartRate(ctx, tx, r); err != nil {
				return fmt.Errorf("heart rate %s: %w", formatDate(r.Date), err)
			}
			stats.HeartRate++
		}
		for _, d := range snap.Daily {
			if err := upsertDaily(ctx, tx, d); err != nil {
				return fmt.Errorf("daily summary %s: %w", formatDate(d.Date), err)
			}
			stats.Daily++
		}
		for _, r := range snap.Vo2Max {
			if err := upsertVo2Max(ctx, tx, r); err != nil {
				return fmt.Errorf("vo2max %s: %w", formatDate(r.Date), err)
			}
			stats.Vo2Max++
		}
		return nil
	})
	if err != nil {
		return ImportStats{}, err
	}
	return stats, nil
}
