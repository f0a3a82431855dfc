package store

import (
	"context"
	"time"

	"fitness-coach/internal/telemetry"
)

// Wellness records are keyed by calendar date; writing a date again
// replaces the whole row.

func upsertSleep(ctx context.Context, ex execer, r telemetry.SleepRecord) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO sleep_records (date, total_hours, deep_hours, light_hours, rem_hours, awake_hours, score)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			total_hours = excluded.total_hours,
			deep_hours = excluded.deep_hours,
			light_hours = excluded.light_hours,
			rem_hours = excluded.rem_hours,
			awake_hours = excluded.awake_hours,
			score = excluded.score
	`, formatDate(r.Date), r.TotalHours, r.DeepHours, r.LightHours, r.REMHours, r.AwakeHours, r.Score)
	return err
}

func upsertHeartRate(ctx context.Context, ex execer, r telemetry.HeartRateRecord) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO heart_rate_records (date, resting_hr, max_hr, avg_hr)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			resting_hr = excluded.resting_hr,
			max_hr = excluded.max_hr,
			avg_hr = excluded.avg_hr
	`, formatDate(r.Date), r.RestingHR, r.MaxHR, r.AvgHR)
	return err
}

func upsertDaily(ctx context.Context, ex execer, d telemetry.DailySummary) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO daily_summaries (
			date, steps, stress, body_battery_high, body_battery_low,
			body_battery_charged, body_battery_drained, sedentary_minutes, active_minutes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			steps = excluded.steps,
			stress = excluded.stress,
			body_battery_high = excluded.body_battery_high,
			body_battery_low = excluded.body_battery_low,
			body_battery_charged = excluded.body_battery_charged,
			body_battery_drained = excluded.body_battery_drained,
			sedentary_minutes = excluded.sedentary_minutes,
			active_minutes = excluded.active_minutes
	`, formatDate(d.Date), d.Steps, d.Stress, d.BodyBatteryHigh, d.BodyBatteryLow,
		d.BodyBatteryCharged, d.BodyBatteryDrained, d.SedentaryMinutes, d.ActiveMinutes)
	return err
}

func upsertVo2Max(ctx context.Context, ex execer, r telemetry.Vo2MaxRecord) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO vo2max_records (date, value) VALUES (?, ?)
		ON CONFLICT(date) DO UPDATE SET value = excluded.value
	`, formatDate(r.Date), r.Value)
	return err
}

// ListSleep returns sleep records dated within [first, last], oldest first.
func (db *DB) ListSleep(ctx context.Context, first, last time.Time) ([]telemetry.SleepRecord, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT date, total_hours, deep_hours, light_hours, rem_hours, awake_hours, score
		FROM sleep_records
		WHERE date BETWEEN ? AND ?
		ORDER BY date
	`, formatDate(first), formatDate(last))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []telemetry.SleepRecord
	for rows.Next() {
		var r telemetry.SleepRecord
		var date string
		if err := rows.Scan(&date, &r.TotalHours, &r.DeepHours, &r.LightHours, &r.REMHours, &r.AwakeHours, &r.Score); err != nil {
			return nil, err
		}
		if r.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListHeartRate returns heart rate records dated within [first, last].
func (db *DB) ListHeartRate(ctx context.Context, first, last time.Time) ([]telemetry.HeartRateRecord, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT date, resting_hr, max_hr, avg_hr
		FROM heart_rate_records
		WHERE date BETWEEN ? AND ?
		ORDER BY date
	`, formatDate(first), formatDate(last))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []telemetry.HeartRateRecord
	for rows.Next() {
		var r telemetry.HeartRateRecord
		var date string
		if err := rows.Scan(&date, &r.RestingHR, &r.MaxHR, &r.AvgHR); err != nil {
			return nil, err
		}
		if r.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListDaily returns daily summaries dated within [first, last].
func (db *DB) ListDaily(ctx context.Context, first, last time.Time) ([]telemetry.DailySummary, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT date, steps, stress, body_battery_high, body_battery_low,
			body_battery_charged, body_battery_drained, sedentary_minutes, active_minutes
		FROM daily_summaries
		WHERE date BETWEEN ? AND ?
		ORDER BY date
	`, formatDate(first), formatDate(last))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []telemetry.DailySummary
	for rows.Next() {
		var d telemetry.DailySummary
		var date string
		err := rows.Scan(&date, &d.Steps, &d.Stress, &d.BodyBatteryHigh, &d.BodyBatteryLow,
			&d.BodyBatteryCharged, &d.BodyBatteryDrained, &d.SedentaryMinutes, &d.ActiveMinutes)
		if err != nil {
			return nil, err
		}
		if d.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListVo2Max returns VO2max estimates dated within [first, last].
func (db *DB) ListVo2Max(ctx context.Context, first, last time.Time) ([]telemetry.Vo2MaxRecord, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT date, value FROM vo2max_records
		WHERE date BETWEEN ? AND ?
		ORDER BY date
	`, formatDate(first), formatDate(last))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []telemetry.Vo2MaxRecord
	for rows.Next() {
		var r telemetry.Vo2MaxRecord
		var date string
		if err := rows.Scan(&date, &r.Value); err != nil {
			return nil, err
		}
		if r.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountWellness returns the number of stored records per wellness table.
func (db *DB) CountWellness(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, 4)
	for _, table := range []string{"sleep_records", "heart_rate_records", "daily_summaries", "vo2max_records"} {
		var n int
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, err
		}
		counts[table] = n
	}
	return counts, nil
}
