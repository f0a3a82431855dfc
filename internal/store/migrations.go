package store

import "database/sql"

// migrate runs all database migrations
func migrate(db *sql.DB) error {
	migrations := []string{
		// Authentication (singleton row)
		`CREATE TABLE IF NOT EXISTS auth (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			athlete_id INTEGER NOT NULL,
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL,
			expires_at INTEGER NOT NULL,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Activities from any source
		`CREATE TABLE IF NOT EXISTS activities (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL,
			start_time TEXT NOT NULL,
			distance REAL NOT NULL,
			duration INTEGER NOT NULL,
			avg_hr REAL,
			max_hr REAL,
			perceived_exertion REAL,
			aerobic_effect REAL,
			anaerobic_effect REAL,
			source TEXT NOT NULL DEFAULT 'import',
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_activities_start_time ON activities(start_time)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_type ON activities(type)`,

		// Daily wellness records, one row per calendar date
		`CREATE TABLE IF NOT EXISTS sleep_records (
			date TEXT PRIMARY KEY,
			total_hours REAL NOT NULL,
			deep_hours REAL NOT NULL DEFAULT 0,
			light_hours REAL NOT NULL DEFAULT 0,
			rem_hours REAL NOT NULL DEFAULT 0,
			awake_hours REAL NOT NULL DEFAULT 0,
			score INTEGER
		)`,

		`CREATE TABLE IF NOT EXISTS heart_rate_records (
			date TEXT PRIMARY KEY,
			resting_hr REAL NOT NULL,
			max_hr REAL,
			avg_hr REAL
		)`,

		`CREATE TABLE IF NOT EXISTS daily_summaries (
			date TEXT PRIMARY KEY,
			steps INTEGER NOT NULL DEFAULT 0,
			stress REAL,
			body_battery_high REAL,
			body_battery_low REAL,
			body_battery_charged REAL,
			body_battery_drained REAL,
			sedentary_minutes REAL,
			active_minutes REAL
		)`,

		`CREATE TABLE IF NOT EXISTS vo2max_records (
			date TEXT PRIMARY KEY,
			value REAL NOT NULL
		)`,

		// Current goal (singleton row)
		`CREATE TABLE IF NOT EXISTS goal (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			body TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// Generated plans
		`CREATE TABLE IF NOT EXISTS plan_runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			goal_type TEXT NOT NULL,
			phase TEXT NOT NULL,
			weekly_target REAL NOT NULL,
			total_miles REAL NOT NULL,
			mileage_multiplier REAL NOT NULL,
			rules_fired INTEGER NOT NULL,
			report TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_plan_runs_created ON plan_runs(created_at)`,

		// Sync State (key-value store for sync tracking)
		`CREATE TABLE IF NOT EXISTS sync_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}

	return nil
}
