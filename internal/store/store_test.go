package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitness-coach/internal/plan"
	"fitness-coach/internal/telemetry"
)

var day0 = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

// setupTestDB creates an in-memory database for testing
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func floatPtr(v float64) *float64 { return &v }

func TestOpenCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "coach.db")
	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()
	assert.FileExists(t, path)

	// migrations are idempotent
	require.NoError(t, migrate(db.DB))
}

func TestAuth(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	_, err := db.GetAuth(ctx)
	assert.ErrorIs(t, err, ErrNoAuth)
	assert.ErrorIs(t, db.UpdateTokens(ctx, "a", "r", day0), ErrNoAuth)

	expires := day0.Add(6 * time.Hour)
	require.NoError(t, db.SaveAuth(ctx, &Auth{AthleteID: 42, AccessToken: "access", RefreshToken: "refresh", ExpiresAt: expires}))
	require.NoError(t, db.UpdateTokens(ctx, "access2", "refresh2", expires.Add(time.Hour)))

	got, err := db.GetAuth(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.AthleteID)
	assert.Equal(t, "access2", got.AccessToken)
	assert.Equal(t, "refresh2", got.RefreshToken)
	assert.True(t, got.ExpiresAt.Equal(expires.Add(time.Hour)))

	require.NoError(t, db.DeleteAuth(ctx))
	_, err = db.GetAuth(ctx)
	assert.ErrorIs(t, err, ErrNoAuth)
}

func TestActivities(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	run := telemetry.Activity{
		ID: 1, Name: "Morning Run", Type: telemetry.TypeRun,
		StartTime: day0.Add(7 * time.Hour), Distance: 8046.7, Duration: 2750,
		AvgHR: floatPtr(141), PerceivedExertion: floatPtr(4),
	}
	ride := telemetry.Activity{
		ID: 2, Name: "Commute", Type: telemetry.TypeBike,
		StartTime: day0.AddDate(0, 0, 1).Add(17 * time.Hour), Distance: 12000, Duration: 2400,
	}
	require.NoError(t, db.UpsertActivities(ctx, []telemetry.Activity{ride, run}, SourceStrava))

	got, err := db.GetActivity(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, run.Name, got.Name)
	assert.Equal(t, telemetry.TypeRun, got.Type)
	assert.True(t, got.StartTime.Equal(run.StartTime))
	require.NotNil(t, got.AvgHR)
	assert.Equal(t, 141.0, *got.AvgHR)
	assert.Nil(t, got.MaxHR)
	assert.Nil(t, got.AerobicEffect)

	_, err = db.GetActivity(ctx, 99)
	assert.ErrorIs(t, err, ErrActivityNotFound)

	list, err := db.ListActivities(ctx, day0, day0.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(1), list[0].ID, "oldest first")

	recent, err := db.RecentActivities(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, int64(2), recent[0].ID)

	// upserts replace the whole row
	run.Name = "Renamed"
	run.AvgHR = nil
	require.NoError(t, db.UpsertActivity(ctx, run, SourceStrava))
	got, err = db.GetActivity(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Nil(t, got.AvgHR)

	n, err := db.CountActivities(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	latest, ok, err := db.LatestActivityStart(ctx, SourceStrava)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, latest.Equal(ride.StartTime))

	_, ok, err = db.LatestActivityStart(ctx, SourceImport)
	require.NoError(t, err)
	assert.False(t, ok)
}

func testSnapshot() telemetry.Snapshot {
	var snap telemetry.Snapshot
	score := 81
	for i := 0; i < 21; i++ {
		d := day0.AddDate(0, 0, i)
		snap.Sleep = append(snap.Sleep, telemetry.SleepRecord{Date: d, TotalHours: 7.2, DeepHours: 1.4, Score: &score})
		snap.HeartRate = append(snap.HeartRate, telemetry.HeartRateRecord{Date: d, RestingHR: 50 + float64(i%3)})
		snap.Daily = append(snap.Daily, telemetry.DailySummary{
			Date: d, Steps: 9000 + i, Stress: floatPtr(30), BodyBatteryHigh: floatPtr(80),
		})
		if i%7 == 0 {
			snap.Vo2Max = append(snap.Vo2Max, telemetry.Vo2MaxRecord{Date: d, Value: 50 + float64(i)/7})
		}
		if i%2 == 0 {
			snap.Activities = append(snap.Activities, telemetry.Activity{
				ID: int64(100 + i), Type: telemetry.TypeRun, StartTime: d.Add(6 * time.Hour),
				Distance: 8000, Duration: 2700, AvgHR: floatPtr(145),
			})
		}
	}
	return snap
}

func TestImportAndLoadSnapshot(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	stats, err := db.ImportSnapshot(ctx, testSnapshot())
	require.NoError(t, err)
	assert.Equal(t, ImportStats{Activities: 11, Sleep: 21, HeartRate: 21, Daily: 21, Vo2Max: 3}, stats)
	assert.Equal(t, 77, stats.Total())

	// importing again replaces rows instead of duplicating them
	_, err = db.ImportSnapshot(ctx, testSnapshot())
	require.NoError(t, err)
	counts, err := db.CountWellness(ctx)
	require.NoError(t, err)
	assert.Equal(t, 21, counts["sleep_records"])
	assert.Equal(t, 3, counts["vo2max_records"])

	end := day0.AddDate(0, 0, 20).Add(21 * time.Hour)
	snap, err := db.LoadSnapshot(ctx, end, 14)
	require.NoError(t, err)
	assert.Len(t, snap.Sleep, 14)
	assert.Len(t, snap.HeartRate, 14)
	assert.Len(t, snap.Daily, 14)
	assert.Len(t, snap.Vo2Max, 2)
	assert.Len(t, snap.Activities, 7)
	assert.True(t, snap.Sleep[0].Date.Equal(day0.AddDate(0, 0, 7)))
	require.NotNil(t, snap.Sleep[0].Score)
	assert.Equal(t, 81, *snap.Sleep[0].Score)
	assert.Equal(t, 9007, snap.Daily[0].Steps)
	assert.Nil(t, snap.Daily[0].BodyBatteryLow)

	// the stored window matches the in-memory window
	want := testSnapshot().Window(end, 14)
	assert.Equal(t, len(want.Activities), len(snap.Activities))
	assert.Equal(t, len(want.Vo2Max), len(snap.Vo2Max))
}

func TestImportSnapshotCanceled(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err := db.ImportSnapshot(canceled, testSnapshot())
	require.Error(t, err)

	n, err := db.CountActivities(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestGoal(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	_, err := db.GetGoal(ctx)
	assert.ErrorIs(t, err, ErrNoGoal)

	g := plan.Goal{
		Category:      plan.CategoryRace,
		Type:          plan.GoalHalfMarathon,
		TargetDate:    time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		TargetTime:    105 * time.Minute,
		WeeklyMileage: 28,
		LongRunDay:    "saturday",
	}
	require.NoError(t, db.SaveGoal(ctx, g))

	got, err := db.GetGoal(ctx)
	require.NoError(t, err)
	assert.Equal(t, g.Type, got.Type)
	assert.True(t, g.TargetDate.Equal(got.TargetDate))
	assert.Equal(t, g.TargetTime, got.TargetTime)
	assert.Equal(t, g.WeeklyMileage, got.WeeklyMileage)

	g.Type = plan.Goal10K
	require.NoError(t, db.SaveGoal(ctx, g))
	got, err = db.GetGoal(ctx)
	require.NoError(t, err)
	assert.Equal(t, plan.Goal10K, got.Type)

	require.NoError(t, db.DeleteGoal(ctx))
	_, err = db.GetGoal(ctx)
	assert.ErrorIs(t, err, ErrNoGoal)
}

func TestPlanRuns(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	report, err := json.Marshal(map[string]any{"phase": "build"})
	require.NoError(t, err)

	first, err := db.SavePlanRun(ctx, PlanRun{
		CreatedAt: day0, GoalType: "marathon", Phase: "build",
		WeeklyTarget: 40, TotalMiles: 38, MileageMultiplier: 1, Report: report,
	})
	require.NoError(t, err)
	assert.Len(t, first, 36)

	second, err := db.SavePlanRun(ctx, PlanRun{
		CreatedAt: day0.Add(500 * time.Millisecond), GoalType: "marathon", Phase: "build",
		WeeklyTarget: 40, TotalMiles: 28, MileageMultiplier: 0.7, RulesFired: 4, Report: report,
	})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	runs, err := db.ListPlanRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].ID, "newest first")
	assert.Equal(t, 0.7, runs[0].MileageMultiplier)
	assert.Equal(t, 4, runs[0].RulesFired)
	assert.JSONEq(t, `{"phase":"build"}`, string(runs[0].Report))

	got, err := db.GetPlanRun(ctx, first)
	require.NoError(t, err)
	assert.True(t, got.CreatedAt.Equal(day0))

	_, err = db.GetPlanRun(ctx, "missing")
	assert.ErrorIs(t, err, ErrPlanRunNotFound)
}

func TestSyncState(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	v, err := db.GetSyncState(ctx, "nothing")
	require.NoError(t, err)
	assert.Empty(t, v)

	last, err := db.GetSyncTime(ctx, KeyLastStravaSync)
	require.NoError(t, err)
	assert.True(t, last.IsZero())

	require.NoError(t, db.SetSyncTime(ctx, KeyLastStravaSync, day0.Add(90*time.Minute)))
	last, err = db.GetSyncTime(ctx, KeyLastStravaSync)
	require.NoError(t, err)
	assert.True(t, last.Equal(day0.Add(90*time.Minute)))
}
