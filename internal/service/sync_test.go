package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitness-coach/internal/store"
	"fitness-coach/internal/strava"
	"fitness-coach/internal/telemetry"
)

type fakeSource struct {
	activities []strava.Activity
	details    map[int64]*strava.Activity
	listErr    error

	after       time.Time
	detailCalls int
}

func (f *fakeSource) GetAllActivities(_ context.Context, after time.Time, onProgress func(int)) ([]strava.Activity, error) {
	f.after = after
	if f.listErr != nil {
		return nil, f.listErr
	}
	if onProgress != nil {
		onProgress(len(f.activities))
	}
	return f.activities, nil
}

func (f *fakeSource) GetActivity(_ context.Context, id int64) (*strava.Activity, error) {
	f.detailCalls++
	if d, ok := f.details[id]; ok {
		return d, nil
	}
	return nil, &strava.APIError{StatusCode: 404, Body: "not found"}
}

func stravaRun(id int64, start time.Time) strava.Activity {
	return strava.Activity{
		ID:               id,
		Name:             "Morning Run",
		Type:             "Run",
		SportType:        "Run",
		StartDate:        start,
		Distance:         8046.7,
		MovingTime:       2700,
		ElapsedTime:      2800,
		AverageHeartrate: 148,
		MaxHeartrate:     171,
		HasHeartrate:     true,
	}
}

func openDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSync(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	ride := stravaRun(3, now.Add(-26*time.Hour))
	ride.Type, ride.SportType = "Ride", "Ride"
	src := &fakeSource{
		activities: []strava.Activity{
			stravaRun(1, now.Add(-72*time.Hour)),
			stravaRun(2, now.Add(-48*time.Hour)),
			ride,
		},
		details: map[int64]*strava.Activity{
			1: {ID: 1, PerceivedExertion: telemetry.Float(6)},
		},
	}

	svc := NewSyncService(src, db, nil)
	svc.FetchDetails = true
	svc.now = func() time.Time { return now }

	progress := make(chan SyncProgress, 16)
	result, err := svc.Sync(ctx, time.Time{}, progress)
	require.NoError(t, err)

	assert.Equal(t, now.AddDate(0, 0, -initialSyncDays), src.after)
	assert.Equal(t, 3, result.ActivitiesFetched)
	assert.Equal(t, 3, result.ActivitiesStored)
	assert.Equal(t, 2, result.RunsStored)
	assert.Equal(t, 1, result.DetailsFetched)
	assert.Equal(t, 2, src.detailCalls, "rides are not fetched in detail")
	assert.Len(t, result.Errors, 1)

	var phases []string
	for p := range progress {
		phases = append(phases, p.Phase)
	}
	assert.Contains(t, phases, "activities")
	assert.Contains(t, phases, "details")

	stored, err := db.GetActivity(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, telemetry.TypeRun, stored.Type)
	assert.Equal(t, 2700, stored.Duration)
	require.NotNil(t, stored.PerceivedExertion)
	assert.Equal(t, 6.0, *stored.PerceivedExertion)
	require.NotNil(t, stored.AvgHR)
	assert.Equal(t, 148.0, *stored.AvgHR)

	last, err := db.GetSyncTime(ctx, store.KeyLastStravaSync)
	require.NoError(t, err)
	assert.True(t, last.Equal(now))

	// the next sync resumes from the newest stored activity
	src.activities = nil
	_, err = svc.Sync(ctx, time.Time{}, nil)
	require.NoError(t, err)
	assert.True(t, src.after.Equal(now.Add(-26*time.Hour)), "after = %v", src.after)
}

func TestSyncExplicitSince(t *testing.T) {
	src := &fakeSource{}
	svc := NewSyncService(src, openDB(t), nil)

	since := now.AddDate(0, 0, -7)
	_, err := svc.Sync(context.Background(), since, nil)
	require.NoError(t, err)
	assert.Equal(t, since, src.after)
}

func TestSyncSourceError(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	src := &fakeSource{listErr: errors.New("boom")}

	_, err := NewSyncService(src, db, nil).Sync(ctx, time.Time{}, nil)
	assert.ErrorContains(t, err, "syncing activities: boom")

	last, err := db.GetSyncTime(ctx, store.KeyLastStravaSync)
	require.NoError(t, err)
	assert.True(t, last.IsZero())
}
