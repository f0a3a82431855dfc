package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"fitness-coach/internal/store"
	"fitness-coach/internal/strava"
	"fitness-coach/internal/telemetry"
)

// initialSyncDays bounds the first sync when nothing was synced before.
const initialSyncDays = 90

// ActivitySource is the part of the Strava client used by sync.
type ActivitySource interface {
	GetAllActivities(ctx context.Context, after time.Time, onProgress func(fetched int)) ([]strava.Activity, error)
	GetActivity(ctx context.Context, id int64) (*strava.Activity, error)
}

// SyncService orchestrates syncing data from Strava
type SyncService struct {
	client ActivitySource
	store  *store.DB
	logger *zap.Logger
	now    func() time.Time

	// FetchDetails fetches each new run individually to pick up the
	// perceived exertion, which the list endpoint omits.
	FetchDetails bool
}

// NewSyncService creates a new sync service
func NewSyncService(client ActivitySource, db *store.DB, logger *zap.Logger) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncService{client: client, store: db, logger: logger, now: time.Now}
}

// SyncProgress reports progress during sync
type SyncProgress struct {
	Phase     string // "activities", "details"
	Total     int
	Completed int
}

// SyncResult contains the results of a sync operation
type SyncResult struct {
	After             time.Time
	ActivitiesFetched int
	ActivitiesStored  int
	RunsStored        int
	DetailsFetched    int
	Errors            []error
}

// Sync pulls activities started after the last sync (or since, when not
// zero) and stores them. progress may be nil; it is closed on return.
func (s *SyncService) Sync(ctx context.Context, since time.Time, progress chan<- SyncProgress) (*SyncResult, error) {
	if progress != nil {
		defer close(progress)
	}

	after, err := s.syncStart(ctx, since)
	if err != nil {
		return nil, err
	}
	result := &SyncResult{After: after}
	started := s.now()

	send := func(p SyncProgress) {
		if progress == nil {
			return
		}
		select {
		case progress <- p:
		case <-ctx.Done():
		}
	}

	send(SyncProgress{Phase: "activities"})
	fetched, err := s.client.GetAllActivities(ctx, after, func(n int) {
		send(SyncProgress{Phase: "activities", Total: n, Completed: n})
	})
	if err != nil {
		return result, fmt.Errorf("syncing activities: %w", err)
	}
	result.ActivitiesFetched = len(fetched)

	activities := make([]telemetry.Activity, 0, len(fetched))
	for i, a := range fetched {
		if s.FetchDetails && telemetry.ParseActivityType(a.SportType) == telemetry.TypeRun && a.PerceivedExertion == nil {
			detail, err := s.client.GetActivity(ctx, a.ID)
			if err != nil {
				if ctx.Err() != nil {
					return result, ctx.Err()
				}
				result.Errors = append(result.Errors, err)
				s.logger.Warn("activity detail failed", zap.Int64("id", a.ID), zap.Error(err))
			} else {
				a.PerceivedExertion = detail.PerceivedExertion
				result.DetailsFetched++
			}
			send(SyncProgress{Phase: "details", Total: len(fetched), Completed: i + 1})
		}

		act := a.ToTelemetry()
		if act.IsRun() {
			result.RunsStored++
		}
		activities = append(activities, act)
	}

	if err := s.store.UpsertActivities(ctx, activities, store.SourceStrava); err != nil {
		return result, fmt.Errorf("storing activities: %w", err)
	}
	result.ActivitiesStored = len(activities)

	if err := s.store.SetSyncTime(ctx, store.KeyLastStravaSync, started); err != nil {
		return result, fmt.Errorf("saving sync time: %w", err)
	}

	s.logger.Info("strava sync complete",
		zap.Time("after", after),
		zap.Int("fetched", result.ActivitiesFetched),
		zap.Int("runs", result.RunsStored),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// syncStart picks the lower bound of the sync. An explicit since wins;
// otherwise the newest stored Strava activity, then the initial window.
func (s *SyncService) syncStart(ctx context.Context, since time.Time) (time.Time, error) {
	if !since.IsZero() {
		return since, nil
	}
	latest, ok, err := s.store.LatestActivityStart(ctx, store.SourceStrava)
	if err != nil {
		return time.Time{}, fmt.Errorf("reading last activity: %w", err)
	}
	if ok {
		return latest, nil
	}
	return s.now().AddDate(0, 0, -initialSyncDays), nil
}
