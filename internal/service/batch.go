package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fitness-coach/internal/config"
	"fitness-coach/internal/plan"
	"fitness-coach/internal/telemetry"
)

// Job is one athlete's independent plan request.
type Job struct {
	Athlete  string
	Goal     plan.Goal
	Snapshot telemetry.Snapshot
	Now      time.Time
}

// jobFile is the on-disk form of a Job.
type jobFile struct {
	Athlete  string             `json:"athlete"`
	Goal     config.GoalConfig  `json:"goal"`
	Snapshot telemetry.Snapshot `json:"snapshot"`
}

// DecodeJob reads a JSON job. The goal uses the config file notation
// (dates as YYYY-MM-DD, target time as h:mm:ss). now is used as the
// planning date.
func DecodeJob(r io.Reader, now time.Time) (Job, error) {
	var f jobFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return Job{}, fmt.Errorf("decoding job: %w", err)
	}
	if f.Athlete == "" {
		return Job{}, fmt.Errorf("job has no athlete")
	}
	g, err := f.Goal.Goal()
	if err != nil {
		return Job{}, fmt.Errorf("athlete %s: %w", f.Athlete, err)
	}
	return Job{Athlete: f.Athlete, Goal: g, Snapshot: f.Snapshot, Now: now}, nil
}

// BatchPlanner builds plans for many athletes in parallel. Jobs share
// nothing but the read-only PlanService.
type BatchPlanner struct {
	svc         *PlanService
	concurrency int
	logger      *zap.Logger
}

// NewBatchPlanner creates a planner running at most concurrency builds at
// once.
func NewBatchPlanner(svc *PlanService, concurrency int, logger *zap.Logger) *BatchPlanner {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchPlanner{svc: svc, concurrency: concurrency, logger: logger}
}

// Run builds every job. Reports are returned in job order. The first
// failure cancels the remaining builds.
func (b *BatchPlanner) Run(ctx context.Context, jobs []Job) ([]*Report, error) {
	reports := make([]*Report, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for i, job := range jobs {
		g.Go(func() error {
			report, err := b.svc.Build(ctx, job.Snapshot, job.Goal, job.Now)
			if err != nil {
				return fmt.Errorf("athlete %s: %w", job.Athlete, err)
			}
			reports[i] = report
			b.logger.Debug("athlete planned",
				zap.String("athlete", job.Athlete),
				zap.Float64("total_miles", report.Plan.Summary.TotalMiles))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b.logger.Info("batch complete", zap.Int("athletes", len(jobs)))
	return reports, nil
}
