// Package service wires the coaching engine to its collaborators: it runs
// the analyze, draft, adapt and finalize pipeline, fans it out over many
// athletes and ingests activities from Strava.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"fitness-coach/internal/adapt"
	"fitness-coach/internal/analysis"
	"fitness-coach/internal/config"
	"fitness-coach/internal/plan"
	"fitness-coach/internal/store"
	"fitness-coach/internal/telemetry"
)

// SnapshotDays is how much history is loaded for one plan.
const SnapshotDays = 42

// Report is everything produced for one plan request.
type Report struct {
	Analysis    *analysis.Results     `json:"analysis"`
	Plan        *plan.Plan            `json:"plan"`
	Adaptations *adapt.Result         `json:"adaptations"`
	Projection  []plan.WeekProjection `json:"projection"`
	GeneratedAt time.Time             `json:"generated_at"`
}

// PlanService builds adapted weekly plans. It holds no per-request state
// and is safe for concurrent use.
type PlanService struct {
	analyzer *analysis.Analyzer
	engine   *adapt.Engine
	logger   *zap.Logger
}

// NewPlanService creates a plan service calibrated from cfg.
func NewPlanService(cfg *config.Config, logger *zap.Logger) *PlanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanService{
		analyzer: analysis.NewAnalyzer(cfg.Analysis, cfg.Athlete.Zones()),
		engine:   adapt.NewEngine(cfg.Adaptation),
		logger:   logger,
	}
}

// Analyze grades snap without planning.
func (s *PlanService) Analyze(snap telemetry.Snapshot) *analysis.Results {
	return s.analyzer.Analyze(snap)
}

// Build runs the full pipeline for one athlete. The draft plan feeds the
// adaptation engine; the final plan is regenerated with the resulting
// mileage multiplier and then has the adaptations applied.
func (s *PlanService) Build(ctx context.Context, snap telemetry.Snapshot, goal plan.Goal, now time.Time) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g := goal.Normalize()
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("validating goal: %w", err)
	}

	results := s.analyzer.Analyze(snap)
	draft := plan.Generate(g, results, now)

	adaptations := s.engine.Compute(adapt.Input{
		Analysis:        results,
		Telemetry:       snap,
		Phase:           draft.Summary.Phase,
		GoalPace:        draft.GoalPace(),
		ExpectedLongRun: draft.Summary.LongRunMiles,
		LongRunDay:      g.LongRunWeekday(),
		Schedule:        draft.Schedule,
		Now:             now,
	})
	s.logger.Debug("adaptation computed",
		zap.String("goal", string(g.Type)),
		zap.String("phase", string(draft.Summary.Phase)),
		zap.Int("rules_evaluated", adaptations.RulesEvaluated),
		zap.Int("rules_fired", adaptations.RulesFired),
		zap.Strings("fired", adaptations.FiredRules),
		zap.Strings("skipped", adaptations.RulesSkipped),
		zap.Float64("multiplier", adaptations.MileageMultiplier),
	)

	final := plan.Generate(g, results, now, plan.WithRecoveryMultiplier(adaptations.MileageMultiplier))
	adapt.Apply(final, adaptations)
	s.logger.Debug("plan built",
		zap.Float64("weekly_target", final.Summary.WeeklyTarget),
		zap.Float64("total_miles", final.Summary.TotalMiles),
		zap.Int("structure_changes", len(adaptations.StructureChanges)),
	)

	return &Report{
		Analysis:    results,
		Plan:        final,
		Adaptations: adaptations,
		Projection:  final.Projection,
		GeneratedAt: now,
	}, nil
}

// PlanRun converts a report into its stored form.
func (r *Report) PlanRun() (store.PlanRun, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return store.PlanRun{}, fmt.Errorf("encoding report: %w", err)
	}
	return store.PlanRun{
		CreatedAt:         r.GeneratedAt,
		GoalType:          string(r.Plan.Goal.Type),
		Phase:             string(r.Plan.Summary.Phase),
		WeeklyTarget:      r.Plan.Summary.WeeklyTarget,
		TotalMiles:        r.Plan.Summary.TotalMiles,
		MileageMultiplier: r.Adaptations.MileageMultiplier,
		RulesFired:        r.Adaptations.RulesFired,
		Report:            body,
	}, nil
}

// PlanFromStore loads the stored goal and trailing snapshot and builds the
// plan for now. The run is recorded in the plan history when record is set.
func (s *PlanService) PlanFromStore(ctx context.Context, db *store.DB, now time.Time, record bool) (*Report, error) {
	goal, err := db.GetGoal(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := db.LoadSnapshot(ctx, now, SnapshotDays)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	report, err := s.Build(ctx, snap, goal, now)
	if err != nil {
		return nil, err
	}
	if !record {
		return report, nil
	}

	run, err := report.PlanRun()
	if err != nil {
		return nil, err
	}
	id, err := db.SavePlanRun(ctx, run)
	if err != nil {
		return nil, fmt.Errorf("saving plan run: %w", err)
	}
	s.logger.Info("plan recorded", zap.String("id", id))
	return report, nil
}
