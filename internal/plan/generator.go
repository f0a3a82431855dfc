// Package plan builds the weekly training prescription and the multi-week
// projection from a goal and the current readiness assessment.
package plan

import (
	"math"
	"time"

	"fitness-coach/internal/analysis"
	"fitness-coach/internal/telemetry"
)

// WeekSummary describes the planned week.
type WeekSummary struct {
	WeekStart          time.Time `json:"week_start"`
	TotalMiles         float64   `json:"total_miles"`
	Phase              Phase     `json:"phase"`
	Focus              string    `json:"focus"`
	WeeklyTarget       float64   `json:"weekly_target"`
	LongRunMiles       float64   `json:"long_run_miles"`
	WeeksUntilGoal     int       `json:"weeks_until_goal"`
	RecoveryMultiplier float64   `json:"recovery_multiplier"`
}

// Plan is the weekly prescription. It is built fresh on every request.
type Plan struct {
	Goal                    Goal             `json:"goal"`
	Summary                 WeekSummary      `json:"summary"`
	Schedule                []DailyPlan      `json:"schedule"`
	Paces                   *Paces           `json:"paces"`
	CoachingNotes           []string         `json:"coaching_notes"`
	RecoveryRecommendations []string         `json:"recovery_recommendations"`
	Projection              []WeekProjection `json:"projection"`
}

// GoalPace returns the target pace, or nil when none could be derived.
func (p *Plan) GoalPace() *float64 {
	if p.Paces == nil {
		return nil
	}
	v := p.Paces.Target
	return &v
}

// LongRunIndex returns the schedule index of the long run, or -1.
func (p *Plan) LongRunIndex() int {
	for i, d := range p.Schedule {
		if d.Type == LongRun {
			return i
		}
	}
	return -1
}

// Recalculate sums the schedule into the week total.
func (p *Plan) Recalculate() {
	var total float64
	for _, d := range p.Schedule {
		total += d.Miles()
	}
	p.Summary.TotalMiles = math.Round(total*10) / 10
}

type options struct {
	recovery float64
}

// Option adjusts plan generation.
type Option func(*options)

// WithRecoveryMultiplier scales the weekly volume by m when m < 1.0.
func WithRecoveryMultiplier(m float64) Option {
	return func(o *options) {
		o.recovery = m
	}
}

// Generate builds the plan for the week containing now. The goal is
// normalized first; results may be nil or entirely unavailable.
func Generate(goal Goal, results *analysis.Results, now time.Time, opts ...Option) *Plan {
	o := options{recovery: 1.0}
	for _, opt := range opts {
		opt(&o)
	}
	if o.recovery <= 0 || o.recovery > 1.0 {
		o.recovery = 1.0
	}

	g := goal.Normalize()
	today := telemetry.DateOf(now)
	phase := PhaseFor(g, today)
	weekly := WeeklyMiles(g, phase, o.recovery)
	long := LongRunMiles(g, phase, weekly)
	paces := DerivePaces(g, results)

	weeks := -1
	if g.IsRace() {
		weeks = WeeksUntil(g.TargetDate, today)
	}

	// race week is laid out on the calendar week that holds the race, which
	// is the following week when the race is a few days off
	weekStart := WeekStart(today)
	if phase == PhaseRaceWeek {
		weekStart = WeekStart(telemetry.DateOf(g.TargetDate))
	}

	p := &Plan{
		Goal: g,
		Summary: WeekSummary{
			WeekStart:          weekStart,
			Phase:              phase,
			Focus:              phase.Focus(),
			WeeklyTarget:       weekly,
			LongRunMiles:       long,
			WeeksUntilGoal:     weeks,
			RecoveryMultiplier: o.recovery,
		},
		Schedule:                buildSchedule(g, phase, weekStart, weekly, long, paces),
		Paces:                   paces,
		CoachingNotes:           coachingNotes(g, phase, weeks, paces, results),
		RecoveryRecommendations: recoveryRecommendations(results),
		Projection:              Project(g, today),
	}
	p.Recalculate()
	return p
}
