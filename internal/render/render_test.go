package render

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitness-coach/internal/adapt"
	"fitness-coach/internal/config"
	"fitness-coach/internal/plan"
	"fitness-coach/internal/service"
	"fitness-coach/internal/store"
	"fitness-coach/internal/telemetry"
)

// now is a Monday.
var now = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func plainRenderer() *Renderer {
	return New(config.DisplayConfig{DistanceUnit: "mi", PaceUnit: "min/mi", Color: false})
}

func marathon() plan.Goal {
	return plan.Goal{
		Type:          plan.GoalMarathon,
		TargetDate:    now.AddDate(0, 0, 60),
		TargetTime:    3*time.Hour + 29*time.Minute + 36*time.Second,
		WeeklyMileage: 40,
	}
}

func buildReport(t *testing.T) *service.Report {
	t.Helper()
	var hr []telemetry.HeartRateRecord
	for i := 0; i < 28; i++ {
		v := 50.0
		if i >= 14 {
			v = 54
		}
		hr = append(hr, telemetry.HeartRateRecord{Date: now.AddDate(0, 0, i-28), RestingHR: v})
	}
	report, err := service.NewPlanService(config.DefaultConfig(), nil).
		Build(context.Background(), telemetry.Snapshot{HeartRate: hr}, marathon(), now)
	require.NoError(t, err)
	return report
}

func TestReport(t *testing.T) {
	out := plainRenderer().Report(buildReport(t))

	for _, want := range []string{
		"marathon plan · week of Mar 2",
		"Schedule",
		"Long Run",
		"Tempo Run",
		"8:00/mi",
		"Recovery scaling",
		"90%",
		"Volume multiplier",
		"reduced for recovery",
		"1 fired / 14 evaluated",
		"54 bpm (baseline 50 bpm)",
		"concern",
		"4 bpm",
	} {
		assert.Contains(t, out, want)
	}
	// metrics without data are listed, not hidden
	assert.Regexp(t, `Sleep\s+n/a no data`, out)
	assert.NotContains(t, out, "\x1b[", "plain output has no escape codes")
}

func TestAnalysisNil(t *testing.T) {
	assert.Contains(t, plainRenderer().Analysis(nil), "No analysis available")
}

func TestAdaptations(t *testing.T) {
	res := &adapt.Result{
		MileageMultiplier: 0.8,
		StructureChanges: []adapt.StructureChange{
			{DayIndex: 2, FromType: plan.Tempo, ToType: plan.Easy, Reason: "multiple fatigue signals"},
		},
		PaceAdjustments: []adapt.PaceAdjustment{
			{Type: adapt.PaceEasy, ActualPace: 550, ReferencePace: 600, DivergenceSeconds: 50, Direction: "faster", Runs: 5},
		},
		LongRunAdjustment: &adapt.LongRunAdjustment{Kind: adapt.LongRunCap, CapMiles: 8, Reason: "recent runs are short"},
		Insights: []adapt.Insight{
			{Severity: adapt.SeverityWarning, Message: "Sleep is short"},
			{Severity: adapt.SeverityPositive, Message: "VO2max is improving"},
		},
		RulesEvaluated: 14,
		RulesFired:     4,
	}

	out := plainRenderer().Adaptations(res)
	assert.Contains(t, out, "0.80")
	assert.Contains(t, out, "Day 3: tempo → easy (multiple fatigue signals)")
	assert.Contains(t, out, "easy runs averaging 9:10/mi, 50 s/mi faster than 10:00/mi")
	assert.Contains(t, out, "Long run capped at 8.0 mi")
	assert.Contains(t, out, "[!] Sleep is short")
	assert.Contains(t, out, "[+] VO2max is improving")

	assert.Empty(t, plainRenderer().Adaptations(nil))
}

func TestUnits(t *testing.T) {
	mi := NewUnits(config.DisplayConfig{DistanceUnit: "mi", PaceUnit: "min/mi"})
	assert.Equal(t, "6.0 mi", mi.Distance(6))
	assert.Equal(t, "8:00/mi", mi.Pace(480))
	assert.Equal(t, "mi", mi.DistanceLabel())
	assert.Equal(t, []float64{1, 2}, mi.ConvertMiles([]float64{1, 2}))

	km := NewUnits(config.DisplayConfig{DistanceUnit: "km", PaceUnit: "min/km"})
	assert.Equal(t, "16.1 km", km.Distance(10))
	assert.Equal(t, "4:58/km", km.Pace(480))
	assert.Equal(t, "31 s/km", km.PaceDelta(50))
	assert.InDelta(t, 16.09, km.ConvertMiles([]float64{10})[0], 0.01)
}

func TestProjection(t *testing.T) {
	r := plainRenderer()
	weeks := plan.Project(marathon(), now)
	require.NotEmpty(t, weeks)

	out := r.Projection(weeks)
	assert.Contains(t, out, "Volume")
	assert.Contains(t, out, "race_week")
	assert.Contains(t, out, "weekly volume and long run (mi)")
	for _, w := range weeks {
		assert.Contains(t, out, w.WeekStart.Format("Jan 02"))
	}
	assert.Contains(t, out, "Projection (")

	assert.Empty(t, r.ProjectionChart(weeks[:1]))
	assert.Contains(t, r.Projection(nil), "No weeks to project")
	assert.Contains(t, r.Week(weeks[0]), "1st week")
}

func TestHistory(t *testing.T) {
	r := plainRenderer()
	assert.Contains(t, r.History(nil, now), "No plans generated yet")

	out := r.History([]store.PlanRun{{
		ID:                "0b6f3c9e-1d2a-4c55-9e1f-2a3b4c5d6e7f",
		CreatedAt:         now.Add(-2 * time.Hour),
		GoalType:          "marathon",
		Phase:             "build",
		TotalMiles:        36,
		MileageMultiplier: 0.9,
		RulesFired:        1,
	}}, now)
	assert.Contains(t, out, "History (1 plans)")
	assert.Contains(t, out, "0b6f3c9e ")
	assert.NotContains(t, out, "1d2a")
	assert.Contains(t, out, "2 hours ago")
	assert.Contains(t, out, "36.0 mi")
	assert.Contains(t, out, "0.90")
}

func TestRules(t *testing.T) {
	out := plainRenderer().Rules(adapt.Rules())
	assert.Contains(t, out, "Rule bank (14 rules)")
	assert.Contains(t, out, "rule_1_")
	assert.Contains(t, out, "rule_14_")
}
