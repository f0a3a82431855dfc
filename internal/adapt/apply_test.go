package adapt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitness-coach/internal/plan"
)

func day(t plan.WorkoutType, miles float64) plan.DailyPlan {
	d := plan.DailyPlan{Type: t, Title: string(t)}
	if t != plan.Rest {
		d.Distance = floatPtr(miles)
	}
	return d
}

// week totals 36 mi: rest, easy 6, tempo 8, rest, easy 5, easy 4, long 13.
func testPlan() *plan.Plan {
	p := &plan.Plan{
		Summary: plan.WeekSummary{LongRunMiles: 13},
		Schedule: []plan.DailyPlan{
			day(plan.Rest, 0), day(plan.Easy, 6), day(plan.Tempo, 8), day(plan.Rest, 0),
			day(plan.Easy, 5), day(plan.Easy, 4), day(plan.LongRun, 13),
		},
	}
	p.Recalculate()
	return p
}

func TestApplyStructureChanges(t *testing.T) {
	p := testPlan()
	require.Equal(t, 36.0, p.Summary.TotalMiles)

	Apply(p, &Result{StructureChanges: []StructureChange{
		{DayIndex: 2, FromType: plan.Tempo, ToType: plan.Easy, Reason: "multiple fatigue signals"},
		{DayIndex: 1, FromType: plan.Easy, ToType: plan.Rest, Reason: "body battery declining"},
	}})

	assert.Equal(t, plan.Easy, p.Schedule[2].Type)
	assert.Equal(t, 6.0, p.Schedule[2].Miles())
	assert.Equal(t, "Adjusted: multiple fatigue signals", p.Schedule[2].Note)

	assert.Equal(t, plan.Rest, p.Schedule[1].Type)
	assert.Nil(t, p.Schedule[1].Distance)
	assert.Equal(t, "Rest", p.Schedule[1].Title)

	assert.Equal(t, 28.0, p.Summary.TotalMiles)
}

func TestApplySkipsStaleChanges(t *testing.T) {
	p := testPlan()
	Apply(p, &Result{StructureChanges: []StructureChange{
		{DayIndex: 4, FromType: plan.Tempo, ToType: plan.Easy},
		{DayIndex: 9, FromType: plan.Easy, ToType: plan.Rest},
	}})
	assert.Equal(t, testPlan().Schedule, p.Schedule)
	assert.Equal(t, 36.0, p.Summary.TotalMiles)
}

func TestApplyLongRunAdjustment(t *testing.T) {
	tests := []struct {
		name string
		adj  LongRunAdjustment
		want float64
	}{
		{"cap below plan", LongRunAdjustment{Kind: LongRunCap, CapMiles: 8}, 8},
		{"cap above plan", LongRunAdjustment{Kind: LongRunCap, CapMiles: 15}, 13},
		{"worst day reduction", LongRunAdjustment{Kind: LongRunReduce, ReducePercent: 0.10}, 12},
		{"missed long run reduction", LongRunAdjustment{Kind: LongRunReduce, ReducePercent: 0.15}, 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPlan()
			adj := tt.adj
			Apply(p, &Result{LongRunAdjustment: &adj})
			assert.Equal(t, tt.want, p.Schedule[6].Miles())
			assert.Equal(t, tt.want, p.Summary.LongRunMiles)
			assert.Equal(t, 23+tt.want, p.Summary.TotalMiles)
		})
	}
}

func TestApplyAppendsInsights(t *testing.T) {
	p := testPlan()
	p.CoachingNotes = []string{"Build phase."}
	Apply(p, &Result{Insights: []Insight{{Message: "Resting HR is up."}, {Message: "Nice work."}}})
	assert.Equal(t, []string{"Build phase.", "Resting HR is up.", "Nice work."}, p.CoachingNotes)
}

func TestApplyNil(t *testing.T) {
	assert.NotPanics(t, func() {
		Apply(nil, &Result{})
		Apply(testPlan(), nil)
	})
}
