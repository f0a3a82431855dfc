package plan

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitness-coach/internal/analysis"
	"fitness-coach/internal/telemetry"
)

// monday is the reference "today" for all plan tests.
var monday = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func raceGoal(t GoalType, daysOut int) Goal {
	return Goal{
		Type:          t,
		TargetDate:    monday.AddDate(0, 0, daysOut),
		WeeklyMileage: 40,
		Experience:    Intermediate,
		Intensity:     Normal,
		LongRunDay:    "sunday",
	}
}

func types(schedule []DailyPlan) []WorkoutType {
	out := make([]WorkoutType, len(schedule))
	for i, d := range schedule {
		out[i] = d.Type
	}
	return out
}

func miles(schedule []DailyPlan) []float64 {
	out := make([]float64, len(schedule))
	for i, d := range schedule {
		out[i] = d.Miles()
	}
	return out
}

func TestPhaseFor(t *testing.T) {
	tests := []struct {
		name    string
		goal    Goal
		want    Phase
		wantWks int
	}{
		{"race today", raceGoal(GoalMarathon, 0), PhaseRaceWeek, 0},
		{"race in six days", raceGoal(GoalMarathon, 6), PhaseRaceWeek, 0},
		{"one week", raceGoal(GoalMarathon, 7), PhaseTaper, 1},
		{"two weeks", raceGoal(GoalMarathon, 14), PhaseTaper, 2},
		{"three weeks", raceGoal(GoalMarathon, 27), PhaseTaper, 3},
		{"four weeks", raceGoal(GoalMarathon, 28), PhasePeak, 4},
		{"six weeks", raceGoal(GoalMarathon, 48), PhasePeak, 6},
		{"seven weeks", raceGoal(GoalMarathon, 49), PhaseBuild, 7},
		{"twelve weeks", raceGoal(GoalMarathon, 84), PhaseBuild, 12},
		{"thirteen weeks", raceGoal(GoalMarathon, 91), PhaseBase, 13},
		{"race passed", raceGoal(GoalMarathon, -1), PhaseMaintenance, -1},
		{"build mileage", Goal{Type: GoalBuildMileage}, PhaseBuild, -1},
		{"base building", Goal{Type: GoalBaseBuilding}, PhaseBuild, -1},
		{"maintain", Goal{Type: GoalMaintain}, PhaseMaintenance, -1},
		{"return from injury", Goal{Type: GoalReturnFromInjury}, PhaseMaintenance, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PhaseFor(tt.goal, monday))
			if tt.goal.IsRace() {
				assert.Equal(t, tt.wantWks, WeeksUntil(tt.goal.TargetDate, monday))
			}
		})
	}
}

func TestWeeklyMiles(t *testing.T) {
	tests := []struct {
		name     string
		goal     Goal
		phase    Phase
		recovery float64
		want     float64
	}{
		{"build normal", Goal{WeeklyMileage: 40, Intensity: Normal}, PhaseBuild, 1, 40},
		{"base normal", Goal{WeeklyMileage: 40, Intensity: Normal}, PhaseBase, 1, 34},
		{"peak aggressive", Goal{WeeklyMileage: 40, Intensity: Aggressive}, PhasePeak, 1, 51},
		{"taper", Goal{WeeklyMileage: 40, Intensity: Normal}, PhaseTaper, 1, 24},
		{"race week", Goal{WeeklyMileage: 40, Intensity: Normal}, PhaseRaceWeek, 1, 12},
		{"conservative", Goal{WeeklyMileage: 40, Intensity: Conservative}, PhaseBuild, 1, 34},
		{"recovery multiplier", Goal{WeeklyMileage: 40, Intensity: Normal}, PhaseBuild, 0.7, 28},
		{"multiplier above one ignored", Goal{WeeklyMileage: 40, Intensity: Normal}, PhaseBuild, 1.2, 40},
		{"injury forces conservative", Goal{Type: GoalReturnFromInjury, WeeklyMileage: 40, Intensity: Aggressive}, PhaseMaintenance, 1, 34},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeeklyMiles(tt.goal, tt.phase, tt.recovery))
		})
	}
}

func TestLongRunMiles(t *testing.T) {
	marathon := Goal{Type: GoalMarathon}
	assert.Equal(t, 13.0, LongRunMiles(marathon, PhaseBuild, 40))
	assert.Equal(t, 20.0, LongRunMiles(marathon, PhasePeak, 60))
	assert.Equal(t, 22.0, LongRunMiles(marathon, PhasePeak, 80), "capped by goal type")
	assert.Equal(t, 10.0, LongRunMiles(Goal{Type: Goal5K}, PhasePeak, 50))
	assert.Equal(t, 4.0, LongRunMiles(marathon, PhaseBase, 10), "floor")
	assert.Equal(t, 14.0, LongRunMiles(Goal{Type: GoalMaintain}, PhaseMaintenance, 60))
	assert.Zero(t, LongRunMiles(marathon, PhaseRaceWeek, 12))
}

func TestScheduleTemplates(t *testing.T) {
	t.Run("build week with Sunday long run", func(t *testing.T) {
		p := Generate(raceGoal(GoalMarathon, 60), nil, monday)
		require.Len(t, p.Schedule, 7)
		assert.Equal(t, PhaseBuild, p.Summary.Phase)
		assert.Equal(t, []WorkoutType{Rest, Easy, Tempo, Rest, Easy, Easy, LongRun}, types(p.Schedule))
		assert.Equal(t, []float64{0, 8, 8, 0, 7, 4, 13}, miles(p.Schedule))
		assert.Equal(t, 40.0, p.Summary.TotalMiles)
		assert.Nil(t, p.Schedule[0].Distance)
		assert.Equal(t, "Shakeout", p.Schedule[5].Title)
		assert.Equal(t, "Monday", p.Schedule[0].Day)
		assert.Equal(t, time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), p.Schedule[6].Date)
		assert.Equal(t, 6, p.LongRunIndex())
	})

	t.Run("build week with Saturday long run", func(t *testing.T) {
		g := raceGoal(GoalMarathon, 60)
		g.LongRunDay = "Saturday"
		p := Generate(g, nil, monday)
		assert.Equal(t, []WorkoutType{Rest, Easy, Tempo, Easy, Easy, LongRun, Easy}, types(p.Schedule))
		assert.Equal(t, []float64{0, 7, 7, 6, 3, 13, 4}, miles(p.Schedule))
		assert.Equal(t, "Recovery Run", p.Schedule[6].Title)
		assert.Equal(t, 5, p.LongRunIndex())
	})

	t.Run("base week has no tempo and low volume drops the shakeout", func(t *testing.T) {
		g := raceGoal(GoalHalfMarathon, 120)
		g.WeeklyMileage = 20
		p := Generate(g, nil, monday)
		assert.Equal(t, PhaseBase, p.Summary.Phase)
		assert.Equal(t, []WorkoutType{Rest, Easy, Easy, Rest, Easy, Rest, LongRun}, types(p.Schedule))
	})

	t.Run("taper keeps a short tempo", func(t *testing.T) {
		p := Generate(raceGoal(GoalMarathon, 14), nil, monday)
		assert.Equal(t, PhaseTaper, p.Summary.Phase)
		assert.Equal(t, []WorkoutType{Rest, Easy, Tempo, Rest, Easy, Rest, LongRun}, types(p.Schedule))
		assert.Equal(t, "Short Tempo", p.Schedule[2].Title)
		assert.Equal(t, []float64{0, 6, 4, 0, 6, 0, 7}, miles(p.Schedule))
		assert.Equal(t, 24.0, p.Summary.WeeklyTarget)
	})
}

func TestRaceWeek(t *testing.T) {
	t.Run("Sunday marathon", func(t *testing.T) {
		p := Generate(raceGoal(GoalMarathon, 6), nil, monday)
		assert.Equal(t, PhaseRaceWeek, p.Summary.Phase)
		assert.Equal(t, []WorkoutType{Easy, Easy, Rest, Easy, Easy, Rest, Race}, types(p.Schedule))
		assert.Equal(t, []float64{4, 3, 0, 3, 2, 0, 26.2}, miles(p.Schedule))
		assert.Equal(t, "Race Day: marathon", p.Schedule[6].Title)
		assert.Zero(t, p.Summary.LongRunMiles)
		assert.Equal(t, -1, p.LongRunIndex())
	})

	t.Run("Saturday 5K scales the shakeouts", func(t *testing.T) {
		p := Generate(raceGoal(Goal5K, 5), nil, monday)
		assert.Equal(t, []WorkoutType{Easy, Rest, Easy, Easy, Rest, Race, Rest}, types(p.Schedule))
		assert.Equal(t, []float64{1.8, 0, 1.8, 1.2, 0, 3.1, 0}, miles(p.Schedule))
	})

	t.Run("race on goal weekday mid-week", func(t *testing.T) {
		// Thursday race, checked from the Monday of that week
		p := Generate(raceGoal(Goal10K, 3), nil, monday)
		assert.Equal(t, Race, p.Schedule[3].Type)
		assert.Equal(t, 6.2, p.Schedule[3].Miles())
		assert.Equal(t, Rest, p.Schedule[4].Type)
	})

	t.Run("race early next week", func(t *testing.T) {
		friday := time.Date(2026, 10, 16, 7, 0, 0, 0, time.UTC)
		g := raceGoal(Goal10K, 0)
		g.TargetDate = time.Date(2026, 10, 22, 0, 0, 0, 0, time.UTC) // Thursday

		p := Generate(g, nil, friday)
		assert.Equal(t, PhaseRaceWeek, p.Summary.Phase)
		assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), p.Summary.WeekStart)
		assert.Equal(t, Race, p.Schedule[3].Type)
		assert.Equal(t, g.TargetDate, p.Schedule[3].Date)
		assert.Equal(t, "Thursday", p.Schedule[3].Day)

		var races int
		for i, d := range p.Schedule {
			assert.Equal(t, p.Summary.WeekStart.AddDate(0, 0, i), d.Date)
			if d.Type == Race {
				races++
			}
		}
		assert.Equal(t, 1, races)
	})

	t.Run("race date is the race slot date", func(t *testing.T) {
		for days := 0; days < 7; days++ {
			g := raceGoal(Goal5K, days)
			p := Generate(g, nil, monday)
			idx := telemetry.WeekdayIndex(g.TargetDate.Weekday())
			assert.Equal(t, Race, p.Schedule[idx].Type, "race in %d days", days)
			assert.Equal(t, telemetry.DateOf(g.TargetDate), p.Schedule[idx].Date, "race in %d days", days)
		}
	})
}

func TestDerivePaces(t *testing.T) {
	g := raceGoal(GoalMarathon, 60)
	g.TargetTime = 3*time.Hour + 29*time.Minute + 36*time.Second

	p := DerivePaces(g, nil)
	require.NotNil(t, p)
	assert.Equal(t, 480.0, p.Target)
	assert.Equal(t, 540.0, p.EasyFast)
	assert.Equal(t, 600.0, p.EasySlow)
	assert.Equal(t, 480.0, p.TempoFast)
	assert.Equal(t, 495.0, p.TempoSlow)
	assert.Equal(t, PaceFromGoalTime, p.Source)

	t.Run("falls back to fitness estimate", func(t *testing.T) {
		res := &analysis.Results{Fitness: &analysis.FitnessEstimate{VDOT: 50}}
		p := DerivePaces(raceGoal(GoalMarathon, 60), res)
		require.NotNil(t, p)
		assert.Equal(t, 400.0, p.Target)
		assert.Equal(t, PaceFromFitness, p.Source)
	})

	t.Run("no pace without time or fitness", func(t *testing.T) {
		assert.Nil(t, DerivePaces(raceGoal(GoalMarathon, 60), &analysis.Results{}))
		assert.Nil(t, DerivePaces(Goal{Type: GoalMaintain, TargetTime: time.Hour}, nil))
	})
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "8:00", FormatPace(480))
	assert.Equal(t, "9:05", FormatPace(544.6))
	assert.Equal(t, "--:--", FormatPace(0))
	assert.Equal(t, "3:29:36", FormatDuration(12576))
	assert.Equal(t, "19:00", FormatDuration(1140))
	assert.Equal(t, "--:--", FormatDuration(0))
}

func TestProjection(t *testing.T) {
	weeks := Project(raceGoal(GoalMarathon, 91), monday)
	require.Len(t, weeks, 14)

	wantPhases := []Phase{
		PhaseBase, PhaseBuild, PhaseBuild, PhaseBuild, PhaseBuild, PhaseBuild, PhaseBuild,
		PhasePeak, PhasePeak, PhasePeak, PhaseTaper, PhaseTaper, PhaseTaper, PhaseRaceWeek,
	}
	for i, w := range weeks {
		assert.Equal(t, wantPhases[i], w.Phase, "week %d", i+1)
		assert.Equal(t, i+1, w.WeekNumber)
		assert.Equal(t, time.Monday, w.WeekStart.Weekday())
	}
	assert.Equal(t, 34.0, weeks[0].WeeklyMiles)
	assert.Equal(t, 44.0, weeks[7].WeeklyMiles)
	assert.Equal(t, 12.0, weeks[13].WeeklyMiles)
	assert.Zero(t, weeks[13].LongRunMiles)
	assert.Equal(t, 0, weeks[13].WeeksUntilGoal)

	t.Run("non-race goals preview twelve weeks", func(t *testing.T) {
		weeks := Project(Goal{Type: GoalBuildMileage, WeeklyMileage: 30}, monday)
		require.Len(t, weeks, 12)
		for _, w := range weeks {
			assert.Equal(t, PhaseBuild, w.Phase)
			assert.Equal(t, 30.0, w.WeeklyMiles)
		}
	})

	t.Run("past race has nothing to preview", func(t *testing.T) {
		assert.Empty(t, Project(raceGoal(GoalMarathon, -10), monday))
	})
}

func TestGenerateDefaultsOnly(t *testing.T) {
	// nothing but the goal type: everything else comes from defaults
	p := Generate(Goal{Type: GoalMaintain}, &analysis.Results{}, monday)
	require.NotNil(t, p)
	assert.Equal(t, 25.0, p.Goal.WeeklyMileage)
	assert.Equal(t, PhaseMaintenance, p.Summary.Phase)
	assert.Equal(t, 25.0, p.Summary.WeeklyTarget)
	assert.Len(t, p.Schedule, 7)
	assert.Nil(t, p.Paces)
	assert.Nil(t, p.GoalPace())
	assert.Empty(t, p.RecoveryRecommendations)
	assert.NotEmpty(t, p.CoachingNotes)
	assert.Len(t, p.Projection, 12)
}

func TestGenerateWithRecoveryMultiplier(t *testing.T) {
	g := raceGoal(GoalMarathon, 60)
	full := Generate(g, nil, monday)
	reduced := Generate(g, nil, monday, WithRecoveryMultiplier(0.7))

	assert.Equal(t, 40.0, full.Summary.WeeklyTarget)
	assert.Equal(t, 28.0, reduced.Summary.WeeklyTarget)
	assert.Equal(t, 0.7, reduced.Summary.RecoveryMultiplier)
	assert.Less(t, reduced.Summary.TotalMiles, full.Summary.TotalMiles)
	// projection never carries the adaptation
	assert.Equal(t, full.Projection, reduced.Projection)
}

func TestRecoveryRecommendations(t *testing.T) {
	res := &analysis.Results{
		RestingHR: &analysis.RestingHRSummary{Series: analysis.Series{Change: 4, Status: analysis.StatusConcern}},
		Sleep:     &analysis.SleepSummary{Series: analysis.Series{Current: 6.1, Status: analysis.StatusConcern}},
		Stress:    &analysis.StressSummary{Series: analysis.Series{Status: analysis.StatusGood}},
	}
	recs := recoveryRecommendations(res)
	require.Len(t, recs, 2)
	assert.Contains(t, recs[0], "up 4 bpm")
	assert.Contains(t, recs[1], "6.1 h")
}

func TestCoachingNotesPrediction(t *testing.T) {
	g := raceGoal(GoalMarathon, 60).Normalize()
	g.TargetTime = 3 * time.Hour
	res := &analysis.Results{Fitness: &analysis.FitnessEstimate{VDOT: 50}}

	notes := coachingNotes(g, PhaseBuild, 8, DerivePaces(g, res), res)
	assert.Contains(t, notes, "Recent runs predict 2:54:54, 5:06 ahead of your goal.")
	assert.Contains(t, notes, "8 weeks until your marathon.")
}

func TestGoalValidate(t *testing.T) {
	tests := []struct {
		name    string
		goal    Goal
		wantErr bool
	}{
		{"valid race", raceGoal(Goal10K, 30), false},
		{"valid non-race", Goal{Type: GoalMaintain}, false},
		{"unknown type", Goal{Type: "triathlon"}, true},
		{"race without date", Goal{Type: GoalMarathon}, true},
		{"race marked non-race", Goal{Type: Goal5K, Category: CategoryNonRace, TargetDate: monday}, true},
		{"non-race marked race", Goal{Type: GoalMaintain, Category: CategoryRace}, true},
		{"negative mileage", Goal{Type: GoalMaintain, WeeklyMileage: -5}, true},
		{"bad long run day", Goal{Type: GoalMaintain, LongRunDay: "wednesday"}, true},
		{"bad intensity", Goal{Type: GoalMaintain, Intensity: "extreme"}, true},
		{"bad experience", Goal{Type: GoalMaintain, Experience: "elite"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.goal.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidGoal))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGoalNormalize(t *testing.T) {
	g := Goal{Type: "Marathon", Experience: Advanced, LongRunDay: "Saturday"}.Normalize()
	assert.Equal(t, GoalMarathon, g.Type)
	assert.Equal(t, CategoryRace, g.Category)
	assert.Equal(t, 40.0, g.WeeklyMileage)
	assert.Equal(t, Normal, g.Intensity)
	assert.Equal(t, time.Saturday, g.LongRunWeekday())
	assert.Equal(t, 22.0, g.LongRunCap())

	b := Goal{Type: GoalBuildMileage, Experience: Beginner}.Normalize()
	assert.Equal(t, CategoryNonRace, b.Category)
	assert.Equal(t, 15.0, b.WeeklyMileage)
	assert.Equal(t, time.Sunday, b.LongRunWeekday())
}

func TestWeekStart(t *testing.T) {
	sunday := time.Date(2026, 3, 8, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), WeekStart(sunday))
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), WeekStart(monday))
}
