package plan

import (
	"time"

	"fitness-coach/internal/telemetry"
)

const (
	// nonRaceProjectionWeeks is the preview length for goals without a date.
	nonRaceProjectionWeeks = 12
	maxProjectionWeeks     = 104
)

// WeekProjection is one row of the multi-week preview.
type WeekProjection struct {
	WeekNumber     int       `json:"week_number"`
	WeekStart      time.Time `json:"week_start"`
	Phase          Phase     `json:"phase"`
	WeeklyMiles    float64   `json:"weekly_miles"`
	LongRunMiles   float64   `json:"long_run_miles"`
	WeeksUntilGoal int       `json:"weeks_until_goal"`
	Focus          string    `json:"focus"`
}

// Project previews every week from the current Monday to the goal date.
// Each week is computed independently without adaptation.
func Project(goal Goal, now time.Time) []WeekProjection {
	g := goal.Normalize()
	today := telemetry.DateOf(now)
	target := telemetry.DateOf(g.TargetDate)
	first := WeekStart(today)

	var weeks []WeekProjection
	for i := 0; ; i++ {
		start := first.AddDate(0, 0, 7*i)
		asOf := start
		if i == 0 {
			asOf = today
		}
		switch {
		case i >= maxProjectionWeeks:
			return weeks
		case g.IsRace() && asOf.After(target):
			return weeks
		case !g.IsRace() && i >= nonRaceProjectionWeeks:
			return weeks
		}

		phase := PhaseFor(g, asOf)
		weekly := WeeklyMiles(g, phase, 1.0)
		until := -1
		if g.IsRace() {
			until = WeeksUntil(g.TargetDate, asOf)
		}
		weeks = append(weeks, WeekProjection{
			WeekNumber:     i + 1,
			WeekStart:      start,
			Phase:          phase,
			WeeklyMiles:    weekly,
			LongRunMiles:   LongRunMiles(g, phase, weekly),
			WeeksUntilGoal: until,
			Focus:          phase.Focus(),
		})
	}
}
