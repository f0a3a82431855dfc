package plan

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidGoal is returned when a goal configuration cannot be planned.
var ErrInvalidGoal = errors.New("invalid goal")

// Category separates race goals from open-ended fitness goals.
type Category string

const (
	CategoryRace    Category = "race"
	CategoryNonRace Category = "non_race"
)

// GoalType is the specific goal the athlete is training for.
type GoalType string

const (
	Goal5K               GoalType = "5k"
	Goal10K              GoalType = "10k"
	GoalHalfMarathon     GoalType = "half_marathon"
	GoalMarathon         GoalType = "marathon"
	GoalUltra            GoalType = "ultra"
	GoalBuildMileage     GoalType = "build_mileage"
	GoalMaintain         GoalType = "maintain"
	GoalBaseBuilding     GoalType = "base_building"
	GoalReturnFromInjury GoalType = "return_from_injury"
)

// Experience is the athlete's self-reported running background.
type Experience string

const (
	Beginner     Experience = "beginner"
	Intermediate Experience = "intermediate"
	Advanced     Experience = "advanced"
)

// Intensity is the athlete's appetite for training load.
type Intensity string

const (
	Conservative Intensity = "conservative"
	Normal       Intensity = "normal"
	Aggressive   Intensity = "aggressive"
)

// raceSpec describes a race goal's distance.
type raceSpec struct {
	miles   float64
	meters  float64
	label   string
	longCap float64
}

var races = map[GoalType]raceSpec{
	Goal5K:           {3.1, 5000, "5K", 10},
	Goal10K:          {6.2, 10000, "10K", 12},
	GoalHalfMarathon: {13.1, 21097, "half marathon", 14},
	GoalMarathon:     {26.2, 42195, "marathon", 22},
	GoalUltra:        {31.1, 50000, "50K", 26},
}

// nonRaceLongRunCap applies to every non-race goal.
const nonRaceLongRunCap = 14

var nonRaceGoals = map[GoalType]string{
	GoalBuildMileage:     "build mileage",
	GoalMaintain:         "maintain fitness",
	GoalBaseBuilding:     "base building",
	GoalReturnFromInjury: "return from injury",
}

var defaultMileage = map[Experience]float64{
	Beginner:     15,
	Intermediate: 25,
	Advanced:     40,
}

// Goal is the athlete's training goal. It is immutable for a planning run.
type Goal struct {
	Category      Category      `json:"category" mapstructure:"category"`
	Type          GoalType      `json:"type" mapstructure:"type"`
	TargetDate    time.Time     `json:"target_date" mapstructure:"target_date"`
	TargetTime    time.Duration `json:"target_time" mapstructure:"target_time"`
	WeeklyMileage float64       `json:"weekly_mileage" mapstructure:"weekly_mileage"`
	Experience    Experience    `json:"experience" mapstructure:"experience"`
	LongRunDay    string        `json:"long_run_day" mapstructure:"long_run_day"`
	Intensity     Intensity     `json:"intensity" mapstructure:"intensity"`
}

// IsRace reports whether the goal is a race.
func (g Goal) IsRace() bool {
	_, ok := races[g.Type]
	return ok
}

// DistanceMiles returns the race distance, or 0 for non-race goals.
func (g Goal) DistanceMiles() float64 {
	return races[g.Type].miles
}

// DistanceMeters returns the race distance in meters, or 0 for non-race goals.
func (g Goal) DistanceMeters() float64 {
	return races[g.Type].meters
}

// Label returns a human-readable goal name.
func (g Goal) Label() string {
	if r, ok := races[g.Type]; ok {
		return r.label
	}
	if l, ok := nonRaceGoals[g.Type]; ok {
		return l
	}
	return string(g.Type)
}

// LongRunCap is the longest long run the goal ever prescribes.
func (g Goal) LongRunCap() float64 {
	if r, ok := races[g.Type]; ok {
		return r.longCap
	}
	return nonRaceLongRunCap
}

// LongRunWeekday returns the preferred long run day.
func (g Goal) LongRunWeekday() time.Weekday {
	if strings.EqualFold(g.LongRunDay, "saturday") {
		return time.Saturday
	}
	return time.Sunday
}

// Normalize fills unset fields with defaults. The receiver is not modified.
func (g Goal) Normalize() Goal {
	g.Type = GoalType(strings.ToLower(string(g.Type)))
	if g.Category == "" {
		g.Category = CategoryNonRace
		if g.IsRace() {
			g.Category = CategoryRace
		}
	}
	if g.Experience == "" {
		g.Experience = Intermediate
	}
	if g.Intensity == "" {
		g.Intensity = Normal
	}
	if g.LongRunDay == "" {
		g.LongRunDay = "sunday"
	}
	g.LongRunDay = strings.ToLower(g.LongRunDay)
	if g.WeeklyMileage <= 0 {
		g.WeeklyMileage = defaultMileage[g.Experience]
	}
	return g
}

// Validate checks that the goal can be planned.
func (g Goal) Validate() error {
	_, race := races[g.Type]
	_, nonRace := nonRaceGoals[g.Type]
	switch {
	case !race && !nonRace:
		return fmt.Errorf("%w: unknown goal type %q", ErrInvalidGoal, g.Type)
	case g.Category == CategoryRace && !race:
		return fmt.Errorf("%w: goal type %q is not a race", ErrInvalidGoal, g.Type)
	case g.Category == CategoryNonRace && race:
		return fmt.Errorf("%w: race goal %q marked as non-race", ErrInvalidGoal, g.Type)
	case g.Category != "" && g.Category != CategoryRace && g.Category != CategoryNonRace:
		return fmt.Errorf("%w: unknown category %q", ErrInvalidGoal, g.Category)
	case race && g.TargetDate.IsZero():
		return fmt.Errorf("%w: race goals need a target date", ErrInvalidGoal)
	case g.TargetTime < 0:
		return fmt.Errorf("%w: target time must not be negative", ErrInvalidGoal)
	case g.WeeklyMileage < 0:
		return fmt.Errorf("%w: weekly mileage must not be negative", ErrInvalidGoal)
	}

	if g.Experience != "" {
		if _, ok := defaultMileage[g.Experience]; !ok {
			return fmt.Errorf("%w: unknown experience %q", ErrInvalidGoal, g.Experience)
		}
	}
	switch g.Intensity {
	case "", Conservative, Normal, Aggressive:
	default:
		return fmt.Errorf("%w: unknown intensity %q", ErrInvalidGoal, g.Intensity)
	}
	switch strings.ToLower(g.LongRunDay) {
	case "", "saturday", "sunday":
	default:
		return fmt.Errorf("%w: long run day must be saturday or sunday, got %q", ErrInvalidGoal, g.LongRunDay)
	}
	return nil
}
