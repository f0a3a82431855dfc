package plan

import (
	"time"

	"fitness-coach/internal/telemetry"
)

// Phase is a periodization stage.
type Phase string

const (
	PhaseBase        Phase = "base"
	PhaseBuild       Phase = "build"
	PhasePeak        Phase = "peak"
	PhaseTaper       Phase = "taper"
	PhaseRaceWeek    Phase = "race_week"
	PhaseMaintenance Phase = "maintenance"
)

var phaseMultipliers = map[Phase]float64{
	PhaseBase:        0.85,
	PhaseBuild:       1.0,
	PhasePeak:        1.10,
	PhaseTaper:       0.60,
	PhaseRaceWeek:    0.30,
	PhaseMaintenance: 1.0,
}

var longRunPercent = map[Phase]float64{
	PhaseBase:        0.30,
	PhaseBuild:       0.32,
	PhasePeak:        0.33,
	PhaseTaper:       0.30,
	PhaseRaceWeek:    0,
	PhaseMaintenance: 0.30,
}

var phaseFocus = map[Phase]string{
	PhaseBase:        "Aerobic base: easy miles and consistency",
	PhaseBuild:       "Build: threshold work and growing long runs",
	PhasePeak:        "Peak: race-specific work at top volume",
	PhaseTaper:       "Taper: less volume, keep the legs sharp",
	PhaseRaceWeek:    "Race week: stay loose and arrive fresh",
	PhaseMaintenance: "Maintenance: steady aerobic volume",
}

// Multiplier returns the weekly volume multiplier of the phase.
func (p Phase) Multiplier() float64 {
	return phaseMultipliers[p]
}

// Focus describes the training emphasis of the phase.
func (p Phase) Focus() string {
	return phaseFocus[p]
}

// IncludesTempo reports whether the phase schedules tempo work.
func (p Phase) IncludesTempo() bool {
	return p == PhaseBuild || p == PhasePeak || p == PhaseTaper
}

// WeeksUntil returns the whole weeks from `from` to `target`, or -1 when the
// target date has passed.
func WeeksUntil(target, from time.Time) int {
	days := telemetry.DaysBetween(from, target)
	if days < 0 {
		return -1
	}
	return days / 7
}

// PhaseFor derives the phase from the goal and the date. It is recomputed on
// every call; nothing about the phase is stored.
func PhaseFor(g Goal, now time.Time) Phase {
	if !g.IsRace() {
		switch g.Type {
		case GoalBuildMileage, GoalBaseBuilding:
			return PhaseBuild
		default:
			return PhaseMaintenance
		}
	}

	weeks := WeeksUntil(g.TargetDate, now)
	switch {
	case weeks < 0:
		return PhaseMaintenance
	case weeks == 0:
		return PhaseRaceWeek
	case weeks <= 3:
		return PhaseTaper
	case weeks <= 6:
		return PhasePeak
	case weeks <= 12:
		return PhaseBuild
	default:
		return PhaseBase
	}
}

// WeekStart returns the Monday of the week containing t.
func WeekStart(t time.Time) time.Time {
	d := telemetry.DateOf(t)
	return d.AddDate(0, 0, -telemetry.WeekdayIndex(d.Weekday()))
}
