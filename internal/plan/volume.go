package plan

import "math"

var intensityMultipliers = map[Intensity]float64{
	Conservative: 0.85,
	Normal:       1.0,
	Aggressive:   1.15,
}

// MinLongRun is the shortest long run ever prescribed.
const MinLongRun = 4

// effectiveIntensity forces a conservative load when returning from injury.
func effectiveIntensity(g Goal) Intensity {
	if g.Type == GoalReturnFromInjury {
		return Conservative
	}
	if _, ok := intensityMultipliers[g.Intensity]; !ok {
		return Normal
	}
	return g.Intensity
}

// WeeklyMiles computes the target weekly volume. A recovery multiplier below
// 1.0 scales the rounded volume once more.
func WeeklyMiles(g Goal, phase Phase, recovery float64) float64 {
	weekly := math.Round(g.WeeklyMileage * phase.Multiplier() * intensityMultipliers[effectiveIntensity(g)])
	if recovery > 0 && recovery < 1.0 {
		weekly = math.Round(weekly * recovery)
	}
	return weekly
}

// LongRunMiles computes the long run for a week, clamped to [MinLongRun, cap].
// Race week has no long run.
func LongRunMiles(g Goal, phase Phase, weekly float64) float64 {
	if phase == PhaseRaceWeek {
		return 0
	}
	long := math.Round(weekly * longRunPercent[phase])
	return math.Max(MinLongRun, math.Min(long, g.LongRunCap()))
}
