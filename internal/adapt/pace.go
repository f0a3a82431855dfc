package adapt

import (
	"fmt"
	"math"

	"fitness-coach/internal/plan"
	"fitness-coach/internal/telemetry"
)

// pacedRun is a run with a valid pace and its recency weight.
type pacedRun struct {
	pace   float64
	avgHR  *float64
	weight float64
}

func pacedRuns(c *Context) []pacedRun {
	var out []pacedRun
	for _, r := range c.runs() {
		pace, ok := r.PacePerMile()
		if !ok {
			continue
		}
		weight := 1.0
		if age := telemetry.DaysBetween(r.StartTime, c.In.Now); age >= 0 && age < c.Th.RecentRunDays {
			weight = c.Th.RecentRunWeight
		}
		out = append(out, pacedRun{pace: pace, avgHR: r.AvgHR, weight: weight})
	}
	return out
}

func hasPaceData(c *Context) bool {
	return c.In.GoalPace != nil && *c.In.GoalPace > 0 && len(pacedRuns(c)) >= c.Th.MinRunsForPace
}

// isEasyRun classifies a run as easy when it is clearly slower than goal
// pace or the heart rate stayed low.
func isEasyRun(r pacedRun, goal float64, th Thresholds) bool {
	if r.pace > goal+th.EasyPaceMargin {
		return true
	}
	return r.avgHR != nil && *r.avgHR < th.EasyHRCeiling
}

func weightedPace(runs []pacedRun) float64 {
	var sum, weights float64
	for _, r := range runs {
		sum += r.pace * r.weight
		weights += r.weight
	}
	if weights == 0 {
		return 0
	}
	return sum / weights
}

// evalPace compares the weighted pace of one run class with its reference
// pace and records an adjustment when they diverge.
func evalPace(c *Context, kind string, source string) (Insight, bool) {
	goal := *c.In.GoalPace
	var class []pacedRun
	for _, r := range pacedRuns(c) {
		if isEasyRun(r, goal, c.Th) == (kind == PaceEasy) {
			class = append(class, r)
		}
	}
	if len(class) == 0 {
		return Insight{}, false
	}

	reference := goal
	if kind == PaceEasy {
		reference = goal + c.Th.EasyBandOffset
	}
	actual := math.Round(weightedPace(class))
	divergence := math.Abs(actual - reference)
	if divergence <= c.Th.PaceDivergenceMax {
		return Insight{}, false
	}

	direction := "faster"
	if actual > reference {
		direction = "slower"
	}
	c.Result.PaceAdjustments = append(c.Result.PaceAdjustments, PaceAdjustment{
		Type:              kind,
		ActualPace:        actual,
		ReferencePace:     reference,
		DivergenceSeconds: divergence,
		Direction:         direction,
		Runs:              len(class),
		Source:            source,
	})

	var msg string
	switch {
	case kind == PaceEasy && direction == "faster":
		msg = fmt.Sprintf("Your easy runs average %s/mi, %.0fs faster than the easy band allows (%s/mi). Slow down to recover.",
			plan.FormatPace(actual), divergence, plan.FormatPace(reference))
	case kind == PaceEasy:
		msg = fmt.Sprintf("Your easy runs average %s/mi, %.0fs slower than the easy band (%s/mi). Easy paces are adjusted to what you run.",
			plan.FormatPace(actual), divergence, plan.FormatPace(reference))
	case direction == "faster":
		msg = fmt.Sprintf("Your hard efforts average %s/mi, %.0fs faster than goal pace (%s/mi). Your goal may be conservative.",
			plan.FormatPace(actual), divergence, plan.FormatPace(reference))
	default:
		msg = fmt.Sprintf("Your hard efforts average %s/mi, %.0fs slower than goal pace (%s/mi). Workout paces are adjusted to current fitness.",
			plan.FormatPace(actual), divergence, plan.FormatPace(reference))
	}
	return Insight{Category: CategoryPace, Severity: SeverityInfo, Message: msg}, true
}

func evalEasyPace(c *Context) (Insight, bool) {
	return evalPace(c, PaceEasy, ruleEasyPace)
}

func evalHardPace(c *Context) (Insight, bool) {
	return evalPace(c, PaceHard, ruleHardPace)
}
