package adapt

import (
	"fmt"
	"math"
	"time"
)

// hasRunHistory gates rules 10 and 12. Rides and swims say nothing about
// long-run readiness, so a snapshot without runs leaves both unevaluated.
func hasRunHistory(c *Context) bool {
	return c.In.ExpectedLongRun > 0 && len(c.runs()) > 0
}

func hasWorstDay(c *Context) bool {
	return c.In.ExpectedLongRun > 0 && c.In.Analysis != nil && c.In.Analysis.DayOfWeek.HasWorstDay()
}

// longestRecentRun returns the longest run in miles within the lookback.
func longestRecentRun(c *Context) float64 {
	var longest float64
	for _, r := range c.recentRuns(c.Th.LongRunLookbackDays) {
		longest = math.Max(longest, r.Miles())
	}
	return longest
}

// Rules 10-12 are first-match-wins: each one returns early once a long run
// adjustment has been set by an earlier rule.

func evalLongRunCap(c *Context) (Insight, bool) {
	if c.Result.LongRunAdjustment != nil || c.Result.MileageRulesFired < c.Th.FatigueRulesForSwap {
		return Insight{}, false
	}
	longest := longestRecentRun(c)
	if longest <= 0 || longest >= c.In.ExpectedLongRun {
		return Insight{}, false
	}

	capMiles := math.Round(longest*10) / 10
	c.Result.LongRunAdjustment = &LongRunAdjustment{
		Kind:     LongRunCap,
		CapMiles: capMiles,
		Reason:   "fatigued; capped at longest recent run",
		Source:   ruleLongRunCap,
	}
	return Insight{
		Category: CategoryLongRun, Severity: SeverityWarning,
		Message: fmt.Sprintf("With several fatigue signals, the long run is capped at %.1f mi, your longest run this week.", capMiles),
	}, true
}

func evalLongRunWorstDay(c *Context) (Insight, bool) {
	if c.Result.LongRunAdjustment != nil {
		return Insight{}, false
	}
	dayBefore := time.Weekday((int(c.In.LongRunDay) + 6) % 7)
	if !c.In.Analysis.DayOfWeek.IsWorstDay(dayBefore) {
		return Insight{}, false
	}

	c.Result.LongRunAdjustment = &LongRunAdjustment{
		Kind:          LongRunReduce,
		ReducePercent: c.Th.WorstDayReduction,
		Reason:        fmt.Sprintf("%s is typically your lowest recovery day", dayBefore),
		Source:        ruleLongRunWorstDay,
	}
	return Insight{
		Category: CategoryLongRun, Severity: SeverityInfo,
		Message: fmt.Sprintf("%s is usually your weakest recovery day, so the long run after it is %.0f%% shorter.",
			dayBefore, c.Th.WorstDayReduction*100),
	}, true
}

func evalLongRunMissed(c *Context) (Insight, bool) {
	if c.Result.LongRunAdjustment != nil {
		return Insight{}, false
	}
	threshold := c.In.ExpectedLongRun * c.Th.MissedLongRunFraction
	if longestRecentRun(c) >= threshold {
		return Insight{}, false
	}

	c.Result.LongRunAdjustment = &LongRunAdjustment{
		Kind:          LongRunReduce,
		ReducePercent: c.Th.MissedLongRunReduction,
		Reason:        "no recent run near the planned long run",
		Source:        ruleLongRunMissed,
	}
	return Insight{
		Category: CategoryLongRun, Severity: SeverityInfo,
		Message: fmt.Sprintf("No run in the past week reached %.1f mi, so the long run is %.0f%% shorter to build back safely.",
			threshold, c.Th.MissedLongRunReduction*100),
	}, true
}
