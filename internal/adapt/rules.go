package adapt

import (
	"fmt"

	"fitness-coach/internal/analysis"
	"fitness-coach/internal/plan"
)

// Rule ids, in evaluation order.
const (
	ruleRHRElevated     = "rule_1_rhr_elevated"
	ruleBodyBatteryLow  = "rule_2_body_battery_low"
	ruleSleepPoor       = "rule_3_sleep_poor"
	ruleTempoToEasy     = "rule_4_tempo_to_easy_fatigue"
	ruleExtraRest       = "rule_5_extra_rest_battery_declining"
	ruleShortSleepSwap  = "rule_6_short_sleep_swap"
	ruleRPERising       = "rule_7_rpe_rising"
	ruleEasyPace        = "rule_8_easy_pace"
	ruleHardPace        = "rule_9_hard_pace"
	ruleLongRunCap      = "rule_10_long_run_cap"
	ruleLongRunWorstDay = "rule_11_long_run_worst_day"
	ruleLongRunMissed   = "rule_12_long_run_missed"
	ruleRecoveryAllGood = "rule_13_recovery_all_good"
	ruleVO2MaxImproving = "rule_14_vo2max_improving"
)

// Rules returns the rule bank in evaluation order. Order matters: the
// structure and long run rules read the mileage fatigue count, and the long
// run rules stop at the first adjustment.
func Rules() []Rule {
	return []Rule{
		{
			ID: ruleRHRElevated, Category: CategoryMileage,
			Description: "Reduce volume when resting HR is elevated over baseline",
			Requires:    hasRestingHR,
			Evaluate:    evalRHRElevated,
		},
		{
			ID: ruleBodyBatteryLow, Category: CategoryMileage,
			Description: "Reduce volume when waking body battery is low",
			Requires:    hasBodyBattery,
			Evaluate:    evalBodyBatteryLow,
		},
		{
			ID: ruleSleepPoor, Category: CategoryMileage,
			Description: "Reduce volume when average sleep is short",
			Requires:    hasSleep,
			Evaluate:    evalSleepPoor,
		},
		{
			ID: ruleTempoToEasy, Category: CategoryStructure,
			Description: "Swap tempo for easy when several fatigue signals fire",
			Requires:    hasAnyRecovery,
			Evaluate:    evalTempoToEasy,
		},
		{
			ID: ruleExtraRest, Category: CategoryStructure,
			Description: "Add a rest day when body battery is declining",
			Requires:    hasBodyBattery,
			Evaluate:    evalExtraRest,
		},
		{
			ID: ruleShortSleepSwap, Category: CategoryStructure,
			Description: "Swap hard sessions for easy after several short nights",
			Requires:    hasSleep,
			Evaluate:    evalShortSleepSwap,
		},
		{
			ID: ruleRPERising, Category: CategoryStructure,
			Description: "Swap tempo for easy when perceived effort is rising",
			Requires:    hasRPE,
			Evaluate:    evalRPERising,
		},
		{
			ID: ruleEasyPace, Category: CategoryPace,
			Description: "Compare easy run pace with the prescribed easy band",
			Requires:    hasPaceData,
			Evaluate:    evalEasyPace,
		},
		{
			ID: ruleHardPace, Category: CategoryPace,
			Description: "Compare hard effort pace with goal pace",
			Requires:    hasPaceData,
			Evaluate:    evalHardPace,
		},
		{
			ID: ruleLongRunCap, Category: CategoryLongRun,
			Description: "Cap the long run at the longest recent run when fatigued",
			Requires:    hasRunHistory,
			Evaluate:    evalLongRunCap,
		},
		{
			ID: ruleLongRunWorstDay, Category: CategoryLongRun,
			Description: "Shorten the long run when it follows the weakest day of the week",
			Requires:    hasWorstDay,
			Evaluate:    evalLongRunWorstDay,
		},
		{
			ID: ruleLongRunMissed, Category: CategoryLongRun,
			Description: "Shorten the long run when no recent run came close to it",
			Requires:    hasRunHistory,
			Evaluate:    evalLongRunMissed,
		},
		{
			ID: ruleRecoveryAllGood, Category: CategoryPositive,
			Description: "Recognize fully recovered markers",
			Requires:    hasAnyRecovery,
			Evaluate:    evalRecoveryAllGood,
		},
		{
			ID: ruleVO2MaxImproving, Category: CategoryPositive,
			Description: "Recognize an improving VO2max",
			Requires:    hasVO2Max,
			Evaluate:    evalVO2MaxImproving,
		},
	}
}

func hasRestingHR(c *Context) bool {
	return c.In.Analysis != nil && c.In.Analysis.RestingHR != nil
}

func hasBodyBattery(c *Context) bool {
	return c.In.Analysis != nil && c.In.Analysis.BodyBattery != nil
}

func hasSleep(c *Context) bool {
	return c.In.Analysis != nil && c.In.Analysis.Sleep != nil
}

func hasRPE(c *Context) bool {
	return c.In.Analysis != nil && c.In.Analysis.RPE != nil
}

func hasVO2Max(c *Context) bool {
	return c.In.Analysis != nil && c.In.Analysis.VO2Max != nil
}

func hasAnyRecovery(c *Context) bool {
	return hasRestingHR(c) || hasBodyBattery(c) || hasSleep(c)
}

// Mileage rules

func mileageRule(c *Context, status analysis.Status, multiplier float64, msg string) (Insight, bool) {
	if status != analysis.StatusConcern {
		return Insight{}, false
	}
	c.Result.MileageMultiplier *= multiplier
	c.Result.MileageRulesFired++
	return Insight{Category: CategoryMileage, Severity: SeverityWarning, Message: msg}, true
}

func evalRHRElevated(c *Context) (Insight, bool) {
	r := c.In.Analysis.RestingHR
	return mileageRule(c, r.Status, c.Th.RestingHRMultiplier, fmt.Sprintf(
		"Resting HR is %.0f bpm above your baseline (%.0f vs %.0f). Volume reduced %.0f%%.",
		r.Change, r.Current, r.Baseline, (1-c.Th.RestingHRMultiplier)*100))
}

func evalBodyBatteryLow(c *Context) (Insight, bool) {
	b := c.In.Analysis.BodyBattery
	return mileageRule(c, b.Status, c.Th.BodyBatteryMultiplier, fmt.Sprintf(
		"Body battery is averaging %.0f on waking. Volume reduced %.0f%%.",
		b.Current, (1-c.Th.BodyBatteryMultiplier)*100))
}

func evalSleepPoor(c *Context) (Insight, bool) {
	s := c.In.Analysis.Sleep
	return mileageRule(c, s.Status, c.Th.SleepMultiplier, fmt.Sprintf(
		"You are averaging %.1f hours of sleep. Volume reduced %.0f%%.",
		s.Current, (1-c.Th.SleepMultiplier)*100))
}

// Structure rules

// swap converts the first unclaimed day of one of the given types. The
// claimed-day guard keeps two rules from changing the same day.
func swap(c *Context, from []plan.WorkoutType, to plan.WorkoutType, reason, source string, all bool) []StructureChange {
	var changes []StructureChange
	longIdx := c.longRunIndex()
	for i, d := range c.In.Schedule {
		if i == longIdx || !typeIn(d.Type, from) || c.claimed[i] {
			continue
		}
		c.claim(i)
		change := StructureChange{DayIndex: i, FromType: d.Type, ToType: to, Reason: reason, Source: source}
		changes = append(changes, change)
		c.Result.StructureChanges = append(c.Result.StructureChanges, change)
		if !all {
			break
		}
	}
	return changes
}

func typeIn(t plan.WorkoutType, types []plan.WorkoutType) bool {
	for _, x := range types {
		if t == x {
			return true
		}
	}
	return false
}

func evalTempoToEasy(c *Context) (Insight, bool) {
	if c.Result.MileageRulesFired < c.Th.FatigueRulesForSwap || !c.In.Phase.IncludesTempo() {
		return Insight{}, false
	}
	changes := swap(c, []plan.WorkoutType{plan.Tempo}, plan.Easy,
		"multiple fatigue signals", ruleTempoToEasy, false)
	if len(changes) == 0 {
		return Insight{}, false
	}
	return Insight{
		Category: CategoryStructure, Severity: SeverityWarning,
		Message: fmt.Sprintf("%d recovery markers are flagged, so %s's tempo becomes an easy run.",
			c.Result.MileageRulesFired, c.In.Schedule[changes[0].DayIndex].Day),
	}, true
}

func evalExtraRest(c *Context) (Insight, bool) {
	if c.In.Analysis.BodyBattery.Trend != analysis.TrendDeclining {
		return Insight{}, false
	}
	changes := swap(c, []plan.WorkoutType{plan.Easy}, plan.Rest,
		"body battery declining", ruleExtraRest, false)
	if len(changes) == 0 {
		return Insight{}, false
	}
	return Insight{
		Category: CategoryStructure, Severity: SeverityWarning,
		Message: fmt.Sprintf("Body battery has dropped %.0f points over the period. %s is now a rest day.",
			-c.In.Analysis.BodyBattery.Change, c.In.Schedule[changes[0].DayIndex].Day),
	}, true
}

func evalShortSleepSwap(c *Context) (Insight, bool) {
	nights := c.In.Analysis.Sleep.ShortNightsThisWeek
	if nights < c.Th.ShortNightsForSwap {
		return Insight{}, false
	}
	changes := swap(c, []plan.WorkoutType{plan.Intervals, plan.Tempo}, plan.Easy,
		"short sleep this week", ruleShortSleepSwap, true)
	if len(changes) == 0 {
		return Insight{}, false
	}
	return Insight{
		Category: CategoryStructure, Severity: SeverityWarning,
		Message: fmt.Sprintf("%d nights under 6 hours this week. Hard sessions are swapped for easy running.", nights),
	}, true
}

func evalRPERising(c *Context) (Insight, bool) {
	rpe := c.In.Analysis.RPE
	if rpe.Trend != analysis.TrendRising || rpe.FatigueIndicators < c.Th.RPEFatigueIndicators {
		return Insight{}, false
	}
	// Days already swapped by rules 4-6 stay claimed, so this never
	// double-applies.
	changes := swap(c, []plan.WorkoutType{plan.Tempo}, plan.Easy,
		"perceived effort rising", ruleRPERising, false)
	if len(changes) == 0 {
		return Insight{}, false
	}
	return Insight{
		Category: CategoryStructure, Severity: SeverityWarning,
		Message: fmt.Sprintf("Runs feel harder (RPE %.1f → %.1f) with %d low-benefit efforts. %s's tempo becomes easy.",
			rpe.EarlierMean, rpe.LaterMean, rpe.FatigueIndicators, c.In.Schedule[changes[0].DayIndex].Day),
	}, true
}

// Positive rules

func evalRecoveryAllGood(c *Context) (Insight, bool) {
	if c.Result.MileageRulesFired > 0 {
		return Insight{}, false
	}
	for _, status := range c.In.Analysis.RecoveryStatuses() {
		if status != analysis.StatusGood {
			return Insight{}, false
		}
	}
	return Insight{
		Category: CategoryPositive, Severity: SeverityPositive,
		Message: "Every recovery marker looks strong. You're absorbing the training well.",
	}, true
}

func evalVO2MaxImproving(c *Context) (Insight, bool) {
	v := c.In.Analysis.VO2Max
	if v.Trend != analysis.TrendImproving || v.Change <= c.Th.VO2MaxImprovement {
		return Insight{}, false
	}
	return Insight{
		Category: CategoryPositive, Severity: SeverityPositive,
		Message: fmt.Sprintf("VO2max is up %.1f to %.1f. Your aerobic fitness is improving.", v.Change, v.Latest),
	}, true
}
