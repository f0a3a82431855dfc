// Package adapt evaluates the adaptation rule bank against a readiness
// assessment and a draft weekly schedule, and applies the outcome to a plan.
package adapt

import (
	"math"

	"fitness-coach/internal/plan"
	"fitness-coach/internal/telemetry"
)

// Rule is one predicate/effect unit of the rule bank. Requires reports
// whether the rule's data is available; Evaluate applies the effect to the
// shared context and returns the insight when the rule fires.
type Rule struct {
	ID          string
	Category    Category
	Description string
	Requires    func(*Context) bool
	Evaluate    func(*Context) (Insight, bool)
}

// Context is the state shared by the rules of one evaluation. Later rules
// read what earlier rules recorded: the mileage fatigue count, the claimed
// schedule days and the long run adjustment.
type Context struct {
	In     Input
	Th     Thresholds
	Result *Result

	claimed map[int]bool
}

// claim marks a schedule day as changed. It returns false if another rule
// already changed that day.
func (c *Context) claim(day int) bool {
	if c.claimed[day] {
		return false
	}
	c.claimed[day] = true
	return true
}

// longRunIndex returns the schedule index of the long run day.
func (c *Context) longRunIndex() int {
	for i, d := range c.In.Schedule {
		if d.Type == plan.LongRun {
			return i
		}
	}
	return telemetry.WeekdayIndex(c.In.LongRunDay)
}

// runs returns the runs of the snapshot, oldest first.
func (c *Context) runs() []telemetry.Activity {
	return c.In.Telemetry.Runs()
}

// recentRuns returns runs started within the last `days` days of Now.
func (c *Context) recentRuns(days int) []telemetry.Activity {
	var out []telemetry.Activity
	for _, r := range c.runs() {
		age := telemetry.DaysBetween(r.StartTime, c.In.Now)
		if age >= 0 && age < days {
			out = append(out, r)
		}
	}
	return out
}

// Engine evaluates the rule bank.
type Engine struct {
	th    Thresholds
	rules []Rule
}

// NewEngine creates an engine with the given calibration.
func NewEngine(th Thresholds) *Engine {
	return &Engine{th: th, rules: Rules()}
}

// Compute evaluates in with the default calibration.
func Compute(in Input) *Result {
	return NewEngine(DefaultThresholds()).Compute(in)
}

// Rules returns the rule bank of the engine in evaluation order.
func (e *Engine) Rules() []Rule {
	return e.rules
}

// Compute runs every rule in order. It never fails: a rule without data is
// recorded as skipped and evaluation continues.
func (e *Engine) Compute(in Input) *Result {
	ctx := &Context{
		In: in,
		Th: e.th,
		Result: &Result{
			MileageMultiplier: 1.0,
			StructureChanges:  []StructureChange{},
			PaceAdjustments:   []PaceAdjustment{},
			Insights:          []Insight{},
			RulesSkipped:      []string{},
			FiredRules:        []string{},
		},
		claimed: make(map[int]bool),
	}
	res := ctx.Result

	for _, rule := range e.rules {
		res.RulesEvaluated++
		if !rule.Requires(ctx) {
			res.RulesSkipped = append(res.RulesSkipped, rule.ID)
			continue
		}
		insight, fired := rule.Evaluate(ctx)
		if !fired {
			continue
		}
		res.RulesFired++
		res.FiredRules = append(res.FiredRules, rule.ID)
		insight.Source = rule.ID
		if insight.Category == "" {
			insight.Category = rule.Category
		}
		res.Insights = append(res.Insights, insight)
	}

	res.MileageMultiplier = clampMultiplier(res.MileageMultiplier, e.th.MultiplierFloor)

	if res.Skipped(ruleBodyBatteryLow) || res.Skipped(ruleExtraRest) || res.Skipped(ruleRPERising) {
		res.Insights = append(res.Insights, Insight{
			Category: CategoryDataQuality,
			Severity: SeverityInfo,
			Message: "Some adjustments were skipped because body battery or perceived effort data is missing. " +
				"Connect a device that records them for fully personalized plans.",
			Source: DataQualitySource,
		})
	}
	return res
}

// clampMultiplier bounds m to [floor, 1.0].
func clampMultiplier(m, floor float64) float64 {
	return math.Max(floor, math.Min(1.0, m))
}
