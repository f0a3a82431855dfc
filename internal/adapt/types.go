package adapt

import (
	"time"

	"fitness-coach/internal/analysis"
	"fitness-coach/internal/plan"
	"fitness-coach/internal/telemetry"
)

// Category groups rules and their insights.
type Category string

const (
	CategoryMileage     Category = "mileage"
	CategoryStructure   Category = "structure"
	CategoryPace        Category = "pace"
	CategoryLongRun     Category = "long_run"
	CategoryPositive    Category = "positive"
	CategoryDataQuality Category = "data_quality"
)

// Severity grades an insight for display.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityPositive Severity = "positive"
)

// DataQualitySource tags the insight emitted when rich-data rules were skipped.
const DataQualitySource = "data_quality"

// Input is everything a single adaptation run reads.
type Input struct {
	Analysis        *analysis.Results
	Telemetry       telemetry.Snapshot
	Phase           plan.Phase
	GoalPace        *float64 // seconds per mile
	ExpectedLongRun float64  // miles
	LongRunDay      time.Weekday
	Schedule        []plan.DailyPlan
	Now             time.Time
}

// Insight is a user-facing explanation of one decision.
type Insight struct {
	Category Category `json:"category"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Source   string   `json:"source"`
}

// StructureChange swaps the workout of one schedule day.
type StructureChange struct {
	DayIndex int              `json:"day_index"`
	FromType plan.WorkoutType `json:"from_type"`
	ToType   plan.WorkoutType `json:"to_type"`
	Reason   string           `json:"reason"`
	Source   string           `json:"source"`
}

// Pace adjustment kinds
const (
	PaceEasy = "easy"
	PaceHard = "hard"
)

// PaceAdjustment records observed pace diverging from the prescribed pace.
type PaceAdjustment struct {
	Type              string  `json:"type"`
	ActualPace        float64 `json:"actual_pace"`
	ReferencePace     float64 `json:"reference_pace"`
	DivergenceSeconds float64 `json:"divergence_seconds"`
	Direction         string  `json:"direction"` // slower or faster
	Runs              int     `json:"runs"`
	Source            string  `json:"source"`
}

// Long run adjustment kinds
const (
	LongRunCap    = "cap"
	LongRunReduce = "reduce"
)

// LongRunAdjustment caps or shortens the week's long run.
type LongRunAdjustment struct {
	Kind          string  `json:"kind"`
	CapMiles      float64 `json:"cap_miles,omitempty"`
	ReducePercent float64 `json:"reduce_percent,omitempty"`
	Reason        string  `json:"reason"`
	Source        string  `json:"source"`
}

// Result is the outcome of evaluating the rule bank.
type Result struct {
	MileageMultiplier float64            `json:"mileage_multiplier"`
	StructureChanges  []StructureChange  `json:"structure_changes"`
	PaceAdjustments   []PaceAdjustment   `json:"pace_adjustments"`
	LongRunAdjustment *LongRunAdjustment `json:"long_run_adjustment"`
	Insights          []Insight          `json:"insights"`
	RulesEvaluated    int                `json:"rules_evaluated"`
	RulesFired        int                `json:"rules_fired"`
	RulesSkipped      []string           `json:"rules_skipped"`
	MileageRulesFired int                `json:"mileage_rules_fired"`
	FiredRules        []string           `json:"fired_rules"`
}

// Fired reports whether the rule with the given id fired.
func (r *Result) Fired(id string) bool {
	for _, f := range r.FiredRules {
		if f == id {
			return true
		}
	}
	return false
}

// Skipped reports whether the rule with the given id was skipped.
func (r *Result) Skipped(id string) bool {
	for _, s := range r.RulesSkipped {
		if s == id {
			return true
		}
	}
	return false
}
