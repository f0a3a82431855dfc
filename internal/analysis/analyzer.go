// Package analysis turns a telemetry snapshot into per-metric readiness
// summaries. A nil summary means the metric had no valid samples; callers
// must treat it as "no signal", never as good or bad.
package analysis

import (
	"encoding/json"

	"fitness-coach/internal/telemetry"
)

// Results is the full readiness assessment for one snapshot.
type Results struct {
	RestingHR   *RestingHRSummary
	BodyBattery *BodyBatterySummary
	VO2Max      *VO2MaxSummary
	Sleep       *SleepSummary
	Sedentary   *SedentarySummary
	Stress      *StressSummary
	Steps       *StepsSummary
	RPE         *RPESummary
	DayOfWeek   *DayOfWeekSummary
	Load        *TrainingLoad
	Fitness     *FitnessEstimate
}

// Analyzer grades telemetry against a set of thresholds.
type Analyzer struct {
	th    Thresholds
	zones HRZones
}

// NewAnalyzer creates an analyzer. Zero zones fall back to DefaultZones.
func NewAnalyzer(th Thresholds, zones HRZones) *Analyzer {
	if zones.MaxHR <= zones.RestingHR {
		zones = DefaultZones()
	}
	return &Analyzer{th: th.withDefaults(), zones: zones}
}

// Analyze grades snap with the default thresholds and zones.
func Analyze(snap telemetry.Snapshot) *Results {
	return NewAnalyzer(DefaultThresholds(), DefaultZones()).Analyze(snap)
}

// Analyze grades every metric family in snap. It never fails: sparse
// families come back nil.
func (a *Analyzer) Analyze(snap telemetry.Snapshot) *Results {
	return &Results{
		RestingHR:   analyzeRestingHR(snap.HeartRate, a.th),
		BodyBattery: analyzeBodyBattery(snap.Daily, a.th),
		VO2Max:      analyzeVO2Max(snap.Vo2Max, a.th),
		Sleep:       analyzeSleep(snap.Sleep, a.th),
		Sedentary:   analyzeSedentary(snap.Daily, a.th),
		Stress:      analyzeStress(snap.Daily, a.th),
		Steps:       analyzeSteps(snap.Daily, a.th),
		RPE:         analyzeRPE(snap.Activities, a.th),
		DayOfWeek:   analyzeDayOfWeek(snap),
		Load:        analyzeLoad(snap.Activities, a.zones),
		Fitness:     estimateFitness(snap.Activities),
	}
}

// RecoveryStatuses returns the statuses of the available recovery metrics
// (resting HR, body battery, sleep) keyed by metric name.
func (r *Results) RecoveryStatuses() map[string]Status {
	out := make(map[string]Status, 3)
	if r == nil {
		return out
	}
	if r.RestingHR != nil {
		out["resting_hr"] = r.RestingHR.Status
	}
	if r.BodyBattery != nil {
		out["body_battery"] = r.BodyBattery.Status
	}
	if r.Sleep != nil {
		out["sleep"] = r.Sleep.Status
	}
	return out
}

// AvailableCount returns how many metric summaries carry data.
func (r *Results) AvailableCount() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, ok := range []bool{
		r.RestingHR != nil, r.BodyBattery != nil, r.VO2Max != nil, r.Sleep != nil,
		r.Sedentary != nil, r.Stress != nil, r.Steps != nil, r.RPE != nil,
	} {
		if ok {
			n++
		}
	}
	return n
}

// unavailable is the encoding of a metric without data.
var unavailable = map[string]bool{"available": false}

// available wraps a present summary so it encodes with available=true.
func available(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return unavailable
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return unavailable
	}
	fields["available"] = true
	return fields
}

// MarshalJSON encodes every summary with an explicit available flag.
// Unavailable summaries carry no other field.
func (r *Results) MarshalJSON() ([]byte, error) {
	field := func(present bool, v any) any {
		if !present {
			return unavailable
		}
		return available(v)
	}
	return json.Marshal(struct {
		RestingHR   any `json:"resting_hr"`
		BodyBattery any `json:"body_battery"`
		VO2Max      any `json:"vo2max"`
		Sleep       any `json:"sleep"`
		Sedentary   any `json:"sedentary"`
		Stress      any `json:"stress"`
		Steps       any `json:"steps"`
		RPE         any `json:"rpe"`
		DayOfWeek   any `json:"day_of_week"`
		Load        any `json:"training_load"`
		Fitness     any `json:"fitness"`
	}{
		RestingHR:   field(r.RestingHR != nil, r.RestingHR),
		BodyBattery: field(r.BodyBattery != nil, r.BodyBattery),
		VO2Max:      field(r.VO2Max != nil, r.VO2Max),
		Sleep:       field(r.Sleep != nil, r.Sleep),
		Sedentary:   field(r.Sedentary != nil, r.Sedentary),
		Stress:      field(r.Stress != nil, r.Stress),
		Steps:       field(r.Steps != nil, r.Steps),
		RPE:         field(r.RPE != nil, r.RPE),
		DayOfWeek:   field(r.DayOfWeek != nil, r.DayOfWeek),
		Load:        field(r.Load != nil, r.Load),
		Fitness:     field(r.Fitness != nil, r.Fitness),
	})
}
