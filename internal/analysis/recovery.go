package analysis

import (
	"time"

	"fitness-coach/internal/telemetry"
)

// RestingHRSummary grades resting heart rate drift.
type RestingHRSummary struct {
	Series
}

// BodyBatterySummary grades the daily body battery high (the wake value).
type BodyBatterySummary struct {
	Series
	AvgCharged *float64 `json:"avg_charged,omitempty"`
	AvgDrained *float64 `json:"avg_drained,omitempty"`
}

// SleepSummary grades nightly sleep duration.
type SleepSummary struct {
	Series
	NightsUnder6        int      `json:"nights_under_6h"`
	PctUnder6           float64  `json:"pct_under_6h"`
	NightsOver7         int      `json:"nights_over_7h"`
	PctOver7            float64  `json:"pct_over_7h"`
	ShortNightsThisWeek int      `json:"short_nights_this_week"`
	AvgDeepHours        *float64 `json:"avg_deep_hours,omitempty"`
	AvgREMHours         *float64 `json:"avg_rem_hours,omitempty"`
	AvgScore            *float64 `json:"avg_score,omitempty"`
}

// StressSummary grades the average daily stress level.
type StressSummary struct {
	Series
}

// VO2MaxSummary grades the device VO2max estimate.
type VO2MaxSummary struct {
	Series
	Latest float64 `json:"latest"`
}

// SedentarySummary grades sedentary minutes per day.
type SedentarySummary struct {
	Series
}

// StepsSummary grades daily step counts.
type StepsSummary struct {
	Series
}

func analyzeRestingHR(records []telemetry.HeartRateRecord, th Thresholds) *RestingHRSummary {
	var samples []datedValue
	for _, r := range records {
		if r.RestingHR > 0 && r.RestingHR < 220 {
			samples = append(samples, datedValue{r.Date, r.RestingHR})
		}
	}
	if len(samples) == 0 {
		return nil
	}

	s := newSeries(sortedValues(samples), th.Window)
	s.Trend = directionalTrend(s.Change, th.RestingHRTrendDelta)
	switch {
	case s.Change > th.RestingHRConcernChange:
		s.Status = StatusConcern
	case s.Change < th.RestingHRGoodChange:
		s.Status = StatusGood
	}
	return &RestingHRSummary{Series: s}
}

func analyzeBodyBattery(days []telemetry.DailySummary, th Thresholds) *BodyBatterySummary {
	var samples []datedValue
	var charged, drained []float64
	for _, d := range days {
		if d.BodyBatteryHigh == nil || *d.BodyBatteryHigh <= 0 || *d.BodyBatteryHigh > 100 {
			continue
		}
		samples = append(samples, datedValue{d.Date, *d.BodyBatteryHigh})
		if d.BodyBatteryCharged != nil && *d.BodyBatteryCharged > 0 {
			charged = append(charged, *d.BodyBatteryCharged)
		}
		if d.BodyBatteryDrained != nil && *d.BodyBatteryDrained > 0 {
			drained = append(drained, *d.BodyBatteryDrained)
		}
	}
	if len(samples) == 0 {
		return nil
	}

	s := newSeries(sortedValues(samples), th.Window)
	s.Trend = qualityTrend(s.Change, th.BodyBatteryTrendDelta)
	switch {
	case s.Current < th.BodyBatteryConcern:
		s.Status = StatusConcern
	case s.Current >= th.BodyBatteryGood:
		s.Status = StatusGood
	}
	return &BodyBatterySummary{
		Series:     s,
		AvgCharged: meanPtr(charged),
		AvgDrained: meanPtr(drained),
	}
}

func analyzeSleep(records []telemetry.SleepRecord, th Thresholds) *SleepSummary {
	var samples []datedValue
	var deep, rem, scores []float64
	for _, r := range records {
		if r.TotalHours <= 0 || r.TotalHours > 24 {
			continue
		}
		samples = append(samples, datedValue{r.Date, r.TotalHours})
		if r.DeepHours > 0 {
			deep = append(deep, r.DeepHours)
		}
		if r.REMHours > 0 {
			rem = append(rem, r.REMHours)
		}
		if r.Score != nil && *r.Score > 0 {
			scores = append(scores, float64(*r.Score))
		}
	}
	if len(samples) == 0 {
		return nil
	}

	hours := sortedValues(samples)
	s := newSeries(hours, th.Window)
	s.Trend = qualityTrend(s.Change, th.SleepTrendDelta)
	switch {
	case s.Current < th.SleepConcernHours:
		s.Status = StatusConcern
	case s.Current >= th.SleepGoodHours:
		s.Status = StatusGood
	}

	out := &SleepSummary{
		Series:       s,
		AvgDeepHours: meanPtr(deep),
		AvgREMHours:  meanPtr(rem),
		AvgScore:     meanPtr(scores),
	}
	for _, h := range hours {
		if h < th.ShortNightHours {
			out.NightsUnder6++
		}
		if h >= th.LongNightHours {
			out.NightsOver7++
		}
	}
	n := float64(len(hours))
	out.PctUnder6 = round1(float64(out.NightsUnder6) / n * 100)
	out.PctOver7 = round1(float64(out.NightsOver7) / n * 100)

	// this week is the seven calendar days ending at the newest night
	var newest time.Time
	for _, v := range samples {
		if d := telemetry.DateOf(v.date); d.After(newest) {
			newest = d
		}
	}
	weekStart := newest.AddDate(0, 0, -6)
	for _, v := range samples {
		if telemetry.DateOf(v.date).Before(weekStart) {
			continue
		}
		if v.value < th.ShortNightHours {
			out.ShortNightsThisWeek++
		}
	}
	return out
}

func analyzeStress(days []telemetry.DailySummary, th Thresholds) *StressSummary {
	samples := dailyField(days, func(d telemetry.DailySummary) *float64 { return d.Stress }, 100)
	if len(samples) == 0 {
		return nil
	}

	s := newSeries(sortedValues(samples), th.Window)
	s.Trend = directionalTrend(s.Change, th.StressTrendDelta)
	switch {
	case s.Current > th.StressConcern:
		s.Status = StatusConcern
	case s.Current < th.StressGood:
		s.Status = StatusGood
	}
	return &StressSummary{Series: s}
}

func analyzeVO2Max(records []telemetry.Vo2MaxRecord, th Thresholds) *VO2MaxSummary {
	var samples []datedValue
	for _, r := range records {
		if r.Value > 0 {
			samples = append(samples, datedValue{r.Date, r.Value})
		}
	}
	if len(samples) == 0 {
		return nil
	}

	values := sortedValues(samples)
	s := newSeries(values, th.VO2MaxWindow)
	s.Trend = qualityTrend(s.Change, 0)
	switch {
	case s.Change < th.VO2MaxConcernChange:
		s.Status = StatusConcern
	case s.Change >= 0:
		s.Status = StatusGood
	}
	return &VO2MaxSummary{Series: s, Latest: values[len(values)-1]}
}

func analyzeSedentary(days []telemetry.DailySummary, th Thresholds) *SedentarySummary {
	samples := dailyField(days, func(d telemetry.DailySummary) *float64 { return d.SedentaryMinutes }, 24*60)
	if len(samples) == 0 {
		return nil
	}

	s := newSeries(sortedValues(samples), th.Window)
	s.Trend = directionalTrend(s.Change, th.SedentaryTrendDelta)
	switch {
	case s.Current > th.SedentaryConcernMinutes:
		s.Status = StatusConcern
	case s.Current < th.SedentaryGoodMinutes:
		s.Status = StatusGood
	}
	return &SedentarySummary{Series: s}
}

func analyzeSteps(days []telemetry.DailySummary, th Thresholds) *StepsSummary {
	var samples []datedValue
	for _, d := range days {
		if d.Steps > 0 {
			samples = append(samples, datedValue{d.Date, float64(d.Steps)})
		}
	}
	if len(samples) == 0 {
		return nil
	}

	s := newSeries(sortedValues(samples), th.Window)
	s.Trend = directionalTrend(s.Change, th.StepsTrendDelta)
	switch {
	case s.Current >= th.StepsGood:
		s.Status = StatusGood
	case s.Current < th.StepsConcern:
		s.Status = StatusConcern
	}
	return &StepsSummary{Series: s}
}

// dailyField collects an optional daily value that must lie in (0, max].
func dailyField(days []telemetry.DailySummary, get func(telemetry.DailySummary) *float64, limit float64) []datedValue {
	var samples []datedValue
	for _, d := range days {
		v := get(d)
		if v == nil || *v <= 0 || *v > limit {
			continue
		}
		samples = append(samples, datedValue{d.Date, *v})
	}
	return samples
}

// weekdayIndex returns 0 for Monday through 6 for Sunday.
func weekdayIndex(t time.Time) int {
	return telemetry.WeekdayIndex(t.Weekday())
}
