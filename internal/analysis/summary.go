package analysis

import (
	"math"
	"sort"
	"time"
)

// Status is the qualitative grade of a metric.
type Status string

const (
	StatusGood    Status = "good"
	StatusNormal  Status = "normal"
	StatusConcern Status = "concern"
)

// Trend is the qualitative direction of a metric.
type Trend string

const (
	TrendRising    Trend = "rising"
	TrendFalling   Trend = "falling"
	TrendStable    Trend = "stable"
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
)

// Series is the baseline/current split shared by every time-ordered metric.
type Series struct {
	Baseline float64 `json:"baseline"`
	Current  float64 `json:"current"`
	Change   float64 `json:"change"`
	Trend    Trend   `json:"trend"`
	Status   Status  `json:"status"`
	Samples  int     `json:"samples"`
}

// datedValue is one valid sample of a daily metric.
type datedValue struct {
	date  time.Time
	value float64
}

// sortedValues orders samples by date and returns the values. The input
// slice is a private copy built by the caller.
func sortedValues(samples []datedValue) []float64 {
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].date.Before(samples[j].date)
	})
	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.value
	}
	return values
}

// newSeries computes baseline as the mean of the first min(window, n)
// values and current as the mean of the last min(window, n) values.
func newSeries(values []float64, window int) Series {
	n := len(values)
	w := window
	if n < w {
		w = n
	}
	baseline := mean(values[:w])
	current := mean(values[n-w:])
	return Series{
		Baseline: round2(baseline),
		Current:  round2(current),
		Change:   round2(current - baseline),
		Trend:    TrendStable,
		Status:   StatusNormal,
		Samples:  n,
	}
}

// directionalTrend grades a change as rising/falling around delta.
func directionalTrend(change, delta float64) Trend {
	switch {
	case change > delta:
		return TrendRising
	case change < -delta:
		return TrendFalling
	default:
		return TrendStable
	}
}

// qualityTrend grades a change as improving/declining around delta, where a
// positive change is an improvement.
func qualityTrend(change, delta float64) Trend {
	switch {
	case change > delta:
		return TrendImproving
	case change < -delta:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// meanPtr returns the mean of values, or nil if there are none.
func meanPtr(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	m := round2(mean(values))
	return &m
}
