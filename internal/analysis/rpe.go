package analysis

import (
	"sort"

	"fitness-coach/internal/telemetry"
)

// RPESummary grades perceived exertion across logged activities.
type RPESummary struct {
	Average           float64 `json:"average"`
	EarlierMean       float64 `json:"earlier_mean"`
	LaterMean         float64 `json:"later_mean"`
	Trend             Trend   `json:"trend"`
	Status            Status  `json:"status"`
	FatigueIndicators int     `json:"fatigue_indicators"`
	Samples           int     `json:"samples"`
}

func analyzeRPE(activities []telemetry.Activity, th Thresholds) *RPESummary {
	var logged []telemetry.Activity
	for _, a := range activities {
		if a.PerceivedExertion != nil && *a.PerceivedExertion >= 1 && *a.PerceivedExertion <= 10 {
			logged = append(logged, a)
		}
	}
	if len(logged) == 0 {
		return nil
	}
	sort.SliceStable(logged, func(i, j int) bool {
		return logged[i].StartTime.Before(logged[j].StartTime)
	})

	values := make([]float64, len(logged))
	out := &RPESummary{Trend: TrendStable, Status: StatusNormal, Samples: len(logged)}
	for i, a := range logged {
		rpe := *a.PerceivedExertion
		values[i] = rpe
		// Hard effort that produced little aerobic benefit.
		if rpe >= th.RPEFatigueMin && a.AerobicEffect != nil && *a.AerobicEffect < th.AerobicEffectMax {
			out.FatigueIndicators++
		}
	}
	out.Average = round2(mean(values))

	k := len(values) / 2
	if k > th.RPEWindow {
		k = th.RPEWindow
	}
	if k > 0 {
		earlier := mean(values[:len(values)-k])
		later := mean(values[len(values)-k:])
		out.EarlierMean = round2(earlier)
		out.LaterMean = round2(later)
		out.Trend = directionalTrend(later-earlier, th.RPETrendDelta)
	}

	if out.Trend == TrendRising || out.FatigueIndicators >= th.FatigueConcernCount {
		out.Status = StatusConcern
	}
	return out
}
