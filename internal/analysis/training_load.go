package analysis

import (
	"math"
	"sort"
	"time"

	"fitness-coach/internal/telemetry"
)

// HRZones represents athlete's heart rate zones
type HRZones struct {
	RestingHR float64
	MaxHR     float64
}

// DefaultZones returns sensible defaults if not configured
func DefaultZones() HRZones {
	return HRZones{
		RestingHR: 50,
		MaxHR:     185,
	}
}

// TRIMP calculates Training Impulse (Banister model)
// TRIMP = duration (min) * ΔHR ratio * e^(b * ΔHR ratio)
// where b = 1.92 for men, 1.67 for women (using male default)
func TRIMP(activity telemetry.Activity, zones HRZones) float64 {
	if activity.AvgHR == nil || *activity.AvgHR <= 0 || activity.Duration <= 0 {
		return 0
	}
	hrReserve := zones.MaxHR - zones.RestingHR
	if hrReserve <= 0 {
		return 0
	}

	minutes := float64(activity.Duration) / 60.0
	ratio := math.Max(0, math.Min(1, (*activity.AvgHR-zones.RestingHR)/hrReserve))
	return minutes * ratio * math.Exp(1.92*ratio)
}

// DailyLoad represents training load for a single day
type DailyLoad struct {
	Date  time.Time
	TRIMP float64
}

// FitnessMetrics represents CTL/ATL/TSB for a day
type FitnessMetrics struct {
	Date time.Time
	CTL  float64 // Chronic Training Load (42-day EMA) - "Fitness"
	ATL  float64 // Acute Training Load (7-day EMA) - "Fatigue"
	TSB  float64 // Training Stress Balance (CTL - ATL) - "Form"
}

// DailyLoads sums TRIMP per calendar day for activities with heart rate.
func DailyLoads(activities []telemetry.Activity, zones HRZones) []DailyLoad {
	byDay := make(map[time.Time]float64)
	for _, a := range activities {
		if t := TRIMP(a, zones); t > 0 {
			byDay[telemetry.DateOf(a.StartTime)] += t
		}
	}
	loads := make([]DailyLoad, 0, len(byDay))
	for d, t := range byDay {
		loads = append(loads, DailyLoad{Date: d, TRIMP: t})
	}
	sort.Slice(loads, func(i, j int) bool {
		return loads[i].Date.Before(loads[j].Date)
	})
	return loads
}

// CalculateFitnessTrend computes CTL/ATL/TSB from daily loads through end,
// filling days without activity with zero load. The input is not modified.
func CalculateFitnessTrend(dailyLoads []DailyLoad, end time.Time) []FitnessMetrics {
	if len(dailyLoads) == 0 {
		return nil
	}

	loadMap := make(map[time.Time]float64)
	start := telemetry.DateOf(dailyLoads[0].Date)
	for _, dl := range dailyLoads {
		d := telemetry.DateOf(dl.Date)
		loadMap[d] += dl.TRIMP
		if d.Before(start) {
			start = d
		}
	}
	last := telemetry.DateOf(end)

	ctlDecay := 2.0 / (42.0 + 1.0)
	atlDecay := 2.0 / (7.0 + 1.0)

	var metrics []FitnessMetrics
	var ctl, atl float64
	for d := start; !d.After(last); d = d.AddDate(0, 0, 1) {
		trimp := loadMap[d]
		ctl += ctlDecay * (trimp - ctl)
		atl += atlDecay * (trimp - atl)
		metrics = append(metrics, FitnessMetrics{Date: d, CTL: ctl, ATL: atl, TSB: ctl - atl})
	}
	return metrics
}

// FormDescription returns a human-readable description of TSB
func FormDescription(tsb float64) string {
	switch {
	case tsb > 25:
		return "Very fresh (possibly detrained)"
	case tsb > 10:
		return "Fresh and ready to race"
	case tsb > 0:
		return "Neutral - good for training"
	case tsb > -10:
		return "Slightly fatigued"
	case tsb > -25:
		return "Tired but building fitness"
	default:
		return "Very fatigued - rest needed"
	}
}

// TrainingLoad summarizes heart-rate based load at the end of the window.
type TrainingLoad struct {
	CTL         float64 `json:"ctl"`
	ATL         float64 `json:"atl"`
	TSB         float64 `json:"tsb"`
	Form        string  `json:"form"`
	WeeklyTRIMP float64 `json:"weekly_trimp"`
	Activities  int     `json:"activities"`
}

func analyzeLoad(activities []telemetry.Activity, zones HRZones) *TrainingLoad {
	loads := DailyLoads(activities, zones)
	if len(loads) == 0 {
		return nil
	}
	end := loads[len(loads)-1].Date
	for _, a := range activities {
		if d := telemetry.DateOf(a.StartTime); d.After(end) {
			end = d
		}
	}
	trend := CalculateFitnessTrend(loads, end)
	current := trend[len(trend)-1]

	var weekly float64
	weekStart := end.AddDate(0, 0, -6)
	for _, l := range loads {
		if !l.Date.Before(weekStart) {
			weekly += l.TRIMP
		}
	}

	count := 0
	for _, a := range activities {
		if TRIMP(a, zones) > 0 {
			count++
		}
	}
	return &TrainingLoad{
		CTL:         round1(current.CTL),
		ATL:         round1(current.ATL),
		TSB:         round1(current.TSB),
		Form:        FormDescription(current.TSB),
		WeeklyTRIMP: round1(weekly),
		Activities:  count,
	}
}
