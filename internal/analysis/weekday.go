package analysis

import (
	"time"

	"fitness-coach/internal/telemetry"
)

// DayStats holds the per-weekday averages. Fields without data are nil.
type DayStats struct {
	Day         string   `json:"day"`
	SleepHours  *float64 `json:"sleep_hours,omitempty"`
	BodyBattery *float64 `json:"body_battery,omitempty"`
	Stress      *float64 `json:"stress,omitempty"`
	Steps       *float64 `json:"steps,omitempty"`
}

// DayOfWeekSummary aggregates wellness values by weekday to expose
// systematically weak days.
type DayOfWeekSummary struct {
	Days                [7]DayStats   `json:"days"` // Monday first
	WorstSleepDay       *time.Weekday `json:"worst_sleep_day,omitempty"`
	WorstBodyBatteryDay *time.Weekday `json:"worst_body_battery_day,omitempty"`
}

// IsWorstDay reports whether d is the worst sleep or body battery day.
func (s *DayOfWeekSummary) IsWorstDay(d time.Weekday) bool {
	if s == nil {
		return false
	}
	return (s.WorstSleepDay != nil && *s.WorstSleepDay == d) ||
		(s.WorstBodyBatteryDay != nil && *s.WorstBodyBatteryDay == d)
}

// HasWorstDay reports whether any worst day could be identified.
func (s *DayOfWeekSummary) HasWorstDay() bool {
	return s != nil && (s.WorstSleepDay != nil || s.WorstBodyBatteryDay != nil)
}

func analyzeDayOfWeek(snap telemetry.Snapshot) *DayOfWeekSummary {
	var sleep, battery, stress, steps [7][]float64
	found := false

	for _, r := range snap.Sleep {
		if r.TotalHours > 0 && r.TotalHours <= 24 {
			i := weekdayIndex(r.Date)
			sleep[i] = append(sleep[i], r.TotalHours)
			found = true
		}
	}
	for _, d := range snap.Daily {
		i := weekdayIndex(d.Date)
		if d.BodyBatteryHigh != nil && *d.BodyBatteryHigh > 0 && *d.BodyBatteryHigh <= 100 {
			battery[i] = append(battery[i], *d.BodyBatteryHigh)
			found = true
		}
		if d.Stress != nil && *d.Stress > 0 && *d.Stress <= 100 {
			stress[i] = append(stress[i], *d.Stress)
			found = true
		}
		if d.Steps > 0 {
			steps[i] = append(steps[i], float64(d.Steps))
			found = true
		}
	}
	if !found {
		return nil
	}

	out := &DayOfWeekSummary{}
	for i, wd := range telemetry.Weekdays {
		out.Days[i] = DayStats{
			Day:         wd.String(),
			SleepHours:  meanPtr(sleep[i]),
			BodyBattery: meanPtr(battery[i]),
			Stress:      meanPtr(stress[i]),
			Steps:       meanPtr(steps[i]),
		}
	}
	out.WorstSleepDay = lowestDay(out.Days, func(d DayStats) *float64 { return d.SleepHours })
	out.WorstBodyBatteryDay = lowestDay(out.Days, func(d DayStats) *float64 { return d.BodyBattery })
	return out
}

// lowestDay returns the weekday with the lowest average. At least two
// weekdays must have data; ties go to the earlier weekday.
func lowestDay(days [7]DayStats, get func(DayStats) *float64) *time.Weekday {
	var worst *time.Weekday
	var lowest float64
	withData := 0
	for i, d := range days {
		v := get(d)
		if v == nil {
			continue
		}
		withData++
		if worst == nil || *v < lowest {
			wd := telemetry.Weekdays[i]
			worst = &wd
			lowest = *v
		}
	}
	if withData < 2 {
		return nil
	}
	return worst
}
