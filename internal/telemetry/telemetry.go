// Package telemetry defines the normalized health and activity records the
// coaching engine reads. Records are produced by the ingestion layer (Strava
// sync, file import) and are never modified once created.
package telemetry

import (
	"sort"
	"strings"
	"time"
)

// MetersPerMile converts provider distances into planning miles.
const MetersPerMile = 1609.34

// ActivityType is the normalized sport of an activity
type ActivityType string

const (
	TypeRun   ActivityType = "run"
	TypeBike  ActivityType = "bike"
	TypeSwim  ActivityType = "swim"
	TypeWalk  ActivityType = "walk"
	TypeHike  ActivityType = "hike"
	TypeOther ActivityType = "other"
)

// ParseActivityType maps provider sport names onto ActivityType.
func ParseActivityType(s string) ActivityType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "run", "running", "trailrun", "trail_running", "virtualrun", "treadmill_running", "track_running":
		return TypeRun
	case "ride", "bike", "cycling", "virtualride", "ebikeride", "mountainbikeride", "gravelride", "road_biking":
		return TypeBike
	case "swim", "swimming", "lap_swimming", "open_water_swimming":
		return TypeSwim
	case "walk", "walking":
		return TypeWalk
	case "hike", "hiking":
		return TypeHike
	default:
		return TypeOther
	}
}

// Activity is a single recorded workout.
type Activity struct {
	ID                int64        `json:"id"`
	Name              string       `json:"name,omitempty"`
	StartTime         time.Time    `json:"start_time"`
	Type              ActivityType `json:"type"`
	Distance          float64      `json:"distance"` // meters
	Duration          int          `json:"duration"` // seconds
	AvgHR             *float64     `json:"avg_hr,omitempty"`
	MaxHR             *float64     `json:"max_hr,omitempty"`
	PerceivedExertion *float64     `json:"perceived_exertion,omitempty"` // 1-10
	AerobicEffect     *float64     `json:"aerobic_training_effect,omitempty"`
	AnaerobicEffect   *float64     `json:"anaerobic_training_effect,omitempty"`
}

// IsRun reports whether the activity is a run.
func (a Activity) IsRun() bool {
	return a.Type == TypeRun
}

// Miles returns the activity distance in miles.
func (a Activity) Miles() float64 {
	return a.Distance / MetersPerMile
}

// PacePerMile returns seconds per mile. ok is false when distance or
// duration is zero, in which case there is no pace.
func (a Activity) PacePerMile() (pace float64, ok bool) {
	if a.Distance <= 0 || a.Duration <= 0 {
		return 0, false
	}
	return float64(a.Duration) / a.Miles(), true
}

// SleepRecord is one night of sleep, keyed by wake date.
type SleepRecord struct {
	Date       time.Time `json:"date"`
	TotalHours float64   `json:"total_hours"`
	DeepHours  float64   `json:"deep_hours,omitempty"`
	LightHours float64   `json:"light_hours,omitempty"`
	REMHours   float64   `json:"rem_hours,omitempty"`
	AwakeHours float64   `json:"awake_hours,omitempty"`
	Score      *int      `json:"score,omitempty"`
}

// HeartRateRecord holds the daily heart rate values.
type HeartRateRecord struct {
	Date      time.Time `json:"date"`
	RestingHR float64   `json:"resting_hr"`
	MaxHR     *float64  `json:"max_hr,omitempty"`
	AvgHR     *float64  `json:"avg_hr,omitempty"`
}

// DailySummary aggregates the wellness values of one day. Only richer
// providers fill the body battery and stress fields.
type DailySummary struct {
	Date               time.Time `json:"date"`
	Steps              int       `json:"steps"`
	Stress             *float64  `json:"stress,omitempty"`
	BodyBatteryHigh    *float64  `json:"body_battery_high,omitempty"`
	BodyBatteryLow     *float64  `json:"body_battery_low,omitempty"`
	BodyBatteryCharged *float64  `json:"body_battery_charged,omitempty"`
	BodyBatteryDrained *float64  `json:"body_battery_drained,omitempty"`
	SedentaryMinutes   *float64  `json:"sedentary_minutes,omitempty"`
	ActiveMinutes      *float64  `json:"active_minutes,omitempty"`
}

// Vo2MaxRecord is a device VO2max estimate.
type Vo2MaxRecord struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Snapshot is the trailing window of telemetry handed to the engine.
type Snapshot struct {
	Activities []Activity        `json:"activities"`
	Sleep      []SleepRecord     `json:"sleep"`
	HeartRate  []HeartRateRecord `json:"heart_rate"`
	Daily      []DailySummary    `json:"daily"`
	Vo2Max     []Vo2MaxRecord    `json:"vo2max"`
}

// IsEmpty reports whether the snapshot has no records at all.
func (s Snapshot) IsEmpty() bool {
	return len(s.Activities) == 0 && len(s.Sleep) == 0 && len(s.HeartRate) == 0 &&
		len(s.Daily) == 0 && len(s.Vo2Max) == 0
}

// Runs returns the run activities sorted by start time.
func (s Snapshot) Runs() []Activity {
	var runs []Activity
	for _, a := range s.Activities {
		if a.IsRun() {
			runs = append(runs, a)
		}
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartTime.Before(runs[j].StartTime)
	})
	return runs
}

// Window returns a new snapshot holding only records dated within the
// `days` calendar days ending on `end` (inclusive).
func (s Snapshot) Window(end time.Time, days int) Snapshot {
	last := DateOf(end)
	first := last.AddDate(0, 0, -(days - 1))
	in := func(t time.Time) bool {
		d := DateOf(t)
		return !d.Before(first) && !d.After(last)
	}

	var out Snapshot
	for _, a := range s.Activities {
		if in(a.StartTime) {
			out.Activities = append(out.Activities, a)
		}
	}
	for _, r := range s.Sleep {
		if in(r.Date) {
			out.Sleep = append(out.Sleep, r)
		}
	}
	for _, r := range s.HeartRate {
		if in(r.Date) {
			out.HeartRate = append(out.HeartRate, r)
		}
	}
	for _, r := range s.Daily {
		if in(r.Date) {
			out.Daily = append(out.Daily, r)
		}
	}
	for _, r := range s.Vo2Max {
		if in(r.Date) {
			out.Vo2Max = append(out.Vo2Max, r)
		}
	}
	return out
}

// DateOf truncates t to its calendar date at UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// WeekdayIndex maps a weekday onto a Monday-first index (Monday = 0).
func WeekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// Weekdays lists the days of the week Monday first.
var Weekdays = [7]time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}
