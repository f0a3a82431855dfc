package strava

import (
	"time"

	"fitness-coach/internal/telemetry"
)

// Activity represents a Strava activity from the API
type Activity struct {
	ID                 int64     `json:"id"`
	Athlete            Athlete   `json:"athlete"`
	Name               string    `json:"name"`
	Type               string    `json:"type"`
	SportType          string    `json:"sport_type"`
	StartDate          time.Time `json:"start_date"`
	StartDateLocal     time.Time `json:"start_date_local"`
	Timezone           string    `json:"timezone"`
	Distance           float64   `json:"distance"`             // meters
	MovingTime         int       `json:"moving_time"`          // seconds
	ElapsedTime        int       `json:"elapsed_time"`         // seconds
	TotalElevationGain float64   `json:"total_elevation_gain"` // meters
	AverageHeartrate   float64   `json:"average_heartrate"`    // bpm
	MaxHeartrate       float64   `json:"max_heartrate"`        // bpm
	HasHeartrate       bool      `json:"has_heartrate"`
	PerceivedExertion  *float64  `json:"perceived_exertion"` // 1-10, detailed activity only
}

// Athlete represents a Strava athlete (minimal info in activity response)
type Athlete struct {
	ID int64 `json:"id"`
}

// ToTelemetry normalizes the API activity. Moving time is used as the
// duration; heart rate is kept only when the activity recorded it.
func (a Activity) ToTelemetry() telemetry.Activity {
	sport := a.SportType
	if sport == "" {
		sport = a.Type
	}
	duration := a.MovingTime
	if duration <= 0 {
		duration = a.ElapsedTime
	}

	out := telemetry.Activity{
		ID:                a.ID,
		Name:              a.Name,
		StartTime:         a.StartDate.UTC(),
		Type:              telemetry.ParseActivityType(sport),
		Distance:          a.Distance,
		Duration:          duration,
		PerceivedExertion: a.PerceivedExertion,
	}
	if a.HasHeartrate && a.AverageHeartrate > 0 {
		out.AvgHR = telemetry.Float(a.AverageHeartrate)
		if a.MaxHeartrate > 0 {
			out.MaxHR = telemetry.Float(a.MaxHeartrate)
		}
	}
	return out
}
