package store

import "time"

// Auth represents OAuth tokens for Strava API access
type Auth struct {
	AthleteID    int64
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Activity sources
const (
	SourceStrava = "strava"
	SourceImport = "import"
)

// PlanRun is one stored plan generation.
type PlanRun struct {
	ID                string
	CreatedAt         time.Time
	GoalType          string
	Phase             string
	WeeklyTarget      float64
	TotalMiles        float64
	MileageMultiplier float64
	RulesFired        int
	Report            []byte // JSON
}
