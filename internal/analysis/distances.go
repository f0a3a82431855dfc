package analysis

import "fitness-coach/internal/telemetry"

// Standard race distances in meters
const (
	Distance1Mile     = telemetry.MetersPerMile
	Distance5K        = 5000
	Distance10K       = 10000
	DistanceHalfMara  = 21097
	DistanceMarathon  = 42195
	Distance50K       = 50000
	DistanceTolerance = 0.05 // 5% tolerance for race distance matching
)

// RaceDistances maps race keys to their distance in meters. Keys match the
// goal types used by the plan generator.
var RaceDistances = map[string]float64{
	"mile":          Distance1Mile,
	"5k":            Distance5K,
	"10k":           Distance10K,
	"half_marathon": DistanceHalfMara,
	"marathon":      DistanceMarathon,
}

// predictionKeys is the fixed output order for race predictions.
var predictionKeys = []string{"5k", "10k", "half_marathon", "marathon"}

// MatchesRaceDistance checks if an activity's total distance matches a standard race distance
// within the tolerance (±5%)
func MatchesRaceDistance(activityDistance float64, raceDistance float64) bool {
	lowerBound := raceDistance * (1 - DistanceTolerance)
	upperBound := raceDistance * (1 + DistanceTolerance)
	return activityDistance >= lowerBound && activityDistance <= upperBound
}

// MatchingRace returns the race key whose distance the activity matches.
func MatchingRace(activityDistance float64) (key string, distance float64, ok bool) {
	for _, k := range append([]string{"mile"}, predictionKeys...) {
		d := RaceDistances[k]
		if MatchesRaceDistance(activityDistance, d) {
			return k, d, true
		}
	}
	return "", 0, false
}

// CalculatePacePerMile calculates pace in seconds per mile
func CalculatePacePerMile(distanceMeters float64, durationSeconds int) float64 {
	if distanceMeters <= 0 || durationSeconds <= 0 {
		return 0
	}
	miles := distanceMeters / Distance1Mile
	return float64(durationSeconds) / miles
}
