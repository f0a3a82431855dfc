package plan

import (
	"fmt"
	"math"

	"fitness-coach/internal/analysis"
)

// Pace band offsets from target pace, in seconds per mile.
const (
	easyOffsetFast  = 60
	easyOffsetSlow  = 120
	tempoOffsetSlow = 15
)

// Pace sources
const (
	PaceFromGoalTime = "goal_time"
	PaceFromFitness  = "fitness_estimate"
)

// Paces holds the prescribed pace bands in seconds per mile.
type Paces struct {
	Target    float64 `json:"target"`
	EasyFast  float64 `json:"easy_fast"`
	EasySlow  float64 `json:"easy_slow"`
	TempoFast float64 `json:"tempo_fast"`
	TempoSlow float64 `json:"tempo_slow"`
	Source    string  `json:"source"`
}

// DerivePaces computes the pace bands for a goal. Without a target time the
// athlete's fitness estimate stands in for the goal. It returns nil when no
// pace can be derived.
func DerivePaces(g Goal, results *analysis.Results) *Paces {
	miles := g.DistanceMiles()
	if miles <= 0 {
		return nil
	}

	if g.TargetTime > 0 {
		return newPaces(g.TargetTime.Seconds()/miles, PaceFromGoalTime)
	}
	if results != nil && results.Fitness != nil {
		if seconds := analysis.PredictTime(results.Fitness.VDOT, g.DistanceMeters()); seconds > 0 {
			return newPaces(float64(seconds)/(g.DistanceMeters()/analysis.Distance1Mile), PaceFromFitness)
		}
	}
	return nil
}

func newPaces(target float64, source string) *Paces {
	target = math.Round(target)
	return &Paces{
		Target:    target,
		EasyFast:  target + easyOffsetFast,
		EasySlow:  target + easyOffsetSlow,
		TempoFast: target,
		TempoSlow: target + tempoOffsetSlow,
		Source:    source,
	}
}

// FormatPace renders seconds per mile as m:ss.
func FormatPace(secondsPerMile float64) string {
	if secondsPerMile <= 0 || math.IsInf(secondsPerMile, 0) || math.IsNaN(secondsPerMile) {
		return "--:--"
	}
	total := int(math.Round(secondsPerMile))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// FormatDuration renders seconds as h:mm:ss, or m:ss below an hour.
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "--:--"
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
