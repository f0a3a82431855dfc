package plan

import (
	"fmt"
	"math"

	"fitness-coach/internal/analysis"
)

var experienceNotes = map[Experience]string{
	Beginner:     "Keep every easy run truly easy; consistency beats intensity.",
	Intermediate: "Hit the quality day, keep the rest relaxed.",
	Advanced:     "Protect recovery between the key sessions.",
}

func coachingNotes(g Goal, phase Phase, weeks int, paces *Paces, results *analysis.Results) []string {
	notes := []string{phase.Focus()}
	if g.IsRace() && weeks >= 0 {
		notes = append(notes, fmt.Sprintf("%d weeks until your %s.", weeks, g.Label()))
	}
	if n, ok := experienceNotes[g.Experience]; ok {
		notes = append(notes, n)
	}
	if g.Type == GoalReturnFromInjury {
		notes = append(notes, "Returning from injury: volume is held conservative. Stop if pain returns.")
	}

	if paces != nil {
		prefix := "Goal pace"
		if paces.Source == PaceFromFitness {
			prefix = "Estimated race pace"
		}
		notes = append(notes, fmt.Sprintf("%s %s/mi; easy runs %s-%s/mi.",
			prefix, FormatPace(paces.Target), FormatPace(paces.EasyFast), FormatPace(paces.EasySlow)))
	}

	if results != nil && results.Fitness != nil && g.IsRace() && g.TargetTime > 0 {
		predicted := analysis.PredictTime(results.Fitness.VDOT, g.DistanceMeters())
		goal := int(g.TargetTime.Seconds())
		diff := predicted - goal
		switch {
		case math.Abs(float64(diff)) < 60:
			notes = append(notes, fmt.Sprintf("Recent runs predict %s, right on your goal.", FormatDuration(predicted)))
		case diff < 0:
			notes = append(notes, fmt.Sprintf("Recent runs predict %s, %s ahead of your goal.",
				FormatDuration(predicted), FormatDuration(-diff)))
		default:
			notes = append(notes, fmt.Sprintf("Recent runs predict %s, %s behind your goal.",
				FormatDuration(predicted), FormatDuration(diff)))
		}
	}

	if results != nil && results.Load != nil {
		notes = append(notes, fmt.Sprintf("Training form: %s (TSB %.1f).", results.Load.Form, results.Load.TSB))
	}
	return notes
}

func recoveryRecommendations(results *analysis.Results) []string {
	if results == nil {
		return nil
	}
	var recs []string
	if r := results.RestingHR; r != nil && r.Status == analysis.StatusConcern {
		recs = append(recs, fmt.Sprintf("Resting HR is up %.0f bpm over baseline. Keep easy days easy.", r.Change))
	}
	if r := results.BodyBattery; r != nil && r.Status == analysis.StatusConcern {
		recs = append(recs, fmt.Sprintf("Body battery is averaging %.0f on waking. Add an early night.", r.Current))
	}
	if r := results.Sleep; r != nil && r.Status == analysis.StatusConcern {
		recs = append(recs, fmt.Sprintf("Sleep is averaging %.1f h. Aim for 7+ hours.", r.Current))
	}
	if r := results.Stress; r != nil && r.Status == analysis.StatusConcern {
		recs = append(recs, "Stress is running high. Swap a hard session for mobility if needed.")
	}
	if r := results.RPE; r != nil && r.Status == analysis.StatusConcern {
		recs = append(recs, "Runs are feeling harder than they should. Back off the pace.")
	}
	if r := results.Sedentary; r != nil && r.Status == analysis.StatusConcern {
		recs = append(recs, "Long sedentary days: short walks help recovery.")
	}
	return recs
}
