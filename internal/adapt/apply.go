package adapt

import (
	"math"

	"fitness-coach/internal/plan"
)

// easyConversion is the share of distance kept when a day becomes easy.
const easyConversion = 0.8

// Apply writes the adaptation result into p. Structure changes apply only
// while the day still holds the workout type the rule expected.
func Apply(p *plan.Plan, r *Result) {
	if p == nil || r == nil {
		return
	}

	for _, sc := range r.StructureChanges {
		if sc.DayIndex < 0 || sc.DayIndex >= len(p.Schedule) {
			continue
		}
		day := &p.Schedule[sc.DayIndex]
		if day.Type != sc.FromType {
			continue
		}
		switch sc.ToType {
		case plan.Rest:
			day.Type = plan.Rest
			day.Title = "Rest"
			day.Distance = nil
			day.Description = "Full rest or light mobility."
		case plan.Easy:
			day.Type = plan.Easy
			day.Title = "Easy Run"
			day.Description = "Conversational effort."
			if day.Distance != nil {
				d := math.Round(*day.Distance * easyConversion)
				day.Distance = &d
			}
		}
		day.Note = "Adjusted: " + sc.Reason
	}

	if adj := r.LongRunAdjustment; adj != nil {
		if i := p.LongRunIndex(); i >= 0 && p.Schedule[i].Distance != nil {
			planned := *p.Schedule[i].Distance
			adjusted := planned
			switch adj.Kind {
			case LongRunCap:
				adjusted = math.Min(planned, adj.CapMiles)
			case LongRunReduce:
				adjusted = math.Round(planned * (1 - adj.ReducePercent))
			}
			p.Schedule[i].Distance = &adjusted
			p.Schedule[i].Note = "Adjusted: " + adj.Reason
			p.Summary.LongRunMiles = adjusted
		}
	}

	for _, in := range r.Insights {
		p.CoachingNotes = append(p.CoachingNotes, in.Message)
	}
	p.Recalculate()
}
