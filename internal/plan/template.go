package plan

import (
	"fmt"
	"math"
	"time"

	"fitness-coach/internal/telemetry"
)

// WorkoutType is the kind of session prescribed for a day.
type WorkoutType string

const (
	Rest      WorkoutType = "rest"
	Easy      WorkoutType = "easy"
	Tempo     WorkoutType = "tempo"
	LongRun   WorkoutType = "long_run"
	Intervals WorkoutType = "intervals"
	Race      WorkoutType = "race"
)

// DailyPlan is one day of the weekly schedule. Distance is in miles and is
// nil on days without running.
type DailyPlan struct {
	Day         string      `json:"day"`
	Date        time.Time   `json:"date"`
	Type        WorkoutType `json:"type"`
	Title       string      `json:"title"`
	Distance    *float64    `json:"distance"`
	Description string      `json:"description"`
	Note        string      `json:"note,omitempty"`
}

// Miles returns the distance, treating nil as zero.
func (d DailyPlan) Miles() float64 {
	if d.Distance == nil {
		return 0
	}
	return *d.Distance
}

type slot int

const (
	slotRest slot = iota
	slotEasy
	slotTempo
	slotShortTempo
	slotStrides
	slotShakeout
	slotRecovery
	slotLong
	slotRacePace
	slotRace
)

// minRunMiles is the shortest run placed on a running day.
const minRunMiles = 2

// shakeoutMinWeekly is the weekly volume below which the shakeout becomes rest.
const shakeoutMinWeekly = 25

var slotWeights = map[slot]float64{
	slotEasy:       1.0,
	slotTempo:      1.0,
	slotShortTempo: 0.7,
	slotStrides:    0.9,
	slotShakeout:   0.5,
	slotRecovery:   0.6,
	slotRacePace:   1.0,
}

// weekTemplate picks the fixed Monday-first day table for a normal or taper
// week. Race week is assembled separately around the race day.
func weekTemplate(phase Phase, longDay time.Weekday, weekly float64) [7]slot {
	middle := slotEasy
	if phase.IncludesTempo() {
		middle = slotTempo
	}
	extra := slotRest
	if weekly >= shakeoutMinWeekly {
		extra = slotShakeout
	}

	if phase == PhaseTaper {
		if longDay == time.Saturday {
			return [7]slot{slotRest, slotEasy, slotShortTempo, slotEasy, slotRest, slotLong, slotRest}
		}
		return [7]slot{slotRest, slotEasy, slotShortTempo, slotRest, slotEasy, slotRest, slotLong}
	}
	if longDay == time.Saturday {
		return [7]slot{slotRest, slotEasy, middle, slotStrides, extra, slotLong, slotRecovery}
	}
	return [7]slot{slotRest, slotEasy, middle, slotRest, slotStrides, extra, slotLong}
}

// raceWeekTable maps days-before-race to the prescribed slot and distance.
var raceWeekTable = map[int]struct {
	slot  slot
	miles float64
}{
	6: {slotEasy, 4},
	5: {slotEasy, 3},
	4: {slotRest, 0},
	3: {slotRacePace, 3},
	2: {slotShakeout, 2},
	1: {slotRest, 0},
}

// shortRaceScale shrinks race-week running for 5K and 10K goals.
const shortRaceScale = 0.6

func buildSchedule(g Goal, phase Phase, weekStart time.Time, weekly, long float64, paces *Paces) []DailyPlan {
	var slots [7]slot
	var miles [7]float64

	if phase == PhaseRaceWeek {
		slots, miles = raceWeek(g)
	} else {
		slots = weekTemplate(phase, g.LongRunWeekday(), weekly)
		miles = spreadDistance(slots, weekly, long)
	}

	schedule := make([]DailyPlan, 7)
	for i, s := range slots {
		date := weekStart.AddDate(0, 0, i)
		day := describe(s, g, paces, miles[i])
		day.Day = telemetry.Weekdays[i].String()
		day.Date = date
		if s != slotRest {
			m := miles[i]
			day.Distance = &m
		}
		schedule[i] = day
	}
	return schedule
}

// raceWeek lays out the fixed taper around the race weekday.
func raceWeek(g Goal) ([7]slot, [7]float64) {
	var slots [7]slot
	var miles [7]float64
	raceIdx := telemetry.WeekdayIndex(g.TargetDate.Weekday())
	scale := 1.0
	if g.Type == Goal5K || g.Type == Goal10K {
		scale = shortRaceScale
	}

	for i := range slots {
		before := raceIdx - i
		switch {
		case before == 0:
			slots[i], miles[i] = slotRace, g.DistanceMiles()
		case before < 0:
			slots[i] = slotRest
		default:
			entry := raceWeekTable[before]
			slots[i] = entry.slot
			miles[i] = math.Round(entry.miles*scale*10) / 10
		}
	}
	return slots, miles
}

// spreadDistance gives the long run its distance and splits the rest of the
// weekly volume across the running days by weight.
func spreadDistance(slots [7]slot, weekly, long float64) [7]float64 {
	var miles [7]float64
	var total float64
	for _, s := range slots {
		total += slotWeights[s]
	}
	remaining := math.Max(0, weekly-long)

	for i, s := range slots {
		switch {
		case s == slotLong:
			miles[i] = long
		case slotWeights[s] > 0:
			miles[i] = math.Max(minRunMiles, math.Round(remaining*slotWeights[s]/total))
		}
	}
	return miles
}

func describe(s slot, g Goal, paces *Paces, miles float64) DailyPlan {
	easy, tempo, target := "", "", ""
	if paces != nil {
		easy = fmt.Sprintf(" (%s-%s/mi)", FormatPace(paces.EasyFast), FormatPace(paces.EasySlow))
		tempo = fmt.Sprintf(" (%s-%s/mi)", FormatPace(paces.TempoFast), FormatPace(paces.TempoSlow))
		target = fmt.Sprintf(" (%s/mi)", FormatPace(paces.Target))
	}

	switch s {
	case slotEasy:
		return DailyPlan{Type: Easy, Title: "Easy Run", Description: "Conversational effort" + easy + "."}
	case slotTempo:
		return DailyPlan{Type: Tempo, Title: "Tempo Run",
			Description: fmt.Sprintf("1 mi warm-up, %.0f mi at tempo%s, 1 mi cool-down.", math.Max(1, miles-2), tempo)}
	case slotShortTempo:
		return DailyPlan{Type: Tempo, Title: "Short Tempo",
			Description: "2 mi at tempo" + tempo + " to stay sharp, easy otherwise."}
	case slotStrides:
		return DailyPlan{Type: Easy, Title: "Easy + Strides", Description: "Easy run" + easy + " finishing with 6 x 20s strides."}
	case slotShakeout:
		return DailyPlan{Type: Easy, Title: "Shakeout", Description: "Very easy and relaxed" + easy + "."}
	case slotRecovery:
		return DailyPlan{Type: Easy, Title: "Recovery Run", Description: "Gentle recovery the day after the long run" + easy + "."}
	case slotLong:
		return DailyPlan{Type: LongRun, Title: "Long Run", Description: "Steady easy effort" + easy + ", fuel and hydrate."}
	case slotRacePace:
		return DailyPlan{Type: Easy, Title: "Easy + Race Pace", Description: "Easy run with 3 x 0.5 mi at goal pace" + target + "."}
	case slotRace:
		return DailyPlan{Type: Race, Title: "Race Day: " + g.Label(), Description: "Race day. Start controlled" + target + " and trust the training."}
	default:
		return DailyPlan{Type: Rest, Title: "Rest", Description: "Full rest or light mobility."}
	}
}
