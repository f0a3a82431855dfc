package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"fitness-coach/internal/analysis"
	"fitness-coach/internal/config"
	"fitness-coach/internal/plan"
	"fitness-coach/internal/service"
)

// Renderer turns reports into terminal text.
type Renderer struct {
	units Units
	th    theme
	color bool
}

// New creates a renderer for the given display preferences.
func New(cfg config.DisplayConfig) *Renderer {
	return &Renderer{units: NewUnits(cfg), th: newTheme(cfg.Color), color: cfg.Color}
}

// Units returns the unit formatter of the renderer.
func (r *Renderer) Units() Units {
	return r.units
}

// Report renders a full plan report.
func (r *Renderer) Report(rep *service.Report) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		r.Plan(rep.Plan),
		r.Adaptations(rep.Adaptations),
		r.Analysis(rep.Analysis),
	)
}

// Plan renders the weekly prescription.
func (r *Renderer) Plan(p *plan.Plan) string {
	s := p.Summary
	var sections []string

	sections = append(sections, r.th.header.Render(fmt.Sprintf("%s plan · week of %s", p.Goal.Label(), s.WeekStart.Format("Jan 2"))))

	overview := []string{
		r.th.metric("Phase", string(s.Phase), s.Focus, r.th.muted),
		r.th.metric("Weekly target", r.units.Distance(s.WeeklyTarget), "", r.th.muted),
		r.th.metric("Scheduled", r.units.Distance(s.TotalMiles), "", r.th.muted),
		r.th.metric("Long run", r.units.Distance(s.LongRunMiles), "", r.th.muted),
	}
	if s.WeeksUntilGoal >= 0 {
		overview = append(overview, r.th.metric("Weeks to goal", fmt.Sprintf("%d", s.WeeksUntilGoal), "", r.th.muted))
	}
	if s.RecoveryMultiplier < 1 {
		overview = append(overview, r.th.metric("Recovery scaling", fmt.Sprintf("%.0f%%", s.RecoveryMultiplier*100), "volume reduced", r.th.warning))
	}
	sections = append(sections, r.th.section("This Week", overview...))

	sections = append(sections, r.th.section("Schedule", r.schedule(p.Schedule)...))

	if p.Paces != nil {
		sections = append(sections, r.th.section("Paces",
			r.th.metric("Goal", r.units.Pace(p.Paces.Target), "("+strings.ReplaceAll(p.Paces.Source, "_", " ")+")", r.th.muted),
			r.th.metric("Easy", r.units.Pace(p.Paces.EasyFast)+" - "+r.units.Pace(p.Paces.EasySlow), "", r.th.muted),
			r.th.metric("Tempo", r.units.Pace(p.Paces.TempoFast)+" - "+r.units.Pace(p.Paces.TempoSlow), "", r.th.muted),
		))
	}

	if len(p.CoachingNotes) > 0 {
		var lines []string
		for _, n := range p.CoachingNotes {
			lines = append(lines, bullet(n))
		}
		sections = append(sections, r.th.section("Coaching Notes", lines...))
	}
	if len(p.RecoveryRecommendations) > 0 {
		var lines []string
		for _, n := range p.RecoveryRecommendations {
			lines = append(lines, bullet(n))
		}
		sections = append(sections, r.th.section("Recovery", lines...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (r *Renderer) schedule(days []plan.DailyPlan) []string {
	rows := []string{r.th.tableHeader.Render(fmt.Sprintf("%-10s %-7s %-16s %9s", "Day", "Date", "Workout", "Distance"))}
	for _, d := range days {
		dist := "-"
		if d.Distance != nil {
			dist = r.units.Distance(*d.Distance)
		}
		row := fmt.Sprintf("%-10s %-7s %-16s %9s", d.Day, d.Date.Format("Jan 02"), d.Title, dist)
		switch {
		case d.Note != "":
			row = r.th.warning.Render(row) + "  " + r.th.muted.Render(d.Note)
		case d.Type == plan.LongRun || d.Type == plan.Race:
			row = r.th.highlight.Render(row)
		case d.Type == plan.Rest:
			row = r.th.muted.Render(row)
		}
		rows = append(rows, row)
	}
	return rows
}

// Analysis renders the readiness assessment. Metrics without data are
// listed as unavailable.
func (r *Renderer) Analysis(res *analysis.Results) string {
	if res == nil {
		return r.th.section("Readiness", r.th.muted.Render("No analysis available"))
	}

	series := func(label string, s *analysis.Series, format string) string {
		if s == nil {
			return r.th.metric(label, "n/a", "no data", r.th.muted)
		}
		value := fmt.Sprintf(format, s.Current) + " (baseline " + fmt.Sprintf(format, s.Baseline) + ")"
		return r.th.metric(label, value, fmt.Sprintf("%s, %s", s.Status, s.Trend), r.th.statusStyle(s.Status))
	}

	rows := []struct {
		label  string
		s      *analysis.Series
		format string
	}{
		{"Resting HR", nil, "%.0f bpm"},
		{"Body battery", nil, "%.0f"},
		{"Sleep", nil, "%.1f h"},
		{"Stress", nil, "%.0f"},
		{"Sedentary", nil, "%.0f min"},
		{"VO2max", nil, "%.1f"},
	}
	if res.RestingHR != nil {
		rows[0].s = &res.RestingHR.Series
	}
	if res.BodyBattery != nil {
		rows[1].s = &res.BodyBattery.Series
	}
	if res.Sleep != nil {
		rows[2].s = &res.Sleep.Series
	}
	if res.Stress != nil {
		rows[3].s = &res.Stress.Series
	}
	if res.Sedentary != nil {
		rows[4].s = &res.Sedentary.Series
	}
	if res.VO2Max != nil {
		rows[5].s = &res.VO2Max.Series
	}

	var lines []string
	for _, row := range rows {
		lines = append(lines, series(row.label, row.s, row.format))
	}

	if res.Steps != nil {
		lines = append(lines, r.th.metric("Steps", humanize.Comma(int64(res.Steps.Current))+"/day",
			fmt.Sprintf("%s, %s", res.Steps.Status, res.Steps.Trend), r.th.statusStyle(res.Steps.Status)))
	} else {
		lines = append(lines, r.th.metric("Steps", "n/a", "no data", r.th.muted))
	}

	if res.RPE != nil {
		lines = append(lines, r.th.metric("Perceived effort", fmt.Sprintf("%.1f / 10", res.RPE.Average),
			fmt.Sprintf("%s, %s", res.RPE.Status, res.RPE.Trend), r.th.statusStyle(res.RPE.Status)))
	} else {
		lines = append(lines, r.th.metric("Perceived effort", "n/a", "no data", r.th.muted))
	}

	if res.Sleep != nil && res.Sleep.ShortNightsThisWeek > 0 {
		lines = append(lines, r.th.warning.Render(fmt.Sprintf("  %d short nights this week", res.Sleep.ShortNightsThisWeek)))
	}
	if res.DayOfWeek != nil && res.DayOfWeek.WorstSleepDay != nil {
		lines = append(lines, r.th.muted.Render("  Worst sleep day: "+res.DayOfWeek.WorstSleepDay.String()))
	}

	sections := []string{r.th.section(fmt.Sprintf("Readiness (%d metrics available)", res.AvailableCount()), lines...)}

	if res.Load != nil || res.Fitness != nil {
		var fit []string
		if res.Load != nil {
			fit = append(fit,
				r.th.metric("Fitness (CTL)", fmt.Sprintf("%.0f", res.Load.CTL), "", r.th.muted),
				r.th.metric("Fatigue (ATL)", fmt.Sprintf("%.0f", res.Load.ATL), "", r.th.muted),
				r.th.metric("Form (TSB)", fmt.Sprintf("%.0f", res.Load.TSB), res.Load.Form, r.th.muted),
			)
		}
		if res.Fitness != nil {
			fit = append(fit, r.th.metric("VDOT", fmt.Sprintf("%.1f", res.Fitness.VDOT), res.Fitness.Label, r.th.muted))
			for _, race := range []string{"5k", "10k", "half_marathon", "marathon"} {
				if secs, ok := res.Fitness.Predictions[race]; ok {
					fit = append(fit, r.th.metric("  "+strings.ReplaceAll(race, "_", " "), plan.FormatDuration(secs), "", r.th.muted))
				}
			}
		}
		sections = append(sections, r.th.section("Training Load", fit...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
