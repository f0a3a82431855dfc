package render

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"

	"fitness-coach/internal/plan"
	"fitness-coach/internal/store"
)

// chartWidth is the plot width of the projection chart.
const chartWidth = 60

// ProjectionChart plots weekly volume and long run across the projection.
// It returns an empty string when there are fewer than two weeks.
func (r *Renderer) ProjectionChart(weeks []plan.WeekProjection) string {
	if len(weeks) < 2 {
		return ""
	}
	weekly := make([]float64, len(weeks))
	long := make([]float64, len(weeks))
	for i, w := range weeks {
		weekly[i] = w.WeeklyMiles
		long[i] = w.LongRunMiles
	}

	opts := []asciigraph.Option{
		asciigraph.Height(10),
		asciigraph.Width(chartWidth),
		asciigraph.Precision(0),
		asciigraph.Caption(fmt.Sprintf("weekly volume and long run (%s)", r.units.DistanceLabel())),
	}
	if r.color {
		opts = append(opts, asciigraph.SeriesColors(asciigraph.Green, asciigraph.Yellow))
	}
	return asciigraph.PlotMany([][]float64{r.units.ConvertMiles(weekly), r.units.ConvertMiles(long)}, opts...)
}

// Projection renders the chart and the week by week table.
func (r *Renderer) Projection(weeks []plan.WeekProjection) string {
	if len(weeks) == 0 {
		return r.th.section("Projection", r.th.muted.Render("No weeks to project"))
	}

	rows := []string{r.th.tableHeader.Render(fmt.Sprintf("%-5s %-7s %-12s %9s %9s", "Week", "Start", "Phase", "Volume", "Long"))}
	for _, w := range weeks {
		row := fmt.Sprintf("%-5d %-7s %-12s %9s %9s", w.WeekNumber, w.WeekStart.Format("Jan 02"), w.Phase,
			r.units.Distance(w.WeeklyMiles), r.units.Distance(w.LongRunMiles))
		if w.Phase == plan.PhaseRaceWeek {
			row = r.th.highlight.Render(row)
		}
		rows = append(rows, row)
	}

	sections := []string{}
	if chart := r.ProjectionChart(weeks); chart != "" {
		sections = append(sections, r.th.section("Volume", indent(chart)))
	}
	sections = append(sections, r.th.section(fmt.Sprintf("Projection (%d weeks)", len(weeks)), rows...))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Week renders a single projected week.
func (r *Renderer) Week(w plan.WeekProjection) string {
	lines := []string{
		r.th.metric("Starts", w.WeekStart.Format("Mon Jan 2"), "", r.th.muted),
		r.th.metric("Phase", string(w.Phase), w.Focus, r.th.muted),
		r.th.metric("Volume", r.units.Distance(w.WeeklyMiles), "", r.th.muted),
		r.th.metric("Long run", r.units.Distance(w.LongRunMiles), "", r.th.muted),
	}
	if w.WeeksUntilGoal >= 0 {
		lines = append(lines, r.th.metric("Weeks to goal", fmt.Sprintf("%d", w.WeeksUntilGoal), "", r.th.muted))
	}
	return r.th.section(fmt.Sprintf("%s week", humanize.Ordinal(w.WeekNumber)), lines...)
}

// History renders stored plan runs, newest first.
func (r *Renderer) History(runs []store.PlanRun, now time.Time) string {
	if len(runs) == 0 {
		return r.th.section("History", r.th.muted.Render("No plans generated yet"))
	}
	rows := []string{r.th.tableHeader.Render(fmt.Sprintf("%-8s %-16s %-14s %-11s %9s %6s %5s", "ID", "When", "Goal", "Phase", "Miles", "Mult", "Rules"))}
	for _, run := range runs {
		id := run.ID
		if len(id) > 8 {
			id = id[:8]
		}
		rows = append(rows, fmt.Sprintf("%-8s %-16s %-14s %-11s %9s %6.2f %5d",
			id,
			humanize.RelTime(run.CreatedAt, now, "ago", "from now"),
			run.GoalType,
			run.Phase,
			r.units.Distance(run.TotalMiles),
			run.MileageMultiplier,
			run.RulesFired,
		))
	}
	return r.th.section(fmt.Sprintf("History (%d plans)", len(runs)), rows...)
}
