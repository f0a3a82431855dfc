package render

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"fitness-coach/internal/adapt"
)

// Adaptations renders what the rule bank changed and why.
func (r *Renderer) Adaptations(res *adapt.Result) string {
	if res == nil {
		return ""
	}

	summary := []string{
		r.th.metric("Volume multiplier", fmt.Sprintf("%.2f", res.MileageMultiplier), "", r.th.muted),
		r.th.metric("Rules", fmt.Sprintf("%d fired / %d evaluated", res.RulesFired, res.RulesEvaluated),
			fmt.Sprintf("%d skipped", len(res.RulesSkipped)), r.th.muted),
	}
	if res.MileageMultiplier < 1 {
		summary[0] = r.th.metric("Volume multiplier", fmt.Sprintf("%.2f", res.MileageMultiplier), "reduced for recovery", r.th.warning)
	}

	for _, sc := range res.StructureChanges {
		summary = append(summary, r.th.warning.Render(bullet(fmt.Sprintf("Day %d: %s → %s (%s)", sc.DayIndex+1, sc.FromType, sc.ToType, sc.Reason))))
	}
	for _, pa := range res.PaceAdjustments {
		summary = append(summary, r.th.warning.Render(bullet(fmt.Sprintf("%s runs averaging %s, %s %s than %s",
			pa.Type, r.units.Pace(pa.ActualPace), r.units.PaceDelta(pa.DivergenceSeconds), pa.Direction, r.units.Pace(pa.ReferencePace)))))
	}
	if lr := res.LongRunAdjustment; lr != nil {
		switch lr.Kind {
		case adapt.LongRunCap:
			summary = append(summary, r.th.warning.Render(bullet(fmt.Sprintf("Long run capped at %s: %s", r.units.Distance(lr.CapMiles), lr.Reason))))
		case adapt.LongRunReduce:
			summary = append(summary, r.th.warning.Render(bullet(fmt.Sprintf("Long run reduced %.0f%%: %s", lr.ReducePercent*100, lr.Reason))))
		}
	}

	sections := []string{r.th.section("Adaptations", summary...)}

	if len(res.Insights) > 0 {
		var lines []string
		for _, in := range res.Insights {
			lines = append(lines, r.insight(in))
		}
		sections = append(sections, r.th.section("Insights", lines...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (r *Renderer) insight(in adapt.Insight) string {
	style := r.th.muted
	mark := "i"
	switch in.Severity {
	case adapt.SeverityWarning:
		style, mark = r.th.warning, "!"
	case adapt.SeverityPositive:
		style, mark = r.th.success, "+"
	}
	return style.Render(fmt.Sprintf("  [%s] %s", mark, in.Message))
}

// Rules renders the rule bank as a reference table.
func (r *Renderer) Rules(rules []adapt.Rule) string {
	lines := []string{r.th.tableHeader.Render(fmt.Sprintf("%-32s %-12s %s", "Rule", "Category", "Description"))}
	for _, rule := range rules {
		lines = append(lines, fmt.Sprintf("%-32s %-12s %s", rule.ID, rule.Category, rule.Description))
	}
	return r.th.section(fmt.Sprintf("Rule bank (%d rules)", len(rules)), lines...)
}
