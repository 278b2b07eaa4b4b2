package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/spigell/admissions-eligibility/internal/advisor"
	"github.com/spigell/admissions-eligibility/internal/eligibility"
	"github.com/spigell/admissions-eligibility/internal/grade"
	"github.com/spigell/admissions-eligibility/internal/summary"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	labelStyle   = lipgloss.NewStyle().Width(24)
	outcomeStyle = lipgloss.NewStyle().Width(9)

	outcomeColors = map[eligibility.Outcome]lipgloss.Color{
		eligibility.Passed:  lipgloss.Color("2"),
		eligibility.Failed:  lipgloss.Color("1"),
		eligibility.Missing: lipgloss.Color("3"),
	}
)

// Breakdown renders the summary header followed by one line per item.
func Breakdown(result *eligibility.Result, display summary.Display) string {
	var b strings.Builder

	b.WriteString(titleStyle.Foreground(statusColor(display.Status)).Render(display.Title))
	b.WriteString("\n")
	b.WriteString(display.Description)
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%s, %d passed, %d not met",
		display.CreditsLabel, display.PassedCount, display.FailedOrMissingCount)))
	b.WriteString("\n\n")

	if result != nil {
		for _, item := range result.Items {
			b.WriteString(row(item))
			b.WriteString("\n")
		}
	}

	if len(display.Remediation) > 0 {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("To become eligible"))
		b.WriteString("\n")
		for _, line := range display.Remediation {
			b.WriteString("  - ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	return b.String()
}

// Advice renders advisor output below a breakdown.
func Advice(advice *advisor.Advice) string {
	if advice == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Advice"))
	b.WriteString("\n")
	if advice.Message != "" {
		b.WriteString(advice.Message)
		b.WriteString("\n")
	}
	for _, step := range advice.NextSteps {
		b.WriteString("  - ")
		b.WriteString(step)
		b.WriteString("\n")
	}
	return b.String()
}

// Scale renders the grade scale with credits and ranks.
func Scale() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%-6s %-7s %s", "Grade", "Credit", "Rank")))
	b.WriteString("\n")
	for _, g := range grade.Scale() {
		b.WriteString(fmt.Sprintf("%-6s %-7d %d\n", g, g.Credit(), g.Rank()))
	}
	return b.String()
}

func row(item eligibility.Item) string {
	outcome := outcomeStyle.Foreground(outcomeColors[item.Outcome]).Render(string(item.Outcome))
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(item.Label), outcome, mutedStyle.Render(item.Detail))
}

func statusColor(status summary.Status) lipgloss.Color {
	if status == summary.StatusEligible {
		return outcomeColors[eligibility.Passed]
	}
	return outcomeColors[eligibility.Failed]
}
