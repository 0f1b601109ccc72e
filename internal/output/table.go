package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/hal/stalemr/internal/format"
	"github.com/hal/stalemr/internal/model"
	"github.com/hal/stalemr/internal/service"
	"github.com/hal/stalemr/internal/slack"
)

// TableFormatter formats reports as a terminal table
type TableFormatter struct{}

// hyperlink creates a clickable terminal hyperlink using OSC 8
// Format: \033]8;;URL\033\\TEXT\033]8;;\033\\
func hyperlink(text, url string) string {
	// Only use hyperlinks if stdout is a terminal
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return text
	}
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, text)
}

// Format outputs one table per team with a footer summary.
func (f *TableFormatter) Format(reports []service.TeamReport, w io.Writer) error {
	if len(reports) == 0 {
		fmt.Fprintln(w, "No teams collected.")
		return nil
	}

	var total int
	for i, report := range reports {
		if i > 0 {
			fmt.Fprintln(w)
		}
		formatTeam(report, w)
		total += report.Total
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("━", 60))
	if total == 0 {
		fmt.Fprintln(w, "  🎉 nothing stale, nothing would be posted")
	} else {
		fmt.Fprintf(w, "  %s stale across %s\n",
			format.CountNoun(total, "merge request"),
			format.CountNoun(len(reports), "team"))
	}
	return nil
}

func formatTeam(report service.TeamReport, w io.Writer) {
	fmt.Fprintf(w, "Team: %s (%s)\n", report.Team.Name, format.CountNoun(report.Total, "stale MR"))

	if report.Total == 0 {
		fmt.Fprintln(w, "  all reviews up to date")
		return
	}

	// Column widths
	const (
		colUrgency = 11
		colProject = 16
		colTitle   = 40
		colAge     = 9
		colTicket  = 12
	)

	fmt.Fprintf(w, "  %-*s  %-*s  %-*s  %-*s  %-*s  %s\n",
		colUrgency, "Urgency",
		colProject, "Project",
		colTitle, "Title",
		colAge, "Age",
		colTicket, "Ticket",
		"Author")
	fmt.Fprintln(w, "  "+strings.Repeat("-", colUrgency+colProject+colTitle+colAge+colTicket+16))

	projectNames := make([]string, 0, len(report.ItemsByProject))
	for name := range report.ItemsByProject {
		projectNames = append(projectNames, name)
	}
	sort.Strings(projectNames)

	for _, name := range projectNames {
		items := append([]model.StaleItem(nil), report.ItemsByProject[name]...)
		sort.SliceStable(items, func(i, j int) bool { return items[i].DaysOld > items[j].DaysOld })

		for _, item := range items {
			tier := slack.TierFor(item.DaysOld, item.ThresholdUsed, item.Ticket.Priority)
			tierStr := format.PadRight(colorTier(tier), colUrgency)

			project := format.TruncateToWidth(name, colProject)
			project = format.PadRight(project, colProject)

			// Pad by the plain title's width: the OSC 8 wrapper contributes
			// zero visible columns.
			title := format.TruncateToWidth(item.MR.Title, colTitle)
			pad := colTitle - format.DisplayWidth(title)
			if pad < 0 {
				pad = 0
			}
			linkedTitle := hyperlink(title, item.MR.WebURL) + strings.Repeat(" ", pad)

			age := fmt.Sprintf("%dd > %dd", item.DaysOld, item.ThresholdUsed)

			ticket := item.Ticket.Key
			if ticket == "" {
				ticket = "-"
			}
			ticket = format.PadRight(format.TruncateToWidth(ticket, colTicket), colTicket)

			fmt.Fprintf(w, "  %s  %s  %s  %-*s  %s  %s\n",
				tierStr, project, linkedTitle, colAge, age, ticket, item.MR.Author.Name)
		}
	}
}

func colorTier(t slack.Tier) string {
	switch t {
	case slack.TierCritical:
		return color.RedString("CRITICAL")
	case slack.TierOverdue:
		return color.YellowString("OVERDUE")
	default:
		return color.CyanString("APPROACHING")
	}
}
