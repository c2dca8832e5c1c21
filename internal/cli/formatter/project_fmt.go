package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// ProjectInspectData holds what the inspect card renders.
type ProjectInspectData struct {
	Project      *domain.Project
	Activities   []domain.Activity
	Dependencies []domain.Dependency
	Contractors  []domain.Contractor
	Packages     []domain.WorkPackage
}

// FormatProjectList renders a project list inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"ID", "NAME", "LOCATION", "START", "MODE", "STATUS"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		id := p.ShortID
		if strings.TrimSpace(id) == "" {
			id = TruncID(p.ID)
		}
		location := p.Location
		if location == "" {
			location = Dim("--")
		}
		start := p.StartDate
		rows = append(rows, []string{
			id,
			Bold(p.Name),
			location,
			DateCell(&start),
			strings.ToUpper(string(p.ScheduleMode)),
			ProjectStatusPill(p.Status),
		})
	}
	return RenderBox("Projects", RenderTable(headers, rows))
}

// FormatProjectInspect renders the project card: metadata on the left,
// schedule summary on the right.
func FormatProjectInspect(data ProjectInspectData) string {
	p := data.Project
	start := p.StartDate

	var left strings.Builder
	left.WriteString(Bold(p.Name) + "\n")
	left.WriteString(Dim(p.DisplayID()) + "\n\n")
	fmt.Fprintf(&left, "%s %s\n", Dim("Location:"), orDash(p.Location))
	fmt.Fprintf(&left, "%s %s\n", Dim("Start:   "), DateCell(&start))
	fmt.Fprintf(&left, "%s %s\n", Dim("Status:  "), ProjectStatusPill(p.Status))
	fmt.Fprintf(&left, "%s %s", Dim("Mode:    "), ModeBadge(p.ScheduleMode))

	var right strings.Builder
	dated, done := 0, 0
	var progress float64
	for _, a := range data.Activities {
		if a.HasDates() {
			dated++
		}
		if a.Status == domain.ActivityDone {
			done++
		}
		progress += a.Progress
	}
	if n := len(data.Activities); n > 0 {
		progress /= float64(n)
	}
	fmt.Fprintf(&right, "%s %d (%d dated, %d done)\n", Dim("Activities:  "), len(data.Activities), dated, done)
	fmt.Fprintf(&right, "%s %d\n", Dim("Dependencies:"), len(data.Dependencies))
	fmt.Fprintf(&right, "%s %d\n", Dim("Contractors: "), len(data.Contractors))
	fmt.Fprintf(&right, "%s %d\n", Dim("Packages:    "), len(data.Packages))
	if start, end, ok := span(data.Activities); ok {
		fmt.Fprintf(&right, "%s %s → %s\n", Dim("Span:        "), start, end)
	}
	fmt.Fprintf(&right, "%s %s", Dim("Progress:    "), RenderProgress(progress, 16))

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().PaddingRight(4).Render(left.String()),
		right.String(),
	)
	return RenderBox("Project", body)
}

func span(acts []domain.Activity) (string, string, bool) {
	var first, last string
	for _, a := range acts {
		if !a.HasDates() {
			continue
		}
		s, e := a.StartDate.Format(domain.DateLayout), a.EndDate.Format(domain.DateLayout)
		if first == "" || s < first {
			first = s
		}
		if e > last {
			last = e
		}
	}
	return first, last, first != ""
}

func orDash(s string) string {
	return domain.CoalesceStr(strings.TrimSpace(s), Dim("--"))
}
