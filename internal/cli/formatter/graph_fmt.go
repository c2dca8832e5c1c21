package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/schedule"
)

// FormatGraph renders graph nodes with their predecessors and any warnings.
// Relation details are shown when the graph was built with them.
func FormatGraph(g schedule.Graph) string {
	headers := []string{"#", "NAME", "START", "END", "PROGRESS", "AFTER", "CONTRACTOR"}
	rows := make([][]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		start, end := n.Start, n.End
		after := IDList(n.Predecessors)
		if len(n.Relations) > 0 {
			parts := make([]string, len(n.Relations))
			for i, r := range n.Relations {
				parts[i] = fmt.Sprintf("#%d %s %s", r.FromID, DependencyTypeBadge(r.Type), LagCell(r.Lag))
			}
			after = strings.Join(parts, ", ")
		}
		contractor := Dim("--")
		if n.Meta != nil && n.Meta.ContractorName != "" {
			contractor = n.Meta.ContractorName
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", n.ActivityID),
			Bold(n.Name),
			DateCell(&start),
			DateCell(&end),
			RenderProgress(n.Progress, 10),
			after,
			contractor,
		})
	}

	var b strings.Builder
	if len(rows) == 0 {
		b.WriteString(Dim("No schedulable activities."))
	} else {
		b.WriteString(RenderTable(headers, rows))
	}
	if len(g.Warnings) > 0 {
		b.WriteString("\n\n" + Header("Warnings") + "\n")
		for _, w := range g.Warnings {
			b.WriteString(StyleYellow.Render("! ") + w.Message + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatPlan renders a computed schedule with float and the critical path.
func FormatPlan(plan *schedule.Plan, names map[int64]string) string {
	headers := []string{"#", "NAME", "START", "END", "DAYS", "FLOAT", ""}
	rows := make([][]string, 0, len(plan.Order))
	for _, id := range plan.Order {
		w := plan.Windows[id]
		start, end := w.Start, w.End
		flag := ""
		if w.Critical {
			flag = StyleRed.Render("critical")
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", id),
			Bold(names[id]),
			DateCell(&start),
			DateCell(&end),
			fmt.Sprintf("%d", w.Duration),
			fmt.Sprintf("%d", w.TotalFloat),
			flag,
		})
	}
	finish := plan.Finish
	return RenderTable(headers, rows) + "\n\n" +
		fmt.Sprintf("%s %s\n%s %s", Dim("Finish:       "), DateCell(&finish), Dim("Critical path:"), IDList(plan.CriticalPath))
}

// ActivityNames indexes activity names by id.
func ActivityNames(acts []domain.Activity) map[int64]string {
	names := make(map[int64]string, len(acts))
	for _, a := range acts {
		names[a.ID] = a.Name
	}
	return names
}
