package formatter

import (
	"fmt"

	"github.com/alexanderramin/siteplan/internal/domain"
)

// FormatActivityList renders activities in id order.
func FormatActivityList(acts []domain.Activity) string {
	headers := []string{"#", "NAME", "START", "END", "DURATION", "STATUS", "PROGRESS"}
	rows := make([][]string, 0, len(acts))
	for _, a := range acts {
		rows = append(rows, []string{
			fmt.Sprintf("%d", a.ID),
			Bold(a.Name),
			DateCell(a.StartDate),
			DateCell(a.EndDate),
			DaysCell(a.Duration),
			ActivityStatusPill(a.Status),
			RenderProgress(a.Progress, 10),
		})
	}
	return RenderTable(headers, rows)
}

// FormatActivity renders one activity with its manual fallback dates.
func FormatActivity(a domain.Activity) string {
	out := fmt.Sprintf("%s %s\n", Dim(fmt.Sprintf("#%d", a.ID)), Bold(a.Name))
	out += fmt.Sprintf("  %s %s → %s (%s)\n", Dim("dates: "), DateCell(a.StartDate), DateCell(a.EndDate), DaysCell(a.Duration))
	if a.ManualStart != nil || a.ManualEnd != nil {
		out += fmt.Sprintf("  %s %s → %s\n", Dim("manual:"), DateCell(a.ManualStart), DateCell(a.ManualEnd))
	}
	out += fmt.Sprintf("  %s %s %s", Dim("status:"), ActivityStatusPill(a.Status), RenderProgress(a.Progress, 10))
	return out
}
