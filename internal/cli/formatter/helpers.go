package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RenderProgress renders a percentage (0-100) as a bar like [████░░░░]  45%.
func RenderProgress(pct float64, width int) string {
	switch {
	case pct < 0:
		pct = 0
	case pct > 100:
		pct = 100
	}
	if width < 2 {
		width = 2
	}
	filled := int(pct / 100 * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleDim
	switch {
	case pct >= 100:
		style = StyleGreen
	case pct > 0:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct)
}

// ProjectStatusPill returns a colored indicator for a project status.
func ProjectStatusPill(status domain.ProjectStatus) string {
	switch status {
	case domain.ProjectActive:
		return StyleGreen.Render("● Active")
	case domain.ProjectPaused:
		return StyleYellow.Render("○ Paused")
	case domain.ProjectDone:
		return StyleDim.Render("✔ Done")
	case domain.ProjectArchived:
		return StyleDim.Render("✖ Archived")
	default:
		return StyleDim.Render(string(status))
	}
}

// ActivityStatusPill returns a colored indicator for an activity status.
func ActivityStatusPill(status domain.ActivityStatus) string {
	switch status {
	case domain.ActivityPlanned:
		return StyleBlue.Render("○ Planned")
	case domain.ActivityInProgress:
		return StyleYellow.Render("● In Progress")
	case domain.ActivityDone:
		return StyleGreen.Render("✔ Done")
	default:
		return StyleDim.Render(string(status))
	}
}

// DateCell renders an optional date, dimmed "--" when unset.
func DateCell(t *time.Time) string {
	if t == nil {
		return Dim("--")
	}
	return t.Format("Mon 02 Jan 2006")
}

// DaysCell renders an optional day count.
func DaysCell(d *int) string {
	if d == nil {
		return Dim("--")
	}
	if *d == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", *d)
}

// LagCell renders a lag in days with an explicit sign; zero is dimmed.
func LagCell(lag int) string {
	if lag == 0 {
		return Dim("0d")
	}
	return fmt.Sprintf("%+dd", lag)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// IDList renders activity ids as "#3, #7".
func IDList(ids []int64) string {
	if len(ids) == 0 {
		return Dim("--")
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("#%d", id)
	}
	return strings.Join(parts, ", ")
}
