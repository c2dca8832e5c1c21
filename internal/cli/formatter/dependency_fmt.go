package formatter

import (
	"fmt"

	"github.com/alexanderramin/siteplan/internal/domain"
)

// FormatDependencyList renders dependencies with activity names when known.
func FormatDependencyList(deps []domain.Dependency, names map[int64]string) string {
	headers := []string{"#", "FROM", "TO", "TYPE", "LAG"}
	rows := make([][]string, 0, len(deps))
	for _, d := range deps {
		rows = append(rows, []string{
			fmt.Sprintf("%d", d.ID),
			activityRef(d.FromID, names),
			activityRef(d.ToID, names),
			DependencyTypeBadge(d.Type) + " " + Dim(d.Type.Label()),
			LagCell(d.Lag),
		})
	}
	return RenderTable(headers, rows)
}

// FormatDependency renders one dependency as "#3 Excavate → #4 Footings (FS +1d)".
func FormatDependency(d domain.Dependency, names map[int64]string) string {
	return fmt.Sprintf("%s %s → %s (%s %s)",
		Dim(fmt.Sprintf("dep %d:", d.ID)),
		activityRef(d.FromID, names),
		activityRef(d.ToID, names),
		DependencyTypeBadge(d.Type),
		LagCell(d.Lag),
	)
}

func activityRef(id int64, names map[int64]string) string {
	if name, ok := names[id]; ok {
		return fmt.Sprintf("#%d %s", id, name)
	}
	return StyleRed.Render(fmt.Sprintf("#%d ?", id))
}
