package formatter

import (
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/schedule"
	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func day(s string) *time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func days(n int) *int { return &n }

func TestRenderTable_PadsShortRows(t *testing.T) {
	out := stripANSI(RenderTable([]string{"A", "B"}, [][]string{{"only"}}))
	assert.Contains(t, out, "A")
	assert.Contains(t, out, "only")
	assert.Empty(t, RenderTable(nil, nil))
}

func TestRenderProgress(t *testing.T) {
	assert.Contains(t, stripANSI(RenderProgress(50, 10)), "█████░░░░░")
	assert.Contains(t, stripANSI(RenderProgress(150, 4)), "100%")
	assert.Contains(t, stripANSI(RenderProgress(-5, 4)), "0%")
}

func TestFormatProjectList_UsesShortIDWhenPresent(t *testing.T) {
	projects := []*domain.Project{{
		ID:           "12345678-aaaa-bbbb-cccc-1234567890ab",
		ShortID:      "HSE01",
		Name:         "Lakeside House",
		StartDate:    *day("2025-03-03"),
		Status:       domain.ProjectActive,
		ScheduleMode: domain.ScheduleAuto,
	}}

	out := stripANSI(FormatProjectList(projects))
	assert.Contains(t, out, "HSE01")
	assert.Contains(t, out, "AUTO")
	assert.NotContains(t, out, "12345678")
}

func TestFormatProjectInspect_Summary(t *testing.T) {
	p := &domain.Project{ShortID: "HSE01", Name: "Lakeside House", StartDate: *day("2025-03-03"), Status: domain.ProjectActive, ScheduleMode: domain.ScheduleManual}
	acts := []domain.Activity{
		{ID: 1, Name: "Excavate", StartDate: day("2025-03-03"), EndDate: day("2025-03-07"), Status: domain.ActivityDone, Progress: 100},
		{ID: 2, Name: "Frame"},
	}
	out := stripANSI(FormatProjectInspect(ProjectInspectData{Project: p, Activities: acts}))
	assert.Contains(t, out, "2 (1 dated, 1 done)")
	assert.Contains(t, out, "2025-03-03 → 2025-03-07")
	assert.Contains(t, out, "MANUAL")
}

func TestFormatActivityList(t *testing.T) {
	acts := []domain.Activity{
		{ID: 4, Name: "Footings", StartDate: day("2025-01-06"), EndDate: day("2025-01-07"), Duration: days(1), Status: domain.ActivityInProgress, Progress: 40},
		{ID: 5, Name: "Frame", Status: domain.ActivityPlanned},
	}
	out := stripANSI(FormatActivityList(acts))
	assert.Contains(t, out, "Footings")
	assert.Contains(t, out, "1 day")
	assert.Contains(t, out, "In Progress")
	assert.Contains(t, out, "--")
}

func TestFormatDependencyList_MarksUnknownEndpoints(t *testing.T) {
	deps := []domain.Dependency{
		{ID: 9, FromID: 1, ToID: 2, Type: domain.StartToStart, Lag: 2},
		{ID: 10, FromID: 1, ToID: 77, Type: domain.FinishToStart},
	}
	out := stripANSI(FormatDependencyList(deps, map[int64]string{1: "Excavate", 2: "Footings"}))
	assert.Contains(t, out, "#1 Excavate")
	assert.Contains(t, out, "Start-to-Start")
	assert.Contains(t, out, "+2d")
	assert.Contains(t, out, "#77 ?")
}

func TestFormatGraph_WithWarnings(t *testing.T) {
	g := schedule.Graph{
		Nodes: []schedule.Node{
			{ActivityID: 1, Name: "Excavate", Start: *day("2025-01-06"), End: *day("2025-01-10")},
			{ActivityID: 2, Name: "Footings", Start: *day("2025-01-10"), End: *day("2025-01-13"), Predecessors: []int64{1},
				Relations: []schedule.Relation{{DependencyID: 3, FromID: 1, Type: domain.FinishToStart, Lag: 1}},
				Meta:      &schedule.NodeMeta{ContractorName: "Fenn Civils"}},
		},
		Warnings: []schedule.Warning{{Kind: schedule.WarnInvalidDates, ActivityID: 5, Message: `activity 5 "Frame" has no valid dates`}},
	}
	out := stripANSI(FormatGraph(g))
	assert.Contains(t, out, "#1 FS +1d")
	assert.Contains(t, out, "Fenn Civils")
	assert.Contains(t, out, "WARNINGS")
	assert.Contains(t, out, `"Frame" has no valid dates`)

	assert.Contains(t, stripANSI(FormatGraph(schedule.Graph{})), "No schedulable activities.")
}

func TestFormatPlan(t *testing.T) {
	plan := &schedule.Plan{
		Windows: map[int64]schedule.Window{
			1: {Start: *day("2025-01-06"), End: *day("2025-01-10"), Duration: 4, Critical: true},
			2: {Start: *day("2025-01-06"), End: *day("2025-01-07"), Duration: 1, TotalFloat: 3},
		},
		Order:        []int64{1, 2},
		CriticalPath: []int64{1},
		Finish:       *day("2025-01-10"),
	}
	out := stripANSI(FormatPlan(plan, map[int64]string{1: "Excavate", 2: "Survey"}))
	assert.Contains(t, out, "critical")
	assert.Contains(t, out, "Critical path: #1")
	assert.Contains(t, out, "Fri 10 Jan 2025")
}
