package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/schedule"
)

// ActivityView is the wire form of an activity. Dates are YYYY-MM-DD and
// omitted when unset.
type ActivityView struct {
	ID           int64   `json:"id"`
	ProjectID    string  `json:"project_id"`
	Name         string  `json:"name"`
	StartDate    string  `json:"start_date,omitempty"`
	EndDate      string  `json:"end_date,omitempty"`
	Duration     *int    `json:"duration,omitempty"`
	ContractorID *int64  `json:"contractor_id,omitempty"`
	PackageID    *int64  `json:"package_id,omitempty"`
	Status       string  `json:"status"`
	Progress     float64 `json:"progress"`
	Comments     string  `json:"comments,omitempty"`
	ManualStart  string  `json:"manual_start_date,omitempty"`
	ManualEnd    string  `json:"manual_end_date,omitempty"`
}

func toActivityView(a domain.Activity) ActivityView {
	return ActivityView{
		ID:           a.ID,
		ProjectID:    a.ProjectID,
		Name:         a.Name,
		StartDate:    domain.FormatDate(a.StartDate),
		EndDate:      domain.FormatDate(a.EndDate),
		Duration:     a.Duration,
		ContractorID: a.ContractorID,
		PackageID:    a.PackageID,
		Status:       string(a.Status),
		Progress:     a.Progress,
		Comments:     a.Comments,
		ManualStart:  domain.FormatDate(a.ManualStart),
		ManualEnd:    domain.FormatDate(a.ManualEnd),
	}
}

func toActivityViews(acts []domain.Activity) []ActivityView {
	out := make([]ActivityView, 0, len(acts))
	for _, a := range acts {
		out = append(out, toActivityView(a))
	}
	return out
}

type DependencyView struct {
	ID        int64  `json:"id"`
	ProjectID string `json:"project_id"`
	FromID    int64  `json:"from_id"`
	ToID      int64  `json:"to_id"`
	Type      string `json:"type"`
	Lag       int    `json:"lag"`
}

func toDependencyView(d domain.Dependency) DependencyView {
	return DependencyView{
		ID:        d.ID,
		ProjectID: d.ProjectID,
		FromID:    d.FromID,
		ToID:      d.ToID,
		Type:      string(d.Type),
		Lag:       d.Lag,
	}
}

func toDependencyViews(deps []domain.Dependency) []DependencyView {
	out := make([]DependencyView, 0, len(deps))
	for _, d := range deps {
		out = append(out, toDependencyView(d))
	}
	return out
}

// CreateActivityRequest carries any two of start, end and duration; the third
// is derived.
type CreateActivityRequest struct {
	ProjectID    string `json:"project_id"`
	Name         string `json:"name"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Duration     *int   `json:"duration"`
	ContractorID *int64 `json:"contractor_id"`
	PackageID    *int64 `json:"package_id"`
	Comments     string `json:"comments"`
}

func (r CreateActivityRequest) toActivity() (domain.Activity, error) {
	if strings.TrimSpace(r.ProjectID) == "" {
		return domain.Activity{}, fmt.Errorf("project_id is required: %w", domain.ErrValidation)
	}
	a := domain.Activity{
		Name:         strings.TrimSpace(r.Name),
		Duration:     r.Duration,
		ContractorID: r.ContractorID,
		PackageID:    r.PackageID,
		Comments:     r.Comments,
	}
	var err error
	if a.StartDate, err = optionalDate(r.StartDate); err != nil {
		return a, err
	}
	if a.EndDate, err = optionalDate(r.EndDate); err != nil {
		return a, err
	}
	return a, nil
}

// FieldEdit is one reconciled change; an empty value clears the field.
type FieldEdit struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// UpdateActivityRequest applies Edits in order through the reconciler, then
// any plain field changes.
type UpdateActivityRequest struct {
	Edits    []FieldEdit `json:"edits"`
	Name     *string     `json:"name"`
	Comments *string     `json:"comments"`
}

func (r UpdateActivityRequest) edits() ([]schedule.Edit, error) {
	out := make([]schedule.Edit, 0, len(r.Edits))
	for i, fe := range r.Edits {
		field, err := schedule.ParseField(fe.Field)
		if err != nil {
			return nil, fmt.Errorf("edits[%d]: %w", i, err)
		}
		e, err := schedule.ParseEdit(field, fe.Value)
		if err != nil {
			return nil, fmt.Errorf("edits[%d]: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

type CreateDependencyRequest struct {
	ProjectID string `json:"project_id"`
	FromID    int64  `json:"from_id"`
	ToID      int64  `json:"to_id"`
	Type      string `json:"type"`
	Lag       int    `json:"lag"`
}

// UpdateDependencyRequest changes type and lag; endpoints are fixed.
type UpdateDependencyRequest struct {
	Type *string `json:"type"`
	Lag  *int    `json:"lag"`
}

func (r UpdateDependencyRequest) patch() (domain.DependencyPatch, error) {
	var p domain.DependencyPatch
	if r.Type != nil {
		t, err := domain.ParseDependencyType(*r.Type)
		if err != nil {
			return p, err
		}
		p.Type = &t
	}
	p.Lag = r.Lag
	return p, nil
}

type DeleteActivityResponse struct {
	ID                  int64   `json:"id"`
	RemovedDependencies []int64 `json:"removed_dependencies"`
}

// ScheduleResponse is the refreshed project view after a schedule run.
type ScheduleResponse struct {
	ProjectID    string           `json:"project_id"`
	Mode         string           `json:"mode"`
	Activities   []ActivityView   `json:"activities"`
	Dependencies []DependencyView `json:"dependencies"`
}

type NodeView struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	Start          string         `json:"start"`
	End            string         `json:"end"`
	Progress       float64        `json:"progress"`
	Dependencies   []int64        `json:"dependencies"`
	Relations      []RelationView `json:"relations,omitempty"`
	PackageName    string         `json:"package,omitempty"`
	ContractorName string         `json:"contractor,omitempty"`
	Status         string         `json:"status,omitempty"`
	Comments       string         `json:"comments,omitempty"`
}

type RelationView struct {
	DependencyID int64  `json:"dependency_id"`
	FromID       int64  `json:"from_id"`
	Type         string `json:"type"`
	Lag          int    `json:"lag"`
}

type WarningView struct {
	Kind         string `json:"kind"`
	ActivityID   int64  `json:"activity_id,omitempty"`
	DependencyID int64  `json:"dependency_id,omitempty"`
	Message      string `json:"message"`
}

type GraphView struct {
	Nodes    []NodeView       `json:"nodes"`
	Edges    []DependencyView `json:"edges"`
	Warnings []WarningView    `json:"warnings"`
}

func toGraphView(projectID string, g schedule.Graph) GraphView {
	view := GraphView{
		Nodes:    make([]NodeView, 0, len(g.Nodes)),
		Edges:    make([]DependencyView, 0, len(g.Edges)),
		Warnings: make([]WarningView, 0, len(g.Warnings)),
	}
	for _, n := range g.Nodes {
		nv := NodeView{
			ID:           n.ActivityID,
			Name:         n.Name,
			Start:        n.Start.Format(domain.DateLayout),
			End:          n.End.Format(domain.DateLayout),
			Progress:     n.Progress,
			Dependencies: append([]int64{}, n.Predecessors...),
		}
		for _, rel := range n.Relations {
			nv.Relations = append(nv.Relations, RelationView{
				DependencyID: rel.DependencyID,
				FromID:       rel.FromID,
				Type:         string(rel.Type),
				Lag:          rel.Lag,
			})
		}
		if n.Meta != nil {
			nv.PackageName = n.Meta.PackageName
			nv.ContractorName = n.Meta.ContractorName
			nv.Status = string(n.Meta.Status)
			nv.Comments = n.Meta.Comments
		}
		view.Nodes = append(view.Nodes, nv)
	}
	for _, e := range g.Edges {
		view.Edges = append(view.Edges, DependencyView{
			ID:        e.DependencyID,
			ProjectID: projectID,
			FromID:    e.FromID,
			ToID:      e.ToID,
			Type:      string(e.Type),
			Lag:       e.Lag,
		})
	}
	for _, w := range g.Warnings {
		view.Warnings = append(view.Warnings, WarningView{
			Kind:         string(w.Kind),
			ActivityID:   w.ActivityID,
			DependencyID: w.DependencyID,
			Message:      w.Message,
		})
	}
	return view
}

type DailyLogRequest struct {
	Date        string  `json:"log_date"`
	ProgressPct float64 `json:"progress_pct"`
	Workers     int     `json:"workers"`
	Note        string  `json:"note"`
}

type DailyLogView struct {
	ID          string  `json:"id"`
	ActivityID  int64   `json:"activity_id"`
	Date        string  `json:"log_date"`
	ProgressPct float64 `json:"progress_pct"`
	Workers     int     `json:"workers"`
	Note        string  `json:"note,omitempty"`
}

func toDailyLogView(l domain.DailyLog) DailyLogView {
	return DailyLogView{
		ID:          l.ID,
		ActivityID:  l.ActivityID,
		Date:        l.Date.Format(domain.DateLayout),
		ProgressPct: l.ProgressPct,
		Workers:     l.Workers,
		Note:        l.Note,
	}
}

func optionalDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := domain.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
