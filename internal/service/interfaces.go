package service

import (
	"context"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/importer"
	"github.com/alexanderramin/siteplan/internal/schedule"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	// Resolve accepts either a project id or a short id.
	Resolve(ctx context.Context, ref string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string, force bool) error
}

type ActivityService interface {
	Create(ctx context.Context, a *domain.Activity) error
	GetByID(ctx context.Context, id int64) (*domain.Activity, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Activity, error)
	Update(ctx context.Context, a *domain.Activity) error
	// Edit applies reconciled single-field edits in order and saves the result.
	Edit(ctx context.Context, id int64, edits ...schedule.Edit) (*domain.Activity, error)
	// Delete removes the activity and every dependency touching it, returning
	// the number of dependencies removed.
	Delete(ctx context.Context, id int64) (int64, error)
}

type DependencyService interface {
	Add(ctx context.Context, projectID string, fromID, toID int64, depType domain.DependencyType, lag int) (*domain.Dependency, error)
	GetByID(ctx context.Context, id int64) (*domain.Dependency, error)
	Update(ctx context.Context, id int64, patch domain.DependencyPatch) (*domain.Dependency, error)
	Remove(ctx context.Context, id int64) error
	ListForActivity(ctx context.Context, activityID int64, dir domain.Direction) ([]domain.Dependency, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Dependency, error)
}

// ScheduleResult summarizes one schedule run.
type ScheduleResult struct {
	ProjectID    string
	Mode         domain.ScheduleMode
	Updated      int
	CriticalPath []int64    // auto runs only
	Finish       *time.Time // auto runs only
}

type ScheduleService interface {
	RunAutoSchedule(ctx context.Context, projectID string) (*ScheduleResult, error)
	RunManualSchedule(ctx context.Context, projectID string) (*ScheduleResult, error)
	// Preview computes the auto schedule without writing it.
	Preview(ctx context.Context, projectID string) (*schedule.Plan, error)
}

type DailyLogService interface {
	Log(ctx context.Context, l *domain.DailyLog) error
	ListByActivity(ctx context.Context, activityID int64) ([]*domain.DailyLog, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.DailyLog, error)
	Delete(ctx context.Context, id string) error
}

type ContractorService interface {
	Create(ctx context.Context, c *domain.Contractor) error
	ListByProject(ctx context.Context, projectID string) ([]domain.Contractor, error)
	Delete(ctx context.Context, id int64) error
}

type PackageService interface {
	Create(ctx context.Context, p *domain.WorkPackage) error
	ListByProject(ctx context.Context, projectID string) ([]domain.WorkPackage, error)
	Delete(ctx context.Context, id int64) error
}

// ImportResult holds the outcome of a project import.
type ImportResult struct {
	Project         *domain.Project
	ContractorCount int
	PackageCount    int
	ActivityCount   int
	DependencyCount int
}

type ImportService interface {
	ImportProject(ctx context.Context, filePath string) (*ImportResult, error)
	ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}
