package repository

import (
	"context"

	"github.com/alexanderramin/siteplan/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	SetScheduleMode(ctx context.Context, id string, mode domain.ScheduleMode) error
	Delete(ctx context.Context, id string) error
}

// ActivityRepo lists activities in ascending id order, which is creation order.
type ActivityRepo interface {
	Create(ctx context.Context, a *domain.Activity) error
	GetByID(ctx context.Context, id int64) (*domain.Activity, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Activity, error)
	Update(ctx context.Context, a *domain.Activity) error
	Delete(ctx context.Context, id int64) error
}

// DependencyRepo persists typed precedence edges. (from, to, type) is unique.
type DependencyRepo interface {
	Create(ctx context.Context, d *domain.Dependency) error
	GetByID(ctx context.Context, id int64) (*domain.Dependency, error)
	Update(ctx context.Context, d *domain.Dependency) error
	Delete(ctx context.Context, id int64) error
	DeleteTouching(ctx context.Context, activityID int64) (int64, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Dependency, error)
	ListPredecessors(ctx context.Context, activityID int64) ([]domain.Dependency, error)
	ListSuccessors(ctx context.Context, activityID int64) ([]domain.Dependency, error)
}

type ContractorRepo interface {
	Create(ctx context.Context, c *domain.Contractor) error
	GetByID(ctx context.Context, id int64) (*domain.Contractor, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Contractor, error)
	Delete(ctx context.Context, id int64) error
}

type WorkPackageRepo interface {
	Create(ctx context.Context, p *domain.WorkPackage) error
	GetByID(ctx context.Context, id int64) (*domain.WorkPackage, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.WorkPackage, error)
	Delete(ctx context.Context, id int64) error
}

type DailyLogRepo interface {
	Create(ctx context.Context, l *domain.DailyLog) error
	GetByID(ctx context.Context, id string) (*domain.DailyLog, error)
	ListByActivity(ctx context.Context, activityID int64) ([]*domain.DailyLog, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.DailyLog, error)
	Latest(ctx context.Context, activityID int64) (*domain.DailyLog, error)
	Delete(ctx context.Context, id string) error
}
