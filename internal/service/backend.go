package service

import (
	"context"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/engine"
	"github.com/alexanderramin/siteplan/internal/schedule"
)

var _ engine.Backend = (*Backend)(nil)

// Backend serves the engine from the local services.
type Backend struct {
	Activities   ActivityService
	Dependencies DependencyService
	Schedule     ScheduleService
	Contractors  ContractorService
	Packages     PackageService
}

func (b *Backend) FetchActivities(ctx context.Context, projectID string) ([]domain.Activity, error) {
	acts, err := b.Activities.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Activity, len(acts))
	for i, a := range acts {
		a.Normalize()
		out[i] = *a
	}
	return out, nil
}

func (b *Backend) FetchDependencies(ctx context.Context, projectID string) ([]domain.Dependency, error) {
	return b.Dependencies.ListByProject(ctx, projectID)
}

func (b *Backend) FetchMetadata(ctx context.Context, projectID string) (schedule.MetaLookup, error) {
	var meta schedule.MetaLookup
	var err error
	if meta.Contractors, err = b.Contractors.ListByProject(ctx, projectID); err != nil {
		return meta, err
	}
	if meta.Packages, err = b.Packages.ListByProject(ctx, projectID); err != nil {
		return meta, err
	}
	return meta, nil
}

func (b *Backend) CreateActivity(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	if err := b.Activities.Create(ctx, &a); err != nil {
		return domain.Activity{}, err
	}
	return a, nil
}

func (b *Backend) UpdateActivity(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	if err := b.Activities.Update(ctx, &a); err != nil {
		return domain.Activity{}, err
	}
	return a, nil
}

func (b *Backend) DeleteActivity(ctx context.Context, id int64) error {
	_, err := b.Activities.Delete(ctx, id)
	return err
}

func (b *Backend) CreateDependency(ctx context.Context, d domain.Dependency) (domain.Dependency, error) {
	created, err := b.Dependencies.Add(ctx, d.ProjectID, d.FromID, d.ToID, d.Type, d.Lag)
	if err != nil {
		return domain.Dependency{}, err
	}
	return *created, nil
}

func (b *Backend) UpdateDependency(ctx context.Context, id int64, patch domain.DependencyPatch) (domain.Dependency, error) {
	updated, err := b.Dependencies.Update(ctx, id, patch)
	if err != nil {
		return domain.Dependency{}, err
	}
	return *updated, nil
}

func (b *Backend) DeleteDependency(ctx context.Context, id int64) error {
	return b.Dependencies.Remove(ctx, id)
}

func (b *Backend) RunAutoSchedule(ctx context.Context, projectID string) error {
	_, err := b.Schedule.RunAutoSchedule(ctx, projectID)
	return err
}

func (b *Backend) RunManualSchedule(ctx context.Context, projectID string) error {
	_, err := b.Schedule.RunManualSchedule(ctx, projectID)
	return err
}
