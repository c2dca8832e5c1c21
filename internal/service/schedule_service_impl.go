package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/siteplan/internal/db"
	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/repository"
	"github.com/alexanderramin/siteplan/internal/schedule"
)

type scheduleService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewScheduleService returns the scheduling backend. Every run reads and
// writes a project inside a single transaction.
func NewScheduleService(uow db.UnitOfWork, observers ...UseCaseObserver) ScheduleService {
	return &scheduleService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// loadProject reads everything a run needs through one transaction.
func loadProject(ctx context.Context, tx db.DBTX, projectID string) (*domain.Project, []*domain.Activity, []domain.Dependency, error) {
	project, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, projectID)
	if err != nil {
		return nil, nil, nil, err
	}
	activities, err := repository.NewSQLiteActivityRepo(tx).ListByProject(ctx, projectID)
	if err != nil {
		return nil, nil, nil, err
	}
	deps, err := repository.NewSQLiteDependencyRepo(tx).ListByProject(ctx, projectID)
	if err != nil {
		return nil, nil, nil, err
	}
	return project, activities, deps, nil
}

func planFor(project *domain.Project, activities []*domain.Activity, deps []domain.Dependency) (*schedule.Plan, error) {
	values := make([]domain.Activity, len(activities))
	for i, a := range activities {
		values[i] = *a
	}
	return schedule.ComputePlan(values, deps, project.StartDate)
}

// RunAutoSchedule places every activity at its earliest dependency-respecting
// window. A cycle aborts the run before anything is written.
func (s *scheduleService) RunAutoSchedule(ctx context.Context, projectID string) (res *ScheduleResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": projectID, "mode": string(domain.ScheduleAuto)}
	defer func() { observe(ctx, s.observer, "auto-schedule", startedAt, fields, err) }()

	res = &ScheduleResult{ProjectID: projectID, Mode: domain.ScheduleAuto}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		project, activities, deps, err := loadProject(ctx, tx, projectID)
		if err != nil {
			return err
		}
		plan, err := planFor(project, activities, deps)
		if err != nil {
			return fmt.Errorf("auto-scheduling project %s: %w", project.DisplayID(), err)
		}

		txActivities := repository.NewSQLiteActivityRepo(tx)
		now := time.Now().UTC()
		for _, a := range activities {
			w, ok := plan.Windows[a.ID]
			if !ok || windowMatches(a, w) {
				continue
			}
			start, end, dur := w.Start, w.End, w.Duration
			a.StartDate, a.EndDate, a.Duration = &start, &end, &dur
			a.UpdatedAt = now
			if err := txActivities.Update(ctx, a); err != nil {
				return err
			}
			res.Updated++
		}

		if err := repository.NewSQLiteProjectRepo(tx).SetScheduleMode(ctx, projectID, domain.ScheduleAuto); err != nil {
			return err
		}
		res.CriticalPath = plan.CriticalPath
		if len(plan.Order) > 0 {
			finish := plan.Finish
			res.Finish = &finish
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["updated"] = res.Updated
	fields["critical_path"] = fmt.Sprint(res.CriticalPath)
	return res, nil
}

func windowMatches(a *domain.Activity, w schedule.Window) bool {
	return a.StartDate != nil && a.StartDate.Equal(w.Start) &&
		a.EndDate != nil && a.EndDate.Equal(w.End) &&
		a.Duration != nil && *a.Duration == w.Duration
}

// RunManualSchedule restores each activity to its manual dates. Activities
// without manual dates keep their current dates, which become their manual
// dates from then on.
func (s *scheduleService) RunManualSchedule(ctx context.Context, projectID string) (res *ScheduleResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": projectID, "mode": string(domain.ScheduleManual)}
	defer func() { observe(ctx, s.observer, "manual-schedule", startedAt, fields, err) }()

	res = &ScheduleResult{ProjectID: projectID, Mode: domain.ScheduleManual}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		_, activities, _, err := loadProject(ctx, tx, projectID)
		if err != nil {
			return err
		}

		txActivities := repository.NewSQLiteActivityRepo(tx)
		now := time.Now().UTC()
		for _, a := range activities {
			if !restoreManualDates(a) {
				continue
			}
			if err := a.Validate(); err != nil {
				return fmt.Errorf("restore manual dates for activity %d: %w", a.ID, err)
			}
			a.UpdatedAt = now
			if err := txActivities.Update(ctx, a); err != nil {
				return err
			}
			res.Updated++
		}
		return repository.NewSQLiteProjectRepo(tx).SetScheduleMode(ctx, projectID, domain.ScheduleManual)
	})
	if err != nil {
		return nil, err
	}
	fields["updated"] = res.Updated
	return res, nil
}

// restoreManualDates reports whether a changed.
func restoreManualDates(a *domain.Activity) bool {
	if a.ManualStart == nil && a.ManualEnd == nil {
		if a.StartDate == nil && a.EndDate == nil {
			return false
		}
		a.SyncManualDates()
		return true
	}

	triple := schedule.TripleOf(a)
	if a.ManualStart != nil {
		triple = schedule.Reconcile(triple, schedule.StartEdit(*a.ManualStart))
	}
	if a.ManualEnd != nil {
		triple = schedule.Reconcile(triple, schedule.EndEdit(*a.ManualEnd))
	}
	if sameDate(a.StartDate, triple.Start) && sameDate(a.EndDate, triple.End) && sameInt(a.Duration, triple.Duration) {
		return false
	}
	triple.ApplyTo(a)
	return true
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func sameInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s *scheduleService) Preview(ctx context.Context, projectID string) (*schedule.Plan, error) {
	var plan *schedule.Plan
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		project, activities, deps, err := loadProject(ctx, tx, projectID)
		if err != nil {
			return err
		}
		plan, err = planFor(project, activities, deps)
		return err
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}
