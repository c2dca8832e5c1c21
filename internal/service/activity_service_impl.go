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

type activityService struct {
	activities repository.ActivityRepo
	uow        db.UnitOfWork
	observer   UseCaseObserver
}

func NewActivityService(activities repository.ActivityRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ActivityService {
	return &activityService{
		activities: activities,
		uow:        uow,
		observer:   useCaseObserverOrNoop(observers),
	}
}

// Create fills in whichever of start, end and duration can be derived from
// the other two, then stores the dates as the activity's manual fallback.
func (s *activityService) Create(ctx context.Context, a *domain.Activity) error {
	a.Normalize()
	schedule.Complete(schedule.TripleOf(a)).ApplyTo(a)
	if a.Status == "" {
		a.Status = domain.ActivityPlanned
	}
	if err := a.Validate(); err != nil {
		return err
	}
	if a.ManualStart == nil && a.ManualEnd == nil {
		a.SyncManualDates()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	return s.activities.Create(ctx, a)
}

func (s *activityService) GetByID(ctx context.Context, id int64) (*domain.Activity, error) {
	return s.activities.GetByID(ctx, id)
}

func (s *activityService) ListByProject(ctx context.Context, projectID string) ([]*domain.Activity, error) {
	return s.activities.ListByProject(ctx, projectID)
}

// Update saves a full activity. Saved dates become the manual fallback.
func (s *activityService) Update(ctx context.Context, a *domain.Activity) error {
	a.Normalize()
	if err := a.Validate(); err != nil {
		return err
	}
	a.SyncManualDates()
	a.UpdatedAt = time.Now().UTC()
	return s.activities.Update(ctx, a)
}

func (s *activityService) Edit(ctx context.Context, id int64, edits ...schedule.Edit) (*domain.Activity, error) {
	var out *domain.Activity
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txActivities := repository.NewSQLiteActivityRepo(tx)

		a, err := txActivities.GetByID(ctx, id)
		if err != nil {
			return err
		}
		triple := schedule.TripleOf(a)
		for _, e := range edits {
			triple = schedule.Reconcile(triple, e)
		}
		triple.ApplyTo(a)

		if err := a.Validate(); err != nil {
			return err
		}
		a.SyncManualDates()
		a.UpdatedAt = time.Now().UTC()
		if err := txActivities.Update(ctx, a); err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *activityService) Delete(ctx context.Context, id int64) (removed int64, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		observe(ctx, s.observer, "delete-activity", startedAt, map[string]any{"activity_id": id, "dependencies_removed": removed}, err)
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txActivities := repository.NewSQLiteActivityRepo(tx)
		txDeps := repository.NewSQLiteDependencyRepo(tx)

		if _, err := txActivities.GetByID(ctx, id); err != nil {
			return err
		}
		n, err := txDeps.DeleteTouching(ctx, id)
		if err != nil {
			return err
		}
		if err := txActivities.Delete(ctx, id); err != nil {
			return fmt.Errorf("deleting activity %d: %w", id, err)
		}
		removed = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
