package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/siteplan/internal/db"
	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/repository"
)

type dependencyService struct {
	deps     repository.DependencyRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewDependencyService(deps repository.DependencyRepo, uow db.UnitOfWork, observers ...UseCaseObserver) DependencyService {
	return &dependencyService{
		deps:     deps,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Add validates both endpoints against the project inside one transaction.
// No activity dates are touched.
func (s *dependencyService) Add(ctx context.Context, projectID string, fromID, toID int64, depType domain.DependencyType, lag int) (dep *domain.Dependency, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		observe(ctx, s.observer, "add-dependency", startedAt, map[string]any{
			"project_id": projectID,
			"from":       fromID,
			"to":         toID,
			"type":       string(depType),
			"lag":        lag,
		}, err)
	}()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txActivities := repository.NewSQLiteActivityRepo(tx)
		txDeps := repository.NewSQLiteDependencyRepo(tx)

		from, err := lookupActivity(ctx, txActivities, fromID)
		if err != nil {
			return err
		}
		to, err := lookupActivity(ctx, txActivities, toID)
		if err != nil {
			return err
		}
		if err := domain.ValidateDependency(projectID, fromID, toID, depType, from, to); err != nil {
			return err
		}

		d := &domain.Dependency{
			ProjectID: projectID,
			FromID:    fromID,
			ToID:      toID,
			Type:      depType,
			Lag:       lag,
			CreatedAt: time.Now().UTC(),
		}
		if err := txDeps.Create(ctx, d); err != nil {
			return err
		}
		dep = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dep, nil
}

// lookupActivity returns nil without error when the id does not resolve, so
// the caller reports it as an invalid endpoint.
func lookupActivity(ctx context.Context, activities repository.ActivityRepo, id int64) (*domain.Activity, error) {
	a, err := activities.GetByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return a, err
}

func (s *dependencyService) GetByID(ctx context.Context, id int64) (*domain.Dependency, error) {
	return s.deps.GetByID(ctx, id)
}

func (s *dependencyService) Update(ctx context.Context, id int64, patch domain.DependencyPatch) (*domain.Dependency, error) {
	var out *domain.Dependency
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txDeps := repository.NewSQLiteDependencyRepo(tx)

		cur, err := txDeps.GetByID(ctx, id)
		if err != nil {
			return err
		}
		next, err := patch.Apply(*cur)
		if err != nil {
			return fmt.Errorf("updating dependency %d: %w", id, err)
		}
		if !patch.Empty() {
			if err := txDeps.Update(ctx, &next); err != nil {
				return err
			}
		}
		out = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *dependencyService) Remove(ctx context.Context, id int64) error {
	return s.deps.Delete(ctx, id)
}

func (s *dependencyService) ListForActivity(ctx context.Context, activityID int64, dir domain.Direction) ([]domain.Dependency, error) {
	var (
		deps []domain.Dependency
		err  error
	)
	switch dir {
	case domain.DirectionPredecessors:
		deps, err = s.deps.ListPredecessors(ctx, activityID)
	case domain.DirectionSuccessors:
		deps, err = s.deps.ListSuccessors(ctx, activityID)
	default:
		return nil, fmt.Errorf("unknown direction %d: %w", dir, domain.ErrValidation)
	}
	if err != nil {
		return nil, err
	}
	sort.Slice(deps, func(i, j int) bool { return deps[i].ID < deps[j].ID })
	return deps, nil
}

func (s *dependencyService) ListByProject(ctx context.Context, projectID string) ([]domain.Dependency, error) {
	return s.deps.ListByProject(ctx, projectID)
}
