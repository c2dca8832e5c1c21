package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/siteplan/internal/db"
	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/repository"
	"github.com/google/uuid"
)

type dailyLogService struct {
	logs repository.DailyLogRepo
	uow  db.UnitOfWork
}

func NewDailyLogService(logs repository.DailyLogRepo, uow db.UnitOfWork) DailyLogService {
	return &dailyLogService{logs: logs, uow: uow}
}

// Log records a site report and sets the activity's progress to the
// percentage of its most recent report.
func (s *dailyLogService) Log(ctx context.Context, l *domain.DailyLog) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.ProgressPct < 0 || l.ProgressPct > 100 {
		return fmt.Errorf("progress %.1f outside 0-100: %w", l.ProgressPct, domain.ErrValidation)
	}
	if l.Workers < 0 {
		return fmt.Errorf("workers must not be negative: %w", domain.ErrValidation)
	}
	l.Date = domain.NormalizeDate(l.Date)
	l.CreatedAt = time.Now().UTC()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txActivities := repository.NewSQLiteActivityRepo(tx)
		txLogs := repository.NewSQLiteDailyLogRepo(tx)

		a, err := txActivities.GetByID(ctx, l.ActivityID)
		if err != nil {
			return err
		}
		if err := txLogs.Create(ctx, l); err != nil {
			return err
		}
		return refreshProgress(ctx, txActivities, txLogs, a)
	})
}

// refreshProgress recomputes an activity's progress from its latest log.
func refreshProgress(ctx context.Context, activities repository.ActivityRepo, logs repository.DailyLogRepo, a *domain.Activity) error {
	pct := 0.0
	latest, err := logs.Latest(ctx, a.ID)
	switch {
	case err == nil:
		pct = latest.ProgressPct
	case !errors.Is(err, domain.ErrNotFound):
		return err
	}
	a.ApplyProgress(pct, time.Now().UTC())
	return activities.Update(ctx, a)
}

func (s *dailyLogService) ListByActivity(ctx context.Context, activityID int64) ([]*domain.DailyLog, error) {
	return s.logs.ListByActivity(ctx, activityID)
}

func (s *dailyLogService) ListByProject(ctx context.Context, projectID string) ([]*domain.DailyLog, error) {
	return s.logs.ListByProject(ctx, projectID)
}

func (s *dailyLogService) Delete(ctx context.Context, id string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txActivities := repository.NewSQLiteActivityRepo(tx)
		txLogs := repository.NewSQLiteDailyLogRepo(tx)

		l, err := txLogs.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := txLogs.Delete(ctx, id); err != nil {
			return err
		}
		a, err := txActivities.GetByID(ctx, l.ActivityID)
		if err != nil {
			return err
		}
		return refreshProgress(ctx, txActivities, txLogs, a)
	})
}
