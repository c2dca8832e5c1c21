package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/repository"
	"github.com/alexanderramin/siteplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyLogService_Log_DrivesProgress(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	proj := s.project(t, "Tower")
	a := s.activity(t, proj.ID, "Core walls", testutil.WithDates("2025-01-06", "2025-01-20"))

	require.NoError(t, s.logs.Log(ctx, testutil.NewTestDailyLog(a.ID, "2025-01-07", 40)))
	got, err := s.activities.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.InDelta(t, 40, got.Progress, 0.001)
	assert.Equal(t, domain.ActivityInProgress, got.Status)

	final := testutil.NewTestDailyLog(a.ID, "2025-01-09", 100)
	require.NoError(t, s.logs.Log(ctx, final))
	got, err = s.activities.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.InDelta(t, 100, got.Progress, 0.001)
	assert.Equal(t, domain.ActivityDone, got.Status)

	// An older report logged late does not override the newest one.
	require.NoError(t, s.logs.Log(ctx, testutil.NewTestDailyLog(a.ID, "2025-01-08", 70)))
	got, err = s.activities.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.InDelta(t, 100, got.Progress, 0.001)

	require.NoError(t, s.logs.Delete(ctx, final.ID))
	got, err = s.activities.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.InDelta(t, 70, got.Progress, 0.001)
	assert.Equal(t, domain.ActivityInProgress, got.Status)

	logs, err := s.logs.ListByActivity(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestDailyLogService_Log_Validation(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	proj := s.project(t, "Tower")
	a := s.activity(t, proj.ID, "Core walls", testutil.WithDuration(5))

	err := s.logs.Log(ctx, testutil.NewTestDailyLog(a.ID, "2025-01-07", 140))
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = s.logs.Log(ctx, testutil.NewTestDailyLog(999, "2025-01-07", 10))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDailyLogService_Log_RollbackOnActivityUpdateFailure(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	proj := s.project(t, "Tower")
	a := s.activity(t, proj.ID, "Core walls", testutil.WithDuration(5))

	failUoW := &testutil.FailingExecUoW{DB: s.db, Match: "UPDATE activities", Nth: 1, Err: fmt.Errorf("injected activity update failure")}
	svc := NewDailyLogService(repository.NewSQLiteDailyLogRepo(s.db), failUoW)

	err := svc.Log(ctx, testutil.NewTestDailyLog(a.ID, "2025-01-07", 50))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected activity update failure")

	logs, err := s.logs.ListByActivity(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, logs, "log insert rolled back")

	got, err := s.activities.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Progress)
}
