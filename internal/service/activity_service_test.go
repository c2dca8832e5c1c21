package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/schedule"
	"github.com/alexanderramin/siteplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityService_Create_DerivesEndAndManualDates(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	proj := s.project(t, "Civic Hall")

	a := testutil.NewTestActivity(proj.ID, "Strip out", testutil.WithDuration(4))
	a.StartDate = testutil.DatePtr("2025-01-06")
	require.NoError(t, s.activities.Create(ctx, a))
	assert.NotZero(t, a.ID)

	got, err := s.activities.GetByID(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.EndDate)
	assert.Equal(t, testutil.Date("2025-01-10"), *got.EndDate)
	assert.Equal(t, got.StartDate, got.ManualStart)
	assert.Equal(t, got.EndDate, got.ManualEnd)
	assert.Equal(t, domain.ActivityPlanned, got.Status)
}

func TestActivityService_Create_RejectsNegativeDuration(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	proj := s.project(t, "Civic Hall")

	a := testutil.NewTestActivity(proj.ID, "Backwards", testutil.WithDuration(-2))
	err := s.activities.Create(ctx, a)
	assert.ErrorIs(t, err, domain.ErrValidation)

	acts, err := s.activities.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Empty(t, acts)
}

func TestActivityService_Edit_Reconciles(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	proj := s.project(t, "Civic Hall")
	a := s.activity(t, proj.ID, "Roofing", testutil.WithDates("2025-01-06", "2025-01-09"))

	got, err := s.activities.Edit(ctx, a.ID, schedule.StartEdit(testutil.Date("2025-01-13")))
	require.NoError(t, err)
	assert.Equal(t, testutil.Date("2025-01-16"), *got.EndDate, "end follows start when duration is known")
	assert.Equal(t, 3, *got.Duration)

	got, err = s.activities.Edit(ctx, a.ID, schedule.EndEdit(testutil.Date("2025-01-20")))
	require.NoError(t, err)
	assert.Equal(t, 7, *got.Duration, "duration follows end when start is known")
	assert.Equal(t, testutil.Date("2025-01-13"), *got.StartDate)

	stored, err := s.activities.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, testutil.Date("2025-01-13"), *stored.ManualStart, "edits sync manual dates")
	assert.Equal(t, testutil.Date("2025-01-20"), *stored.ManualEnd)
}

func TestActivityService_Edit_NegativeSpanRejectedAndUnchanged(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	proj := s.project(t, "Civic Hall")
	a := s.activity(t, proj.ID, "Roofing", testutil.WithDates("2025-01-06", "2025-01-09"))

	_, err := s.activities.Edit(ctx, a.ID, schedule.EndEdit(testutil.Date("2025-01-01")))
	assert.ErrorIs(t, err, domain.ErrValidation)

	stored, err := s.activities.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, testutil.Date("2025-01-09"), *stored.EndDate)
	assert.Equal(t, 3, *stored.Duration)
}

func TestActivityService_Edit_Missing(t *testing.T) {
	s := setupServices(t)
	_, err := s.activities.Edit(context.Background(), 999, schedule.DurationEdit(2))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestActivityService_Delete_CascadesDependencies(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	proj := s.project(t, "Civic Hall")
	a := s.activity(t, proj.ID, "A", testutil.WithDates("2025-01-06", "2025-01-08"))
	b := s.activity(t, proj.ID, "B", testutil.WithDates("2025-01-08", "2025-01-10"))
	c := s.activity(t, proj.ID, "C", testutil.WithDates("2025-01-10", "2025-01-12"))
	s.dependency(t, proj.ID, a.ID, b.ID, domain.FinishToStart, 0)
	s.dependency(t, proj.ID, b.ID, c.ID, domain.StartToStart, 1)
	keep := s.dependency(t, proj.ID, a.ID, c.ID, domain.FinishToFinish, 0)

	removed, err := s.activities.Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	deps, err := s.deps.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, keep.ID, deps[0].ID)

	acts, err := s.activities.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	values := make([]domain.Activity, len(acts))
	for i, act := range acts {
		values[i] = *act
	}
	g := schedule.BuildGraph(values, deps)
	assert.False(t, g.HasEdgeTouching(b.ID))
	assert.Empty(t, g.Warnings)
}

func TestActivityService_Delete_Missing(t *testing.T) {
	s := setupServices(t)
	_, err := s.activities.Delete(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
