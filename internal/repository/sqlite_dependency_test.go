package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// depTestSetup creates a project and three activities for dependency tests.
func depTestSetup(t *testing.T) (*SQLiteDependencyRepo, string, [3]int64) {
	t.Helper()
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	proj := testutil.NewTestProject("DepTest")
	require.NoError(t, NewSQLiteProjectRepo(db).Create(ctx, proj))

	actRepo := NewSQLiteActivityRepo(db)
	var ids [3]int64
	for i, name := range []string{"Excavate", "Footings", "Walls"} {
		a := testutil.NewTestActivity(proj.ID, name)
		require.NoError(t, actRepo.Create(ctx, a))
		ids[i] = a.ID
	}
	return NewSQLiteDependencyRepo(db), proj.ID, ids
}

func TestDependencyRepo_CreateAndList(t *testing.T) {
	repo, pid, ids := depTestSetup(t)
	ctx := context.Background()

	d1 := testutil.NewTestDependency(pid, ids[0], ids[1], testutil.WithLag(2))
	d2 := testutil.NewTestDependency(pid, ids[1], ids[2], testutil.WithType(domain.StartToStart))
	require.NoError(t, repo.Create(ctx, d1))
	require.NoError(t, repo.Create(ctx, d2))
	assert.Greater(t, d2.ID, d1.ID)

	preds, err := repo.ListPredecessors(ctx, ids[1])
	require.NoError(t, err)
	require.Len(t, preds, 1)
	assert.Equal(t, ids[0], preds[0].FromID)
	assert.Equal(t, domain.FinishToStart, preds[0].Type)
	assert.Equal(t, 2, preds[0].Lag)

	succs, err := repo.ListSuccessors(ctx, ids[1])
	require.NoError(t, err)
	require.Len(t, succs, 1)
	assert.Equal(t, ids[2], succs[0].ToID)
	assert.Equal(t, domain.StartToStart, succs[0].Type)

	all, err := repo.ListByProject(ctx, pid)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDependencyRepo_DuplicateTripleRejected(t *testing.T) {
	repo, pid, ids := depTestSetup(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestDependency(pid, ids[0], ids[1])))
	err := repo.Create(ctx, testutil.NewTestDependency(pid, ids[0], ids[1], testutil.WithLag(5)))
	assert.ErrorIs(t, err, domain.ErrInvalidDependency)

	// Same pair with a different type is allowed.
	require.NoError(t, repo.Create(ctx, testutil.NewTestDependency(pid, ids[0], ids[1], testutil.WithType(domain.FinishToFinish))))
}

func TestDependencyRepo_UpdateKeepsEndpoints(t *testing.T) {
	repo, pid, ids := depTestSetup(t)
	ctx := context.Background()

	d := testutil.NewTestDependency(pid, ids[0], ids[1])
	require.NoError(t, repo.Create(ctx, d))

	d.Type = domain.StartToStart
	d.Lag = -1
	require.NoError(t, repo.Update(ctx, d))

	got, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StartToStart, got.Type)
	assert.Equal(t, -1, got.Lag)
	assert.Equal(t, ids[0], got.FromID)
	assert.Equal(t, ids[1], got.ToID)
}

func TestDependencyRepo_DeleteAndNotFound(t *testing.T) {
	repo, pid, ids := depTestSetup(t)
	ctx := context.Background()

	d := testutil.NewTestDependency(pid, ids[0], ids[1])
	require.NoError(t, repo.Create(ctx, d))
	require.NoError(t, repo.Delete(ctx, d.ID))

	_, err := repo.GetByID(ctx, d.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, d.ID), ErrNotFound)
}

func TestDependencyRepo_DeleteTouching(t *testing.T) {
	repo, pid, ids := depTestSetup(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestDependency(pid, ids[0], ids[1])))
	require.NoError(t, repo.Create(ctx, testutil.NewTestDependency(pid, ids[1], ids[2])))
	require.NoError(t, repo.Create(ctx, testutil.NewTestDependency(pid, ids[0], ids[2])))

	n, err := repo.DeleteTouching(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	left, err := repo.ListByProject(ctx, pid)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, ids[0], left[0].FromID)
	assert.Equal(t, ids[2], left[0].ToID)
}

func TestDependencyRepo_RejectsSelfReferenceAndMissingActivity(t *testing.T) {
	repo, pid, ids := depTestSetup(t)
	ctx := context.Background()

	assert.ErrorIs(t, repo.Create(ctx, testutil.NewTestDependency(pid, ids[0], ids[0])), domain.ErrInvalidDependency)
	assert.ErrorIs(t, repo.Create(ctx, testutil.NewTestDependency(pid, ids[0], 9999)), ErrNotFound)
}
