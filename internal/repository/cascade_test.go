package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/siteplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCascadeDelete_ProjectToActivities verifies that deleting a project
// removes its activities, dependencies and daily logs.
func TestCascadeDelete_ProjectToActivities(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	projRepo := NewSQLiteProjectRepo(db)
	actRepo := NewSQLiteActivityRepo(db)
	depRepo := NewSQLiteDependencyRepo(db)
	logRepo := NewSQLiteDailyLogRepo(db)

	proj := testutil.NewTestProject("CascadeProj")
	require.NoError(t, projRepo.Create(ctx, proj))
	a := testutil.NewTestActivity(proj.ID, "A")
	b := testutil.NewTestActivity(proj.ID, "B")
	require.NoError(t, actRepo.Create(ctx, a))
	require.NoError(t, actRepo.Create(ctx, b))
	d := testutil.NewTestDependency(proj.ID, a.ID, b.ID)
	require.NoError(t, depRepo.Create(ctx, d))
	l := testutil.NewTestDailyLog(a.ID, "2025-01-10", 20)
	require.NoError(t, logRepo.Create(ctx, l))

	require.NoError(t, projRepo.Delete(ctx, proj.ID))

	_, err := actRepo.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = depRepo.GetByID(ctx, d.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = logRepo.GetByID(ctx, l.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestCascadeDelete_ActivityToDependencies verifies that deleting an activity
// drops every dependency that touches it and leaves the rest.
func TestCascadeDelete_ActivityToDependencies(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	projRepo := NewSQLiteProjectRepo(db)
	actRepo := NewSQLiteActivityRepo(db)
	depRepo := NewSQLiteDependencyRepo(db)

	proj := testutil.NewTestProject("CascadeAct")
	require.NoError(t, projRepo.Create(ctx, proj))
	var ids []int64
	for _, n := range []string{"A", "B", "C"} {
		a := testutil.NewTestActivity(proj.ID, n)
		require.NoError(t, actRepo.Create(ctx, a))
		ids = append(ids, a.ID)
	}
	require.NoError(t, depRepo.Create(ctx, testutil.NewTestDependency(proj.ID, ids[0], ids[1])))
	require.NoError(t, depRepo.Create(ctx, testutil.NewTestDependency(proj.ID, ids[1], ids[2])))
	keep := testutil.NewTestDependency(proj.ID, ids[0], ids[2])
	require.NoError(t, depRepo.Create(ctx, keep))

	require.NoError(t, actRepo.Delete(ctx, ids[1]))

	left, err := depRepo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, keep.ID, left[0].ID)
}

// TestCascadeDelete_ContractorUnassigns verifies that removing a contractor
// clears the reference on activities and packages instead of deleting them.
func TestCascadeDelete_ContractorUnassigns(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	proj := testutil.NewTestProject("CascadeCon")
	require.NoError(t, NewSQLiteProjectRepo(db).Create(ctx, proj))

	conRepo := NewSQLiteContractorRepo(db)
	c := testutil.NewTestContractor(proj.ID, "Acme")
	require.NoError(t, conRepo.Create(ctx, c))

	pkgRepo := NewSQLiteWorkPackageRepo(db)
	pkg := testutil.NewTestPackage(proj.ID, "Roofing", &c.ID)
	require.NoError(t, pkgRepo.Create(ctx, pkg))

	actRepo := NewSQLiteActivityRepo(db)
	a := testutil.NewTestActivity(proj.ID, "Trusses", testutil.WithContractor(c.ID), testutil.WithPackage(pkg.ID))
	require.NoError(t, actRepo.Create(ctx, a))

	require.NoError(t, conRepo.Delete(ctx, c.ID))

	got, err := actRepo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ContractorID)
	require.NotNil(t, got.PackageID)

	gotPkg, err := pkgRepo.GetByID(ctx, pkg.ID)
	require.NoError(t, err)
	assert.Nil(t, gotPkg.ContractorID)
}
