package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activityTestSetup(t *testing.T) (*sql.DB, *SQLiteActivityRepo, *domain.Project) {
	t.Helper()
	db := testutil.NewTestDB(t)
	proj := testutil.NewTestProject("Activities")
	require.NoError(t, NewSQLiteProjectRepo(db).Create(context.Background(), proj))
	return db, NewSQLiteActivityRepo(db), proj
}

func TestActivityRepo_CreateAssignsAscendingIDs(t *testing.T) {
	_, repo, proj := activityTestSetup(t)
	ctx := context.Background()

	a := testutil.NewTestActivity(proj.ID, "Excavate")
	b := testutil.NewTestActivity(proj.ID, "Footings")
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	assert.Positive(t, a.ID)
	assert.Greater(t, b.ID, a.ID)
}

func TestActivityRepo_RoundTripsAllFields(t *testing.T) {
	db, repo, proj := activityTestSetup(t)
	ctx := context.Background()

	c := testutil.NewTestContractor(proj.ID, "Acme")
	require.NoError(t, NewSQLiteContractorRepo(db).Create(ctx, c))
	pkg := testutil.NewTestPackage(proj.ID, "Substructure", &c.ID)
	require.NoError(t, NewSQLiteWorkPackageRepo(db).Create(ctx, pkg))

	a := testutil.NewTestActivity(proj.ID, "Pour slab",
		testutil.WithDates("2025-02-03", "2025-02-07"),
		testutil.WithManualDates("2025-02-01", "2025-02-05"),
		testutil.WithContractor(c.ID),
		testutil.WithPackage(pkg.ID),
		testutil.WithProgress(40),
		testutil.WithComments("pump booked"),
	)
	a.Status = domain.ActivityInProgress
	require.NoError(t, repo.Create(ctx, a))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-02-03", domain.FormatDate(got.StartDate))
	assert.Equal(t, "2025-02-07", domain.FormatDate(got.EndDate))
	assert.Equal(t, "2025-02-01", domain.FormatDate(got.ManualStart))
	assert.Equal(t, "2025-02-05", domain.FormatDate(got.ManualEnd))
	require.NotNil(t, got.Duration)
	assert.Equal(t, 4, *got.Duration)
	assert.Equal(t, c.ID, *got.ContractorID)
	assert.Equal(t, pkg.ID, *got.PackageID)
	assert.Equal(t, domain.ActivityInProgress, got.Status)
	assert.Equal(t, 40.0, got.Progress)
	assert.Equal(t, "pump booked", got.Comments)
}

func TestActivityRepo_NullableFieldsStayNil(t *testing.T) {
	_, repo, proj := activityTestSetup(t)
	ctx := context.Background()

	a := testutil.NewTestActivity(proj.ID, "Unscheduled")
	require.NoError(t, repo.Create(ctx, a))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got.StartDate)
	assert.Nil(t, got.EndDate)
	assert.Nil(t, got.Duration)
	assert.Nil(t, got.ContractorID)
	assert.Nil(t, got.PackageID)
}

func TestActivityRepo_UnparseableStoredDateReadsAsUnset(t *testing.T) {
	db, repo, proj := activityTestSetup(t)
	ctx := context.Background()

	a := testutil.NewTestActivity(proj.ID, "Imported", testutil.WithDates("2025-01-01", "2025-01-05"))
	require.NoError(t, repo.Create(ctx, a))
	_, err := db.Exec(`UPDATE activities SET start_date = 'bad' WHERE id = ?`, a.ID)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, got.StartDate)
	assert.False(t, got.HasDates())
	assert.NotNil(t, got.EndDate)
}

func TestActivityRepo_ListByProjectOrdersByID(t *testing.T) {
	db, repo, proj := activityTestSetup(t)
	ctx := context.Background()

	other := testutil.NewTestProject("Other")
	require.NoError(t, NewSQLiteProjectRepo(db).Create(ctx, other))

	for _, name := range []string{"C", "A", "B"} {
		require.NoError(t, repo.Create(ctx, testutil.NewTestActivity(proj.ID, name)))
	}
	require.NoError(t, repo.Create(ctx, testutil.NewTestActivity(other.ID, "elsewhere")))

	list, err := repo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "C", list[0].Name)
	assert.Less(t, list[0].ID, list[1].ID)
	assert.Less(t, list[1].ID, list[2].ID)
}

func TestActivityRepo_UpdateAndDelete(t *testing.T) {
	_, repo, proj := activityTestSetup(t)
	ctx := context.Background()

	a := testutil.NewTestActivity(proj.ID, "Scaffold", testutil.WithDates("2025-01-01", "2025-01-03"))
	require.NoError(t, repo.Create(ctx, a))

	a.EndDate = testutil.DatePtr("2025-01-10")
	nine := 9
	a.Duration = &nine
	require.NoError(t, repo.Update(ctx, a))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-10", domain.FormatDate(got.EndDate))
	assert.Equal(t, 9, *got.Duration)

	require.NoError(t, repo.Delete(ctx, a.ID))
	_, err = repo.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, a), ErrNotFound)
}

func TestActivityRepo_CreateRejectsUnknownProject(t *testing.T) {
	_, repo, _ := activityTestSetup(t)
	err := repo.Create(context.Background(), testutil.NewTestActivity("no-such-project", "Orphan"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseNullableDate(t *testing.T) {
	got := parseNullableDate(sql.NullString{String: "2024-01-05 08:15:00", Valid: true})
	require.NotNil(t, got)
	assert.Equal(t, "2024-01-05", got.Format(domain.DateLayout))

	got = parseNullableDate(sql.NullString{String: "2024-01-05T00:00:00Z", Valid: true})
	require.NotNil(t, got)
	assert.Equal(t, "2024-01-05", got.Format(domain.DateLayout))

	assert.Nil(t, parseNullableDate(sql.NullString{String: "2024-01-05junk", Valid: true}))
	assert.Nil(t, parseNullableDate(sql.NullString{}))
}
