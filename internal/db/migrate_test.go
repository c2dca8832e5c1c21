package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

const (
	ts        = "2025-01-01T00:00:00Z"
	projectID = "p1"
)

func seedProject(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO projects (id, short_id, name, start_date, created_at, updated_at)
		VALUES (?, 'BRG01', 'Bridge', '2025-01-01', ?, ?)`, projectID, ts, ts)
	require.NoError(t, err)
}

func seedActivity(t *testing.T, db *sql.DB, name string) int64 {
	t.Helper()
	res, err := db.Exec(`INSERT INTO activities (project_id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		projectID, name, ts, ts)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"projects", "contractors", "work_packages", "activities", "dependencies", "daily_logs"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_projects_short_id",
		"idx_contractors_project",
		"idx_work_packages_project",
		"idx_activities_project",
		"idx_dependencies_project",
		"idx_dependencies_from",
		"idx_dependencies_to",
		"idx_daily_logs_activity",
		"idx_daily_logs_date",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestOpenDB_AppliesPragmas(t *testing.T) {
	db := openTestDB(t)

	var fk, busy int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk, "foreign keys should be enabled")
	require.NoError(t, db.QueryRow(`PRAGMA busy_timeout`).Scan(&busy))
	assert.Equal(t, 5000, busy)
}

func TestMigrate_ActivitiesHaveManualDateColumns(t *testing.T) {
	db := openTestDB(t)

	for _, col := range []string{"manual_start", "manual_end"} {
		ok, err := columnExists(db, "activities", col)
		require.NoError(t, err)
		assert.True(t, ok, "activities.%s should exist", col)
	}
}

func TestMigrate_DependencyConstraints(t *testing.T) {
	db := openTestDB(t)
	seedProject(t, db)
	a := seedActivity(t, db, "Excavate")
	b := seedActivity(t, db, "Footings")

	insert := func(from, to int64, typ string) error {
		_, err := db.Exec(`INSERT INTO dependencies (project_id, from_id, to_id, type, lag, created_at)
			VALUES (?, ?, ?, ?, 0, ?)`, projectID, from, to, typ, ts)
		return err
	}

	require.NoError(t, insert(a, b, "FS"))
	assert.Error(t, insert(a, b, "FS"), "duplicate (from, to, type) should be rejected")
	assert.NoError(t, insert(a, b, "SS"), "same pair with another type is allowed")
	assert.Error(t, insert(a, a, "FS"), "self reference should be rejected")
	assert.Error(t, insert(a, b, "XX"), "unknown type should be rejected")
	assert.Error(t, insert(a, 999, "FF"), "unknown successor should be rejected")
}

func TestMigrate_DeletingActivityCascadesDependencies(t *testing.T) {
	db := openTestDB(t)
	seedProject(t, db)
	a := seedActivity(t, db, "Excavate")
	b := seedActivity(t, db, "Footings")

	_, err := db.Exec(`INSERT INTO dependencies (project_id, from_id, to_id, type, created_at) VALUES (?, ?, ?, 'FS', ?)`,
		projectID, a, b, ts)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM activities WHERE id = ?`, a)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM dependencies`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestMigrate_ActivityStatusCheck(t *testing.T) {
	db := openTestDB(t)
	seedProject(t, db)

	_, err := db.Exec(`INSERT INTO activities (project_id, name, status, created_at, updated_at)
		VALUES (?, 'Bad', 'INVALID', ?, ?)`, projectID, ts, ts)
	assert.Error(t, err, "invalid status should be rejected by CHECK constraint")
}

func TestMigrate_ScheduleModeDefaultsToManual(t *testing.T) {
	db := openTestDB(t)
	seedProject(t, db)

	var mode string
	require.NoError(t, db.QueryRow(`SELECT schedule_mode FROM projects WHERE id = ?`, projectID).Scan(&mode))
	assert.Equal(t, "manual", mode)
}
