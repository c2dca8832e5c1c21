package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrate_UpgradePath_AddsManualDates simulates a database created before
// activities carried manual fallback dates. Existing rows must survive and get
// their manual dates seeded from the current dates exactly once.
func TestMigrate_UpgradePath_AddsManualDates(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`PRAGMA foreign_keys = ON`)
	require.NoError(t, err)

	legacy := []string{
		`CREATE TABLE projects (
			id            TEXT PRIMARY KEY,
			short_id      TEXT NOT NULL DEFAULT '',
			name          TEXT NOT NULL,
			location      TEXT NOT NULL DEFAULT '',
			start_date    TEXT NOT NULL,
			status        TEXT NOT NULL DEFAULT 'active',
			schedule_mode TEXT NOT NULL DEFAULT 'manual',
			created_at    TEXT NOT NULL,
			updated_at    TEXT NOT NULL
		)`,
		`CREATE TABLE activities (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			project_id    TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			name          TEXT NOT NULL,
			start_date    TEXT,
			end_date      TEXT,
			duration      INTEGER,
			contractor_id INTEGER,
			package_id    INTEGER,
			status        TEXT NOT NULL DEFAULT 'planned',
			progress      REAL NOT NULL DEFAULT 0,
			comments      TEXT NOT NULL DEFAULT '',
			created_at    TEXT NOT NULL,
			updated_at    TEXT NOT NULL
		)`,
		`INSERT INTO projects (id, name, start_date, created_at, updated_at)
			VALUES ('p1', 'Depot', '2025-01-01', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`,
		`INSERT INTO activities (project_id, name, start_date, end_date, duration, created_at, updated_at)
			VALUES ('p1', 'Slab', '2025-02-01', '2025-02-05', 4, '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`,
		`INSERT INTO activities (project_id, name, created_at, updated_at)
			VALUES ('p1', 'Undated', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`,
	}
	for _, stmt := range legacy {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	require.NoError(t, Migrate(db))

	var ms, me sql.NullString
	require.NoError(t, db.QueryRow(`SELECT manual_start, manual_end FROM activities WHERE name = 'Slab'`).Scan(&ms, &me))
	assert.Equal(t, "2025-02-01", ms.String)
	assert.Equal(t, "2025-02-05", me.String)

	require.NoError(t, db.QueryRow(`SELECT manual_start, manual_end FROM activities WHERE name = 'Undated'`).Scan(&ms, &me))
	assert.False(t, ms.Valid)
	assert.False(t, me.Valid)

	// A later auto run moves the dates; re-running migrations must not touch
	// the manual baseline.
	_, err = db.Exec(`UPDATE activities SET start_date = '2025-03-01', end_date = '2025-03-05' WHERE name = 'Slab'`)
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE activities SET start_date = '2025-03-01' WHERE name = 'Undated'`)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	require.NoError(t, db.QueryRow(`SELECT manual_start FROM activities WHERE name = 'Slab'`).Scan(&ms))
	assert.Equal(t, "2025-02-01", ms.String)
	require.NoError(t, db.QueryRow(`SELECT manual_start FROM activities WHERE name = 'Undated'`).Scan(&ms))
	assert.False(t, ms.Valid, "backfill only runs when the columns are first added")

	// Tables introduced after the legacy schema exist now.
	for _, table := range []string{"dependencies", "daily_logs", "contractors", "work_packages"} {
		var name string
		require.NoError(t, db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name))
	}
}
