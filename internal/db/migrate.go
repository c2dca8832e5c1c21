package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	hadManualDates, err := columnExists(db, "activities", "manual_start")
	if err != nil {
		return fmt.Errorf("inspecting activities schema: %w", err)
	}

	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}

	if !hadManualDates {
		if err := migrateBackfillManualDates(db); err != nil {
			return fmt.Errorf("backfilling manual dates: %w", err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id            TEXT PRIMARY KEY,
		short_id      TEXT NOT NULL DEFAULT '',
		name          TEXT NOT NULL,
		location      TEXT NOT NULL DEFAULT '',
		start_date    TEXT NOT NULL,
		status        TEXT NOT NULL DEFAULT 'active'
		              CHECK(status IN ('active','paused','done','archived')),
		schedule_mode TEXT NOT NULL DEFAULT 'manual'
		              CHECK(schedule_mode IN ('auto','manual')),
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_short_id ON projects(short_id) WHERE short_id != ''`,

	`CREATE TABLE IF NOT EXISTS contractors (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name       TEXT NOT NULL,
		trade      TEXT NOT NULL DEFAULT '',
		phone      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_contractors_project ON contractors(project_id)`,

	`CREATE TABLE IF NOT EXISTS work_packages (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id    TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name          TEXT NOT NULL,
		contractor_id INTEGER REFERENCES contractors(id) ON DELETE SET NULL,
		created_at    TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_work_packages_project ON work_packages(project_id)`,

	`CREATE TABLE IF NOT EXISTS activities (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id    TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name          TEXT NOT NULL,
		start_date    TEXT,
		end_date      TEXT,
		duration      INTEGER,
		contractor_id INTEGER REFERENCES contractors(id) ON DELETE SET NULL,
		package_id    INTEGER REFERENCES work_packages(id) ON DELETE SET NULL,
		status        TEXT NOT NULL DEFAULT 'planned'
		              CHECK(status IN ('planned','in_progress','done')),
		progress      REAL NOT NULL DEFAULT 0,
		comments      TEXT NOT NULL DEFAULT '',
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_project ON activities(project_id)`,

	`CREATE TABLE IF NOT EXISTS dependencies (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		from_id    INTEGER NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
		to_id      INTEGER NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
		type       TEXT NOT NULL DEFAULT 'FS'
		           CHECK(type IN ('FS','SS','FF','SF')),
		lag        INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		CHECK(from_id != to_id),
		UNIQUE(from_id, to_id, type)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_dependencies_project ON dependencies(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_dependencies_from ON dependencies(from_id)`,
	`CREATE INDEX IF NOT EXISTS idx_dependencies_to ON dependencies(to_id)`,

	`CREATE TABLE IF NOT EXISTS daily_logs (
		id           TEXT PRIMARY KEY,
		activity_id  INTEGER NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
		log_date     TEXT NOT NULL,
		progress_pct REAL NOT NULL DEFAULT 0,
		workers      INTEGER NOT NULL DEFAULT 0,
		note         TEXT NOT NULL DEFAULT '',
		created_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_daily_logs_activity ON daily_logs(activity_id)`,
	`CREATE INDEX IF NOT EXISTS idx_daily_logs_date ON daily_logs(log_date)`,

	// Manual fallback dates restored by a manual schedule run
	`ALTER TABLE activities ADD COLUMN manual_start TEXT`,
	`ALTER TABLE activities ADD COLUMN manual_end TEXT`,
}

func columnExists(db *sql.DB, table, column string) (bool, error) {
	rows, err := db.Query(fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return false, err
	}
	defer rows.Close()
	for rows.Next() {
		var cid, notNull, pk int
		var name, typ string
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// migrateBackfillManualDates seeds the manual fallback columns from the
// current dates. Runs once, right after the columns are added, so later auto
// runs do not leak into the manual baseline.
func migrateBackfillManualDates(db *sql.DB) error {
	ctx := context.Background()
	_, err := db.ExecContext(ctx, `UPDATE activities
		SET manual_start = COALESCE(manual_start, start_date),
		    manual_end   = COALESCE(manual_end, end_date)
		WHERE manual_start IS NULL OR manual_end IS NULL`)
	if err != nil {
		return fmt.Errorf("updating activities: %w", err)
	}
	return nil
}
