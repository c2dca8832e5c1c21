package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/siteplan/internal/db"
	"github.com/alexanderramin/siteplan/internal/domain"
)

// SQLiteDependencyRepo implements DependencyRepo using a SQLite database.
type SQLiteDependencyRepo struct {
	db db.DBTX
}

// NewSQLiteDependencyRepo creates a new SQLiteDependencyRepo.
func NewSQLiteDependencyRepo(conn db.DBTX) *SQLiteDependencyRepo {
	return &SQLiteDependencyRepo{db: conn}
}

const dependencyColumns = `id, project_id, from_id, to_id, type, lag, created_at`

func (r *SQLiteDependencyRepo) Create(ctx context.Context, d *domain.Dependency) error {
	query := `INSERT INTO dependencies (project_id, from_id, to_id, type, lag, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		d.ProjectID, d.FromID, d.ToID, string(d.Type), d.Lag, d.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return mapDependencyWriteErr(err, d)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading dependency id: %w", err)
	}
	d.ID = id
	return nil
}

func (r *SQLiteDependencyRepo) GetByID(ctx context.Context, id int64) (*domain.Dependency, error) {
	query := `SELECT ` + dependencyColumns + ` FROM dependencies WHERE id = ?`
	var d domain.Dependency
	if err := scanDependency(r.db.QueryRowContext(ctx, query, id), &d); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("dependency %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &d, nil
}

// Update writes type and lag. Endpoints never change.
func (r *SQLiteDependencyRepo) Update(ctx context.Context, d *domain.Dependency) error {
	res, err := r.db.ExecContext(ctx, `UPDATE dependencies SET type = ?, lag = ? WHERE id = ?`,
		string(d.Type), d.Lag, d.ID)
	if err != nil {
		return mapDependencyWriteErr(err, d)
	}
	return requireAffected(res, fmt.Sprintf("dependency %d", d.ID))
}

func (r *SQLiteDependencyRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dependencies WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting dependency: %w", err)
	}
	return requireAffected(res, fmt.Sprintf("dependency %d", id))
}

// DeleteTouching removes every dependency with activityID on either side and
// reports how many were removed.
func (r *SQLiteDependencyRepo) DeleteTouching(ctx context.Context, activityID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dependencies WHERE from_id = ? OR to_id = ?`, activityID, activityID)
	if err != nil {
		return 0, fmt.Errorf("deleting dependencies of activity %d: %w", activityID, err)
	}
	return res.RowsAffected()
}

func (r *SQLiteDependencyRepo) ListByProject(ctx context.Context, projectID string) ([]domain.Dependency, error) {
	return r.list(ctx, `SELECT `+dependencyColumns+` FROM dependencies WHERE project_id = ? ORDER BY id`, projectID)
}

func (r *SQLiteDependencyRepo) ListPredecessors(ctx context.Context, activityID int64) ([]domain.Dependency, error) {
	return r.list(ctx, `SELECT `+dependencyColumns+` FROM dependencies WHERE to_id = ? ORDER BY id`, activityID)
}

func (r *SQLiteDependencyRepo) ListSuccessors(ctx context.Context, activityID int64) ([]domain.Dependency, error) {
	return r.list(ctx, `SELECT `+dependencyColumns+` FROM dependencies WHERE from_id = ? ORDER BY id`, activityID)
}

func (r *SQLiteDependencyRepo) list(ctx context.Context, query string, arg any) ([]domain.Dependency, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("listing dependencies: %w", err)
	}
	defer rows.Close()

	var deps []domain.Dependency
	for rows.Next() {
		var d domain.Dependency
		if err := scanDependency(rows, &d); err != nil {
			return nil, err
		}
		deps = append(deps, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dependencies: %w", err)
	}
	return deps, nil
}

func scanDependency(row rowScanner, d *domain.Dependency) error {
	var typ, createdAt string
	if err := row.Scan(&d.ID, &d.ProjectID, &d.FromID, &d.ToID, &typ, &d.Lag, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("scanning dependency: %w", err)
	}
	d.Type = domain.DependencyType(typ)
	t, err := parseTimestamp(createdAt)
	if err != nil {
		return fmt.Errorf("parsing created_at: %w", err)
	}
	d.CreatedAt = t
	return nil
}

func mapDependencyWriteErr(err error, d *domain.Dependency) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%s dependency %d -> %d already exists: %w", d.Type, d.FromID, d.ToID, domain.ErrInvalidDependency)
	case isCheckViolation(err):
		return fmt.Errorf("dependency %d -> %d (%s) rejected: %w", d.FromID, d.ToID, d.Type, domain.ErrInvalidDependency)
	case isForeignKeyViolation(err):
		return fmt.Errorf("dependency %d -> %d references a missing activity: %w", d.FromID, d.ToID, ErrNotFound)
	default:
		return fmt.Errorf("writing dependency: %w", err)
	}
}
