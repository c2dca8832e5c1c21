package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/siteplan/internal/db"
	"github.com/alexanderramin/siteplan/internal/domain"
)

// SQLiteWorkPackageRepo implements WorkPackageRepo using a SQLite database.
type SQLiteWorkPackageRepo struct {
	db db.DBTX
}

func NewSQLiteWorkPackageRepo(conn db.DBTX) *SQLiteWorkPackageRepo {
	return &SQLiteWorkPackageRepo{db: conn}
}

func (r *SQLiteWorkPackageRepo) Create(ctx context.Context, p *domain.WorkPackage) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO work_packages (project_id, name, contractor_id, created_at) VALUES (?, ?, ?, ?)`,
		p.ProjectID, p.Name, nullableInt64ToValue(p.ContractorID), p.CreatedAt.Format(time.RFC3339))
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("package %q references a missing project or contractor: %w", p.Name, ErrNotFound)
		}
		return fmt.Errorf("inserting work package: %w", err)
	}
	if p.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("reading work package id: %w", err)
	}
	return nil
}

func (r *SQLiteWorkPackageRepo) GetByID(ctx context.Context, id int64) (*domain.WorkPackage, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, project_id, name, contractor_id, created_at FROM work_packages WHERE id = ?`, id)
	p, err := scanWorkPackage(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("work package %d: %w", id, ErrNotFound)
	}
	return p, err
}

func (r *SQLiteWorkPackageRepo) ListByProject(ctx context.Context, projectID string) ([]domain.WorkPackage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, project_id, name, contractor_id, created_at FROM work_packages WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing work packages: %w", err)
	}
	defer rows.Close()

	var out []domain.WorkPackage
	for rows.Next() {
		p, err := scanWorkPackage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work packages: %w", err)
	}
	return out, nil
}

func (r *SQLiteWorkPackageRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM work_packages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting work package: %w", err)
	}
	return requireAffected(res, fmt.Sprintf("work package %d", id))
}

func scanWorkPackage(row rowScanner) (*domain.WorkPackage, error) {
	var p domain.WorkPackage
	var contractorID sql.NullInt64
	var createdAt string
	if err := row.Scan(&p.ID, &p.ProjectID, &p.Name, &contractorID, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning work package: %w", err)
	}
	p.ContractorID = nullInt64Ptr(contractorID)
	t, err := parseTimestamp(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	p.CreatedAt = t
	return &p, nil
}
