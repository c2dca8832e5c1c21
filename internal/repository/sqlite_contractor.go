package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/siteplan/internal/db"
	"github.com/alexanderramin/siteplan/internal/domain"
)

// SQLiteContractorRepo implements ContractorRepo using a SQLite database.
type SQLiteContractorRepo struct {
	db db.DBTX
}

func NewSQLiteContractorRepo(conn db.DBTX) *SQLiteContractorRepo {
	return &SQLiteContractorRepo{db: conn}
}

func (r *SQLiteContractorRepo) Create(ctx context.Context, c *domain.Contractor) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO contractors (project_id, name, trade, phone, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ProjectID, c.Name, c.Trade, c.Phone, c.CreatedAt.Format(time.RFC3339))
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("contractor project %s: %w", c.ProjectID, ErrNotFound)
		}
		return fmt.Errorf("inserting contractor: %w", err)
	}
	if c.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("reading contractor id: %w", err)
	}
	return nil
}

func (r *SQLiteContractorRepo) GetByID(ctx context.Context, id int64) (*domain.Contractor, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, project_id, name, trade, phone, created_at FROM contractors WHERE id = ?`, id)
	c, err := scanContractor(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("contractor %d: %w", id, ErrNotFound)
	}
	return c, err
}

func (r *SQLiteContractorRepo) ListByProject(ctx context.Context, projectID string) ([]domain.Contractor, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, project_id, name, trade, phone, created_at FROM contractors WHERE project_id = ? ORDER BY name, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing contractors: %w", err)
	}
	defer rows.Close()

	var out []domain.Contractor
	for rows.Next() {
		c, err := scanContractor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contractors: %w", err)
	}
	return out, nil
}

func (r *SQLiteContractorRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contractors WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting contractor: %w", err)
	}
	return requireAffected(res, fmt.Sprintf("contractor %d", id))
}

func scanContractor(row rowScanner) (*domain.Contractor, error) {
	var c domain.Contractor
	var createdAt string
	if err := row.Scan(&c.ID, &c.ProjectID, &c.Name, &c.Trade, &c.Phone, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning contractor: %w", err)
	}
	t, err := parseTimestamp(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	c.CreatedAt = t
	return &c, nil
}
