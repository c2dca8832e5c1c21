package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/siteplan/internal/db"
	"github.com/alexanderramin/siteplan/internal/domain"
)

// SQLiteActivityRepo implements ActivityRepo using a SQLite database.
type SQLiteActivityRepo struct {
	db db.DBTX
}

func NewSQLiteActivityRepo(conn db.DBTX) *SQLiteActivityRepo {
	return &SQLiteActivityRepo{db: conn}
}

const activityColumns = `id, project_id, name, start_date, end_date, duration, contractor_id, package_id,
	status, progress, comments, manual_start, manual_end, created_at, updated_at`

// Create inserts the activity and assigns its id.
func (r *SQLiteActivityRepo) Create(ctx context.Context, a *domain.Activity) error {
	query := `INSERT INTO activities (project_id, name, start_date, end_date, duration, contractor_id, package_id,
		status, progress, comments, manual_start, manual_end, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		a.ProjectID,
		a.Name,
		nullableTimeToString(a.StartDate, dateLayout),
		nullableTimeToString(a.EndDate, dateLayout),
		nullableIntToValue(a.Duration),
		nullableInt64ToValue(a.ContractorID),
		nullableInt64ToValue(a.PackageID),
		string(a.Status),
		a.Progress,
		a.Comments,
		nullableTimeToString(a.ManualStart, dateLayout),
		nullableTimeToString(a.ManualEnd, dateLayout),
		a.CreatedAt.Format(time.RFC3339),
		a.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("activity %q references a missing project, contractor or package: %w", a.Name, ErrNotFound)
		}
		return fmt.Errorf("inserting activity: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading activity id: %w", err)
	}
	a.ID = id
	return nil
}

func (r *SQLiteActivityRepo) GetByID(ctx context.Context, id int64) (*domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = ?`
	a, err := scanActivity(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("activity %d: %w", id, ErrNotFound)
	}
	return a, err
}

func (r *SQLiteActivityRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE project_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	defer rows.Close()

	var out []*domain.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activities: %w", err)
	}
	return out, nil
}

func (r *SQLiteActivityRepo) Update(ctx context.Context, a *domain.Activity) error {
	query := `UPDATE activities SET name = ?, start_date = ?, end_date = ?, duration = ?, contractor_id = ?, package_id = ?,
		status = ?, progress = ?, comments = ?, manual_start = ?, manual_end = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		a.Name,
		nullableTimeToString(a.StartDate, dateLayout),
		nullableTimeToString(a.EndDate, dateLayout),
		nullableIntToValue(a.Duration),
		nullableInt64ToValue(a.ContractorID),
		nullableInt64ToValue(a.PackageID),
		string(a.Status),
		a.Progress,
		a.Comments,
		nullableTimeToString(a.ManualStart, dateLayout),
		nullableTimeToString(a.ManualEnd, dateLayout),
		a.UpdatedAt.Format(time.RFC3339),
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("updating activity: %w", err)
	}
	return requireAffected(res, fmt.Sprintf("activity %d", a.ID))
}

func (r *SQLiteActivityRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting activity: %w", err)
	}
	return requireAffected(res, fmt.Sprintf("activity %d", id))
}

// scanActivity returns sql.ErrNoRows unwrapped so callers can name the id.
func scanActivity(row rowScanner) (*domain.Activity, error) {
	var a domain.Activity
	var start, end, manualStart, manualEnd sql.NullString
	var duration, contractorID, packageID sql.NullInt64
	var statusStr, createdAtStr, updatedAtStr string

	err := row.Scan(
		&a.ID, &a.ProjectID, &a.Name,
		&start, &end, &duration, &contractorID, &packageID,
		&statusStr, &a.Progress, &a.Comments,
		&manualStart, &manualEnd,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning activity: %w", err)
	}

	a.StartDate = parseNullableDate(start)
	a.EndDate = parseNullableDate(end)
	a.ManualStart = parseNullableDate(manualStart)
	a.ManualEnd = parseNullableDate(manualEnd)
	a.Duration = nullIntPtr(duration)
	a.ContractorID = nullInt64Ptr(contractorID)
	a.PackageID = nullInt64Ptr(packageID)
	a.Status = domain.ActivityStatus(statusStr)

	var parseErr error
	a.CreatedAt, parseErr = parseTimestamp(createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	a.UpdatedAt, parseErr = parseTimestamp(updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &a, nil
}
