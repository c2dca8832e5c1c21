package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/siteplan/internal/db"
	"github.com/alexanderramin/siteplan/internal/domain"
)

// SQLiteDailyLogRepo implements DailyLogRepo using a SQLite database.
type SQLiteDailyLogRepo struct {
	db db.DBTX
}

// NewSQLiteDailyLogRepo creates a new SQLiteDailyLogRepo.
func NewSQLiteDailyLogRepo(conn db.DBTX) *SQLiteDailyLogRepo {
	return &SQLiteDailyLogRepo{db: conn}
}

func (r *SQLiteDailyLogRepo) Create(ctx context.Context, l *domain.DailyLog) error {
	query := `INSERT INTO daily_logs (id, activity_id, log_date, progress_pct, workers, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		l.ID,
		l.ActivityID,
		l.Date.Format(dateLayout),
		l.ProgressPct,
		l.Workers,
		l.Note,
		l.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("daily log for activity %d: %w", l.ActivityID, ErrNotFound)
		}
		return fmt.Errorf("inserting daily log: %w", err)
	}
	return nil
}

func (r *SQLiteDailyLogRepo) GetByID(ctx context.Context, id string) (*domain.DailyLog, error) {
	query := `SELECT id, activity_id, log_date, progress_pct, workers, note, created_at
		FROM daily_logs WHERE id = ?`
	l, err := scanDailyLog(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("daily log: %w", ErrNotFound)
	}
	return l, err
}

func (r *SQLiteDailyLogRepo) ListByActivity(ctx context.Context, activityID int64) ([]*domain.DailyLog, error) {
	query := `SELECT id, activity_id, log_date, progress_pct, workers, note, created_at
		FROM daily_logs WHERE activity_id = ? ORDER BY log_date, created_at`
	rows, err := r.db.QueryContext(ctx, query, activityID)
	if err != nil {
		return nil, fmt.Errorf("listing daily logs by activity: %w", err)
	}
	defer rows.Close()
	return scanDailyLogs(rows)
}

func (r *SQLiteDailyLogRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.DailyLog, error) {
	query := `SELECT l.id, l.activity_id, l.log_date, l.progress_pct, l.workers, l.note, l.created_at
		FROM daily_logs l
		JOIN activities a ON l.activity_id = a.id
		WHERE a.project_id = ?
		ORDER BY l.log_date DESC, l.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing daily logs by project: %w", err)
	}
	defer rows.Close()
	return scanDailyLogs(rows)
}

// Latest returns the most recent log by date, breaking ties by creation time.
func (r *SQLiteDailyLogRepo) Latest(ctx context.Context, activityID int64) (*domain.DailyLog, error) {
	query := `SELECT id, activity_id, log_date, progress_pct, workers, note, created_at
		FROM daily_logs WHERE activity_id = ?
		ORDER BY log_date DESC, created_at DESC LIMIT 1`
	l, err := scanDailyLog(r.db.QueryRowContext(ctx, query, activityID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("daily log for activity %d: %w", activityID, ErrNotFound)
	}
	return l, err
}

func (r *SQLiteDailyLogRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM daily_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting daily log: %w", err)
	}
	return requireAffected(res, "daily log "+id)
}

func scanDailyLog(row rowScanner) (*domain.DailyLog, error) {
	var l domain.DailyLog
	var dateStr, createdAtStr string
	if err := row.Scan(&l.ID, &l.ActivityID, &dateStr, &l.ProgressPct, &l.Workers, &l.Note, &createdAtStr); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning daily log: %w", err)
	}
	var err error
	if l.Date, err = domain.ParseDate(dateStr); err != nil {
		return nil, fmt.Errorf("parsing log_date: %w", err)
	}
	if l.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &l, nil
}

func scanDailyLogs(rows *sql.Rows) ([]*domain.DailyLog, error) {
	var logs []*domain.DailyLog
	for rows.Next() {
		l, err := scanDailyLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating daily logs: %w", err)
	}
	return logs, nil
}
