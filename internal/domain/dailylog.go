package domain

import "time"

// DailyLog is a dated site report for one activity.
type DailyLog struct {
	ID          string
	ActivityID  int64
	Date        time.Time
	ProgressPct float64
	Workers     int
	Note        string
	CreatedAt   time.Time
}
