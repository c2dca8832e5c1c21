package domain

import (
	"fmt"
	"strings"
	"time"
)

type Activity struct {
	ID           int64
	ProjectID    string
	Name         string
	StartDate    *time.Time
	EndDate      *time.Time
	Duration     *int // days
	ContractorID *int64
	PackageID    *int64
	Status       ActivityStatus
	Progress     float64 // 0-100, derived from daily logs
	Comments     string

	// ManualStart and ManualEnd are the user-fixed dates restored by a
	// manual schedule run.
	ManualStart *time.Time
	ManualEnd   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasDates reports whether both start and end are set to real calendar dates.
func (a *Activity) HasDates() bool {
	return validDate(a.StartDate) && validDate(a.EndDate)
}

func validDate(t *time.Time) bool {
	return t != nil && !t.IsZero() && t.Year() >= 1 && t.Year() <= 9999
}

// Normalize truncates all dates to calendar-date granularity.
func (a *Activity) Normalize() {
	a.StartDate = NormalizeDatePtr(a.StartDate)
	a.EndDate = NormalizeDatePtr(a.EndDate)
	a.ManualStart = NormalizeDatePtr(a.ManualStart)
	a.ManualEnd = NormalizeDatePtr(a.ManualEnd)
}

// Validate enforces the invariants required before an activity is persisted.
// Negative durations are accepted while editing but rejected here.
func (a *Activity) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("activity name is required: %w", ErrValidation)
	}
	if a.Duration != nil && *a.Duration < 0 {
		return fmt.Errorf("activity %q has negative duration %d: %w", a.Name, *a.Duration, ErrValidation)
	}
	if a.StartDate != nil && a.EndDate != nil && a.EndDate.Before(*a.StartDate) {
		return fmt.Errorf("activity %q ends %s before it starts %s: %w",
			a.Name, a.EndDate.Format(DateLayout), a.StartDate.Format(DateLayout), ErrValidation)
	}
	if a.StartDate != nil && a.EndDate != nil && a.Duration != nil {
		want := a.StartDate.AddDate(0, 0, *a.Duration)
		if !want.Equal(*a.EndDate) {
			return fmt.Errorf("activity %q: end %s does not equal start %s + %d days: %w",
				a.Name, a.EndDate.Format(DateLayout), a.StartDate.Format(DateLayout), *a.Duration, ErrValidation)
		}
	}
	if a.Progress < 0 || a.Progress > 100 {
		return fmt.Errorf("activity %q progress %.1f outside 0-100: %w", a.Name, a.Progress, ErrValidation)
	}
	return nil
}

// SyncManualDates copies the current dates into the manual fallback fields.
func (a *Activity) SyncManualDates() {
	a.ManualStart = copyTime(a.StartDate)
	a.ManualEnd = copyTime(a.EndDate)
}

// ApplyProgress records a logged progress percentage and advances the status.
func (a *Activity) ApplyProgress(pct float64, now time.Time) {
	switch {
	case pct < 0:
		pct = 0
	case pct > 100:
		pct = 100
	}
	a.Progress = pct
	switch {
	case pct >= 100:
		a.Status = ActivityDone
	case pct > 0:
		a.Status = ActivityInProgress
	default:
		a.Status = ActivityPlanned
	}
	a.UpdatedAt = now
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
