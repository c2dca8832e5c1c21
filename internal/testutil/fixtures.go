package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/google/uuid"
)

var testShortIDCounter atomic.Int64

// Date parses a YYYY-MM-DD literal and panics on malformed input.
func Date(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// DatePtr is Date returning a pointer.
func DatePtr(s string) *time.Time {
	t := Date(s)
	return &t
}

// Project options
type ProjectOption func(*domain.Project)

func WithProjectStart(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.StartDate = d
	}
}

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithShortID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ShortID = id
	}
}

func WithScheduleMode(m domain.ScheduleMode) ProjectOption {
	return func(p *domain.Project) {
		p.ScheduleMode = m
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Project{
		ID:           uuid.New().String(),
		ShortID:      defaultShortID(name),
		Name:         name,
		Location:     "test site",
		StartDate:    Date("2025-01-06"),
		Status:       domain.ProjectActive,
		ScheduleMode: domain.ScheduleManual,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Activity options
type ActivityOption func(*domain.Activity)

// WithDates sets start and end and derives the duration.
func WithDates(start, end string) ActivityOption {
	return func(a *domain.Activity) {
		s, e := Date(start), Date(end)
		d := int(e.Sub(s).Hours() / 24)
		a.StartDate, a.EndDate, a.Duration = &s, &e, &d
	}
}

func WithDuration(days int) ActivityOption {
	return func(a *domain.Activity) {
		a.Duration = &days
	}
}

func WithManualDates(start, end string) ActivityOption {
	return func(a *domain.Activity) {
		a.ManualStart = DatePtr(start)
		a.ManualEnd = DatePtr(end)
	}
}

func WithContractor(id int64) ActivityOption {
	return func(a *domain.Activity) {
		a.ContractorID = &id
	}
}

func WithPackage(id int64) ActivityOption {
	return func(a *domain.Activity) {
		a.PackageID = &id
	}
}

func WithProgress(pct float64) ActivityOption {
	return func(a *domain.Activity) {
		a.Progress = pct
	}
}

func WithComments(c string) ActivityOption {
	return func(a *domain.Activity) {
		a.Comments = c
	}
}

func NewTestActivity(projectID, name string, opts ...ActivityOption) *domain.Activity {
	now := time.Now().UTC().Truncate(time.Second)
	a := &domain.Activity{
		ProjectID: projectID,
		Name:      name,
		Status:    domain.ActivityPlanned,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Dependency options
type DependencyOption func(*domain.Dependency)

func WithType(t domain.DependencyType) DependencyOption {
	return func(d *domain.Dependency) {
		d.Type = t
	}
}

func WithLag(days int) DependencyOption {
	return func(d *domain.Dependency) {
		d.Lag = days
	}
}

func NewTestDependency(projectID string, fromID, toID int64, opts ...DependencyOption) *domain.Dependency {
	d := &domain.Dependency{
		ProjectID: projectID,
		FromID:    fromID,
		ToID:      toID,
		Type:      domain.FinishToStart,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func NewTestContractor(projectID, name string) *domain.Contractor {
	return &domain.Contractor{
		ProjectID: projectID,
		Name:      name,
		Trade:     "general",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func NewTestPackage(projectID, name string, contractorID *int64) *domain.WorkPackage {
	return &domain.WorkPackage{
		ProjectID:    projectID,
		Name:         name,
		ContractorID: contractorID,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

func NewTestDailyLog(activityID int64, date string, pct float64) *domain.DailyLog {
	return &domain.DailyLog{
		ID:          uuid.New().String(),
		ActivityID:  activityID,
		Date:        Date(date),
		ProgressPct: pct,
		Workers:     4,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
}
