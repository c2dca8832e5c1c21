package engine

import (
	"context"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/schedule"
)

// Backend is the authoritative store and scheduler the engine drives.
// Schedule runs are fire-and-refresh: only success or failure is consumed.
type Backend interface {
	FetchActivities(ctx context.Context, projectID string) ([]domain.Activity, error)
	FetchDependencies(ctx context.Context, projectID string) ([]domain.Dependency, error)
	FetchMetadata(ctx context.Context, projectID string) (schedule.MetaLookup, error)

	CreateActivity(ctx context.Context, a domain.Activity) (domain.Activity, error)
	UpdateActivity(ctx context.Context, a domain.Activity) (domain.Activity, error)
	DeleteActivity(ctx context.Context, id int64) error

	CreateDependency(ctx context.Context, d domain.Dependency) (domain.Dependency, error)
	UpdateDependency(ctx context.Context, id int64, patch domain.DependencyPatch) (domain.Dependency, error)
	DeleteDependency(ctx context.Context, id int64) error

	RunAutoSchedule(ctx context.Context, projectID string) error
	RunManualSchedule(ctx context.Context, projectID string) error
}

// Recorder receives engine telemetry. Implementations must be safe for
// concurrent use.
type Recorder interface {
	ScheduleRun(mode domain.ScheduleMode, outcome string, elapsed time.Duration)
	GraphBuilt(g *schedule.Graph)
}

// Schedule run outcomes reported to a Recorder.
const (
	OutcomeApplied  = "applied"
	OutcomeFailed   = "failed"
	OutcomeRejected = "rejected"
	OutcomeStale    = "stale"
)

type noopRecorder struct{}

func (noopRecorder) ScheduleRun(domain.ScheduleMode, string, time.Duration) {}
func (noopRecorder) GraphBuilt(*schedule.Graph)                            {}
