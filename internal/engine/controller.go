package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
)

// Controller owns the open project workspaces and drives schedule runs.
// At most one run per project is in flight; a run whose project is closed
// or reopened before it resolves is discarded.
type Controller struct {
	backend  Backend
	logger   *slog.Logger
	recorder Recorder

	mu         sync.Mutex
	workspaces map[string]*Workspace
	inFlight   map[string]bool
}

type Option func(*Controller)

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(c *Controller) {
		if r != nil {
			c.recorder = r
		}
	}
}

func NewController(backend Backend, opts ...Option) *Controller {
	c := &Controller{
		backend:    backend,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		recorder:   noopRecorder{},
		workspaces: make(map[string]*Workspace),
		inFlight:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open fetches a project and returns its workspace. An already open project
// returns the existing workspace, refetched first if a committed change never
// reached it.
func (c *Controller) Open(ctx context.Context, projectID string) (*Workspace, error) {
	if ws, ok := c.Workspace(projectID); ok {
		if ws.isDirty() {
			if err := ws.refresh(ctx); err != nil {
				return nil, err
			}
		}
		return ws, nil
	}

	snap, err := fetch(ctx, c.backend, projectID)
	if err != nil {
		return nil, err
	}
	ws := newWorkspace(projectID, c.backend, c.recorder)
	ws.replaceLocked(snap)

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.workspaces[projectID]; ok {
		return existing, nil
	}
	c.workspaces[projectID] = ws
	c.logger.Debug("project opened", "project_id", projectID, "activities", len(snap.activities))
	return ws, nil
}

func (c *Controller) Workspace(projectID string) (*Workspace, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ws, ok := c.workspaces[projectID]
	return ws, ok
}

// Close tears down a project's workspace. A pending schedule response for it
// is discarded when it arrives.
func (c *Controller) Close(projectID string) {
	c.mu.Lock()
	ws, ok := c.workspaces[projectID]
	delete(c.workspaces, projectID)
	c.mu.Unlock()
	if ok {
		ws.close()
		c.logger.Debug("project closed", "project_id", projectID)
	}
}

// InFlight reports whether a schedule run for the project has not resolved.
func (c *Controller) InFlight(projectID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight[projectID]
}

// RequestAutoSchedule asks the backend to recompute every activity's dates
// from its dependencies, then refreshes the workspace from the result.
func (c *Controller) RequestAutoSchedule(ctx context.Context, projectID string) error {
	return c.run(ctx, projectID, domain.ScheduleAuto, c.backend.RunAutoSchedule)
}

// RequestManualSchedule asks the backend to commit the user-fixed dates, then
// refreshes the workspace from the result.
func (c *Controller) RequestManualSchedule(ctx context.Context, projectID string) error {
	return c.run(ctx, projectID, domain.ScheduleManual, c.backend.RunManualSchedule)
}

func (c *Controller) run(ctx context.Context, projectID string, mode domain.ScheduleMode, call func(context.Context, string) error) (err error) {
	startedAt := time.Now()
	outcome := OutcomeApplied
	defer func() {
		c.recorder.ScheduleRun(mode, outcome, time.Since(startedAt))
		attrs := []any{"project_id", projectID, "mode", string(mode), "outcome", outcome,
			"duration_ms", time.Since(startedAt).Milliseconds()}
		if err != nil {
			c.logger.Warn("schedule request", append(attrs, "error", err.Error())...)
			return
		}
		c.logger.Info("schedule request", attrs...)
	}()

	ws, ok := c.Workspace(projectID)
	if !ok {
		outcome = OutcomeRejected
		return fmt.Errorf("project %s is not open: %w", projectID, domain.ErrNotFound)
	}
	if !c.acquire(projectID) {
		outcome = OutcomeRejected
		return fmt.Errorf("%s schedule for project %s: %w", mode, projectID, domain.ErrScheduleInFlight)
	}
	defer c.release(projectID)

	if err := call(ctx, projectID); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			// The backend may still have committed.
			ws.markDirty()
			outcome = OutcomeStale
			return fmt.Errorf("%s schedule for project %s: %w: %w", mode, projectID, domain.ErrStaleResult, ctxErr)
		}
		outcome = OutcomeFailed
		return domain.NewExternalOperationError(fmt.Sprintf("run %s schedule", mode), projectID, err)
	}

	// The backend has committed. The refresh outlives the caller so an open
	// workspace does not keep dates from before the run.
	if err := ws.refresh(context.WithoutCancel(ctx)); err != nil {
		if errors.Is(err, domain.ErrStaleResult) {
			outcome = OutcomeStale
		} else {
			outcome = OutcomeFailed
		}
		return err
	}
	return nil
}

func (c *Controller) acquire(projectID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight[projectID] {
		return false
	}
	c.inFlight[projectID] = true
	return true
}

func (c *Controller) release(projectID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, projectID)
}
