package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/schedule"
)

// Workspace is the local view of one project: its activities, dependencies
// and the graph assembled from them. Mutations go to the backend first and
// are applied locally only when the backend accepts them. All methods are
// serialized by one mutex.
type Workspace struct {
	projectID string
	backend   Backend
	recorder  Recorder

	mu           sync.Mutex
	activities   map[int64]domain.Activity
	dependencies map[int64]domain.Dependency
	meta         schedule.MetaLookup
	graph        schedule.Graph
	generation   uint64
	dirty        bool
	closed       bool
}

func newWorkspace(projectID string, backend Backend, recorder Recorder) *Workspace {
	return &Workspace{
		projectID:    projectID,
		backend:      backend,
		recorder:     recorder,
		activities:   make(map[int64]domain.Activity),
		dependencies: make(map[int64]domain.Dependency),
	}
}

func (w *Workspace) ProjectID() string { return w.projectID }

// snapshot is a complete fetched copy of a project.
type snapshot struct {
	activities   []domain.Activity
	dependencies []domain.Dependency
	meta         schedule.MetaLookup
}

// fetch reads the whole project from the backend without touching local state.
func fetch(ctx context.Context, backend Backend, projectID string) (*snapshot, error) {
	acts, err := backend.FetchActivities(ctx, projectID)
	if err != nil {
		return nil, domain.NewExternalOperationError("fetch activities", projectID, err)
	}
	deps, err := backend.FetchDependencies(ctx, projectID)
	if err != nil {
		return nil, domain.NewExternalOperationError("fetch dependencies", projectID, err)
	}
	meta, err := backend.FetchMetadata(ctx, projectID)
	if err != nil {
		return nil, domain.NewExternalOperationError("fetch metadata", projectID, err)
	}
	return &snapshot{activities: acts, dependencies: deps, meta: meta}, nil
}

// maxOptimisticRefreshes bounds how often a refresh retries after local state
// moved underneath it before it fetches while holding the lock.
const maxOptimisticRefreshes = 3

// Reload replaces local state with a fresh fetch. Nothing changes on failure.
func (w *Workspace) Reload(ctx context.Context) error {
	return w.refresh(ctx)
}

// refresh fetches the project and installs the snapshot. A snapshot fetched
// while the generation moved is refetched instead of being applied over the
// newer state. Only a closed workspace discards the result.
func (w *Workspace) refresh(ctx context.Context) error {
	for attempt := 0; attempt < maxOptimisticRefreshes; attempt++ {
		gen, closed := w.state()
		if closed {
			return fmt.Errorf("project %s: %w", w.projectID, domain.ErrStaleResult)
		}
		snap, err := fetch(ctx, w.backend, w.projectID)
		if err != nil {
			w.markDirty()
			return err
		}
		applied, err := w.apply(gen, snap)
		if err != nil || applied {
			return err
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return fmt.Errorf("project %s: %w", w.projectID, domain.ErrStaleResult)
	}
	snap, err := fetch(ctx, w.backend, w.projectID)
	if err != nil {
		w.dirty = true
		return err
	}
	w.installLocked(snap)
	return nil
}

func (w *Workspace) state() (uint64, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.generation, w.closed
}

// apply installs snap if the workspace is still at generation gen. It reports
// false when the generation moved and the caller must fetch again.
func (w *Workspace) apply(gen uint64, snap *snapshot) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return false, fmt.Errorf("project %s: %w", w.projectID, domain.ErrStaleResult)
	}
	if w.generation != gen {
		return false, nil
	}
	w.installLocked(snap)
	return true, nil
}

func (w *Workspace) installLocked(snap *snapshot) {
	w.generation++
	w.dirty = false
	w.replaceLocked(snap)
}

// markDirty records that the backend holds changes the local copy has not
// seen, so the next Open refetches.
func (w *Workspace) markDirty() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dirty = true
}

func (w *Workspace) isDirty() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dirty
}

func (w *Workspace) close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	w.generation++
}

func (w *Workspace) replaceLocked(snap *snapshot) {
	w.activities = make(map[int64]domain.Activity, len(snap.activities))
	for _, a := range snap.activities {
		a.Normalize()
		w.activities[a.ID] = a
	}
	w.dependencies = make(map[int64]domain.Dependency, len(snap.dependencies))
	for _, d := range snap.dependencies {
		w.dependencies[d.ID] = d
	}
	w.meta = snap.meta
	w.rebuildLocked()
}

// changedLocked records a local mutation so an in-progress refresh does not
// overwrite it with an older snapshot.
func (w *Workspace) changedLocked() {
	w.generation++
	w.rebuildLocked()
}

func (w *Workspace) rebuildLocked() {
	w.graph = schedule.BuildGraph(w.activityListLocked(), w.dependencyListLocked(), schedule.WithMetadata(w.meta))
	w.recorder.GraphBuilt(&w.graph)
}

func (w *Workspace) activityListLocked() []domain.Activity {
	out := make([]domain.Activity, 0, len(w.activities))
	for _, a := range w.activities {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (w *Workspace) dependencyListLocked() []domain.Dependency {
	out := make([]domain.Dependency, 0, len(w.dependencies))
	for _, d := range w.dependencies {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Activities returns the local activities in ascending id order.
func (w *Workspace) Activities() []domain.Activity {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.activityListLocked()
}

// Dependencies returns the local dependencies in ascending id order.
func (w *Workspace) Dependencies() []domain.Dependency {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dependencyListLocked()
}

func (w *Workspace) Activity(id int64) (domain.Activity, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	a, ok := w.activities[id]
	if !ok {
		return domain.Activity{}, fmt.Errorf("activity %d: %w", id, domain.ErrNotFound)
	}
	return a, nil
}

// Graph returns the graph assembled after the last accepted change.
func (w *Workspace) Graph() schedule.Graph {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.graph
}

// DetailedGraph assembles a graph whose nodes also carry the type and lag of
// each predecessor link.
func (w *Workspace) DetailedGraph() schedule.Graph {
	w.mu.Lock()
	defer w.mu.Unlock()
	return schedule.BuildGraph(w.activityListLocked(), w.dependencyListLocked(),
		schedule.WithMetadata(w.meta), schedule.WithRelations())
}

// DependenciesFor lists the dependencies on one side of an activity, ordered by id.
func (w *Workspace) DependenciesFor(activityID int64, dir domain.Direction) []domain.Dependency {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []domain.Dependency
	for _, d := range w.dependencyListLocked() {
		switch dir {
		case domain.DirectionPredecessors:
			if d.ToID == activityID {
				out = append(out, d)
			}
		case domain.DirectionSuccessors:
			if d.FromID == activityID {
				out = append(out, d)
			}
		}
	}
	return out
}

// AddActivity derives the missing member of the date triple, validates and
// creates the activity.
func (w *Workspace) AddActivity(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	a.ProjectID = w.projectID
	a.Normalize()
	schedule.Complete(schedule.TripleOf(&a)).ApplyTo(&a)
	if a.Status == "" {
		a.Status = domain.ActivityPlanned
	}
	if err := a.Validate(); err != nil {
		return domain.Activity{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	created, err := w.backend.CreateActivity(ctx, a)
	if err != nil {
		return domain.Activity{}, domain.NewExternalOperationError("create activity", w.projectID, err)
	}
	created.Normalize()
	w.activities[created.ID] = created
	w.changedLocked()
	return created, nil
}

// EditActivity reconciles edits against the local copy of the activity and
// saves the result. Saved dates become the manual fallback dates.
func (w *Workspace) EditActivity(ctx context.Context, id int64, edits ...schedule.Edit) (domain.Activity, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	a, ok := w.activities[id]
	if !ok {
		return domain.Activity{}, fmt.Errorf("activity %d: %w", id, domain.ErrNotFound)
	}
	triple := schedule.TripleOf(&a)
	for _, e := range edits {
		triple = schedule.Reconcile(triple, e)
	}
	triple.ApplyTo(&a)
	if err := a.Validate(); err != nil {
		return domain.Activity{}, err
	}
	a.SyncManualDates()
	a.UpdatedAt = time.Now().UTC()

	return w.saveActivityLocked(ctx, a)
}

// UpdateActivity saves non-date fields such as name or comments.
func (w *Workspace) UpdateActivity(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	cur, ok := w.activities[a.ID]
	if !ok {
		return domain.Activity{}, fmt.Errorf("activity %d: %w", a.ID, domain.ErrNotFound)
	}
	a.ProjectID = cur.ProjectID
	a.Normalize()
	if err := a.Validate(); err != nil {
		return domain.Activity{}, err
	}
	a.SyncManualDates()
	a.UpdatedAt = time.Now().UTC()
	return w.saveActivityLocked(ctx, a)
}

func (w *Workspace) saveActivityLocked(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	saved, err := w.backend.UpdateActivity(ctx, a)
	if err != nil {
		return domain.Activity{}, domain.NewExternalOperationError("update activity", w.projectID, err)
	}
	saved.Normalize()
	w.activities[saved.ID] = saved
	w.changedLocked()
	return saved, nil
}

// DeleteActivity removes the activity and every local dependency touching it,
// whether or not the backend cascades. It returns the removed dependency ids.
func (w *Workspace) DeleteActivity(ctx context.Context, id int64) ([]int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.activities[id]; !ok {
		return nil, fmt.Errorf("activity %d: %w", id, domain.ErrNotFound)
	}
	if err := w.backend.DeleteActivity(ctx, id); err != nil {
		return nil, domain.NewExternalOperationError("delete activity", w.projectID, err)
	}
	delete(w.activities, id)

	var removed []int64
	for depID, d := range w.dependencies {
		if d.References(id) {
			removed = append(removed, depID)
			delete(w.dependencies, depID)
		}
	}
	sort.Slice(removed, func(i, j int) bool { return removed[i] < removed[j] })
	w.changedLocked()
	return removed, nil
}

// AddDependency validates the edge against local state before it reaches the
// backend. A rejected edge changes nothing.
func (w *Workspace) AddDependency(ctx context.Context, fromID, toID int64, depType domain.DependencyType, lag int) (domain.Dependency, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := domain.ValidateDependency(w.projectID, fromID, toID, depType,
		w.activityPtrLocked(fromID), w.activityPtrLocked(toID)); err != nil {
		return domain.Dependency{}, err
	}
	for _, d := range w.dependencies {
		if d.FromID == fromID && d.ToID == toID && d.Type == depType {
			return domain.Dependency{}, fmt.Errorf("%s dependency %d -> %d already exists as %d: %w",
				depType, fromID, toID, d.ID, domain.ErrInvalidDependency)
		}
	}

	created, err := w.backend.CreateDependency(ctx, domain.Dependency{
		ProjectID: w.projectID,
		FromID:    fromID,
		ToID:      toID,
		Type:      depType,
		Lag:       lag,
	})
	if err != nil {
		return domain.Dependency{}, domain.NewExternalOperationError("create dependency", w.projectID, err)
	}
	w.dependencies[created.ID] = created
	w.changedLocked()
	return created, nil
}

func (w *Workspace) activityPtrLocked(id int64) *domain.Activity {
	a, ok := w.activities[id]
	if !ok {
		return nil
	}
	return &a
}

// UpdateDependency changes type and lag. Endpoints are immutable.
func (w *Workspace) UpdateDependency(ctx context.Context, id int64, patch domain.DependencyPatch) (domain.Dependency, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	cur, ok := w.dependencies[id]
	if !ok {
		return domain.Dependency{}, fmt.Errorf("dependency %d: %w", id, domain.ErrNotFound)
	}
	next, err := patch.Apply(cur)
	if err != nil {
		return domain.Dependency{}, err
	}
	if patch.Empty() {
		return cur, nil
	}

	saved, err := w.backend.UpdateDependency(ctx, id, patch)
	if err != nil {
		return domain.Dependency{}, domain.NewExternalOperationError("update dependency", w.projectID, err)
	}
	// The backend owns persistence, but endpoints never move.
	saved.FromID, saved.ToID, saved.ProjectID = next.FromID, next.ToID, next.ProjectID
	w.dependencies[id] = saved
	w.changedLocked()
	return saved, nil
}

// RemoveDependency deletes one edge. A missing id is reported as ErrNotFound.
func (w *Workspace) RemoveDependency(ctx context.Context, id int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.dependencies[id]; !ok {
		return fmt.Errorf("dependency %d: %w", id, domain.ErrNotFound)
	}
	if err := w.backend.DeleteDependency(ctx, id); err != nil {
		return domain.NewExternalOperationError("delete dependency", w.projectID, err)
	}
	delete(w.dependencies, id)
	w.changedLocked()
	return nil
}
