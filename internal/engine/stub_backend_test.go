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

// stubBackend is an in-memory Backend. It does not cascade activity deletes,
// so tests can check that the workspace does.
type stubBackend struct {
	mu         sync.Mutex
	activities map[int64]domain.Activity
	deps       map[int64]domain.Dependency
	meta       schedule.MetaLookup
	nextID     int64
	calls      map[string]int
	fail       map[string]error

	// gate, when set, blocks schedule runs until it is closed or ctx ends.
	gate    chan struct{}
	started chan struct{}
	// onRun simulates the scheduler writing new dates.
	onRun func(b *stubBackend)
	// onMetadata runs once, inside the next FetchMetadata.
	onMetadata func()
}

func newStubBackend() *stubBackend {
	return &stubBackend{
		activities: make(map[int64]domain.Activity),
		deps:       make(map[int64]domain.Dependency),
		nextID:     100,
		calls:      make(map[string]int),
		fail:       make(map[string]error),
		started:    make(chan struct{}, 8),
	}
}

func (b *stubBackend) record(op string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls[op]++
	return b.fail[op]
}

func (b *stubBackend) callCount(op string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[op]
}

func (b *stubBackend) failWith(op string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail[op] = err
}

func (b *stubBackend) seedActivity(a domain.Activity) domain.Activity {
	b.mu.Lock()
	defer b.mu.Unlock()
	if a.ID == 0 {
		b.nextID++
		a.ID = b.nextID
	}
	if a.Status == "" {
		a.Status = domain.ActivityPlanned
	}
	b.activities[a.ID] = a
	return a
}

func (b *stubBackend) seedDependency(d domain.Dependency) domain.Dependency {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	d.ID = b.nextID
	b.deps[d.ID] = d
	return d
}

func (b *stubBackend) setDates(id int64, start, end string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a := b.activities[id]
	s, _ := domain.ParseDate(start)
	e, _ := domain.ParseDate(end)
	d := int(e.Sub(s).Hours() / 24)
	a.StartDate, a.EndDate, a.Duration = &s, &e, &d
	b.activities[id] = a
}

func (b *stubBackend) FetchActivities(_ context.Context, projectID string) ([]domain.Activity, error) {
	if err := b.record("FetchActivities"); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []domain.Activity
	for _, a := range b.activities {
		if a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (b *stubBackend) FetchDependencies(_ context.Context, projectID string) ([]domain.Dependency, error) {
	if err := b.record("FetchDependencies"); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []domain.Dependency
	for _, d := range b.deps {
		if d.ProjectID == projectID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (b *stubBackend) FetchMetadata(context.Context, string) (schedule.MetaLookup, error) {
	if err := b.record("FetchMetadata"); err != nil {
		return schedule.MetaLookup{}, err
	}
	b.mu.Lock()
	hook := b.onMetadata
	b.onMetadata = nil
	b.mu.Unlock()
	if hook != nil {
		hook()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.meta, nil
}

func (b *stubBackend) CreateActivity(_ context.Context, a domain.Activity) (domain.Activity, error) {
	if err := b.record("CreateActivity"); err != nil {
		return domain.Activity{}, err
	}
	a.ID = 0
	return b.seedActivity(a), nil
}

func (b *stubBackend) UpdateActivity(_ context.Context, a domain.Activity) (domain.Activity, error) {
	if err := b.record("UpdateActivity"); err != nil {
		return domain.Activity{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.activities[a.ID]; !ok {
		return domain.Activity{}, fmt.Errorf("activity %d: %w", a.ID, domain.ErrNotFound)
	}
	b.activities[a.ID] = a
	return a, nil
}

func (b *stubBackend) DeleteActivity(_ context.Context, id int64) error {
	if err := b.record("DeleteActivity"); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.activities, id)
	return nil
}

func (b *stubBackend) CreateDependency(_ context.Context, d domain.Dependency) (domain.Dependency, error) {
	if err := b.record("CreateDependency"); err != nil {
		return domain.Dependency{}, err
	}
	d.CreatedAt = time.Now().UTC()
	return b.seedDependency(d), nil
}

func (b *stubBackend) UpdateDependency(_ context.Context, id int64, patch domain.DependencyPatch) (domain.Dependency, error) {
	if err := b.record("UpdateDependency"); err != nil {
		return domain.Dependency{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	cur, ok := b.deps[id]
	if !ok {
		return domain.Dependency{}, fmt.Errorf("dependency %d: %w", id, domain.ErrNotFound)
	}
	next, err := patch.Apply(cur)
	if err != nil {
		return domain.Dependency{}, err
	}
	b.deps[id] = next
	return next, nil
}

func (b *stubBackend) DeleteDependency(_ context.Context, id int64) error {
	if err := b.record("DeleteDependency"); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.deps, id)
	return nil
}

func (b *stubBackend) RunAutoSchedule(ctx context.Context, projectID string) error {
	return b.run(ctx, "RunAutoSchedule")
}

func (b *stubBackend) RunManualSchedule(ctx context.Context, projectID string) error {
	return b.run(ctx, "RunManualSchedule")
}

func (b *stubBackend) run(ctx context.Context, op string) error {
	err := b.record(op)
	select {
	case b.started <- struct{}{}:
	default:
	}
	if b.gate != nil {
		select {
		case <-b.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err != nil {
		return err
	}
	if b.onRun != nil {
		b.onRun(b)
	}
	return nil
}
