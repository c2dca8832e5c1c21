package schedule

import (
	"sort"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
)

// Window is the computed placement of one activity.
type Window struct {
	Start      time.Time
	End        time.Time
	Duration   int
	TotalFloat int // days the activity can slip without moving the project finish
	Critical   bool
}

// Plan is the result of a forward and backward pass over a project.
type Plan struct {
	Windows      map[int64]Window
	Order        []int64 // topological order, ties broken by ascending id
	CriticalPath []int64
	Finish       time.Time
}

const secondsPerDay = 24 * 60 * 60

func dayNum(t time.Time) int {
	return int(domain.NormalizeDate(t).Unix() / secondsPerDay)
}

func fromDayNum(n int) time.Time {
	return time.Unix(int64(n)*secondsPerDay, 0).UTC()
}

// effectiveDuration prefers the stored duration, then the span between the
// current dates, then zero. Negative values are clamped.
func effectiveDuration(a *domain.Activity) int {
	var span *int
	if a.HasDates() {
		d := CalculateDuration(*a.StartDate, *a.EndDate)
		span = &d
	}
	return max(domain.IntFromPtrWithDefault(0, a.Duration, span), 0)
}

// baselineStart is the earliest start an activity accepts before any
// dependency pushes it: the user-fixed date, then the current date, then the
// project start.
func baselineStart(a *domain.Activity, projectStart time.Time) int {
	switch {
	case a.ManualStart != nil && !a.ManualStart.IsZero():
		return dayNum(*a.ManualStart)
	case a.StartDate != nil && !a.StartDate.IsZero():
		return dayNum(*a.StartDate)
	default:
		return dayNum(projectStart)
	}
}

// ComputePlan runs a dependency-respecting forward pass followed by a
// backward pass. Each successor's earliest start honors every predecessor:
//
//	FS: pred.finish + lag <= succ.start
//	SS: pred.start  + lag <= succ.start
//	FF: pred.finish + lag <= succ.finish
//	SF: pred.start  + lag <= succ.finish
//
// Dependencies with an endpoint outside activities are ignored. Cyclic
// dependencies yield a *domain.CycleError and no plan.
func ComputePlan(activities []domain.Activity, deps []domain.Dependency, projectStart time.Time) (*Plan, error) {
	byID := make(map[int64]*domain.Activity, len(activities))
	ids := make([]int64, 0, len(activities))
	for i := range activities {
		a := &activities[i]
		if _, dup := byID[a.ID]; dup {
			continue
		}
		byID[a.ID] = a
		ids = append(ids, a.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	incoming := make(map[int64][]domain.Dependency)
	outgoing := make(map[int64][]domain.Dependency)
	indegree := make(map[int64]int, len(ids))
	for _, d := range deps {
		if byID[d.FromID] == nil || byID[d.ToID] == nil {
			continue
		}
		incoming[d.ToID] = append(incoming[d.ToID], d)
		outgoing[d.FromID] = append(outgoing[d.FromID], d)
		indegree[d.ToID]++
	}

	order, err := topoOrder(ids, outgoing, indegree)
	if err != nil {
		return nil, err
	}

	dur := make(map[int64]int, len(ids))
	es := make(map[int64]int, len(ids))
	ef := make(map[int64]int, len(ids))

	for _, id := range order {
		a := byID[id]
		d := effectiveDuration(a)
		dur[id] = d
		start := baselineStart(a, projectStart)
		for _, dep := range incoming[id] {
			anchor := es[dep.FromID]
			if dep.Type.FromPredecessorFinish() {
				anchor = ef[dep.FromID]
			}
			bound := anchor + dep.Lag
			if !dep.Type.DrivesStart() {
				bound -= d
			}
			if bound > start {
				start = bound
			}
		}
		es[id] = start
		ef[id] = start + d
	}

	finish := 0
	for i, id := range order {
		if i == 0 || ef[id] > finish {
			finish = ef[id]
		}
	}

	lf := make(map[int64]int, len(ids))
	ls := make(map[int64]int, len(ids))
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		latest := finish
		for _, dep := range outgoing[id] {
			anchor := lf[dep.ToID]
			if dep.Type.DrivesStart() {
				anchor = ls[dep.ToID]
			}
			bound := anchor - dep.Lag
			if !dep.Type.FromPredecessorFinish() {
				bound += dur[id]
			}
			if bound < latest {
				latest = bound
			}
		}
		lf[id] = latest
		ls[id] = latest - dur[id]
	}

	plan := &Plan{
		Windows: make(map[int64]Window, len(ids)),
		Order:   order,
		Finish:  fromDayNum(finish),
	}
	for _, id := range order {
		float := ls[id] - es[id]
		w := Window{
			Start:      fromDayNum(es[id]),
			End:        fromDayNum(ef[id]),
			Duration:   dur[id],
			TotalFloat: float,
			Critical:   float <= 0,
		}
		plan.Windows[id] = w
		if w.Critical {
			plan.CriticalPath = append(plan.CriticalPath, id)
		}
	}
	return plan, nil
}

// topoOrder is Kahn's algorithm with the ready set kept sorted so the order is
// reproducible. Activities left with unresolved predecessors form cycles.
func topoOrder(ids []int64, outgoing map[int64][]domain.Dependency, indegree map[int64]int) ([]int64, error) {
	remaining := make(map[int64]int, len(ids))
	var ready []int64
	for _, id := range ids {
		remaining[id] = indegree[id]
		if indegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	order := make([]int64, 0, len(ids))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)
		for _, dep := range outgoing[id] {
			remaining[dep.ToID]--
			if remaining[dep.ToID] == 0 {
				ready = insertSorted(ready, dep.ToID)
			}
		}
	}

	if len(order) < len(ids) {
		var cyclic []int64
		for _, id := range ids {
			if remaining[id] > 0 {
				cyclic = append(cyclic, id)
			}
		}
		return nil, &domain.CycleError{ActivityIDs: cyclic}
	}
	return order, nil
}

func insertSorted(s []int64, v int64) []int64 {
	i := sort.Search(len(s), func(i int) bool { return s[i] >= v })
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}
