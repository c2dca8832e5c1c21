package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
)

type WarningKind string

const (
	WarnInvalidDates       WarningKind = "invalid_dates"
	WarnDanglingDependency WarningKind = "dangling_dependency"
)

// Warning records an activity or dependency left out of the graph.
type Warning struct {
	Kind         WarningKind
	ActivityID   int64 // set for WarnInvalidDates
	DependencyID int64 // set for WarnDanglingDependency
	Message      string
}

// Relation is the type and lag of one predecessor link, attached to a node
// only when WithRelations is requested.
type Relation struct {
	DependencyID int64
	FromID       int64
	Type         domain.DependencyType
	Lag          int
}

// NodeMeta carries tooltip data for a node.
type NodeMeta struct {
	PackageName    string
	ContractorName string
	Status         domain.ActivityStatus
	Comments       string
}

type Node struct {
	ActivityID   int64
	Name         string
	Start        time.Time
	End          time.Time
	Progress     float64
	Predecessors []int64
	Relations    []Relation
	Meta         *NodeMeta
}

type Edge struct {
	DependencyID int64
	FromID       int64
	ToID         int64
	Type         domain.DependencyType
	Lag          int
}

// Graph is the render-ready view of a project's activities and dependencies.
type Graph struct {
	Nodes    []Node
	Edges    []Edge
	Warnings []Warning
}

// Node returns the node for an activity id.
func (g *Graph) Node(activityID int64) (*Node, bool) {
	i := sort.Search(len(g.Nodes), func(i int) bool { return g.Nodes[i].ActivityID >= activityID })
	if i < len(g.Nodes) && g.Nodes[i].ActivityID == activityID {
		return &g.Nodes[i], true
	}
	return nil, false
}

// HasEdgeTouching reports whether any edge starts or ends at activityID.
func (g *Graph) HasEdgeTouching(activityID int64) bool {
	for _, e := range g.Edges {
		if e.FromID == activityID || e.ToID == activityID {
			return true
		}
	}
	return false
}

// MetaLookup resolves package and contractor names for node metadata.
type MetaLookup struct {
	Packages    []domain.WorkPackage
	Contractors []domain.Contractor
}

type graphConfig struct {
	relations bool
	meta      *MetaLookup
}

type GraphOption func(*graphConfig)

// WithRelations attaches type and lag for every predecessor of each node.
func WithRelations() GraphOption {
	return func(c *graphConfig) { c.relations = true }
}

// WithMetadata fills Node.Meta from the given lookup.
func WithMetadata(m MetaLookup) GraphOption {
	return func(c *graphConfig) { c.meta = &m }
}

// BuildGraph assembles nodes and edges from flat activity and dependency
// lists. Activities without valid start and end dates and dependencies with a
// missing endpoint are skipped and reported as warnings. The function keeps
// no state between calls and is deterministic for the same inputs.
func BuildGraph(activities []domain.Activity, deps []domain.Dependency, opts ...GraphOption) Graph {
	var cfg graphConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	sorted := make([]domain.Activity, len(activities))
	copy(sorted, activities)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	g := Graph{Nodes: make([]Node, 0, len(sorted))}
	index := make(map[int64]int, len(sorted))

	names := newMetaIndex(cfg.meta)
	for i := range sorted {
		a := &sorted[i]
		if _, dup := index[a.ID]; dup {
			continue
		}
		if !a.HasDates() {
			g.Warnings = append(g.Warnings, Warning{
				Kind:       WarnInvalidDates,
				ActivityID: a.ID,
				Message:    fmt.Sprintf("activity %d (%s) skipped: missing or invalid start/end date", a.ID, a.Name),
			})
			continue
		}
		n := Node{
			ActivityID: a.ID,
			Name:       a.Name,
			Start:      domain.NormalizeDate(*a.StartDate),
			End:        domain.NormalizeDate(*a.EndDate),
			Progress:   a.Progress,
		}
		if names != nil {
			n.Meta = names.metaFor(a)
		}
		index[a.ID] = len(g.Nodes)
		g.Nodes = append(g.Nodes, n)
	}

	sortedDeps := make([]domain.Dependency, len(deps))
	copy(sortedDeps, deps)
	sort.SliceStable(sortedDeps, func(i, j int) bool { return sortedDeps[i].ID < sortedDeps[j].ID })

	for _, d := range sortedDeps {
		toIdx, toOK := index[d.ToID]
		_, fromOK := index[d.FromID]
		if !toOK || !fromOK {
			g.Warnings = append(g.Warnings, Warning{
				Kind:         WarnDanglingDependency,
				DependencyID: d.ID,
				Message:      danglingMessage(d, fromOK, toOK),
			})
			continue
		}
		node := &g.Nodes[toIdx]
		node.Predecessors = append(node.Predecessors, d.FromID)
		if cfg.relations {
			node.Relations = append(node.Relations, Relation{
				DependencyID: d.ID,
				FromID:       d.FromID,
				Type:         d.Type,
				Lag:          d.Lag,
			})
		}
		g.Edges = append(g.Edges, Edge{
			DependencyID: d.ID,
			FromID:       d.FromID,
			ToID:         d.ToID,
			Type:         d.Type,
			Lag:          d.Lag,
		})
	}

	return g
}

func danglingMessage(d domain.Dependency, fromOK, toOK bool) string {
	switch {
	case !fromOK && !toOK:
		return fmt.Sprintf("dependency %d skipped: activities %d and %d are not in the graph", d.ID, d.FromID, d.ToID)
	case !fromOK:
		return fmt.Sprintf("dependency %d skipped: predecessor %d is not in the graph", d.ID, d.FromID)
	default:
		return fmt.Sprintf("dependency %d skipped: successor %d is not in the graph", d.ID, d.ToID)
	}
}

type metaIndex struct {
	packages    map[int64]domain.WorkPackage
	contractors map[int64]string
}

func newMetaIndex(m *MetaLookup) *metaIndex {
	if m == nil {
		return nil
	}
	idx := &metaIndex{
		packages:    make(map[int64]domain.WorkPackage, len(m.Packages)),
		contractors: make(map[int64]string, len(m.Contractors)),
	}
	for _, p := range m.Packages {
		idx.packages[p.ID] = p
	}
	for _, c := range m.Contractors {
		idx.contractors[c.ID] = c.Name
	}
	return idx
}

// metaFor resolves names; an activity without its own contractor inherits the
// contractor assigned to its package.
func (m *metaIndex) metaFor(a *domain.Activity) *NodeMeta {
	meta := &NodeMeta{Status: a.Status, Comments: a.Comments}
	var contractorID *int64
	if a.PackageID != nil {
		if p, ok := m.packages[*a.PackageID]; ok {
			meta.PackageName = p.Name
			contractorID = p.ContractorID
		}
	}
	if a.ContractorID != nil {
		contractorID = a.ContractorID
	}
	if contractorID != nil {
		meta.ContractorName = m.contractors[*contractorID]
	}
	return meta
}
