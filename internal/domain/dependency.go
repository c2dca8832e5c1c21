package domain

import (
	"fmt"
	"time"
)

// Dependency is a directed precedence edge from a predecessor (FromID) to a
// successor (ToID). Endpoints are fixed once created.
type Dependency struct {
	ID        int64
	ProjectID string
	FromID    int64
	ToID      int64
	Type      DependencyType
	Lag       int // days; negative is a lead
	CreatedAt time.Time
}

// DependencyPatch is a partial update. Nil fields are left unchanged.
type DependencyPatch struct {
	Type *DependencyType
	Lag  *int
}

// Apply returns a copy of d with the patch applied.
func (p DependencyPatch) Apply(d Dependency) (Dependency, error) {
	if p.Type != nil {
		t, err := ParseDependencyType(string(*p.Type))
		if err != nil {
			return d, err
		}
		d.Type = t
	}
	if p.Lag != nil {
		d.Lag = *p.Lag
	}
	return d, nil
}

// Empty reports whether the patch changes nothing.
func (p DependencyPatch) Empty() bool {
	return p.Type == nil && p.Lag == nil
}

// ValidateDependency checks a candidate edge against its resolved endpoints.
// from and to are nil when the id does not resolve to an activity.
func ValidateDependency(projectID string, fromID, toID int64, depType DependencyType, from, to *Activity) error {
	if fromID == toID {
		return fmt.Errorf("activity %d cannot depend on itself: %w", fromID, ErrInvalidDependency)
	}
	if _, err := ParseDependencyType(string(depType)); err != nil {
		return err
	}
	if from == nil || from.ProjectID != projectID {
		return fmt.Errorf("predecessor activity %d is not part of project %s: %w", fromID, projectID, ErrInvalidDependency)
	}
	if to == nil || to.ProjectID != projectID {
		return fmt.Errorf("successor activity %d is not part of project %s: %w", toID, projectID, ErrInvalidDependency)
	}
	return nil
}

// References reports whether activityID is either endpoint of d.
func (d *Dependency) References(activityID int64) bool {
	return d.FromID == activityID || d.ToID == activityID
}
