package domain

import (
	"fmt"
	"strings"
)

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectPaused   ProjectStatus = "paused"
	ProjectDone     ProjectStatus = "done"
	ProjectArchived ProjectStatus = "archived"
)

type ActivityStatus string

const (
	ActivityPlanned    ActivityStatus = "planned"
	ActivityInProgress ActivityStatus = "in_progress"
	ActivityDone       ActivityStatus = "done"
)

// ScheduleMode records which computation last produced a project's dates.
type ScheduleMode string

const (
	ScheduleAuto   ScheduleMode = "auto"
	ScheduleManual ScheduleMode = "manual"
)

// DependencyType is the precedence relationship between two activities.
// The set is closed; every switch over it must handle all four kinds.
type DependencyType string

const (
	FinishToStart  DependencyType = "FS"
	StartToStart   DependencyType = "SS"
	FinishToFinish DependencyType = "FF"
	StartToFinish  DependencyType = "SF"
)

// DependencyTypes lists the accepted relationship kinds in display order.
var DependencyTypes = []DependencyType{FinishToStart, StartToStart, FinishToFinish, StartToFinish}

// ParseDependencyType converts a wire value into a DependencyType. Anything
// outside {FS, SS, FF, SF} is an invalid dependency.
func ParseDependencyType(s string) (DependencyType, error) {
	switch t := DependencyType(s); t {
	case FinishToStart, StartToStart, FinishToFinish, StartToFinish:
		return t, nil
	default:
		return "", fmt.Errorf("dependency type %q (want FS, SS, FF or SF): %w", s, ErrInvalidDependency)
	}
}

// Valid reports whether t is one of the four relationship kinds.
func (t DependencyType) Valid() bool {
	_, err := ParseDependencyType(string(t))
	return err == nil
}

// Label returns the long name, e.g. "Finish-to-Start".
func (t DependencyType) Label() string {
	switch t {
	case FinishToStart:
		return "Finish-to-Start"
	case StartToStart:
		return "Start-to-Start"
	case FinishToFinish:
		return "Finish-to-Finish"
	case StartToFinish:
		return "Start-to-Finish"
	default:
		return string(t)
	}
}

// DrivesStart reports whether the constraint binds the successor's start
// (FS, SS) rather than its finish (FF, SF).
func (t DependencyType) DrivesStart() bool {
	switch t {
	case FinishToStart, StartToStart:
		return true
	case FinishToFinish, StartToFinish:
		return false
	default:
		panic(fmt.Sprintf("unhandled dependency type %q", string(t)))
	}
}

// FromPredecessorFinish reports whether the constraint is measured from the
// predecessor's finish (FS, FF) rather than its start (SS, SF).
func (t DependencyType) FromPredecessorFinish() bool {
	switch t {
	case FinishToStart, FinishToFinish:
		return true
	case StartToStart, StartToFinish:
		return false
	default:
		panic(fmt.Sprintf("unhandled dependency type %q", string(t)))
	}
}

// Direction selects which side of a dependency an activity sits on.
type Direction int

const (
	// DirectionPredecessors lists dependencies where the activity is the successor.
	DirectionPredecessors Direction = iota
	// DirectionSuccessors lists dependencies where the activity is the predecessor.
	DirectionSuccessors
)

func (d Direction) String() string {
	switch d {
	case DirectionPredecessors:
		return "predecessors"
	case DirectionSuccessors:
		return "successors"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection accepts "predecessors"/"pred" and "successors"/"succ".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "predecessors", "pred":
		return DirectionPredecessors, nil
	case "successors", "succ":
		return DirectionSuccessors, nil
	default:
		return 0, fmt.Errorf("unknown direction %q (want predecessors or successors): %w", s, ErrValidation)
	}
}
