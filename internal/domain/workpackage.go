package domain

import "time"

// WorkPackage groups activities under one scope of work, optionally assigned to a contractor.
type WorkPackage struct {
	ID           int64
	ProjectID    string
	Name         string
	ContractorID *int64
	CreatedAt    time.Time
}
