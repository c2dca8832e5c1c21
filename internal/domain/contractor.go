package domain

import "time"

type Contractor struct {
	ID        int64
	ProjectID string
	Name      string
	Trade     string
	Phone     string
	CreatedAt time.Time
}
