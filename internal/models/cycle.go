package models

import "time"

// CycleStatus represents the lifecycle of an academic cycle.
type CycleStatus string

// Possible cycle statuses.
const (
	CycleStatusOpen       CycleStatus = "open"
	CycleStatusInProgress CycleStatus = "in_progress"
	CycleStatusClosed     CycleStatus = "closed"
)

// Cycle is a time-boxed academic period scoping offerings.
type Cycle struct {
	ID             int64       `db:"id" json:"id"`
	Name           string      `db:"name" json:"name"`
	StartDate      *time.Time  `db:"start_date" json:"start_date,omitempty"`
	EndDate        *time.Time  `db:"end_date" json:"end_date,omitempty"`
	DurationMonths *int        `db:"duration_months" json:"duration_months,omitempty"`
	Status         CycleStatus `db:"status" json:"status"`
}
