package domain

import "time"

// OnCallAssignment is one row of the append-only on-call ledger. A nil EndTime
// marks the currently active assignment; per division at most one row may be
// open at any instant.
type OnCallAssignment struct {
	ID        int64
	Division  string
	UserID    int64
	Phone     string
	StartTime time.Time
	EndTime   *time.Time
}

// Open reports whether the assignment is still active.
func (a OnCallAssignment) Open() bool {
	return a.EndTime == nil
}

// OnCallStatus is the current-on-call query result: the open ledger row joined
// with the assignee's display name.
type OnCallStatus struct {
	Division  string
	UserID    int64
	Name      string
	Phone     string
	StartTime time.Time
}
