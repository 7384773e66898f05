package domain

import "time"

// OnCallChangedEvent represents the payload for callshift.oncall.changed
// messages emitted after a completed hand-off.
type OnCallChangedEvent struct {
	EventID      string
	Division     string
	UserID       int64
	Name         string
	Phone        string
	StartTime    time.Time
	PreviousUser *int64
	SourceIP     string
	Metadata     map[string]any
}

// UserCreatedEvent represents the payload for callshift.user.created messages.
type UserCreatedEvent struct {
	EventID   string
	UserID    int64
	Name      string
	Division  string
	Phone     string
	CreatedAt time.Time
	Metadata  map[string]any
}
