package domain

import "time"

// AuditEventType enumerates security-relevant event kinds recorded in the
// audit trail.
type AuditEventType string

const (
	AuditFailedAuth      AuditEventType = "failed_auth"
	AuditSuccessfulAuth  AuditEventType = "successful_auth"
	AuditOnCallUpdate    AuditEventType = "on_call_update"
	AuditUserCreated     AuditEventType = "user_created"
	AuditAdminUpdateUser AuditEventType = "admin_update_user"
)

// AuditEntry is a write-once record of an authentication attempt or state
// transition. Entries are never updated or deleted.
type AuditEntry struct {
	ID        int64
	EventType AuditEventType
	UserID    *int64
	Details   string
	IPAddress string
	Timestamp time.Time
}
