package domain

import "time"

type AuditAction string

const (
	AuditActionCreate  AuditAction = "create"
	AuditActionUpdate  AuditAction = "update"
	AuditActionDelete  AuditAction = "delete"
	AuditActionApprove AuditAction = "approve"
)

// AuditLogEntry is an append-only before/after snapshot of a mutating
// operation. Snapshots are sanitized before persistence: sensitive keys are
// redacted and identifier/date values normalized to plain strings.
type AuditLogEntry struct {
	ID        int32          `json:"id"`
	ActorID   int32          `json:"actor_id"`
	ActorName string         `json:"actor_name"`
	Action    AuditAction    `json:"action"`
	Module    string         `json:"module"`
	RecordID  *string        `json:"record_id,omitempty"`
	OldValue  map[string]any `json:"old_value,omitempty"`
	NewValue  map[string]any `json:"new_value,omitempty"`
	ClientIP  string         `json:"client_ip"`
	UserAgent string         `json:"user_agent"`
	CreatedAt time.Time      `json:"created_at"`
}

type AuditFilter struct {
	Module   string
	ActorID  int32
	Action   AuditAction
	Page     int32
	PageSize int32
}
