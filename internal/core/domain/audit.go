package domain

import "time"

// MaxAuditEntries is the audit log capacity; older entries are dropped.
const MaxAuditEntries = 500

// AuditAction names a recorded operation.
type AuditAction string

const (
	ActionCreate      AuditAction = "create"
	ActionEdit        AuditAction = "edit"
	ActionDelete      AuditAction = "delete"
	ActionCopy        AuditAction = "copy"
	ActionRoleChange  AuditAction = "role_change"
	ActionUserAdd     AuditAction = "user_add"
	ActionUserDelete  AuditAction = "user_delete"
	ActionFieldSave   AuditAction = "field_save"
	ActionFieldDelete AuditAction = "field_delete"
)

// Audit targets.
const (
	TargetCandidate = "candidate"
	TargetSummary   = "summary"
	TargetUser      = "user"
	TargetField     = "field"
)

const auditTimeLayout = "2006-01-02 15:04:05"

// AuditEntry is an immutable record of a state-changing action.
type AuditEntry struct {
	Timestamp     int64       `json:"ts"`
	FormattedTime string      `json:"at"`
	Actor         string      `json:"who"`
	Action        AuditAction `json:"action"`
	Target        string      `json:"target"`
	Details       string      `json:"details"`
}

// NewAuditEntry stamps an entry with t in local time.
func NewAuditEntry(t time.Time, actor string, action AuditAction, target, details string) AuditEntry {
	return AuditEntry{
		Timestamp:     t.UnixMilli(),
		FormattedTime: t.Local().Format(auditTimeLayout),
		Actor:         actor,
		Action:        action,
		Target:        target,
		Details:       details,
	}
}
