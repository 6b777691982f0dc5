package model

import "time"

type AuditAction string

const (
	AuditActivitySubmitted   AuditAction = "activity_submitted"
	AuditActivityApproved    AuditAction = "activity_approved"
	AuditActivityRejected    AuditAction = "activity_rejected"
	AuditRedemptionRequested AuditAction = "redemption_requested"
	AuditRedemptionApproved  AuditAction = "redemption_approved"
	AuditRedemptionRejected  AuditAction = "redemption_rejected"
	AuditRedemptionFulfilled AuditAction = "redemption_fulfilled"
	AuditEscalationRecorded  AuditAction = "escalation_recorded"
)

// AuditEntry is an append-only record of a ledger event. Entries are written
// in the same transaction as the event they describe and never edited.
type AuditEntry struct {
	ID           int64       `json:"id"`
	EmployeeID   int64       `json:"employee_id"`
	Action       AuditAction `json:"action_type"`
	Description  string      `json:"description"`
	PointsChange int         `json:"points_change"`
	CreatedAt    time.Time   `json:"created_at"`
}
