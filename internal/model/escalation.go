package model

import "time"

// Escalation is an administrative point deduction. It has no workflow:
// the record is final at creation and never edited.
type Escalation struct {
	ID             int64     `json:"id"`
	EmployeeID     int64     `json:"employee_id"`
	Type           string    `json:"escalation_type"`
	Subtype        string    `json:"escalation_subtype"`
	PointsDeducted int       `json:"points_deducted"`
	Description    string    `json:"description"`
	ReportedBy     int64     `json:"reported_by"`
	CreatedAt      time.Time `json:"created_at"`
}
