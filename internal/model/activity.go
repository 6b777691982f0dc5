package model

import "time"

type ActivityStatus string

const (
	ActivityPending  ActivityStatus = "pending"
	ActivityApproved ActivityStatus = "approved"
	ActivityRejected ActivityStatus = "rejected"
)

// Terminal reports whether no further transition is allowed.
func (s ActivityStatus) Terminal() bool {
	return s == ActivityApproved || s == ActivityRejected
}

type Activity struct {
	ID           int64          `json:"id"`
	EmployeeID   int64          `json:"employee_id"`
	Category     string         `json:"category"`
	Subtype      string         `json:"subtype"`
	Description  string         `json:"description"`
	ProofURL     string         `json:"proof_url,omitempty"`
	PointsEarned int            `json:"points_earned"`
	Status       ActivityStatus `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	ApprovedBy   *int64         `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time     `json:"approved_at,omitempty"`
}
