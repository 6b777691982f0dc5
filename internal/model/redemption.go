package model

import "time"

type RedemptionStatus string

const (
	RedemptionPending         RedemptionStatus = "pending"
	RedemptionManagerApproval RedemptionStatus = "pending_manager_approval"
	RedemptionApproved        RedemptionStatus = "approved"
	RedemptionRejected        RedemptionStatus = "rejected"
	RedemptionFulfilled       RedemptionStatus = "fulfilled"
)

// Terminal reports whether no further transition is allowed.
func (s RedemptionStatus) Terminal() bool {
	return s == RedemptionRejected || s == RedemptionFulfilled
}

// Debited reports whether points for this status count against the balance.
// Approved marks the points sign-off; fulfilled marks physical delivery.
func (s RedemptionStatus) Debited() bool {
	return s == RedemptionApproved || s == RedemptionFulfilled
}

type RewardType string

const (
	RewardIndividual RewardType = "individual"
	RewardGroup      RewardType = "group"
	RewardMysteryBox RewardType = "mystery_box"
)

type Redemption struct {
	ID             int64            `json:"id"`
	EmployeeID     int64            `json:"employee_id"`
	RewardType     RewardType       `json:"reward_type"`
	RewardName     string           `json:"reward_name"`
	PointsRequired int              `json:"points_required"`
	RequestDetails string           `json:"request_details"`
	Status         RedemptionStatus `json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
	ApprovedAt     *time.Time       `json:"approved_at,omitempty"`
	FulfilledAt    *time.Time       `json:"fulfilled_at,omitempty"`
}
