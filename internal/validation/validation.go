// Package validation holds the per-submission field rules. Every validator
// takes the catalog explicitly and reports the full list of failing rules
// rather than stopping at the first.
package validation

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/calebwray/kudos/internal/catalog"
	"github.com/calebwray/kudos/internal/model"
)

const (
	MinDescriptionLen = 10
	MinReasonLen      = 20

	businessDayStart = 9  // 09:00 inclusive
	businessDayEnd   = 18 // 18:00 exclusive
)

type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

func resultOf(errs []string) Result {
	return Result{Valid: len(errs) == 0, Errors: errs}
}

// ActivityDraft is a submission before it becomes a ledger entry.
type ActivityDraft struct {
	Category    string
	Subtype     string
	Description string
	ProofURL    string
}

// Activity validates an activity submission's fields against the catalog.
// The daily quota is checked separately (see Quota) because it needs the
// employee's same-day submission count from the store.
func Activity(c *catalog.Catalog, d ActivityDraft, now time.Time) Result {
	var errs []string

	at, ok := c.Activity(d.Category, d.Subtype)
	if !ok {
		errs = append(errs, fmt.Sprintf("unknown activity %s/%s", d.Category, d.Subtype))
		return resultOf(errs)
	}

	if len(strings.TrimSpace(d.Description)) < MinDescriptionLen {
		errs = append(errs, fmt.Sprintf("description must be at least %d characters", MinDescriptionLen))
	}

	if at.RequiresProof && !validProofURL(d.ProofURL) {
		errs = append(errs, fmt.Sprintf("%s submissions require a valid proof URL", d.Subtype))
	}

	if at.RequiresBusinessHours && !withinBusinessHours(now) {
		errs = append(errs, fmt.Sprintf("%s submissions are only accepted Mon-Fri %02d:00-%02d:00", d.Subtype, businessDayStart, businessDayEnd))
	}

	return resultOf(errs)
}

// QuotaCheck is the outcome of the daily rate limit.
type QuotaCheck struct {
	Allowed         bool
	Quota           int
	HoursUntilReset int
}

// Quota applies the per-subtype daily quota given the employee's same-day,
// same-subtype submission count. The reset is local midnight.
func Quota(at catalog.ActivityType, sameDayCount int, now time.Time) QuotaCheck {
	quota := at.Quota()
	if sameDayCount < quota {
		return QuotaCheck{Allowed: true, Quota: quota}
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).Add(24 * time.Hour)
	hours := int(midnight.Sub(now).Hours())
	if midnight.Sub(now)%time.Hour != 0 {
		hours++ // round up: "resets in 1 hour" at 23:10, not 0
	}
	return QuotaCheck{Allowed: false, Quota: quota, HoursUntilReset: hours}
}

// RedemptionDraft is a spending request before it becomes a ledger entry.
type RedemptionDraft struct {
	RewardType     model.RewardType
	RewardName     string
	RequestDetails string
}

// Redemption validates a redemption request's fields against the catalog.
// Balance sufficiency and the minimum-balance floor are enforced by the
// workflow engine against an authoritative read at commit time.
func Redemption(c *catalog.Catalog, d RedemptionDraft) Result {
	var errs []string

	r, ok := c.Reward(d.RewardType, d.RewardName)
	if !ok {
		errs = append(errs, fmt.Sprintf("unknown reward %s/%s", d.RewardType, d.RewardName))
		return resultOf(errs)
	}
	if !r.Available {
		errs = append(errs, fmt.Sprintf("reward %s is not currently available", d.RewardName))
	}

	return resultOf(errs)
}

// EscalationDraft is a deduction before it becomes a ledger entry.
type EscalationDraft struct {
	Type           string
	Subtype        string
	PointsDeducted int
	Description    string
}

// escalationRoles may record deductions.
var escalationRoles = map[model.Role]bool{
	model.RoleHR:             true,
	model.RoleTeamLead:       true,
	model.RoleManager:        true,
	model.RoleOperationsHead: true,
}

// CanEscalate reports whether a role is authorized to record escalations.
func CanEscalate(role model.Role) bool {
	return escalationRoles[role]
}

// Escalation validates an escalation against the catalog caps. Reporter
// authorization is checked separately because it is an authorization
// failure, not a field failure.
func Escalation(c *catalog.Catalog, d EscalationDraft) Result {
	var errs []string

	et, ok := c.Escalation(d.Type, d.Subtype)
	if !ok {
		errs = append(errs, fmt.Sprintf("unknown escalation %s/%s", d.Type, d.Subtype))
		return resultOf(errs)
	}

	if len(strings.TrimSpace(d.Description)) < MinReasonLen {
		errs = append(errs, fmt.Sprintf("reason must be at least %d characters", MinReasonLen))
	}
	if d.PointsDeducted <= 0 {
		errs = append(errs, "points deducted must be positive")
	} else if d.PointsDeducted > et.MaxPoints {
		errs = append(errs, fmt.Sprintf("points deducted exceeds the %d-point cap for %s/%s", et.MaxPoints, d.Type, d.Subtype))
	}

	return resultOf(errs)
}

func validProofURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func withinBusinessHours(now time.Time) bool {
	switch now.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return now.Hour() >= businessDayStart && now.Hour() < businessDayEnd
}
