// Package expiry computes time-based views over approved activities:
// per-entry point expiration and the annual performance-impact grade. Both
// are read-only; expiration is surfaced as a warning and never debits the
// balance.
package expiry

import (
	"time"

	"github.com/calebwray/kudos/internal/model"
)

const (
	// PointLifetime is how long each approved activity's points last,
	// measured from its approval timestamp.
	PointLifetime = 365 * 24 * time.Hour

	// WarningWindow is how far ahead of expiration entries are surfaced.
	WarningWindow = 30 * 24 * time.Hour
)

// Report summarizes points expiring within the warning window, already
// expired entries included.
type Report struct {
	HasExpiring    bool       `json:"has_expiring"`
	ExpiringPoints int        `json:"expiring_points"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

// Check scans approved activities for points expiring within the warning
// window of now. Expiry is per entry, one year from its approval time, not
// a property of the balance as a whole. Entries still pending or rejected
// carry no points and are skipped.
func Check(approved []model.Activity, now time.Time) Report {
	var r Report
	cutoff := now.Add(WarningWindow)

	for _, a := range approved {
		if a.Status != model.ActivityApproved || a.ApprovedAt == nil {
			continue
		}
		expiresAt := a.ApprovedAt.Add(PointLifetime)
		if expiresAt.After(cutoff) {
			continue
		}
		r.HasExpiring = true
		r.ExpiringPoints += a.PointsEarned
		if r.ExpirationDate == nil || expiresAt.Before(*r.ExpirationDate) {
			d := expiresAt
			r.ExpirationDate = &d
		}
	}
	return r
}

// Impact is the annual performance-impact score derived from lifetime
// points.
type Impact struct {
	Grade            string `json:"grade"`
	ImpactPercentage int    `json:"impact_percentage"`
	Description      string `json:"description"`
}

var impactBands = []struct {
	min    int
	impact Impact
}{
	{500, Impact{Grade: "Excellent", ImpactPercentage: 5, Description: "Outstanding participation, maximum appraisal impact"}},
	{300, Impact{Grade: "Good", ImpactPercentage: 3, Description: "Strong participation across the year"}},
	{150, Impact{Grade: "Average", ImpactPercentage: 2, Description: "Steady participation"}},
	{50, Impact{Grade: "Below Average", ImpactPercentage: 1, Description: "Limited participation"}},
}

// PerformanceImpact maps lifetime points onto the appraisal step function.
// Monotonic: more points never lowers the grade.
func PerformanceImpact(lifetimePoints int) Impact {
	for _, band := range impactBands {
		if lifetimePoints >= band.min {
			return band.impact
		}
	}
	return Impact{Grade: "Poor", ImpactPercentage: 0, Description: "No meaningful participation"}
}
