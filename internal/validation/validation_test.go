package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/calebwray/kudos/internal/catalog"
	"github.com/calebwray/kudos/internal/model"
)

// A Wednesday at 10:00, squarely inside business hours.
var businessHoursNow = time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)

func TestActivityValid(t *testing.T) {
	c := catalog.Default()
	res := Activity(c, ActivityDraft{
		Category:    "content_creation",
		Subtype:     "blog_post",
		Description: "Wrote a post on our migration to the new billing pipeline",
	}, businessHoursNow)
	if !res.Valid {
		t.Fatalf("expected valid, got errors: %v", res.Errors)
	}
}

func TestActivityUnknownType(t *testing.T) {
	c := catalog.Default()
	res := Activity(c, ActivityDraft{
		Category:    "content_creation",
		Subtype:     "podcast",
		Description: "Recorded a podcast episode about the team",
	}, businessHoursNow)
	if res.Valid {
		t.Fatal("unknown subtype should be invalid")
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "unknown activity") {
		t.Errorf("errors = %v, want a single unknown-activity error", res.Errors)
	}
}

func TestActivityDescriptionTooShort(t *testing.T) {
	c := catalog.Default()
	res := Activity(c, ActivityDraft{
		Category:    "content_creation",
		Subtype:     "blog_post",
		Description: "  short  ",
	}, businessHoursNow)
	if res.Valid {
		t.Fatal("short description should be invalid")
	}
	if !strings.Contains(res.Errors[0], "at least 10 characters") {
		t.Errorf("error = %q, want the minimum-length rule", res.Errors[0])
	}
}

func TestActivityProofURL(t *testing.T) {
	c := catalog.Default()

	tests := []struct {
		name  string
		proof string
		valid bool
	}{
		{"https url", "https://example.com/review/123", true},
		{"http url", "http://example.com/review/123", true},
		{"missing", "", false},
		{"no scheme", "example.com/review/123", false},
		{"wrong scheme", "ftp://example.com/review", false},
		{"no host", "https://", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Activity(c, ActivityDraft{
				Category:    "client_engagement",
				Subtype:     "review",
				Description: "Client left a five-star review on the public listing",
				ProofURL:    tt.proof,
			}, businessHoursNow)
			if res.Valid != tt.valid {
				t.Errorf("valid = %v, want %v (errors: %v)", res.Valid, tt.valid, res.Errors)
			}
		})
	}
}

func TestActivityProofNotRequired(t *testing.T) {
	c := catalog.Default()
	// blog_post does not require proof; an empty URL is fine.
	res := Activity(c, ActivityDraft{
		Category:    "content_creation",
		Subtype:     "blog_post",
		Description: "Published the Q3 engineering retrospective",
	}, businessHoursNow)
	if !res.Valid {
		t.Fatalf("expected valid, got errors: %v", res.Errors)
	}
}

func TestActivityBusinessHours(t *testing.T) {
	c := catalog.Default()
	draft := ActivityDraft{
		Category:    "client_engagement",
		Subtype:     "referral",
		Description: "Referred a former colleague for the consulting engagement",
	}

	tests := []struct {
		name  string
		now   time.Time
		valid bool
	}{
		{"wednesday 10:00", time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC), true},
		{"monday 09:00", time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC), true},
		{"friday 17:59", time.Date(2024, 3, 8, 17, 59, 0, 0, time.UTC), true},
		{"friday 18:00", time.Date(2024, 3, 8, 18, 0, 0, 0, time.UTC), false},
		{"monday 08:59", time.Date(2024, 3, 4, 8, 59, 0, 0, time.UTC), false},
		{"saturday noon", time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC), false},
		{"sunday noon", time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Activity(c, draft, tt.now)
			if res.Valid != tt.valid {
				t.Errorf("valid = %v, want %v (errors: %v)", res.Valid, tt.valid, res.Errors)
			}
		})
	}
}

// A submission failing several rules reports all of them, not just the
// first.
func TestActivityCollectsAllErrors(t *testing.T) {
	c := catalog.Default()
	res := Activity(c, ActivityDraft{
		Category:    "client_engagement",
		Subtype:     "referral",
		Description: "too short",
	}, time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)) // Saturday
	if res.Valid {
		t.Fatal("expected invalid")
	}
	if len(res.Errors) != 2 {
		t.Fatalf("errors = %v, want both the description and business-hours rules", res.Errors)
	}
}

func TestQuotaUnderLimit(t *testing.T) {
	at, ok := catalog.Default().Activity("content_creation", "social_share")
	if !ok {
		t.Fatal("social_share missing from default catalog")
	}

	q := Quota(at, 2, businessHoursNow)
	if !q.Allowed {
		t.Error("2 of 3 used should still be allowed")
	}
	if q.Quota != 3 {
		t.Errorf("quota = %d, want 3", q.Quota)
	}
}

func TestQuotaExhausted(t *testing.T) {
	at, _ := catalog.Default().Activity("content_creation", "social_share")

	// 23:10 local: the next window opens in 50 minutes, reported as 1 hour.
	now := time.Date(2024, 3, 6, 23, 10, 0, 0, time.UTC)
	q := Quota(at, 3, now)
	if q.Allowed {
		t.Fatal("3 of 3 used should be denied")
	}
	if q.HoursUntilReset != 1 {
		t.Errorf("hours until reset = %d, want 1", q.HoursUntilReset)
	}

	// 10:00: 14 hours until midnight.
	q = Quota(at, 3, businessHoursNow)
	if q.HoursUntilReset != 14 {
		t.Errorf("hours until reset = %d, want 14", q.HoursUntilReset)
	}
}

func TestQuotaDefault(t *testing.T) {
	at, _ := catalog.Default().Activity("content_creation", "blog_post")
	q := Quota(at, catalog.DefaultDailyQuota, businessHoursNow)
	if q.Allowed {
		t.Errorf("count at the default quota of %d should be denied", catalog.DefaultDailyQuota)
	}
	if q.Quota != catalog.DefaultDailyQuota {
		t.Errorf("quota = %d, want %d", q.Quota, catalog.DefaultDailyQuota)
	}
}

func TestRedemptionValidation(t *testing.T) {
	c := catalog.Default()

	res := Redemption(c, RedemptionDraft{RewardType: model.RewardIndividual, RewardName: "coffee_voucher"})
	if !res.Valid {
		t.Fatalf("expected valid, got errors: %v", res.Errors)
	}

	res = Redemption(c, RedemptionDraft{RewardType: model.RewardIndividual, RewardName: "jet_ski"})
	if res.Valid {
		t.Fatal("unknown reward should be invalid")
	}

	// Same name under the wrong type is not a match.
	res = Redemption(c, RedemptionDraft{RewardType: model.RewardGroup, RewardName: "coffee_voucher"})
	if res.Valid {
		t.Fatal("reward type mismatch should be invalid")
	}
}

func TestCanEscalate(t *testing.T) {
	allowed := []model.Role{model.RoleHR, model.RoleTeamLead, model.RoleManager, model.RoleOperationsHead}
	for _, r := range allowed {
		if !CanEscalate(r) {
			t.Errorf("%s should be able to escalate", r)
		}
	}
	for _, r := range []model.Role{model.RoleEmployee, model.RoleIntern} {
		if CanEscalate(r) {
			t.Errorf("%s should not be able to escalate", r)
		}
	}
}

func TestEscalationValidation(t *testing.T) {
	c := catalog.Default()
	reason := "Arrived late to the client kickoff three times this sprint"

	tests := []struct {
		name  string
		draft EscalationDraft
		valid bool
	}{
		{
			name:  "within cap",
			draft: EscalationDraft{Type: "policy", Subtype: "late_arrival", PointsDeducted: 10, Description: reason},
			valid: true,
		},
		{
			name:  "at cap",
			draft: EscalationDraft{Type: "policy", Subtype: "late_arrival", PointsDeducted: 15, Description: reason},
			valid: true,
		},
		{
			name:  "over cap",
			draft: EscalationDraft{Type: "policy", Subtype: "late_arrival", PointsDeducted: 16, Description: reason},
			valid: false,
		},
		{
			name:  "zero points",
			draft: EscalationDraft{Type: "policy", Subtype: "late_arrival", PointsDeducted: 0, Description: reason},
			valid: false,
		},
		{
			name:  "negative points",
			draft: EscalationDraft{Type: "policy", Subtype: "late_arrival", PointsDeducted: -5, Description: reason},
			valid: false,
		},
		{
			name:  "reason too short",
			draft: EscalationDraft{Type: "policy", Subtype: "late_arrival", PointsDeducted: 10, Description: "late again"},
			valid: false,
		},
		{
			name:  "unknown type",
			draft: EscalationDraft{Type: "policy", Subtype: "loud_music", PointsDeducted: 10, Description: reason},
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Escalation(c, tt.draft)
			if res.Valid != tt.valid {
				t.Errorf("valid = %v, want %v (errors: %v)", res.Valid, tt.valid, res.Errors)
			}
		})
	}
}
