// Package catalog holds the static configuration mapping activity,
// reward, and escalation types to point values, quotas, and caps. A
// Catalog is loaded once at startup and passed explicitly into the
// validation engine; nothing reads it as ambient state.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/calebwray/kudos/internal/model"
)

const DefaultDailyQuota = 5

// ActivityType is one subtype in the earning taxonomy.
type ActivityType struct {
	Category              string `json:"category"`
	Subtype               string `json:"subtype"`
	Points                int    `json:"points"`
	DailyQuota            int    `json:"daily_quota"`
	RequiresProof         bool   `json:"requires_proof"`
	RequiresBusinessHours bool   `json:"requires_business_hours"`
}

// Reward is one redeemable item.
type Reward struct {
	Type                     model.RewardType `json:"type"`
	Name                     string           `json:"name"`
	Points                   int              `json:"points"`
	Available                bool             `json:"available"`
	RequiresManagerApproval  bool             `json:"requires_manager_approval"`
	MinBalanceAfterRedeeming int              `json:"min_balance_after_redeeming"`
}

// EscalationType caps the deduction for one escalation type.
type EscalationType struct {
	Type      string `json:"type"`
	Subtype   string `json:"subtype"`
	MaxPoints int    `json:"max_points"`
}

// Catalog is the full versioned configuration.
type Catalog struct {
	Version     int              `json:"version"`
	Activities  []ActivityType   `json:"activities"`
	Rewards     []Reward         `json:"rewards"`
	Escalations []EscalationType `json:"escalations"`
}

// Activity looks up an activity type by category and subtype.
func (c *Catalog) Activity(category, subtype string) (ActivityType, bool) {
	for _, a := range c.Activities {
		if a.Category == category && a.Subtype == subtype {
			return a, true
		}
	}
	return ActivityType{}, false
}

// Reward looks up a reward by type and name.
func (c *Catalog) Reward(rewardType model.RewardType, name string) (Reward, bool) {
	for _, r := range c.Rewards {
		if r.Type == rewardType && r.Name == name {
			return r, true
		}
	}
	return Reward{}, false
}

// Escalation looks up an escalation type by type and subtype.
func (c *Catalog) Escalation(escType, subtype string) (EscalationType, bool) {
	for _, e := range c.Escalations {
		if e.Type == escType && e.Subtype == subtype {
			return e, true
		}
	}
	return EscalationType{}, false
}

// Quota returns the daily quota for an activity type, applying the default
// when the catalog entry omits one.
func (a ActivityType) Quota() int {
	if a.DailyQuota <= 0 {
		return DefaultDailyQuota
	}
	return a.DailyQuota
}

// Load reads a catalog from a JSON file. An empty path returns the
// built-in defaults.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.Activities) == 0 {
		return nil, fmt.Errorf("catalog %s defines no activity types", path)
	}
	return &c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		Version: 1,
		Activities: []ActivityType{
			{Category: "client_engagement", Subtype: "referral", Points: 50, RequiresBusinessHours: true},
			{Category: "client_engagement", Subtype: "testimonial", Points: 30, RequiresProof: true},
			{Category: "client_engagement", Subtype: "review", Points: 20, RequiresProof: true},
			{Category: "content_creation", Subtype: "blog_post", Points: 25},
			{Category: "content_creation", Subtype: "video", Points: 40, RequiresProof: true},
			{Category: "content_creation", Subtype: "social_share", Points: 5, DailyQuota: 3},
			{Category: "attendance", Subtype: "on_time_week", Points: 10, DailyQuota: 1},
			{Category: "attendance", Subtype: "full_attendance_month", Points: 30, DailyQuota: 1},
			{Category: "performance", Subtype: "tactical_goal", Points: 35, RequiresBusinessHours: true},
			{Category: "performance", Subtype: "strategic_goal", Points: 75, RequiresBusinessHours: true},
			{Category: "polls", Subtype: "poll_response", Points: 2, DailyQuota: 10},
		},
		Rewards: []Reward{
			{Type: model.RewardIndividual, Name: "coffee_voucher", Points: 25, Available: true},
			{Type: model.RewardIndividual, Name: "lunch_voucher", Points: 60, Available: true},
			{Type: model.RewardIndividual, Name: "work_from_home", Points: 40, Available: true, RequiresManagerApproval: true, MinBalanceAfterRedeeming: 50},
			{Type: model.RewardGroup, Name: "team_dinner", Points: 200, Available: true},
			{Type: model.RewardGroup, Name: "team_outing", Points: 400, Available: true},
			{Type: model.RewardMysteryBox, Name: "mystery_box", Points: 100, Available: true},
		},
		Escalations: []EscalationType{
			{Type: "policy", Subtype: "dress_code", MaxPoints: 10},
			{Type: "policy", Subtype: "late_arrival", MaxPoints: 15},
			{Type: "conduct", Subtype: "unprofessional_behavior", MaxPoints: 50},
			{Type: "performance", Subtype: "missed_deadline", MaxPoints: 30},
			{Type: "performance", Subtype: "client_complaint", MaxPoints: 75},
		},
	}
}
