package model

import (
	"strings"
	"time"
)

// Role is an employee's normalized role. Built once at the boundary so the
// engine never re-parses free-form role strings.
type Role string

const (
	RoleEmployee       Role = "employee"
	RoleTeamLead       Role = "team_lead"
	RoleManager        Role = "manager"
	RoleOperationsHead Role = "operations_head"
	RoleHR             Role = "hr"
	RoleIntern         Role = "intern"
)

// EmploymentType is an employee's normalized employment type.
type EmploymentType string

const (
	EmploymentFullTime EmploymentType = "full_time"
	EmploymentPartTime EmploymentType = "part_time"
	EmploymentIntern   EmploymentType = "intern"
	EmploymentContract EmploymentType = "contract"
	EmploymentUnknown  EmploymentType = ""
)

type Employee struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	Role           Role           `json:"role"`
	Department     string         `json:"department"`
	EmploymentType EmploymentType `json:"employment_type"`
	Active         bool           `json:"active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// ParseRole normalizes a free-form role string.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "_")) {
	case "team_lead", "teamlead", "lead":
		return RoleTeamLead
	case "manager":
		return RoleManager
	case "operations_head", "ops_head":
		return RoleOperationsHead
	case "hr", "human_resources":
		return RoleHR
	case "intern":
		return RoleIntern
	default:
		return RoleEmployee
	}
}

// ParseEmploymentType normalizes a free-form employment type string.
// Unrecognized non-empty values map to contract, the most restrictive bucket.
func ParseEmploymentType(s string) EmploymentType {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", "_")) {
	case "":
		return EmploymentUnknown
	case "full_time", "fulltime", "full", "permanent":
		return EmploymentFullTime
	case "part_time", "parttime":
		return EmploymentPartTime
	case "intern", "internship":
		return EmploymentIntern
	default:
		return EmploymentContract
	}
}

// IsFullTime reports whether the employment type is a full-time variant.
// An unknown type counts as full-time: legacy records predate the field.
func (e EmploymentType) IsFullTime() bool {
	return e == EmploymentFullTime || e == EmploymentUnknown
}
