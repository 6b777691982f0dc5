// Package eligibility decides whether an employee may participate in the
// incentive program at all. Rules are evaluated in order; the first failure
// wins. The check runs on every submission because role, department, and
// employment type change over tenure.
package eligibility

import (
	"strings"

	"github.com/calebwray/kudos/internal/model"
)

type Result struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}

func ineligible(reason string) Result {
	return Result{Eligible: false, Reason: reason}
}

// Check evaluates the ordered eligibility rules for an employee.
func Check(e *model.Employee) Result {
	if e == nil {
		return ineligible("employee record not found")
	}
	if e.Role == model.RoleIntern || e.EmploymentType == model.EmploymentIntern {
		return ineligible("interns are not eligible for the incentive program")
	}
	if e.Role == model.RoleHR || strings.EqualFold(strings.TrimSpace(e.Department), "hr") ||
		strings.EqualFold(strings.TrimSpace(e.Department), "human resources") {
		return ineligible("HR staff administer the program and cannot participate")
	}
	if !e.EmploymentType.IsFullTime() {
		return ineligible("only full-time employees are eligible")
	}
	return Result{Eligible: true}
}
