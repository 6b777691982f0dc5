package store

import (
	"testing"
	"time"

	"github.com/calebwray/kudos/internal/model"
)

func TestActivityCreateStartsPending(t *testing.T) {
	db := setupTestDB(t)
	emp := seedEmployee(t, db, "Priya Nair", model.RoleEmployee)
	as := NewActivityStore(db)

	now := time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)
	a, err := as.Create(&model.Activity{
		EmployeeID:   emp.ID,
		Category:     "client_engagement",
		Subtype:      "referral",
		Description:  "Referred a former colleague for the open consulting role",
		PointsEarned: 50,
		CreatedAt:    now,
	})
	if err != nil {
		t.Fatalf("create activity: %v", err)
	}
	if a.Status != model.ActivityPending {
		t.Errorf("status = %q, want pending", a.Status)
	}
	if a.PointsEarned != 50 {
		t.Errorf("points = %d, want 50", a.PointsEarned)
	}
	if a.ApprovedBy != nil || a.ApprovedAt != nil {
		t.Error("new activity should have no approval stamp")
	}
}

func TestActivitySetStatus(t *testing.T) {
	db := setupTestDB(t)
	emp := seedEmployee(t, db, "Priya Nair", model.RoleEmployee)
	reviewer := seedEmployee(t, db, "Marcus Webb", model.RoleManager)
	as := NewActivityStore(db)

	now := time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)
	a, err := as.Create(&model.Activity{
		EmployeeID:   emp.ID,
		Category:     "content_creation",
		Subtype:      "blog_post",
		Description:  "Published the quarterly engineering retrospective",
		PointsEarned: 25,
		CreatedAt:    now,
	})
	if err != nil {
		t.Fatalf("create activity: %v", err)
	}

	approvedAt := now.Add(2 * time.Hour)
	if err := as.SetStatus(a.ID, model.ActivityApproved, &reviewer.ID, &approvedAt); err != nil {
		t.Fatalf("approve: %v", err)
	}

	got, err := as.GetByID(a.ID)
	if err != nil {
		t.Fatalf("get activity: %v", err)
	}
	if got.Status != model.ActivityApproved {
		t.Errorf("status = %q, want approved", got.Status)
	}
	if got.ApprovedBy == nil || *got.ApprovedBy != reviewer.ID {
		t.Errorf("approved_by = %v, want %d", got.ApprovedBy, reviewer.ID)
	}
	if got.ApprovedAt == nil || !got.ApprovedAt.Equal(approvedAt) {
		t.Errorf("approved_at = %v, want %v", got.ApprovedAt, approvedAt)
	}
}

func TestActivityNotFound(t *testing.T) {
	db := setupTestDB(t)

	got, err := NewActivityStore(db).GetByID(999)
	if err != nil {
		t.Fatalf("get activity: %v", err)
	}
	if got != nil {
		t.Error("expected nil for non-existent activity")
	}
}

func TestActivityCountSameDaySubtype(t *testing.T) {
	db := setupTestDB(t)
	emp := seedEmployee(t, db, "Priya Nair", model.RoleEmployee)
	other := seedEmployee(t, db, "Zoe Park", model.RoleEmployee)
	as := NewActivityStore(db)

	day := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)
	create := func(employeeID int64, subtype string, at time.Time) {
		t.Helper()
		_, err := as.Create(&model.Activity{
			EmployeeID:   employeeID,
			Category:     "content_creation",
			Subtype:      subtype,
			Description:  "same-day quota counting fixture",
			PointsEarned: 5,
			CreatedAt:    at,
		})
		if err != nil {
			t.Fatalf("create activity: %v", err)
		}
	}

	create(emp.ID, "social_share", day.Add(9*time.Hour))
	create(emp.ID, "social_share", day.Add(15*time.Hour))
	// None of these should count: other subtype, other employee,
	// yesterday, and tomorrow (the range is [start, end)).
	create(emp.ID, "blog_post", day.Add(10*time.Hour))
	create(other.ID, "social_share", day.Add(11*time.Hour))
	create(emp.ID, "social_share", day.Add(-1*time.Hour))
	create(emp.ID, "social_share", day.Add(24*time.Hour))

	n, err := as.CountSameDaySubtype(emp.ID, "social_share", day, day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
}

func TestActivityListPendingOldestFirst(t *testing.T) {
	db := setupTestDB(t)
	emp := seedEmployee(t, db, "Priya Nair", model.RoleEmployee)
	as := NewActivityStore(db)

	base := time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)
	for i, desc := range []string{"first pending submission", "second pending submission"} {
		_, err := as.Create(&model.Activity{
			EmployeeID:   emp.ID,
			Category:     "content_creation",
			Subtype:      "blog_post",
			Description:  desc,
			PointsEarned: 25,
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("create activity: %v", err)
		}
	}
	seedApprovedActivity(t, db, emp.ID, 25, base.Add(-time.Hour))

	pending, err := as.ListPending()
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(pending))
	}
	if pending[0].Description != "first pending submission" {
		t.Errorf("pending[0] = %q, want the oldest", pending[0].Description)
	}
}

func TestActivityListApprovedByEmployee(t *testing.T) {
	db := setupTestDB(t)
	emp := seedEmployee(t, db, "Priya Nair", model.RoleEmployee)
	as := NewActivityStore(db)

	base := time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)
	seedApprovedActivity(t, db, emp.ID, 25, base)
	if _, err := as.Create(&model.Activity{
		EmployeeID:   emp.ID,
		Category:     "content_creation",
		Subtype:      "blog_post",
		Description:  "still waiting on review",
		PointsEarned: 25,
		CreatedAt:    base.Add(time.Hour),
	}); err != nil {
		t.Fatalf("create activity: %v", err)
	}

	approved, err := as.ListApprovedByEmployee(emp.ID)
	if err != nil {
		t.Fatalf("list approved: %v", err)
	}
	if len(approved) != 1 {
		t.Fatalf("expected 1 approved, got %d", len(approved))
	}
	if approved[0].Status != model.ActivityApproved {
		t.Errorf("status = %q, want approved", approved[0].Status)
	}
}
