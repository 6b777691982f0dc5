package store

import (
	"database/sql"
	"testing"
	"time"

	"github.com/calebwray/kudos/internal/database"
	"github.com/calebwray/kudos/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedEmployee(t *testing.T, db *sql.DB, name string, role model.Role) *model.Employee {
	t.Helper()
	e, err := NewEmployeeStore(db).Create(name, role, "engineering", model.EmploymentFullTime)
	if err != nil {
		t.Fatalf("seed employee: %v", err)
	}
	return e
}

func seedApprovedActivity(t *testing.T, db *sql.DB, employeeID int64, points int, at time.Time) *model.Activity {
	t.Helper()
	as := NewActivityStore(db)
	a, err := as.Create(&model.Activity{
		EmployeeID:   employeeID,
		Category:     "content_creation",
		Subtype:      "blog_post",
		Description:  "seeded entry for balance checks",
		PointsEarned: points,
		CreatedAt:    at,
	})
	if err != nil {
		t.Fatalf("seed activity: %v", err)
	}
	if err := as.SetStatus(a.ID, model.ActivityApproved, &employeeID, &at); err != nil {
		t.Fatalf("approve seeded activity: %v", err)
	}
	return a
}
