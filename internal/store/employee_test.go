package store

import (
	"testing"

	"github.com/calebwray/kudos/internal/model"
)

func TestEmployeeCRUD(t *testing.T) {
	db := setupTestDB(t)
	es := NewEmployeeStore(db)

	e, err := es.Create("Priya Nair", model.RoleEmployee, "engineering", model.EmploymentFullTime)
	if err != nil {
		t.Fatalf("create employee: %v", err)
	}
	if e.Name != "Priya Nair" {
		t.Errorf("name = %q, want %q", e.Name, "Priya Nair")
	}
	if !e.Active {
		t.Error("new employee should be active")
	}

	got, err := es.GetByID(e.ID)
	if err != nil {
		t.Fatalf("get employee: %v", err)
	}
	if got == nil || got.Role != model.RoleEmployee {
		t.Fatalf("got = %+v, want role employee", got)
	}

	updated, err := es.Update(e.ID, "Priya Nair", model.RoleTeamLead, "engineering", model.EmploymentFullTime, true)
	if err != nil {
		t.Fatalf("update employee: %v", err)
	}
	if updated.Role != model.RoleTeamLead {
		t.Errorf("role = %q, want %q", updated.Role, model.RoleTeamLead)
	}
}

func TestEmployeeNotFound(t *testing.T) {
	db := setupTestDB(t)

	got, err := NewEmployeeStore(db).GetByID(999)
	if err != nil {
		t.Fatalf("get employee: %v", err)
	}
	if got != nil {
		t.Error("expected nil for non-existent employee")
	}
}

// Free-form role and employment strings written directly to the table come
// back normalized.
func TestEmployeeScanNormalizes(t *testing.T) {
	db := setupTestDB(t)

	res, err := db.Exec(
		`INSERT INTO employees (name, role, department, employment_type) VALUES (?, ?, ?, ?)`,
		"Legacy Import", "Team Lead", "sales", "Full-Time",
	)
	if err != nil {
		t.Fatalf("insert raw employee: %v", err)
	}
	id, _ := res.LastInsertId()

	got, err := NewEmployeeStore(db).GetByID(id)
	if err != nil {
		t.Fatalf("get employee: %v", err)
	}
	if got.Role != model.RoleTeamLead {
		t.Errorf("role = %q, want %q", got.Role, model.RoleTeamLead)
	}
	if got.EmploymentType != model.EmploymentFullTime {
		t.Errorf("employment = %q, want %q", got.EmploymentType, model.EmploymentFullTime)
	}
}

func TestEmployeeListOrdering(t *testing.T) {
	db := setupTestDB(t)
	es := NewEmployeeStore(db)

	seedEmployee(t, db, "Zoe Park", model.RoleEmployee)
	seedEmployee(t, db, "Aaron Bell", model.RoleEmployee)

	employees, err := es.List()
	if err != nil {
		t.Fatalf("list employees: %v", err)
	}
	if len(employees) != 2 {
		t.Fatalf("expected 2 employees, got %d", len(employees))
	}
	if employees[0].Name != "Aaron Bell" {
		t.Errorf("employees[0].Name = %q, want %q", employees[0].Name, "Aaron Bell")
	}
}
