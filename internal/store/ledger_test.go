package store

import (
	"testing"
	"time"

	"github.com/calebwray/kudos/internal/model"
)

func TestLedgerBalanceDerivation(t *testing.T) {
	db := setupTestDB(t)
	emp := seedEmployee(t, db, "Priya Nair", model.RoleEmployee)
	ls := NewLedgerStore(db)

	now := time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)
	seedApprovedActivity(t, db, emp.ID, 50, now)
	seedApprovedActivity(t, db, emp.ID, 30, now.Add(time.Hour))

	// Pending and rejected entries carry no points.
	as := NewActivityStore(db)
	pending, err := as.Create(&model.Activity{
		EmployeeID:   emp.ID,
		Category:     "content_creation",
		Subtype:      "blog_post",
		Description:  "awaiting review, must not count",
		PointsEarned: 100,
		CreatedAt:    now,
	})
	if err != nil {
		t.Fatalf("create pending activity: %v", err)
	}
	rejected, err := as.Create(&model.Activity{
		EmployeeID:   emp.ID,
		Category:     "content_creation",
		Subtype:      "blog_post",
		Description:  "rejected entry, must not count",
		PointsEarned: 100,
		CreatedAt:    now,
	})
	if err != nil {
		t.Fatalf("create rejected activity: %v", err)
	}
	if err := as.SetStatus(rejected.ID, model.ActivityRejected, &emp.ID, &now); err != nil {
		t.Fatalf("reject activity: %v", err)
	}

	bal, err := ls.Balance(emp.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal.TotalEarned != 80 {
		t.Errorf("total earned = %d, want 80", bal.TotalEarned)
	}
	if bal.Balance != 80 {
		t.Errorf("balance = %d, want 80", bal.Balance)
	}

	// Approving the pending entry moves its points into the balance.
	if err := as.SetStatus(pending.ID, model.ActivityApproved, &emp.ID, &now); err != nil {
		t.Fatalf("approve activity: %v", err)
	}
	bal, err = ls.Balance(emp.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal.Balance != 180 {
		t.Errorf("balance = %d, want 180", bal.Balance)
	}
}

func TestLedgerBalanceSubtractsSpendingAndDeductions(t *testing.T) {
	db := setupTestDB(t)
	emp := seedEmployee(t, db, "Priya Nair", model.RoleEmployee)
	reporter := seedEmployee(t, db, "Dana Cole", model.RoleHR)
	ls := NewLedgerStore(db)

	now := time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)
	seedApprovedActivity(t, db, emp.ID, 100, now)

	rs := NewRedemptionStore(db)
	approved := createRedemption(t, rs, emp.ID, now)
	if err := rs.SetStatus(approved.ID, model.RedemptionApproved, &now, nil); err != nil {
		t.Fatalf("approve redemption: %v", err)
	}
	// Pending and rejected redemptions do not debit.
	createRedemption(t, rs, emp.ID, now)
	rej := createRedemption(t, rs, emp.ID, now)
	if err := rs.SetStatus(rej.ID, model.RedemptionRejected, nil, nil); err != nil {
		t.Fatalf("reject redemption: %v", err)
	}

	if _, err := NewEscalationStore(db).Create(&model.Escalation{
		EmployeeID:     emp.ID,
		Type:           "policy",
		Subtype:        "late_arrival",
		PointsDeducted: 10,
		Description:    "Arrived late to the client kickoff three times this sprint",
		ReportedBy:     reporter.ID,
		CreatedAt:      now,
	}); err != nil {
		t.Fatalf("create escalation: %v", err)
	}

	bal, err := ls.Balance(emp.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal.TotalEarned != 100 || bal.TotalSpent != 25 || bal.TotalDeducted != 10 {
		t.Errorf("totals = %d/%d/%d, want 100/25/10", bal.TotalEarned, bal.TotalSpent, bal.TotalDeducted)
	}
	if bal.Balance != 65 {
		t.Errorf("balance = %d, want 65", bal.Balance)
	}

	// Fulfillment keeps the debit, it does not double it.
	if err := rs.SetStatus(approved.ID, model.RedemptionFulfilled, nil, &now); err != nil {
		t.Fatalf("fulfill redemption: %v", err)
	}
	bal, err = ls.Balance(emp.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal.Balance != 65 {
		t.Errorf("balance after fulfillment = %d, want 65", bal.Balance)
	}
}

func TestLedgerBalanceEmptyLedger(t *testing.T) {
	db := setupTestDB(t)
	emp := seedEmployee(t, db, "Priya Nair", model.RoleEmployee)

	bal, err := NewLedgerStore(db).Balance(emp.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal.Balance != 0 || bal.TotalEarned != 0 {
		t.Errorf("empty ledger balance = %+v, want zeros", bal)
	}
	if bal.EmployeeName != "Priya Nair" {
		t.Errorf("name = %q, want %q", bal.EmployeeName, "Priya Nair")
	}
}

func TestLedgerLifetimePointsIgnoresSpending(t *testing.T) {
	db := setupTestDB(t)
	emp := seedEmployee(t, db, "Priya Nair", model.RoleEmployee)
	ls := NewLedgerStore(db)

	now := time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)
	seedApprovedActivity(t, db, emp.ID, 100, now)
	seedApprovedActivity(t, db, emp.ID, 60, now.Add(time.Hour))

	rs := NewRedemptionStore(db)
	r := createRedemption(t, rs, emp.ID, now)
	if err := rs.SetStatus(r.ID, model.RedemptionApproved, &now, nil); err != nil {
		t.Fatalf("approve redemption: %v", err)
	}

	lifetime, err := ls.LifetimePoints(emp.ID)
	if err != nil {
		t.Fatalf("lifetime points: %v", err)
	}
	if lifetime != 160 {
		t.Errorf("lifetime = %d, want 160 (spending must not reduce it)", lifetime)
	}
}

func TestLedgerAllBalancesSortedDescending(t *testing.T) {
	db := setupTestDB(t)
	low := seedEmployee(t, db, "Aaron Bell", model.RoleEmployee)
	high := seedEmployee(t, db, "Zoe Park", model.RoleEmployee)
	mid := seedEmployee(t, db, "Marcus Webb", model.RoleEmployee)

	now := time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)
	seedApprovedActivity(t, db, low.ID, 10, now)
	seedApprovedActivity(t, db, high.ID, 200, now)
	seedApprovedActivity(t, db, mid.ID, 75, now)

	balances, err := NewLedgerStore(db).AllBalances()
	if err != nil {
		t.Fatalf("all balances: %v", err)
	}
	if len(balances) != 3 {
		t.Fatalf("expected 3 balances, got %d", len(balances))
	}
	want := []int64{high.ID, mid.ID, low.ID}
	for i, id := range want {
		if balances[i].EmployeeID != id {
			t.Errorf("balances[%d].EmployeeID = %d, want %d", i, balances[i].EmployeeID, id)
		}
	}
}

// Points are copied from the catalog at submission time. A later catalog
// change must not reprice entries already in the ledger.
func TestLedgerPointsImmutableAfterWrite(t *testing.T) {
	db := setupTestDB(t)
	emp := seedEmployee(t, db, "Priya Nair", model.RoleEmployee)
	ls := NewLedgerStore(db)

	now := time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)
	a := seedApprovedActivity(t, db, emp.ID, 50, now)

	got, err := NewActivityStore(db).GetByID(a.ID)
	if err != nil {
		t.Fatalf("get activity: %v", err)
	}
	if got.PointsEarned != 50 {
		t.Errorf("points = %d, want the 50 stamped at submission", got.PointsEarned)
	}

	bal, err := ls.Balance(emp.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if bal.Balance != 50 {
		t.Errorf("balance = %d, want 50", bal.Balance)
	}
}
