package store

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/calebwray/kudos/internal/model"
)

// LedgerStore derives balances from the append-only ledger. There is no
// stored "current points" column anywhere: the derivation below is the only
// source of truth, and debiting writes rebind it to their transaction so
// the read and the write are atomic.
type LedgerStore struct {
	db dbtx
}

func NewLedgerStore(db *sql.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

func (s *LedgerStore) WithTx(tx *sql.Tx) *LedgerStore {
	return &LedgerStore{db: tx}
}

// Balance computes one employee's balance:
// approved activity points - approved-or-fulfilled redemption points -
// escalation points.
func (s *LedgerStore) Balance(employeeID int64) (*model.PointBalance, error) {
	var earned sql.NullInt64
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(points_earned), 0) FROM activities WHERE employee_id = ? AND status = ?`,
		employeeID, string(model.ActivityApproved),
	).Scan(&earned)
	if err != nil {
		return nil, fmt.Errorf("sum points earned: %w", err)
	}

	var spent sql.NullInt64
	err = s.db.QueryRow(
		`SELECT COALESCE(SUM(points_required), 0) FROM redemptions WHERE employee_id = ? AND status IN (?, ?)`,
		employeeID, string(model.RedemptionApproved), string(model.RedemptionFulfilled),
	).Scan(&spent)
	if err != nil {
		return nil, fmt.Errorf("sum points spent: %w", err)
	}

	var deducted sql.NullInt64
	err = s.db.QueryRow(
		`SELECT COALESCE(SUM(points_deducted), 0) FROM escalations WHERE employee_id = ?`,
		employeeID,
	).Scan(&deducted)
	if err != nil {
		return nil, fmt.Errorf("sum points deducted: %w", err)
	}

	var name string
	err = s.db.QueryRow(`SELECT name FROM employees WHERE id = ?`, employeeID).Scan(&name)
	if err == sql.ErrNoRows {
		name = "Unknown"
	} else if err != nil {
		return nil, fmt.Errorf("get employee name: %w", err)
	}

	totalEarned := int(earned.Int64)
	totalSpent := int(spent.Int64)
	totalDeducted := int(deducted.Int64)

	return &model.PointBalance{
		EmployeeID:    employeeID,
		EmployeeName:  name,
		TotalEarned:   totalEarned,
		TotalSpent:    totalSpent,
		TotalDeducted: totalDeducted,
		Balance:       totalEarned - totalSpent - totalDeducted,
	}, nil
}

// LifetimePoints sums all points ever approved for an employee, ignoring
// spending and deductions. Feeds the annual performance-impact grade.
func (s *LedgerStore) LifetimePoints(employeeID int64) (int, error) {
	var earned sql.NullInt64
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(points_earned), 0) FROM activities WHERE employee_id = ? AND status = ?`,
		employeeID, string(model.ActivityApproved),
	).Scan(&earned)
	if err != nil {
		return 0, fmt.Errorf("sum lifetime points: %w", err)
	}
	return int(earned.Int64), nil
}

// AllBalances returns every employee's balance, highest first.
func (s *LedgerStore) AllBalances() ([]model.PointBalance, error) {
	rows, err := s.db.Query(`SELECT id FROM employees ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan employee id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate employees: %w", err)
	}

	var balances []model.PointBalance
	for _, id := range ids {
		b, err := s.Balance(id)
		if err != nil {
			return nil, err
		}
		balances = append(balances, *b)
	}

	sort.SliceStable(balances, func(i, j int) bool {
		return balances[i].Balance > balances[j].Balance
	})
	return balances, nil
}
