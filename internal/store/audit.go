package store

import (
	"database/sql"
	"fmt"

	"github.com/calebwray/kudos/internal/model"
)

// AuditStore records every balance-changing event. Append-only: entries are
// never edited or deleted.
type AuditStore struct {
	db dbtx
}

func NewAuditStore(db *sql.DB) *AuditStore {
	return &AuditStore{db: db}
}

func (s *AuditStore) WithTx(tx *sql.Tx) *AuditStore {
	return &AuditStore{db: tx}
}

func scanAuditEntry(scanner interface{ Scan(...any) error }) (*model.AuditEntry, error) {
	var a model.AuditEntry
	var action string
	err := scanner.Scan(&a.ID, &a.EmployeeID, &action, &a.Description, &a.PointsChange, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.Action = model.AuditAction(action)
	return &a, nil
}

const auditCols = `id, employee_id, action_type, description, points_change, created_at`

func (s *AuditStore) Append(a *model.AuditEntry) error {
	_, err := s.db.Exec(
		`INSERT INTO audit_log (employee_id, action_type, description, points_change, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		a.EmployeeID, string(a.Action), a.Description, a.PointsChange, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// ListByEmployee returns the history view, newest first. A limit of 0 means
// no limit.
func (s *AuditStore) ListByEmployee(employeeID int64, limit int) ([]model.AuditEntry, error) {
	query := `SELECT ` + auditCols + ` FROM audit_log WHERE employee_id = ? ORDER BY created_at DESC, id DESC`
	args := []any{employeeID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []model.AuditEntry
	for rows.Next() {
		a, err := scanAuditEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, *a)
	}
	return entries, rows.Err()
}
