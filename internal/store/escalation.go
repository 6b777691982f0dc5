package store

import (
	"database/sql"
	"fmt"

	"github.com/calebwray/kudos/internal/model"
)

type EscalationStore struct {
	db dbtx
}

func NewEscalationStore(db *sql.DB) *EscalationStore {
	return &EscalationStore{db: db}
}

func (s *EscalationStore) WithTx(tx *sql.Tx) *EscalationStore {
	return &EscalationStore{db: tx}
}

func scanEscalation(scanner interface{ Scan(...any) error }) (*model.Escalation, error) {
	var e model.Escalation
	err := scanner.Scan(
		&e.ID, &e.EmployeeID, &e.Type, &e.Subtype, &e.PointsDeducted,
		&e.Description, &e.ReportedBy, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

const escalationCols = `id, employee_id, escalation_type, escalation_subtype, points_deducted, description, reported_by, created_at`

// Create appends an escalation. The record is final: there is no update or
// delete path, corrections are new entries.
func (s *EscalationStore) Create(e *model.Escalation) (*model.Escalation, error) {
	result, err := s.db.Exec(
		`INSERT INTO escalations (employee_id, escalation_type, escalation_subtype, points_deducted, description, reported_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.EmployeeID, e.Type, e.Subtype, e.PointsDeducted, e.Description, e.ReportedBy, e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert escalation: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *EscalationStore) GetByID(id int64) (*model.Escalation, error) {
	row := s.db.QueryRow(`SELECT `+escalationCols+` FROM escalations WHERE id = ?`, id)
	e, err := scanEscalation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get escalation: %w", err)
	}
	return e, nil
}

func (s *EscalationStore) ListByEmployee(employeeID int64) ([]model.Escalation, error) {
	rows, err := s.db.Query(
		`SELECT `+escalationCols+` FROM escalations WHERE employee_id = ? ORDER BY created_at DESC, id DESC`,
		employeeID,
	)
	if err != nil {
		return nil, fmt.Errorf("list escalations: %w", err)
	}
	defer rows.Close()

	var escalations []model.Escalation
	for rows.Next() {
		e, err := scanEscalation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan escalation: %w", err)
		}
		escalations = append(escalations, *e)
	}
	return escalations, rows.Err()
}
