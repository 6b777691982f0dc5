package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/calebwray/kudos/internal/model"
)

type ActivityStore struct {
	db dbtx
}

func NewActivityStore(db *sql.DB) *ActivityStore {
	return &ActivityStore{db: db}
}

func (s *ActivityStore) WithTx(tx *sql.Tx) *ActivityStore {
	return &ActivityStore{db: tx}
}

func scanActivity(scanner interface{ Scan(...any) error }) (*model.Activity, error) {
	var a model.Activity
	var status string
	var approvedBy sql.NullInt64
	var approvedAt sql.NullTime

	err := scanner.Scan(
		&a.ID, &a.EmployeeID, &a.Category, &a.Subtype, &a.Description,
		&a.ProofURL, &a.PointsEarned, &status, &a.CreatedAt, &approvedBy, &approvedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Status = model.ActivityStatus(status)
	if approvedBy.Valid {
		a.ApprovedBy = &approvedBy.Int64
	}
	if approvedAt.Valid {
		a.ApprovedAt = &approvedAt.Time
	}
	return &a, nil
}

const activityCols = `id, employee_id, activity_type, activity_subtype, description, proof_url, points_earned, status, created_at, approved_by, approved_at`

// Create appends a pending activity. points_earned is copied from the
// catalog at submission time and never recalculated.
func (s *ActivityStore) Create(a *model.Activity) (*model.Activity, error) {
	result, err := s.db.Exec(
		`INSERT INTO activities (employee_id, activity_type, activity_subtype, description, proof_url, points_earned, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.EmployeeID, a.Category, a.Subtype, a.Description, a.ProofURL, a.PointsEarned, string(model.ActivityPending), a.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert activity: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ActivityStore) GetByID(id int64) (*model.Activity, error) {
	row := s.db.QueryRow(`SELECT `+activityCols+` FROM activities WHERE id = ?`, id)
	a, err := scanActivity(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}
	return a, nil
}

func (s *ActivityStore) ListByEmployee(employeeID int64) ([]model.Activity, error) {
	rows, err := s.db.Query(
		`SELECT `+activityCols+` FROM activities WHERE employee_id = ? ORDER BY created_at DESC, id DESC`,
		employeeID,
	)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var activities []model.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, *a)
	}
	return activities, rows.Err()
}

// ListApprovedByEmployee feeds the expiration calculator.
func (s *ActivityStore) ListApprovedByEmployee(employeeID int64) ([]model.Activity, error) {
	rows, err := s.db.Query(
		`SELECT `+activityCols+` FROM activities WHERE employee_id = ? AND status = ? ORDER BY approved_at ASC`,
		employeeID, string(model.ActivityApproved),
	)
	if err != nil {
		return nil, fmt.Errorf("list approved activities: %w", err)
	}
	defer rows.Close()

	var activities []model.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, *a)
	}
	return activities, rows.Err()
}

// ListPending returns the review queue, oldest first.
func (s *ActivityStore) ListPending() ([]model.Activity, error) {
	rows, err := s.db.Query(
		`SELECT `+activityCols+` FROM activities WHERE status = ? ORDER BY created_at ASC, id ASC`,
		string(model.ActivityPending),
	)
	if err != nil {
		return nil, fmt.Errorf("list pending activities: %w", err)
	}
	defer rows.Close()

	var activities []model.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, *a)
	}
	return activities, rows.Err()
}

// CountSameDaySubtype counts one employee's submissions of one subtype in
// [dayStart, dayEnd). The scan stays bounded to a single employee's
// same-day entries.
func (s *ActivityStore) CountSameDaySubtype(employeeID int64, subtype string, dayStart, dayEnd time.Time) (int, error) {
	var n int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM activities WHERE employee_id = ? AND activity_subtype = ? AND created_at >= ? AND created_at < ?`,
		employeeID, subtype, dayStart, dayEnd,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count same-day activities: %w", err)
	}
	return n, nil
}

// SetStatus transitions an activity, stamping the approver and time on
// approval. The caller enforces the state machine before writing.
func (s *ActivityStore) SetStatus(id int64, status model.ActivityStatus, approvedBy *int64, approvedAt *time.Time) error {
	var by sql.NullInt64
	if approvedBy != nil {
		by = sql.NullInt64{Int64: *approvedBy, Valid: true}
	}
	var at sql.NullTime
	if approvedAt != nil {
		at = sql.NullTime{Time: *approvedAt, Valid: true}
	}

	_, err := s.db.Exec(
		`UPDATE activities SET status = ?, approved_by = ?, approved_at = ? WHERE id = ?`,
		string(status), by, at, id,
	)
	if err != nil {
		return fmt.Errorf("set activity status: %w", err)
	}
	return nil
}
