package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/calebwray/kudos/internal/model"
)

type RedemptionStore struct {
	db dbtx
}

func NewRedemptionStore(db *sql.DB) *RedemptionStore {
	return &RedemptionStore{db: db}
}

func (s *RedemptionStore) WithTx(tx *sql.Tx) *RedemptionStore {
	return &RedemptionStore{db: tx}
}

func scanRedemption(scanner interface{ Scan(...any) error }) (*model.Redemption, error) {
	var r model.Redemption
	var rewardType, status string
	var approvedAt, fulfilledAt sql.NullTime

	err := scanner.Scan(
		&r.ID, &r.EmployeeID, &rewardType, &r.RewardName, &r.PointsRequired,
		&r.RequestDetails, &status, &r.CreatedAt, &approvedAt, &fulfilledAt,
	)
	if err != nil {
		return nil, err
	}

	r.RewardType = model.RewardType(rewardType)
	r.Status = model.RedemptionStatus(status)
	if approvedAt.Valid {
		r.ApprovedAt = &approvedAt.Time
	}
	if fulfilledAt.Valid {
		r.FulfilledAt = &fulfilledAt.Time
	}
	return &r, nil
}

const redemptionCols = `id, employee_id, reward_type, reward_name, points_required, request_details, status, created_at, approved_at, fulfilled_at`

// Create appends a redemption request in its initial state. Points are not
// debited until the entry reaches approved.
func (s *RedemptionStore) Create(r *model.Redemption) (*model.Redemption, error) {
	result, err := s.db.Exec(
		`INSERT INTO redemptions (employee_id, reward_type, reward_name, points_required, request_details, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.EmployeeID, string(r.RewardType), r.RewardName, r.PointsRequired, r.RequestDetails, string(r.Status), r.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert redemption: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *RedemptionStore) GetByID(id int64) (*model.Redemption, error) {
	row := s.db.QueryRow(`SELECT `+redemptionCols+` FROM redemptions WHERE id = ?`, id)
	r, err := scanRedemption(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get redemption: %w", err)
	}
	return r, nil
}

func (s *RedemptionStore) ListByEmployee(employeeID int64) ([]model.Redemption, error) {
	rows, err := s.db.Query(
		`SELECT `+redemptionCols+` FROM redemptions WHERE employee_id = ? ORDER BY created_at DESC, id DESC`,
		employeeID,
	)
	if err != nil {
		return nil, fmt.Errorf("list redemptions: %w", err)
	}
	defer rows.Close()

	var redemptions []model.Redemption
	for rows.Next() {
		r, err := scanRedemption(rows)
		if err != nil {
			return nil, fmt.Errorf("scan redemption: %w", err)
		}
		redemptions = append(redemptions, *r)
	}
	return redemptions, rows.Err()
}

// ListPending returns redemptions awaiting either sign-off, oldest first.
func (s *RedemptionStore) ListPending() ([]model.Redemption, error) {
	rows, err := s.db.Query(
		`SELECT `+redemptionCols+` FROM redemptions WHERE status IN (?, ?) ORDER BY created_at ASC, id ASC`,
		string(model.RedemptionPending), string(model.RedemptionManagerApproval),
	)
	if err != nil {
		return nil, fmt.Errorf("list pending redemptions: %w", err)
	}
	defer rows.Close()

	var redemptions []model.Redemption
	for rows.Next() {
		r, err := scanRedemption(rows)
		if err != nil {
			return nil, fmt.Errorf("scan redemption: %w", err)
		}
		redemptions = append(redemptions, *r)
	}
	return redemptions, rows.Err()
}

// SetStatus transitions a redemption, stamping approval or fulfillment
// time. The caller enforces the state machine before writing.
func (s *RedemptionStore) SetStatus(id int64, status model.RedemptionStatus, approvedAt, fulfilledAt *time.Time) error {
	var appAt, fulAt sql.NullTime
	if approvedAt != nil {
		appAt = sql.NullTime{Time: *approvedAt, Valid: true}
	}
	if fulfilledAt != nil {
		fulAt = sql.NullTime{Time: *fulfilledAt, Valid: true}
	}

	_, err := s.db.Exec(
		`UPDATE redemptions SET status = ?,
		        approved_at = COALESCE(?, approved_at),
		        fulfilled_at = COALESCE(?, fulfilled_at)
		 WHERE id = ?`,
		string(status), appAt, fulAt, id,
	)
	if err != nil {
		return fmt.Errorf("set redemption status: %w", err)
	}
	return nil
}
