// Package program is the workflow engine behind the incentive ledger: it
// decides whether a submission is permitted, moves entries through their
// state machines, and guarantees the derived balance never goes negative.
package program

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/calebwray/kudos/internal/catalog"
	"github.com/calebwray/kudos/internal/clock"
	"github.com/calebwray/kudos/internal/eligibility"
	"github.com/calebwray/kudos/internal/expiry"
	"github.com/calebwray/kudos/internal/model"
	"github.com/calebwray/kudos/internal/store"
	"github.com/calebwray/kudos/internal/validation"
)

const (
	opTimeout     = 5 * time.Second
	retryBase     = 50 * time.Millisecond
	retryAttempts = 3
)

// lockStripes bounds memory for per-employee serialization. Two employees
// sharing a stripe serialize against each other, which is harmless.
const lockStripes = 64

type Service struct {
	db      *sql.DB
	catalog *catalog.Catalog
	clock   clock.Clock
	logger  *slog.Logger

	employees   *store.EmployeeStore
	activities  *store.ActivityStore
	redemptions *store.RedemptionStore
	escalations *store.EscalationStore
	audits      *store.AuditStore
	ledger      *store.LedgerStore

	locks [lockStripes]sync.Mutex
}

func NewService(db *sql.DB, cat *catalog.Catalog, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		db:          db,
		catalog:     cat,
		clock:       clk,
		logger:      logger,
		employees:   store.NewEmployeeStore(db),
		activities:  store.NewActivityStore(db),
		redemptions: store.NewRedemptionStore(db),
		escalations: store.NewEscalationStore(db),
		audits:      store.NewAuditStore(db),
		ledger:      store.NewLedgerStore(db),
	}
}

// reviewRoles may transition entries through their state machines.
var reviewRoles = map[model.Role]bool{
	model.RoleHR:             true,
	model.RoleTeamLead:       true,
	model.RoleManager:        true,
	model.RoleOperationsHead: true,
}

// managerRoles may clear the manager-approval gate on redemptions.
var managerRoles = map[model.Role]bool{
	model.RoleManager:        true,
	model.RoleOperationsHead: true,
}

// --- Activities ---

// SubmitActivity runs the full submission pipeline: eligibility, field
// validation, daily quota, then an atomic append of the pending entry and
// its audit record. The entry is either fully valid and appended or not
// created at all.
func (s *Service) SubmitActivity(ctx context.Context, employeeID int64, d validation.ActivityDraft) (*model.Activity, error) {
	emp, err := s.employees.GetByID(employeeID)
	if err != nil {
		return nil, classify(err)
	}
	if res := eligibility.Check(emp); !res.Eligible {
		return nil, &EligibilityError{Reason: res.Reason}
	}

	now := s.clock.Now()
	if res := validation.Activity(s.catalog, d, now); !res.Valid {
		return nil, &ValidationError{Rules: res.Errors}
	}
	at, _ := s.catalog.Activity(d.Category, d.Subtype)

	var created *model.Activity
	err = s.withEmployeeTx(ctx, employeeID, func(tx *sql.Tx) error {
		activities := s.activities.WithTx(tx)

		dayStart := startOfDay(now)
		count, err := activities.CountSameDaySubtype(employeeID, d.Subtype, dayStart, dayStart.Add(24*time.Hour))
		if err != nil {
			return err
		}
		if q := validation.Quota(at, count, now); !q.Allowed {
			return &RateLimitError{Subtype: d.Subtype, Quota: q.Quota, HoursUntilReset: q.HoursUntilReset}
		}

		created, err = activities.Create(&model.Activity{
			EmployeeID:   employeeID,
			Category:     d.Category,
			Subtype:      d.Subtype,
			Description:  strings.TrimSpace(d.Description),
			ProofURL:     strings.TrimSpace(d.ProofURL),
			PointsEarned: at.Points,
			CreatedAt:    now,
		})
		if err != nil {
			return err
		}

		return s.audits.WithTx(tx).Append(&model.AuditEntry{
			EmployeeID:  employeeID,
			Action:      model.AuditActivitySubmitted,
			Description: fmt.Sprintf("submitted %s/%s for %d points", d.Category, d.Subtype, at.Points),
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("activity submitted", "activity_id", created.ID, "employee_id", employeeID, "subtype", d.Subtype, "points", at.Points)
	return created, nil
}

// ApproveActivity moves a pending activity to approved, stamping the
// reviewer and time, and credits its points to the balance.
func (s *Service) ApproveActivity(ctx context.Context, reviewerID, activityID int64) (*model.Activity, error) {
	if err := s.checkReviewer(reviewerID); err != nil {
		return nil, err
	}

	target, err := s.activities.GetByID(activityID)
	if err != nil {
		return nil, classify(err)
	}
	if target == nil {
		return nil, &NotFoundError{Kind: "activity", ID: activityID}
	}

	now := s.clock.Now()
	var out *model.Activity
	err = s.withEmployeeTx(ctx, target.EmployeeID, func(tx *sql.Tx) error {
		activities := s.activities.WithTx(tx)
		a, err := activities.GetByID(activityID)
		if err != nil {
			return err
		}
		if a == nil {
			return &NotFoundError{Kind: "activity", ID: activityID}
		}
		if a.Status.Terminal() {
			return &TransitionError{Kind: "activity", From: string(a.Status), To: string(model.ActivityApproved)}
		}

		if err := activities.SetStatus(activityID, model.ActivityApproved, &reviewerID, &now); err != nil {
			return err
		}
		if err := s.audits.WithTx(tx).Append(&model.AuditEntry{
			EmployeeID:   a.EmployeeID,
			Action:       model.AuditActivityApproved,
			Description:  fmt.Sprintf("approved %s/%s", a.Category, a.Subtype),
			PointsChange: a.PointsEarned,
			CreatedAt:    now,
		}); err != nil {
			return err
		}

		out, err = activities.GetByID(activityID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("activity approved", "activity_id", activityID, "employee_id", out.EmployeeID, "reviewer_id", reviewerID, "points", out.PointsEarned)
	return out, nil
}

// RejectActivity moves a pending activity to rejected. Terminal: the entry
// never re-enters review.
func (s *Service) RejectActivity(ctx context.Context, reviewerID, activityID int64) (*model.Activity, error) {
	if err := s.checkReviewer(reviewerID); err != nil {
		return nil, err
	}

	target, err := s.activities.GetByID(activityID)
	if err != nil {
		return nil, classify(err)
	}
	if target == nil {
		return nil, &NotFoundError{Kind: "activity", ID: activityID}
	}

	now := s.clock.Now()
	var out *model.Activity
	err = s.withEmployeeTx(ctx, target.EmployeeID, func(tx *sql.Tx) error {
		activities := s.activities.WithTx(tx)
		a, err := activities.GetByID(activityID)
		if err != nil {
			return err
		}
		if a == nil {
			return &NotFoundError{Kind: "activity", ID: activityID}
		}
		if a.Status.Terminal() {
			return &TransitionError{Kind: "activity", From: string(a.Status), To: string(model.ActivityRejected)}
		}

		if err := activities.SetStatus(activityID, model.ActivityRejected, &reviewerID, &now); err != nil {
			return err
		}
		if err := s.audits.WithTx(tx).Append(&model.AuditEntry{
			EmployeeID:  a.EmployeeID,
			Action:      model.AuditActivityRejected,
			Description: fmt.Sprintf("rejected %s/%s", a.Category, a.Subtype),
			CreatedAt:   now,
		}); err != nil {
			return err
		}

		out, err = activities.GetByID(activityID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// --- Redemptions ---

// SubmitRedemption checks eligibility, the catalog, and current balance
// (including the reward's minimum-balance floor) before appending a pending
// request. Points are not debited here; the authoritative check repeats at
// approval.
func (s *Service) SubmitRedemption(ctx context.Context, employeeID int64, d validation.RedemptionDraft) (*model.Redemption, error) {
	emp, err := s.employees.GetByID(employeeID)
	if err != nil {
		return nil, classify(err)
	}
	if res := eligibility.Check(emp); !res.Eligible {
		return nil, &EligibilityError{Reason: res.Reason}
	}
	if res := validation.Redemption(s.catalog, d); !res.Valid {
		return nil, &ValidationError{Rules: res.Errors}
	}
	reward, _ := s.catalog.Reward(d.RewardType, d.RewardName)

	now := s.clock.Now()
	var created *model.Redemption
	err = s.withEmployeeTx(ctx, employeeID, func(tx *sql.Tx) error {
		bal, err := s.ledger.WithTx(tx).Balance(employeeID)
		if err != nil {
			return err
		}
		if bal.Balance < reward.Points {
			return &InsufficientBalanceError{Current: bal.Balance, Required: reward.Points}
		}
		if after := bal.Balance - reward.Points; after < reward.MinBalanceAfterRedeeming {
			return &ValidationError{Rules: []string{
				fmt.Sprintf("%s requires at least %d points left after redeeming, would leave %d", reward.Name, reward.MinBalanceAfterRedeeming, after),
			}}
		}

		created, err = s.redemptions.WithTx(tx).Create(&model.Redemption{
			EmployeeID:     employeeID,
			RewardType:     d.RewardType,
			RewardName:     d.RewardName,
			PointsRequired: reward.Points,
			RequestDetails: strings.TrimSpace(d.RequestDetails),
			Status:         model.RedemptionPending,
			CreatedAt:      now,
		})
		if err != nil {
			return err
		}

		return s.audits.WithTx(tx).Append(&model.AuditEntry{
			EmployeeID:  employeeID,
			Action:      model.AuditRedemptionRequested,
			Description: fmt.Sprintf("requested %s for %d points", reward.Name, reward.Points),
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("redemption requested", "redemption_id", created.ID, "employee_id", employeeID, "reward", reward.Name, "points", reward.Points)
	return created, nil
}

// ApproveRedemption advances a redemption one step. Manager-gated rewards
// first move pending -> pending_manager_approval; clearing that gate needs
// a manager role. The step into approved is the points debit: it re-checks
// sufficiency and the reward floor against an authoritative in-transaction
// read, so two approvals that jointly exceed the balance cannot both land.
func (s *Service) ApproveRedemption(ctx context.Context, reviewerID, redemptionID int64) (*model.Redemption, error) {
	reviewer, err := s.reviewer(reviewerID)
	if err != nil {
		return nil, err
	}

	target, err := s.redemptions.GetByID(redemptionID)
	if err != nil {
		return nil, classify(err)
	}
	if target == nil {
		return nil, &NotFoundError{Kind: "redemption", ID: redemptionID}
	}

	now := s.clock.Now()
	var out *model.Redemption
	err = s.withEmployeeTx(ctx, target.EmployeeID, func(tx *sql.Tx) error {
		redemptions := s.redemptions.WithTx(tx)
		r, err := redemptions.GetByID(redemptionID)
		if err != nil {
			return err
		}
		if r == nil {
			return &NotFoundError{Kind: "redemption", ID: redemptionID}
		}

		reward, inCatalog := s.catalog.Reward(r.RewardType, r.RewardName)

		switch r.Status {
		case model.RedemptionPending:
			if inCatalog && reward.RequiresManagerApproval {
				if err := redemptions.SetStatus(redemptionID, model.RedemptionManagerApproval, nil, nil); err != nil {
					return err
				}
				out, err = redemptions.GetByID(redemptionID)
				return err
			}
		case model.RedemptionManagerApproval:
			if !managerRoles[reviewer.Role] {
				return &AuthorizationError{Reason: fmt.Sprintf("%s requires manager approval", r.RewardName)}
			}
		default:
			return &TransitionError{Kind: "redemption", From: string(r.Status), To: string(model.RedemptionApproved)}
		}

		bal, err := s.ledger.WithTx(tx).Balance(r.EmployeeID)
		if err != nil {
			return err
		}
		if bal.Balance < r.PointsRequired {
			return &InsufficientBalanceError{Current: bal.Balance, Required: r.PointsRequired}
		}
		if inCatalog {
			if after := bal.Balance - r.PointsRequired; after < reward.MinBalanceAfterRedeeming {
				return &ValidationError{Rules: []string{
					fmt.Sprintf("%s requires at least %d points left after redeeming, would leave %d", r.RewardName, reward.MinBalanceAfterRedeeming, after),
				}}
			}
		}

		if err := redemptions.SetStatus(redemptionID, model.RedemptionApproved, &now, nil); err != nil {
			return err
		}
		if err := s.audits.WithTx(tx).Append(&model.AuditEntry{
			EmployeeID:   r.EmployeeID,
			Action:       model.AuditRedemptionApproved,
			Description:  fmt.Sprintf("approved %s", r.RewardName),
			PointsChange: -r.PointsRequired,
			CreatedAt:    now,
		}); err != nil {
			return err
		}

		out, err = redemptions.GetByID(redemptionID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("redemption advanced", "redemption_id", redemptionID, "employee_id", out.EmployeeID, "reviewer_id", reviewerID, "status", out.Status)
	return out, nil
}

// RejectRedemption is allowed any time before fulfillment.
func (s *Service) RejectRedemption(ctx context.Context, reviewerID, redemptionID int64) (*model.Redemption, error) {
	if err := s.checkReviewer(reviewerID); err != nil {
		return nil, err
	}

	target, err := s.redemptions.GetByID(redemptionID)
	if err != nil {
		return nil, classify(err)
	}
	if target == nil {
		return nil, &NotFoundError{Kind: "redemption", ID: redemptionID}
	}

	now := s.clock.Now()
	var out *model.Redemption
	err = s.withEmployeeTx(ctx, target.EmployeeID, func(tx *sql.Tx) error {
		redemptions := s.redemptions.WithTx(tx)
		r, err := redemptions.GetByID(redemptionID)
		if err != nil {
			return err
		}
		if r == nil {
			return &NotFoundError{Kind: "redemption", ID: redemptionID}
		}
		if r.Status.Terminal() || r.Status == model.RedemptionApproved {
			// Approved redemptions have already debited points; undoing
			// one is a new reversing entry, not a rejection.
			return &TransitionError{Kind: "redemption", From: string(r.Status), To: string(model.RedemptionRejected)}
		}

		if err := redemptions.SetStatus(redemptionID, model.RedemptionRejected, nil, nil); err != nil {
			return err
		}
		if err := s.audits.WithTx(tx).Append(&model.AuditEntry{
			EmployeeID:  r.EmployeeID,
			Action:      model.AuditRedemptionRejected,
			Description: fmt.Sprintf("rejected %s", r.RewardName),
			CreatedAt:   now,
		}); err != nil {
			return err
		}

		out, err = redemptions.GetByID(redemptionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FulfillRedemption marks physical delivery of an approved reward. The
// points were already debited at approval; this is the terminal sign-off.
func (s *Service) FulfillRedemption(ctx context.Context, reviewerID, redemptionID int64) (*model.Redemption, error) {
	if err := s.checkReviewer(reviewerID); err != nil {
		return nil, err
	}

	target, err := s.redemptions.GetByID(redemptionID)
	if err != nil {
		return nil, classify(err)
	}
	if target == nil {
		return nil, &NotFoundError{Kind: "redemption", ID: redemptionID}
	}

	now := s.clock.Now()
	var out *model.Redemption
	err = s.withEmployeeTx(ctx, target.EmployeeID, func(tx *sql.Tx) error {
		redemptions := s.redemptions.WithTx(tx)
		r, err := redemptions.GetByID(redemptionID)
		if err != nil {
			return err
		}
		if r == nil {
			return &NotFoundError{Kind: "redemption", ID: redemptionID}
		}
		if r.Status != model.RedemptionApproved {
			return &TransitionError{Kind: "redemption", From: string(r.Status), To: string(model.RedemptionFulfilled)}
		}

		if err := redemptions.SetStatus(redemptionID, model.RedemptionFulfilled, nil, &now); err != nil {
			return err
		}
		if err := s.audits.WithTx(tx).Append(&model.AuditEntry{
			EmployeeID:  r.EmployeeID,
			Action:      model.AuditRedemptionFulfilled,
			Description: fmt.Sprintf("fulfilled %s", r.RewardName),
			CreatedAt:   now,
		}); err != nil {
			return err
		}

		out, err = redemptions.GetByID(redemptionID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("redemption fulfilled", "redemption_id", redemptionID, "employee_id", out.EmployeeID)
	return out, nil
}

// --- Escalations ---

// RecordEscalation appends an administrative deduction. Single-shot: there
// is no workflow and no undo, corrections are new reversing entries. The
// deduction re-checks the balance so it cannot drive it negative.
func (s *Service) RecordEscalation(ctx context.Context, reporterID, employeeID int64, d validation.EscalationDraft) (*model.Escalation, error) {
	reporter, err := s.employees.GetByID(reporterID)
	if err != nil {
		return nil, classify(err)
	}
	if reporter == nil || !validation.CanEscalate(reporter.Role) {
		return nil, &AuthorizationError{Reason: "role is not authorized to record escalations"}
	}

	target, err := s.employees.GetByID(employeeID)
	if err != nil {
		return nil, classify(err)
	}
	if target == nil {
		return nil, &NotFoundError{Kind: "employee", ID: employeeID}
	}

	if res := validation.Escalation(s.catalog, d); !res.Valid {
		return nil, &ValidationError{Rules: res.Errors}
	}

	now := s.clock.Now()
	var created *model.Escalation
	err = s.withEmployeeTx(ctx, employeeID, func(tx *sql.Tx) error {
		bal, err := s.ledger.WithTx(tx).Balance(employeeID)
		if err != nil {
			return err
		}
		if bal.Balance < d.PointsDeducted {
			return &InsufficientBalanceError{Current: bal.Balance, Required: d.PointsDeducted}
		}

		created, err = s.escalations.WithTx(tx).Create(&model.Escalation{
			EmployeeID:     employeeID,
			Type:           d.Type,
			Subtype:        d.Subtype,
			PointsDeducted: d.PointsDeducted,
			Description:    strings.TrimSpace(d.Description),
			ReportedBy:     reporterID,
			CreatedAt:      now,
		})
		if err != nil {
			return err
		}

		return s.audits.WithTx(tx).Append(&model.AuditEntry{
			EmployeeID:   employeeID,
			Action:       model.AuditEscalationRecorded,
			Description:  fmt.Sprintf("escalation %s/%s: %s", d.Type, d.Subtype, strings.TrimSpace(d.Description)),
			PointsChange: -d.PointsDeducted,
			CreatedAt:    now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("escalation recorded", "escalation_id", created.ID, "employee_id", employeeID, "reporter_id", reporterID, "points", d.PointsDeducted)
	return created, nil
}

// --- Read views ---

func (s *Service) Balance(employeeID int64) (*model.PointBalance, error) {
	b, err := s.ledger.Balance(employeeID)
	if err != nil {
		return nil, classify(err)
	}
	return b, nil
}

func (s *Service) Leaderboard() ([]model.PointBalance, error) {
	balances, err := s.ledger.AllBalances()
	if err != nil {
		return nil, classify(err)
	}
	return balances, nil
}

func (s *Service) History(employeeID int64, limit int) ([]model.AuditEntry, error) {
	entries, err := s.audits.ListByEmployee(employeeID, limit)
	if err != nil {
		return nil, classify(err)
	}
	return entries, nil
}

func (s *Service) Activities(employeeID int64) ([]model.Activity, error) {
	activities, err := s.activities.ListByEmployee(employeeID)
	if err != nil {
		return nil, classify(err)
	}
	return activities, nil
}

func (s *Service) Redemptions(employeeID int64) ([]model.Redemption, error) {
	redemptions, err := s.redemptions.ListByEmployee(employeeID)
	if err != nil {
		return nil, classify(err)
	}
	return redemptions, nil
}

func (s *Service) PendingActivities() ([]model.Activity, error) {
	activities, err := s.activities.ListPending()
	if err != nil {
		return nil, classify(err)
	}
	return activities, nil
}

func (s *Service) PendingRedemptions() ([]model.Redemption, error) {
	redemptions, err := s.redemptions.ListPending()
	if err != nil {
		return nil, classify(err)
	}
	return redemptions, nil
}

// CheckExpiration reports points expiring within the warning window. It
// never debits the balance.
func (s *Service) CheckExpiration(employeeID int64) (expiry.Report, error) {
	approved, err := s.activities.ListApprovedByEmployee(employeeID)
	if err != nil {
		return expiry.Report{}, classify(err)
	}
	return expiry.Check(approved, s.clock.Now()), nil
}

// PerformanceImpact grades an employee's lifetime approved points.
func (s *Service) PerformanceImpact(employeeID int64) (expiry.Impact, error) {
	lifetime, err := s.ledger.LifetimePoints(employeeID)
	if err != nil {
		return expiry.Impact{}, classify(err)
	}
	return expiry.PerformanceImpact(lifetime), nil
}

// --- Internals ---

func (s *Service) reviewer(reviewerID int64) (*model.Employee, error) {
	reviewer, err := s.employees.GetByID(reviewerID)
	if err != nil {
		return nil, classify(err)
	}
	if reviewer == nil || !reviewRoles[reviewer.Role] {
		return nil, &AuthorizationError{Reason: "role is not authorized to review entries"}
	}
	return reviewer, nil
}

func (s *Service) checkReviewer(reviewerID int64) error {
	_, err := s.reviewer(reviewerID)
	return err
}

// withEmployeeTx serializes all balance-touching work for one employee: an
// in-process stripe lock, then a transaction retried with backoff while
// SQLite reports a busy writer. Reads inside fn see the state the commit
// will be based on.
func (s *Service) withEmployeeTx(ctx context.Context, employeeID int64, fn func(tx *sql.Tx) error) error {
	mu := &s.locks[uint64(employeeID)%lockStripes]
	mu.Lock()
	defer mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	backoff := retry.WithMaxRetries(retryAttempts, retry.NewExponential(retryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return markRetryable(err)
		}
		defer tx.Rollback()

		if err := fn(tx); err != nil {
			return markRetryable(err)
		}
		return markRetryable(tx.Commit())
	})
	return classify(err)
}

func markRetryable(err error) error {
	if err != nil && isBusy(err) {
		return retry.RetryableError(err)
	}
	return err
}

func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}

// classify maps store failures onto the retryable taxonomy. Domain errors
// pass through untouched.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if isBusy(err) {
		return &ConcurrencyConflictError{Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, sql.ErrConnDone) {
		return &StoreUnavailableError{Err: err}
	}
	return err
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
