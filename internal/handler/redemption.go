package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/calebwray/kudos/internal/model"
	"github.com/calebwray/kudos/internal/program"
	"github.com/calebwray/kudos/internal/validation"
)

type RedemptionHandler struct {
	svc    *program.Service
	logger *slog.Logger
}

func NewRedemptionHandler(svc *program.Service, logger *slog.Logger) *RedemptionHandler {
	return &RedemptionHandler{svc: svc, logger: logger}
}

type submitRedemptionRequest struct {
	EmployeeID     int64  `json:"employee_id"`
	RewardType     string `json:"reward_type"`
	RewardName     string `json:"reward_name"`
	RequestDetails string `json:"request_details"`
}

func (h *RedemptionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRedemptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	redemption, err := h.svc.SubmitRedemption(r.Context(), req.EmployeeID, validation.RedemptionDraft{
		RewardType:     model.RewardType(req.RewardType),
		RewardName:     req.RewardName,
		RequestDetails: req.RequestDetails,
	})
	if err != nil {
		h.logger.Debug("redemption request rejected", "employee_id", req.EmployeeID, "error", err)
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, redemption)
}

func (h *RedemptionHandler) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, err := parseIDParam(r, "employee_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid employee id"})
		return
	}

	redemptions, err := h.svc.Redemptions(employeeID)
	if err != nil {
		h.logger.Error("failed to list redemptions", "employee_id", employeeID, "error", err)
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, redemptions)
}

func (h *RedemptionHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	redemptions, err := h.svc.PendingRedemptions()
	if err != nil {
		h.logger.Error("failed to list pending redemptions", "error", err)
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, redemptions)
}

func (h *RedemptionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	redemption, err := h.svc.ApproveRedemption(r.Context(), req.ReviewerID, id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, redemption)
}

func (h *RedemptionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	redemption, err := h.svc.RejectRedemption(r.Context(), req.ReviewerID, id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, redemption)
}

func (h *RedemptionHandler) Fulfill(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	redemption, err := h.svc.FulfillRedemption(r.Context(), req.ReviewerID, id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, redemption)
}
