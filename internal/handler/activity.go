package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/calebwray/kudos/internal/program"
	"github.com/calebwray/kudos/internal/validation"
)

type ActivityHandler struct {
	svc    *program.Service
	logger *slog.Logger
}

func NewActivityHandler(svc *program.Service, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{svc: svc, logger: logger}
}

type submitActivityRequest struct {
	EmployeeID  int64  `json:"employee_id"`
	Category    string `json:"category"`
	Subtype     string `json:"subtype"`
	Description string `json:"description"`
	ProofURL    string `json:"proof_url"`
}

func (h *ActivityHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	activity, err := h.svc.SubmitActivity(r.Context(), req.EmployeeID, validation.ActivityDraft{
		Category:    req.Category,
		Subtype:     req.Subtype,
		Description: req.Description,
		ProofURL:    req.ProofURL,
	})
	if err != nil {
		h.logger.Debug("activity submission rejected", "employee_id", req.EmployeeID, "error", err)
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, activity)
}

func (h *ActivityHandler) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, err := parseIDParam(r, "employee_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid employee id"})
		return
	}

	activities, err := h.svc.Activities(employeeID)
	if err != nil {
		h.logger.Error("failed to list activities", "employee_id", employeeID, "error", err)
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, activities)
}

func (h *ActivityHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	activities, err := h.svc.PendingActivities()
	if err != nil {
		h.logger.Error("failed to list pending activities", "error", err)
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, activities)
}

type reviewRequest struct {
	ReviewerID int64 `json:"reviewer_id"`
}

func (h *ActivityHandler) Approve(w http.ResponseWriter, r *http.Request) {
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

	activity, err := h.svc.ApproveActivity(r.Context(), req.ReviewerID, id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, activity)
}

func (h *ActivityHandler) Reject(w http.ResponseWriter, r *http.Request) {
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

	activity, err := h.svc.RejectActivity(r.Context(), req.ReviewerID, id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, activity)
}
