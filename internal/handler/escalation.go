package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/calebwray/kudos/internal/program"
	"github.com/calebwray/kudos/internal/validation"
)

type EscalationHandler struct {
	svc    *program.Service
	logger *slog.Logger
}

func NewEscalationHandler(svc *program.Service, logger *slog.Logger) *EscalationHandler {
	return &EscalationHandler{svc: svc, logger: logger}
}

type recordEscalationRequest struct {
	EmployeeID     int64  `json:"employee_id"`
	ReportedBy     int64  `json:"reported_by"`
	Type           string `json:"escalation_type"`
	Subtype        string `json:"escalation_subtype"`
	PointsDeducted int    `json:"points_deducted"`
	Description    string `json:"description"`
}

func (h *EscalationHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req recordEscalationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	escalation, err := h.svc.RecordEscalation(r.Context(), req.ReportedBy, req.EmployeeID, validation.EscalationDraft{
		Type:           req.Type,
		Subtype:        req.Subtype,
		PointsDeducted: req.PointsDeducted,
		Description:    req.Description,
	})
	if err != nil {
		h.logger.Debug("escalation rejected", "employee_id", req.EmployeeID, "reporter_id", req.ReportedBy, "error", err)
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, escalation)
}
