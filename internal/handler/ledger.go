package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/calebwray/kudos/internal/model"
	"github.com/calebwray/kudos/internal/program"
)

// LedgerHandler serves the read-only views: balances, history, expiration
// warnings, and the performance-impact grade.
type LedgerHandler struct {
	svc    *program.Service
	logger *slog.Logger
}

func NewLedgerHandler(svc *program.Service, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{svc: svc, logger: logger}
}

func (h *LedgerHandler) Balance(w http.ResponseWriter, r *http.Request) {
	employeeID, err := parseIDParam(r, "employee_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid employee id"})
		return
	}

	balance, err := h.svc.Balance(employeeID)
	if err != nil {
		h.logger.Error("failed to compute balance", "employee_id", employeeID, "error", err)
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

func (h *LedgerHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	balances, err := h.svc.Leaderboard()
	if err != nil {
		h.logger.Error("failed to compute leaderboard", "error", err)
		writeEngineError(w, err)
		return
	}
	if balances == nil {
		balances = []model.PointBalance{}
	}
	writeJSON(w, http.StatusOK, balances)
}

func (h *LedgerHandler) History(w http.ResponseWriter, r *http.Request) {
	employeeID, err := parseIDParam(r, "employee_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid employee id"})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
	}

	entries, err := h.svc.History(employeeID, limit)
	if err != nil {
		h.logger.Error("failed to list history", "employee_id", employeeID, "error", err)
		writeEngineError(w, err)
		return
	}
	if entries == nil {
		entries = []model.AuditEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *LedgerHandler) Expiration(w http.ResponseWriter, r *http.Request) {
	employeeID, err := parseIDParam(r, "employee_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid employee id"})
		return
	}

	report, err := h.svc.CheckExpiration(employeeID)
	if err != nil {
		h.logger.Error("failed to check expiration", "employee_id", employeeID, "error", err)
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *LedgerHandler) PerformanceImpact(w http.ResponseWriter, r *http.Request) {
	employeeID, err := parseIDParam(r, "employee_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid employee id"})
		return
	}

	impact, err := h.svc.PerformanceImpact(employeeID)
	if err != nil {
		h.logger.Error("failed to compute performance impact", "employee_id", employeeID, "error", err)
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, impact)
}
