package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/calebwray/kudos/internal/model"
	"github.com/calebwray/kudos/internal/store"
)

// EmployeeHandler is the identity boundary: free-form role and employment
// strings are normalized here, once, so everything downstream works with
// typed values.
type EmployeeHandler struct {
	employees *store.EmployeeStore
	logger    *slog.Logger
}

func NewEmployeeHandler(es *store.EmployeeStore, logger *slog.Logger) *EmployeeHandler {
	return &EmployeeHandler{employees: es, logger: logger}
}

type employeeRequest struct {
	Name           string `json:"name"`
	Role           string `json:"role"`
	Department     string `json:"department"`
	EmploymentType string `json:"employment_type"`
	Active         *bool  `json:"active"`
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	employee, err := h.employees.Create(
		req.Name,
		model.ParseRole(req.Role),
		strings.TrimSpace(req.Department),
		model.ParseEmploymentType(req.EmploymentType),
	)
	if err != nil {
		h.logger.Error("failed to create employee", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create employee"})
		return
	}

	writeJSON(w, http.StatusCreated, employee)
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	employees, err := h.employees.List()
	if err != nil {
		h.logger.Error("failed to list employees", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list employees"})
		return
	}
	if employees == nil {
		employees = []model.Employee{}
	}
	writeJSON(w, http.StatusOK, employees)
}

func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	employee, err := h.employees.GetByID(id)
	if err != nil {
		h.logger.Error("failed to get employee", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get employee"})
		return
	}
	if employee == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "employee not found"})
		return
	}
	writeJSON(w, http.StatusOK, employee)
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.employees.GetByID(id)
	if err != nil {
		h.logger.Error("failed to get employee", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get employee"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "employee not found"})
		return
	}

	var req employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = existing.Name
	}
	active := existing.Active
	if req.Active != nil {
		active = *req.Active
	}

	employee, err := h.employees.Update(
		id,
		name,
		model.ParseRole(req.Role),
		strings.TrimSpace(req.Department),
		model.ParseEmploymentType(req.EmploymentType),
		active,
	)
	if err != nil {
		h.logger.Error("failed to update employee", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update employee"})
		return
	}
	writeJSON(w, http.StatusOK, employee)
}
