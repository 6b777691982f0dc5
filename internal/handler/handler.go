// Package handler exposes the workflow engine over JSON. Authentication is
// an external collaborator: the acting identity arrives in the request and
// the engine enforces role authorization itself.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/calebwray/kudos/internal/program"
)

func parseIDParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeEngineError maps the engine's error taxonomy onto HTTP statuses,
// always carrying the specific reason through to the caller.
func writeEngineError(w http.ResponseWriter, err error) {
	var (
		validationErr  *program.ValidationError
		eligibilityErr *program.EligibilityError
		rateErr        *program.RateLimitError
		balanceErr     *program.InsufficientBalanceError
		authErr        *program.AuthorizationError
		transitionErr  *program.TransitionError
		notFoundErr    *program.NotFoundError
		conflictErr    *program.ConcurrencyConflictError
		storeErr       *program.StoreUnavailableError
	)

	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "validation failed",
			"rules": validationErr.Rules,
		})
	case errors.As(err, &eligibilityErr):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": eligibilityErr.Reason})
	case errors.As(err, &rateErr):
		writeJSON(w, http.StatusTooManyRequests, map[string]any{
			"error":             rateErr.Error(),
			"quota":             rateErr.Quota,
			"hours_until_reset": rateErr.HoursUntilReset,
		})
	case errors.As(err, &balanceErr):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":    balanceErr.Error(),
			"current":  balanceErr.Current,
			"required": balanceErr.Required,
		})
	case errors.As(err, &authErr):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": authErr.Reason})
	case errors.As(err, &transitionErr):
		writeJSON(w, http.StatusConflict, map[string]string{"error": transitionErr.Error()})
	case errors.As(err, &notFoundErr):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": notFoundErr.Error()})
	case errors.As(err, &conflictErr):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":     "concurrent update, please retry",
			"retryable": true,
		})
	case errors.As(err, &storeErr):
		w.Header().Set("Retry-After", "1")
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"error":     "ledger store unavailable, please retry",
			"retryable": true,
		})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
