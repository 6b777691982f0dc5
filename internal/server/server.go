package server

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/calebwray/kudos/internal/catalog"
	"github.com/calebwray/kudos/internal/clock"
	"github.com/calebwray/kudos/internal/handler"
	"github.com/calebwray/kudos/internal/middleware"
	"github.com/calebwray/kudos/internal/program"
	"github.com/calebwray/kudos/internal/store"
)

type Server struct {
	svc         *program.Service
	employeeH   *handler.EmployeeHandler
	activityH   *handler.ActivityHandler
	redemptionH *handler.RedemptionHandler
	escalationH *handler.EscalationHandler
	ledgerH     *handler.LedgerHandler
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(db *sql.DB, cat *catalog.Catalog, clk clock.Clock, logger *slog.Logger) *Server {
	svc := program.NewService(db, cat, clk, logger.With("component", "program"))
	employeeStore := store.NewEmployeeStore(db)

	return &Server{
		svc:         svc,
		employeeH:   handler.NewEmployeeHandler(employeeStore, logger),
		activityH:   handler.NewActivityHandler(svc, logger),
		redemptionH: handler.NewRedemptionHandler(svc, logger),
		escalationH: handler.NewEscalationHandler(svc, logger),
		ledgerH:     handler.NewLedgerHandler(svc, logger),
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// Service exposes the workflow engine for callers that wire their own
// transport.
func (s *Server) Service() *program.Service {
	return s.svc
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	// Employees (identity directory)
	mux.HandleFunc("POST /api/employees", s.employeeH.Create)
	mux.HandleFunc("GET /api/employees", s.employeeH.List)
	mux.HandleFunc("GET /api/employees/{id}", s.employeeH.Get)
	mux.HandleFunc("PUT /api/employees/{id}", s.employeeH.Update)

	// Activities
	mux.HandleFunc("GET /api/activities/pending", s.activityH.ListPending)
	mux.HandleFunc("POST /api/activities/{id}/approve", s.activityH.Approve)
	mux.HandleFunc("POST /api/activities/{id}/reject", s.activityH.Reject)
	mux.HandleFunc("GET /api/employees/{employee_id}/activities", s.activityH.ListByEmployee)

	// Redemptions
	mux.HandleFunc("GET /api/redemptions/pending", s.redemptionH.ListPending)
	mux.HandleFunc("POST /api/redemptions/{id}/approve", s.redemptionH.Approve)
	mux.HandleFunc("POST /api/redemptions/{id}/reject", s.redemptionH.Reject)
	mux.HandleFunc("POST /api/redemptions/{id}/fulfill", s.redemptionH.Fulfill)
	mux.HandleFunc("GET /api/employees/{employee_id}/redemptions", s.redemptionH.ListByEmployee)

	// Ledger views
	mux.HandleFunc("GET /api/employees/{employee_id}/balance", s.ledgerH.Balance)
	mux.HandleFunc("GET /api/employees/{employee_id}/history", s.ledgerH.History)
	mux.HandleFunc("GET /api/employees/{employee_id}/expiration", s.ledgerH.Expiration)
	mux.HandleFunc("GET /api/employees/{employee_id}/performance-impact", s.ledgerH.PerformanceImpact)
	mux.HandleFunc("GET /api/leaderboard", s.ledgerH.Leaderboard)

	// Submissions get an extra per-IP guard on top of the domain quota.
	submitLimit := middleware.RateLimit(s.rateLimiter, middleware.RealIP, 30, time.Minute)
	mux.Handle("POST /api/activities", submitLimit(http.HandlerFunc(s.activityH.Submit)))
	mux.Handle("POST /api/redemptions", submitLimit(http.HandlerFunc(s.redemptionH.Submit)))
	mux.Handle("POST /api/escalations", submitLimit(http.HandlerFunc(s.escalationH.Record)))

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return middleware.RequestLogger(s.logger)(mux)
}
