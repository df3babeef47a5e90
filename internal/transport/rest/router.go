package rest

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/employee"
	"github.com/frahmantamala/leave-management/internal/leave"
	"github.com/frahmantamala/leave-management/internal/leavetype"
	"github.com/frahmantamala/leave-management/internal/transport/middleware"
	"github.com/frahmantamala/leave-management/internal/transport/swagger"
)

type Handlers struct {
	Auth      *auth.Handler
	Employee  *employee.Handler
	LeaveType *leavetype.Handler
	Leave     *leave.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, cfg internal.ServerConfig, authService *auth.Service, handlers Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	rbac := authService.RBACAuthorization()

	allowedOrigins := strings.Split(cfg.AllowedOrigins, ",")
	for i := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(allowedOrigins[i])
	}

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if handlers.Auth != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", handlers.Auth.Login)
				sr.Post("/refresh", handlers.Auth.RefreshToken)
				sr.Post("/logout", handlers.Auth.Logout)
			})
		}

		// Leave type reference data needs no auth
		if handlers.LeaveType != nil {
			r.Get("/leave-types", handlers.LeaveType.GetLeaveTypes)
		}

		if handlers.Auth != nil {
			r.Group(func(pr chi.Router) {
				pr.Use(handlers.Auth.AuthMiddleware)

				if handlers.Employee != nil {
					pr.Get("/employees/me", handlers.Employee.GetCurrentEmployee)
					pr.Get("/employees/{id}", handlers.Employee.GetEmployee)
				}

				if handlers.Leave != nil {
					pr.Route("/leaves", func(lr chi.Router) {
						lr.Post("/", handlers.Leave.SubmitLeave)
						lr.Get("/", handlers.Leave.ListLeaves)
						lr.Get("/balances", handlers.Leave.GetBalances)
						lr.Post("/{id}/cancel", handlers.Leave.CancelLeave)

						lr.Group(func(mr chi.Router) {
							mr.Use(rbac.RequireApproveLeave())
							mr.Patch("/{id}/status", handlers.Leave.UpdateApprovalStatus)
						})
					})
				}
			})
		}
	})
}
