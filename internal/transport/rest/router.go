package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/idlidosa1206/Fusion-System-Administrator/api"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/bulk"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/designation"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/role"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/transport/middleware"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/transport/swagger"
	"github.com/idlidosa1206/Fusion-System-Administrator/internal/user"
)

// Handlers groups the HTTP adapters mounted under /api/v1. A nil handler leaves its routes out.
type Handlers struct {
	Health      *HealthHandler
	User        *user.Handler
	Role        *role.Handler
	Designation *designation.Handler
	Bulk        *bulk.Handler
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, logger *slog.Logger) {
	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.Spec)
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.Health)
			r.Get("/ping", h.Health.Ping)
		}

		r.Route("/users", func(ur chi.Router) {
			if h.Role != nil {
				ur.Get("/roles", h.Role.GetUserRoles)
				ur.Put("/roles", h.Role.UpdateUserRoles)
			}

			if h.Bulk != nil {
				ur.Post("/import", h.Bulk.ImportUsers)
				ur.Get("/export", h.Bulk.ExportUsers)
			}

			if h.User != nil {
				ur.Get("/", h.User.ListUsers)
				ur.Post("/", h.User.CreateUser)
				ur.Post("/reset-password", h.User.ResetPassword)
				ur.Get("/extra-info", h.User.ListExtraInfo)

				ur.Route("/{id}", func(ir chi.Router) {
					ir.Get("/", h.User.GetUser)
					ir.Put("/", h.User.UpdateUser)
					ir.Patch("/", h.User.UpdateUser)
					ir.Delete("/", h.User.DeleteUser)
					ir.Patch("/extra-info", h.User.UpsertExtraInfo)
				})
			}
		})

		if h.Designation != nil {
			r.Route("/designations", func(dr chi.Router) {
				dr.Get("/", h.Designation.ListDesignations)
				dr.Post("/", h.Designation.CreateDesignation)
				dr.Put("/", h.Designation.UpdateDesignation)
				dr.Patch("/", h.Designation.UpdateDesignation)
				dr.Delete("/", h.Designation.DeleteDesignation)
				dr.Get("/{name}", h.Designation.GetDesignation)
			})

			r.Get("/module-access", h.Designation.GetModuleAccess)
			r.Put("/module-access", h.Designation.UpdateModuleAccess)
		}
	})
}
