package wire

import (
	"ev-rental/internal/adaptor"
	"ev-rental/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireRegistry mounts documents, contracts, inspections, notifications and promotions.
func wireRegistry(r chi.Router, handler *adaptor.Handler, auth middleware.Authenticator, log *zap.Logger) {
	authenticated := middleware.Authenticate(auth, log)
	staffOnly := middleware.RequireRoles(log, roleStaff, roleAdmin)
	adminOnly := middleware.RequireRoles(log, roleAdmin)

	r.Route("/documents", func(r chi.Router) {
		r.Use(authenticated)

		r.With(middleware.RequireRoles(log, roleRenter)).Post("/", handler.Document.Upload)
		r.Get("/me", handler.Document.GetMyDocuments)
		r.Delete("/{id}", handler.Document.Delete)

		r.With(staffOnly).Get("/", handler.Document.GetAllDocuments)
		r.With(staffOnly).Patch("/{id}/verify", handler.Document.Verify)
	})

	r.Route("/contracts", func(r chi.Router) {
		r.Use(authenticated)

		r.With(staffOnly).Post("/", handler.Contract.Create)
		r.Post("/{id}/sign", handler.Contract.Sign)
		r.Get("/{id}", handler.Contract.Get)
	})

	r.Route("/inspections", func(r chi.Router) {
		r.Use(authenticated)
		r.Use(staffOnly)

		r.Post("/", handler.Inspection.Record)
		r.Get("/", handler.Inspection.ListByVehicle)
	})

	r.Route("/notifications", func(r chi.Router) {
		r.Use(authenticated)

		r.Get("/", handler.Notification.List)
		r.Patch("/{id}/read", handler.Notification.MarkRead)
		r.Post("/read-all", handler.Notification.MarkAllRead)
	})

	r.Route("/promotions", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Get("/", handler.Promotion.ListActive)
		r.Get("/code/{code}", handler.Promotion.GetByCode)

		// ==================== ADMIN ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			r.Use(adminOnly)

			r.Post("/", handler.Promotion.Create)
			r.Put("/{id}", handler.Promotion.Update)
			r.Delete("/{id}", handler.Promotion.Delete)
		})
	})
}
