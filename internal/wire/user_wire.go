package wire

import (
	"ev-rental/internal/adaptor"
	"ev-rental/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUser(r chi.Router, userHandler *adaptor.UserHandler, auth middleware.Authenticator, log *zap.Logger) {
	r.Route("/users", func(r chi.Router) {
		r.Use(middleware.Authenticate(auth, log))

		// PATCH /api/users/me - any authenticated user
		r.Patch("/me", userHandler.UpdateProfile)

		// ==================== STAFF ROUTES ====================
		r.With(middleware.RequireRoles(log, roleStaff, roleAdmin)).Get("/{id}", userHandler.GetUser)

		// ==================== ADMIN ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(log, roleAdmin))

			r.Get("/", userHandler.GetAllUsers)
			r.Post("/staff", userHandler.CreateStaff)
			r.Patch("/{id}/status", userHandler.UpdateStatus)
			r.Delete("/{id}", userHandler.DeleteUser)
		})
	})
}
