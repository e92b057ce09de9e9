package wire

import (
	"ev-rental/internal/adaptor"
	"ev-rental/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler, auth middleware.Authenticator, log *zap.Logger) {
	r.Route("/bookings", func(r chi.Router) {
		r.Use(middleware.Authenticate(auth, log))

		// ==================== RENTER ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(log, roleRenter))

			r.Post("/", bookingHandler.CreateBooking)
			r.Get("/me", bookingHandler.GetMyBookings)
		})

		// Ownership is checked by the service.
		r.Get("/{id}", bookingHandler.GetBooking)
		r.Post("/{id}/complete", bookingHandler.CompleteBooking)
		r.Post("/{id}/cancel", bookingHandler.CancelBooking)

		// ==================== STAFF ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(log, roleStaff, roleAdmin))

			r.Get("/", bookingHandler.ListBookings)
			r.Post("/{id}/confirm", bookingHandler.ConfirmBooking)
		})
	})
}
