package wire

import (
	"ev-rental/internal/adaptor"
	"ev-rental/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePayment(r chi.Router, paymentHandler *adaptor.PaymentHandler, auth middleware.Authenticator, log *zap.Logger) {
	r.Route("/payments", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		// Provider notifications carry no bearer token.
		r.Post("/webhook", paymentHandler.Webhook)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(auth, log))

			r.With(middleware.RequireRoles(log, roleRenter)).Post("/", paymentHandler.CreatePayment)
			r.Get("/booking/{bookingId}", paymentHandler.GetBookingPayments)
			r.With(middleware.RequireRoles(log, roleStaff, roleAdmin)).Post("/{id}/confirm-cash", paymentHandler.ConfirmCash)
			r.With(middleware.RequireRoles(log, roleAdmin)).Post("/{id}/refund", paymentHandler.Refund)
		})
	})
}
