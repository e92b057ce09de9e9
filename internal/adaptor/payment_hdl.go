package adaptor

import (
	"encoding/json"
	"net/http"

	"ev-rental/internal/dto/request"
	"ev-rental/internal/usecase"
	"ev-rental/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// CreatePayment handles POST /api/payments (renter)
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}

	var req request.CreatePaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, h.log, err, "create payment")
		return
	}

	payment, err := h.service.CreatePayment(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create payment")
		return
	}

	utils.ResponseCreated(w, "Payment created", payment)
}

// ConfirmCash handles POST /api/payments/{id}/confirm-cash (staff, admin)
func (h *PaymentHandler) ConfirmCash(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}

	// Body is optional.
	var req request.ConfirmCashRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			handleServiceError(w, h.log, err, "confirm cash payment")
			return
		}
	}

	payment, err := h.service.ConfirmCash(r.Context(), actor, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "confirm cash payment")
		return
	}

	utils.ResponseSuccess(w, "Payment confirmed", payment)
}

// Webhook handles POST /api/payments/webhook (public). The provider sends
// either a JSON body or the type and data.id as query parameters.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var req request.WebhookNotification
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.ResponseBadRequest(w, "Invalid request body", nil)
			return
		}
	}

	query := r.URL.Query()
	if req.Type == "" {
		req.Type = query.Get("type")
		if req.Type == "" {
			req.Type = query.Get("topic")
		}
	}
	if req.Data.ID == "" {
		req.Data.ID = query.Get("data.id")
		if req.Data.ID == "" {
			req.Data.ID = query.Get("id")
		}
	}

	h.log.Info("Payment notification received",
		zap.String("type", req.Type),
		zap.String("action", req.Action),
		zap.String("provider_id", req.Data.ID),
	)

	if err := h.service.HandleWebhook(r.Context(), &req); err != nil {
		handleServiceError(w, h.log, err, "handle payment webhook")
		return
	}

	utils.ResponseSuccess(w, "Notification processed", nil)
}

// Refund handles POST /api/payments/{id}/refund (admin)
func (h *PaymentHandler) Refund(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}

	var req request.RefundRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, h.log, err, "refund payment")
		return
	}

	payment, err := h.service.Refund(r.Context(), actor, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "refund payment")
		return
	}

	utils.ResponseSuccess(w, "Payment refunded", payment)
}

// GetBookingPayments handles GET /api/payments/booking/{bookingId}
func (h *PaymentHandler) GetBookingPayments(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}

	payments, err := h.service.GetBookingPayments(r.Context(), actor, chi.URLParam(r, "bookingId"))
	if err != nil {
		handleServiceError(w, h.log, err, "get booking payments")
		return
	}

	utils.ResponseSuccess(w, "success", payments)
}
