package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ev-rental/internal/data/entity"
	"ev-rental/internal/data/repository"
	"ev-rental/internal/dto/request"
	"ev-rental/internal/dto/response"
	"ev-rental/internal/gateway"
	"ev-rental/pkg/apperror"
	"ev-rental/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentService interface {
	CreatePayment(ctx context.Context, actor utils.Identity, req *request.CreatePaymentRequest) (*response.PaymentResponse, error)
	ConfirmCash(ctx context.Context, actor utils.Identity, paymentID string, req *request.ConfirmCashRequest) (*response.PaymentResponse, error)
	HandleWebhook(ctx context.Context, req *request.WebhookNotification) error
	Refund(ctx context.Context, actor utils.Identity, paymentID string, req *request.RefundRequest) (*response.PaymentResponse, error)
	GetBookingPayments(ctx context.Context, actor utils.Identity, bookingID string) ([]response.PaymentResponse, error)
}

type paymentService struct {
	repo    *repository.Repository
	gateway gateway.PaymentGateway
	notify  *notifier
	now     Clock
	log     *zap.Logger
}

func NewPaymentService(repo *repository.Repository, gw gateway.PaymentGateway, log *zap.Logger) PaymentService {
	log = log.With(zap.String("service", "payment"))
	return &paymentService{
		repo:    repo,
		gateway: gw,
		notify:  newNotifier(repo, log, time.Now),
		now:     time.Now,
		log:     log,
	}
}

func (s *paymentService) CreatePayment(ctx context.Context, actor utils.Identity, req *request.CreatePaymentRequest) (*response.PaymentResponse, error) {
	// 1. Validate
	if err := validate(req); err != nil {
		return nil, err
	}
	bookingID, err := parseID("bookingId", req.BookingID)
	if err != nil {
		return nil, err
	}

	now := s.now()

	// 2. Resolve promotion
	var promotion *entity.Promotion
	if req.PromotionCode != nil {
		promotion, err = s.repo.Promotion.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(*req.PromotionCode)))
		if err != nil {
			return nil, internalError("failed to get promotion", err)
		}
		if !promotion.IsRedeemable(now) {
			return nil, validationError(map[string]string{"promotionCode": "Promotion code is not valid"})
		}
	}

	// 3. Insert the ledger row while holding the booking lock
	var payment *entity.Payment
	var booking *entity.Booking
	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		b, err := tx.Booking.FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if b == nil {
			return apperror.ErrBookingNotFound
		}
		if b.UserID != actor.UserID {
			return apperror.Forbidden("you can only pay for your own bookings")
		}
		if !b.Status.IsOccupying() {
			return apperror.InvalidState("booking is %s and cannot be paid", b.Status)
		}

		active, err := tx.Payment.FindActiveByBookingID(ctx, b.ID)
		if err != nil {
			return err
		}
		if active != nil {
			return apperror.Conflict(apperror.CodePaymentExists, "booking already has a pending or paid payment")
		}

		amount := b.TotalPrice
		p := &entity.Payment{
			BaseNoDelete: entity.NewBaseNoDelete(now),
			BookingID:    b.ID,
			UserID:       b.UserID,
			Method:       entity.PaymentMethod(req.Method),
			Status:       entity.PaymentStatusPending,
		}
		if promotion != nil {
			amount -= promotion.Discount(amount)
			p.PromotionID = &promotion.ID
		}
		p.Amount = amount

		if err := tx.Payment.Create(ctx, p); err != nil {
			return err
		}

		// Nothing left to collect.
		if p.Amount <= 0 {
			if _, err := s.markPaid(ctx, tx, p, nil, now); err != nil {
				return err
			}
		}

		payment, booking = p, b
		return nil
	})
	if err != nil {
		s.log.Warn("Create payment rejected", zap.Error(err), zap.String("booking_id", req.BookingID))
		return nil, internalError("failed to create payment", err)
	}

	s.log.Info("Payment created",
		zap.String("payment_id", payment.ID.String()),
		zap.String("booking_id", booking.ID.String()),
		zap.String("method", string(payment.Method)),
		zap.Float64("amount", payment.Amount),
	)

	// 4. Hand gateway payments to the provider outside the transaction
	if payment.Method == entity.PaymentMethodGateway && payment.Status == entity.PaymentStatusPending {
		if payment, err = s.chargeGateway(ctx, actor, payment); err != nil {
			return nil, err
		}
	}

	if payment.Status == entity.PaymentStatusPaid {
		s.paidNotifications(ctx, payment, bookingID)
	}

	resp := response.PaymentToResponse(payment)
	return &resp, nil
}

func (s *paymentService) chargeGateway(ctx context.Context, actor utils.Identity, payment *entity.Payment) (*entity.Payment, error) {
	var payerEmail string
	if user, err := s.repo.User.FindByID(ctx, actor.UserID); err == nil && user != nil {
		payerEmail = user.Email
	}

	charge, chargeErr := s.gateway.CreateCharge(ctx, gateway.ChargeRequest{
		Reference:   payment.ID.String(),
		Amount:      payment.Amount,
		Description: fmt.Sprintf("EV rental booking %s", payment.BookingID),
		PayerEmail:  payerEmail,
	})

	now := s.now()
	var updated *entity.Payment
	err := s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		p, err := tx.Payment.FindByIDForUpdate(ctx, payment.ID)
		if err != nil {
			return err
		}
		if p == nil {
			return apperror.NotFound(apperror.CodeNotFound, "payment")
		}
		updated = p

		if chargeErr != nil {
			p.Status = entity.PaymentStatusFailed
			p.UpdatedAt = now
			return tx.Payment.Update(ctx, p)
		}

		// The webhook may already have settled it.
		if p.IsSettled() {
			return nil
		}

		p.TransactionID = &charge.ProviderID
		switch charge.Status {
		case entity.PaymentStatusPaid:
			_, err = s.markPaid(ctx, tx, p, &charge.ProviderID, now)
			return err
		case entity.PaymentStatusFailed:
			p.Status = entity.PaymentStatusFailed
		}
		p.UpdatedAt = now
		return tx.Payment.Update(ctx, p)
	})
	if err != nil {
		return nil, internalError("failed to record provider payment", err)
	}

	if chargeErr != nil {
		s.log.Error("Gateway charge failed", zap.Error(chargeErr), zap.String("payment_id", payment.ID.String()))
		return nil, apperror.Internal("payment provider unavailable", chargeErr)
	}

	return updated, nil
}

// markPaid settles p as PAID and completes its booking when it still occupies
// the vehicle, inside the caller's unit of work.
func (s *paymentService) markPaid(ctx context.Context, tx *repository.Repository, p *entity.Payment, transactionID *string, now time.Time) (*entity.Booking, error) {
	p.Status = entity.PaymentStatusPaid
	if transactionID != nil {
		p.TransactionID = transactionID
	}
	p.UpdatedAt = now
	if err := tx.Payment.Update(ctx, p); err != nil {
		return nil, err
	}

	booking, err := tx.Booking.FindByIDForUpdate(ctx, p.BookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperror.ErrBookingNotFound
	}

	if !booking.Status.CanTransitionTo(entity.BookingStatusCompleted) {
		s.log.Warn("Paid booking cannot be completed",
			zap.String("booking_id", booking.ID.String()),
			zap.String("status", string(booking.Status)),
		)
		return booking, nil
	}

	if err := applyBookingStatus(ctx, tx, booking, entity.BookingStatusCompleted, now); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *paymentService) paidNotifications(ctx context.Context, p *entity.Payment, bookingID uuid.UUID) {
	s.notify.send(ctx, p.UserID, entity.NotificationPaymentPaid, "Payment received",
		fmt.Sprintf("Payment %s of %.2f was received.", p.ID, p.Amount))

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err == nil && booking != nil && booking.Status == entity.BookingStatusCompleted {
		s.notify.bookingChanged(ctx, booking)
	}
}

func (s *paymentService) ConfirmCash(ctx context.Context, actor utils.Identity, paymentID string, req *request.ConfirmCashRequest) (*response.PaymentResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	id, err := parseID("id", paymentID)
	if err != nil {
		return nil, err
	}

	receipt := utils.GenerateReceiptNumber()
	if req.ReceiptNumber != nil && strings.TrimSpace(*req.ReceiptNumber) != "" {
		receipt = strings.TrimSpace(*req.ReceiptNumber)
	}

	var payment *entity.Payment
	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		p, err := tx.Payment.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return apperror.NotFound(apperror.CodeNotFound, "payment")
		}
		if p.Method != entity.PaymentMethodCash {
			return validationError(map[string]string{"method": "Only cash payments can be confirmed by staff"})
		}
		if p.Status != entity.PaymentStatusPending {
			return apperror.InvalidState("payment is %s", p.Status)
		}

		if _, err := s.markPaid(ctx, tx, p, &receipt, s.now()); err != nil {
			return err
		}
		payment = p
		return nil
	})
	if err != nil {
		s.log.Warn("Cash confirmation rejected", zap.Error(err), zap.String("payment_id", paymentID))
		return nil, internalError("failed to confirm payment", err)
	}

	s.log.Info("Cash payment confirmed",
		zap.String("payment_id", payment.ID.String()),
		zap.String("staff_id", actor.UserID.String()),
		zap.String("receipt", receipt),
	)

	s.paidNotifications(ctx, payment, payment.BookingID)

	resp := response.PaymentToResponse(payment)
	return &resp, nil
}

// HandleWebhook is idempotent: already settled payments are left untouched.
func (s *paymentService) HandleWebhook(ctx context.Context, req *request.WebhookNotification) error {
	if req.Type != "" && req.Type != "payment" {
		s.log.Debug("Ignoring webhook", zap.String("type", req.Type))
		return nil
	}
	if strings.TrimSpace(req.Data.ID) == "" {
		return validationError(map[string]string{"data.id": "This field is required"})
	}

	charge, err := s.gateway.GetCharge(ctx, req.Data.ID)
	if errors.Is(err, gateway.ErrChargeNotFound) || errors.Is(err, gateway.ErrInvalidChargeID) {
		return apperror.NotFound(apperror.CodeNotFound, "provider payment")
	}
	if err != nil {
		return apperror.Internal("failed to fetch provider payment", err)
	}

	paymentID, err := uuid.Parse(charge.ExternalReference)
	if err != nil {
		s.log.Warn("Webhook for unknown reference",
			zap.String("provider_payment_id", charge.ProviderID),
			zap.String("reference", charge.ExternalReference),
		)
		return apperror.NotFound(apperror.CodeNotFound, "payment")
	}

	if charge.Status == entity.PaymentStatusPending {
		return nil
	}

	var payment *entity.Payment
	var changed bool
	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		p, err := tx.Payment.FindByIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if p == nil {
			return apperror.NotFound(apperror.CodeNotFound, "payment")
		}
		payment = p

		if p.IsSettled() {
			return nil
		}
		changed = true

		if charge.Status == entity.PaymentStatusPaid {
			_, err := s.markPaid(ctx, tx, p, &charge.ProviderID, s.now())
			return err
		}

		p.Status = entity.PaymentStatusFailed
		p.TransactionID = &charge.ProviderID
		p.UpdatedAt = s.now()
		return tx.Payment.Update(ctx, p)
	})
	if err != nil {
		s.log.Error("Webhook processing failed", zap.Error(err), zap.String("provider_payment_id", req.Data.ID))
		return internalError("failed to process payment notification", err)
	}

	if !changed {
		s.log.Info("Webhook for settled payment ignored", zap.String("payment_id", payment.ID.String()))
		return nil
	}

	s.log.Info("Payment settled by webhook",
		zap.String("payment_id", payment.ID.String()),
		zap.String("status", string(payment.Status)),
	)

	if payment.Status == entity.PaymentStatusPaid {
		s.paidNotifications(ctx, payment, payment.BookingID)
	} else {
		s.notify.send(ctx, payment.UserID, entity.NotificationPaymentFailed, "Payment failed",
			fmt.Sprintf("Payment %s was not approved by the provider.", payment.ID))
	}

	return nil
}

func (s *paymentService) Refund(ctx context.Context, actor utils.Identity, paymentID string, req *request.RefundRequest) (*response.PaymentResponse, error) {
	id, err := parseID("id", paymentID)
	if err != nil {
		return nil, err
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	// Reserve the refund on the ledger before asking the provider.
	var (
		payment *entity.Payment
		full    bool
	)
	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		p, err := tx.Payment.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return apperror.NotFound(apperror.CodeNotFound, "payment")
		}
		if p.Method == entity.PaymentMethodGateway && p.TransactionID == nil {
			return apperror.InvalidState("gateway payment has no provider reference")
		}

		if err := p.ApplyRefund(req.Amount); err != nil {
			return refundError(err)
		}
		full = p.Status == entity.PaymentStatusRefunded && p.RefundAmount == req.Amount

		p.UpdatedAt = s.now()
		if err := tx.Payment.Update(ctx, p); err != nil {
			return err
		}
		payment = p
		return nil
	})
	if err != nil {
		s.log.Warn("Refund rejected", zap.Error(err), zap.String("payment_id", paymentID))
		return nil, internalError("failed to refund payment", err)
	}

	if payment.Method == entity.PaymentMethodGateway {
		if err := s.gateway.Refund(ctx, *payment.TransactionID, req.Amount, full); err != nil {
			s.log.Error("Provider refund failed", zap.Error(err), zap.String("payment_id", paymentID))
			s.releaseRefund(ctx, payment.ID, req.Amount)
			return nil, apperror.Internal("payment provider refused the refund", err)
		}
	}

	s.log.Info("Payment refunded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("admin_id", actor.UserID.String()),
		zap.Float64("amount", req.Amount),
		zap.String("status", string(payment.Status)),
	)

	s.notify.send(ctx, payment.UserID, entity.NotificationPaymentRefunded, "Payment refunded",
		fmt.Sprintf("%.2f of payment %s was refunded.", req.Amount, payment.ID))

	resp := response.PaymentToResponse(payment)
	return &resp, nil
}

// releaseRefund gives back a reserved refund the provider did not carry out.
func (s *paymentService) releaseRefund(ctx context.Context, paymentID uuid.UUID, amount float64) {
	err := s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		p, err := tx.Payment.FindByIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if p == nil {
			return apperror.NotFound(apperror.CodeNotFound, "payment")
		}
		p.RevertRefund(amount)
		p.UpdatedAt = s.now()
		return tx.Payment.Update(ctx, p)
	})
	if err != nil {
		s.log.Error("Failed to release reserved refund",
			zap.Error(err),
			zap.String("payment_id", paymentID.String()),
			zap.Float64("amount", amount),
		)
	}
}

func refundError(err error) error {
	switch {
	case errors.Is(err, entity.ErrRefundNotAllowed):
		return apperror.InvalidState("%s", err.Error())
	case errors.Is(err, entity.ErrRefundExceeds), errors.Is(err, entity.ErrRefundNotPositive):
		return validationError(map[string]string{"amount": err.Error()})
	default:
		return err
	}
}

func (s *paymentService) GetBookingPayments(ctx context.Context, actor utils.Identity, bookingID string) ([]response.PaymentResponse, error) {
	id, err := parseID("bookingId", bookingID)
	if err != nil {
		return nil, err
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, internalError("failed to get booking", err)
	}
	if booking == nil {
		return nil, apperror.ErrBookingNotFound
	}
	if booking.UserID != actor.UserID && !isStaff(actor) {
		return nil, apperror.Forbidden("you cannot view payments of this booking")
	}

	payments, err := s.repo.Payment.FindByBookingID(ctx, id)
	if err != nil {
		return nil, internalError("failed to get payments", err)
	}

	return response.PaymentsToResponse(payments), nil
}
