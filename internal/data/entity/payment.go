package entity

import (
	"errors"
	"math"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "PENDING"
	PaymentStatusPaid              PaymentStatus = "PAID"
	PaymentStatusFailed            PaymentStatus = "FAILED"
	PaymentStatusRefunded          PaymentStatus = "REFUNDED"
	PaymentStatusPartiallyRefunded PaymentStatus = "PARTIALLY_REFUNDED"
)

type PaymentMethod string

const (
	PaymentMethodCash    PaymentMethod = "CASH"
	PaymentMethodGateway PaymentMethod = "GATEWAY"
)

var (
	ErrRefundNotAllowed  = errors.New("payment is not refundable in its current status")
	ErrRefundExceeds     = errors.New("refund exceeds the refundable amount")
	ErrRefundNotPositive = errors.New("refund amount must be positive")
)

type Payment struct {
	BaseNoDelete
	BookingID     uuid.UUID     `db:"booking_id"`
	UserID        uuid.UUID     `db:"user_id"`
	Amount        float64       `db:"amount"`
	Method        PaymentMethod `db:"method"`
	Status        PaymentStatus `db:"status"`
	TransactionID *string       `db:"transaction_id"`
	RefundAmount  float64       `db:"refund_amount"`
	PromotionID   *uuid.UUID    `db:"promotion_id"`
}

// IsSettled reports whether the payment can no longer move to PAID or FAILED.
func (p *Payment) IsSettled() bool {
	return p.Status != PaymentStatusPending
}

// Refundable is the amount that may still be returned.
func (p *Payment) Refundable() float64 {
	return p.Amount - p.RefundAmount
}

// ApplyRefund adds amount to the refunded total keeping refundAmount <= amount,
// and moves the status to REFUNDED once everything has been returned.
func (p *Payment) ApplyRefund(amount float64) error {
	if p.Status != PaymentStatusPaid && p.Status != PaymentStatusPartiallyRefunded {
		return ErrRefundNotAllowed
	}
	if amount <= 0 {
		return ErrRefundNotPositive
	}
	if roundCents(p.RefundAmount+amount) > roundCents(p.Amount) {
		return ErrRefundExceeds
	}

	p.RefundAmount = roundCents(p.RefundAmount + amount)
	if p.RefundAmount == roundCents(p.Amount) {
		p.Status = PaymentStatusRefunded
	} else {
		p.Status = PaymentStatusPartiallyRefunded
	}
	return nil
}

// RevertRefund takes back a refund reserved by ApplyRefund that the provider
// did not carry out.
func (p *Payment) RevertRefund(amount float64) {
	p.RefundAmount = max(roundCents(p.RefundAmount-amount), 0)
	if p.RefundAmount == 0 {
		p.Status = PaymentStatusPaid
	} else {
		p.Status = PaymentStatusPartiallyRefunded
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
