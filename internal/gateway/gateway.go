// Package gateway talks to the third-party payment provider used for GATEWAY payments.
package gateway

import (
	"context"
	"errors"

	"ev-rental/internal/data/entity"
)

var (
	ErrNotConfigured   = errors.New("payment gateway not configured")
	ErrChargeNotFound  = errors.New("provider payment not found")
	ErrInvalidChargeID = errors.New("invalid provider payment id")
)

type ChargeRequest struct {
	// Reference is stored by the provider as external reference; it is the ledger payment id.
	Reference   string
	Amount      float64
	Description string
	PayerEmail  string
}

type Charge struct {
	ProviderID        string
	ProviderStatus    string
	Status            entity.PaymentStatus
	ExternalReference string
	Amount            float64
}

type PaymentGateway interface {
	CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error)
	GetCharge(ctx context.Context, providerID string) (*Charge, error)
	// Refund returns amount of the charge. full is set when amount is the whole
	// charge and nothing was refunded before.
	Refund(ctx context.Context, providerID string, amount float64, full bool) error
}

// MapStatus translates a provider status into the ledger status.
func MapStatus(providerStatus string) entity.PaymentStatus {
	switch providerStatus {
	case "approved":
		return entity.PaymentStatusPaid
	case "rejected", "cancelled":
		return entity.PaymentStatusFailed
	default:
		return entity.PaymentStatusPending
	}
}
