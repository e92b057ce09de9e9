package gateway

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"ev-rental/pkg/utils"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/refund"
	"go.uber.org/zap"
)

type MercadoPagoGateway struct {
	payments        payment.Client
	refunds         refund.Client
	methodID        string
	notificationURL string
	log             *zap.Logger

	// mock mode keeps charges in memory
	mockMode bool
	mu       sync.Mutex
	charges  map[string]*Charge
}

func NewMercadoPagoGateway(cfg utils.PaymentConfig, log *zap.Logger) (*MercadoPagoGateway, error) {
	log = log.With(zap.String("gateway", "mercadopago"))

	if cfg.Mock {
		log.Info("Payment gateway mock mode enabled")
		return &MercadoPagoGateway{mockMode: true, log: log, charges: make(map[string]*Charge)}, nil
	}

	if cfg.AccessToken == "" {
		return nil, ErrNotConfigured
	}

	sdkCfg, err := config.New(cfg.AccessToken)
	if err != nil {
		log.Error("Failed creating sdk config", zap.Error(err))
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	log.Info("Mercado Pago client initialized")

	return &MercadoPagoGateway{
		payments:        payment.NewClient(sdkCfg),
		refunds:         refund.NewClient(sdkCfg),
		methodID:        cfg.MethodID,
		notificationURL: cfg.NotificationURL,
		log:             log,
	}, nil
}

func (g *MercadoPagoGateway) CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	if g.mockMode {
		return g.mockCreate(req), nil
	}
	if g.payments == nil {
		return nil, ErrNotConfigured
	}

	request := payment.Request{
		TransactionAmount: req.Amount,
		Description:       req.Description,
		PaymentMethodID:   g.methodID,
		ExternalReference: req.Reference,
		NotificationURL:   g.notificationURL,
		Payer: &payment.PayerRequest{
			Email: req.PayerEmail,
		},
	}

	resp, err := g.payments.Create(ctx, request)
	if err != nil {
		g.log.Error("Provider create failed",
			zap.Error(err),
			zap.String("reference", req.Reference),
		)
		return nil, fmt.Errorf("create provider payment: %w", err)
	}

	g.log.Info("Provider payment created",
		zap.Int("provider_payment_id", resp.ID),
		zap.String("provider_status", resp.Status),
	)

	return &Charge{
		ProviderID:        strconv.Itoa(resp.ID),
		ProviderStatus:    resp.Status,
		Status:            MapStatus(resp.Status),
		ExternalReference: resp.ExternalReference,
		Amount:            resp.TransactionAmount,
	}, nil
}

func (g *MercadoPagoGateway) GetCharge(ctx context.Context, providerID string) (*Charge, error) {
	if g.mockMode {
		return g.mockGet(providerID)
	}
	if g.payments == nil {
		return nil, ErrNotConfigured
	}

	id, err := strconv.Atoi(providerID)
	if err != nil {
		return nil, ErrInvalidChargeID
	}

	resp, err := g.payments.Get(ctx, id)
	if err != nil {
		g.log.Error("Provider get failed",
			zap.Error(err),
			zap.String("provider_payment_id", providerID),
		)
		return nil, fmt.Errorf("get provider payment %s: %w", providerID, err)
	}

	return &Charge{
		ProviderID:        strconv.Itoa(resp.ID),
		ProviderStatus:    resp.Status,
		Status:            MapStatus(resp.Status),
		ExternalReference: resp.ExternalReference,
		Amount:            resp.TransactionAmount,
	}, nil
}

func (g *MercadoPagoGateway) Refund(ctx context.Context, providerID string, amount float64, full bool) error {
	if g.mockMode {
		g.log.Info("Mock refund",
			zap.String("provider_payment_id", providerID),
			zap.Float64("amount", amount),
			zap.Bool("full", full),
		)
		return nil
	}
	if g.refunds == nil {
		return ErrNotConfigured
	}

	id, err := strconv.Atoi(providerID)
	if err != nil {
		return ErrInvalidChargeID
	}

	if full {
		_, err = g.refunds.Create(ctx, id)
	} else {
		_, err = g.refunds.CreatePartialRefund(ctx, id, amount)
	}
	if err != nil {
		g.log.Error("Provider refund failed",
			zap.Error(err),
			zap.String("provider_payment_id", providerID),
			zap.Float64("amount", amount),
		)
		return fmt.Errorf("refund provider payment %s: %w", providerID, err)
	}

	return nil
}

// mockCreate registers a pending charge; the first lookup through GetCharge
// reports it approved, which simulates the payer finishing checkout.
func (g *MercadoPagoGateway) mockCreate(req ChargeRequest) *Charge {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
	charge := &Charge{
		ProviderID:        id,
		ProviderStatus:    "pending",
		Status:            MapStatus("pending"),
		ExternalReference: req.Reference,
		Amount:            req.Amount,
	}
	g.charges[id] = charge

	g.log.Info("Mock charge created",
		zap.String("provider_payment_id", id),
		zap.String("reference", req.Reference),
	)

	cp := *charge
	return &cp
}

func (g *MercadoPagoGateway) mockGet(providerID string) (*Charge, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	charge, ok := g.charges[providerID]
	if !ok {
		return nil, ErrChargeNotFound
	}

	charge.ProviderStatus = "approved"
	charge.Status = MapStatus("approved")

	cp := *charge
	return &cp, nil
}
