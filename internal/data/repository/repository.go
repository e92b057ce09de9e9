package repository

import (
	"context"

	"ev-rental/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type Repository struct {
	User         UserRepository
	Session      SessionRepository
	Station      StationRepository
	Vehicle      VehicleRepository
	Booking      BookingRepository
	Payment      PaymentRepository
	Promotion    PromotionRepository
	Document     DocumentRepository
	Contract     ContractRepository
	Inspection   InspectionRepository
	Notification NotificationRepository

	// Tx runs a unit of work against a transaction-bound copy of this Repository.
	Tx Transactor
}

// Transactor runs fn atomically: every write made through tx commits together
// or not at all.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx *Repository) error) error
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := newQueryRepository(db, log)
	repo.Tx = &pgTransactor{db: db, log: log}
	return repo
}

func newQueryRepository(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		User:         NewUserRepository(q, log),
		Session:      NewSessionRepository(q, log),
		Station:      NewStationRepository(q, log),
		Vehicle:      NewVehicleRepository(q, log),
		Booking:      NewBookingRepository(q, log),
		Payment:      NewPaymentRepository(q, log),
		Promotion:    NewPromotionRepository(q, log),
		Document:     NewDocumentRepository(q, log),
		Contract:     NewContractRepository(q, log),
		Inspection:   NewInspectionRepository(q, log),
		Notification: NewNotificationRepository(q, log),
	}
}

type pgTransactor struct {
	db  database.PgxIface
	log *zap.Logger
}

// WithinTx uses READ COMMITTED; the booking queries take row locks with
// SELECT ... FOR UPDATE and the bookings table carries an exclusion
// constraint, so overlapping occupying bookings cannot both commit.
func (t *pgTransactor) WithinTx(ctx context.Context, fn func(tx *Repository) error) error {
	return database.WithTx(ctx, t.db, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		txRepo := newQueryRepository(tx, t.log)
		txRepo.Tx = joinedTransactor{repo: txRepo}
		return fn(txRepo)
	})
}

// joinedTransactor makes nested WithinTx calls reuse the open transaction.
type joinedTransactor struct {
	repo *Repository
}

func (j joinedTransactor) WithinTx(_ context.Context, fn func(tx *Repository) error) error {
	return fn(j.repo)
}
