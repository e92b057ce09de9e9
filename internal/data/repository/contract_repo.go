package repository

import (
	"context"
	"errors"
	"fmt"

	"ev-rental/internal/data/entity"
	"ev-rental/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ContractRepository interface {
	Create(ctx context.Context, contract *entity.Contract) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Contract, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Contract, error)
	UpdateStatus(ctx context.Context, contract *entity.Contract) error
}

type contractRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewContractRepository(db database.Querier, log *zap.Logger) ContractRepository {
	return &contractRepository{
		db:  db,
		log: log.With(zap.String("repository", "contract")),
	}
}

const contractColumns = `id, booking_id, user_id, staff_id, terms, status, signed_at, created_at, updated_at`

func (r *contractRepository) Create(ctx context.Context, contract *entity.Contract) error {
	query := `
		INSERT INTO contracts (id, booking_id, user_id, staff_id, terms, status, signed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		contract.ID,
		contract.BookingID,
		contract.UserID,
		contract.StaffID,
		contract.Terms,
		contract.Status,
		contract.SignedAt,
		contract.CreatedAt,
		contract.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create contract",
			zap.Error(err),
			zap.String("booking_id", contract.BookingID.String()),
		)
		return fmt.Errorf("create contract for booking %s: %w", contract.BookingID, err)
	}

	return nil
}

func (r *contractRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Contract, error) {
	return r.findOne(ctx, `SELECT `+contractColumns+` FROM contracts WHERE id = $1`, id)
}

func (r *contractRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Contract, error) {
	return r.findOne(ctx, `SELECT `+contractColumns+` FROM contracts WHERE booking_id = $1`, bookingID)
}

func (r *contractRepository) findOne(ctx context.Context, query string, id uuid.UUID) (*entity.Contract, error) {
	var c entity.Contract
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.BookingID,
		&c.UserID,
		&c.StaffID,
		&c.Terms,
		&c.Status,
		&c.SignedAt,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find contract",
			zap.Error(err),
			zap.String("id", id.String()),
		)
		return nil, fmt.Errorf("find contract %s: %w", id, err)
	}

	return &c, nil
}

func (r *contractRepository) UpdateStatus(ctx context.Context, contract *entity.Contract) error {
	query := `UPDATE contracts SET status = $2, signed_at = $3, updated_at = $4 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, contract.ID, contract.Status, contract.SignedAt, contract.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to update contract",
			zap.Error(err),
			zap.String("contract_id", contract.ID.String()),
		)
		return fmt.Errorf("update contract %s: %w", contract.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("contract %s not found", contract.ID)
	}

	return nil
}
