package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ev-rental/internal/data/entity"
	"ev-rental/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PromotionRepository interface {
	Create(ctx context.Context, promotion *entity.Promotion) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Promotion, error)
	FindByCode(ctx context.Context, code string) (*entity.Promotion, error)
	FindActive(ctx context.Context, now time.Time) ([]*entity.Promotion, error)
	Update(ctx context.Context, promotion *entity.Promotion) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type promotionRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewPromotionRepository(db database.Querier, log *zap.Logger) PromotionRepository {
	return &promotionRepository{
		db:  db,
		log: log.With(zap.String("repository", "promotion")),
	}
}

const promotionColumns = `id, code, description, discount_percent, max_discount, starts_at, ends_at,
		       is_active, created_at, updated_at, deleted_at`

func scanPromotion(row rowScanner) (*entity.Promotion, error) {
	var p entity.Promotion
	err := row.Scan(
		&p.ID,
		&p.Code,
		&p.Description,
		&p.DiscountPercent,
		&p.MaxDiscount,
		&p.StartsAt,
		&p.EndsAt,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *promotionRepository) Create(ctx context.Context, promotion *entity.Promotion) error {
	query := `
		INSERT INTO promotions (id, code, description, discount_percent, max_discount,
		                        starts_at, ends_at, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		promotion.ID,
		promotion.Code,
		promotion.Description,
		promotion.DiscountPercent,
		promotion.MaxDiscount,
		promotion.StartsAt,
		promotion.EndsAt,
		promotion.IsActive,
		promotion.CreatedAt,
		promotion.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create promotion",
			zap.Error(err),
			zap.String("code", promotion.Code),
		)
		return fmt.Errorf("create promotion %s: %w", promotion.Code, err)
	}

	return nil
}

func (r *promotionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Promotion, error) {
	return r.findOne(ctx, `SELECT `+promotionColumns+` FROM promotions WHERE id = $1 AND deleted_at IS NULL`, id)
}

func (r *promotionRepository) FindByCode(ctx context.Context, code string) (*entity.Promotion, error) {
	return r.findOne(ctx, `SELECT `+promotionColumns+` FROM promotions WHERE code = $1 AND deleted_at IS NULL`, code)
}

func (r *promotionRepository) findOne(ctx context.Context, query string, arg any) (*entity.Promotion, error) {
	promotion, err := scanPromotion(r.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find promotion", zap.Error(err), zap.Any("key", arg))
		return nil, fmt.Errorf("find promotion %v: %w", arg, err)
	}

	return promotion, nil
}

// FindActive lists promotions whose window contains now.
func (r *promotionRepository) FindActive(ctx context.Context, now time.Time) ([]*entity.Promotion, error) {
	query := `
		SELECT ` + promotionColumns + `
		FROM promotions
		WHERE deleted_at IS NULL AND is_active AND starts_at <= $1 AND ends_at > $1
		ORDER BY ends_at ASC
	`

	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		r.log.Error("Failed to get active promotions", zap.Error(err))
		return nil, fmt.Errorf("find active promotions: %w", err)
	}
	defer rows.Close()

	var promotions []*entity.Promotion
	for rows.Next() {
		promotion, err := scanPromotion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan promotion row: %w", err)
		}
		promotions = append(promotions, promotion)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate promotion rows: %w", err)
	}

	return promotions, nil
}

func (r *promotionRepository) Update(ctx context.Context, promotion *entity.Promotion) error {
	query := `
		UPDATE promotions
		SET description = $2, discount_percent = $3, max_discount = $4,
		    starts_at = $5, ends_at = $6, is_active = $7, updated_at = $8
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		promotion.ID,
		promotion.Description,
		promotion.DiscountPercent,
		promotion.MaxDiscount,
		promotion.StartsAt,
		promotion.EndsAt,
		promotion.IsActive,
		promotion.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update promotion",
			zap.Error(err),
			zap.String("promotion_id", promotion.ID.String()),
		)
		return fmt.Errorf("update promotion %s: %w", promotion.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("promotion %s not found", promotion.ID)
	}

	return nil
}

func (r *promotionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `UPDATE promotions SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		r.log.Error("Failed to delete promotion",
			zap.Error(err),
			zap.String("promotion_id", id.String()),
		)
		return fmt.Errorf("delete promotion %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("promotion %s not found", id)
	}

	return nil
}
