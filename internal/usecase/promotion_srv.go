package usecase

import (
	"context"
	"strings"
	"time"

	"ev-rental/internal/data/entity"
	"ev-rental/internal/data/repository"
	"ev-rental/internal/dto/request"
	"ev-rental/internal/dto/response"
	"ev-rental/pkg/apperror"

	"go.uber.org/zap"
)

type PromotionService interface {
	Create(ctx context.Context, req *request.PromotionRequest) (*response.PromotionResponse, error)
	Update(ctx context.Context, promotionID string, req *request.PromotionRequest) (*response.PromotionResponse, error)
	Delete(ctx context.Context, promotionID string) error
	ListActive(ctx context.Context) ([]response.PromotionResponse, error)
	GetByCode(ctx context.Context, code string) (*response.PromotionResponse, error)
}

type promotionService struct {
	repo *repository.Repository
	now  Clock
	log  *zap.Logger
}

func NewPromotionService(repo *repository.Repository, log *zap.Logger) PromotionService {
	return &promotionService{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("service", "promotion")),
	}
}

var errPromotionTaken = apperror.Conflict(apperror.CodePromotionTaken, "promotion code already exists")

func parseWindow(req *request.PromotionRequest) (time.Time, time.Time, error) {
	startsAt, err := parseTimestamp("startsAt", req.StartsAt)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endsAt, err := parseTimestamp("endsAt", req.EndsAt)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !startsAt.Before(endsAt) {
		return time.Time{}, time.Time{}, validationError(map[string]string{"endsAt": "Must be after startsAt"})
	}
	return startsAt, endsAt, nil
}

func (s *promotionService) Create(ctx context.Context, req *request.PromotionRequest) (*response.PromotionResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	startsAt, endsAt, err := parseWindow(req)
	if err != nil {
		return nil, err
	}

	code := strings.ToUpper(req.Code)
	existing, err := s.repo.Promotion.FindByCode(ctx, code)
	if err != nil {
		return nil, internalError("failed to check promotion code", err)
	}
	if existing != nil {
		return nil, errPromotionTaken
	}

	promotion := &entity.Promotion{
		Base:            entity.NewBase(s.now()),
		Code:            code,
		Description:     req.Description,
		DiscountPercent: req.DiscountPercent,
		MaxDiscount:     req.MaxDiscount,
		StartsAt:        startsAt,
		EndsAt:          endsAt,
		IsActive:        req.IsActive == nil || *req.IsActive,
	}

	if err := s.repo.Promotion.Create(ctx, promotion); err != nil {
		return nil, internalError("failed to create promotion", uniqueViolation(err, errPromotionTaken))
	}

	s.log.Info("Promotion created", zap.String("code", code))

	resp := response.PromotionToResponse(promotion)
	return &resp, nil
}

// Update changes everything except the code.
func (s *promotionService) Update(ctx context.Context, promotionID string, req *request.PromotionRequest) (*response.PromotionResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	id, err := parseID("id", promotionID)
	if err != nil {
		return nil, err
	}
	startsAt, endsAt, err := parseWindow(req)
	if err != nil {
		return nil, err
	}

	promotion, err := s.repo.Promotion.FindByID(ctx, id)
	if err != nil {
		return nil, internalError("failed to get promotion", err)
	}
	if promotion == nil {
		return nil, apperror.NotFound(apperror.CodeNotFound, "promotion")
	}

	promotion.Description = req.Description
	promotion.DiscountPercent = req.DiscountPercent
	promotion.MaxDiscount = req.MaxDiscount
	promotion.StartsAt = startsAt
	promotion.EndsAt = endsAt
	if req.IsActive != nil {
		promotion.IsActive = *req.IsActive
	}
	promotion.UpdatedAt = s.now()

	if err := s.repo.Promotion.Update(ctx, promotion); err != nil {
		return nil, internalError("failed to update promotion", err)
	}

	resp := response.PromotionToResponse(promotion)
	return &resp, nil
}

func (s *promotionService) Delete(ctx context.Context, promotionID string) error {
	id, err := parseID("id", promotionID)
	if err != nil {
		return err
	}

	promotion, err := s.repo.Promotion.FindByID(ctx, id)
	if err != nil {
		return internalError("failed to get promotion", err)
	}
	if promotion == nil {
		return apperror.NotFound(apperror.CodeNotFound, "promotion")
	}

	if err := s.repo.Promotion.Delete(ctx, id); err != nil {
		return internalError("failed to delete promotion", err)
	}
	return nil
}

func (s *promotionService) ListActive(ctx context.Context) ([]response.PromotionResponse, error) {
	promotions, err := s.repo.Promotion.FindActive(ctx, s.now())
	if err != nil {
		return nil, internalError("failed to get promotions", err)
	}
	return response.PromotionsToResponse(promotions), nil
}

func (s *promotionService) GetByCode(ctx context.Context, code string) (*response.PromotionResponse, error) {
	promotion, err := s.repo.Promotion.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, internalError("failed to get promotion", err)
	}
	if !promotion.IsRedeemable(s.now()) {
		return nil, apperror.NotFound(apperror.CodeNotFound, "promotion")
	}

	resp := response.PromotionToResponse(promotion)
	return &resp, nil
}
