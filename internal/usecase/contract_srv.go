package usecase

import (
	"context"
	"time"

	"ev-rental/internal/data/entity"
	"ev-rental/internal/data/repository"
	"ev-rental/internal/dto/request"
	"ev-rental/internal/dto/response"
	"ev-rental/pkg/apperror"
	"ev-rental/pkg/utils"

	"go.uber.org/zap"
)

type ContractService interface {
	Create(ctx context.Context, actor utils.Identity, req *request.CreateContractRequest) (*response.ContractResponse, error)
	Sign(ctx context.Context, actor utils.Identity, contractID string) (*response.ContractResponse, error)
	Get(ctx context.Context, actor utils.Identity, contractID string) (*response.ContractResponse, error)
}

type contractService struct {
	repo   *repository.Repository
	notify *notifier
	now    Clock
	log    *zap.Logger
}

func NewContractService(repo *repository.Repository, log *zap.Logger) ContractService {
	log = log.With(zap.String("service", "contract"))
	return &contractService{
		repo:   repo,
		notify: newNotifier(repo, log, time.Now),
		now:    time.Now,
		log:    log,
	}
}

var errContractExists = apperror.Conflict(apperror.CodeContractExists, "booking already has a contract")

func (s *contractService) Create(ctx context.Context, actor utils.Identity, req *request.CreateContractRequest) (*response.ContractResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	bookingID, err := parseID("bookingId", req.BookingID)
	if err != nil {
		return nil, err
	}

	var contract *entity.Contract
	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		booking, err := tx.Booking.FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return apperror.ErrBookingNotFound
		}
		if booking.Status != entity.BookingStatusConfirmed {
			return apperror.InvalidState("contracts need a CONFIRMED booking, booking is %s", booking.Status)
		}

		existing, err := tx.Contract.FindByBookingID(ctx, bookingID)
		if err != nil {
			return err
		}
		if existing != nil {
			return errContractExists
		}

		contract = &entity.Contract{
			BaseNoDelete: entity.NewBaseNoDelete(s.now()),
			BookingID:    booking.ID,
			UserID:       booking.UserID,
			StaffID:      actor.UserID,
			Terms:        req.Terms,
			Status:       entity.ContractStatusPendingSignature,
		}
		return uniqueViolation(tx.Contract.Create(ctx, contract), errContractExists)
	})
	if err != nil {
		return nil, internalError("failed to create contract", err)
	}

	s.log.Info("Contract created",
		zap.String("contract_id", contract.ID.String()),
		zap.String("booking_id", contract.BookingID.String()),
	)

	s.notify.send(ctx, contract.UserID, entity.NotificationContractCreated, "Rental contract ready",
		"A rental contract for booking "+contract.BookingID.String()+" is waiting for your signature.")

	resp := response.ContractToResponse(contract)
	return &resp, nil
}

func (s *contractService) find(ctx context.Context, contractID string) (*entity.Contract, error) {
	id, err := parseID("id", contractID)
	if err != nil {
		return nil, err
	}

	contract, err := s.repo.Contract.FindByID(ctx, id)
	if err != nil {
		return nil, internalError("failed to get contract", err)
	}
	if contract == nil {
		return nil, apperror.NotFound(apperror.CodeNotFound, "contract")
	}
	return contract, nil
}

func (s *contractService) Sign(ctx context.Context, actor utils.Identity, contractID string) (*response.ContractResponse, error) {
	contract, err := s.find(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if contract.UserID != actor.UserID {
		return nil, apperror.Forbidden("only the renter can sign this contract")
	}
	if contract.Status != entity.ContractStatusPendingSignature {
		return nil, apperror.InvalidState("contract is %s", contract.Status)
	}

	now := s.now()
	contract.Status = entity.ContractStatusSigned
	contract.SignedAt = &now
	contract.UpdatedAt = now

	if err := s.repo.Contract.UpdateStatus(ctx, contract); err != nil {
		return nil, internalError("failed to sign contract", err)
	}

	s.log.Info("Contract signed", zap.String("contract_id", contract.ID.String()))

	resp := response.ContractToResponse(contract)
	return &resp, nil
}

func (s *contractService) Get(ctx context.Context, actor utils.Identity, contractID string) (*response.ContractResponse, error) {
	contract, err := s.find(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if contract.UserID != actor.UserID && !isStaff(actor) {
		return nil, apperror.Forbidden("you cannot view this contract")
	}

	resp := response.ContractToResponse(contract)
	return &resp, nil
}
