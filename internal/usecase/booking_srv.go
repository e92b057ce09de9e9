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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// Renter endpoints
	CreateBooking(ctx context.Context, renterID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	CompleteBooking(ctx context.Context, actor utils.Identity, bookingID string) (*response.BookingResponse, error)
	GetMyBookings(ctx context.Context, renterID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)

	// Shared endpoints
	GetBooking(ctx context.Context, actor utils.Identity, bookingID string) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, actor utils.Identity, bookingID string) (*response.BookingResponse, error)

	// Staff endpoints
	ConfirmBooking(ctx context.Context, actor utils.Identity, bookingID string) (*response.BookingResponse, error)
	ListBookings(ctx context.Context, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error)
}

type bookingService struct {
	repo   *repository.Repository
	notify *notifier
	now    Clock
	log    *zap.Logger
}

func NewBookingService(repo *repository.Repository, log *zap.Logger) BookingService {
	log = log.With(zap.String("service", "booking"))
	return &bookingService{
		repo:   repo,
		notify: newNotifier(repo, log, time.Now),
		now:    time.Now,
		log:    log,
	}
}

// CreateBooking reserves a vehicle for [startTime, endTime) in one unit of work.
// The vehicle row lock serialises creators for the same vehicle, so of two
// overlapping requests exactly one commits and the other gets SLOT_CONFLICT.
func (s *bookingService) CreateBooking(ctx context.Context, renterID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	// 1. Validate input shape
	if err := validate(req); err != nil {
		s.log.Warn("Create booking validation failed", zap.Error(err))
		return nil, err
	}

	vehicleID, err := parseID("vehicleId", req.VehicleID)
	if err != nil {
		return nil, err
	}
	stationID, err := parseID("stationId", req.StationID)
	if err != nil {
		return nil, err
	}
	start, err := parseTimestamp("startTime", req.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := parseTimestamp("endTime", req.EndTime)
	if err != nil {
		return nil, err
	}

	// 2. Time window rules, checked before touching the store
	if !start.Before(end) {
		return nil, validationError(map[string]string{"endTime": "Must be after startTime"})
	}
	now := s.now()
	if start.Before(now) {
		return nil, validationError(map[string]string{"startTime": "Must not be in the past"})
	}

	booking := &entity.Booking{
		BaseNoDelete:    entity.NewBaseNoDelete(now),
		UserID:          renterID,
		VehicleID:       vehicleID,
		StationID:       stationID,
		StartTime:       start.UTC(),
		EndTime:         end.UTC(),
		Status:          entity.BookingStatusPending,
		PickupLocation:  req.PickupLocation,
		DropoffLocation: req.DropoffLocation,
	}

	// 3. Atomic reserve-and-insert
	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		vehicle, err := tx.Vehicle.FindByIDForUpdate(ctx, vehicleID)
		if err != nil {
			return err
		}
		if vehicle == nil || vehicle.IsDeleted() {
			return apperror.ErrVehicleUnavailable
		}

		if vehicle.StationID != stationID {
			return validationError(map[string]string{"stationId": "Vehicle is not parked at this station"})
		}

		overlapping, err := tx.Booking.FindOverlapping(ctx, vehicleID, booking.StartTime, booking.EndTime)
		if err != nil {
			return err
		}
		if overlapping != nil {
			return apperror.ErrSlotConflict.WithDetails(map[string]any{
				"bookingId": overlapping.ID.String(),
				"startTime": overlapping.StartTime,
				"endTime":   overlapping.EndTime,
			})
		}

		if vehicle.Status != entity.VehicleStatusAvailable {
			return apperror.ErrVehicleUnavailable.WithDetails(map[string]any{"status": vehicle.Status})
		}

		if err := tx.Vehicle.UpdateStatus(ctx, vehicleID, entity.VehicleStatusReserved, now); err != nil {
			return err
		}

		booking.TotalPrice = entity.RentalPrice(booking.StartTime, booking.EndTime, vehicle.PricePerHour)
		return tx.Booking.Create(ctx, booking)
	})
	if err != nil {
		s.log.Warn("Create booking rejected",
			zap.Error(err),
			zap.String("user_id", renterID.String()),
			zap.String("vehicle_id", vehicleID.String()),
		)
		return nil, internalError("failed to create booking", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("user_id", renterID.String()),
		zap.String("vehicle_id", vehicleID.String()),
		zap.Float64("total_price", booking.TotalPrice),
	)

	s.notify.bookingChanged(ctx, booking)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// CompleteBooking is allowed for the owning renter only.
func (s *bookingService) CompleteBooking(ctx context.Context, actor utils.Identity, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.transition(ctx, bookingID, entity.BookingStatusCompleted, func(b *entity.Booking) error {
		if b.UserID != actor.UserID {
			return apperror.Forbidden("only the renter who made the booking can complete it")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, actor utils.Identity, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.transition(ctx, bookingID, entity.BookingStatusCancelled, func(b *entity.Booking) error {
		if b.UserID != actor.UserID && !isStaff(actor) {
			return apperror.Forbidden("you cannot cancel this booking")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) ConfirmBooking(ctx context.Context, actor utils.Identity, bookingID string) (*response.BookingResponse, error) {
	booking, err := s.transition(ctx, bookingID, entity.BookingStatusConfirmed, func(*entity.Booking) error {
		if !isStaff(actor) {
			return apperror.Forbidden("only staff can confirm bookings")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// transition locks the booking, runs authorize, checks the state machine and
// applies next, all in one unit of work.
func (s *bookingService) transition(ctx context.Context, bookingID string, next entity.BookingStatus, authorize func(*entity.Booking) error) (*entity.Booking, error) {
	id, err := parseID("id", bookingID)
	if err != nil {
		return nil, err
	}

	var booking *entity.Booking
	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		found, err := tx.Booking.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if found == nil {
			return apperror.ErrBookingNotFound
		}
		booking = found

		if err := authorize(booking); err != nil {
			return err
		}

		if !booking.Status.CanTransitionTo(next) {
			return apperror.InvalidState("booking is %s and cannot become %s", booking.Status, next)
		}

		return applyBookingStatus(ctx, tx, booking, next, s.now())
	})
	if err != nil {
		s.log.Warn("Booking transition rejected",
			zap.Error(err),
			zap.String("booking_id", bookingID),
			zap.String("target_status", string(next)),
		)
		return nil, internalError("failed to update booking", err)
	}

	s.log.Info("Booking status changed",
		zap.String("booking_id", booking.ID.String()),
		zap.String("status", string(booking.Status)),
	)

	s.notify.bookingChanged(ctx, booking)
	return booking, nil
}

// applyBookingStatus writes the new booking status and, when the booking stops
// occupying its slot, frees the vehicle in the same unit of work.
func applyBookingStatus(ctx context.Context, tx *repository.Repository, booking *entity.Booking, next entity.BookingStatus, now time.Time) error {
	if err := tx.Booking.UpdateStatus(ctx, booking.ID, next, now); err != nil {
		return err
	}

	wasOccupying := booking.Status.IsOccupying()
	booking.Status = next
	booking.UpdatedAt = now

	if wasOccupying && !next.IsOccupying() {
		vehicle, err := tx.Vehicle.FindByIDForUpdate(ctx, booking.VehicleID)
		if err != nil {
			return err
		}
		if vehicle != nil && (vehicle.Status == entity.VehicleStatusReserved || vehicle.Status == entity.VehicleStatusRented) {
			return tx.Vehicle.UpdateStatus(ctx, vehicle.ID, entity.VehicleStatusAvailable, now)
		}
	}

	return nil
}

func (s *bookingService) GetBooking(ctx context.Context, actor utils.Identity, bookingID string) (*response.BookingResponse, error) {
	id, err := parseID("id", bookingID)
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
		return nil, apperror.Forbidden("you cannot view this booking")
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) GetMyBookings(ctx context.Context, renterID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	return s.list(ctx, repository.BookingFilter{UserID: &renterID}, req)
}

func (s *bookingService) ListBookings(ctx context.Context, req *request.BookingListRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var filter repository.BookingFilter
	if req.Status != nil {
		status := entity.BookingStatus(*req.Status)
		filter.Status = &status
	}

	var err error
	if filter.VehicleID, err = parseOptionalID("vehicleId", req.VehicleID); err != nil {
		return nil, err
	}
	if filter.StationID, err = parseOptionalID("stationId", req.StationID); err != nil {
		return nil, err
	}

	return s.list(ctx, filter, &req.PaginatedRequest)
}

func (s *bookingService) list(ctx context.Context, filter repository.BookingFilter, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	limit := req.Limit()
	offset := req.Offset()

	bookings, err := s.repo.Booking.FindAll(ctx, filter, limit, offset)
	if err != nil {
		return nil, internalError("failed to get bookings", err)
	}

	total, err := s.repo.Booking.Count(ctx, filter)
	if err != nil {
		return nil, internalError("failed to count bookings", err)
	}

	return response.NewPaginatedResponse(response.BookingsToResponse(bookings), req.CurrentPage(), limit, total), nil
}
