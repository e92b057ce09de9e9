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

type InspectionService interface {
	Record(ctx context.Context, actor utils.Identity, req *request.CreateInspectionRequest) (*response.InspectionResponse, error)
	ListByVehicle(ctx context.Context, vehicleID string) ([]response.InspectionResponse, error)
}

type inspectionService struct {
	repo *repository.Repository
	now  Clock
	log  *zap.Logger
}

func NewInspectionService(repo *repository.Repository, log *zap.Logger) InspectionService {
	return &inspectionService{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("service", "inspection")),
	}
}

// Record stores the inspection and syncs the vehicle's battery level. A
// NEEDS_MAINTENANCE finding takes the vehicle out of rotation.
func (s *inspectionService) Record(ctx context.Context, actor utils.Identity, req *request.CreateInspectionRequest) (*response.InspectionResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	vehicleID, err := parseID("vehicleId", req.VehicleID)
	if err != nil {
		return nil, err
	}
	bookingID, err := parseOptionalID("bookingId", req.BookingID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	inspection := &entity.Inspection{
		BaseSimple:   entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
		VehicleID:    vehicleID,
		BookingID:    bookingID,
		StaffID:      actor.UserID,
		Type:         entity.InspectionType(req.Type),
		BatteryLevel: *req.BatteryLevel,
		Condition:    entity.VehicleCondition(req.Condition),
		Notes:        req.Notes,
		ImageURLs:    req.ImageURLs,
	}

	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		vehicle, err := tx.Vehicle.FindByIDForUpdate(ctx, vehicleID)
		if err != nil {
			return err
		}
		if vehicle == nil || vehicle.IsDeleted() {
			return apperror.NotFound(apperror.CodeNotFound, "vehicle")
		}

		if bookingID != nil {
			booking, err := tx.Booking.FindByID(ctx, *bookingID)
			if err != nil {
				return err
			}
			if booking == nil {
				return apperror.ErrBookingNotFound
			}
			if booking.VehicleID != vehicleID {
				return validationError(map[string]string{"bookingId": "Booking is for a different vehicle"})
			}
		}

		vehicle.BatteryLevel = inspection.BatteryLevel
		if inspection.Condition == entity.ConditionNeedsMaintenance {
			busy, err := tx.Booking.HasOccupying(ctx, vehicleID)
			if err != nil {
				return err
			}
			if busy {
				return errVehicleInUse
			}
			vehicle.Status = entity.VehicleStatusMaintenance
		}
		vehicle.UpdatedAt = now

		if err := tx.Vehicle.Update(ctx, vehicle); err != nil {
			return err
		}
		return tx.Inspection.Create(ctx, inspection)
	})
	if err != nil {
		return nil, internalError("failed to record inspection", err)
	}

	s.log.Info("Inspection recorded",
		zap.String("inspection_id", inspection.ID.String()),
		zap.String("vehicle_id", vehicleID.String()),
		zap.String("condition", string(inspection.Condition)),
	)

	resp := response.InspectionToResponse(inspection)
	return &resp, nil
}

func (s *inspectionService) ListByVehicle(ctx context.Context, vehicleID string) ([]response.InspectionResponse, error) {
	id, err := parseID("vehicleId", vehicleID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.Inspection.FindByVehicleID(ctx, id)
	if err != nil {
		return nil, internalError("failed to get inspections", err)
	}

	return response.InspectionsToResponse(items), nil
}
