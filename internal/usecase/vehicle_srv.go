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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type VehicleService interface {
	GetAllVehicles(ctx context.Context, req *request.VehicleListRequest) (*response.PaginatedResponse[response.VehicleResponse], error)
	GetVehicle(ctx context.Context, vehicleID string) (*response.VehicleResponse, error)
	CreateVehicle(ctx context.Context, req *request.VehicleRequest) (*response.VehicleResponse, error)
	UpdateVehicle(ctx context.Context, vehicleID string, req *request.VehicleRequest) (*response.VehicleResponse, error)
	UpdateVehicleStatus(ctx context.Context, vehicleID string, req *request.UpdateVehicleStatusRequest) (*response.VehicleResponse, error)
	DeleteVehicle(ctx context.Context, vehicleID string) error
}

type vehicleService struct {
	repo *repository.Repository
	now  Clock
	log  *zap.Logger
}

func NewVehicleService(repo *repository.Repository, log *zap.Logger) VehicleService {
	return &vehicleService{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("service", "vehicle")),
	}
}

var (
	errPlateTaken   = apperror.Conflict(apperror.CodePlateTaken, "license plate already registered")
	errVehicleInUse = apperror.Conflict(apperror.CodeVehicleInUse, "vehicle has an active booking")
)

func (s *vehicleService) GetAllVehicles(ctx context.Context, req *request.VehicleListRequest) (*response.PaginatedResponse[response.VehicleResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var filter repository.VehicleFilter
	var err error
	if filter.StationID, err = parseOptionalID("stationId", req.StationID); err != nil {
		return nil, err
	}
	if req.Status != nil {
		status := entity.VehicleStatus(*req.Status)
		filter.Status = &status
	}

	vehicles, err := s.repo.Vehicle.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		return nil, internalError("failed to get vehicles", err)
	}

	total, err := s.repo.Vehicle.Count(ctx, filter)
	if err != nil {
		return nil, internalError("failed to count vehicles", err)
	}

	return response.NewPaginatedResponse(response.VehiclesToResponse(vehicles), req.CurrentPage(), req.Limit(), total), nil
}

func (s *vehicleService) GetVehicle(ctx context.Context, vehicleID string) (*response.VehicleResponse, error) {
	id, err := parseID("id", vehicleID)
	if err != nil {
		return nil, err
	}

	vehicle, err := s.repo.Vehicle.FindByID(ctx, id)
	if err != nil {
		return nil, internalError("failed to get vehicle", err)
	}
	if vehicle == nil {
		return nil, apperror.NotFound(apperror.CodeNotFound, "vehicle")
	}

	resp := response.VehicleToResponse(vehicle)
	return &resp, nil
}

// activeStation loads a station that can receive vehicles.
func activeStation(ctx context.Context, stations repository.StationRepository, stationID uuid.UUID) error {
	station, err := stations.FindByID(ctx, stationID)
	if err != nil {
		return internalError("failed to get station", err)
	}
	if station == nil {
		return apperror.NotFound(apperror.CodeNotFound, "station")
	}
	if station.Status != entity.StationStatusActive {
		return validationError(map[string]string{"stationId": "Station is not active"})
	}
	return nil
}

func (s *vehicleService) CreateVehicle(ctx context.Context, req *request.VehicleRequest) (*response.VehicleResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create vehicle validation failed", zap.Error(err))
		return nil, err
	}

	stationID, err := parseID("stationId", req.StationID)
	if err != nil {
		return nil, err
	}
	if err := activeStation(ctx, s.repo.Station, stationID); err != nil {
		return nil, err
	}

	vehicle := &entity.Vehicle{
		Base:         entity.NewBase(s.now()),
		StationID:    stationID,
		LicensePlate: strings.ToUpper(strings.TrimSpace(req.LicensePlate)),
		Brand:        strings.TrimSpace(req.Brand),
		Model:        strings.TrimSpace(req.Model),
		Status:       entity.VehicleStatusAvailable,
		BatteryLevel: *req.BatteryLevel,
		PricePerHour: req.PricePerHour,
	}

	if err := s.repo.Vehicle.Create(ctx, vehicle); err != nil {
		return nil, internalError("failed to create vehicle", uniqueViolation(err, errPlateTaken))
	}

	s.log.Info("Vehicle created",
		zap.String("vehicle_id", vehicle.ID.String()),
		zap.String("license_plate", vehicle.LicensePlate),
	)

	resp := response.VehicleToResponse(vehicle)
	return &resp, nil
}

func (s *vehicleService) UpdateVehicle(ctx context.Context, vehicleID string, req *request.VehicleRequest) (*response.VehicleResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	id, err := parseID("id", vehicleID)
	if err != nil {
		return nil, err
	}
	stationID, err := parseID("stationId", req.StationID)
	if err != nil {
		return nil, err
	}

	var vehicle *entity.Vehicle
	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		v, err := tx.Vehicle.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if v == nil || v.IsDeleted() {
			return apperror.NotFound(apperror.CodeNotFound, "vehicle")
		}

		if v.StationID != stationID {
			if err := activeStation(ctx, tx.Station, stationID); err != nil {
				return err
			}
			busy, err := tx.Booking.HasOccupying(ctx, v.ID)
			if err != nil {
				return err
			}
			if busy {
				return errVehicleInUse
			}
		}

		v.StationID = stationID
		v.LicensePlate = strings.ToUpper(strings.TrimSpace(req.LicensePlate))
		v.Brand = strings.TrimSpace(req.Brand)
		v.Model = strings.TrimSpace(req.Model)
		v.BatteryLevel = *req.BatteryLevel
		v.PricePerHour = req.PricePerHour
		v.UpdatedAt = s.now()

		vehicle = v
		return uniqueViolation(tx.Vehicle.Update(ctx, v), errPlateTaken)
	})
	if err != nil {
		return nil, internalError("failed to update vehicle", err)
	}

	resp := response.VehicleToResponse(vehicle)
	return &resp, nil
}

// UpdateVehicleStatus is the manual status change used by staff. RESERVED is
// owned by the booking lifecycle and is rejected by request validation.
func (s *vehicleService) UpdateVehicleStatus(ctx context.Context, vehicleID string, req *request.UpdateVehicleStatusRequest) (*response.VehicleResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	id, err := parseID("id", vehicleID)
	if err != nil {
		return nil, err
	}

	var vehicle *entity.Vehicle
	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		v, err := tx.Vehicle.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if v == nil || v.IsDeleted() {
			return apperror.NotFound(apperror.CodeNotFound, "vehicle")
		}

		busy, err := tx.Booking.HasOccupying(ctx, v.ID)
		if err != nil {
			return err
		}
		if busy {
			return errVehicleInUse
		}

		now := s.now()
		v.Status = entity.VehicleStatus(req.Status)
		v.UpdatedAt = now
		vehicle = v
		return tx.Vehicle.UpdateStatus(ctx, v.ID, v.Status, now)
	})
	if err != nil {
		return nil, internalError("failed to update vehicle status", err)
	}

	s.log.Info("Vehicle status changed",
		zap.String("vehicle_id", vehicle.ID.String()),
		zap.String("status", string(vehicle.Status)),
	)

	resp := response.VehicleToResponse(vehicle)
	return &resp, nil
}

func (s *vehicleService) DeleteVehicle(ctx context.Context, vehicleID string) error {
	id, err := parseID("id", vehicleID)
	if err != nil {
		return err
	}

	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		v, err := tx.Vehicle.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if v == nil || v.IsDeleted() {
			return apperror.NotFound(apperror.CodeNotFound, "vehicle")
		}

		busy, err := tx.Booking.HasOccupying(ctx, v.ID)
		if err != nil {
			return err
		}
		if busy {
			return errVehicleInUse
		}

		return tx.Vehicle.Delete(ctx, v.ID)
	})
	if err != nil {
		return internalError("failed to delete vehicle", err)
	}

	s.log.Info("Vehicle deleted", zap.String("vehicle_id", vehicleID))
	return nil
}
