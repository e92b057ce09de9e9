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

type StationService interface {
	GetAllStations(ctx context.Context, req *request.StationListRequest) (*response.PaginatedResponse[response.StationResponse], error)
	GetStation(ctx context.Context, stationID string) (*response.StationResponse, error)
	CreateStation(ctx context.Context, req *request.StationRequest) (*response.StationResponse, error)
	UpdateStation(ctx context.Context, stationID string, req *request.StationRequest) (*response.StationResponse, error)
	DeleteStation(ctx context.Context, stationID string) error
}

type stationService struct {
	repo *repository.Repository
	now  Clock
	log  *zap.Logger
}

func NewStationService(repo *repository.Repository, log *zap.Logger) StationService {
	return &stationService{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("service", "station")),
	}
}

func (s *stationService) GetAllStations(ctx context.Context, req *request.StationListRequest) (*response.PaginatedResponse[response.StationResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var filter repository.StationFilter
	if req.Status != nil {
		status := entity.StationStatus(*req.Status)
		filter.Status = &status
	}

	stations, err := s.repo.Station.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		return nil, internalError("failed to get stations", err)
	}

	total, err := s.repo.Station.Count(ctx, filter)
	if err != nil {
		return nil, internalError("failed to count stations", err)
	}

	return response.NewPaginatedResponse(response.StationsToResponse(stations), req.CurrentPage(), req.Limit(), total), nil
}

func (s *stationService) findStation(ctx context.Context, stationID string) (*entity.Station, error) {
	id, err := parseID("id", stationID)
	if err != nil {
		return nil, err
	}

	station, err := s.repo.Station.FindByID(ctx, id)
	if err != nil {
		return nil, internalError("failed to get station", err)
	}
	if station == nil {
		return nil, apperror.NotFound(apperror.CodeNotFound, "station")
	}
	return station, nil
}

func (s *stationService) GetStation(ctx context.Context, stationID string) (*response.StationResponse, error) {
	station, err := s.findStation(ctx, stationID)
	if err != nil {
		return nil, err
	}

	resp := response.StationToResponse(station)
	return &resp, nil
}

func (s *stationService) CreateStation(ctx context.Context, req *request.StationRequest) (*response.StationResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create station validation failed", zap.Error(err))
		return nil, err
	}

	station := &entity.Station{Base: entity.NewBase(s.now())}
	applyStationRequest(station, req)
	if station.Status == "" {
		station.Status = entity.StationStatusActive
	}

	if err := s.repo.Station.Create(ctx, station); err != nil {
		return nil, internalError("failed to create station", err)
	}

	s.log.Info("Station created", zap.String("station_id", station.ID.String()), zap.String("name", station.Name))

	resp := response.StationToResponse(station)
	return &resp, nil
}

func (s *stationService) UpdateStation(ctx context.Context, stationID string, req *request.StationRequest) (*response.StationResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	station, err := s.findStation(ctx, stationID)
	if err != nil {
		return nil, err
	}

	applyStationRequest(station, req)
	station.UpdatedAt = s.now()

	if err := s.repo.Station.Update(ctx, station); err != nil {
		return nil, internalError("failed to update station", err)
	}

	resp := response.StationToResponse(station)
	return &resp, nil
}

func applyStationRequest(station *entity.Station, req *request.StationRequest) {
	station.Name = strings.TrimSpace(req.Name)
	station.Address = strings.TrimSpace(req.Address)
	station.Latitude = *req.Latitude
	station.Longitude = *req.Longitude
	station.Capacity = req.Capacity
	if req.Status != "" {
		station.Status = entity.StationStatus(req.Status)
	}
}

func (s *stationService) DeleteStation(ctx context.Context, stationID string) error {
	station, err := s.findStation(ctx, stationID)
	if err != nil {
		return err
	}

	inUse, err := s.repo.Station.HasVehicles(ctx, station.ID)
	if err != nil {
		return internalError("failed to check station vehicles", err)
	}
	if inUse {
		return apperror.Conflict(apperror.CodeStationInUse, "station still has vehicles assigned")
	}

	if err := s.repo.Station.Delete(ctx, station.ID); err != nil {
		return internalError("failed to delete station", err)
	}

	s.log.Info("Station deleted", zap.String("station_id", station.ID.String()))
	return nil
}
