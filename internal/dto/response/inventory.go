package response

import (
	"time"

	"ev-rental/internal/data/entity"
)

type StationResponse struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Address   string               `json:"address"`
	Latitude  float64              `json:"latitude"`
	Longitude float64              `json:"longitude"`
	Capacity  int                  `json:"capacity"`
	Status    entity.StationStatus `json:"status"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

type VehicleResponse struct {
	ID           string               `json:"id"`
	StationID    string               `json:"stationId"`
	LicensePlate string               `json:"licensePlate"`
	Brand        string               `json:"brand"`
	Model        string               `json:"model"`
	Status       entity.VehicleStatus `json:"status"`
	BatteryLevel int                  `json:"batteryLevel"`
	PricePerHour float64              `json:"pricePerHour"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

func StationToResponse(s *entity.Station) StationResponse {
	return StationResponse{
		ID:        s.ID.String(),
		Name:      s.Name,
		Address:   s.Address,
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
		Capacity:  s.Capacity,
		Status:    s.Status,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func StationsToResponse(stations []*entity.Station) []StationResponse {
	out := make([]StationResponse, 0, len(stations))
	for _, s := range stations {
		out = append(out, StationToResponse(s))
	}
	return out
}

func VehicleToResponse(v *entity.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:           v.ID.String(),
		StationID:    v.StationID.String(),
		LicensePlate: v.LicensePlate,
		Brand:        v.Brand,
		Model:        v.Model,
		Status:       v.Status,
		BatteryLevel: v.BatteryLevel,
		PricePerHour: v.PricePerHour,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func VehiclesToResponse(vehicles []*entity.Vehicle) []VehicleResponse {
	out := make([]VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, VehicleToResponse(v))
	}
	return out
}
