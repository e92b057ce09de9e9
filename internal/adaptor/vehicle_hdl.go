package adaptor

import (
	"net/http"

	"ev-rental/internal/dto/request"
	"ev-rental/internal/usecase"
	"ev-rental/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type VehicleHandler struct {
	service usecase.VehicleService
	log     *zap.Logger
}

func NewVehicleHandler(service usecase.VehicleService, log *zap.Logger) *VehicleHandler {
	return &VehicleHandler{
		service: service,
		log:     log.With(zap.String("handler", "vehicle")),
	}
}

// GetVehicles handles GET /api/vehicles (public)
func (h *VehicleHandler) GetVehicles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.VehicleListRequest{
		PaginatedRequest: parsePagination(r),
		StationID:        utils.OptionalString(query.Get("stationId")),
		Status:           utils.OptionalString(query.Get("status")),
	}

	vehicles, err := h.service.GetAllVehicles(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get vehicles")
		return
	}

	utils.ResponseSuccess(w, "success", vehicles)
}

// GetVehicle handles GET /api/vehicles/{id} (public)
func (h *VehicleHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	vehicle, err := h.service.GetVehicle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get vehicle")
		return
	}

	utils.ResponseSuccess(w, "success", vehicle)
}

// CreateVehicle handles POST /api/vehicles (staff, admin)
func (h *VehicleHandler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var req request.VehicleRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, h.log, err, "create vehicle")
		return
	}

	vehicle, err := h.service.CreateVehicle(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create vehicle")
		return
	}

	utils.ResponseCreated(w, "Vehicle created", vehicle)
}

// UpdateVehicle handles PUT /api/vehicles/{id} (staff, admin)
func (h *VehicleHandler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	var req request.VehicleRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, h.log, err, "update vehicle")
		return
	}

	vehicle, err := h.service.UpdateVehicle(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update vehicle")
		return
	}

	utils.ResponseSuccess(w, "Vehicle updated", vehicle)
}

// UpdateVehicleStatus handles PATCH /api/vehicles/{id}/status (staff, admin)
func (h *VehicleHandler) UpdateVehicleStatus(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateVehicleStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, h.log, err, "update vehicle status")
		return
	}

	vehicle, err := h.service.UpdateVehicleStatus(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update vehicle status")
		return
	}

	utils.ResponseSuccess(w, "Vehicle status updated", vehicle)
}

// DeleteVehicle handles DELETE /api/vehicles/{id} (admin)
func (h *VehicleHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteVehicle(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete vehicle")
		return
	}

	utils.ResponseSuccess(w, "Vehicle deleted", nil)
}
