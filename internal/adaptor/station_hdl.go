package adaptor

import (
	"net/http"

	"ev-rental/internal/dto/request"
	"ev-rental/internal/usecase"
	"ev-rental/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type StationHandler struct {
	service usecase.StationService
	log     *zap.Logger
}

func NewStationHandler(service usecase.StationService, log *zap.Logger) *StationHandler {
	return &StationHandler{
		service: service,
		log:     log.With(zap.String("handler", "station")),
	}
}

// GetStations handles GET /api/stations (public)
func (h *StationHandler) GetStations(w http.ResponseWriter, r *http.Request) {
	req := &request.StationListRequest{
		PaginatedRequest: parsePagination(r),
		Status:           utils.OptionalString(r.URL.Query().Get("status")),
	}

	stations, err := h.service.GetAllStations(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get stations")
		return
	}

	utils.ResponseSuccess(w, "success", stations)
}

// GetStation handles GET /api/stations/{id} (public)
func (h *StationHandler) GetStation(w http.ResponseWriter, r *http.Request) {
	station, err := h.service.GetStation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get station")
		return
	}

	utils.ResponseSuccess(w, "success", station)
}

// CreateStation handles POST /api/stations (admin)
func (h *StationHandler) CreateStation(w http.ResponseWriter, r *http.Request) {
	var req request.StationRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, h.log, err, "create station")
		return
	}

	station, err := h.service.CreateStation(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create station")
		return
	}

	utils.ResponseCreated(w, "Station created", station)
}

// UpdateStation handles PUT /api/stations/{id} (admin)
func (h *StationHandler) UpdateStation(w http.ResponseWriter, r *http.Request) {
	var req request.StationRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, h.log, err, "update station")
		return
	}

	station, err := h.service.UpdateStation(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update station")
		return
	}

	utils.ResponseSuccess(w, "Station updated", station)
}

// DeleteStation handles DELETE /api/stations/{id} (admin)
func (h *StationHandler) DeleteStation(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteStation(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete station")
		return
	}

	utils.ResponseSuccess(w, "Station deleted", nil)
}
