package adaptor

import (
	"net/http"

	"ev-rental/internal/dto/request"
	"ev-rental/internal/usecase"
	"ev-rental/pkg/utils"

	"go.uber.org/zap"
)

type InspectionHandler struct {
	service usecase.InspectionService
	log     *zap.Logger
}

func NewInspectionHandler(service usecase.InspectionService, log *zap.Logger) *InspectionHandler {
	return &InspectionHandler{
		service: service,
		log:     log.With(zap.String("handler", "inspection")),
	}
}

// Record handles POST /api/inspections (staff, admin)
func (h *InspectionHandler) Record(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}

	var req request.CreateInspectionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, h.log, err, "record inspection")
		return
	}

	inspection, err := h.service.Record(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "record inspection")
		return
	}

	utils.ResponseCreated(w, "Inspection recorded", inspection)
}

// ListByVehicle handles GET /api/inspections?vehicleId= (staff, admin)
func (h *InspectionHandler) ListByVehicle(w http.ResponseWriter, r *http.Request) {
	vehicleID := r.URL.Query().Get("vehicleId")
	if vehicleID == "" {
		utils.ResponseBadRequest(w, "vehicleId query parameter is required", nil)
		return
	}

	items, err := h.service.ListByVehicle(r.Context(), vehicleID)
	if err != nil {
		handleServiceError(w, h.log, err, "list inspections")
		return
	}

	utils.ResponseSuccess(w, "success", items)
}
