package adaptor

import (
	"net/http"

	"ev-rental/internal/dto/request"
	"ev-rental/internal/usecase"
	"ev-rental/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PromotionHandler struct {
	service usecase.PromotionService
	log     *zap.Logger
}

func NewPromotionHandler(service usecase.PromotionService, log *zap.Logger) *PromotionHandler {
	return &PromotionHandler{
		service: service,
		log:     log.With(zap.String("handler", "promotion")),
	}
}

// ListActive handles GET /api/promotions (public)
func (h *PromotionHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	promotions, err := h.service.ListActive(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list promotions")
		return
	}

	utils.ResponseSuccess(w, "success", promotions)
}

// GetByCode handles GET /api/promotions/code/{code} (public)
func (h *PromotionHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	promotion, err := h.service.GetByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		handleServiceError(w, h.log, err, "get promotion")
		return
	}

	utils.ResponseSuccess(w, "success", promotion)
}

// Create handles POST /api/promotions (admin)
func (h *PromotionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.PromotionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, h.log, err, "create promotion")
		return
	}

	promotion, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create promotion")
		return
	}

	utils.ResponseCreated(w, "Promotion created", promotion)
}

// Update handles PUT /api/promotions/{id} (admin)
func (h *PromotionHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.PromotionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, h.log, err, "update promotion")
		return
	}

	promotion, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update promotion")
		return
	}

	utils.ResponseSuccess(w, "Promotion updated", promotion)
}

// Delete handles DELETE /api/promotions/{id} (admin)
func (h *PromotionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete promotion")
		return
	}

	utils.ResponseSuccess(w, "Promotion deleted", nil)
}
