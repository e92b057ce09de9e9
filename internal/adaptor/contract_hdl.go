package adaptor

import (
	"net/http"

	"ev-rental/internal/dto/request"
	"ev-rental/internal/usecase"
	"ev-rental/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ContractHandler struct {
	service usecase.ContractService
	log     *zap.Logger
}

func NewContractHandler(service usecase.ContractService, log *zap.Logger) *ContractHandler {
	return &ContractHandler{
		service: service,
		log:     log.With(zap.String("handler", "contract")),
	}
}

// Create handles POST /api/contracts (staff, admin)
func (h *ContractHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}

	var req request.CreateContractRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, h.log, err, "create contract")
		return
	}

	contract, err := h.service.Create(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create contract")
		return
	}

	utils.ResponseCreated(w, "Contract created", contract)
}

// Sign handles POST /api/contracts/{id}/sign (renter)
func (h *ContractHandler) Sign(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}

	contract, err := h.service.Sign(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "sign contract")
		return
	}

	utils.ResponseSuccess(w, "Contract signed", contract)
}

// Get handles GET /api/contracts/{id}
func (h *ContractHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}

	contract, err := h.service.Get(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get contract")
		return
	}

	utils.ResponseSuccess(w, "success", contract)
}
