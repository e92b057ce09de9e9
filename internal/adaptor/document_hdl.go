package adaptor

import (
	"net/http"

	"ev-rental/internal/dto/request"
	"ev-rental/internal/usecase"
	"ev-rental/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type DocumentHandler struct {
	service usecase.DocumentService
	log     *zap.Logger
}

func NewDocumentHandler(service usecase.DocumentService, log *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		service: service,
		log:     log.With(zap.String("handler", "document")),
	}
}

// Upload handles POST /api/documents (renter)
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}

	var req request.CreateDocumentRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, h.log, err, "upload document")
		return
	}

	doc, err := h.service.Upload(r.Context(), actor.UserID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "upload document")
		return
	}

	utils.ResponseCreated(w, "Document submitted", doc)
}

// GetMyDocuments handles GET /api/documents/me (renter)
func (h *DocumentHandler) GetMyDocuments(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}

	req := parsePagination(r)
	docs, err := h.service.GetMyDocuments(r.Context(), actor.UserID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "get my documents")
		return
	}

	utils.ResponseSuccess(w, "success", docs)
}

// GetAllDocuments handles GET /api/documents (staff, admin)
func (h *DocumentHandler) GetAllDocuments(w http.ResponseWriter, r *http.Request) {
	req := &request.DocumentListRequest{
		PaginatedRequest: parsePagination(r),
		Status:           utils.OptionalString(r.URL.Query().Get("status")),
	}

	docs, err := h.service.GetAllDocuments(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get documents")
		return
	}

	utils.ResponseSuccess(w, "success", docs)
}

// Verify handles PATCH /api/documents/{id}/verify (staff, admin)
func (h *DocumentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}

	var req request.VerifyDocumentRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, h.log, err, "verify document")
		return
	}

	doc, err := h.service.Verify(r.Context(), actor, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "verify document")
		return
	}

	utils.ResponseSuccess(w, "Document reviewed", doc)
}

// Delete handles DELETE /api/documents/{id} (owner)
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete document")
		return
	}

	utils.ResponseSuccess(w, "Document deleted", nil)
}
