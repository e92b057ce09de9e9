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
	"ev-rental/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DocumentService interface {
	Upload(ctx context.Context, userID uuid.UUID, req *request.CreateDocumentRequest) (*response.DocumentResponse, error)
	GetMyDocuments(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.DocumentResponse], error)
	GetAllDocuments(ctx context.Context, req *request.DocumentListRequest) (*response.PaginatedResponse[response.DocumentResponse], error)
	Verify(ctx context.Context, actor utils.Identity, documentID string, req *request.VerifyDocumentRequest) (*response.DocumentResponse, error)
	Delete(ctx context.Context, actor utils.Identity, documentID string) error
}

type documentService struct {
	repo   *repository.Repository
	notify *notifier
	now    Clock
	log    *zap.Logger
}

func NewDocumentService(repo *repository.Repository, log *zap.Logger) DocumentService {
	log = log.With(zap.String("service", "document"))
	return &documentService{
		repo:   repo,
		notify: newNotifier(repo, log, time.Now),
		now:    time.Now,
		log:    log,
	}
}

func (s *documentService) Upload(ctx context.Context, userID uuid.UUID, req *request.CreateDocumentRequest) (*response.DocumentResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	docType := entity.DocumentType(req.Type)
	exists, err := s.repo.Document.HasActiveOfType(ctx, userID, docType)
	if err != nil {
		return nil, internalError("failed to check documents", err)
	}
	if exists {
		return nil, apperror.Conflict(apperror.CodeDocumentExists, "a document of this type is already on file")
	}

	doc := &entity.Document{
		BaseNoDelete:   entity.NewBaseNoDelete(s.now()),
		UserID:         userID,
		Type:           docType,
		DocumentNumber: strings.TrimSpace(req.DocumentNumber),
		FrontImageURL:  req.FrontImageURL,
		BackImageURL:   req.BackImageURL,
		Status:         entity.DocumentStatusPending,
	}

	if err := s.repo.Document.Create(ctx, doc); err != nil {
		return nil, internalError("failed to save document", err)
	}

	s.log.Info("Document uploaded",
		zap.String("document_id", doc.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("type", string(docType)),
	)

	resp := response.DocumentToResponse(doc)
	return &resp, nil
}

func (s *documentService) GetMyDocuments(ctx context.Context, userID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.DocumentResponse], error) {
	return s.list(ctx, repository.DocumentFilter{UserID: &userID}, req)
}

func (s *documentService) GetAllDocuments(ctx context.Context, req *request.DocumentListRequest) (*response.PaginatedResponse[response.DocumentResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var filter repository.DocumentFilter
	if req.Status != nil {
		status := entity.DocumentStatus(*req.Status)
		filter.Status = &status
	}
	return s.list(ctx, filter, &req.PaginatedRequest)
}

func (s *documentService) list(ctx context.Context, filter repository.DocumentFilter, req *request.PaginatedRequest) (*response.PaginatedResponse[response.DocumentResponse], error) {
	docs, err := s.repo.Document.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		return nil, internalError("failed to get documents", err)
	}

	total, err := s.repo.Document.Count(ctx, filter)
	if err != nil {
		return nil, internalError("failed to count documents", err)
	}

	return response.NewPaginatedResponse(response.DocumentsToResponse(docs), req.CurrentPage(), req.Limit(), total), nil
}

func (s *documentService) find(ctx context.Context, documentID string) (*entity.Document, error) {
	id, err := parseID("id", documentID)
	if err != nil {
		return nil, err
	}

	doc, err := s.repo.Document.FindByID(ctx, id)
	if err != nil {
		return nil, internalError("failed to get document", err)
	}
	if doc == nil {
		return nil, apperror.NotFound(apperror.CodeNotFound, "document")
	}
	return doc, nil
}

// Verify records a staff review; only PENDING documents can be reviewed.
func (s *documentService) Verify(ctx context.Context, actor utils.Identity, documentID string, req *request.VerifyDocumentRequest) (*response.DocumentResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	doc, err := s.find(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.Status != entity.DocumentStatusPending {
		return nil, apperror.InvalidState("document is already %s", doc.Status)
	}

	reviewer := actor.UserID
	doc.Status = entity.DocumentStatus(req.Status)
	doc.ReviewedBy = &reviewer
	doc.ReviewNote = req.Note
	doc.UpdatedAt = s.now()

	if err := s.repo.Document.UpdateReview(ctx, doc); err != nil {
		return nil, internalError("failed to update document", err)
	}

	s.log.Info("Document reviewed",
		zap.String("document_id", doc.ID.String()),
		zap.String("status", string(doc.Status)),
		zap.String("reviewer_id", reviewer.String()),
	)

	s.notify.send(ctx, doc.UserID, entity.NotificationDocumentReviewed, "Document reviewed",
		"Your "+string(doc.Type)+" document was "+strings.ToLower(string(doc.Status))+".")

	resp := response.DocumentToResponse(doc)
	return &resp, nil
}

func (s *documentService) Delete(ctx context.Context, actor utils.Identity, documentID string) error {
	doc, err := s.find(ctx, documentID)
	if err != nil {
		return err
	}
	if doc.UserID != actor.UserID {
		return apperror.Forbidden("you can only delete your own documents")
	}
	if doc.Status == entity.DocumentStatusApproved {
		return apperror.Conflict(apperror.CodeDocumentApproved, "approved documents cannot be deleted")
	}

	if err := s.repo.Document.Delete(ctx, doc.ID); err != nil {
		return internalError("failed to delete document", err)
	}
	return nil
}
