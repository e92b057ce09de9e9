package repository

import (
	"context"
	"errors"
	"fmt"

	"ev-rental/internal/data/entity"
	"ev-rental/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type DocumentFilter struct {
	UserID *uuid.UUID
	Status *entity.DocumentStatus
}

type DocumentRepository interface {
	Create(ctx context.Context, document *entity.Document) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Document, error)
	FindAll(ctx context.Context, filter DocumentFilter, limit, offset int) ([]*entity.Document, error)
	Count(ctx context.Context, filter DocumentFilter) (int64, error)
	// HasActiveOfType reports whether the user holds a non-rejected document of the type.
	HasActiveOfType(ctx context.Context, userID uuid.UUID, docType entity.DocumentType) (bool, error)
	UpdateReview(ctx context.Context, document *entity.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type documentRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewDocumentRepository(db database.Querier, log *zap.Logger) DocumentRepository {
	return &documentRepository{
		db:  db,
		log: log.With(zap.String("repository", "document")),
	}
}

const documentColumns = `id, user_id, type, document_number, front_image_url, back_image_url,
		       status, reviewed_by, review_note, created_at, updated_at`

func scanDocument(row rowScanner) (*entity.Document, error) {
	var d entity.Document
	err := row.Scan(
		&d.ID,
		&d.UserID,
		&d.Type,
		&d.DocumentNumber,
		&d.FrontImageURL,
		&d.BackImageURL,
		&d.Status,
		&d.ReviewedBy,
		&d.ReviewNote,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *documentRepository) Create(ctx context.Context, document *entity.Document) error {
	query := `
		INSERT INTO documents (id, user_id, type, document_number, front_image_url, back_image_url,
		                       status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		document.ID,
		document.UserID,
		document.Type,
		document.DocumentNumber,
		document.FrontImageURL,
		document.BackImageURL,
		document.Status,
		document.CreatedAt,
		document.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create document",
			zap.Error(err),
			zap.String("user_id", document.UserID.String()),
		)
		return fmt.Errorf("create document for user %s: %w", document.UserID, err)
	}

	return nil
}

func (r *documentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	document, err := scanDocument(r.db.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find document by ID",
			zap.Error(err),
			zap.String("document_id", id.String()),
		)
		return nil, fmt.Errorf("find document by ID %s: %w", id, err)
	}

	return document, nil
}

func documentWhere(filter DocumentFilter) *whereBuilder {
	where := newWhere()
	if filter.UserID != nil {
		where.add("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		where.add("status = ?", *filter.Status)
	}
	return where
}

func (r *documentRepository) FindAll(ctx context.Context, filter DocumentFilter, limit, offset int) ([]*entity.Document, error) {
	where := documentWhere(filter)
	pageSQL, args := where.page(limit, offset)
	query := `SELECT ` + documentColumns + ` FROM documents` + where.String() + ` ORDER BY created_at DESC` + pageSQL

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find documents", zap.Error(err))
		return nil, fmt.Errorf("find documents: %w", err)
	}
	defer rows.Close()

	var documents []*entity.Document
	for rows.Next() {
		document, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		documents = append(documents, document)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document rows: %w", err)
	}

	return documents, nil
}

func (r *documentRepository) Count(ctx context.Context, filter DocumentFilter) (int64, error) {
	where := documentWhere(filter)

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM documents`+where.String(), where.args...).Scan(&count); err != nil {
		r.log.Error("Failed to count documents", zap.Error(err))
		return 0, fmt.Errorf("count documents: %w", err)
	}

	return count, nil
}

func (r *documentRepository) HasActiveOfType(ctx context.Context, userID uuid.UUID, docType entity.DocumentType) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM documents WHERE user_id = $1 AND type = $2 AND status <> 'REJECTED')`

	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, docType).Scan(&exists); err != nil {
		r.log.Error("Failed to check documents", zap.Error(err))
		return false, fmt.Errorf("check documents of user %s: %w", userID, err)
	}

	return exists, nil
}

func (r *documentRepository) UpdateReview(ctx context.Context, document *entity.Document) error {
	query := `
		UPDATE documents
		SET status = $2, reviewed_by = $3, review_note = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		document.ID,
		document.Status,
		document.ReviewedBy,
		document.ReviewNote,
		document.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update document review",
			zap.Error(err),
			zap.String("document_id", document.ID.String()),
		)
		return fmt.Errorf("update document %s: %w", document.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s not found", document.ID)
	}

	return nil
}

func (r *documentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete document",
			zap.Error(err),
			zap.String("document_id", id.String()),
		)
		return fmt.Errorf("delete document %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s not found", id)
	}

	return nil
}
