package entity

import "github.com/google/uuid"

type DocumentType string

const (
	DocumentTypeDriverLicense DocumentType = "DRIVER_LICENSE"
	DocumentTypeNationalID    DocumentType = "NATIONAL_ID"
)

type DocumentStatus string

const (
	DocumentStatusPending  DocumentStatus = "PENDING"
	DocumentStatusApproved DocumentStatus = "APPROVED"
	DocumentStatusRejected DocumentStatus = "REJECTED"
)

type Document struct {
	BaseNoDelete
	UserID         uuid.UUID      `db:"user_id"`
	Type           DocumentType   `db:"type"`
	DocumentNumber string         `db:"document_number"`
	FrontImageURL  string         `db:"front_image_url"`
	BackImageURL   *string        `db:"back_image_url"`
	Status         DocumentStatus `db:"status"`
	ReviewedBy     *uuid.UUID     `db:"reviewed_by"`
	ReviewNote     *string        `db:"review_note"`
}
