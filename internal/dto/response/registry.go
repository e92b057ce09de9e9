package response

import (
	"time"

	"ev-rental/internal/data/entity"

	"github.com/google/uuid"
)

type DocumentResponse struct {
	ID             string                `json:"id"`
	UserID         string                `json:"userId"`
	Type           entity.DocumentType   `json:"type"`
	DocumentNumber string                `json:"documentNumber"`
	FrontImageURL  string                `json:"frontImageUrl"`
	BackImageURL   *string               `json:"backImageUrl,omitempty"`
	Status         entity.DocumentStatus `json:"status"`
	ReviewedBy     *string               `json:"reviewedBy,omitempty"`
	ReviewNote     *string               `json:"reviewNote,omitempty"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

type ContractResponse struct {
	ID        string                `json:"id"`
	BookingID string                `json:"bookingId"`
	UserID    string                `json:"userId"`
	StaffID   string                `json:"staffId"`
	Terms     string                `json:"terms"`
	Status    entity.ContractStatus `json:"status"`
	SignedAt  *time.Time            `json:"signedAt,omitempty"`
	CreatedAt time.Time             `json:"createdAt"`
}

type InspectionResponse struct {
	ID           string                  `json:"id"`
	VehicleID    string                  `json:"vehicleId"`
	BookingID    *string                 `json:"bookingId,omitempty"`
	StaffID      string                  `json:"staffId"`
	Type         entity.InspectionType   `json:"type"`
	BatteryLevel int                     `json:"batteryLevel"`
	Condition    entity.VehicleCondition `json:"condition"`
	Notes        *string                 `json:"notes,omitempty"`
	ImageURLs    []string                `json:"imageUrls"`
	CreatedAt    time.Time               `json:"createdAt"`
}

type NotificationResponse struct {
	ID        string                  `json:"id"`
	Type      entity.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	IsRead    bool                    `json:"isRead"`
	CreatedAt time.Time               `json:"createdAt"`
}

type PromotionResponse struct {
	ID              string    `json:"id"`
	Code            string    `json:"code"`
	Description     *string   `json:"description,omitempty"`
	DiscountPercent int       `json:"discountPercent"`
	MaxDiscount     *float64  `json:"maxDiscount,omitempty"`
	StartsAt        time.Time `json:"startsAt"`
	EndsAt          time.Time `json:"endsAt"`
	IsActive        bool      `json:"isActive"`
}

func optionalID(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func DocumentToResponse(d *entity.Document) DocumentResponse {
	return DocumentResponse{
		ID:             d.ID.String(),
		UserID:         d.UserID.String(),
		Type:           d.Type,
		DocumentNumber: d.DocumentNumber,
		FrontImageURL:  d.FrontImageURL,
		BackImageURL:   d.BackImageURL,
		Status:         d.Status,
		ReviewedBy:     optionalID(d.ReviewedBy),
		ReviewNote:     d.ReviewNote,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func DocumentsToResponse(docs []*entity.Document) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, DocumentToResponse(d))
	}
	return out
}

func ContractToResponse(c *entity.Contract) ContractResponse {
	return ContractResponse{
		ID:        c.ID.String(),
		BookingID: c.BookingID.String(),
		UserID:    c.UserID.String(),
		StaffID:   c.StaffID.String(),
		Terms:     c.Terms,
		Status:    c.Status,
		SignedAt:  c.SignedAt,
		CreatedAt: c.CreatedAt,
	}
}

func InspectionToResponse(i *entity.Inspection) InspectionResponse {
	urls := i.ImageURLs
	if urls == nil {
		urls = []string{}
	}
	return InspectionResponse{
		ID:           i.ID.String(),
		VehicleID:    i.VehicleID.String(),
		BookingID:    optionalID(i.BookingID),
		StaffID:      i.StaffID.String(),
		Type:         i.Type,
		BatteryLevel: i.BatteryLevel,
		Condition:    i.Condition,
		Notes:        i.Notes,
		ImageURLs:    urls,
		CreatedAt:    i.CreatedAt,
	}
}

func InspectionsToResponse(items []*entity.Inspection) []InspectionResponse {
	out := make([]InspectionResponse, 0, len(items))
	for _, i := range items {
		out = append(out, InspectionToResponse(i))
	}
	return out
}

func NotificationToResponse(n *entity.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID.String(),
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func NotificationsToResponse(items []*entity.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, NotificationToResponse(n))
	}
	return out
}

func PromotionToResponse(p *entity.Promotion) PromotionResponse {
	return PromotionResponse{
		ID:              p.ID.String(),
		Code:            p.Code,
		Description:     p.Description,
		DiscountPercent: p.DiscountPercent,
		MaxDiscount:     p.MaxDiscount,
		StartsAt:        p.StartsAt,
		EndsAt:          p.EndsAt,
		IsActive:        p.IsActive,
	}
}

func PromotionsToResponse(items []*entity.Promotion) []PromotionResponse {
	out := make([]PromotionResponse, 0, len(items))
	for _, p := range items {
		out = append(out, PromotionToResponse(p))
	}
	return out
}
