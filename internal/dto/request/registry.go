package request

type CreateDocumentRequest struct {
	Type           string  `json:"type" validate:"required,oneof=DRIVER_LICENSE NATIONAL_ID"`
	DocumentNumber string  `json:"documentNumber" validate:"required,min=4,max=50"`
	FrontImageURL  string  `json:"frontImageUrl" validate:"required,url"`
	BackImageURL   *string `json:"backImageUrl,omitempty" validate:"omitempty,url"`
}

type DocumentListRequest struct {
	PaginatedRequest
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=PENDING APPROVED REJECTED"`
}

type VerifyDocumentRequest struct {
	Status string  `json:"status" validate:"required,oneof=APPROVED REJECTED"`
	Note   *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

type CreateContractRequest struct {
	BookingID string `json:"bookingId" validate:"required,uuid"`
	Terms     string `json:"terms" validate:"required,min=10"`
}

type CreateInspectionRequest struct {
	VehicleID    string   `json:"vehicleId" validate:"required,uuid"`
	BookingID    *string  `json:"bookingId,omitempty" validate:"omitempty,uuid"`
	Type         string   `json:"type" validate:"required,oneof=PICKUP RETURN ROUTINE"`
	BatteryLevel *int     `json:"batteryLevel" validate:"required,min=0,max=100"`
	Condition    string   `json:"condition" validate:"required,oneof=GOOD MINOR_DAMAGE NEEDS_MAINTENANCE"`
	Notes        *string  `json:"notes,omitempty" validate:"omitempty,max=1000"`
	ImageURLs    []string `json:"imageUrls,omitempty" validate:"omitempty,dive,url"`
}

type NotificationListRequest struct {
	PaginatedRequest
	UnreadOnly bool `json:"unread,omitempty"`
}

type PromotionRequest struct {
	Code            string   `json:"code" validate:"required,alphanum,min=3,max=32"`
	Description     *string  `json:"description,omitempty" validate:"omitempty,max=255"`
	DiscountPercent int      `json:"discountPercent" validate:"required,min=1,max=100"`
	MaxDiscount     *float64 `json:"maxDiscount,omitempty" validate:"omitempty,gt=0"`
	StartsAt        string   `json:"startsAt" validate:"required"`
	EndsAt          string   `json:"endsAt" validate:"required"`
	IsActive        *bool    `json:"isActive,omitempty"`
}
