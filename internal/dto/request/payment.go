package request

type CreatePaymentRequest struct {
	BookingID     string  `json:"bookingId" validate:"required,uuid"`
	Method        string  `json:"method" validate:"required,oneof=CASH GATEWAY"`
	PromotionCode *string `json:"promotionCode,omitempty" validate:"omitempty,min=3,max=32"`
}

type ConfirmCashRequest struct {
	ReceiptNumber *string `json:"receiptNumber,omitempty" validate:"omitempty,max=64"`
}

type RefundRequest struct {
	Amount float64 `json:"amount" validate:"gt=0"`
}

// WebhookNotification is the provider's payment notification body.
type WebhookNotification struct {
	Type   string `json:"type"`
	Action string `json:"action,omitempty"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}
