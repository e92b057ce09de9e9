package entity

import "github.com/google/uuid"

type NotificationType string

const (
	NotificationBookingCreated   NotificationType = "BOOKING_CREATED"
	NotificationBookingConfirmed NotificationType = "BOOKING_CONFIRMED"
	NotificationBookingCompleted NotificationType = "BOOKING_COMPLETED"
	NotificationBookingCancelled NotificationType = "BOOKING_CANCELLED"
	NotificationPaymentPaid      NotificationType = "PAYMENT_PAID"
	NotificationPaymentFailed    NotificationType = "PAYMENT_FAILED"
	NotificationPaymentRefunded  NotificationType = "PAYMENT_REFUNDED"
	NotificationDocumentReviewed NotificationType = "DOCUMENT_REVIEWED"
	NotificationContractCreated  NotificationType = "CONTRACT_CREATED"
)

type Notification struct {
	BaseSimple
	UserID  uuid.UUID        `db:"user_id"`
	Type    NotificationType `db:"type"`
	Title   string           `db:"title"`
	Message string           `db:"message"`
	IsRead  bool             `db:"is_read"`
}
