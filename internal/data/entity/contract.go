package entity

import (
	"time"

	"github.com/google/uuid"
)

type ContractStatus string

const (
	ContractStatusPendingSignature ContractStatus = "PENDING_SIGNATURE"
	ContractStatusSigned           ContractStatus = "SIGNED"
	ContractStatusVoid             ContractStatus = "VOID"
)

type Contract struct {
	BaseNoDelete
	BookingID uuid.UUID      `db:"booking_id"`
	UserID    uuid.UUID      `db:"user_id"`
	StaffID   uuid.UUID      `db:"staff_id"`
	Terms     string         `db:"terms"`
	Status    ContractStatus `db:"status"`
	SignedAt  *time.Time     `db:"signed_at"`
}
