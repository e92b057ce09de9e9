package response

import (
	"time"

	"ev-rental/internal/data/entity"
)

type BookingResponse struct {
	ID              string               `json:"id"`
	UserID          string               `json:"userId"`
	VehicleID       string               `json:"vehicleId"`
	StationID       string               `json:"stationId"`
	StartTime       time.Time            `json:"startTime"`
	EndTime         time.Time            `json:"endTime"`
	Status          entity.BookingStatus `json:"status"`
	PickupLocation  string               `json:"pickupLocation"`
	DropoffLocation *string              `json:"dropoffLocation,omitempty"`
	TotalPrice      float64              `json:"totalPrice"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

// Helper converters
func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID.String(),
		UserID:          b.UserID.String(),
		VehicleID:       b.VehicleID.String(),
		StationID:       b.StationID.String(),
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		Status:          b.Status,
		PickupLocation:  b.PickupLocation,
		DropoffLocation: b.DropoffLocation,
		TotalPrice:      b.TotalPrice,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func BookingsToResponse(bookings []*entity.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookingToResponse(b))
	}
	return out
}
