package request

// CreateBookingRequest carries RFC3339 timestamps; they are parsed by the service.
type CreateBookingRequest struct {
	VehicleID       string  `json:"vehicleId" validate:"required,uuid"`
	StationID       string  `json:"stationId" validate:"required,uuid"`
	StartTime       string  `json:"startTime" validate:"required"`
	EndTime         string  `json:"endTime" validate:"required"`
	PickupLocation  string  `json:"pickupLocation" validate:"required,max=255"`
	DropoffLocation *string `json:"dropoffLocation,omitempty" validate:"omitempty,max=255"`
}

type BookingListRequest struct {
	PaginatedRequest
	Status    *string `json:"status,omitempty" validate:"omitempty,oneof=PENDING CONFIRMED IN_PROGRESS COMPLETED CANCELLED"`
	VehicleID *string `json:"vehicleId,omitempty" validate:"omitempty,uuid"`
	StationID *string `json:"stationId,omitempty" validate:"omitempty,uuid"`
}
