package request

type StationRequest struct {
	Name      string   `json:"name" validate:"required,min=1,max=100"`
	Address   string   `json:"address" validate:"required,min=1,max=255"`
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
	Capacity  int      `json:"capacity" validate:"min=0"`
	Status    string   `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

type StationListRequest struct {
	PaginatedRequest
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

type VehicleRequest struct {
	StationID    string  `json:"stationId" validate:"required,uuid"`
	LicensePlate string  `json:"licensePlate" validate:"required,min=2,max=20"`
	Brand        string  `json:"brand" validate:"required,max=50"`
	Model        string  `json:"model" validate:"required,max=50"`
	BatteryLevel *int    `json:"batteryLevel" validate:"required,min=0,max=100"`
	PricePerHour float64 `json:"pricePerHour" validate:"gt=0"`
}

type VehicleListRequest struct {
	PaginatedRequest
	StationID *string `json:"stationId,omitempty" validate:"omitempty,uuid"`
	Status    *string `json:"status,omitempty" validate:"omitempty,oneof=AVAILABLE RESERVED RENTED OUT_OF_SERVICE MAINTENANCE"`
}

type UpdateVehicleStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=AVAILABLE RENTED OUT_OF_SERVICE MAINTENANCE"`
}
