package entity

import "github.com/google/uuid"

type VehicleStatus string

const (
	VehicleStatusAvailable    VehicleStatus = "AVAILABLE"
	VehicleStatusReserved     VehicleStatus = "RESERVED"
	VehicleStatusRented       VehicleStatus = "RENTED"
	VehicleStatusOutOfService VehicleStatus = "OUT_OF_SERVICE"
	VehicleStatusMaintenance  VehicleStatus = "MAINTENANCE"
)

func (s VehicleStatus) IsValid() bool {
	switch s {
	case VehicleStatusAvailable, VehicleStatusReserved, VehicleStatusRented,
		VehicleStatusOutOfService, VehicleStatusMaintenance:
		return true
	}
	return false
}

type Vehicle struct {
	Base
	StationID    uuid.UUID     `db:"station_id"`
	LicensePlate string        `db:"license_plate"`
	Brand        string        `db:"brand"`
	Model        string        `db:"model"`
	Status       VehicleStatus `db:"status"`
	BatteryLevel int           `db:"battery_level"`
	PricePerHour float64       `db:"price_per_hour"`
}

// IsBookable reports whether a new booking may reserve the vehicle.
func (v *Vehicle) IsBookable() bool {
	return v != nil && !v.IsDeleted() && v.Status == VehicleStatusAvailable
}
