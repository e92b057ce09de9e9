package entity

import "github.com/google/uuid"

type InspectionType string

const (
	InspectionTypePickup  InspectionType = "PICKUP"
	InspectionTypeReturn  InspectionType = "RETURN"
	InspectionTypeRoutine InspectionType = "ROUTINE"
)

type VehicleCondition string

const (
	ConditionGood             VehicleCondition = "GOOD"
	ConditionMinorDamage      VehicleCondition = "MINOR_DAMAGE"
	ConditionNeedsMaintenance VehicleCondition = "NEEDS_MAINTENANCE"
)

type Inspection struct {
	BaseSimple
	VehicleID    uuid.UUID        `db:"vehicle_id"`
	BookingID    *uuid.UUID       `db:"booking_id"`
	StaffID      uuid.UUID        `db:"staff_id"`
	Type         InspectionType   `db:"type"`
	BatteryLevel int              `db:"battery_level"`
	Condition    VehicleCondition `db:"condition"`
	Notes        *string          `db:"notes"`
	ImageURLs    []string         `db:"image_urls"`
}
