package entity

type StationStatus string

const (
	StationStatusActive   StationStatus = "ACTIVE"
	StationStatusInactive StationStatus = "INACTIVE"
)

type Station struct {
	Base
	Name      string        `db:"name"`
	Address   string        `db:"address"`
	Latitude  float64       `db:"latitude"`
	Longitude float64       `db:"longitude"`
	Capacity  int           `db:"capacity"`
	Status    StationStatus `db:"status"`
}
