package repository

import (
	"context"
	"fmt"

	"ev-rental/internal/data/entity"
	"ev-rental/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type InspectionRepository interface {
	Create(ctx context.Context, inspection *entity.Inspection) error
	FindByVehicleID(ctx context.Context, vehicleID uuid.UUID) ([]*entity.Inspection, error)
}

type inspectionRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewInspectionRepository(db database.Querier, log *zap.Logger) InspectionRepository {
	return &inspectionRepository{
		db:  db,
		log: log.With(zap.String("repository", "inspection")),
	}
}

func (r *inspectionRepository) Create(ctx context.Context, inspection *entity.Inspection) error {
	query := `
		INSERT INTO inspections (id, vehicle_id, booking_id, staff_id, type, battery_level,
		                         condition, notes, image_urls, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	imageURLs := inspection.ImageURLs
	if imageURLs == nil {
		imageURLs = []string{}
	}

	_, err := r.db.Exec(ctx, query,
		inspection.ID,
		inspection.VehicleID,
		inspection.BookingID,
		inspection.StaffID,
		inspection.Type,
		inspection.BatteryLevel,
		inspection.Condition,
		inspection.Notes,
		imageURLs,
		inspection.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create inspection",
			zap.Error(err),
			zap.String("vehicle_id", inspection.VehicleID.String()),
		)
		return fmt.Errorf("create inspection for vehicle %s: %w", inspection.VehicleID, err)
	}

	return nil
}

func (r *inspectionRepository) FindByVehicleID(ctx context.Context, vehicleID uuid.UUID) ([]*entity.Inspection, error) {
	query := `
		SELECT id, vehicle_id, booking_id, staff_id, type, battery_level, condition,
		       notes, image_urls, created_at
		FROM inspections
		WHERE vehicle_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, vehicleID)
	if err != nil {
		r.log.Error("Failed to find inspections",
			zap.Error(err),
			zap.String("vehicle_id", vehicleID.String()),
		)
		return nil, fmt.Errorf("find inspections of vehicle %s: %w", vehicleID, err)
	}
	defer rows.Close()

	var inspections []*entity.Inspection
	for rows.Next() {
		var i entity.Inspection
		if err := rows.Scan(
			&i.ID,
			&i.VehicleID,
			&i.BookingID,
			&i.StaffID,
			&i.Type,
			&i.BatteryLevel,
			&i.Condition,
			&i.Notes,
			&i.ImageURLs,
			&i.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan inspection row: %w", err)
		}
		inspections = append(inspections, &i)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inspection rows: %w", err)
	}

	return inspections, nil
}
