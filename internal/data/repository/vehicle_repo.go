package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ev-rental/internal/data/entity"
	"ev-rental/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type VehicleFilter struct {
	StationID *uuid.UUID
	Status    *entity.VehicleStatus
}

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *entity.Vehicle) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Vehicle, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	// Soft-deleted rows are returned too so callers can tell them apart.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Vehicle, error)
	FindAll(ctx context.Context, filter VehicleFilter, limit, offset int) ([]*entity.Vehicle, error)
	Count(ctx context.Context, filter VehicleFilter) (int64, error)
	Update(ctx context.Context, vehicle *entity.Vehicle) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.VehicleStatus, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type vehicleRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewVehicleRepository(db database.Querier, log *zap.Logger) VehicleRepository {
	return &vehicleRepository{
		db:  db,
		log: log.With(zap.String("repository", "vehicle")),
	}
}

const vehicleColumns = `id, station_id, license_plate, brand, model, status, battery_level,
		       price_per_hour, created_at, updated_at, deleted_at`

func scanVehicle(row rowScanner) (*entity.Vehicle, error) {
	var v entity.Vehicle
	err := row.Scan(
		&v.ID,
		&v.StationID,
		&v.LicensePlate,
		&v.Brand,
		&v.Model,
		&v.Status,
		&v.BatteryLevel,
		&v.PricePerHour,
		&v.CreatedAt,
		&v.UpdatedAt,
		&v.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *entity.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, station_id, license_plate, brand, model, status,
		                      battery_level, price_per_hour, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		vehicle.ID,
		vehicle.StationID,
		vehicle.LicensePlate,
		vehicle.Brand,
		vehicle.Model,
		vehicle.Status,
		vehicle.BatteryLevel,
		vehicle.PricePerHour,
		vehicle.CreatedAt,
		vehicle.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create vehicle",
			zap.Error(err),
			zap.String("license_plate", vehicle.LicensePlate),
		)
		return fmt.Errorf("create vehicle %s: %w", vehicle.LicensePlate, err)
	}

	return nil
}

func (r *vehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1 AND deleted_at IS NULL`
	return r.findOne(ctx, query, id)
}

func (r *vehicleRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1 FOR UPDATE`
	return r.findOne(ctx, query, id)
}

func (r *vehicleRepository) findOne(ctx context.Context, query string, id uuid.UUID) (*entity.Vehicle, error) {
	vehicle, err := scanVehicle(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find vehicle by ID",
			zap.Error(err),
			zap.String("vehicle_id", id.String()),
		)
		return nil, fmt.Errorf("find vehicle by ID %s: %w", id, err)
	}

	return vehicle, nil
}

func vehicleWhere(filter VehicleFilter) *whereBuilder {
	where := newWhere("deleted_at IS NULL")
	if filter.StationID != nil {
		where.add("station_id = ?", *filter.StationID)
	}
	if filter.Status != nil {
		where.add("status = ?", *filter.Status)
	}
	return where
}

func (r *vehicleRepository) FindAll(ctx context.Context, filter VehicleFilter, limit, offset int) ([]*entity.Vehicle, error) {
	where := vehicleWhere(filter)
	pageSQL, args := where.page(limit, offset)
	query := `SELECT ` + vehicleColumns + ` FROM vehicles` + where.String() + ` ORDER BY created_at DESC` + pageSQL

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to get all vehicles",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []*entity.Vehicle
	for rows.Next() {
		vehicle, err := scanVehicle(rows)
		if err != nil {
			r.log.Error("Failed to scan vehicle row", zap.Error(err))
			return nil, fmt.Errorf("scan vehicle row: %w", err)
		}
		vehicles = append(vehicles, vehicle)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vehicle rows: %w", err)
	}

	return vehicles, nil
}

func (r *vehicleRepository) Count(ctx context.Context, filter VehicleFilter) (int64, error) {
	where := vehicleWhere(filter)

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM vehicles`+where.String(), where.args...).Scan(&count); err != nil {
		r.log.Error("Failed to count vehicles", zap.Error(err))
		return 0, fmt.Errorf("count vehicles: %w", err)
	}

	return count, nil
}

func (r *vehicleRepository) Update(ctx context.Context, vehicle *entity.Vehicle) error {
	query := `
		UPDATE vehicles
		SET station_id = $2, license_plate = $3, brand = $4, model = $5, status = $6,
		    battery_level = $7, price_per_hour = $8, updated_at = $9
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		vehicle.ID,
		vehicle.StationID,
		vehicle.LicensePlate,
		vehicle.Brand,
		vehicle.Model,
		vehicle.Status,
		vehicle.BatteryLevel,
		vehicle.PricePerHour,
		vehicle.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update vehicle",
			zap.Error(err),
			zap.String("vehicle_id", vehicle.ID.String()),
		)
		return fmt.Errorf("update vehicle %s: %w", vehicle.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("vehicle %s not found", vehicle.ID)
	}

	return nil
}

func (r *vehicleRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.VehicleStatus, at time.Time) error {
	query := `UPDATE vehicles SET status = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status, at)
	if err != nil {
		r.log.Error("Failed to update vehicle status",
			zap.Error(err),
			zap.String("vehicle_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update vehicle %s status: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("vehicle %s not found", id)
	}

	return nil
}

func (r *vehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `UPDATE vehicles SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		r.log.Error("Failed to delete vehicle",
			zap.Error(err),
			zap.String("vehicle_id", id.String()),
		)
		return fmt.Errorf("delete vehicle %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("vehicle %s not found", id)
	}

	r.log.Info("Vehicle deleted", zap.String("vehicle_id", id.String()))
	return nil
}
