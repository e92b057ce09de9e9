package repository

import (
	"context"
	"errors"
	"fmt"

	"ev-rental/internal/data/entity"
	"ev-rental/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type StationFilter struct {
	Status *entity.StationStatus
}

type StationRepository interface {
	Create(ctx context.Context, station *entity.Station) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Station, error)
	FindAll(ctx context.Context, filter StationFilter, limit, offset int) ([]*entity.Station, error)
	Count(ctx context.Context, filter StationFilter) (int64, error)
	Update(ctx context.Context, station *entity.Station) error
	Delete(ctx context.Context, id uuid.UUID) error
	HasVehicles(ctx context.Context, id uuid.UUID) (bool, error)
}

type stationRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewStationRepository(db database.Querier, log *zap.Logger) StationRepository {
	return &stationRepository{
		db:  db,
		log: log.With(zap.String("repository", "station")),
	}
}

const stationColumns = `id, name, address, latitude, longitude, capacity, status,
		       created_at, updated_at, deleted_at`

func scanStation(row rowScanner) (*entity.Station, error) {
	var station entity.Station
	err := row.Scan(
		&station.ID,
		&station.Name,
		&station.Address,
		&station.Latitude,
		&station.Longitude,
		&station.Capacity,
		&station.Status,
		&station.CreatedAt,
		&station.UpdatedAt,
		&station.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &station, nil
}

func (r *stationRepository) Create(ctx context.Context, station *entity.Station) error {
	query := `
		INSERT INTO stations (id, name, address, latitude, longitude, capacity, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		station.ID,
		station.Name,
		station.Address,
		station.Latitude,
		station.Longitude,
		station.Capacity,
		station.Status,
		station.CreatedAt,
		station.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create station",
			zap.Error(err),
			zap.String("name", station.Name),
		)
		return fmt.Errorf("create station %s: %w", station.Name, err)
	}

	return nil
}

func (r *stationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Station, error) {
	query := `SELECT ` + stationColumns + ` FROM stations WHERE id = $1 AND deleted_at IS NULL`

	station, err := scanStation(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find station by ID",
			zap.Error(err),
			zap.String("station_id", id.String()),
		)
		return nil, fmt.Errorf("find station by ID %s: %w", id.String(), err)
	}

	return station, nil
}

func stationWhere(filter StationFilter) *whereBuilder {
	where := newWhere("deleted_at IS NULL")
	if filter.Status != nil {
		where.add("status = ?", *filter.Status)
	}
	return where
}

func (r *stationRepository) FindAll(ctx context.Context, filter StationFilter, limit, offset int) ([]*entity.Station, error) {
	where := stationWhere(filter)
	pageSQL, args := where.page(limit, offset)
	query := `SELECT ` + stationColumns + ` FROM stations` + where.String() + ` ORDER BY name ASC` + pageSQL

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to get all stations", zap.Error(err))
		return nil, fmt.Errorf("find all stations: %w", err)
	}
	defer rows.Close()

	var stations []*entity.Station
	for rows.Next() {
		station, err := scanStation(rows)
		if err != nil {
			r.log.Error("Failed to scan station row", zap.Error(err))
			return nil, fmt.Errorf("scan station row: %w", err)
		}
		stations = append(stations, station)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate station rows: %w", err)
	}

	return stations, nil
}

func (r *stationRepository) Count(ctx context.Context, filter StationFilter) (int64, error) {
	where := stationWhere(filter)

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM stations`+where.String(), where.args...).Scan(&count); err != nil {
		r.log.Error("Failed to count stations", zap.Error(err))
		return 0, fmt.Errorf("count stations: %w", err)
	}

	return count, nil
}

func (r *stationRepository) Update(ctx context.Context, station *entity.Station) error {
	query := `
		UPDATE stations
		SET name = $2, address = $3, latitude = $4, longitude = $5,
		    capacity = $6, status = $7, updated_at = $8
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query,
		station.ID,
		station.Name,
		station.Address,
		station.Latitude,
		station.Longitude,
		station.Capacity,
		station.Status,
		station.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update station",
			zap.Error(err),
			zap.String("station_id", station.ID.String()),
		)
		return fmt.Errorf("update station %s: %w", station.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("station %s not found", station.ID)
	}

	return nil
}

func (r *stationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `UPDATE stations SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		r.log.Error("Failed to delete station",
			zap.Error(err),
			zap.String("station_id", id.String()),
		)
		return fmt.Errorf("delete station %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("station %s not found", id)
	}

	r.log.Info("Station deleted", zap.String("station_id", id.String()))
	return nil
}

// HasVehicles reports whether any non-deleted vehicle is still assigned to the station.
func (r *stationRepository) HasVehicles(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM vehicles WHERE station_id = $1 AND deleted_at IS NULL)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		r.log.Error("Failed to check station vehicles",
			zap.Error(err),
			zap.String("station_id", id.String()),
		)
		return false, fmt.Errorf("check vehicles of station %s: %w", id, err)
	}

	return exists, nil
}
