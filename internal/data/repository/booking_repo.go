package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ev-rental/internal/data/entity"
	"ev-rental/pkg/apperror"
	"ev-rental/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingFilter struct {
	UserID    *uuid.UUID
	VehicleID *uuid.UUID
	StationID *uuid.UUID
	Status    *entity.BookingStatus
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	// FindByIDForUpdate locks the booking row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindAll(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.Booking, error)
	Count(ctx context.Context, filter BookingFilter) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus, at time.Time) error

	// Business queries
	FindOverlapping(ctx context.Context, vehicleID uuid.UUID, start, end time.Time) (*entity.Booking, error)
	HasOccupying(ctx context.Context, vehicleID uuid.UUID) (bool, error)
}

type bookingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBookingRepository(db database.Querier, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, user_id, vehicle_id, station_id, start_time, end_time, status,
		       pickup_location, dropoff_location, total_price, created_at, updated_at`

func scanBooking(row rowScanner) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.VehicleID,
		&b.StationID,
		&b.StartTime,
		&b.EndTime,
		&b.Status,
		&b.PickupLocation,
		&b.DropoffLocation,
		&b.TotalPrice,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts the booking. A violation of the bookings_no_overlap
// exclusion constraint is reported as apperror.ErrSlotConflict.
func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, user_id, vehicle_id, station_id, start_time, end_time, status,
		                      pickup_location, dropoff_location, total_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.UserID,
		booking.VehicleID,
		booking.StationID,
		booking.StartTime,
		booking.EndTime,
		booking.Status,
		booking.PickupLocation,
		booking.DropoffLocation,
		booking.TotalPrice,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	switch database.PgErrorCode(err) {
	case database.ExclusionViolation:
		r.log.Warn("Booking rejected by overlap constraint",
			zap.String("vehicle_id", booking.VehicleID.String()),
		)
		return apperror.ErrSlotConflict
	case database.CheckViolation:
		constraint := database.PgConstraint(err)
		r.log.Warn("Booking rejected by check constraint", zap.String("constraint", constraint))
		return apperror.Validation("booking violates "+constraint, map[string]any{"endTime": "Must be after startTime"})
	}
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("vehicle_id", booking.VehicleID.String()),
			zap.String("user_id", booking.UserID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.findOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
}

func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.findOne(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, id)
}

func (r *bookingRepository) findOne(ctx context.Context, query string, id uuid.UUID) (*entity.Booking, error) {
	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func bookingWhere(filter BookingFilter) *whereBuilder {
	where := newWhere()
	if filter.UserID != nil {
		where.add("user_id = ?", *filter.UserID)
	}
	if filter.VehicleID != nil {
		where.add("vehicle_id = ?", *filter.VehicleID)
	}
	if filter.StationID != nil {
		where.add("station_id = ?", *filter.StationID)
	}
	if filter.Status != nil {
		where.add("status = ?", *filter.Status)
	}
	return where
}

func (r *bookingRepository) FindAll(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.Booking, error) {
	where := bookingWhere(filter)
	pageSQL, args := where.page(limit, offset)
	query := `SELECT ` + bookingColumns + ` FROM bookings` + where.String() + ` ORDER BY created_at DESC` + pageSQL

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find bookings",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) Count(ctx context.Context, filter BookingFilter) (int64, error) {
	where := bookingWhere(filter)

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings`+where.String(), where.args...).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return count, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus, at time.Time) error {
	query := `UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status, at)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id)
	}

	return nil
}

// FindOverlapping returns an occupying booking of the vehicle whose
// [start_time, end_time) intersects [start, end), or nil.
func (r *bookingRepository) FindOverlapping(ctx context.Context, vehicleID uuid.UUID, start, end time.Time) (*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE vehicle_id = $1
		  AND status IN ('PENDING', 'CONFIRMED')
		  AND start_time < $3
		  AND end_time > $2
		ORDER BY start_time
		LIMIT 1
	`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, vehicleID, start, end))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to search overlapping bookings",
			zap.Error(err),
			zap.String("vehicle_id", vehicleID.String()),
		)
		return nil, fmt.Errorf("find overlapping bookings of vehicle %s: %w", vehicleID, err)
	}

	return booking, nil
}

func (r *bookingRepository) HasOccupying(ctx context.Context, vehicleID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM bookings WHERE vehicle_id = $1 AND status IN ('PENDING', 'CONFIRMED'))`

	var exists bool
	if err := r.db.QueryRow(ctx, query, vehicleID).Scan(&exists); err != nil {
		r.log.Error("Failed to check occupying bookings",
			zap.Error(err),
			zap.String("vehicle_id", vehicleID.String()),
		)
		return false, fmt.Errorf("check occupying bookings of vehicle %s: %w", vehicleID, err)
	}

	return exists, nil
}
