package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"ev-rental/internal/data/entity"
	"ev-rental/pkg/apperror"
	"ev-rental/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// execStub answers every Exec with err; other Querier methods are not used.
type execStub struct {
	database.Querier
	err   error
	calls int
}

func (s *execStub) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	s.calls++
	return pgconn.CommandTag{}, s.err
}

func sampleBooking() *entity.Booking {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	return &entity.Booking{
		BaseNoDelete:   entity.NewBaseNoDelete(start),
		UserID:         uuid.New(),
		VehicleID:      uuid.New(),
		StationID:      uuid.New(),
		StartTime:      start,
		EndTime:        start.Add(2 * time.Hour),
		Status:         entity.BookingStatusPending,
		PickupLocation: "Dock 1",
		TotalPrice:     50,
	}
}

func TestBookingRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("inserted", func(t *testing.T) {
		db := &execStub{}
		repo := NewBookingRepository(db, zap.NewNop())

		require.NoError(t, repo.Create(ctx, sampleBooking()))
		assert.Equal(t, 1, db.calls)
	})

	t.Run("exclusion violation is a slot conflict", func(t *testing.T) {
		db := &execStub{err: &pgconn.PgError{Code: database.ExclusionViolation, ConstraintName: "bookings_no_overlap"}}
		repo := NewBookingRepository(db, zap.NewNop())

		err := repo.Create(ctx, sampleBooking())
		assert.ErrorIs(t, err, apperror.ErrSlotConflict)
		assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	})

	t.Run("check violation is a validation error", func(t *testing.T) {
		db := &execStub{err: &pgconn.PgError{Code: database.CheckViolation, ConstraintName: "bookings_time_order"}}
		repo := NewBookingRepository(db, zap.NewNop())

		err := repo.Create(ctx, sampleBooking())
		require.True(t, apperror.IsKind(err, apperror.KindValidation))
		assert.Contains(t, apperror.As(err).Details, "endTime")
	})

	t.Run("other failures are wrapped", func(t *testing.T) {
		cause := errors.New("connection reset")
		db := &execStub{err: cause}
		repo := NewBookingRepository(db, zap.NewNop())

		err := repo.Create(ctx, sampleBooking())
		assert.ErrorIs(t, err, cause)
		assert.NotErrorIs(t, err, apperror.ErrSlotConflict)
	})
}
