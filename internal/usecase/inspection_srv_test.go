package usecase

import (
	"context"
	"testing"
	"time"

	"ev-rental/internal/data/entity"
	"ev-rental/internal/dto/request"
	"ev-rental/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (w *world) inspectionService() InspectionService {
	svc := NewInspectionService(w.repo, w.log).(*inspectionService)
	svc.now = fixedClock
	return svc
}

func inspectionRequest(v entity.Vehicle, condition entity.VehicleCondition, battery int) *request.CreateInspectionRequest {
	return &request.CreateInspectionRequest{
		VehicleID:    v.ID.String(),
		Type:         string(entity.InspectionTypeRoutine),
		BatteryLevel: &battery,
		Condition:    string(condition),
	}
}

func TestInspectionService_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("syncs battery level", func(t *testing.T) {
		w := newWorld()
		svc := w.inspectionService()
		staff := w.addUser(entity.RoleStaff)
		v := w.addVehicle(w.addStation(entity.StationStatusActive).ID, entity.VehicleStatusAvailable)

		resp, err := svc.Record(ctx, identityOf(staff), inspectionRequest(v, entity.ConditionGood, 42))
		require.NoError(t, err)
		assert.Equal(t, staff.ID.String(), resp.StaffID)

		got := w.vehicle(v.ID)
		assert.Equal(t, 42, got.BatteryLevel)
		assert.Equal(t, entity.VehicleStatusAvailable, got.Status)
	})

	t.Run("zero battery is accepted", func(t *testing.T) {
		w := newWorld()
		svc := w.inspectionService()
		staff := w.addUser(entity.RoleStaff)
		v := w.addVehicle(w.addStation(entity.StationStatusActive).ID, entity.VehicleStatusAvailable)

		_, err := svc.Record(ctx, identityOf(staff), inspectionRequest(v, entity.ConditionGood, 0))
		require.NoError(t, err)
		assert.Zero(t, w.vehicle(v.ID).BatteryLevel)
	})

	t.Run("needs maintenance takes vehicle out of rotation", func(t *testing.T) {
		w := newWorld()
		svc := w.inspectionService()
		staff := w.addUser(entity.RoleStaff)
		v := w.addVehicle(w.addStation(entity.StationStatusActive).ID, entity.VehicleStatusAvailable)

		_, err := svc.Record(ctx, identityOf(staff), inspectionRequest(v, entity.ConditionNeedsMaintenance, 70))
		require.NoError(t, err)
		assert.Equal(t, entity.VehicleStatusMaintenance, w.vehicle(v.ID).Status)

		list, err := svc.ListByVehicle(ctx, v.ID.String())
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("needs maintenance while booked", func(t *testing.T) {
		w := newWorld()
		svc := w.inspectionService()
		staff := w.addUser(entity.RoleStaff)
		renter := w.addUser(entity.RoleRenter)
		v := w.addVehicle(w.addStation(entity.StationStatusActive).ID, entity.VehicleStatusReserved)
		w.addBooking(renter.ID, v, entity.BookingStatusConfirmed, testNow.Add(time.Hour), 2)

		_, err := svc.Record(ctx, identityOf(staff), inspectionRequest(v, entity.ConditionNeedsMaintenance, 30))
		assert.Equal(t, apperror.CodeVehicleInUse, apperror.As(err).Code)

		got := w.vehicle(v.ID)
		assert.Equal(t, entity.VehicleStatusReserved, got.Status)
		assert.Equal(t, 90, got.BatteryLevel)
		assert.Empty(t, w.store.inspections)
	})

	t.Run("booking of another vehicle", func(t *testing.T) {
		w := newWorld()
		svc := w.inspectionService()
		staff := w.addUser(entity.RoleStaff)
		renter := w.addUser(entity.RoleRenter)
		station := w.addStation(entity.StationStatusActive)
		v := w.addVehicle(station.ID, entity.VehicleStatusAvailable)
		elsewhere := w.addVehicle(station.ID, entity.VehicleStatusReserved)
		booking := w.addBooking(renter.ID, elsewhere, entity.BookingStatusPending, testNow.Add(time.Hour), 1)

		req := inspectionRequest(v, entity.ConditionGood, 80)
		req.BookingID = ptr(booking.ID.String())

		_, err := svc.Record(ctx, identityOf(staff), req)
		assert.Contains(t, apperror.As(err).Details, "bookingId")
	})

	t.Run("unknown vehicle", func(t *testing.T) {
		w := newWorld()
		svc := w.inspectionService()
		staff := w.addUser(entity.RoleStaff)
		ghost := entity.Vehicle{Base: entity.NewBase(testNow)}
		ghost.ID = uuid.New()

		_, err := svc.Record(ctx, identityOf(staff), inspectionRequest(ghost, entity.ConditionGood, 50))
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	})

	t.Run("battery out of range", func(t *testing.T) {
		w := newWorld()
		svc := w.inspectionService()
		staff := w.addUser(entity.RoleStaff)
		v := w.addVehicle(w.addStation(entity.StationStatusActive).ID, entity.VehicleStatusAvailable)

		_, err := svc.Record(ctx, identityOf(staff), inspectionRequest(v, entity.ConditionGood, 101))
		assert.Contains(t, apperror.As(err).Details, "batteryLevel")
	})
}
