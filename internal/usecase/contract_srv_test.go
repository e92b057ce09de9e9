package usecase

import (
	"context"
	"testing"
	"time"

	"ev-rental/internal/data/entity"
	"ev-rental/internal/dto/request"
	"ev-rental/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (w *world) contractService() ContractService {
	svc := NewContractService(w.repo, w.log).(*contractService)
	svc.now = fixedClock
	svc.notify.now = fixedClock
	return svc
}

const rentalTerms = "The renter returns the vehicle charged above 20%."

func TestContractService_CreateAndSign(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	svc := w.contractService()
	station := w.addStation(entity.StationStatusActive)
	v := w.addVehicle(station.ID, entity.VehicleStatusReserved)
	renter := w.addUser(entity.RoleRenter)
	other := w.addUser(entity.RoleRenter)
	staff := w.addUser(entity.RoleStaff)
	booking := w.addBooking(renter.ID, v, entity.BookingStatusConfirmed, testNow.Add(time.Hour), 3)

	contract, err := svc.Create(ctx, identityOf(staff), &request.CreateContractRequest{
		BookingID: booking.ID.String(),
		Terms:     rentalTerms,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ContractStatusPendingSignature, contract.Status)
	assert.Equal(t, renter.ID.String(), contract.UserID)
	assert.Equal(t, staff.ID.String(), contract.StaffID)

	_, err = svc.Create(ctx, identityOf(staff), &request.CreateContractRequest{BookingID: booking.ID.String(), Terms: rentalTerms})
	assert.Equal(t, apperror.CodeContractExists, apperror.As(err).Code)

	_, err = svc.Get(ctx, identityOf(other), contract.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
	_, err = svc.Get(ctx, identityOf(staff), contract.ID)
	require.NoError(t, err)

	_, err = svc.Sign(ctx, identityOf(staff), contract.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))

	signed, err := svc.Sign(ctx, identityOf(renter), contract.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ContractStatusSigned, signed.Status)
	require.NotNil(t, signed.SignedAt)
	assert.True(t, signed.SignedAt.Equal(testNow))

	_, err = svc.Sign(ctx, identityOf(renter), contract.ID)
	assert.Equal(t, apperror.CodeInvalidState, apperror.As(err).Code)

	notifications := w.notificationsFor(renter.ID)
	require.Len(t, notifications, 1)
	assert.Equal(t, entity.NotificationContractCreated, notifications[0].Type)
}

func TestContractService_Create_NeedsConfirmedBooking(t *testing.T) {
	w := newWorld()
	svc := w.contractService()
	station := w.addStation(entity.StationStatusActive)
	v := w.addVehicle(station.ID, entity.VehicleStatusReserved)
	renter := w.addUser(entity.RoleRenter)
	staff := w.addUser(entity.RoleStaff)

	for _, status := range []entity.BookingStatus{
		entity.BookingStatusPending,
		entity.BookingStatusCompleted,
		entity.BookingStatusCancelled,
	} {
		t.Run(string(status), func(t *testing.T) {
			booking := w.addBooking(renter.ID, v, status, testNow.Add(time.Hour), 1)

			_, err := svc.Create(context.Background(), identityOf(staff), &request.CreateContractRequest{
				BookingID: booking.ID.String(),
				Terms:     rentalTerms,
			})
			assert.Equal(t, apperror.CodeInvalidState, apperror.As(err).Code)
		})
	}

	assert.Empty(t, w.store.contracts)
}
