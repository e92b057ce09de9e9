package usecase

import (
	"context"
	"testing"

	"ev-rental/internal/data/entity"
	"ev-rental/internal/dto/request"
	"ev-rental/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (w *world) userService() UserService {
	svc := NewUserService(w.repo, w.log).(*userService)
	svc.now = fixedClock
	return svc
}

func (w *world) addSession(userID uuid.UUID) entity.Session {
	sess := entity.Session{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: testNow},
		UserID:     userID,
		ExpiresAt:  testNow.AddDate(10, 0, 0),
	}
	w.store.sessions[sess.ID] = sess
	return sess
}

func TestUserService_CreateStaff(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	svc := w.userService()
	station := w.addStation(entity.StationStatusActive)

	staff, err := svc.CreateStaff(ctx, &request.CreateStaffRequest{
		Email:     "desk@example.com",
		Password:  "staff-password",
		FullName:  "Front Desk",
		StationID: ptr(station.ID.String()),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleStaff, staff.Role)
	require.NotNil(t, staff.StationID)
	assert.Equal(t, station.ID.String(), *staff.StationID)

	_, err = svc.CreateStaff(ctx, &request.CreateStaffRequest{
		Email:     "other@example.com",
		Password:  "staff-password",
		FullName:  "Other Desk",
		StationID: ptr(uuid.NewString()),
	})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	staffOnly, err := svc.GetAllUsers(ctx, &request.UserListRequest{
		PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
		Role:             ptr(string(entity.RoleStaff)),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), staffOnly.Pagination.Total)
}

func TestUserService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	svc := w.userService()
	admin := w.addUser(entity.RoleAdmin)
	renter := w.addUser(entity.RoleRenter)
	sess := w.addSession(renter.ID)

	resp, err := svc.UpdateStatus(ctx, identityOf(admin), renter.ID.String(), &request.UpdateUserStatusRequest{IsActive: ptr(false)})
	require.NoError(t, err)
	assert.False(t, resp.IsActive)
	assert.NotNil(t, w.store.sessions[sess.ID].RevokedAt)

	_, err = svc.UpdateStatus(ctx, identityOf(admin), admin.ID.String(), &request.UpdateUserStatusRequest{IsActive: ptr(false)})
	assert.Contains(t, apperror.As(err).Details, "isActive")

	_, err = svc.UpdateStatus(ctx, identityOf(admin), renter.ID.String(), &request.UpdateUserStatusRequest{})
	assert.Contains(t, apperror.As(err).Details, "isActive")

	resp, err = svc.UpdateStatus(ctx, identityOf(admin), renter.ID.String(), &request.UpdateUserStatusRequest{IsActive: ptr(true)})
	require.NoError(t, err)
	assert.True(t, resp.IsActive)
}

func TestUserService_DeleteUser(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	svc := w.userService()
	admin := w.addUser(entity.RoleAdmin)
	renter := w.addUser(entity.RoleRenter)
	sess := w.addSession(renter.ID)

	err := svc.DeleteUser(ctx, identityOf(admin), admin.ID.String())
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	require.NoError(t, svc.DeleteUser(ctx, identityOf(admin), renter.ID.String()))
	assert.NotNil(t, w.store.sessions[sess.ID].RevokedAt)

	_, err = svc.GetUser(ctx, renter.ID.String())
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	svc := w.userService()
	renter := w.addUser(entity.RoleRenter)

	resp, err := svc.UpdateProfile(ctx, renter.ID, &request.UpdateProfileRequest{
		FullName: ptr("  Bea Lima "),
		Phone:    ptr("11987654321"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Bea Lima", resp.FullName)
	require.NotNil(t, resp.Phone)
	assert.Equal(t, "11987654321", *resp.Phone)

	_, err = svc.UpdateProfile(ctx, renter.ID, &request.UpdateProfileRequest{Phone: ptr("123")})
	assert.Contains(t, apperror.As(err).Details, "phone")
}
