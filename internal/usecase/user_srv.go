package usecase

import (
	"context"
	"strings"
	"time"

	"ev-rental/internal/data/entity"
	"ev-rental/internal/data/repository"
	"ev-rental/internal/dto/request"
	"ev-rental/internal/dto/response"
	"ev-rental/pkg/apperror"
	"ev-rental/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetAllUsers(ctx context.Context, req *request.UserListRequest) (*response.PaginatedResponse[response.UserResponse], error)
	CreateStaff(ctx context.Context, req *request.CreateStaffRequest) (*response.UserResponse, error)
	GetUser(ctx context.Context, userID string) (*response.UserResponse, error)
	UpdateStatus(ctx context.Context, actor utils.Identity, userID string, req *request.UpdateUserStatusRequest) (*response.UserResponse, error)
	DeleteUser(ctx context.Context, actor utils.Identity, userID string) error
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error)
}

type userService struct {
	repo *repository.Repository
	now  Clock
	log  *zap.Logger
}

func NewUserService(repo *repository.Repository, log *zap.Logger) UserService {
	return &userService{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetAllUsers(ctx context.Context, req *request.UserListRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var filter repository.UserFilter
	if req.Role != nil {
		role := entity.UserRole(*req.Role)
		filter.Role = &role
	}

	users, err := us.repo.User.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		us.log.Error("Failed to get all users", zap.Error(err))
		return nil, internalError("failed to get users", err)
	}

	total, err := us.repo.User.Count(ctx, filter)
	if err != nil {
		return nil, internalError("failed to count users", err)
	}

	return response.NewPaginatedResponse(response.UsersToResponse(users), req.CurrentPage(), req.Limit(), total), nil
}

func (us *userService) CreateStaff(ctx context.Context, req *request.CreateStaffRequest) (*response.UserResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validate(req); err != nil {
		return nil, err
	}

	stationID, err := parseOptionalID("stationId", req.StationID)
	if err != nil {
		return nil, err
	}
	if stationID != nil {
		station, err := us.repo.Station.FindByID(ctx, *stationID)
		if err != nil {
			return nil, internalError("failed to get station", err)
		}
		if station == nil {
			return nil, apperror.NotFound(apperror.CodeNotFound, "station")
		}
	}

	user, err := newUser(ctx, us.repo, req.Email, req.Password, req.FullName, req.Phone, entity.RoleStaff, stationID, us.now())
	if err != nil {
		return nil, err
	}

	us.log.Info("Staff account created", zap.String("user_id", user.ID.String()))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) findUser(ctx context.Context, userID string) (*entity.User, error) {
	id, err := parseID("id", userID)
	if err != nil {
		return nil, err
	}

	user, err := us.repo.User.FindByID(ctx, id)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID))
		return nil, internalError("failed to get user", err)
	}
	if user == nil {
		return nil, apperror.NotFound(apperror.CodeNotFound, "user")
	}

	return user, nil
}

func (us *userService) GetUser(ctx context.Context, userID string) (*response.UserResponse, error) {
	user, err := us.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

// UpdateStatus activates or deactivates an account; deactivation ends every session.
func (us *userService) UpdateStatus(ctx context.Context, actor utils.Identity, userID string, req *request.UpdateUserStatusRequest) (*response.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := us.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.ID == actor.UserID && !*req.IsActive {
		return nil, validationError(map[string]string{"isActive": "You cannot deactivate your own account"})
	}

	user.IsActive = *req.IsActive
	user.UpdatedAt = us.now()

	err = us.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Update(ctx, user); err != nil {
			return err
		}
		if !user.IsActive {
			return tx.Session.RevokeAllUserSessions(ctx, user.ID)
		}
		return nil
	})
	if err != nil {
		return nil, internalError("failed to update user", err)
	}

	us.log.Info("User status changed",
		zap.String("user_id", user.ID.String()),
		zap.Bool("is_active", user.IsActive),
		zap.String("admin_id", actor.UserID.String()),
	)

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) DeleteUser(ctx context.Context, actor utils.Identity, userID string) error {
	user, err := us.findUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.ID == actor.UserID {
		return validationError(map[string]string{"id": "You cannot delete your own account"})
	}

	err = us.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Delete(ctx, user.ID); err != nil {
			return err
		}
		return tx.Session.RevokeAllUserSessions(ctx, user.ID)
	})
	if err != nil {
		return internalError("failed to delete user", err)
	}

	return nil
}

func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := us.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, internalError("failed to get profile", err)
	}
	if user == nil {
		return nil, apperror.NotFound(apperror.CodeNotFound, "user")
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	user.UpdatedAt = us.now()

	if err := us.repo.User.Update(ctx, user); err != nil {
		return nil, internalError("failed to update profile", err)
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}
