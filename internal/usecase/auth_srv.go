package usecase

import (
	"context"
	"errors"
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

// ClientInfo describes where a login request came from.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error)
	Login(ctx context.Context, req *request.LoginRequest, client ClientInfo) (*response.AuthResponse, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
	Me(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	// Authenticate resolves a bearer token into the caller identity.
	Authenticate(ctx context.Context, token string) (utils.Identity, error)
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	now    Clock
	log    *zap.Logger
}

func NewAuthService(repo *repository.Repository, config *utils.Config, log *zap.Logger) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		now:    time.Now,
		log:    log.With(zap.String("service", "auth")),
	}
}

var errEmailTaken = apperror.Conflict(apperror.CodeEmailTaken, "email already registered")

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error) {
	// 1. Validate input
	req.Email = normalizeEmail(req.Email)
	if err := validate(req); err != nil {
		s.log.Warn("Register validation failed", zap.Error(err))
		return nil, err
	}

	user, err := newUser(ctx, s.repo, req.Email, req.Password, req.FullName, req.Phone, entity.RoleRenter, nil, s.now())
	if err != nil {
		return nil, err
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// newUser checks email uniqueness, hashes the password and stores the account.
func newUser(ctx context.Context, repo *repository.Repository, email, password, fullName string, phone *string, role entity.UserRole, stationID *uuid.UUID, now time.Time) (*entity.User, error) {
	email = normalizeEmail(email)

	existing, err := repo.User.FindByEmail(ctx, email)
	if err != nil {
		return nil, internalError("failed to check email", err)
	}
	if existing != nil {
		return nil, errEmailTaken
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return nil, apperror.Internal("failed to process password", err)
	}

	user := &entity.User{
		Base:         entity.NewBase(now),
		Email:        email,
		PasswordHash: hashed,
		FullName:     strings.TrimSpace(fullName),
		Phone:        phone,
		Role:         role,
		StationID:    stationID,
		IsActive:     true,
	}

	if err := repo.User.Create(ctx, user); err != nil {
		return nil, internalError("failed to create account", uniqueViolation(err, errEmailTaken))
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, client ClientInfo) (*response.AuthResponse, error) {
	// 1. Validate
	req.Email = normalizeEmail(req.Email)
	if err := validate(req); err != nil {
		return nil, err
	}

	// 2. Find user
	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, internalError("failed to find user", err)
	}
	if user == nil {
		s.log.Warn("User not found for login", zap.String("email", req.Email))
		return nil, apperror.Unauthorized("invalid credentials")
	}

	// 3. Check password and status
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID.String()))
		return nil, apperror.Unauthorized("invalid credentials")
	}
	if !user.IsActive {
		s.log.Warn("Inactive user tried to login", zap.String("user_id", user.ID.String()))
		return nil, apperror.Unauthorized("account is deactivated")
	}

	// 4. Create session and token
	now := s.now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
		UserID:     user.ID,
		UserAgent:  utils.OptionalString(client.UserAgent),
		IPAddress:  utils.OptionalString(client.IPAddress),
		ExpiresAt:  now.Add(time.Duration(s.config.JWT.ExpiryHours) * time.Hour),
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, internalError("failed to create session", err)
	}

	token, expiresAt, err := utils.IssueToken(s.config.JWT, user.ID, session.ID, string(user.Role), now)
	if err != nil {
		return nil, apperror.Internal("failed to issue token", err)
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("session_id", session.ID.String()))

	return &response.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      response.UserToResponse(user),
	}, nil
}

func (s *authService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.repo.Session.Revoke(ctx, sessionID); err != nil {
		s.log.Warn("Failed to revoke session", zap.Error(err), zap.String("session_id", sessionID.String()))
		return apperror.Unauthorized("session already ended")
	}

	s.log.Info("User logged out", zap.String("session_id", sessionID.String()))
	return nil
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, internalError("failed to get profile", err)
	}
	if user == nil {
		return nil, apperror.NotFound(apperror.CodeNotFound, "user")
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (utils.Identity, error) {
	identity, err := utils.ParseToken(s.config.JWT, token)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidToken) {
			return utils.Identity{}, apperror.Unauthorized("invalid or expired token")
		}
		return utils.Identity{}, apperror.Internal("failed to parse token", err)
	}

	session, err := s.repo.Session.FindValidSession(ctx, identity.SessionID)
	if err != nil {
		return utils.Identity{}, internalError("failed to load session", err)
	}
	if session == nil || session.UserID != identity.UserID || !session.IsValid(s.now()) {
		return utils.Identity{}, apperror.Unauthorized("session expired or revoked")
	}

	return identity, nil
}
