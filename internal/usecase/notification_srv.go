package usecase

import (
	"context"
	"time"

	"ev-rental/internal/data/entity"
	"ev-rental/internal/data/repository"
	"ev-rental/internal/dto/request"
	"ev-rental/internal/dto/response"
	"ev-rental/pkg/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NotificationService interface {
	List(ctx context.Context, userID uuid.UUID, req *request.NotificationListRequest) (*response.PaginatedResponse[response.NotificationResponse], error)
	MarkRead(ctx context.Context, userID uuid.UUID, notificationID string) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewNotificationService(repo *repository.Repository, log *zap.Logger) NotificationService {
	return &notificationService{
		repo: repo,
		log:  log.With(zap.String("service", "notification")),
	}
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, req *request.NotificationListRequest) (*response.PaginatedResponse[response.NotificationResponse], error) {
	items, err := s.repo.Notification.FindByUserID(ctx, userID, req.UnreadOnly, req.Limit(), req.Offset())
	if err != nil {
		return nil, internalError("failed to get notifications", err)
	}

	total, err := s.repo.Notification.CountByUserID(ctx, userID, req.UnreadOnly)
	if err != nil {
		return nil, internalError("failed to count notifications", err)
	}

	return response.NewPaginatedResponse(response.NotificationsToResponse(items), req.CurrentPage(), req.Limit(), total), nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID uuid.UUID, notificationID string) error {
	id, err := parseID("id", notificationID)
	if err != nil {
		return err
	}

	n, err := s.repo.Notification.FindByID(ctx, id)
	if err != nil {
		return internalError("failed to get notification", err)
	}
	if n == nil {
		return apperror.NotFound(apperror.CodeNotFound, "notification")
	}
	if n.UserID != userID {
		return apperror.Forbidden("notification belongs to another user")
	}
	if n.IsRead {
		return nil
	}

	if err := s.repo.Notification.MarkRead(ctx, id); err != nil {
		return internalError("failed to update notification", err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	n, err := s.repo.Notification.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, internalError("failed to update notifications", err)
	}
	return n, nil
}

// notifier writes renter notifications after a unit of work has committed.
// Failures are logged and never returned.
type notifier struct {
	repo repository.NotificationRepository
	log  *zap.Logger
	now  Clock
}

func newNotifier(repo *repository.Repository, log *zap.Logger, now Clock) *notifier {
	return &notifier{repo: repo.Notification, log: log, now: now}
}

func (n *notifier) send(ctx context.Context, userID uuid.UUID, typ entity.NotificationType, title, message string) {
	if n == nil || n.repo == nil {
		return
	}

	notification := &entity.Notification{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: n.now()},
		UserID:     userID,
		Type:       typ,
		Title:      title,
		Message:    message,
	}

	if err := n.repo.Create(context.WithoutCancel(ctx), notification); err != nil {
		n.log.Warn("Failed to write notification",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("type", string(typ)),
		)
	}
}

func (n *notifier) bookingChanged(ctx context.Context, booking *entity.Booking) {
	var typ entity.NotificationType
	var title string

	switch booking.Status {
	case entity.BookingStatusPending:
		typ, title = entity.NotificationBookingCreated, "Booking created"
	case entity.BookingStatusConfirmed:
		typ, title = entity.NotificationBookingConfirmed, "Booking confirmed"
	case entity.BookingStatusCompleted:
		typ, title = entity.NotificationBookingCompleted, "Booking completed"
	case entity.BookingStatusCancelled:
		typ, title = entity.NotificationBookingCancelled, "Booking cancelled"
	default:
		return
	}

	n.send(ctx, booking.UserID, typ, title,
		"Booking "+booking.ID.String()+" from "+booking.StartTime.UTC().Format(time.RFC3339)+
			" to "+booking.EndTime.UTC().Format(time.RFC3339)+" is now "+string(booking.Status)+".")
}
