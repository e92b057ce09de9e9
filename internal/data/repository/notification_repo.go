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

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error)
	FindByUserID(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*entity.Notification, error)
	CountByUserID(ctx context.Context, userID uuid.UUID, unreadOnly bool) (int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewNotificationRepository(db database.Querier, log *zap.Logger) NotificationRepository {
	return &notificationRepository{
		db:  db,
		log: log.With(zap.String("repository", "notification")),
	}
}

func (r *notificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, type, title, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query, n.ID, n.UserID, n.Type, n.Title, n.Message, n.IsRead, n.CreatedAt)
	if err != nil {
		r.log.Error("Failed to create notification",
			zap.Error(err),
			zap.String("user_id", n.UserID.String()),
			zap.String("type", string(n.Type)),
		)
		return fmt.Errorf("create notification for user %s: %w", n.UserID, err)
	}

	return nil
}

func scanNotification(row rowScanner) (*entity.Notification, error) {
	var n entity.Notification
	if err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error) {
	query := `SELECT id, user_id, type, title, message, is_read, created_at FROM notifications WHERE id = $1`

	n, err := scanNotification(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find notification", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("find notification %s: %w", id, err)
	}

	return n, nil
}

func notificationWhere(userID uuid.UUID, unreadOnly bool) *whereBuilder {
	where := newWhere()
	where.add("user_id = ?", userID)
	if unreadOnly {
		where.clauses = append(where.clauses, "is_read = FALSE")
	}
	return where
}

func (r *notificationRepository) FindByUserID(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*entity.Notification, error) {
	where := notificationWhere(userID, unreadOnly)
	pageSQL, args := where.page(limit, offset)
	query := `SELECT id, user_id, type, title, message, is_read, created_at FROM notifications` +
		where.String() + ` ORDER BY created_at DESC` + pageSQL

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find notifications",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find notifications of user %s: %w", userID, err)
	}
	defer rows.Close()

	var notifications []*entity.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification row: %w", err)
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notification rows: %w", err)
	}

	return notifications, nil
}

func (r *notificationRepository) CountByUserID(ctx context.Context, userID uuid.UUID, unreadOnly bool) (int64, error) {
	where := notificationWhere(userID, unreadOnly)

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications`+where.String(), where.args...).Scan(&count); err != nil {
		r.log.Error("Failed to count notifications", zap.Error(err))
		return 0, fmt.Errorf("count notifications of user %s: %w", userID, err)
	}

	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id); err != nil {
		r.log.Error("Failed to mark notification read", zap.Error(err), zap.String("id", id.String()))
		return fmt.Errorf("mark notification %s read: %w", id, err)
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		r.log.Error("Failed to mark notifications read", zap.Error(err), zap.String("user_id", userID.String()))
		return 0, fmt.Errorf("mark notifications of user %s read: %w", userID, err)
	}
	return tag.RowsAffected(), nil
}
