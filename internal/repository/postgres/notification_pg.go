// internal/repository/postgres/notification_pg.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"socialgraph/internal/domain"
	"socialgraph/internal/repository"
)

// NotificationRepository implements repository.NotificationRepository for PostgreSQL.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(db *sqlx.DB) repository.NotificationRepository {
	return &NotificationRepository{db: db}
}

// ListNotifications returns a user's notifications ordered by insertion.
func (r *NotificationRepository) ListNotifications(ctx context.Context, userID int64) ([]domain.Notification, error) {
	notifications := []domain.Notification{}
	query := `SELECT id, user_id, message, created_at FROM notifications WHERE user_id = $1 ORDER BY id`
	if err := r.db.SelectContext(ctx, &notifications, query, userID); err != nil {
		return nil, wrapErr(fmt.Sprintf("failed to list notifications for user %d", userID), err)
	}
	return notifications, nil
}
