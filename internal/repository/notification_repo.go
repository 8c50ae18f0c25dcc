// internal/repository/notification_repo.go
package repository

import (
	"context"

	"socialgraph/internal/domain"
)

// NotificationRepository reads the per-user notification log. Entries are
// written only through PairTx.AppendNotification.
type NotificationRepository interface {
	// ListNotifications returns a user's notifications in insertion order.
	ListNotifications(ctx context.Context, userID int64) ([]domain.Notification, error)
}
