// internal/service/notification_service.go
package service

import (
	"context"

	"socialgraph/internal/domain"
	"socialgraph/internal/repository"
	"socialgraph/internal/util"
)

// NotificationService reads users' notification logs.
type NotificationService interface {
	ListNotifications(ctx context.Context, userID int64) ([]domain.Notification, error)
}

type notificationService struct {
	users         repository.UserRepository
	notifications repository.NotificationRepository
}

func NewNotificationService(users repository.UserRepository, notifications repository.NotificationRepository) NotificationService {
	return &notificationService{users: users, notifications: notifications}
}

// ListNotifications returns the log oldest first; NotFound for unknown users.
func (s *notificationService) ListNotifications(ctx context.Context, userID int64) ([]domain.Notification, error) {
	var out []domain.Notification
	err := util.RetryRead(ctx, func(ctx context.Context) error {
		if _, err := s.users.GetUserByID(ctx, userID); err != nil {
			return err
		}
		var err error
		out, err = s.notifications.ListNotifications(ctx, userID)
		return err
	})
	return out, err
}
