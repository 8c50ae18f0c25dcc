// internal/domain/notification.go
package domain

import (
	"fmt"
	"time"
)

// Notification is an entry in a user's append-only notification log.
type Notification struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"timestamp"`
}

func RequestSentMessage(requester string) string {
	return fmt.Sprintf("%s has sent you a friend request.", requester)
}

func RequestAcceptedMessage(accepter string) string {
	return fmt.Sprintf("%s has accepted your friend request.", accepter)
}

func RequestRejectedMessage(rejecter string) string {
	return fmt.Sprintf("%s has rejected your friend request.", rejecter)
}

func UnfriendedMessage(initiator string) string {
	return fmt.Sprintf("%s has unfriended you.", initiator)
}
