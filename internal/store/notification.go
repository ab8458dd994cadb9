package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskboard/taskboard-api/internal/domain"
)

// NotificationStore defines the interface for notification data persistence.
type NotificationStore interface {
	// Create saves a new notification to the store.
	// Returns ErrInvalidEntity if the recipient does not exist.
	// Returns validation errors from the domain Notification if data is invalid.
	Create(ctx context.Context, notification *domain.Notification) error

	// ListByUser retrieves all notifications for the given user,
	// newest first. Returns an empty slice if the user has none.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)
}
