package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/store"
)

// timeNow is the clock used by the default mock implementations.
func timeNow() time.Time {
	return time.Now().UTC()
}

// MockNotificationStore implements store.NotificationStore for testing
type MockNotificationStore struct {
	// Function fields for customizable behavior
	CreateFn     func(ctx context.Context, notification *domain.Notification) error
	ListByUserFn func(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)

	// Data for default implementation
	Notifications []*domain.Notification
	CreateError   error
}

// Ensure MockNotificationStore implements store.NotificationStore
var _ store.NotificationStore = (*MockNotificationStore)(nil)

// NewMockNotificationStore creates a new mock store with initialized defaults
func NewMockNotificationStore() *MockNotificationStore {
	return &MockNotificationStore{}
}

// Create implements the NotificationStore interface
func (m *MockNotificationStore) Create(ctx context.Context, notification *domain.Notification) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, notification)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	copied := *notification
	m.Notifications = append(m.Notifications, &copied)
	return nil
}

// ListByUser implements the NotificationStore interface
func (m *MockNotificationStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}

	var result []*domain.Notification
	for i := len(m.Notifications) - 1; i >= 0; i-- {
		if m.Notifications[i].UserID == userID {
			copied := *m.Notifications[i]
			result = append(result, &copied)
		}
	}
	return result, nil
}
