package mocks

import (
	"sync"

	"github.com/google/uuid"
	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/realtime"
)

// NotifyCall records one NotifyAssignee invocation.
type NotifyCall struct {
	UserID       uuid.UUID
	Notification *domain.Notification
}

// MockBroadcaster implements realtime.Broadcaster for testing, recording
// every call for later assertions.
type MockBroadcaster struct {
	mu sync.Mutex

	Broadcasts []*domain.Task
	Notifies   []NotifyCall
}

// Ensure MockBroadcaster implements realtime.Broadcaster
var _ realtime.Broadcaster = (*MockBroadcaster)(nil)

// NewMockBroadcaster creates an empty MockBroadcaster.
func NewMockBroadcaster() *MockBroadcaster {
	return &MockBroadcaster{}
}

// BroadcastTaskChanged implements the Broadcaster interface
func (m *MockBroadcaster) BroadcastTaskChanged(task *domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *task
	m.Broadcasts = append(m.Broadcasts, &copied)
}

// NotifyAssignee implements the Broadcaster interface
func (m *MockBroadcaster) NotifyAssignee(userID uuid.UUID, notification *domain.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *notification
	m.Notifies = append(m.Notifies, NotifyCall{UserID: userID, Notification: &copied})
}
