package realtime

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/taskboard/taskboard-api/internal/domain"
)

// Server-to-client event types.
const (
	// EventTaskUpdated is broadcast to every connected client when any task
	// is mutated.
	EventTaskUpdated = "task:updated"

	// EventNotificationNew is delivered to a single client when a task is
	// reassigned to that client's user.
	EventNotificationNew = "notification:new"
)

// Client-to-server message types.
const (
	// MessageRegister associates the sending connection with a user ID so
	// targeted events can reach it.
	MessageRegister = "register"
)

// Event is the server-to-client wire envelope.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// TaskUpdatedPayload is the snapshot carried by a task:updated event.
type TaskUpdatedPayload struct {
	ID           uuid.UUID           `json:"id"`
	Status       domain.TaskStatus   `json:"status"`
	Priority     domain.TaskPriority `json:"priority"`
	AssignedToID uuid.UUID           `json:"assignedToId"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// NewTaskUpdatedEvent builds the broadcast event for a mutated task.
func NewTaskUpdatedEvent(task *domain.Task) Event {
	return Event{
		Type: EventTaskUpdated,
		Payload: TaskUpdatedPayload{
			ID:           task.ID,
			Status:       task.Status,
			Priority:     task.Priority,
			AssignedToID: task.AssignedToID,
			UpdatedAt:    task.UpdatedAt,
		},
	}
}

// NewNotificationEvent builds the targeted event for a freshly persisted
// notification.
func NewNotificationEvent(notification *domain.Notification) Event {
	return Event{
		Type:    EventNotificationNew,
		Payload: notification,
	}
}

// ClientMessage is the client-to-server wire format.
type ClientMessage struct {
	Type   string `json:"type"`
	UserID string `json:"userId,omitempty"`
}

// Marshal serializes the event for the wire.
func (e Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
