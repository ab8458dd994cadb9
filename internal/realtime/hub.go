package realtime

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/taskboard/taskboard-api/internal/domain"
)

// Broadcaster is the interface the task handlers use to publish live
// updates. Implementations must never block the caller on a slow consumer.
type Broadcaster interface {
	// BroadcastTaskChanged delivers a task:updated event to every client
	// connected at call time.
	BroadcastTaskChanged(task *domain.Task)

	// NotifyAssignee delivers a notification:new event to the one client
	// registered for userID, if any. The notification record is persisted by
	// the caller beforehand; an unreachable recipient is a no-op.
	NotifyAssignee(userID uuid.UUID, notification *domain.Notification)
}

// Hub tracks the set of open connections and fans events out to them. It is
// the only component that adds or removes connections; the Registry only
// maps users to connections the Hub already knows about.
//
// Locking discipline: event sends happen under the read lock, membership
// changes and send-channel closes under the write lock. A client present in
// the map during a send can therefore never have a closed channel.
type Hub struct {
	registry *Registry
	logger   *slog.Logger

	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// Ensure Hub implements the Broadcaster interface
var _ Broadcaster = (*Hub)(nil)

// NewHub creates a Hub delivering targeted events via the given registry.
func NewHub(registry *Registry, logger *slog.Logger) *Hub {
	if registry == nil {
		panic("registry cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Hub{
		registry: registry,
		logger:   logger.With(slog.String("component", "realtime_hub")),
		clients:  make(map[*Client]struct{}),
	}
}

// Add starts tracking a newly connected client.
func (h *Hub) Add(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
	h.logger.Debug("client connected", "client_count", len(h.clients))
}

// Remove stops tracking a client, drops its registry entries, and closes its
// send channel. Safe to call more than once for the same client.
func (h *Hub) Remove(client *Client) {
	h.registry.Unregister(client)

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	h.logger.Debug("client disconnected", "client_count", len(h.clients))
}

// BroadcastTaskChanged implements Broadcaster.BroadcastTaskChanged.
// Clients too slow to drain their send buffer are dropped rather than
// blocking the broadcast.
func (h *Hub) BroadcastTaskChanged(task *domain.Task) {
	event := NewTaskUpdatedEvent(task)

	var dropped []*Client

	h.mu.RLock()
	for client := range h.clients {
		if !client.trySend(event) {
			dropped = append(dropped, client)
		}
	}
	h.mu.RUnlock()

	h.logger.Debug("broadcast task update",
		"task_id", task.ID,
		"dropped_clients", len(dropped))

	for _, client := range dropped {
		h.logger.Warn("dropping slow client during broadcast")
		h.Remove(client)
	}
}

// NotifyAssignee implements Broadcaster.NotifyAssignee.
func (h *Hub) NotifyAssignee(userID uuid.UUID, notification *domain.Notification) {
	client, ok := h.registry.Lookup(userID)
	if !ok {
		h.logger.Debug("assignee has no live connection",
			"user_id", userID,
			"notification_id", notification.ID)
		return
	}

	event := NewNotificationEvent(notification)

	// The send must happen under the read lock so the client cannot be
	// removed (and its channel closed) mid-send.
	h.mu.RLock()
	_, present := h.clients[client]
	delivered := present && client.trySend(event)
	h.mu.RUnlock()

	if !delivered {
		h.logger.Warn("failed to deliver notification to live connection",
			"user_id", userID,
			"notification_id", notification.ID)
		if present {
			h.Remove(client)
		}
		return
	}

	h.logger.Debug("notification delivered",
		"user_id", userID,
		"notification_id", notification.ID)
}
