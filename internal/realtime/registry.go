package realtime

import (
	"sync"

	"github.com/google/uuid"
)

// Registry tracks the single most-recent live connection per authenticated
// user so targeted events can be delivered. A user appears at most once;
// registering again overwrites the previous entry (last write wins).
//
// Register and Unregister are invoked from independent connection
// lifecycles; all mutations are serialized by an internal mutex.
type Registry struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*Client
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[uuid.UUID]*Client),
	}
}

// Register unconditionally maps userID to the given client, superseding any
// existing mapping for that user. The superseded connection is not closed;
// it simply stops receiving targeted events.
func (r *Registry) Register(userID uuid.UUID, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[userID] = client
}

// Unregister removes every entry whose recorded connection is the given
// client. Removal is keyed on connection identity, not user identity, so a
// disconnect of a superseded connection never removes the user's newer
// mapping. Safe to call multiple times and for never-registered clients.
func (r *Registry) Unregister(client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for userID, c := range r.clients {
		if c == client {
			delete(r.clients, userID)
		}
	}
}

// Lookup returns the current connection for a user, or false if the user has
// no live connection.
func (r *Registry) Lookup(userID uuid.UUID) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[userID]
	return client, ok
}

// Len returns the number of users with a live connection.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}
