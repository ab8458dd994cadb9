// Package realtime implements the live-update layer: a registry mapping
// authenticated users to their active WebSocket connection, and a hub that
// fans task-change events out to every connected client and routes
// assignment notifications to the one affected user.
//
// Delivery is best effort. Events are pushed to connections open at call
// time; there is no queueing, no retry, and no delivery to connections that
// join later. A failed or slow delivery never surfaces to the HTTP caller.
package realtime
