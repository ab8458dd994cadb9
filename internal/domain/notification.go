package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Notification validation errors
var (
	ErrEmptyNotificationID     = errors.New("notification ID cannot be empty")
	ErrEmptyNotificationUserID = errors.New("notification user ID cannot be empty")
	ErrEmptyMessage            = errors.New("notification message cannot be empty")
)

// Notification represents a message addressed to a single user. A
// notification is created when a task is reassigned to that user; the read
// flag defaults to unread and is never mutated by the server.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewAssignmentNotification creates the notification recorded when a task is
// assigned to a new user.
func NewAssignmentNotification(userID uuid.UUID, taskTitle string) (*Notification, error) {
	n := &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Message:   fmt.Sprintf("You have been assigned a new task: %s", taskTitle),
		Read:      false,
		CreatedAt: time.Now().UTC(),
	}

	if err := n.Validate(); err != nil {
		return nil, err
	}

	return n, nil
}

// Validate checks if the Notification has valid data.
func (n *Notification) Validate() error {
	if n.ID == uuid.Nil {
		return ErrEmptyNotificationID
	}
	if n.UserID == uuid.Nil {
		return ErrEmptyNotificationUserID
	}
	if n.Message == "" {
		return ErrEmptyMessage
	}
	return nil
}
