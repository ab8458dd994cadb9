package api

import (
	"github.com/google/uuid"
)

// RegisterRequest is the request body for POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
}

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public representation of a user returned by the auth
// endpoints. The password hash never appears on the wire.
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// CreateTaskRequest is the request body for POST /tasks.
// DueDate is an RFC 3339 timestamp string.
type CreateTaskRequest struct {
	Title        string `json:"title" validate:"required,min=1,max=100"`
	Description  string `json:"description" validate:"required,min=1"`
	DueDate      string `json:"dueDate" validate:"required"`
	Priority     string `json:"priority" validate:"required,oneof=LOW MEDIUM HIGH URGENT"`
	Status       string `json:"status" validate:"omitempty,oneof=TODO IN_PROGRESS REVIEW COMPLETED"`
	CreatorID    string `json:"creatorId" validate:"required,uuid"`
	AssignedToID string `json:"assignedToId" validate:"required,uuid"`
}

// UpdateTaskRequest is the request body for PATCH /tasks/{id}. All fields
// are optional; absent fields leave the task unchanged.
type UpdateTaskRequest struct {
	Title        *string `json:"title" validate:"omitempty,min=1,max=100"`
	Description  *string `json:"description" validate:"omitempty,min=1"`
	DueDate      *string `json:"dueDate" validate:"omitempty"`
	Priority     *string `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	Status       *string `json:"status" validate:"omitempty,oneof=TODO IN_PROGRESS REVIEW COMPLETED"`
	AssignedToID *string `json:"assignedToId" validate:"omitempty,uuid"`
}
