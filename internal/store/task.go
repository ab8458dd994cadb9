package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskboard/taskboard-api/internal/domain"
)

// SortOrder controls the direction of the due-date sort when listing tasks.
type SortOrder string

const (
	// SortAscending orders tasks by due date, earliest first. This is the
	// default when no sort is requested.
	SortAscending SortOrder = "asc"

	// SortDescending orders tasks by due date, latest first.
	SortDescending SortOrder = "desc"
)

// TaskFilter describes the optional filters for listing tasks. Nil fields
// are ignored; set fields compose with logical AND.
type TaskFilter struct {
	// CreatedBy restricts the list to tasks created by this user.
	CreatedBy *uuid.UUID

	// AssignedTo restricts the list to tasks assigned to this user.
	AssignedTo *uuid.UUID

	// Status restricts the list to tasks with this status.
	Status *domain.TaskStatus

	// Priority restricts the list to tasks with this priority.
	Priority *domain.TaskPriority

	// Overdue, when true, restricts the list to tasks whose due date is
	// strictly in the past and whose status is not COMPLETED.
	Overdue bool

	// Sort is the due-date sort direction; SortAscending when empty.
	Sort SortOrder
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns ErrInvalidEntity if the creator or assignee does not exist.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List retrieves tasks matching the given filter, sorted by due date.
	// An empty filter returns all tasks.
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)

	// Update persists the full state of an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	// Returns ErrInvalidEntity if the assignee does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
