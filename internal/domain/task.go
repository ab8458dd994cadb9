package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the workflow state of a task.
type TaskStatus string

// Valid task statuses. Status transitions are unconstrained: any status may
// move to any other, including reopening a completed task.
const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusReview     TaskStatus = "REVIEW"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

// IsValid checks if the task status is one of the recognized values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusCompleted:
		return true
	}
	return false
}

// TaskPriority represents the urgency of a task.
type TaskPriority string

// Valid task priorities.
const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
	TaskPriorityUrgent TaskPriority = "URGENT"
)

// IsValid checks if the task priority is one of the recognized values.
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// Task validation errors
var (
	ErrEmptyTaskID       = errors.New("task ID cannot be empty")
	ErrEmptyTaskTitle    = errors.New("task title cannot be empty")
	ErrTaskTitleTooLong  = errors.New("task title cannot exceed 100 characters")
	ErrEmptyDescription  = errors.New("task description cannot be empty")
	ErrEmptyDueDate      = errors.New("task due date cannot be empty")
	ErrEmptyCreatorID    = errors.New("task creator ID cannot be empty")
	ErrEmptyAssignedToID = errors.New("task assignee ID cannot be empty")
)

// maxTaskTitleLength is the maximum allowed length for a task title.
const maxTaskTitleLength = 100

// Task represents a unit of trackable work with a creator and an assignee.
// The creator is immutable after creation; the assignee may be changed by
// a partial update.
type Task struct {
	ID           uuid.UUID    `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	DueDate      time.Time    `json:"dueDate"`
	Priority     TaskPriority `json:"priority"`
	Status       TaskStatus   `json:"status"`
	CreatorID    uuid.UUID    `json:"creatorId"`
	AssignedToID uuid.UUID    `json:"assignedToId"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// NewTask creates a new Task with a generated ID and timestamps.
// Status defaults to TODO when empty. Returns an error if validation fails.
func NewTask(
	title, description string,
	dueDate time.Time,
	priority TaskPriority,
	status TaskStatus,
	creatorID, assignedToID uuid.UUID,
) (*Task, error) {
	if status == "" {
		status = TaskStatusTodo
	}

	now := time.Now().UTC()
	task := &Task{
		ID:           uuid.New(),
		Title:        title,
		Description:  description,
		DueDate:      dueDate,
		Priority:     priority,
		Status:       status,
		CreatorID:    creatorID,
		AssignedToID: assignedToID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.Title == "" {
		return ErrEmptyTaskTitle
	}
	if len(t.Title) > maxTaskTitleLength {
		return ErrTaskTitleTooLong
	}
	if t.Description == "" {
		return ErrEmptyDescription
	}
	if t.DueDate.IsZero() {
		return ErrEmptyDueDate
	}
	if !t.Priority.IsValid() {
		return ErrInvalidPriority
	}
	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}
	if t.CreatorID == uuid.Nil {
		return ErrEmptyCreatorID
	}
	if t.AssignedToID == uuid.Nil {
		return ErrEmptyAssignedToID
	}
	return nil
}

// IsOverdue reports whether the task is overdue at the given instant:
// its due date is strictly in the past and it is not completed.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate.Before(now) && t.Status != TaskStatusCompleted
}

// TaskUpdate describes a partial update to a task. Nil fields are left
// unchanged. The creator cannot be changed after creation.
type TaskUpdate struct {
	Title        *string
	Description  *string
	DueDate      *time.Time
	Priority     *TaskPriority
	Status       *TaskStatus
	AssignedToID *uuid.UUID
}

// Apply copies the provided fields onto the task, refreshes UpdatedAt, and
// re-validates the result. Returns an error if the updated task is invalid.
func (t *Task) Apply(update TaskUpdate) error {
	if update.Title != nil {
		t.Title = *update.Title
	}
	if update.Description != nil {
		t.Description = *update.Description
	}
	if update.DueDate != nil {
		t.DueDate = *update.DueDate
	}
	if update.Priority != nil {
		t.Priority = *update.Priority
	}
	if update.Status != nil {
		t.Status = *update.Status
	}
	if update.AssignedToID != nil {
		t.AssignedToID = *update.AssignedToID
	}
	t.UpdatedAt = time.Now().UTC()

	return t.Validate()
}
