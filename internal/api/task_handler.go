package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/taskboard/taskboard-api/internal/api/shared"
	"github.com/taskboard/taskboard-api/internal/domain"
	"github.com/taskboard/taskboard-api/internal/platform/logger"
	"github.com/taskboard/taskboard-api/internal/realtime"
	"github.com/taskboard/taskboard-api/internal/store"
)

// TaskHandler handles task-related HTTP requests, including the live
// broadcast and notification side effects of task updates.
type TaskHandler struct {
	taskStore         store.TaskStore
	notificationStore store.NotificationStore
	broadcaster       realtime.Broadcaster
	validator         *validator.Validate
	logger            *slog.Logger
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(
	taskStore store.TaskStore,
	notificationStore store.NotificationStore,
	broadcaster realtime.Broadcaster,
	log *slog.Logger,
) *TaskHandler {
	if log == nil {
		log = slog.Default()
	}

	return &TaskHandler{
		taskStore:         taskStore,
		notificationStore: notificationStore,
		broadcaster:       broadcaster,
		validator:         validator.New(),
		logger:            log.With(slog.String("component", "task_handler")),
	}
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	dueDate, err := time.Parse(time.RFC3339, req.DueDate)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid due date: must be an RFC 3339 timestamp")
		return
	}

	// UUID format is guaranteed by the request validator.
	creatorID := uuid.MustParse(req.CreatorID)
	assignedToID := uuid.MustParse(req.AssignedToID)

	task, err := domain.NewTask(
		req.Title,
		req.Description,
		dueDate,
		domain.TaskPriority(req.Priority),
		domain.TaskStatus(req.Status),
		creatorID,
		assignedToID,
	)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task data: "+err.Error())
		return
	}

	if err := h.taskStore.Create(r.Context(), task); err != nil {
		respondStoreError(w, r, log, err, "failed to create task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, task)
}

// List handles GET /tasks. Query parameters createdBy, assignedTo, status,
// priority, overdue, and sort are all optional and compose with logical AND.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	filter, err := parseTaskFilter(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	tasks, err := h.taskStore.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list tasks", "error", err)
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}

	if tasks == nil {
		tasks = []*domain.Task{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// Update handles PATCH /tasks/{id}. It applies the provided fields, persists
// the result, broadcasts a task:updated event to every connected client,
// and, only when the assignee actually changed, records a notification for
// the new assignee and delivers it live if that user is connected.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	update, err := buildTaskUpdate(req)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), taskID)
	if err != nil {
		respondStoreError(w, r, log, err, "failed to load task for update", "task_id", taskID)
		return
	}

	previousAssignee := task.AssignedToID

	if err := task.Apply(update); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task data: "+err.Error())
		return
	}

	if err := h.taskStore.Update(r.Context(), task); err != nil {
		respondStoreError(w, r, log, err, "failed to persist task update", "task_id", taskID)
		return
	}

	// Live side effects run only after successful persistence, broadcast
	// first. Delivery failures never surface to the HTTP caller.
	h.broadcaster.BroadcastTaskChanged(task)

	if previousAssignee != task.AssignedToID {
		h.notifyNewAssignee(r, task)
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// notifyNewAssignee records an assignment notification and delivers it to
// the assignee's live connection if one exists. The persisted record is the
// source of truth; a disconnected assignee reads it later via the
// notifications endpoint.
func (h *TaskHandler) notifyNewAssignee(r *http.Request, task *domain.Task) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	notification, err := domain.NewAssignmentNotification(task.AssignedToID, task.Title)
	if err != nil {
		log.Error("failed to build assignment notification",
			"error", err, "task_id", task.ID)
		return
	}

	if err := h.notificationStore.Create(r.Context(), notification); err != nil {
		log.Error("failed to persist assignment notification",
			"error", err, "task_id", task.ID, "user_id", task.AssignedToID)
		return
	}

	h.broadcaster.NotifyAssignee(task.AssignedToID, notification)
}

// Delete handles DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return
	}

	if err := h.taskStore.Delete(r.Context(), taskID); err != nil {
		respondStoreError(w, r, log, err, "failed to delete task", "task_id", taskID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListNotifications handles GET /tasks/notifications/{userId}.
func (h *TaskHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}

	notifications, err := h.notificationStore.ListByUser(r.Context(), userID)
	if err != nil {
		log.Error("failed to list notifications", "error", err, "user_id", userID)
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to list notifications", err)
		return
	}

	if notifications == nil {
		notifications = []*domain.Notification{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, notifications)
}

// respondStoreError maps a store error onto the HTTP response. Server-side
// failures are logged with full detail; the client only ever sees the
// sanitized message.
func respondStoreError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error, logMsg string, attrs ...any) {
	status := MapErrorToStatusCode(err)
	if status == http.StatusInternalServerError {
		log.Error(logMsg, append([]any{"error", err}, attrs...)...)
		shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithError(w, r, status, GetSafeErrorMessage(err))
}

// parseTaskFilter builds a store.TaskFilter from the list query parameters.
func parseTaskFilter(r *http.Request) (store.TaskFilter, error) {
	var filter store.TaskFilter
	q := r.URL.Query()

	if v := q.Get("createdBy"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, errors.New("invalid createdBy filter: must be a UUID")
		}
		filter.CreatedBy = &id
	}

	if v := q.Get("assignedTo"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filter, errors.New("invalid assignedTo filter: must be a UUID")
		}
		filter.AssignedTo = &id
	}

	if v := q.Get("status"); v != "" {
		status := domain.TaskStatus(v)
		if !status.IsValid() {
			return filter, errors.New("invalid status filter")
		}
		filter.Status = &status
	}

	if v := q.Get("priority"); v != "" {
		priority := domain.TaskPriority(v)
		if !priority.IsValid() {
			return filter, errors.New("invalid priority filter")
		}
		filter.Priority = &priority
	}

	filter.Overdue = q.Get("overdue") == "true"

	if q.Get("sort") == string(store.SortDescending) {
		filter.Sort = store.SortDescending
	} else {
		filter.Sort = store.SortAscending
	}

	return filter, nil
}

// buildTaskUpdate converts the wire-format partial update into a domain
// TaskUpdate, parsing the due date if provided.
func buildTaskUpdate(req UpdateTaskRequest) (domain.TaskUpdate, error) {
	var update domain.TaskUpdate

	update.Title = req.Title
	update.Description = req.Description

	if req.DueDate != nil {
		dueDate, err := time.Parse(time.RFC3339, *req.DueDate)
		if err != nil {
			return update, errors.New("invalid due date: must be an RFC 3339 timestamp")
		}
		update.DueDate = &dueDate
	}

	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		update.Priority = &priority
	}

	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		update.Status = &status
	}

	if req.AssignedToID != nil {
		id, err := uuid.Parse(*req.AssignedToID)
		if err != nil {
			return update, errors.New("invalid assignedToId: must be a UUID")
		}
		update.AssignedToID = &id
	}

	return update, nil
}
