package handlers

import (
	"context"
	"net/http"
	"strconv"

	"task-tracker/httpserver"
	"task-tracker/models"
	"task-tracker/notify"
	"task-tracker/repository"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	defaultSkip  = 0
	defaultLimit = 10
)

// TaskHandler serves the task CRUD endpoints. Access control has already
// been applied by the server before any of these run.
type TaskHandler struct {
	notifier notify.Notifier
}

// NewTaskHandler creates a TaskHandler delivering status changes through notifier
func NewTaskHandler(notifier notify.Notifier) *TaskHandler {
	return &TaskHandler{notifier: notifier}
}

func (h *TaskHandler) repo(ctx context.Context) *repository.TaskRepository {
	return repository.NewTaskRepository(httpserver.GetConn(ctx))
}

// CreateTask handles POST /tasks/
func (h *TaskHandler) CreateTask(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var input models.TaskInput
	if err := decodeJSON(r, &input); err != nil {
		logRequest(ctx, "error", "Invalid task body", zap.Error(err))
		httpserver.WriteError(ctx, w, err)
		return
	}
	fields := input.Fields()

	task, err := h.repo(ctx).Create(ctx, fields)
	if err != nil {
		logRequest(ctx, "error", "Failed to create task", zap.Error(err))
		httpserver.WriteError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Task created", zap.Int("task_id", task.ID))
	httpserver.WriteJSON(w, http.StatusOK, task)
}

// ListTasks handles GET /tasks/?skip=&limit=
func (h *TaskHandler) ListTasks(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt(r, "skip", defaultSkip)
	if err != nil {
		httpserver.WriteError(ctx, w, err)
		return
	}
	limit, err := queryInt(r, "limit", defaultLimit)
	if err != nil {
		httpserver.WriteError(ctx, w, err)
		return
	}

	tasks, err := h.repo(ctx).List(ctx, skip, limit)
	if err != nil {
		logRequest(ctx, "error", "Failed to list tasks", zap.Error(err))
		httpserver.WriteError(ctx, w, err)
		return
	}

	logRequest(ctx, "debug", "Tasks listed", zap.Int("count", len(tasks)))
	httpserver.WriteJSON(w, http.StatusOK, tasks)
}

// GetTask handles GET /tasks/{id}
func (h *TaskHandler) GetTask(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		httpserver.WriteError(ctx, w, err)
		return
	}

	task, err := h.repo(ctx).Get(ctx, id)
	if err != nil {
		logRequest(ctx, "info", "Task lookup failed", zap.Int("task_id", id), zap.Error(err))
		httpserver.WriteError(ctx, w, err)
		return
	}

	httpserver.WriteJSON(w, http.StatusOK, task)
}

// UpdateTask handles PUT /tasks/{id}. The body must carry every field.
// A status change is delivered to the reporter once the update has committed;
// a delivery failure is logged and does not fail the request.
func (h *TaskHandler) UpdateTask(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		httpserver.WriteError(ctx, w, err)
		return
	}

	var input models.TaskInput
	if err := decodeJSON(r, &input); err != nil {
		logRequest(ctx, "error", "Invalid task body", zap.Error(err))
		httpserver.WriteError(ctx, w, err)
		return
	}
	fields := input.Fields()

	task, event, err := h.repo(ctx).Update(ctx, id, fields)
	if err != nil {
		logRequest(ctx, "info", "Task update failed", zap.Int("task_id", id), zap.Error(err))
		httpserver.WriteError(ctx, w, err)
		return
	}

	if event != nil {
		if err := h.notifier.NotifyStatusChange(ctx, *event); err != nil {
			logRequest(ctx, "error", "Status change notification failed", zap.Int("task_id", id), zap.Error(err))
		}
	}

	logRequest(ctx, "info", "Task updated", zap.Int("task_id", id), zap.Bool("status_changed", event != nil))
	httpserver.WriteJSON(w, http.StatusOK, task)
}

// DeleteTask handles DELETE /tasks/{id} and returns the removed task
func (h *TaskHandler) DeleteTask(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		httpserver.WriteError(ctx, w, err)
		return
	}

	task, err := h.repo(ctx).Delete(ctx, id)
	if err != nil {
		logRequest(ctx, "info", "Task delete failed", zap.Int("task_id", id), zap.Error(err))
		httpserver.WriteError(ctx, w, err)
		return
	}

	logRequest(ctx, "info", "Task deleted", zap.Int("task_id", id))
	httpserver.WriteJSON(w, http.StatusOK, task)
}

// Health handles GET /health
func Health(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	httpserver.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func taskID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return 0, httpserver.BadRequest("Invalid task ID")
	}
	return id, nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, httpserver.BadRequest(name + " must be a non-negative integer")
	}
	return n, nil
}
