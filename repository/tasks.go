package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"task-tracker/models"
)

const taskColumns = "id, title, description, reporter, assignee, status, priority"

// TaskRepository persists tasks
type TaskRepository struct {
	db DBTX
}

// NewTaskRepository creates a TaskRepository on db
func NewTaskRepository(db DBTX) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create stores a new task and returns it with its assigned id
func (r *TaskRepository) Create(ctx context.Context, fields models.TaskFields) (models.Task, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO tasks (title, description, reporter, assignee, status, priority) VALUES (?, ?, ?, ?, ?, ?)",
		fields.Title, fields.Description, fields.Reporter, fields.Assignee, fields.Status, fields.Priority)
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.Task{}, fmt.Errorf("read task id: %w", err)
	}

	return models.Task{ID: int(id), TaskFields: fields}, nil
}

// Get returns the task with id, or models.ErrTaskNotFound
func (r *TaskRepository) Get(ctx context.Context, id int) (models.Task, error) {
	return getTask(ctx, r.db, id)
}

// List returns up to limit tasks after skipping offset, in id order
func (r *TaskRepository) List(ctx context.Context, offset, limit int) ([]models.Task, error) {
	tasks := []models.Task{}
	err := r.db.SelectContext(ctx, &tasks,
		"SELECT "+taskColumns+" FROM tasks ORDER BY id LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Update replaces every field of task id. When the stored status differs from
// fields.Status it also returns a StatusChangedEvent; the event is only
// returned once the transaction has committed, and delivering it is up to the caller.
func (r *TaskRepository) Update(ctx context.Context, id int, fields models.TaskFields) (models.Task, *models.StatusChangedEvent, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Task{}, nil, fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback()

	previous, err := getTask(ctx, tx, id)
	if err != nil {
		return models.Task{}, nil, err
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE tasks SET title = ?, description = ?, reporter = ?, assignee = ?, status = ?, priority = ? WHERE id = ?",
		fields.Title, fields.Description, fields.Reporter, fields.Assignee, fields.Status, fields.Priority, id)
	if err != nil {
		return models.Task{}, nil, fmt.Errorf("update task %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return models.Task{}, nil, fmt.Errorf("commit update: %w", err)
	}

	updated := models.Task{ID: id, TaskFields: fields}
	if previous.Status == updated.Status {
		return updated, nil, nil
	}
	return updated, &models.StatusChangedEvent{
		Reporter:       updated.Reporter,
		Task:           updated,
		PreviousStatus: previous.Status,
	}, nil
}

// Delete removes task id and returns the record as it was before deletion
func (r *TaskRepository) Delete(ctx context.Context, id int) (models.Task, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Task{}, fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	task, err := getTask(ctx, tx, id)
	if err != nil {
		return models.Task{}, err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id); err != nil {
		return models.Task{}, fmt.Errorf("delete task %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return models.Task{}, fmt.Errorf("commit delete: %w", err)
	}
	return task, nil
}

// getter is satisfied by DBTX and by *sqlx.Tx
type getter interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

func getTask(ctx context.Context, q getter, id int) (models.Task, error) {
	var task models.Task
	err := q.GetContext(ctx, &task, "SELECT "+taskColumns+" FROM tasks WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, models.ErrTaskNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task %d: %w", id, err)
	}
	return task, nil
}
