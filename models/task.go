package models

// TaskStatus is the workflow state of a task
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in progress"
	StatusDone       TaskStatus = "done"
)

// Valid reports whether s is one of the known statuses
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// UnmarshalText accepts the identifier spelling "in_progress" as an alias
// of "in progress". Unknown values are kept as-is and rejected by validation.
func (s *TaskStatus) UnmarshalText(text []byte) error {
	if string(text) == "in_progress" {
		*s = StatusInProgress
		return nil
	}
	*s = TaskStatus(text)
	return nil
}

// TaskPriority orders tasks by urgency
type TaskPriority string

const (
	PriorityHighest TaskPriority = "highest"
	PriorityHigh    TaskPriority = "high"
	PriorityMedium  TaskPriority = "medium"
	PriorityLow     TaskPriority = "low"
	PriorityLowest  TaskPriority = "lowest"
)

// Valid reports whether p is one of the known priorities
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityHighest, PriorityHigh, PriorityMedium, PriorityLow, PriorityLowest:
		return true
	}
	return false
}

// TaskFields holds every mutable field of a task. Create and update both
// take the complete set; there are no partial updates.
type TaskFields struct {
	Title       string       `json:"title" db:"title"`
	Description string       `json:"description" db:"description"`
	Reporter    string       `json:"reporter" db:"reporter"`
	Assignee    string       `json:"assignee" db:"assignee"`
	Status      TaskStatus   `json:"status" db:"status"`
	Priority    TaskPriority `json:"priority" db:"priority"`
}

// TaskInput is the request body for create and update. The text fields are
// pointers so a missing key can be told apart from an empty string: every
// key must be present, but "" is a legal value.
type TaskInput struct {
	Title       *string      `json:"title" validate:"required"`
	Description *string      `json:"description" validate:"required"`
	Reporter    *string      `json:"reporter" validate:"required"`
	Assignee    *string      `json:"assignee" validate:"required"`
	Status      TaskStatus   `json:"status" validate:"enum"`
	Priority    TaskPriority `json:"priority" validate:"enum"`
}

// Fields copies a validated input into TaskFields
func (in TaskInput) Fields() TaskFields {
	return TaskFields{
		Title:       deref(in.Title),
		Description: deref(in.Description),
		Reporter:    deref(in.Reporter),
		Assignee:    deref(in.Assignee),
		Status:      in.Status,
		Priority:    in.Priority,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Task is a persisted task record
type Task struct {
	ID int `json:"id" db:"id"`
	TaskFields
}

// StatusChangedEvent is produced by an update that moved a task to a
// different status. Reporter is the address to notify.
type StatusChangedEvent struct {
	Reporter       string     `json:"reporter"`
	Task           Task       `json:"task"`
	PreviousStatus TaskStatus `json:"previous_status"`
}
