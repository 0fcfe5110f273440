package domain

import (
	"time"
	"unicode/utf8"
)

// MaxTitleLength is the maximum number of characters allowed in a task title.
const MaxTitleLength = 255

// Task is a unit of work tracked by the service.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask builds a task that has not been persisted yet. Both timestamps are
// set to now; the store assigns the ID.
func NewTask(title string, description *string, status Status, now time.Time) (*Task, error) {
	task := &Task{
		Title:       title,
		Description: description,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks the invariants every stored task must satisfy.
func (t *Task) Validate() error {
	var errs ValidationErrors

	if t.Title == "" {
		errs = append(errs, NewValidationError("title", "The title field is required.", nil))
	} else if utf8.RuneCountInString(t.Title) > MaxTitleLength {
		errs = append(errs, NewValidationError("title", "The title field must not be greater than 255 characters.", nil))
	}

	if !t.Status.IsValid() {
		errs = append(errs, NewValidationError("status", "The selected status is invalid.", ErrInvalidStatus))
	}

	if t.UpdatedAt.Before(t.CreatedAt) {
		errs = append(errs, NewValidationError("updated_at", "The updated_at timestamp precedes created_at.", nil))
	}

	return errs.ErrOrNil()
}

// Touch refreshes UpdatedAt, never letting it fall behind CreatedAt even if
// the clock moved backwards.
func (t *Task) Touch(now time.Time) {
	if now.Before(t.CreatedAt) {
		now = t.CreatedAt
	}
	t.UpdatedAt = now
}

// IsStale reports whether the task has been pending, untouched, for longer
// than threshold as of now.
func (t *Task) IsStale(now time.Time, threshold time.Duration) bool {
	return t.Status == StatusPending && t.UpdatedAt.Before(now.Add(-threshold))
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	return &c
}

// CreateTaskInput carries the client-supplied fields for a new task.
// Status holds the raw display string; it is parsed during validation.
type CreateTaskInput struct {
	Title       Optional[string]
	Description Optional[string]
	Status      Optional[string]
}

// UpdateTaskInput carries a partial update. Absent fields keep their value;
// a null Description clears it.
type UpdateTaskInput struct {
	Title       Optional[string]
	Description Optional[string]
	Status      Optional[string]
}
