package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/task-api/internal/domain"
)

// TypeTaskReminder identifies reminder events.
const TypeTaskReminder = "task.reminder"

// ReminderEvent reports a task that has stayed pending past the staleness threshold.
type ReminderEvent struct {
	// ID is a unique identifier for this event.
	ID uuid.UUID `json:"id"`

	// Type is always TypeTaskReminder.
	Type string `json:"type"`

	// TaskID and Title identify the stale task.
	TaskID int64  `json:"task_id"`
	Title  string `json:"title"`

	// TaskUpdatedAt is the task's last update time at scan time.
	TaskUpdatedAt time.Time `json:"task_updated_at"`

	// PendingFor is how long the task had been untouched when it was found.
	PendingFor time.Duration `json:"pending_for"`

	// CreatedAt is when the event was produced.
	CreatedAt time.Time `json:"created_at"`
}

// NewReminderEvent builds a reminder for task as observed at now.
func NewReminderEvent(task *domain.Task, now time.Time) *ReminderEvent {
	return &ReminderEvent{
		ID:            uuid.New(),
		Type:          TypeTaskReminder,
		TaskID:        task.ID,
		Title:         task.Title,
		TaskUpdatedAt: task.UpdatedAt,
		PendingFor:    now.Sub(task.UpdatedAt),
		CreatedAt:     now,
	}
}

// Message renders the human-readable reminder line.
func (e *ReminderEvent) Message() string {
	return fmt.Sprintf("Reminder: Task '%s' is still pending!", e.Title)
}

// EventHandler processes emitted events.
type EventHandler interface {
	// HandleEvent processes the given event.
	// Returns an error if the event cannot be handled.
	HandleEvent(ctx context.Context, event *ReminderEvent) error
}

// EventHandlerFunc adapts a function to the EventHandler interface.
type EventHandlerFunc func(ctx context.Context, event *ReminderEvent) error

// HandleEvent implements EventHandler.
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *ReminderEvent) error {
	return f(ctx, event)
}

// EventEmitter publishes events to registered handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *ReminderEvent) error
}
