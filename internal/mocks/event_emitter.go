package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/task-api/internal/events"
)

// RecordingEmitter implements events.EventEmitter and keeps every event it
// accepts. FailFor makes emission fail for specific task IDs.
type RecordingEmitter struct {
	// FailFor maps task IDs to the error EmitEvent returns for them.
	FailFor map[int64]error

	mu     sync.Mutex
	events []*events.ReminderEvent
	notify chan struct{}
}

var _ events.EventEmitter = (*RecordingEmitter)(nil)

// NewRecordingEmitter creates an emitter whose Emitted channel receives a
// value after every accepted event.
func NewRecordingEmitter() *RecordingEmitter {
	return &RecordingEmitter{notify: make(chan struct{}, 1024)}
}

// EmitEvent implements events.EventEmitter.
func (r *RecordingEmitter) EmitEvent(ctx context.Context, event *events.ReminderEvent) error {
	if err, ok := r.FailFor[event.TaskID]; ok {
		return err
	}

	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()

	if r.notify != nil {
		select {
		case r.notify <- struct{}{}:
		default:
		}
	}
	return nil
}

// Events returns a copy of the accepted events in emission order.
func (r *RecordingEmitter) Events() []*events.ReminderEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*events.ReminderEvent, len(r.events))
	copy(out, r.events)
	return out
}

// TaskIDs returns the task IDs of the accepted events in emission order.
func (r *RecordingEmitter) TaskIDs() []int64 {
	evs := r.Events()
	ids := make([]int64, 0, len(evs))
	for _, e := range evs {
		ids = append(ids, e.TaskID)
	}
	return ids
}

// Emitted signals once per accepted event. It is nil unless the emitter was
// created with NewRecordingEmitter.
func (r *RecordingEmitter) Emitted() <-chan struct{} {
	return r.notify
}
