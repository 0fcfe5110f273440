package events

import (
	"context"
	"log/slog"

	"github.com/phrazzld/task-api/internal/platform/logger"
)

// LogHandler writes each reminder to the structured log.
type LogHandler struct {
	logger *slog.Logger
}

// NewLogHandler creates a LogHandler. A nil logger means slog.Default().
func NewLogHandler(l *slog.Logger) *LogHandler {
	if l == nil {
		l = slog.Default()
	}
	return &LogHandler{logger: l.With(slog.String("component", "reminder_log"))}
}

// HandleEvent implements EventHandler.
func (h *LogHandler) HandleEvent(ctx context.Context, event *ReminderEvent) error {
	log := logger.FromContextOrDefault(ctx, h.logger)
	log.Info(event.Message(),
		slog.String("event_id", event.ID.String()),
		slog.Int64("task_id", event.TaskID),
		slog.Time("task_updated_at", event.TaskUpdatedAt),
		slog.Duration("pending_for", event.PendingFor))
	return nil
}
