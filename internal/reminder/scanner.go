package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/events"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/redact"
)

// Defaults used when Config leaves a field zero.
const (
	DefaultInterval   = time.Hour
	DefaultStaleAfter = time.Hour
)

// StaleTaskFinder is the read capability the scanner needs from the task store.
type StaleTaskFinder interface {
	// FindStalePending returns pending tasks with updated_at strictly before cutoff.
	FindStalePending(ctx context.Context, cutoff time.Time) ([]*domain.Task, error)
}

// Config holds scanner settings.
type Config struct {
	// Interval between scans.
	Interval time.Duration

	// StaleAfter is how long a pending task may go without an update before
	// it is reported.
	StaleAfter time.Duration

	// RunOnStart performs a scan as soon as Run is called instead of waiting
	// for the first tick.
	RunOnStart bool
}

// DefaultConfig returns hourly scans with a one hour threshold.
func DefaultConfig() Config {
	return Config{
		Interval:   DefaultInterval,
		StaleAfter: DefaultStaleAfter,
	}
}

// Scanner finds stale pending tasks and emits a reminder for each.
type Scanner struct {
	finder  StaleTaskFinder
	emitter events.EventEmitter
	clock   domain.Clock
	config  Config
	logger  *slog.Logger
}

// NewScanner creates a Scanner. Zero config durations fall back to the
// defaults; a nil clock means domain.SystemClock.
func NewScanner(
	finder StaleTaskFinder,
	emitter events.EventEmitter,
	clock domain.Clock,
	config Config,
	logger *slog.Logger,
) (*Scanner, error) {
	if finder == nil {
		return nil, errors.New("finder cannot be nil")
	}
	if emitter == nil {
		return nil, errors.New("emitter cannot be nil")
	}
	if config.Interval < 0 || config.StaleAfter < 0 {
		return nil, fmt.Errorf("scanner durations must not be negative: interval=%s stale_after=%s",
			config.Interval, config.StaleAfter)
	}
	if config.Interval == 0 {
		config.Interval = DefaultInterval
	}
	if config.StaleAfter == 0 {
		config.StaleAfter = DefaultStaleAfter
	}
	if clock == nil {
		clock = domain.SystemClock
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Scanner{
		finder:  finder,
		emitter: emitter,
		clock:   clock,
		config:  config,
		logger:  logger.With(slog.String("component", "reminder_scanner")),
	}, nil
}

// ScanOnce runs a single scan and returns the number of reminders emitted.
// A failing query aborts the scan. A failing emission is logged and the
// remaining tasks are still processed.
func (s *Scanner) ScanOnce(ctx context.Context) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := s.clock.Now()
	cutoff := now.Add(-s.config.StaleAfter)

	tasks, err := s.finder.FindStalePending(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to find stale pending tasks: %w", err)
	}

	emitted := 0
	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return emitted, err
		}

		event := events.NewReminderEvent(task, now)
		if err := s.emitter.EmitEvent(ctx, event); err != nil {
			log.Error("failed to emit reminder",
				redact.ErrorAttr(err),
				slog.Int64("task_id", task.ID),
				slog.String("event_id", event.ID.String()))
			continue
		}
		emitted++
	}

	log.Debug("reminder scan completed",
		slog.Time("cutoff", cutoff),
		slog.Int("stale_count", len(tasks)),
		slog.Int("emitted", emitted))
	return emitted, nil
}

// Run scans on every tick until ctx is cancelled. Scan failures are logged
// and the loop waits for the next tick. Run returns nil on cancellation.
func (s *Scanner) Run(ctx context.Context) error {
	s.logger.Info("reminder scanner started",
		slog.Duration("interval", s.config.Interval),
		slog.Duration("stale_after", s.config.StaleAfter))

	if s.config.RunOnStart {
		s.tick(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reminder scanner stopped")
			return nil
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scanner) tick(ctx context.Context) {
	emitted, err := s.ScanOnce(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Error("reminder scan failed", redact.ErrorAttr(err))
		return
	}
	if emitted > 0 {
		s.logger.Info("reminders emitted", slog.Int("count", emitted))
	}
}
