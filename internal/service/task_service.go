package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/redact"
	"github.com/phrazzld/task-api/internal/store"
)

// Validation messages returned to clients, keyed by rule.
const (
	msgTitleRequired = "The title field is required."
	msgTitleTooLong  = "The title field must not be greater than 255 characters."
	msgTitleString   = "The title field must be a string."
	msgStatusInvalid = "The selected status is invalid."

	msgTitleInvalidChars       = "The title field must not contain null characters."
	msgDescriptionInvalidChars = "The description field must not contain null characters."
)

// Postgres text columns cannot store U+0000.
const noNulRule = "excludesrune=\u0000"

var (
	titleRules       = fmt.Sprintf("required,max=%d,%s", domain.MaxTitleLength, noNulRule)
	descriptionRules = noNulRule
)

// TaskService provides the task operations exposed by the API.
type TaskService interface {
	// List returns every task, most recently created first.
	List(ctx context.Context) ([]*domain.Task, error)

	// Create validates input, applies defaults and persists a new task.
	Create(ctx context.Context, input domain.CreateTaskInput) (*domain.Task, error)

	// Get returns a single task or store.ErrTaskNotFound.
	Get(ctx context.Context, id int64) (*domain.Task, error)

	// Update applies the supplied fields of input to an existing task.
	// Validation runs before the store is consulted.
	Update(ctx context.Context, id int64, input domain.UpdateTaskInput) (*domain.Task, error)

	// Delete permanently removes a task.
	Delete(ctx context.Context, id int64) error
}

type taskServiceImpl struct {
	tasks    store.TaskStore
	runTx    TxRunner
	clock    domain.Clock
	validate *validator.Validate
	logger   *slog.Logger
}

// NewTaskService creates a TaskService.
// runTx may be nil, in which case updates run directly against tasks.
// A nil clock defaults to domain.SystemClock and a nil logger to slog.Default().
func NewTaskService(
	tasks store.TaskStore,
	runTx TxRunner,
	clock domain.Clock,
	logger *slog.Logger,
) (TaskService, error) {
	if tasks == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "tasks cannot be nil",
		}
	}
	if runTx == nil {
		runTx = DirectTxRunner(tasks)
	}
	if clock == nil {
		clock = domain.SystemClock
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		tasks:    tasks,
		runTx:    runTx,
		clock:    clock,
		validate: validator.New(),
		logger:   logger.With(slog.String("component", "task_service")),
	}, nil
}

// List implements TaskService.
func (s *taskServiceImpl) List(ctx context.Context) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tasks, err := s.tasks.List(ctx)
	if err != nil {
		log.Error("failed to list tasks", redact.ErrorAttr(err))
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}

	return tasks, nil
}

// Create implements TaskService.
func (s *taskServiceImpl) Create(ctx context.Context, input domain.CreateTaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var errs domain.ValidationErrors

	title, verr := s.checkTitle(input.Title)
	if verr != nil {
		errs = append(errs, verr)
	}

	description, verr := s.checkDescription(input.Description)
	if verr != nil {
		errs = append(errs, verr)
	}

	status := domain.StatusPending
	if raw, ok := input.Status.Get(); ok {
		parsed, verr := checkStatus(raw)
		if verr != nil {
			errs = append(errs, verr)
		}
		status = parsed
	}

	if err := errs.ErrOrNil(); err != nil {
		log.Debug("create task input rejected", redact.ErrorAttr(err))
		return nil, err
	}

	task, err := domain.NewTask(title, description, status, s.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		log.Error("failed to create task", redact.ErrorAttr(err))
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}

	log.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.String("status", task.Status.String()))
	return task, nil
}

// Get implements TaskService.
func (s *taskServiceImpl) Get(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Error("failed to retrieve task",
				redact.ErrorAttr(err),
				slog.Int64("task_id", id))
		}
		return nil, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}

	return task, nil
}

// Update implements TaskService.
func (s *taskServiceImpl) Update(
	ctx context.Context,
	id int64,
	input domain.UpdateTaskInput,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var errs domain.ValidationErrors

	var title *string
	if input.Title.IsPresent() {
		t, verr := s.checkTitle(input.Title)
		if verr != nil {
			errs = append(errs, verr)
		}
		title = &t
	}

	var description *string
	if input.Description.IsPresent() {
		d, verr := s.checkDescription(input.Description)
		if verr != nil {
			errs = append(errs, verr)
		}
		description = d
	}

	var status *domain.Status
	if input.Status.IsPresent() {
		raw, _ := input.Status.Get()
		parsed, verr := checkStatus(raw)
		if verr != nil {
			errs = append(errs, verr)
		}
		status = &parsed
	}

	if err := errs.ErrOrNil(); err != nil {
		log.Debug("update task input rejected",
			redact.ErrorAttr(err),
			slog.Int64("task_id", id))
		return nil, err
	}

	var updated *domain.Task
	err := s.runTx(ctx, func(ctx context.Context, tasks store.TaskStore) error {
		task, err := tasks.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if title != nil {
			task.Title = *title
		}
		if input.Description.IsPresent() {
			task.Description = description
		}
		if status != nil {
			task.Status = *status
		}
		task.Touch(s.clock.Now())

		if err := tasks.Update(ctx, task); err != nil {
			return err
		}

		updated = task
		return nil
	})
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) && !errors.Is(err, domain.ErrValidation) {
			log.Error("failed to update task",
				redact.ErrorAttr(err),
				slog.Int64("task_id", id))
		}
		return nil, NewTaskServiceError("update_task", "failed to update task", err)
	}

	log.Info("task updated",
		slog.Int64("task_id", updated.ID),
		slog.String("status", updated.Status.String()))
	return updated, nil
}

// Delete implements TaskService.
func (s *taskServiceImpl) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.tasks.Delete(ctx, id); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Error("failed to delete task",
				redact.ErrorAttr(err),
				slog.Int64("task_id", id))
		}
		return NewTaskServiceError("delete_task", "failed to delete task", err)
	}

	log.Info("task deleted", slog.Int64("task_id", id))
	return nil
}

// checkTitle trims and validates a title. Absent and null titles are both
// reported as missing.
func (s *taskServiceImpl) checkTitle(in domain.Optional[string]) (string, *domain.ValidationError) {
	raw, ok := in.Get()
	if !ok {
		return "", domain.NewValidationError("title", msgTitleRequired, nil)
	}

	title := strings.TrimSpace(raw)
	if err := s.validate.Var(title, titleRules); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			switch fieldErrs[0].Tag() {
			case "max":
				return title, domain.NewValidationError("title", msgTitleTooLong, nil)
			case "excludesrune":
				return title, domain.NewValidationError("title", msgTitleInvalidChars, nil)
			}
		}
		return title, domain.NewValidationError("title", msgTitleRequired, nil)
	}

	return title, nil
}

// checkStatus parses a status display string.
func checkStatus(raw string) (domain.Status, *domain.ValidationError) {
	status, err := domain.ParseStatus(strings.TrimSpace(raw))
	if err != nil {
		return 0, domain.NewValidationError("status", msgStatusInvalid, err)
	}
	return status, nil
}

// checkDescription trims the description and maps empty or null to nil.
func (s *taskServiceImpl) checkDescription(in domain.Optional[string]) (*string, *domain.ValidationError) {
	raw, ok := in.Get()
	if !ok {
		return nil, nil
	}
	desc := strings.TrimSpace(raw)
	if desc == "" {
		return nil, nil
	}
	if err := s.validate.Var(desc, descriptionRules); err != nil {
		return nil, domain.NewValidationError("description", msgDescriptionInvalidChars, nil)
	}
	return &desc, nil
}

// TypeMismatchError reports a field supplied with a JSON type other than string.
func TypeMismatchError(field string) *domain.ValidationError {
	if field == "title" {
		return domain.NewValidationError(field, msgTitleString, nil)
	}
	if field == "status" {
		return domain.NewValidationError(field, msgStatusInvalid, domain.ErrInvalidStatus)
	}
	return domain.NewValidationError(field, fmt.Sprintf("The %s field must be a string.", field), nil)
}
