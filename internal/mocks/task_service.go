package mocks

import (
	"context"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/service"
)

// MockTaskService implements service.TaskService for handler tests.
type MockTaskService struct {
	ListFn   func(ctx context.Context) ([]*domain.Task, error)
	CreateFn func(ctx context.Context, input domain.CreateTaskInput) (*domain.Task, error)
	GetFn    func(ctx context.Context, id int64) (*domain.Task, error)
	UpdateFn func(ctx context.Context, id int64, input domain.UpdateTaskInput) (*domain.Task, error)
	DeleteFn func(ctx context.Context, id int64) error

	// Default values used when functions aren't set.
	Task  *domain.Task
	Tasks []*domain.Task
	Err   error
}

var _ service.TaskService = (*MockTaskService)(nil)

// List implements service.TaskService.
func (m *MockTaskService) List(ctx context.Context) ([]*domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return m.Tasks, m.Err
}

// Create implements service.TaskService.
func (m *MockTaskService) Create(ctx context.Context, input domain.CreateTaskInput) (*domain.Task, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, input)
	}
	return m.Task, m.Err
}

// Get implements service.TaskService.
func (m *MockTaskService) Get(ctx context.Context, id int64) (*domain.Task, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, id)
	}
	return m.Task, m.Err
}

// Update implements service.TaskService.
func (m *MockTaskService) Update(
	ctx context.Context,
	id int64,
	input domain.UpdateTaskInput,
) (*domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, input)
	}
	return m.Task, m.Err
}

// Delete implements service.TaskService.
func (m *MockTaskService) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return m.Err
}
