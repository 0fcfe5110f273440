package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/store"
)

// MockTaskStore is an in-memory store.TaskStore. Tasks are copied on the way
// in and out, so callers never share memory with the store.
type MockTaskStore struct {
	// Function fields override the in-memory behaviour when set.
	CreateFn           func(ctx context.Context, task *domain.Task) error
	GetByIDFn          func(ctx context.Context, id int64) (*domain.Task, error)
	ListFn             func(ctx context.Context) ([]*domain.Task, error)
	UpdateFn           func(ctx context.Context, task *domain.Task) error
	DeleteFn           func(ctx context.Context, id int64) error
	FindStalePendingFn func(ctx context.Context, cutoff time.Time) ([]*domain.Task, error)

	// Err, when set, is returned by every method that has no function override.
	Err error

	mu     sync.Mutex
	tasks  map[int64]*domain.Task
	nextID int64
	calls  map[string]int
}

// NewMockTaskStore creates an empty in-memory store.
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		tasks:  make(map[int64]*domain.Task),
		nextID: 1,
		calls:  make(map[string]int),
	}
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// Seed stores copies of tasks as they are, keeping their IDs. Tasks with a
// zero ID get the next free one.
func (m *MockTaskStore) Seed(tasks ...*domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lazyInit()
	for _, t := range tasks {
		if t.ID == 0 {
			t.ID = m.nextID
		}
		if t.ID >= m.nextID {
			m.nextID = t.ID + 1
		}
		m.tasks[t.ID] = t.Clone()
	}
}

// Calls returns how many times method was invoked.
func (m *MockTaskStore) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// Len returns the number of stored tasks.
func (m *MockTaskStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

func (m *MockTaskStore) lazyInit() {
	if m.tasks == nil {
		m.tasks = make(map[int64]*domain.Task)
	}
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	if m.nextID == 0 {
		m.nextID = 1
	}
}

func (m *MockTaskStore) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lazyInit()
	m.calls[method]++
}

// Create implements store.TaskStore.
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	m.record("Create")
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	if m.Err != nil {
		return m.Err
	}
	if err := task.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task.ID = m.nextID
	m.nextID++
	m.tasks[task.ID] = task.Clone()
	return nil
}

// GetByID implements store.TaskStore.
func (m *MockTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	m.record("GetByID")
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return m.get(id)
}

// GetByIDForUpdate implements store.TaskStore. It shares GetByIDFn.
func (m *MockTaskStore) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Task, error) {
	m.record("GetByIDForUpdate")
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return m.get(id)
}

func (m *MockTaskStore) get(id int64) (*domain.Task, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return t.Clone(), nil
}

// List implements store.TaskStore.
func (m *MockTaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	m.record("List")
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	out := make([]*domain.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		out = append(out, t.Clone())
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// Update implements store.TaskStore.
func (m *MockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	m.record("Update")
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}
	if m.Err != nil {
		return m.Err
	}
	if err := task.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	m.tasks[task.ID] = task.Clone()
	return nil
}

// Delete implements store.TaskStore.
func (m *MockTaskStore) Delete(ctx context.Context, id int64) error {
	m.record("Delete")
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

// FindStalePending implements store.TaskStore.
func (m *MockTaskStore) FindStalePending(ctx context.Context, cutoff time.Time) ([]*domain.Task, error) {
	m.record("FindStalePending")
	if m.FindStalePendingFn != nil {
		return m.FindStalePendingFn(ctx, cutoff)
	}
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	out := make([]*domain.Task, 0)
	for _, t := range m.tasks {
		if t.Status == domain.StatusPending && t.UpdatedAt.Before(cutoff) {
			out = append(out, t.Clone())
		}
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.Before(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// WithTx implements store.TaskStore. The in-memory store has no
// transactions and returns itself.
func (m *MockTaskStore) WithTx(*sql.Tx) store.TaskStore {
	return m
}
