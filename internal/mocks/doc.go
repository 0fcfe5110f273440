// Package mocks provides shared test doubles for the task service.
//
// Each mock exposes function fields for per-test behaviour and falls back to
// a simple default when a field is nil:
//
//	svc := &mocks.MockTaskService{
//	    GetFn: func(ctx context.Context, id int64) (*domain.Task, error) {
//	        return nil, store.ErrTaskNotFound
//	    },
//	}
//
// MockTaskStore additionally keeps tasks in memory, so it can stand in for
// the PostgreSQL store in service, scanner and handler tests.
package mocks
