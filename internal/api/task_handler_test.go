package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/mocks"
	"github.com/phrazzld/task-api/internal/platform/postgres"
	"github.com/phrazzld/task-api/internal/service"
	"github.com/phrazzld/task-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)

func newRouter(svc service.TaskService) http.Handler {
	r := chi.NewRouter()
	NewTaskHandler(svc, nil).RegisterRoutes(r)
	return r
}

// newStackRouter wires the real service over the in-memory store.
func newStackRouter(t *testing.T) (http.Handler, *mocks.MockTaskStore) {
	t.Helper()
	tasks := mocks.NewMockTaskStore()
	svc, err := service.NewTaskService(tasks, nil, domain.FixedClock(fixedNow), nil)
	require.NoError(t, err)
	return newRouter(svc), tasks
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeTask(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var body shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func sampleTask(id int64, title string) *domain.Task {
	return &domain.Task{
		ID:        id,
		Title:     title,
		Status:    domain.StatusPending,
		CreatedAt: fixedNow,
		UpdatedAt: fixedNow,
	}
}

func TestCreateTask(t *testing.T) {
	t.Run("defaults status to Pending", func(t *testing.T) {
		h, tasks := newStackRouter(t)

		rr := do(t, h, http.MethodPost, "/tasks", `{"title":"Write report"}`)

		require.Equal(t, http.StatusCreated, rr.Code)
		body := decodeTask(t, rr)
		assert.Equal(t, float64(1), body["id"])
		assert.Equal(t, "Write report", body["title"])
		assert.Nil(t, body["description"])
		assert.Contains(t, body, "description")
		assert.Equal(t, "Pending", body["status"])
		assert.Equal(t, "2026-05-04T10:30:00Z", body["created_at"])
		assert.Equal(t, body["created_at"], body["updated_at"])
		assert.Equal(t, 1, tasks.Len())
	})

	t.Run("explicit status and description", func(t *testing.T) {
		h, _ := newStackRouter(t)

		rr := do(t, h, http.MethodPost, "/tasks", `{"title":"B","description":"d","status":"In Progress"}`)

		require.Equal(t, http.StatusCreated, rr.Code)
		body := decodeTask(t, rr)
		assert.Equal(t, "d", body["description"])
		assert.Equal(t, "In Progress", body["status"])
	})

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantFields map[string][]string
	}{
		{
			name:       "missing title",
			body:       `{"description":"x"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantFields: map[string][]string{"title": {"The title field is required."}},
		},
		{
			name:       "empty body",
			body:       "",
			wantStatus: http.StatusUnprocessableEntity,
			wantFields: map[string][]string{"title": {"The title field is required."}},
		},
		{
			name:       "blank title",
			body:       `{"title":"   "}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantFields: map[string][]string{"title": {"The title field is required."}},
		},
		{
			name:       "title too long",
			body:       fmt.Sprintf(`{"title":%q}`, strings.Repeat("x", 256)),
			wantStatus: http.StatusUnprocessableEntity,
			wantFields: map[string][]string{"title": {"The title field must not be greater than 255 characters."}},
		},
		{
			name:       "numeric title",
			body:       `{"title":42}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantFields: map[string][]string{"title": {"The title field must be a string."}},
		},
		{
			name:       "unknown status",
			body:       `{"title":"C","status":"Archived"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantFields: map[string][]string{"status": {"The selected status is invalid."}},
		},
		{
			name:       "non-string status",
			body:       `{"title":"C","status":true}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantFields: map[string][]string{"status": {"The selected status is invalid."}},
		},
		{
			name:       "non-string description",
			body:       `{"title":"C","description":["a"]}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantFields: map[string][]string{"description": {"The description field must be a string."}},
		},
		{
			name:       "null character in title",
			body:       `{"title":"a\u0000b"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantFields: map[string][]string{"title": {"The title field must not contain null characters."}},
		},
		{
			name:       "null character in description",
			body:       `{"title":"C","description":"line\u0000break"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantFields: map[string][]string{"description": {"The description field must not contain null characters."}},
		},
		{
			name:       "malformed json",
			body:       `{"title":"C",`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "array body",
			body:       `["title"]`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, tasks := newStackRouter(t)

			rr := do(t, h, http.MethodPost, "/tasks", tc.body)

			assert.Equal(t, tc.wantStatus, rr.Code)
			body := decodeError(t, rr)
			if tc.wantFields != nil {
				assert.Equal(t, msgValidationFailed, body.Error)
				assert.Equal(t, tc.wantFields, body.Errors)
			} else {
				assert.Equal(t, msgMalformedBody, body.Error)
				assert.Nil(t, body.Errors)
			}
			assert.Equal(t, 0, tasks.Len(), "nothing is stored on failure")
		})
	}
}

func TestListTasks(t *testing.T) {
	t.Run("empty list is an array", func(t *testing.T) {
		h, _ := newStackRouter(t)

		rr := do(t, h, http.MethodGet, "/tasks", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("nil slice from service is still an array", func(t *testing.T) {
		rr := do(t, newRouter(&mocks.MockTaskService{}), http.MethodGet, "/tasks", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})

	t.Run("newest first", func(t *testing.T) {
		h, tasks := newStackRouter(t)
		older := sampleTask(1, "older")
		newer := sampleTask(2, "newer")
		newer.CreatedAt = fixedNow.Add(time.Minute)
		newer.UpdatedAt = newer.CreatedAt
		tasks.Seed(older, newer)

		rr := do(t, h, http.MethodGet, "/tasks", "")

		require.Equal(t, http.StatusOK, rr.Code)
		var body []TaskResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		require.Len(t, body, 2)
		assert.Equal(t, "newer", body[0].Title)
		assert.Equal(t, "older", body[1].Title)
	})

	t.Run("storage failure", func(t *testing.T) {
		svc := &mocks.MockTaskService{Err: fmt.Errorf("%w: connection reset", store.ErrStorage)}

		rr := do(t, newRouter(svc), http.MethodGet, "/tasks", "")

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, msgStorage, decodeError(t, rr).Error)
	})
}

func TestGetTask(t *testing.T) {
	h, tasks := newStackRouter(t)
	tasks.Seed(sampleTask(7, "Seven"))

	rr := do(t, h, http.MethodGet, "/tasks/7", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Seven", decodeTask(t, rr)["title"])

	for _, path := range []string{"/tasks/8", "/tasks/abc", "/tasks/0", "/tasks/-1"} {
		rr := do(t, h, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, rr.Code, path)
		assert.Equal(t, msgTaskNotFound, decodeError(t, rr).Error, path)
	}
}

func TestUpdateTask(t *testing.T) {
	desc := "keep me"

	seeded := func() *domain.Task {
		task := sampleTask(3, "Original")
		task.Description = &desc
		task.CreatedAt = fixedNow.Add(-2 * time.Hour)
		task.UpdatedAt = task.CreatedAt
		return task
	}

	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		t.Run(method+" partial update", func(t *testing.T) {
			h, tasks := newStackRouter(t)
			tasks.Seed(seeded())

			rr := do(t, h, method, "/tasks/3", `{"status":"Done"}`)

			require.Equal(t, http.StatusOK, rr.Code)
			body := decodeTask(t, rr)
			assert.Equal(t, "Original", body["title"])
			assert.Equal(t, "keep me", body["description"])
			assert.Equal(t, "Done", body["status"])
			assert.Equal(t, "2026-05-04T10:30:00Z", body["updated_at"])
			assert.Equal(t, "2026-05-04T08:30:00Z", body["created_at"])
		})
	}

	t.Run("null description clears it", func(t *testing.T) {
		h, tasks := newStackRouter(t)
		tasks.Seed(seeded())

		rr := do(t, h, http.MethodPatch, "/tasks/3", `{"description":null}`)

		require.Equal(t, http.StatusOK, rr.Code)
		body := decodeTask(t, rr)
		assert.Contains(t, body, "description")
		assert.Nil(t, body["description"])
	})

	t.Run("empty object changes nothing but updated_at", func(t *testing.T) {
		h, tasks := newStackRouter(t)
		tasks.Seed(seeded())

		rr := do(t, h, http.MethodPatch, "/tasks/3", `{}`)

		require.Equal(t, http.StatusOK, rr.Code)
		body := decodeTask(t, rr)
		assert.Equal(t, "Original", body["title"])
		assert.Equal(t, "Pending", body["status"])
	})

	t.Run("null status rejected", func(t *testing.T) {
		h, tasks := newStackRouter(t)
		tasks.Seed(seeded())

		rr := do(t, h, http.MethodPatch, "/tasks/3", `{"status":null}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Equal(t, []string{"The selected status is invalid."}, decodeError(t, rr).Errors["status"])
	})

	t.Run("empty title rejected and task unchanged", func(t *testing.T) {
		h, tasks := newStackRouter(t)
		tasks.Seed(seeded())

		rr := do(t, h, http.MethodPatch, "/tasks/3", `{"title":""}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Equal(t, []string{"The title field is required."}, decodeError(t, rr).Errors["title"])

		got := decodeTask(t, do(t, h, http.MethodGet, "/tasks/3", ""))
		assert.Equal(t, "Original", got["title"])
		assert.Equal(t, "2026-05-04T08:30:00Z", got["updated_at"])
	})

	t.Run("missing task", func(t *testing.T) {
		h, _ := newStackRouter(t)

		rr := do(t, h, http.MethodPut, "/tasks/99", `{"title":"x"}`)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		h, _ := newStackRouter(t)

		rr := do(t, h, http.MethodPatch, "/tasks/abc", `{"title":"x"}`)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		h, tasks := newStackRouter(t)
		tasks.Seed(seeded())

		rr := do(t, h, http.MethodPatch, "/tasks/3", `{"title":`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("passes id and fields to the service", func(t *testing.T) {
		var gotID int64
		var gotInput domain.UpdateTaskInput
		svc := &mocks.MockTaskService{
			UpdateFn: func(ctx context.Context, id int64, input domain.UpdateTaskInput) (*domain.Task, error) {
				gotID, gotInput = id, input
				return sampleTask(id, "T"), nil
			},
		}

		rr := do(t, newRouter(svc), http.MethodPut, "/tasks/12", `{"title":"T","description":null,"extra":1}`)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, int64(12), gotID)
		title, ok := gotInput.Title.Get()
		assert.True(t, ok)
		assert.Equal(t, "T", title)
		assert.True(t, gotInput.Description.IsNull())
		assert.False(t, gotInput.Status.IsPresent())
	})
}

func TestDeleteTask(t *testing.T) {
	h, tasks := newStackRouter(t)
	tasks.Seed(sampleTask(5, "Gone soon"))

	rr := do(t, h, http.MethodDelete, "/tasks/5", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"Deleted"}`, rr.Body.String())

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/tasks/5", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/tasks/5", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/tasks/nope", "").Code)
}

func TestCreateTask_BodyTooLarge(t *testing.T) {
	h, tasks := newStackRouter(t)
	body := fmt.Sprintf(`{"title":"C","description":%q}`, strings.Repeat("x", shared.MaxBodyBytes))

	rr := do(t, h, http.MethodPost, "/tasks", body)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Equal(t, msgBodyTooLarge, decodeError(t, rr).Error)
	assert.Equal(t, 0, tasks.Len())
}

func TestCreateTask_RejectedValueIsNotRetryable(t *testing.T) {
	tasks := mocks.NewMockTaskStore()
	tasks.CreateFn = func(context.Context, *domain.Task) error {
		return postgres.MapError(&pgconn.PgError{
			Code:    "22021",
			Message: `invalid byte sequence for encoding "UTF8": 0x00`,
		})
	}
	svc, err := service.NewTaskService(tasks, nil, domain.FixedClock(fixedNow), nil)
	require.NoError(t, err)

	rr := do(t, newRouter(svc), http.MethodPost, "/tasks", `{"title":"C"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, msgInvalidEntity, decodeError(t, rr).Error)
}

func TestHandler_UnexpectedServiceError(t *testing.T) {
	svc := &mocks.MockTaskService{Err: errors.New("postgres://admin:secret@db/tasks unreachable")}

	rr := do(t, newRouter(svc), http.MethodGet, "/tasks/1", "")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "secret")
	assert.Equal(t, msgUnexpected, decodeError(t, rr).Error)
}
