package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/service"
)

// Task fields accepted in request bodies. Other keys are ignored.
const (
	fieldTitle       = "title"
	fieldDescription = "description"
	fieldStatus      = "status"
)

// taskFields is the decoded, type-checked form of a task request body.
type taskFields struct {
	Title       domain.Optional[string]
	Description domain.Optional[string]
	Status      domain.Optional[string]
}

func (f taskFields) createInput() domain.CreateTaskInput {
	return domain.CreateTaskInput{Title: f.Title, Description: f.Description, Status: f.Status}
}

func (f taskFields) updateInput() domain.UpdateTaskInput {
	return domain.UpdateTaskInput{Title: f.Title, Description: f.Description, Status: f.Status}
}

// getPathID parses the {id} URL parameter. Anything that is not a positive
// integer cannot name a task and is reported as domain.ErrInvalidID.
func getPathID(r *http.Request, paramName string) (int64, error) {
	raw := chi.URLParam(r, paramName)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

// parseTaskFields converts raw body members into optional string fields.
// A member holding a JSON type other than string or null yields a
// validation error for that field.
func parseTaskFields(members map[string]json.RawMessage) (taskFields, error) {
	var (
		fields taskFields
		errs   domain.ValidationErrors
	)

	for _, f := range []struct {
		name string
		dst  *domain.Optional[string]
	}{
		{fieldTitle, &fields.Title},
		{fieldDescription, &fields.Description},
		{fieldStatus, &fields.Status},
	} {
		raw, ok := members[f.name]
		if !ok {
			continue
		}
		if !isStringOrNull(raw) {
			errs = append(errs, service.TypeMismatchError(f.name))
			continue
		}
		if err := json.Unmarshal(raw, f.dst); err != nil {
			errs = append(errs, service.TypeMismatchError(f.name))
		}
	}

	return fields, errs.ErrOrNil()
}

func isStringOrNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	return trimmed[0] == '"' || bytes.Equal(trimmed, []byte("null"))
}
