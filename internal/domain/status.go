package domain

import (
	"database/sql/driver"
	"fmt"
)

// Status is the lifecycle state of a task. The zero value is not a valid
// status; only the three declared constants are ever persisted.
type Status uint8

// Task status values.
const (
	StatusPending Status = iota + 1
	StatusInProgress
	StatusDone
)

// Wire and database forms of each status.
const (
	statusPendingText    = "Pending"
	statusInProgressText = "In Progress"
	statusDoneText       = "Done"
)

// Statuses returns every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusDone}
}

// ParseStatus converts the display form of a status into a Status.
// Matching is exact: "pending" or "InProgress" are rejected.
func ParseStatus(s string) (Status, error) {
	switch s {
	case statusPendingText:
		return StatusPending, nil
	case statusInProgressText:
		return StatusInProgress, nil
	case statusDoneText:
		return StatusDone, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// String returns the display form of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return statusPendingText
	case StatusInProgress:
		return statusInProgressText
	case StatusDone:
		return statusDoneText
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// IsValid reports whether s is one of the declared statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

// MarshalText implements encoding.TextMarshaler, which encoding/json uses
// to render the status as a JSON string.
func (s Status) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Value implements driver.Valuer so a Status is stored as its display form.
func (s Status) Value() (driver.Value, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidStatus, uint8(s))
	}
	return s.String(), nil
}

// Scan implements sql.Scanner.
func (s *Status) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return s.UnmarshalText([]byte(v))
	case []byte:
		return s.UnmarshalText(v)
	case nil:
		return fmt.Errorf("%w: NULL", ErrInvalidStatus)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidStatus, src)
	}
}
