package domain

import (
	"fmt"
	"slices"
)

// Status represents the final lifecycle state of a task.
type Status string

const (
	StatusOpen      Status = "OPEN"      // Created or re-opened
	StatusCompleted Status = "COMPLETED" // Completed and not re-opened
)

// AllStatuses returns all valid status values.
func AllStatuses() []Status {
	return []Status{StatusOpen, StatusCompleted}
}

// IsValid returns true if s is a known status.
func (s Status) IsValid() bool {
	return slices.Contains(AllStatuses(), s)
}

// ParseStatus converts a persisted status string into a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// UnmarshalText validates statuses read back from task files.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Display returns a human-readable representation of the status.
func (s Status) Display() string {
	switch s {
	case StatusOpen:
		return "Open"
	case StatusCompleted:
		return "Completed"
	default:
		return string(s)
	}
}
