package model

import (
	"fmt"
	"strings"
)

// ApplicationStatus is the lifecycle state of an application.
type ApplicationStatus int

const (
	StatusOpen ApplicationStatus = iota + 1
	StatusPending
	StatusCompleted
	StatusUnavailable
)

var statusNames = map[ApplicationStatus]string{
	StatusOpen:        "open",
	StatusPending:     "pending",
	StatusCompleted:   "completed",
	StatusUnavailable: "unavailable",
}

// AllStatuses lists every status in lifecycle order.
func AllStatuses() []ApplicationStatus {
	return []ApplicationStatus{StatusOpen, StatusPending, StatusCompleted, StatusUnavailable}
}

func (s ApplicationStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}

	return fmt.Sprintf("status(%d)", int(s))
}

// Valid reports whether s is one of the declared statuses.
func (s ApplicationStatus) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// Terminal reports whether no transition leaves s.
func (s ApplicationStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusUnavailable
}

// HoldsDonation reports whether an application in status s carries a donation date.
func (s ApplicationStatus) HoldsDonation() bool {
	return s == StatusPending || s == StatusCompleted
}

// ParseStatus converts user input into an ApplicationStatus.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseStatus(raw string) (ApplicationStatus, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	for status, candidate := range statusNames {
		if candidate == name {
			return status, nil
		}
	}

	return 0, NewValidationError("status", fmt.Sprintf("unknown status %q (want open, pending, completed or unavailable)", raw))
}

// MarshalText implements encoding.TextMarshaler.
func (s ApplicationStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid application status %d", int(s))
	}

	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *ApplicationStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}

	*s = parsed

	return nil
}

// transitions holds the edges callers may request directly.
// Open -> Unavailable is deliberately absent: only a product withdrawal reaches it.
var transitions = map[ApplicationStatus][]ApplicationStatus{
	StatusOpen:    {StatusPending},
	StatusPending: {StatusOpen, StatusCompleted},
}

// CanTransition reports whether a caller may move an application from one status to another.
func CanTransition(from, to ApplicationStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}

	return false
}
