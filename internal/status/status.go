// Package status holds the document status clock: the pure derivation of a
// document's operational status and time-based facts from its tracking window,
// plus the transition table governing manual status changes.
package status

import "fmt"

// Status is a document's lifecycle status. The persisted value may be stale;
// Derive computes the authoritative one from the clock.
type Status string

const (
	Draft     Status = "DRAFT"
	Active    Status = "ACTIVE"
	Warning   Status = "WARNING"
	Overdue   Status = "OVERDUE"
	Completed Status = "COMPLETED"
	Approved  Status = "APPROVED"
)

// All lists every known status in lifecycle order.
var All = []Status{Draft, Active, Warning, Overdue, Completed, Approved}

// IsValid reports whether s is a known status value.
func (s Status) IsValid() bool {
	switch s {
	case Draft, Active, Warning, Overdue, Completed, Approved:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether s is sticky: once persisted, the clock never
// overrides it.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Approved
}

func (s Status) String() string { return string(s) }

// Parse converts a raw string into a Status, returning a *ValidationError for
// anything outside the closed set.
func Parse(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", &ValidationError{Value: raw}
	}
	return s, nil
}

// ValidationError reports a malformed or unknown status value.
type ValidationError struct {
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("status: unknown status %q; valid values: %v", e.Value, All)
}
