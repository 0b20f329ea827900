package status

import "fmt"

// ValidTransitions maps each status to the statuses a manual transition may
// target from it. APPROVED is terminal and has no outgoing transitions.
var ValidTransitions = map[Status][]Status{
	Draft:     {Active},
	Active:    {Completed, Warning, Overdue},
	Warning:   {Completed, Overdue},
	Overdue:   {Completed},
	Completed: {Approved},
	Approved:  {},
}

// ValidateTransition checks that requested is reachable from current.
// current must be the freshly derived status, never the possibly-stale
// persisted one: a request for COMPLETED against a document stored as ACTIVE
// but derived OVERDUE is validated against OVERDUE's rule set.
func ValidateTransition(current, requested Status) error {
	for _, allowed := range ValidTransitions[current] {
		if allowed == requested {
			return nil
		}
	}
	return &TransitionError{From: current, To: requested}
}

// TransitionError reports a transition request whose target is not reachable
// from the derived current status.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("status: invalid transition from %q to %q; valid targets: %v",
		e.From, e.To, ValidTransitions[e.From])
}

// AuthorizationError reports an actor lacking the role or ownership a
// transition requires.
type AuthorizationError struct {
	ActorID string
	Target  Status
	Reason  string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("status: actor %q may not transition to %q: %s", e.ActorID, e.Target, e.Reason)
}
