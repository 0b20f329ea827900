package status

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		from Status
		to   Status
		want bool
	}{
		// Valid forward transitions.
		{Draft, Active, true},
		{Active, Completed, true},
		{Active, Warning, true},
		{Active, Overdue, true},
		{Warning, Completed, true},
		{Warning, Overdue, true},
		{Overdue, Completed, true},
		{Completed, Approved, true},

		// Invalid transitions.
		{Draft, Completed, false},
		{Draft, Warning, false},
		{Draft, Overdue, false},
		{Draft, Approved, false},
		{Active, Draft, false},
		{Active, Approved, false},
		{Warning, Active, false},
		{Warning, Approved, false},
		{Overdue, Active, false},
		{Overdue, Approved, false},
		{Completed, Active, false},
		{Completed, Overdue, false},

		// APPROVED is terminal.
		{Approved, Draft, false},
		{Approved, Active, false},
		{Approved, Completed, false},
	}
	for _, tt := range tests {
		err := ValidateTransition(tt.from, tt.to)
		if (err == nil) != tt.want {
			t.Errorf("ValidateTransition(%v, %v) = %v, want allowed=%v", tt.from, tt.to, err, tt.want)
		}
	}
}

func TestValidateTransition_ErrorNamesBothStatuses(t *testing.T) {
	err := ValidateTransition(Draft, Completed)
	if err == nil {
		t.Fatal("expected error for DRAFT -> COMPLETED")
	}
	var te *TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("error type = %T, want *TransitionError", err)
	}
	if te.From != Draft || te.To != Completed {
		t.Errorf("TransitionError = %v -> %v, want DRAFT -> COMPLETED", te.From, te.To)
	}
	msg := err.Error()
	if !strings.Contains(msg, "DRAFT") || !strings.Contains(msg, "COMPLETED") {
		t.Errorf("message %q does not name both statuses", msg)
	}
}

func TestValidTransitions_AllStatusesPresent(t *testing.T) {
	for _, s := range All {
		if _, ok := ValidTransitions[s]; !ok {
			t.Errorf("ValidTransitions missing key %v", s)
		}
	}
	if len(ValidTransitions[Approved]) != 0 {
		t.Errorf("APPROVED should have no outgoing transitions, got %v", ValidTransitions[Approved])
	}
	if len(ValidTransitions[Completed]) != 1 || ValidTransitions[Completed][0] != Approved {
		t.Errorf("COMPLETED should transition only to APPROVED, got %v", ValidTransitions[Completed])
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		raw string
		ok  bool
	}{
		{"DRAFT", true},
		{"ACTIVE", true},
		{"WARNING", true},
		{"OVERDUE", true},
		{"COMPLETED", true},
		{"APPROVED", true},
		{"draft", false},
		{"DONE", false},
		{"", false},
	}
	for _, tt := range tests {
		s, err := Parse(tt.raw)
		if tt.ok {
			if err != nil {
				t.Errorf("Parse(%q) error: %v", tt.raw, err)
			}
			if string(s) != tt.raw {
				t.Errorf("Parse(%q) = %v", tt.raw, s)
			}
			continue
		}
		if err == nil {
			t.Errorf("Parse(%q) succeeded, want ValidationError", tt.raw)
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("Parse(%q) error type = %T, want *ValidationError", tt.raw, err)
		}
	}
}

func TestStatusHelpers(t *testing.T) {
	for _, s := range All {
		if !s.IsValid() {
			t.Errorf("%v.IsValid() = false", s)
		}
	}
	if Status("open").IsValid() {
		t.Error(`Status("open").IsValid() = true`)
	}
	if Draft.IsTerminal() || Active.IsTerminal() || Warning.IsTerminal() || Overdue.IsTerminal() {
		t.Error("volatile status reported terminal")
	}
	if !Completed.IsTerminal() || !Approved.IsTerminal() {
		t.Error("terminal status reported volatile")
	}
}
