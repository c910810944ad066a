package model

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"pending to waiting", StatusPending, StatusWaiting, true},
		{"requested to waiting", StatusRequestedByPatient, StatusWaiting, true},
		{"assigned to waiting", StatusAssignedBySecretary, StatusWaiting, true},
		{"waiting to attending", StatusWaiting, StatusAttending, true},
		{"attending to completed", StatusAttending, StatusCompleted, true},
		{"pending cancel by patient", StatusPending, StatusCancelledByPatient, true},
		{"waiting cancel by secretary", StatusWaiting, StatusCancelledBySecretary, true},
		{"attending cannot cancel", StatusAttending, StatusCancelledBySecretary, false},
		{"completed is terminal", StatusCompleted, StatusWaiting, false},
		{"cancelled is terminal", StatusCancelledByPatient, StatusPending, false},
		{"no skipping to attending", StatusPending, StatusAttending, false},
		{"no skipping to completed", StatusWaiting, StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.allowed {
				t.Errorf("CanTransition(%s, %s): expected %v, got %v", tt.from, tt.to, tt.allowed, got)
			}
		})
	}
}

// The transitions offered for a status must be exactly the declared table:
// CanTransition never permits anything outside AllowedTransitions.
func TestTransitionTableConformance(t *testing.T) {
	all := []Status{
		StatusPending, StatusRequestedByPatient, StatusAssignedBySecretary,
		StatusWaiting, StatusAttending, StatusCompleted,
		StatusCancelledByPatient, StatusCancelledBySecretary,
	}

	for _, from := range all {
		declared := map[Status]bool{}
		for _, to := range AllowedTransitions[from] {
			declared[to] = true
		}
		for _, to := range all {
			if CanTransition(from, to) != declared[to] {
				t.Errorf("%s -> %s disagrees with the declared table", from, to)
			}
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusCancelledByPatient, StatusCancelledBySecretary} {
		if !IsTerminal(s) {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []Status{StatusPending, StatusWaiting, StatusAttending} {
		if IsTerminal(s) {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestConfirmationMessages(t *testing.T) {
	for from, targets := range AllowedTransitions {
		for _, to := range targets {
			if _, ok := ConfirmationMessages[to]; !ok {
				t.Errorf("reachable status %s (from %s) has no confirmation message", to, from)
			}
		}
	}
}
