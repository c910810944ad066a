package agenda

import (
	"testing"

	"turnero/internal/model"
)

func TestDispatchEvent(t *testing.T) {
	availableEvent := Event{Resource: Resource{Kind: KindAvailable, SlotDate: "2024-06-10", SlotHour: "09:00"}}
	blockedEvent := Event{Resource: Resource{
		Kind:     KindBlocked,
		SlotDate: "2024-06-10",
		SlotHour: "10:00",
		Blocked:  &model.BlockedSlot{ID: 4, Reason: model.BlockReasonMeeting},
	}}
	cancelledEvent := Event{Resource: Resource{
		Kind:        KindAppointment,
		Status:      model.StatusCancelledByPatient,
		SlotDate:    "2024-06-10",
		SlotHour:    "11:00",
		Appointment: &model.Appointment{ID: 2, Status: model.StatusCancelledByPatient},
	}}
	pendingEvent := Event{Resource: Resource{
		Kind:        KindAppointment,
		Status:      model.StatusPending,
		SlotDate:    "2024-06-10",
		SlotHour:    "11:30",
		Appointment: &model.Appointment{ID: 5, Status: model.StatusPending},
	}}
	overturnEvent := Event{Resource: Resource{
		Kind:     KindOverturn,
		Status:   model.StatusWaiting,
		Overturn: &model.Overturn{ID: 8},
	}}
	absenceEvent := Event{Resource: Resource{Kind: KindAbsence}}

	tests := []struct {
		name     string
		event    Event
		mode     Mode
		expected ActionKind
	}{
		{"absence is inert", absenceEvent, Mode{}, ActionNone},
		{"absence is inert even read-only", absenceEvent, Mode{ReadOnly: true}, ActionNone},
		{"available opens slot chooser", availableEvent, Mode{}, ActionOpenSlotChooser},
		{"available in block-only mode opens block dialog directly", availableEvent, Mode{BlockOnly: true}, ActionOpenBlockDialog},
		{"available read-only is inert", availableEvent, Mode{ReadOnly: true}, ActionNone},
		{"blocked opens unblock dialog", blockedEvent, Mode{}, ActionOpenUnblockDialog},
		{"blocked read-only is inert", blockedEvent, Mode{ReadOnly: true}, ActionNone},
		{"cancelled appointment behaves as available", cancelledEvent, Mode{}, ActionOpenSlotChooser},
		{"cancelled appointment in block-only mode", cancelledEvent, Mode{BlockOnly: true}, ActionOpenBlockDialog},
		{"cancelled appointment read-only opens details", cancelledEvent, Mode{ReadOnly: true}, ActionOpenDetails},
		{"pending appointment opens details", pendingEvent, Mode{}, ActionOpenDetails},
		{"pending appointment opens details read-only", pendingEvent, Mode{ReadOnly: true}, ActionOpenDetails},
		{"overturn opens details", overturnEvent, Mode{}, ActionOpenDetails},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DispatchEvent(tt.event, tt.mode)
			if got.Kind != tt.expected {
				t.Errorf("expected action %v, got %v", tt.expected, got.Kind)
			}
		})
	}
}

func TestDispatchEventPayloads(t *testing.T) {
	blocked := &model.BlockedSlot{ID: 4, DoctorID: 1, Date: "2024-06-10", Hour: "10:00", Reason: model.BlockReasonPersonal}
	e := Event{Resource: Resource{Kind: KindBlocked, SlotDate: "2024-06-10", SlotHour: "10:00", Blocked: blocked}}

	got := DispatchEvent(e, Mode{})
	if got.Blocked != blocked {
		t.Error("unblock dialog must be pre-filled with the blocked-slot data")
	}
	if got.Date != "2024-06-10" || got.Hour != "10:00" {
		t.Errorf("unexpected slot payload: %s %s", got.Date, got.Hour)
	}
}

func TestDispatchSlotSelect(t *testing.T) {
	tests := []struct {
		name     string
		view     View
		mode     Mode
		expected ActionKind
	}{
		{"month view has no slot granularity", ViewMonth, Mode{}, ActionNone},
		{"day view opens create dialog", ViewDay, Mode{}, ActionOpenCreateDialog},
		{"week view opens create dialog", ViewWeek, Mode{}, ActionOpenCreateDialog},
		{"read-only is inert", ViewWeek, Mode{ReadOnly: true}, ActionNone},
		{"block-only is inert", ViewWeek, Mode{BlockOnly: true}, ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DispatchSlotSelect(tt.view, "2024-06-10", "09:00", tt.mode)
			if got.Kind != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got.Kind)
			}
		})
	}
}

func TestApply(t *testing.T) {
	state := Idle()

	state = Apply(state, Action{Kind: ActionOpenSlotChooser, Date: "2024-06-10", Hour: "09:00"})
	if state.Mode != ModeChoosingSlotAction || state.Date != "2024-06-10" {
		t.Fatalf("unexpected state after chooser: %+v", state)
	}

	// A no-op click keeps the open dialog.
	state = Apply(state, Action{Kind: ActionNone})
	if state.Mode != ModeChoosingSlotAction {
		t.Error("no-op must not close the open dialog")
	}

	state = Apply(state, Action{Kind: ActionOpenBlockDialog, Date: "2024-06-10", Hour: "09:00"})
	if state.Mode != ModeBlocking {
		t.Errorf("expected blocking mode, got %v", state.Mode)
	}

	appt := &model.Appointment{ID: 1}
	state = Apply(state, Action{Kind: ActionOpenDetails, Appointment: appt})
	if state.Mode != ModeViewingDetails || state.Appointment != appt {
		t.Errorf("unexpected details state: %+v", state)
	}
}
