package agenda

import "turnero/internal/model"

// UIMode is the single tagged dialog state of the calendar, replacing a pile
// of independent open/closed booleans. Exactly one mode is active at a time.
type UIMode int

const (
	ModeIdle UIMode = iota
	ModeChoosingSlotAction
	ModeBlocking
	ModeUnblocking
	ModeCreatingAppointment
	ModeViewingDetails
	ModeConfirmingCancel
	ModeCreatingAbsence
)

// UIState is the dialog mode plus its payload.
type UIState struct {
	Mode        UIMode
	Date        string
	Hour        string
	Appointment *model.Appointment
	Overturn    *model.Overturn
	Blocked     *model.BlockedSlot
}

// Idle returns the quiescent state.
func Idle() UIState { return UIState{Mode: ModeIdle} }

// Apply reduces a dispatched action into the next UI state. ActionNone keeps
// the current state so an open dialog survives a stray click.
func Apply(s UIState, a Action) UIState {
	switch a.Kind {
	case ActionOpenDetails:
		return UIState{Mode: ModeViewingDetails, Date: a.Date, Hour: a.Hour, Appointment: a.Appointment, Overturn: a.Overturn}
	case ActionOpenSlotChooser:
		return UIState{Mode: ModeChoosingSlotAction, Date: a.Date, Hour: a.Hour}
	case ActionOpenBlockDialog:
		return UIState{Mode: ModeBlocking, Date: a.Date, Hour: a.Hour}
	case ActionOpenUnblockDialog:
		return UIState{Mode: ModeUnblocking, Date: a.Date, Hour: a.Hour, Blocked: a.Blocked}
	case ActionOpenCreateDialog:
		return UIState{Mode: ModeCreatingAppointment, Date: a.Date, Hour: a.Hour}
	}
	return s
}
