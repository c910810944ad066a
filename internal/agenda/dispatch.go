package agenda

import "turnero/internal/model"

// Mode carries the calendar interaction flags.
type Mode struct {
	ReadOnly  bool
	BlockOnly bool
}

// ActionKind enumerates what a click resolves to.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionOpenDetails
	ActionOpenSlotChooser
	ActionOpenBlockDialog
	ActionOpenUnblockDialog
	ActionOpenCreateDialog
)

// Action is the dispatcher's verdict plus the payload the dialog needs.
type Action struct {
	Kind        ActionKind
	Date        string
	Hour        string
	Appointment *model.Appointment
	Overturn    *model.Overturn
	Blocked     *model.BlockedSlot
}

// DispatchEvent routes a click on a calendar event. It is a pure decision
// table over (event kind, status, mode); all state lives with the caller.
func DispatchEvent(e Event, mode Mode) Action {
	switch e.Resource.Kind {
	case KindAbsence:
		return Action{Kind: ActionNone}

	case KindAvailable:
		return dispatchFreeSlot(e.Resource.SlotDate, e.Resource.SlotHour, mode)

	case KindBlocked:
		if mode.ReadOnly {
			return Action{Kind: ActionNone}
		}
		return Action{
			Kind:    ActionOpenUnblockDialog,
			Date:    e.Resource.SlotDate,
			Hour:    e.Resource.SlotHour,
			Blocked: e.Resource.Blocked,
		}

	case KindAppointment:
		// A cancelled appointment's slot is free again; clicking it behaves
		// like clicking the available slot underneath.
		if model.IsCancelled(e.Resource.Status) && !mode.ReadOnly {
			return dispatchFreeSlot(e.Resource.SlotDate, e.Resource.SlotHour, mode)
		}
		return Action{Kind: ActionOpenDetails, Appointment: e.Resource.Appointment, Date: e.Resource.SlotDate, Hour: e.Resource.SlotHour}

	case KindOverturn:
		return Action{Kind: ActionOpenDetails, Overturn: e.Resource.Overturn, Date: e.Resource.SlotDate, Hour: e.Resource.SlotHour}
	}
	return Action{Kind: ActionNone}
}

// DispatchSlotSelect routes a click or drag-select on an empty slot. Month
// view has no slot granularity, so selection there is a no-op.
func DispatchSlotSelect(view View, date, hour string, mode Mode) Action {
	if view == ViewMonth {
		return Action{Kind: ActionNone}
	}
	if mode.ReadOnly || mode.BlockOnly {
		return Action{Kind: ActionNone}
	}
	return Action{Kind: ActionOpenCreateDialog, Date: date, Hour: hour}
}

func dispatchFreeSlot(date, hour string, mode Mode) Action {
	if mode.ReadOnly {
		return Action{Kind: ActionNone}
	}
	if mode.BlockOnly {
		return Action{Kind: ActionOpenBlockDialog, Date: date, Hour: hour}
	}
	return Action{Kind: ActionOpenSlotChooser, Date: date, Hour: hour}
}
