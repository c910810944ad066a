package model

// Status is the lifecycle state of an appointment or overturn.
type Status string

const (
	StatusPending              Status = "PENDING"
	StatusRequestedByPatient   Status = "REQUESTED_BY_PATIENT"
	StatusAssignedBySecretary  Status = "ASSIGNED_BY_SECRETARY"
	StatusWaiting              Status = "WAITING"
	StatusAttending            Status = "ATTENDING"
	StatusCompleted            Status = "COMPLETED"
	StatusCancelledByPatient   Status = "CANCELLED_BY_PATIENT"
	StatusCancelledBySecretary Status = "CANCELLED_BY_SECRETARY"
)

// AllowedTransitions declares the forward transitions offered per status.
// Cancellation is reachable from the pre-waiting and waiting states only;
// COMPLETED and both cancelled states are terminal.
var AllowedTransitions = map[Status][]Status{
	StatusPending:              {StatusWaiting, StatusCancelledByPatient, StatusCancelledBySecretary},
	StatusRequestedByPatient:   {StatusWaiting, StatusCancelledByPatient, StatusCancelledBySecretary},
	StatusAssignedBySecretary:  {StatusWaiting, StatusCancelledByPatient, StatusCancelledBySecretary},
	StatusWaiting:              {StatusAttending, StatusCancelledByPatient, StatusCancelledBySecretary},
	StatusAttending:            {StatusCompleted},
	StatusCompleted:            {},
	StatusCancelledByPatient:   {},
	StatusCancelledBySecretary: {},
}

// CanTransition reports whether from -> to is an allowed transition.
func CanTransition(from, to Status) bool {
	for _, s := range AllowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsCancelled reports whether the status is one of the cancelled states.
func IsCancelled(s Status) bool {
	return s == StatusCancelledByPatient || s == StatusCancelledBySecretary
}

// IsTerminal reports whether no further transitions exist from s.
func IsTerminal(s Status) bool {
	return len(AllowedTransitions[s]) == 0
}

// ConfirmationMessages maps a newly reached status to the message shown to
// the secretary after a successful transition.
var ConfirmationMessages = map[Status]string{
	StatusWaiting:              "El paciente fue marcado en sala de espera.",
	StatusAttending:            "El paciente está siendo atendido.",
	StatusCompleted:            "La consulta fue completada.",
	StatusCancelledByPatient:   "El turno fue cancelado por el paciente.",
	StatusCancelledBySecretary: "El turno fue cancelado por secretaría.",
}

// statusLabels are the short Spanish labels used on the calendar.
var statusLabels = map[Status]string{
	StatusPending:              "Pendiente",
	StatusRequestedByPatient:   "Solicitado",
	StatusAssignedBySecretary:  "Asignado",
	StatusWaiting:              "En espera",
	StatusAttending:            "Atendiendo",
	StatusCompleted:            "Completado",
	StatusCancelledByPatient:   "Cancelado",
	StatusCancelledBySecretary: "Cancelado",
}

// Label returns the display label for a status.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}
