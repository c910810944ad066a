package agenda

import "turnero/internal/model"

// Style is the deterministic rendering metadata for an event. Background is
// keyed by status (or category), BorderLeft by origin; the two dimensions are
// independent and rendered simultaneously.
type Style struct {
	Background string `json:"background"`
	BorderLeft string `json:"border_left,omitempty"`
	Dashed     bool   `json:"dashed,omitempty"`
	Dimmed     bool   `json:"dimmed,omitempty"`
}

const (
	colorYellow = "#fef08a"
	colorGreen  = "#86efac"
	colorBlue   = "#93c5fd"
	colorGray   = "#d1d5db"
	colorRed    = "#fca5a5"
	colorOrange = "#fdba74"
	colorWhite  = "#ffffff"
	colorPurple = "#c4b5fd"
)

var statusBackgrounds = map[model.Status]string{
	model.StatusPending:              colorYellow,
	model.StatusRequestedByPatient:   colorYellow,
	model.StatusAssignedBySecretary:  colorYellow,
	model.StatusWaiting:              colorGreen,
	model.StatusAttending:            colorBlue,
	model.StatusCompleted:            colorGray,
	model.StatusCancelledByPatient:   colorRed,
	model.StatusCancelledBySecretary: colorRed,
}

var originBorders = map[model.Origin]string{
	model.OriginWebPatient: colorGreen,
	model.OriginWebGuest:   colorPurple,
	model.OriginSecretary:  colorBlue,
	model.OriginOverturn:   colorOrange,
}

// StyleFor returns the style for an event. interactive dims available slots
// when the calendar is read-only.
func StyleFor(e Event, interactive bool) Style {
	switch e.Resource.Kind {
	case KindAbsence:
		return Style{Background: colorOrange}
	case KindBlocked:
		return Style{Background: colorRed, Dashed: true}
	case KindAvailable:
		if !interactive {
			return Style{Background: colorGray, Dimmed: true}
		}
		return Style{Background: colorWhite}
	case KindOverturn:
		return Style{Background: colorOrange, BorderLeft: originBorders[model.OriginOverturn]}
	default:
		st := Style{Background: statusBackgrounds[e.Resource.Status]}
		if a := e.Resource.Appointment; a != nil {
			st.BorderLeft = originBorders[a.Origin]
		}
		return st
	}
}
