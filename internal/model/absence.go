package model

import "time"

// Absence types.
const (
	AbsenceTypeVacation = "vacation"
	AbsenceTypeCongress = "congress"
	AbsenceTypeSickness = "sickness"
	AbsenceTypePersonal = "personal"
)

var absenceTypeLabels = map[string]string{
	AbsenceTypeVacation: "Vacaciones",
	AbsenceTypeCongress: "Congreso",
	AbsenceTypeSickness: "Enfermedad",
	AbsenceTypePersonal: "Motivo personal",
}

// AbsenceTypeLabel returns the display label for an absence type.
func AbsenceTypeLabel(t string) string {
	if l, ok := absenceTypeLabels[t]; ok {
		return l
	}
	return t
}

// DoctorAbsence is a doctor-level unavailability window spanning one or more
// dates. With empty StartTime/EndTime it is a full-day absence covering every
// date in [StartDate, EndDate]; otherwise it blocks only [StartTime, EndTime)
// on each covered date.
type DoctorAbsence struct {
	ID        int64     `json:"id"`
	DoctorID  int64     `json:"doctor_id"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Type      string    `json:"type"`
	StartTime string    `json:"start_time,omitempty"`
	EndTime   string    `json:"end_time,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FullDay reports whether the absence covers whole days.
func (a *DoctorAbsence) FullDay() bool {
	return a.StartTime == "" || a.EndTime == ""
}

// CoversDate reports whether date (YYYY-MM-DD) falls inside the absence range.
func (a *DoctorAbsence) CoversDate(date string) bool {
	return a.StartDate <= date && date <= a.EndDate
}
