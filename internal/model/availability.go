package model

// Holiday is a clinic-wide non-working date.
type Holiday struct {
	Date string `json:"date"`
	Name string `json:"name,omitempty"`
}

// DoctorAvailability is one weekly working block for a doctor.
// Weekday follows time.Weekday (0 = Sunday). Times are "15:04".
type DoctorAvailability struct {
	ID           int64  `json:"id"`
	DoctorID     int64  `json:"doctor_id"`
	Weekday      int    `json:"weekday"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	SlotDuration int    `json:"slot_duration"`
	Active       bool   `json:"active"`
}

// SlotCandidate is a (date, hour) pair produced from the doctor's weekly
// availability; input to the availability filter, never persisted.
type SlotCandidate struct {
	Date string `json:"date"`
	Hour string `json:"hour"`
}
