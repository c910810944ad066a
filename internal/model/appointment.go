package model

import "time"

// Origin identifies who booked the appointment.
type Origin string

const (
	OriginWebPatient Origin = "WEB_PATIENT"
	OriginWebGuest   Origin = "WEB_GUEST"
	OriginSecretary  Origin = "SECRETARY"
	OriginOverturn   Origin = "OVERTURN"
)

// Appointment is a booked slot on a doctor's agenda.
// Date is "2006-01-02", Hour is "15:04:05".
type Appointment struct {
	ID                int64     `json:"id"`
	DoctorID          int64     `json:"doctor_id"`
	Date              string    `json:"date"`
	Hour              string    `json:"hour"`
	Status            Status    `json:"status"`
	Origin            Origin    `json:"origin"`
	IsGuest           bool      `json:"is_guest"`
	PatientID         int64     `json:"patient_id,omitempty"`
	PatientName       string    `json:"patient_name,omitempty"`
	PatientDNI        string    `json:"patient_dni,omitempty"`
	GuestName         string    `json:"guest_name,omitempty"`
	GuestPhone        string    `json:"guest_phone,omitempty"`
	GuestReference    string    `json:"guest_reference,omitempty"`
	HealthInsurance   string    `json:"health_insurance,omitempty"`
	AffiliationNumber string    `json:"affiliation_number,omitempty"`
	ConsultationType  string    `json:"consultation_type,omitempty"`
	ReminderSent      bool      `json:"reminder_sent"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// DisplayName returns the name shown on the calendar.
func (a *Appointment) DisplayName() string {
	if a.IsGuest && a.GuestName != "" {
		return a.GuestName
	}
	return a.PatientName
}

// Overturn is an appointment squeezed in outside the regular slot grid
// (sobreturno). Same shape and lifecycle as Appointment.
type Overturn struct {
	ID                int64     `json:"id"`
	DoctorID          int64     `json:"doctor_id"`
	Date              string    `json:"date"`
	Hour              string    `json:"hour"`
	Status            Status    `json:"status"`
	IsGuest           bool      `json:"is_guest"`
	PatientID         int64     `json:"patient_id,omitempty"`
	PatientName       string    `json:"patient_name,omitempty"`
	PatientDNI        string    `json:"patient_dni,omitempty"`
	GuestName         string    `json:"guest_name,omitempty"`
	GuestPhone        string    `json:"guest_phone,omitempty"`
	HealthInsurance   string    `json:"health_insurance,omitempty"`
	AffiliationNumber string    `json:"affiliation_number,omitempty"`
	ConsultationType  string    `json:"consultation_type,omitempty"`
	ReminderSent      bool      `json:"reminder_sent"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// DisplayName returns the name shown on the calendar.
func (o *Overturn) DisplayName() string {
	if o.IsGuest && o.GuestName != "" {
		return o.GuestName
	}
	return o.PatientName
}
