package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"turnero/internal/model"
)

const appointmentColumns = `id, doctor_id, date, hour, status, origin, is_guest,
	patient_id, patient_name, patient_dni, guest_name, guest_phone, guest_reference,
	health_insurance, affiliation_number, consultation_type, reminder_sent,
	created_at, updated_at`

func scanAppointment(row interface{ Scan(...any) error }) (*model.Appointment, error) {
	var a model.Appointment
	var patientID sql.NullInt64
	var patientName, patientDNI, guestName, guestPhone, guestRef sql.NullString
	var insurance, affiliation, consultation sql.NullString
	err := row.Scan(
		&a.ID, &a.DoctorID, &a.Date, &a.Hour, &a.Status, &a.Origin, &a.IsGuest,
		&patientID, &patientName, &patientDNI, &guestName, &guestPhone, &guestRef,
		&insurance, &affiliation, &consultation, &a.ReminderSent,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.PatientID = patientID.Int64
	a.PatientName = patientName.String
	a.PatientDNI = patientDNI.String
	a.GuestName = guestName.String
	a.GuestPhone = guestPhone.String
	a.GuestReference = guestRef.String
	a.HealthInsurance = insurance.String
	a.AffiliationNumber = affiliation.String
	a.ConsultationType = consultation.String
	return &a, nil
}

// ListAppointments returns a doctor's appointments within [from, to]
// (YYYY-MM-DD, inclusive), cancelled included.
func (s *Store) ListAppointments(ctx context.Context, doctorID int64, from, to string) ([]model.Appointment, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE doctor_id = ? AND date >= ? AND date <= ?
		ORDER BY date, hour`,
		doctorID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appointments []model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, *a)
	}
	return appointments, rows.Err()
}

// GetAppointment returns a single appointment by id.
func (s *Store) GetAppointment(ctx context.Context, id int64) (*model.Appointment, error) {
	row := s.QueryRowContext(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments WHERE id = ?`, id)
	return scanAppointment(row)
}

// CreateAppointment inserts the appointment and sets its id.
func (s *Store) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	now := time.Now()
	res, err := s.ExecContext(ctx, `
		INSERT INTO appointments (
			doctor_id, date, hour, status, origin, is_guest,
			patient_id, patient_name, patient_dni, guest_name, guest_phone, guest_reference,
			health_insurance, affiliation_number, consultation_type, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.DoctorID, a.Date, a.Hour, a.Status, a.Origin, a.IsGuest,
		a.PatientID, a.PatientName, a.PatientDNI, a.GuestName, a.GuestPhone, a.GuestReference,
		a.HealthInsurance, a.AffiliationNumber, a.ConsultationType, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	a.ID, err = res.LastInsertId()
	a.CreatedAt, a.UpdatedAt = now, now
	return err
}

// UpdateAppointmentStatus sets the appointment's status.
func (s *Store) UpdateAppointmentStatus(ctx context.Context, id int64, status model.Status) error {
	res, err := s.ExecContext(ctx,
		"UPDATE appointments SET status = ?, updated_at = ? WHERE id = ?",
		status, time.Now(), id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}

// ConvertGuest attaches a registered patient to a guest appointment.
func (s *Store) ConvertGuest(ctx context.Context, id, patientID int64, name, dni string) error {
	res, err := s.ExecContext(ctx, `
		UPDATE appointments
		SET is_guest = 0, patient_id = ?, patient_name = ?, patient_dni = ?, updated_at = ?
		WHERE id = ? AND is_guest = 1`,
		patientID, name, dni, time.Now(), id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}

// HasActiveAppointment reports whether a non-cancelled appointment exists for
// the slot.
func (s *Store) HasActiveAppointment(ctx context.Context, doctorID int64, date, hour string) (bool, error) {
	var count int
	err := s.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM appointments
		WHERE doctor_id = ? AND date = ? AND hour = ?
		AND status NOT IN ('CANCELLED_BY_PATIENT', 'CANCELLED_BY_SECRETARY')`,
		doctorID, date, hour,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkReminderSent flags the appointment so it is not reminded twice.
func (s *Store) MarkReminderSent(ctx context.Context, id int64) error {
	_, err := s.ExecContext(ctx,
		"UPDATE appointments SET reminder_sent = 1 WHERE id = ?", id)
	return err
}

// ListAppointmentsForDate returns every doctor's appointments on a date with
// the given statuses and no reminder sent yet.
func (s *Store) ListAppointmentsForDate(ctx context.Context, date string, statuses []model.Status) ([]model.Appointment, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE date = ? AND reminder_sent = 0 AND status IN (?` +
		placeholders(len(statuses)-1) + `) ORDER BY doctor_id, hour`

	args := make([]any, 0, len(statuses)+1)
	args = append(args, date)
	for _, st := range statuses {
		args = append(args, st)
	}

	rows, err := s.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appointments []model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, *a)
	}
	return appointments, rows.Err()
}

// DeleteOldAppointments removes terminal appointments older than retention.
func (s *Store) DeleteOldAppointments(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).Format("2006-01-02")
	res, err := s.ExecContext(ctx, `
		DELETE FROM appointments
		WHERE date < ?
		AND status IN ('COMPLETED', 'CANCELLED_BY_PATIENT', 'CANCELLED_BY_SECRETARY')`,
		cutoff,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func placeholders(n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += ", ?"
	}
	return out
}
