package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"turnero/internal/model"
)

const overturnColumns = `id, doctor_id, date, hour, status, is_guest,
	patient_id, patient_name, patient_dni, guest_name, guest_phone,
	health_insurance, affiliation_number, consultation_type, reminder_sent,
	created_at, updated_at`

func scanOverturn(row interface{ Scan(...any) error }) (*model.Overturn, error) {
	var o model.Overturn
	var patientID sql.NullInt64
	var patientName, patientDNI, guestName, guestPhone sql.NullString
	var insurance, affiliation, consultation sql.NullString
	err := row.Scan(
		&o.ID, &o.DoctorID, &o.Date, &o.Hour, &o.Status, &o.IsGuest,
		&patientID, &patientName, &patientDNI, &guestName, &guestPhone,
		&insurance, &affiliation, &consultation, &o.ReminderSent,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.PatientID = patientID.Int64
	o.PatientName = patientName.String
	o.PatientDNI = patientDNI.String
	o.GuestName = guestName.String
	o.GuestPhone = guestPhone.String
	o.HealthInsurance = insurance.String
	o.AffiliationNumber = affiliation.String
	o.ConsultationType = consultation.String
	return &o, nil
}

// ListOverturns returns a doctor's overturns within [from, to] inclusive.
func (s *Store) ListOverturns(ctx context.Context, doctorID int64, from, to string) ([]model.Overturn, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT `+overturnColumns+`
		FROM overturns
		WHERE doctor_id = ? AND date >= ? AND date <= ?
		ORDER BY date, hour`,
		doctorID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overturns []model.Overturn
	for rows.Next() {
		o, err := scanOverturn(rows)
		if err != nil {
			return nil, err
		}
		overturns = append(overturns, *o)
	}
	return overturns, rows.Err()
}

// GetOverturn returns a single overturn by id.
func (s *Store) GetOverturn(ctx context.Context, id int64) (*model.Overturn, error) {
	row := s.QueryRowContext(ctx, `
		SELECT `+overturnColumns+`
		FROM overturns WHERE id = ?`, id)
	return scanOverturn(row)
}

// CreateOverturn inserts the overturn and sets its id.
func (s *Store) CreateOverturn(ctx context.Context, o *model.Overturn) error {
	now := time.Now()
	res, err := s.ExecContext(ctx, `
		INSERT INTO overturns (
			doctor_id, date, hour, status, is_guest,
			patient_id, patient_name, patient_dni, guest_name, guest_phone,
			health_insurance, affiliation_number, consultation_type, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.DoctorID, o.Date, o.Hour, o.Status, o.IsGuest,
		o.PatientID, o.PatientName, o.PatientDNI, o.GuestName, o.GuestPhone,
		o.HealthInsurance, o.AffiliationNumber, o.ConsultationType, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert overturn: %w", err)
	}
	o.ID, err = res.LastInsertId()
	o.CreatedAt, o.UpdatedAt = now, now
	return err
}

// UpdateOverturnStatus sets the overturn's status.
func (s *Store) UpdateOverturnStatus(ctx context.Context, id int64, status model.Status) error {
	res, err := s.ExecContext(ctx,
		"UPDATE overturns SET status = ?, updated_at = ? WHERE id = ?",
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
