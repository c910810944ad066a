package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"turnero/internal/model"
)

// ListBlockedSlots returns a doctor's blocked slots within [from, to].
func (s *Store) ListBlockedSlots(ctx context.Context, doctorID int64, from, to string) ([]model.BlockedSlot, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT id, doctor_id, date, hour, reason, notes, created_at
		FROM blocked_slots
		WHERE doctor_id = ? AND date >= ? AND date <= ?
		ORDER BY date, hour`,
		doctorID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocked []model.BlockedSlot
	for rows.Next() {
		var b model.BlockedSlot
		var notes sql.NullString
		if err := rows.Scan(&b.ID, &b.DoctorID, &b.Date, &b.Hour, &b.Reason, &notes, &b.CreatedAt); err != nil {
			return nil, err
		}
		b.Notes = notes.String
		blocked = append(blocked, b)
	}
	return blocked, rows.Err()
}

// GetBlockedSlot returns the block for a slot, or sql.ErrNoRows.
func (s *Store) GetBlockedSlot(ctx context.Context, doctorID int64, date, hour string) (*model.BlockedSlot, error) {
	var b model.BlockedSlot
	var notes sql.NullString
	err := s.QueryRowContext(ctx, `
		SELECT id, doctor_id, date, hour, reason, notes, created_at
		FROM blocked_slots
		WHERE doctor_id = ? AND date = ? AND hour = ?`,
		doctorID, date, hour,
	).Scan(&b.ID, &b.DoctorID, &b.Date, &b.Hour, &b.Reason, &notes, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	b.Notes = notes.String
	return &b, nil
}

// CreateBlockedSlot inserts the block; the unique index on
// (doctor_id, date, hour) rejects double blocking.
func (s *Store) CreateBlockedSlot(ctx context.Context, b *model.BlockedSlot) error {
	now := time.Now()
	res, err := s.ExecContext(ctx, `
		INSERT INTO blocked_slots (doctor_id, date, hour, reason, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		b.DoctorID, b.Date, b.Hour, b.Reason, b.Notes, now,
	)
	if err != nil {
		return fmt.Errorf("insert blocked slot: %w", err)
	}
	b.ID, err = res.LastInsertId()
	b.CreatedAt = now
	return err
}

// DeleteBlockedSlot removes the block for a slot.
func (s *Store) DeleteBlockedSlot(ctx context.Context, doctorID int64, date, hour string) error {
	res, err := s.ExecContext(ctx,
		"DELETE FROM blocked_slots WHERE doctor_id = ? AND date = ? AND hour = ?",
		doctorID, date, hour,
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

// ListAbsences returns a doctor's absences overlapping [from, to].
func (s *Store) ListAbsences(ctx context.Context, doctorID int64, from, to string) ([]model.DoctorAbsence, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT id, doctor_id, start_date, end_date, type, start_time, end_time, created_at
		FROM doctor_absences
		WHERE doctor_id = ? AND start_date <= ? AND end_date >= ?
		ORDER BY start_date`,
		doctorID, to, from,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var absences []model.DoctorAbsence
	for rows.Next() {
		var a model.DoctorAbsence
		var startTime, endTime sql.NullString
		if err := rows.Scan(&a.ID, &a.DoctorID, &a.StartDate, &a.EndDate, &a.Type, &startTime, &endTime, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.StartTime = startTime.String
		a.EndTime = endTime.String
		absences = append(absences, a)
	}
	return absences, rows.Err()
}

// CreateAbsence inserts the absence and sets its id.
func (s *Store) CreateAbsence(ctx context.Context, a *model.DoctorAbsence) error {
	now := time.Now()
	res, err := s.ExecContext(ctx, `
		INSERT INTO doctor_absences (doctor_id, start_date, end_date, type, start_time, end_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.DoctorID, a.StartDate, a.EndDate, a.Type, a.StartTime, a.EndTime, now,
	)
	if err != nil {
		return fmt.Errorf("insert absence: %w", err)
	}
	a.ID, err = res.LastInsertId()
	a.CreatedAt = now
	return err
}

// ListHolidays returns the holidays within [from, to].
func (s *Store) ListHolidays(ctx context.Context, from, to string) ([]model.Holiday, error) {
	rows, err := s.QueryContext(ctx,
		"SELECT date, name FROM holidays WHERE date >= ? AND date <= ? ORDER BY date",
		from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []model.Holiday
	for rows.Next() {
		var h model.Holiday
		var name sql.NullString
		if err := rows.Scan(&h.Date, &name); err != nil {
			return nil, err
		}
		h.Name = name.String
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// UpsertHoliday creates or renames a holiday.
func (s *Store) UpsertHoliday(ctx context.Context, h *model.Holiday) error {
	_, err := s.ExecContext(ctx, `
		INSERT INTO holidays (date, name) VALUES (?, ?)
		ON CONFLICT(date) DO UPDATE SET name = excluded.name`,
		h.Date, h.Name,
	)
	return err
}

// ListAvailabilities returns all of a doctor's weekly availability blocks.
func (s *Store) ListAvailabilities(ctx context.Context, doctorID int64) ([]model.DoctorAvailability, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT id, doctor_id, weekday, start_time, end_time, slot_duration, active
		FROM doctor_availabilities
		WHERE doctor_id = ?
		ORDER BY weekday, start_time`,
		doctorID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var availabilities []model.DoctorAvailability
	for rows.Next() {
		var av model.DoctorAvailability
		if err := rows.Scan(&av.ID, &av.DoctorID, &av.Weekday, &av.StartTime, &av.EndTime, &av.SlotDuration, &av.Active); err != nil {
			return nil, err
		}
		availabilities = append(availabilities, av)
	}
	return availabilities, rows.Err()
}

// CreateAvailability inserts a weekly availability block.
func (s *Store) CreateAvailability(ctx context.Context, av *model.DoctorAvailability) error {
	res, err := s.ExecContext(ctx, `
		INSERT INTO doctor_availabilities (doctor_id, weekday, start_time, end_time, slot_duration, active)
		VALUES (?, ?, ?, ?, ?, ?)`,
		av.DoctorID, av.Weekday, av.StartTime, av.EndTime, av.SlotDuration, av.Active,
	)
	if err != nil {
		return fmt.Errorf("insert availability: %w", err)
	}
	av.ID, err = res.LastInsertId()
	return err
}
