package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"turnero/internal/events"
	"turnero/internal/metrics"
	"turnero/internal/model"
)

// ChangeAppointmentStatus applies a state-machine transition and returns the
// confirmation message for the new status. Moving a patient to the waiting
// room is only allowed on the day of the appointment.
func (s *AgendaService) ChangeAppointmentStatus(ctx context.Context, id int64, target model.Status) (string, error) {
	key := fmt.Sprintf("appointment:%d", id)
	if err := s.acquire(key); err != nil {
		return "", err
	}
	defer s.release(key)

	appt, err := s.store.GetAppointment(ctx, id)
	if err != nil {
		return "", notFound(err)
	}
	if !model.CanTransition(appt.Status, target) {
		return "", fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, target)
	}
	if target == model.StatusWaiting && appt.Date != s.now().Format("2006-01-02") {
		return "", fmt.Errorf("%w: waiting room only on the appointment day", ErrInvalidTransition)
	}

	if err := s.store.UpdateAppointmentStatus(ctx, id, target); err != nil {
		return "", notFound(err)
	}
	metrics.IncStatusTransition(string(target))
	s.logger.Info().Int64("appointment_id", id).
		Str("from", string(appt.Status)).Str("to", string(target)).
		Msg("appointment status changed")
	s.bus.Publish(events.Event{
		Type:     events.TypeStatusChanged,
		DoctorID: appt.DoctorID,
		Date:     appt.Date,
		Hour:     appt.Hour,
		Payload:  target,
	})
	return model.ConfirmationMessages[target], nil
}

// ChangeOverturnStatus applies a transition to an overturn. Overturns follow
// the same state machine as appointments.
func (s *AgendaService) ChangeOverturnStatus(ctx context.Context, id int64, target model.Status) (string, error) {
	key := fmt.Sprintf("overturn:%d", id)
	if err := s.acquire(key); err != nil {
		return "", err
	}
	defer s.release(key)

	ot, err := s.store.GetOverturn(ctx, id)
	if err != nil {
		return "", notFound(err)
	}
	if !model.CanTransition(ot.Status, target) {
		return "", fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, ot.Status, target)
	}
	if target == model.StatusWaiting && ot.Date != s.now().Format("2006-01-02") {
		return "", fmt.Errorf("%w: waiting room only on the appointment day", ErrInvalidTransition)
	}

	if err := s.store.UpdateOverturnStatus(ctx, id, target); err != nil {
		return "", notFound(err)
	}
	metrics.IncStatusTransition(string(target))
	s.logger.Info().Int64("overturn_id", id).
		Str("from", string(ot.Status)).Str("to", string(target)).
		Msg("overturn status changed")
	s.bus.Publish(events.Event{
		Type:     events.TypeStatusChanged,
		DoctorID: ot.DoctorID,
		Date:     ot.Date,
		Hour:     ot.Hour,
		Payload:  target,
	})
	return model.ConfirmationMessages[target], nil
}

// CreateAppointment books a regular slot. The slot must hold no active
// appointment and no block. An empty status is derived from the origin.
func (s *AgendaService) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	a.Hour = normalizeHour(a.Hour)
	if a.Status == "" {
		a.Status = initialStatus(a.Origin)
	}

	if err := s.checkSlotFree(ctx, a.DoctorID, a.Date, a.Hour); err != nil {
		return err
	}
	if err := s.store.CreateAppointment(ctx, a); err != nil {
		return err
	}
	metrics.IncAppointmentCreated(string(a.Origin))
	s.logger.Info().Int64("appointment_id", a.ID).Int64("doctor_id", a.DoctorID).
		Str("date", a.Date).Str("hour", a.Hour).Str("origin", string(a.Origin)).
		Msg("appointment created")
	s.bus.Publish(events.Event{
		Type:     events.TypeAppointmentCreated,
		DoctorID: a.DoctorID,
		Date:     a.Date,
		Hour:     a.Hour,
		Payload:  a,
	})
	return nil
}

// CreateGuestAppointment books a slot for a patient without an account. The
// guest gets a reference code to reclaim the booking later.
func (s *AgendaService) CreateGuestAppointment(ctx context.Context, a *model.Appointment) error {
	a.IsGuest = true
	a.Origin = model.OriginWebGuest
	a.Status = model.StatusPending
	a.GuestReference = strings.ToUpper(uuid.NewString()[:8])
	return s.CreateAppointment(ctx, a)
}

// ConvertGuestToPatient attaches a registered patient to a guest appointment.
func (s *AgendaService) ConvertGuestToPatient(ctx context.Context, id, patientID int64, name, dni string) error {
	key := fmt.Sprintf("appointment:%d", id)
	if err := s.acquire(key); err != nil {
		return err
	}
	defer s.release(key)

	if err := s.store.ConvertGuest(ctx, id, patientID, name, dni); err != nil {
		return notFound(err)
	}
	s.logger.Info().Int64("appointment_id", id).Int64("patient_id", patientID).
		Msg("guest converted to patient")
	return nil
}

// CreateOverturn squeezes in an extra appointment. Overturns deliberately
// skip the slot-occupancy check; they exist to double-book a slot.
func (s *AgendaService) CreateOverturn(ctx context.Context, o *model.Overturn) error {
	o.Hour = normalizeHour(o.Hour)
	if o.Status == "" {
		o.Status = model.StatusAssignedBySecretary
	}
	if err := s.store.CreateOverturn(ctx, o); err != nil {
		return err
	}
	metrics.IncAppointmentCreated(string(model.OriginOverturn))
	s.logger.Info().Int64("overturn_id", o.ID).Int64("doctor_id", o.DoctorID).
		Str("date", o.Date).Str("hour", o.Hour).
		Msg("overturn created")
	s.bus.Publish(events.Event{
		Type:     events.TypeOverturnCreated,
		DoctorID: o.DoctorID,
		Date:     o.Date,
		Hour:     o.Hour,
		Payload:  o,
	})
	return nil
}

// BlockSlot marks a slot unavailable. A slot with an active appointment or an
// existing block cannot be blocked.
func (s *AgendaService) BlockSlot(ctx context.Context, b *model.BlockedSlot) error {
	b.Hour = normalizeHour(b.Hour)
	if b.Reason == "" {
		b.Reason = model.BlockReasonOther
	}

	if err := s.checkSlotFree(ctx, b.DoctorID, b.Date, b.Hour); err != nil {
		return err
	}
	if err := s.store.CreateBlockedSlot(ctx, b); err != nil {
		return err
	}
	metrics.IncSlotBlocked()
	s.logger.Info().Int64("doctor_id", b.DoctorID).Str("date", b.Date).
		Str("hour", b.Hour).Str("reason", b.Reason).
		Msg("slot blocked")
	s.bus.Publish(events.Event{
		Type:     events.TypeSlotBlocked,
		DoctorID: b.DoctorID,
		Date:     b.Date,
		Hour:     b.Hour,
		Payload:  b,
	})
	return nil
}

// UnblockSlot removes a block, returning the slot to the available pool.
func (s *AgendaService) UnblockSlot(ctx context.Context, doctorID int64, date, hour string) error {
	hour = normalizeHour(hour)
	if err := s.store.DeleteBlockedSlot(ctx, doctorID, date, hour); err != nil {
		return notFound(err)
	}
	metrics.IncSlotUnblocked()
	s.logger.Info().Int64("doctor_id", doctorID).Str("date", date).
		Str("hour", hour).Msg("slot unblocked")
	s.bus.Publish(events.Event{
		Type:     events.TypeSlotUnblocked,
		DoctorID: doctorID,
		Date:     date,
		Hour:     hour,
	})
	return nil
}

// CreateAbsence records a doctor absence. A zero start or end time makes it a
// full-day absence.
func (s *AgendaService) CreateAbsence(ctx context.Context, a *model.DoctorAbsence) error {
	if a.EndDate == "" {
		a.EndDate = a.StartDate
	}
	if a.EndDate < a.StartDate {
		return fmt.Errorf("absence end date %s before start date %s", a.EndDate, a.StartDate)
	}
	if a.Type == "" {
		a.Type = model.AbsenceTypePersonal
	}
	if err := s.store.CreateAbsence(ctx, a); err != nil {
		return err
	}
	metrics.IncAbsenceCreated()
	s.logger.Info().Int64("doctor_id", a.DoctorID).
		Str("from", a.StartDate).Str("to", a.EndDate).Str("type", a.Type).
		Msg("absence created")
	s.bus.Publish(events.Event{
		Type:     events.TypeAbsenceCreated,
		DoctorID: a.DoctorID,
		Date:     a.StartDate,
		Payload:  a,
	})
	return nil
}

// checkSlotFree rejects the slot if it holds an active appointment or a block.
func (s *AgendaService) checkSlotFree(ctx context.Context, doctorID int64, date, hour string) error {
	taken, err := s.store.HasActiveAppointment(ctx, doctorID, date, hour)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlotTaken
	}
	if _, err := s.store.GetBlockedSlot(ctx, doctorID, date, hour); err == nil {
		return ErrSlotTaken
	} else if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return nil
}

func initialStatus(origin model.Origin) model.Status {
	switch origin {
	case model.OriginWebPatient:
		return model.StatusRequestedByPatient
	case model.OriginSecretary:
		return model.StatusAssignedBySecretary
	default:
		return model.StatusPending
	}
}

// normalizeHour pads HH:MM to the stored HH:MM:SS form.
func normalizeHour(hour string) string {
	if len(hour) == 5 {
		return hour + ":00"
	}
	return hour
}
