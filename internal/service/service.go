// Package service coordinates the agenda use cases: snapshot assembly,
// status transitions and slot mutations.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"turnero/internal/agenda"
	"turnero/internal/events"
	"turnero/internal/model"
)

var (
	// ErrSlotTaken means the slot already holds an active appointment or block.
	ErrSlotTaken = errors.New("slot already taken")
	// ErrInvalidTransition means the status change is not allowed by the
	// appointment state machine.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrMutationInFlight means another mutation on the same record has not
	// finished yet.
	ErrMutationInFlight = errors.New("mutation already in flight")
	// ErrNotFound means the record does not exist.
	ErrNotFound = errors.New("not found")
)

// Store is the persistence surface the service needs.
type Store interface {
	ListAppointments(ctx context.Context, doctorID int64, from, to string) ([]model.Appointment, error)
	GetAppointment(ctx context.Context, id int64) (*model.Appointment, error)
	CreateAppointment(ctx context.Context, a *model.Appointment) error
	UpdateAppointmentStatus(ctx context.Context, id int64, status model.Status) error
	ConvertGuest(ctx context.Context, id, patientID int64, name, dni string) error
	HasActiveAppointment(ctx context.Context, doctorID int64, date, hour string) (bool, error)

	ListOverturns(ctx context.Context, doctorID int64, from, to string) ([]model.Overturn, error)
	GetOverturn(ctx context.Context, id int64) (*model.Overturn, error)
	CreateOverturn(ctx context.Context, o *model.Overturn) error
	UpdateOverturnStatus(ctx context.Context, id int64, status model.Status) error

	ListBlockedSlots(ctx context.Context, doctorID int64, from, to string) ([]model.BlockedSlot, error)
	GetBlockedSlot(ctx context.Context, doctorID int64, date, hour string) (*model.BlockedSlot, error)
	CreateBlockedSlot(ctx context.Context, b *model.BlockedSlot) error
	DeleteBlockedSlot(ctx context.Context, doctorID int64, date, hour string) error

	ListAbsences(ctx context.Context, doctorID int64, from, to string) ([]model.DoctorAbsence, error)
	CreateAbsence(ctx context.Context, a *model.DoctorAbsence) error

	ListAvailabilities(ctx context.Context, doctorID int64) ([]model.DoctorAvailability, error)
}

// HolidaySource answers which dates in a range are holidays.
type HolidaySource interface {
	DateSet(ctx context.Context, from, to string) (map[string]struct{}, error)
}

// AgendaService implements the agenda use cases on top of the store.
type AgendaService struct {
	store        Store
	holidays     HolidaySource
	bus          *events.Bus
	logger       zerolog.Logger
	monthPadding int

	// now is swapped in tests to pin the same-day waiting-room check.
	now func() time.Time

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewAgendaService wires the service. monthPadding widens appointment queries
// on the month view so week-view bleed-over at month edges is covered.
func NewAgendaService(store Store, holidays HolidaySource, bus *events.Bus, monthPadding int, logger zerolog.Logger) *AgendaService {
	if monthPadding <= 0 {
		monthPadding = 7
	}
	return &AgendaService{
		store:        store,
		holidays:     holidays,
		bus:          bus,
		logger:       logger.With().Str("component", "service").Logger(),
		monthPadding: monthPadding,
		now:          time.Now,
		inflight:     make(map[string]struct{}),
	}
}

// Snapshot fetches everything the calendar needs for a doctor, view and
// anchor date. The fetches run concurrently; appointment and overturn queries
// use the padded window on the month view, everything else the exact window.
func (s *AgendaService) Snapshot(ctx context.Context, doctorID int64, view agenda.View, anchor time.Time) (*agenda.Snapshot, error) {
	window := agenda.Window(view, anchor)
	eventWindow := window
	if view == agenda.ViewMonth {
		eventWindow = window.Pad(s.monthPadding)
	}

	snap := &agenda.Snapshot{DoctorID: doctorID, View: view, Window: window}
	errs := make([]error, 6)

	var wg sync.WaitGroup
	wg.Add(6)
	go func() {
		defer wg.Done()
		snap.Appointments, errs[0] = s.store.ListAppointments(ctx, doctorID, eventWindow.FromString(), eventWindow.ToString())
	}()
	go func() {
		defer wg.Done()
		snap.Overturns, errs[1] = s.store.ListOverturns(ctx, doctorID, eventWindow.FromString(), eventWindow.ToString())
	}()
	go func() {
		defer wg.Done()
		snap.Blocked, errs[2] = s.store.ListBlockedSlots(ctx, doctorID, window.FromString(), window.ToString())
	}()
	go func() {
		defer wg.Done()
		snap.Absences, errs[3] = s.store.ListAbsences(ctx, doctorID, window.FromString(), window.ToString())
	}()
	go func() {
		defer wg.Done()
		snap.Holidays, errs[4] = s.holidays.DateSet(ctx, window.FromString(), window.ToString())
	}()
	go func() {
		defer wg.Done()
		snap.Availabilities, errs[5] = s.store.ListAvailabilities(ctx, doctorID)
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("snapshot fetch: %w", err)
		}
	}

	snap.Candidates = agenda.GenerateCandidates(window, snap.Availabilities)
	return snap, nil
}

// Events returns the materialized calendar for a doctor, view and anchor.
func (s *AgendaService) Events(ctx context.Context, doctorID int64, view agenda.View, anchor time.Time) ([]agenda.Event, error) {
	snap, err := s.Snapshot(ctx, doctorID, view, anchor)
	if err != nil {
		return nil, err
	}
	return agenda.Materialize(snap), nil
}

// AvailableSlots returns the free bookable slots for a doctor in the window.
func (s *AgendaService) AvailableSlots(ctx context.Context, doctorID int64, view agenda.View, anchor time.Time) ([]model.SlotCandidate, error) {
	snap, err := s.Snapshot(ctx, doctorID, view, anchor)
	if err != nil {
		return nil, err
	}
	occupied := agenda.BuildOccupied(snap.Appointments, snap.Overturns, snap.Blocked)
	return agenda.FilterAvailable(snap.Candidates, occupied, snap.Holidays, snap.Absences), nil
}

// acquire marks a record as having a mutation in flight.
func (s *AgendaService) acquire(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[key]; busy {
		return ErrMutationInFlight
	}
	s.inflight[key] = struct{}{}
	return nil
}

func (s *AgendaService) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, key)
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
