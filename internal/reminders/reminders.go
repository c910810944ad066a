// Package reminders sends the next-day agenda digest to the clinic managers.
package reminders

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"turnero/internal/metrics"
	"turnero/internal/model"
)

// digestStatuses are the appointment states worth reminding about.
var digestStatuses = []model.Status{
	model.StatusPending,
	model.StatusRequestedByPatient,
	model.StatusAssignedBySecretary,
}

// Store is the persistence surface the scheduler needs.
type Store interface {
	ListAppointmentsForDate(ctx context.Context, date string, statuses []model.Status) ([]model.Appointment, error)
	MarkReminderSent(ctx context.Context, id int64) error
}

// MessageSender delivers a digest message to a chat.
type MessageSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Scheduler runs the daily digest at a fixed local hour.
type Scheduler struct {
	store    Store
	sender   MessageSender
	managers []int64
	hour     int
	limiter  *rate.Limiter
	logger   zerolog.Logger

	mu          sync.Mutex
	lastRunDate string
}

// NewScheduler wires the digest scheduler. Telegram allows roughly 30
// messages per second; one per second is plenty for a manager list.
func NewScheduler(store Store, sender MessageSender, managers []int64, hour int, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		store:    store,
		sender:   sender,
		managers: managers,
		hour:     hour,
		limiter:  rate.NewLimiter(rate.Limit(1), 3),
		logger:   logger.With().Str("component", "reminders").Logger(),
	}
}

// Run checks once a minute whether the digest hour arrived. Blocks until the
// context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info().Int("hour", s.hour).Msg("reminder scheduler started")
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("reminder scheduler stopped")
			return
		case now := <-ticker.C:
			if s.shouldRun(now) {
				if err := s.SendDailyDigest(ctx); err != nil {
					s.logger.Error().Err(err).Msg("daily digest failed")
				}
			}
		}
	}
}

// shouldRun fires at most once per day, at or after the configured hour.
func (s *Scheduler) shouldRun(now time.Time) bool {
	if now.Hour() < s.hour {
		return false
	}
	today := now.Format("2006-01-02")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastRunDate == today {
		return false
	}
	s.lastRunDate = today
	return true
}

// SendDailyDigest sends tomorrow's agenda to every manager and marks the
// included appointments as reminded.
func (s *Scheduler) SendDailyDigest(ctx context.Context) error {
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	appointments, err := s.store.ListAppointmentsForDate(ctx, tomorrow, digestStatuses)
	if err != nil {
		return fmt.Errorf("list appointments for digest: %w", err)
	}
	if len(appointments) == 0 {
		s.logger.Info().Str("date", tomorrow).Msg("no appointments to remind")
		return nil
	}

	text := FormatDigest(tomorrow, appointments)
	sent := 0
	for _, chatID := range s.managers {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
		if err := s.sender.SendMessage(ctx, chatID, text); err != nil {
			metrics.IncReminderFailed()
			s.logger.Error().Err(err).Int64("chat_id", chatID).Msg("digest send failed")
			continue
		}
		metrics.IncReminderSent()
		sent++
	}

	if sent > 0 {
		for _, a := range appointments {
			if err := s.store.MarkReminderSent(ctx, a.ID); err != nil {
				s.logger.Error().Err(err).Int64("appointment_id", a.ID).Msg("mark reminder sent failed")
			}
		}
	}

	s.logger.Info().Str("date", tomorrow).
		Int("appointments", len(appointments)).Int("managers", sent).
		Msg("daily digest sent")
	return nil
}

// FormatDigest renders the agenda for a date, grouped by doctor in the order
// the store returned them (doctor, then hour).
func FormatDigest(date string, appointments []model.Appointment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 Agenda del %s\n", date)

	var doctor int64 = -1
	for i := range appointments {
		a := &appointments[i]
		if a.DoctorID != doctor {
			doctor = a.DoctorID
			fmt.Fprintf(&b, "\nDoctor %d:\n", doctor)
		}
		name := a.DisplayName()
		if name == "" {
			name = "(sin nombre)"
		}
		fmt.Fprintf(&b, "  %s - %s (%s)", shortHour(a.Hour), name, a.Status.Label())
		if a.IsGuest {
			b.WriteString(" 🆕")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func shortHour(hour string) string {
	if len(hour) > 5 {
		return hour[:5]
	}
	return hour
}
