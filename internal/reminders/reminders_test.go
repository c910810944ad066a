package reminders

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turnero/internal/model"
)

type fakeStore struct {
	appointments []model.Appointment
	marked       []int64
	err          error
}

func (f *fakeStore) ListAppointmentsForDate(ctx context.Context, date string, statuses []model.Status) ([]model.Appointment, error) {
	return f.appointments, f.err
}

func (f *fakeStore) MarkReminderSent(ctx context.Context, id int64) error {
	f.marked = append(f.marked, id)
	return nil
}

type fakeSender struct {
	sent map[int64][]string
	err  error
}

func newFakeSender() *fakeSender {
	return &fakeSender{sent: make(map[int64][]string)}
}

func (f *fakeSender) SendMessage(ctx context.Context, chatID int64, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent[chatID] = append(f.sent[chatID], text)
	return nil
}

func TestFormatDigest(t *testing.T) {
	appointments := []model.Appointment{
		{ID: 1, DoctorID: 1, Hour: "09:00:00", PatientName: "Laura Núñez", Status: model.StatusAssignedBySecretary},
		{ID: 2, DoctorID: 1, Hour: "09:30:00", GuestName: "Pedro Gómez", IsGuest: true, Status: model.StatusPending},
		{ID: 3, DoctorID: 2, Hour: "10:00:00", PatientName: "Ana Ruiz", Status: model.StatusRequestedByPatient},
	}

	text := FormatDigest("2024-06-11", appointments)
	assert.Contains(t, text, "Agenda del 2024-06-11")
	assert.Contains(t, text, "Doctor 1:")
	assert.Contains(t, text, "Doctor 2:")
	assert.Contains(t, text, "09:00 - Laura Núñez (Asignado)")
	assert.Contains(t, text, "09:30 - Pedro Gómez (Pendiente) 🆕")
	assert.Equal(t, 1, strings.Count(text, "Doctor 1:"), "doctor header should appear once")
}

func TestSendDailyDigest(t *testing.T) {
	store := &fakeStore{appointments: []model.Appointment{
		{ID: 1, DoctorID: 1, Hour: "09:00:00", PatientName: "Laura Núñez", Status: model.StatusPending},
		{ID: 2, DoctorID: 1, Hour: "09:30:00", PatientName: "Ana Ruiz", Status: model.StatusPending},
	}}
	sender := newFakeSender()
	s := NewScheduler(store, sender, []int64{100, 200}, 18, zerolog.Nop())

	require.NoError(t, s.SendDailyDigest(context.Background()))
	assert.Len(t, sender.sent[100], 1)
	assert.Len(t, sender.sent[200], 1)
	assert.ElementsMatch(t, []int64{1, 2}, store.marked)
}

func TestSendDailyDigestEmptyAgenda(t *testing.T) {
	store := &fakeStore{}
	sender := newFakeSender()
	s := NewScheduler(store, sender, []int64{100}, 18, zerolog.Nop())

	require.NoError(t, s.SendDailyDigest(context.Background()))
	assert.Empty(t, sender.sent)
	assert.Empty(t, store.marked)
}

func TestSendDailyDigestSenderFailure(t *testing.T) {
	store := &fakeStore{appointments: []model.Appointment{
		{ID: 1, DoctorID: 1, Hour: "09:00:00", PatientName: "Laura Núñez", Status: model.StatusPending},
	}}
	sender := newFakeSender()
	sender.err = errors.New("telegram down")
	s := NewScheduler(store, sender, []int64{100}, 18, zerolog.Nop())

	require.NoError(t, s.SendDailyDigest(context.Background()))
	assert.Empty(t, store.marked, "appointments stay unmarked when nothing was delivered")
}

func TestShouldRunOncePerDay(t *testing.T) {
	s := NewScheduler(&fakeStore{}, newFakeSender(), nil, 18, zerolog.Nop())

	early := time.Date(2024, 6, 10, 17, 59, 0, 0, time.Local)
	assert.False(t, s.shouldRun(early))

	due := time.Date(2024, 6, 10, 18, 0, 0, 0, time.Local)
	assert.True(t, s.shouldRun(due))
	assert.False(t, s.shouldRun(due.Add(time.Minute)), "second tick same day must not fire")

	nextDay := due.AddDate(0, 0, 1)
	assert.True(t, s.shouldRun(nextDay))
}
