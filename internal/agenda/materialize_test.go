package agenda

import (
	"reflect"
	"strings"
	"testing"

	"turnero/internal/model"
)

func weekSnapshot(t *testing.T) *Snapshot {
	t.Helper()
	return &Snapshot{
		DoctorID: 1,
		View:     ViewWeek,
		Window:   DateRange{From: mustDate(t, "2024-06-10"), To: mustDate(t, "2024-06-16")},
		Appointments: []model.Appointment{
			{ID: 7, DoctorID: 1, Date: "2024-06-10", Hour: "09:30:00", Status: model.StatusPending, Origin: model.OriginSecretary, PatientName: "Laura Núñez"},
		},
		Overturns: []model.Overturn{
			{ID: 3, DoctorID: 1, Date: "2024-06-10", Hour: "12:00:00", Status: model.StatusWaiting, IsGuest: true, GuestName: "Pedro Gómez"},
		},
		Blocked: []model.BlockedSlot{
			{ID: 9, DoctorID: 1, Date: "2024-06-10", Hour: "10:00:00", Reason: model.BlockReasonMeeting},
		},
		Holidays: map[string]struct{}{},
		Availabilities: []model.DoctorAvailability{
			{DoctorID: 1, Weekday: 1, StartTime: "09:00", EndTime: "11:00", SlotDuration: 30, Active: true},
		},
		Candidates: candidatesAt("2024-06-10", "09:00", "09:30", "10:00", "10:30"),
	}
}

func eventsByKind(events []Event, kind Kind) []Event {
	var out []Event
	for _, e := range events {
		if e.Resource.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func TestMaterialize(t *testing.T) {
	events := Materialize(weekSnapshot(t))

	appts := eventsByKind(events, KindAppointment)
	if len(appts) != 1 {
		t.Fatalf("expected 1 appointment event, got %d", len(appts))
	}
	if appts[0].ID != "7" || appts[0].Title != "Laura Núñez" {
		t.Errorf("unexpected appointment event: %+v", appts[0])
	}
	if appts[0].Start.Hour() != 9 || appts[0].Start.Minute() != 30 {
		t.Errorf("unexpected appointment start: %v", appts[0].Start)
	}
	if got := appts[0].End.Sub(appts[0].Start).Minutes(); got != 30 {
		t.Errorf("expected 30 minute duration, got %v", got)
	}

	overturns := eventsByKind(events, KindOverturn)
	if len(overturns) != 1 {
		t.Fatalf("expected 1 overturn event, got %d", len(overturns))
	}
	if overturns[0].ID != "100003" {
		t.Errorf("overturn id should be offset, got %s", overturns[0].ID)
	}
	if !strings.HasPrefix(overturns[0].Title, "🆕 ") {
		t.Errorf("guest overturn should carry the guest marker, got %q", overturns[0].Title)
	}

	available := eventsByKind(events, KindAvailable)
	if len(available) != 2 {
		t.Fatalf("expected 2 available events, got %d", len(available))
	}
	if available[0].Title != "09:00 - Disponible" {
		t.Errorf("unexpected available title %q", available[0].Title)
	}
	if available[0].ID != "available-2024-06-10-09:00-0" || available[1].ID != "available-2024-06-10-10:30-1" {
		t.Errorf("unexpected available ids: %s, %s", available[0].ID, available[1].ID)
	}

	blocked := eventsByKind(events, KindBlocked)
	if len(blocked) != 1 || blocked[0].ID != "blocked-9" {
		t.Fatalf("unexpected blocked events: %+v", blocked)
	}
	if blocked[0].Title != "🔒 Reunión" {
		t.Errorf("unexpected blocked title %q", blocked[0].Title)
	}
}

func TestMaterializeIdempotent(t *testing.T) {
	s := weekSnapshot(t)
	first := Materialize(s)
	second := Materialize(s)
	if !reflect.DeepEqual(first, second) {
		t.Error("recomputing from an identical snapshot must yield identical events")
	}
}

func TestMaterializeAbsences(t *testing.T) {
	s := &Snapshot{
		View:     ViewWeek,
		Window:   DateRange{From: mustDate(t, "2024-06-10"), To: mustDate(t, "2024-06-16")},
		Holidays: map[string]struct{}{},
		Absences: []model.DoctorAbsence{
			// Overlaps the window tail only; one event per covered date.
			{ID: 4, StartDate: "2024-06-15", EndDate: "2024-06-20", Type: model.AbsenceTypeVacation},
			// Partial absence on a single date.
			{ID: 5, StartDate: "2024-06-11", EndDate: "2024-06-11", Type: model.AbsenceTypeCongress, StartTime: "13:00", EndTime: "17:00"},
			// Entirely outside the window.
			{ID: 6, StartDate: "2024-07-01", EndDate: "2024-07-05", Type: model.AbsenceTypeVacation},
		},
	}

	events := eventsByKind(Materialize(s), KindAbsence)
	if len(events) != 3 {
		t.Fatalf("expected 3 absence events, got %d", len(events))
	}

	fullDays := 0
	for _, e := range events {
		if e.Resource.Absence.ID == 6 {
			t.Error("absence outside the window must not be materialized")
		}
		if e.AllDay {
			fullDays++
			if e.Title != "Ausencia: Vacaciones" {
				t.Errorf("unexpected full-day title %q", e.Title)
			}
		} else {
			if e.Title != "Ausencia: Congreso (13:00 - 17:00)" {
				t.Errorf("unexpected partial title %q", e.Title)
			}
			if e.Start.Hour() != 13 || e.End.Hour() != 17 {
				t.Errorf("unexpected partial window: %v - %v", e.Start, e.End)
			}
		}
	}
	if fullDays != 2 {
		t.Errorf("expected 2 full-day events (15th and 16th), got %d", fullDays)
	}
}

func TestSlotDuration(t *testing.T) {
	tests := []struct {
		name           string
		availabilities []model.DoctorAvailability
		expected       int
	}{
		{"default when empty", nil, 30},
		{
			"minimum across active blocks",
			[]model.DoctorAvailability{
				{SlotDuration: 45, Active: true},
				{SlotDuration: 20, Active: true},
				{SlotDuration: 10, Active: false},
			},
			20,
		},
		{
			"inactive blocks ignored",
			[]model.DoctorAvailability{{SlotDuration: 15, Active: false}},
			30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Snapshot{Availabilities: tt.availabilities}
			if got := s.SlotDuration(); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestStyleFor(t *testing.T) {
	appt := Event{Resource: Resource{
		Kind:        KindAppointment,
		Status:      model.StatusWaiting,
		Appointment: &model.Appointment{Origin: model.OriginWebGuest},
	}}
	st := StyleFor(appt, true)
	if st.Background != colorGreen {
		t.Errorf("waiting appointment should be green, got %s", st.Background)
	}
	if st.BorderLeft != colorPurple {
		t.Errorf("web-guest origin should border purple, got %s", st.BorderLeft)
	}

	blocked := StyleFor(Event{Resource: Resource{Kind: KindBlocked}}, true)
	if blocked.Background != colorRed || !blocked.Dashed {
		t.Errorf("unexpected blocked style: %+v", blocked)
	}

	dimmed := StyleFor(Event{Resource: Resource{Kind: KindAvailable}}, false)
	if !dimmed.Dimmed {
		t.Error("read-only available slot should be dimmed")
	}

	overturn := StyleFor(Event{Resource: Resource{Kind: KindOverturn, Status: model.StatusCompleted}}, true)
	if overturn.Background != colorOrange {
		t.Errorf("overturn background is always orange, got %s", overturn.Background)
	}
}
