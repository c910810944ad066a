package agenda

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"turnero/internal/model"
)

// DefaultSlotDuration is used when the doctor has no active availability
// declaring one.
const DefaultSlotDuration = 30

// overturnIDOffset keeps overturn event ids disjoint from appointment ids
// within the same event collection.
const overturnIDOffset = 100000

// Kind tags the category of a calendar event.
type Kind int

const (
	KindAppointment Kind = iota
	KindOverturn
	KindAvailable
	KindBlocked
	KindAbsence
)

func (k Kind) String() string {
	switch k {
	case KindAppointment:
		return "appointment"
	case KindOverturn:
		return "overturn"
	case KindAvailable:
		return "available"
	case KindBlocked:
		return "blocked"
	case KindAbsence:
		return "absence"
	}
	return "unknown"
}

// Resource carries the event payload for the action dispatcher, tagged by
// Kind so handlers never re-derive state from the title or id.
type Resource struct {
	Kind        Kind
	Appointment *model.Appointment
	Overturn    *model.Overturn
	Blocked     *model.BlockedSlot
	Absence     *model.DoctorAbsence
	Status      model.Status
	IsGuest     bool
	SlotDate    string
	SlotHour    string
}

// Event is one entry on the calendar.
type Event struct {
	ID       string
	Title    string
	Start    time.Time
	End      time.Time
	AllDay   bool
	Resource Resource
}

// Snapshot is the immutable input to Materialize: the window plus everything
// fetched for it. Any source change produces a new snapshot and a full
// recomputation of the derived event set.
type Snapshot struct {
	DoctorID       int64
	View           View
	Window         DateRange
	Appointments   []model.Appointment
	Overturns      []model.Overturn
	Blocked        []model.BlockedSlot
	Absences       []model.DoctorAbsence
	Holidays       map[string]struct{}
	Availabilities []model.DoctorAvailability
	Candidates     []model.SlotCandidate
}

// SlotDuration returns the minimum slot duration across the doctor's active
// availabilities, or DefaultSlotDuration when none declare one.
func (s *Snapshot) SlotDuration() int {
	duration := 0
	for _, av := range s.Availabilities {
		if !av.Active || av.SlotDuration <= 0 {
			continue
		}
		if duration == 0 || av.SlotDuration < duration {
			duration = av.SlotDuration
		}
	}
	if duration == 0 {
		return DefaultSlotDuration
	}
	return duration
}

// Materialize converts the snapshot into the full calendar event set:
// appointments, overturns, available slots, blocked slots and absences, in
// that order. It is a pure function; identical snapshots yield identical
// event sets.
func Materialize(s *Snapshot) []Event {
	duration := time.Duration(s.SlotDuration()) * time.Minute
	events := make([]Event, 0, len(s.Appointments)+len(s.Overturns)+len(s.Candidates)+len(s.Blocked))

	for i := range s.Appointments {
		a := &s.Appointments[i]
		start := slotTime(a.Date, a.Hour)
		events = append(events, Event{
			ID:    strconv.FormatInt(a.ID, 10),
			Title: appointmentTitle(a.DisplayName(), a.IsGuest),
			Start: start,
			End:   start.Add(duration),
			Resource: Resource{
				Kind:        KindAppointment,
				Appointment: a,
				Status:      a.Status,
				IsGuest:     a.IsGuest,
				SlotDate:    a.Date,
				SlotHour:    shortHour(a.Hour),
			},
		})
	}

	for i := range s.Overturns {
		o := &s.Overturns[i]
		start := slotTime(o.Date, o.Hour)
		events = append(events, Event{
			ID:    strconv.FormatInt(o.ID+overturnIDOffset, 10),
			Title: appointmentTitle(o.DisplayName(), o.IsGuest),
			Start: start,
			End:   start.Add(duration),
			Resource: Resource{
				Kind:     KindOverturn,
				Overturn: o,
				Status:   o.Status,
				IsGuest:  o.IsGuest,
				SlotDate: o.Date,
				SlotHour: shortHour(o.Hour),
			},
		})
	}

	occupied := BuildOccupied(s.Appointments, s.Overturns, s.Blocked)
	for i, c := range FilterAvailable(s.Candidates, occupied, s.Holidays, s.Absences) {
		hour := shortHour(c.Hour)
		start := slotTime(c.Date, c.Hour)
		events = append(events, Event{
			ID:    fmt.Sprintf("available-%s-%s-%d", c.Date, hour, i),
			Title: hour + " - Disponible",
			Start: start,
			End:   start.Add(duration),
			Resource: Resource{
				Kind:     KindAvailable,
				SlotDate: c.Date,
				SlotHour: hour,
			},
		})
	}

	for i := range s.Blocked {
		b := &s.Blocked[i]
		start := slotTime(b.Date, b.Hour)
		events = append(events, Event{
			ID:    fmt.Sprintf("blocked-%d", b.ID),
			Title: "🔒 " + model.BlockReasonLabel(b.Reason),
			Start: start,
			End:   start.Add(duration),
			Resource: Resource{
				Kind:     KindBlocked,
				Blocked:  b,
				SlotDate: b.Date,
				SlotHour: shortHour(b.Hour),
			},
		})
	}

	events = append(events, materializeAbsences(s)...)
	return events
}

// materializeAbsences expands each absence overlapping the window into one
// event per covered date, clipped to the window.
func materializeAbsences(s *Snapshot) []Event {
	var events []Event
	windowStart, windowEnd := s.Window.FromString(), s.Window.ToString()

	for i := range s.Absences {
		a := &s.Absences[i]
		if a.StartDate > windowEnd || a.EndDate < windowStart {
			continue
		}
		label := model.AbsenceTypeLabel(a.Type)
		for day := s.Window.From; !day.After(s.Window.To); day = day.AddDate(0, 0, 1) {
			date := day.Format("2006-01-02")
			if !a.CoversDate(date) {
				continue
			}
			ev := Event{
				ID: fmt.Sprintf("absence-%d-%s", a.ID, date),
				Resource: Resource{
					Kind:     KindAbsence,
					Absence:  a,
					SlotDate: date,
				},
			}
			if a.FullDay() {
				ev.Title = "Ausencia: " + label
				ev.Start = day
				ev.End = day.AddDate(0, 0, 1)
				ev.AllDay = true
			} else {
				ev.Title = fmt.Sprintf("Ausencia: %s (%s - %s)", label, a.StartTime, a.EndTime)
				ev.Start = slotTime(date, a.StartTime)
				ev.End = slotTime(date, a.EndTime)
			}
			events = append(events, ev)
		}
	}
	return events
}

func appointmentTitle(name string, isGuest bool) string {
	if isGuest {
		return "🆕 " + name
	}
	return name
}

// slotTime anchors the date at noon before applying the hour, so parsing a
// bare date can never roll over to the previous day across timezones.
func slotTime(date, hour string) time.Time {
	d, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return time.Time{}
	}
	noon := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.Local)
	minutes, err := minutesOfDay(hour)
	if err != nil {
		return noon
	}
	return time.Date(noon.Year(), noon.Month(), noon.Day(), minutes/60, minutes%60, 0, 0, time.Local)
}

func shortHour(hour string) string {
	if len(hour) > 5 {
		return hour[:5]
	}
	return hour
}

func minutesOfDay(hour string) (int, error) {
	parts := strings.Split(hour, ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("invalid time format: %s", hour)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour: %w", err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute: %w", err)
	}
	return h*60 + m, nil
}

func formatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
