package agenda

import (
	"testing"

	"turnero/internal/model"
)

func candidatesAt(date string, hours ...string) []model.SlotCandidate {
	out := make([]model.SlotCandidate, 0, len(hours))
	for _, h := range hours {
		out = append(out, model.SlotCandidate{Date: date, Hour: h})
	}
	return out
}

func availableHours(t *testing.T, got []model.SlotCandidate) []string {
	t.Helper()
	hours := make([]string, 0, len(got))
	for _, c := range got {
		hours = append(hours, c.Hour)
	}
	return hours
}

func TestFilterAvailable(t *testing.T) {
	morning := candidatesAt("2024-06-10", "09:00", "09:30", "10:00", "10:30", "11:00", "11:30")

	tests := []struct {
		name         string
		candidates   []model.SlotCandidate
		appointments []model.Appointment
		overturns    []model.Overturn
		blocked      []model.BlockedSlot
		holidays     map[string]struct{}
		absences     []model.DoctorAbsence
		expected     []string
	}{
		{
			name:         "pending appointment occupies its slot",
			candidates:   morning,
			appointments: []model.Appointment{{Date: "2024-06-10", Hour: "09:30:00", Status: model.StatusPending}},
			expected:     []string{"09:00", "10:00", "10:30", "11:00", "11:30"},
		},
		{
			name:         "cancelled appointment frees its slot",
			candidates:   morning,
			appointments: []model.Appointment{{Date: "2024-06-10", Hour: "09:30:00", Status: model.StatusCancelledByPatient}},
			expected:     []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"},
		},
		{
			name:       "full day absence empties the date",
			candidates: morning,
			absences: []model.DoctorAbsence{
				{StartDate: "2024-06-10", EndDate: "2024-06-10", Type: model.AbsenceTypeVacation},
			},
			expected: []string{},
		},
		{
			name:       "partial absence boundary is half open",
			candidates: candidatesAt("2024-06-10", "12:30", "13:00", "13:30", "14:00"),
			absences: []model.DoctorAbsence{
				{StartDate: "2024-06-10", EndDate: "2024-06-10", Type: model.AbsenceTypePersonal, StartTime: "13:00", EndTime: "14:00"},
			},
			expected: []string{"12:30", "14:00"},
		},
		{
			name:       "holiday blocks the whole date",
			candidates: morning,
			holidays:   map[string]struct{}{"2024-06-10": {}},
			expected:   []string{},
		},
		{
			name:       "blocked slot occupies regardless of appointments",
			candidates: morning,
			blocked:    []model.BlockedSlot{{Date: "2024-06-10", Hour: "10:00:00", Reason: model.BlockReasonMeeting}},
			expected:   []string{"09:00", "09:30", "10:30", "11:00", "11:30"},
		},
		{
			name:       "cancelled overturn frees its slot",
			candidates: morning,
			overturns:  []model.Overturn{{Date: "2024-06-10", Hour: "11:00:00", Status: model.StatusCancelledBySecretary}},
			expected:   []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"},
		},
		{
			name:       "active overturn occupies its slot",
			candidates: morning,
			overturns:  []model.Overturn{{Date: "2024-06-10", Hour: "11:00:00", Status: model.StatusWaiting}},
			expected:   []string{"09:00", "09:30", "10:00", "10:30", "11:30"},
		},
		{
			name:       "partial absence outside its date range has no effect",
			candidates: morning,
			absences: []model.DoctorAbsence{
				{StartDate: "2024-06-12", EndDate: "2024-06-14", Type: model.AbsenceTypeCongress, StartTime: "09:00", EndTime: "12:00"},
			},
			expected: []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			occupied := BuildOccupied(tt.appointments, tt.overturns, tt.blocked)
			holidays := tt.holidays
			if holidays == nil {
				holidays = map[string]struct{}{}
			}
			got := FilterAvailable(tt.candidates, occupied, holidays, tt.absences)

			hours := availableHours(t, got)
			if len(hours) != len(tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, hours)
			}
			for i := range hours {
				if hours[i] != tt.expected[i] {
					t.Errorf("slot %d: expected %s, got %s", i, tt.expected[i], hours[i])
				}
			}
		})
	}
}

// Every emitted available slot must be a candidate and must not be occupied,
// on a holiday, or inside an absence window.
func TestAvailableSubsetProperty(t *testing.T) {
	candidates := candidatesAt("2024-06-10", "09:00", "09:30", "10:00", "10:30", "11:00", "11:30", "13:00", "13:30", "14:00")
	appointments := []model.Appointment{
		{Date: "2024-06-10", Hour: "09:00:00", Status: model.StatusPending},
		{Date: "2024-06-10", Hour: "10:00:00", Status: model.StatusCancelledBySecretary},
	}
	overturns := []model.Overturn{{Date: "2024-06-10", Hour: "09:30:00", Status: model.StatusWaiting}}
	blocked := []model.BlockedSlot{{Date: "2024-06-10", Hour: "11:30:00"}}
	absences := []model.DoctorAbsence{
		{StartDate: "2024-06-10", EndDate: "2024-06-10", StartTime: "13:00", EndTime: "14:00"},
	}

	occupied := BuildOccupied(appointments, overturns, blocked)
	got := FilterAvailable(candidates, occupied, map[string]struct{}{}, absences)

	candidateSet := map[string]struct{}{}
	for _, c := range candidates {
		candidateSet[SlotKey(c.Date, c.Hour)] = struct{}{}
	}
	for _, c := range got {
		key := SlotKey(c.Date, c.Hour)
		if _, ok := candidateSet[key]; !ok {
			t.Errorf("available slot %s is not a candidate", key)
		}
		if _, ok := occupied[key]; ok {
			t.Errorf("available slot %s is occupied", key)
		}
		if coveredByAbsence(c, absences) {
			t.Errorf("available slot %s is inside an absence", key)
		}
	}
}

func TestBuildOccupiedDisjointness(t *testing.T) {
	appointments := []model.Appointment{
		{Date: "2024-06-10", Hour: "09:00:00", Status: model.StatusPending},
		{Date: "2024-06-10", Hour: "09:30:00", Status: model.StatusCancelledByPatient},
	}
	overturns := []model.Overturn{{Date: "2024-06-10", Hour: "10:00:00", Status: model.StatusWaiting}}
	blocked := []model.BlockedSlot{{Date: "2024-06-10", Hour: "10:30:00"}}

	occupied := BuildOccupied(appointments, overturns, blocked)

	if len(occupied) != 3 {
		t.Fatalf("expected 3 occupied slots, got %d", len(occupied))
	}
	for _, key := range []string{"2024-06-10-09:00", "2024-06-10-10:00", "2024-06-10-10:30"} {
		if _, ok := occupied[key]; !ok {
			t.Errorf("missing occupied key %s", key)
		}
	}
	if _, ok := occupied["2024-06-10-09:30"]; ok {
		t.Error("cancelled appointment should not occupy its slot")
	}
}

func TestGenerateCandidates(t *testing.T) {
	// 2024-06-10 is a Monday.
	rng := DateRange{From: mustDate(t, "2024-06-10"), To: mustDate(t, "2024-06-11")}
	availabilities := []model.DoctorAvailability{
		{Weekday: 1, StartTime: "09:00", EndTime: "12:00", SlotDuration: 30, Active: true},
		{Weekday: 2, StartTime: "14:00", EndTime: "16:00", SlotDuration: 60, Active: true},
		{Weekday: 1, StartTime: "15:00", EndTime: "18:00", SlotDuration: 30, Active: false},
	}

	got := GenerateCandidates(rng, availabilities)

	if len(got) != 8 {
		t.Fatalf("expected 8 candidates, got %d: %v", len(got), got)
	}
	if got[0].Date != "2024-06-10" || got[0].Hour != "09:00" {
		t.Errorf("unexpected first candidate: %v", got[0])
	}
	if got[6].Date != "2024-06-11" || got[6].Hour != "14:00" {
		t.Errorf("unexpected tuesday candidate: %v", got[6])
	}
}
