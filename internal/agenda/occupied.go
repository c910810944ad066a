package agenda

import (
	"turnero/internal/model"
)

// OccupiedSet holds slot keys currently unavailable due to appointments,
// overturns or blocks. Keys are "{date}-{HH:MM}".
type OccupiedSet map[string]struct{}

// SlotKey builds the lookup key for a slot. Hours stored with seconds
// ("09:30:00") are truncated to minute precision.
func SlotKey(date, hour string) string {
	if len(hour) > 5 {
		hour = hour[:5]
	}
	return date + "-" + hour
}

// Has reports whether the slot is occupied.
func (s OccupiedSet) Has(date, hour string) bool {
	_, ok := s[SlotKey(date, hour)]
	return ok
}

// BuildOccupied reduces the three occupying collections into a single lookup
// set. Cancelled appointments and cancelled overturns free their slot;
// blocked slots always occupy theirs. The set is always rebuilt from full
// inputs, never patched.
func BuildOccupied(appointments []model.Appointment, overturns []model.Overturn, blocked []model.BlockedSlot) OccupiedSet {
	occupied := make(OccupiedSet, len(appointments)+len(overturns)+len(blocked))
	for _, a := range appointments {
		if model.IsCancelled(a.Status) {
			continue
		}
		occupied[SlotKey(a.Date, a.Hour)] = struct{}{}
	}
	for _, o := range overturns {
		if model.IsCancelled(o.Status) {
			continue
		}
		occupied[SlotKey(o.Date, o.Hour)] = struct{}{}
	}
	for _, b := range blocked {
		occupied[SlotKey(b.Date, b.Hour)] = struct{}{}
	}
	return occupied
}
