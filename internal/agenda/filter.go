package agenda

import (
	"turnero/internal/model"
)

// FilterAvailable removes from candidates every slot that is occupied, falls
// on a holiday, or is covered by an absence. Candidate order is preserved.
//
// Partial absences block the half-open window [StartTime, EndTime): a slot
// exactly at EndTime is available, a slot exactly at StartTime is not.
func FilterAvailable(candidates []model.SlotCandidate, occupied OccupiedSet, holidays map[string]struct{}, absences []model.DoctorAbsence) []model.SlotCandidate {
	available := make([]model.SlotCandidate, 0, len(candidates))
	for _, c := range candidates {
		if occupied.Has(c.Date, c.Hour) {
			continue
		}
		if _, holiday := holidays[c.Date]; holiday {
			continue
		}
		if coveredByAbsence(c, absences) {
			continue
		}
		available = append(available, c)
	}
	return available
}

func coveredByAbsence(c model.SlotCandidate, absences []model.DoctorAbsence) bool {
	hour := c.Hour
	if len(hour) > 5 {
		hour = hour[:5]
	}
	for _, a := range absences {
		if !a.CoversDate(c.Date) {
			continue
		}
		if a.FullDay() {
			return true
		}
		if a.StartTime <= hour && hour < a.EndTime {
			return true
		}
	}
	return false
}

// GenerateCandidates produces the slot grid for a date range from the
// doctor's weekly availability blocks. Inactive blocks are skipped; a block
// with a non-positive slot duration falls back to the default.
func GenerateCandidates(rng DateRange, availabilities []model.DoctorAvailability) []model.SlotCandidate {
	var candidates []model.SlotCandidate
	for day := rng.From; !day.After(rng.To); day = day.AddDate(0, 0, 1) {
		date := day.Format("2006-01-02")
		for _, av := range availabilities {
			if !av.Active || av.Weekday != int(day.Weekday()) {
				continue
			}
			duration := av.SlotDuration
			if duration <= 0 {
				duration = DefaultSlotDuration
			}
			start, err1 := minutesOfDay(av.StartTime)
			end, err2 := minutesOfDay(av.EndTime)
			if err1 != nil || err2 != nil {
				continue
			}
			for m := start; m+duration <= end; m += duration {
				candidates = append(candidates, model.SlotCandidate{
					Date: date,
					Hour: formatMinutes(m),
				})
			}
		}
	}
	return candidates
}
