package model

import "time"

// Blocked-slot reasons.
const (
	BlockReasonPersonal    = "personal"
	BlockReasonMeeting     = "meeting"
	BlockReasonEmergency   = "emergency"
	BlockReasonMaintenance = "maintenance"
	BlockReasonOther       = "other"
)

var blockReasonLabels = map[string]string{
	BlockReasonPersonal:    "Motivo personal",
	BlockReasonMeeting:     "Reunión",
	BlockReasonEmergency:   "Emergencia",
	BlockReasonMaintenance: "Mantenimiento",
	BlockReasonOther:       "Otro",
}

// BlockReasonLabel returns the display label for a block reason.
func BlockReasonLabel(reason string) string {
	if l, ok := blockReasonLabels[reason]; ok {
		return l
	}
	return reason
}

// BlockedSlot marks a single slot as unavailable without an appointment.
// It occupies its slot for as long as it exists.
type BlockedSlot struct {
	ID        int64     `json:"id"`
	DoctorID  int64     `json:"doctor_id"`
	Date      string    `json:"date"`
	Hour      string    `json:"hour"`
	Reason    string    `json:"reason"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
