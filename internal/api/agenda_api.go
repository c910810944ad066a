package api

import (
	"net/http"
	"strconv"
	"time"

	"turnero/internal/agenda"
	"turnero/internal/metrics"
	"turnero/internal/model"
)

// EventResponse is one calendar entry, ready to render.
type EventResponse struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Start   time.Time    `json:"start"`
	End     time.Time    `json:"end"`
	AllDay  bool         `json:"all_day,omitempty"`
	Kind    string       `json:"kind"`
	Status  model.Status `json:"status,omitempty"`
	Date    string       `json:"date"`
	Hour    string       `json:"hour,omitempty"`
	IsGuest bool         `json:"is_guest,omitempty"`
	Style   agenda.Style `json:"style"`
	Action  string       `json:"action"`
}

// AgendaResponse is the full calendar for a window.
type AgendaResponse struct {
	DoctorID int64           `json:"doctor_id"`
	View     string          `json:"view"`
	From     string          `json:"from"`
	To       string          `json:"to"`
	Events   []EventResponse `json:"events"`
}

var actionNames = map[agenda.ActionKind]string{
	agenda.ActionNone:              "none",
	agenda.ActionOpenDetails:       "details",
	agenda.ActionOpenSlotChooser:   "slot_chooser",
	agenda.ActionOpenBlockDialog:   "block",
	agenda.ActionOpenUnblockDialog: "unblock",
	agenda.ActionOpenCreateDialog:  "create",
}

// handleAgenda returns the materialized calendar.
// GET /api/agenda?doctor_id=1&view=week&date=YYYY-MM-DD&read_only=true&block_only=true
func (s *HTTPServer) handleAgenda(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("agenda")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	doctorID, view, anchor, ok := s.agendaQuery(w, r)
	if !ok {
		return
	}
	mode := agenda.Mode{
		ReadOnly:  r.URL.Query().Get("read_only") == "true",
		BlockOnly: r.URL.Query().Get("block_only") == "true",
	}

	events, err := s.agenda.Events(r.Context(), doctorID, view, anchor)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	window := agenda.Window(view, anchor)
	resp := AgendaResponse{
		DoctorID: doctorID,
		View:     string(view),
		From:     window.FromString(),
		To:       window.ToString(),
		Events:   make([]EventResponse, 0, len(events)),
	}
	for _, e := range events {
		resp.Events = append(resp.Events, EventResponse{
			ID:      e.ID,
			Title:   e.Title,
			Start:   e.Start,
			End:     e.End,
			AllDay:  e.AllDay,
			Kind:    e.Resource.Kind.String(),
			Status:  e.Resource.Status,
			Date:    e.Resource.SlotDate,
			Hour:    e.Resource.SlotHour,
			IsGuest: e.Resource.IsGuest,
			Style:   agenda.StyleFor(e, !mode.ReadOnly),
			Action:  actionNames[agenda.DispatchEvent(e, mode).Kind],
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleAgendaSlots returns only the free bookable slots.
// GET /api/agenda/slots?doctor_id=1&view=week&date=YYYY-MM-DD
func (s *HTTPServer) handleAgendaSlots(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("agenda_slots")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	doctorID, view, anchor, ok := s.agendaQuery(w, r)
	if !ok {
		return
	}

	slots, err := s.agenda.AvailableSlots(r.Context(), doctorID, view, anchor)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if slots == nil {
		slots = []model.SlotCandidate{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"slots": slots})
}

// agendaQuery parses the shared doctor_id/view/date query parameters.
func (s *HTTPServer) agendaQuery(w http.ResponseWriter, r *http.Request) (int64, agenda.View, time.Time, bool) {
	doctorID, err := strconv.ParseInt(r.URL.Query().Get("doctor_id"), 10, 64)
	if err != nil || doctorID <= 0 {
		writeError(w, http.StatusBadRequest, "doctor_id is required")
		return 0, "", time.Time{}, false
	}

	view := agenda.View(r.URL.Query().Get("view"))
	switch view {
	case "":
		view = agenda.ViewWeek
	case agenda.ViewDay, agenda.ViewWeek, agenda.ViewWorkWeek, agenda.ViewMonth, agenda.ViewAgenda:
	default:
		writeError(w, http.StatusBadRequest, "invalid view")
		return 0, "", time.Time{}, false
	}

	anchor := time.Now()
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		anchor, err = time.ParseInLocation("2006-01-02", dateStr, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
			return 0, "", time.Time{}, false
		}
	}
	return doctorID, view, anchor, true
}
