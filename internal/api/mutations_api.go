package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"turnero/internal/metrics"
	"turnero/internal/model"
)

// CreateAppointmentRequest is the request body for booking a slot.
type CreateAppointmentRequest struct {
	DoctorID          int64  `json:"doctor_id"`
	Date              string `json:"date"` // Format: YYYY-MM-DD
	Hour              string `json:"hour"` // Format: HH:MM
	Origin            string `json:"origin,omitempty"`
	PatientID         int64  `json:"patient_id,omitempty"`
	PatientName       string `json:"patient_name,omitempty"`
	PatientDNI        string `json:"patient_dni,omitempty"`
	GuestName         string `json:"guest_name,omitempty"`
	GuestPhone        string `json:"guest_phone,omitempty"`
	HealthInsurance   string `json:"health_insurance,omitempty"`
	AffiliationNumber string `json:"affiliation_number,omitempty"`
	ConsultationType  string `json:"consultation_type,omitempty"`
}

// StatusChangeRequest is the request body for a status transition.
type StatusChangeRequest struct {
	Status string `json:"status"`
}

// ConvertGuestRequest attaches a registered patient to a guest appointment.
type ConvertGuestRequest struct {
	PatientID   int64  `json:"patient_id"`
	PatientName string `json:"patient_name"`
	PatientDNI  string `json:"patient_dni"`
}

// BlockSlotRequest is the request body for blocking a slot.
type BlockSlotRequest struct {
	DoctorID int64  `json:"doctor_id"`
	Date     string `json:"date"`
	Hour     string `json:"hour"`
	Reason   string `json:"reason,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// CreateAbsenceRequest is the request body for recording an absence.
type CreateAbsenceRequest struct {
	DoctorID  int64  `json:"doctor_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date,omitempty"`
	Type      string `json:"type,omitempty"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (r *CreateAppointmentRequest) validate() string {
	if r.DoctorID <= 0 {
		return "doctor_id is required"
	}
	if r.Date == "" || r.Hour == "" {
		return "date and hour are required"
	}
	return ""
}

func (r *CreateAppointmentRequest) toModel() *model.Appointment {
	return &model.Appointment{
		DoctorID:          r.DoctorID,
		Date:              r.Date,
		Hour:              r.Hour,
		Origin:            model.Origin(r.Origin),
		PatientID:         r.PatientID,
		PatientName:       r.PatientName,
		PatientDNI:        r.PatientDNI,
		GuestName:         r.GuestName,
		GuestPhone:        r.GuestPhone,
		HealthInsurance:   r.HealthInsurance,
		AffiliationNumber: r.AffiliationNumber,
		ConsultationType:  r.ConsultationType,
	}
}

// handleCreateAppointment books a regular slot.
// POST /api/appointments
func (s *HTTPServer) handleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("create_appointment")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req CreateAppointmentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if req.Origin == "" {
		req.Origin = string(model.OriginSecretary)
	}

	appt := req.toModel()
	if err := s.agenda.CreateAppointment(r.Context(), appt); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, appt)
}

// handleAppointmentSubroutes routes the /api/appointments/ prefix:
// POST /api/appointments/guest, POST /api/appointments/{id}/status and
// POST /api/appointments/{id}/convert.
func (s *HTTPServer) handleAppointmentSubroutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/appointments/")
	if rest == "guest" {
		s.handleCreateGuestAppointment(w, r)
		return
	}

	id, tail, ok := splitIDRoute(rest)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	switch tail {
	case "status":
		s.handleAppointmentStatus(w, r, id)
	case "convert":
		s.handleConvertGuest(w, r, id)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *HTTPServer) handleCreateGuestAppointment(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("create_guest_appointment")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req CreateAppointmentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if req.GuestName == "" || req.GuestPhone == "" {
		writeError(w, http.StatusBadRequest, "guest_name and guest_phone are required")
		return
	}

	appt := req.toModel()
	if err := s.agenda.CreateGuestAppointment(r.Context(), appt); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, appt)
}

func (s *HTTPServer) handleAppointmentStatus(w http.ResponseWriter, r *http.Request, id int64) {
	metrics.IncHTTP("appointment_status")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req StatusChangeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	msg, err := s.agenda.ChangeAppointmentStatus(r.Context(), id, model.Status(req.Status))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

func (s *HTTPServer) handleConvertGuest(w http.ResponseWriter, r *http.Request, id int64) {
	metrics.IncHTTP("convert_guest")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req ConvertGuestRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.PatientID <= 0 || req.PatientName == "" {
		writeError(w, http.StatusBadRequest, "patient_id and patient_name are required")
		return
	}

	if err := s.agenda.ConvertGuestToPatient(r.Context(), id, req.PatientID, req.PatientName, req.PatientDNI); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleCreateOverturn squeezes in an extra appointment.
// POST /api/overturns
func (s *HTTPServer) handleCreateOverturn(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("create_overturn")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req CreateAppointmentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	ot := &model.Overturn{
		DoctorID:          req.DoctorID,
		Date:              req.Date,
		Hour:              req.Hour,
		IsGuest:           req.GuestName != "" && req.PatientID == 0,
		PatientID:         req.PatientID,
		PatientName:       req.PatientName,
		PatientDNI:        req.PatientDNI,
		GuestName:         req.GuestName,
		GuestPhone:        req.GuestPhone,
		HealthInsurance:   req.HealthInsurance,
		AffiliationNumber: req.AffiliationNumber,
		ConsultationType:  req.ConsultationType,
	}
	if err := s.agenda.CreateOverturn(r.Context(), ot); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ot)
}

// handleOverturnSubroutes routes POST /api/overturns/{id}/status.
func (s *HTTPServer) handleOverturnSubroutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/overturns/")
	id, tail, ok := splitIDRoute(rest)
	if !ok || tail != "status" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	metrics.IncHTTP("overturn_status")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req StatusChangeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	msg, err := s.agenda.ChangeOverturnStatus(r.Context(), id, model.Status(req.Status))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

// handleBlockedSlots blocks (POST) or unblocks (DELETE) a slot.
// POST /api/blocked-slots
// DELETE /api/blocked-slots?doctor_id=1&date=YYYY-MM-DD&hour=HH:MM
func (s *HTTPServer) handleBlockedSlots(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		metrics.IncHTTP("block_slot")
		var req BlockSlotRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.DoctorID <= 0 || req.Date == "" || req.Hour == "" {
			writeError(w, http.StatusBadRequest, "doctor_id, date and hour are required")
			return
		}
		b := &model.BlockedSlot{
			DoctorID: req.DoctorID,
			Date:     req.Date,
			Hour:     req.Hour,
			Reason:   req.Reason,
			Notes:    req.Notes,
		}
		if err := s.agenda.BlockSlot(r.Context(), b); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, b)

	case http.MethodDelete:
		metrics.IncHTTP("unblock_slot")
		doctorID, err := strconv.ParseInt(r.URL.Query().Get("doctor_id"), 10, 64)
		date := r.URL.Query().Get("date")
		hour := r.URL.Query().Get("hour")
		if err != nil || doctorID <= 0 || date == "" || hour == "" {
			writeError(w, http.StatusBadRequest, "doctor_id, date and hour are required")
			return
		}
		if err := s.agenda.UnblockSlot(r.Context(), doctorID, date, hour); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleCreateAbsence records a doctor absence.
// POST /api/absences
func (s *HTTPServer) handleCreateAbsence(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("create_absence")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req CreateAbsenceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.DoctorID <= 0 || req.StartDate == "" {
		writeError(w, http.StatusBadRequest, "doctor_id and start_date are required")
		return
	}

	a := &model.DoctorAbsence{
		DoctorID:  req.DoctorID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Type:      req.Type,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := s.agenda.CreateAbsence(r.Context(), a); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// splitIDRoute parses "{id}/{tail}" path fragments.
func splitIDRoute(rest string) (int64, string, bool) {
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 {
		return 0, "", false
	}
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, "", false
	}
	return id, parts[1], true
}
