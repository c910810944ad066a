// Package api exposes the agenda over HTTP for the web frontend.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"turnero/internal/agenda"
	"turnero/internal/model"
	"turnero/internal/service"
)

// Agenda is the service surface the HTTP handlers call.
type Agenda interface {
	Events(ctx context.Context, doctorID int64, view agenda.View, anchor time.Time) ([]agenda.Event, error)
	AvailableSlots(ctx context.Context, doctorID int64, view agenda.View, anchor time.Time) ([]model.SlotCandidate, error)
	ChangeAppointmentStatus(ctx context.Context, id int64, target model.Status) (string, error)
	ChangeOverturnStatus(ctx context.Context, id int64, target model.Status) (string, error)
	CreateAppointment(ctx context.Context, a *model.Appointment) error
	CreateGuestAppointment(ctx context.Context, a *model.Appointment) error
	ConvertGuestToPatient(ctx context.Context, id, patientID int64, name, dni string) error
	CreateOverturn(ctx context.Context, o *model.Overturn) error
	BlockSlot(ctx context.Context, b *model.BlockedSlot) error
	UnblockSlot(ctx context.Context, doctorID int64, date, hour string) error
	CreateAbsence(ctx context.Context, a *model.DoctorAbsence) error
}

// HTTPServer serves the agenda API.
type HTTPServer struct {
	agenda  Agenda
	log     zerolog.Logger
	server  *http.Server
	limiter *rate.Limiter
}

// NewHTTPServer builds the server. rps <= 0 disables rate limiting.
func NewHTTPServer(svc Agenda, port int, rps float64, burst int, logger zerolog.Logger) *HTTPServer {
	s := &HTTPServer{
		agenda: svc,
		log:    logger.With().Str("component", "api").Logger(),
	}
	if rps > 0 {
		if burst <= 0 {
			burst = int(rps)
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/agenda", s.handleAgenda)
	mux.HandleFunc("/api/agenda/slots", s.handleAgendaSlots)
	mux.HandleFunc("/api/appointments", s.handleCreateAppointment)
	mux.HandleFunc("/api/appointments/", s.handleAppointmentSubroutes)
	mux.HandleFunc("/api/overturns", s.handleCreateOverturn)
	mux.HandleFunc("/api/overturns/", s.handleOverturnSubroutes)
	mux.HandleFunc("/api/blocked-slots", s.handleBlockedSlots)
	mux.HandleFunc("/api/absences", s.handleCreateAbsence)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.rateLimit(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	return s
}

// Handler exposes the routed handler, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

// Start serves until the listener fails or Shutdown is called.
func (s *HTTPServer) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("api server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps the service sentinel errors onto HTTP statuses.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrSlotTaken):
		writeError(w, http.StatusConflict, "slot already taken")
	case errors.Is(err, service.ErrMutationInFlight):
		writeError(w, http.StatusConflict, "another change is in progress; retry")
	case errors.Is(err, service.ErrInvalidTransition):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
