package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/antoniostano/reminders/internal/intake"
	"github.com/antoniostano/reminders/internal/reminders"
	"github.com/antoniostano/reminders/internal/scanner"
)

type addReminderRequest struct {
	Text string `json:"text"`
}

type addReminderResponse struct {
	Success  bool                `json:"success"`
	Message  string              `json:"message"`
	Reminder *reminders.Reminder `json:"reminder,omitempty"`
}

type scanResponse struct {
	Due    int                `json:"due"`
	Events []scanner.DueEvent `json:"events"`
}

func (s *Server) handleAddReminder(w http.ResponseWriter, r *http.Request) {
	var req addReminderRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	rem, err := s.intake.AddReminder(r.Context(), req.Text)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, addReminderResponse{
			Success:  true,
			Message:  intake.ConfirmationMessage(rem),
			Reminder: &rem,
		})
	case errors.Is(err, intake.ErrNoDateDetected):
		respondJSON(w, http.StatusOK, addReminderResponse{Message: intake.ErrNoDateDetected.Error()})
	case errors.Is(err, reminders.ErrStoreBusy):
		respondJSON(w, http.StatusServiceUnavailable, addReminderResponse{Message: "Reminder store is busy, try again."})
	default:
		s.logger.Error("add reminder failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, addReminderResponse{Message: "Failed to save reminder."})
	}
}

func (s *Server) handleListReminders(w http.ResponseWriter, r *http.Request) {
	all, err := s.intake.ListReminders(r.Context())
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	if all == nil {
		all = []reminders.Reminder{}
	}
	respondJSON(w, http.StatusOK, all)
}

func (s *Server) handleDueReminders(w http.ResponseWriter, r *http.Request) {
	day := strings.TrimSpace(r.URL.Query().Get("date"))
	if day == "" {
		day = reminders.Day(time.Now())
	} else if _, err := time.Parse(reminders.DateLayout, day); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
		return
	}

	due, err := s.intake.DueOn(r.Context(), day)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	if due == nil {
		due = []reminders.Reminder{}
	}
	respondJSON(w, http.StatusOK, due)
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if s.scanner == nil {
		respondError(w, http.StatusNotImplemented, "unavailable", "scanner not configured")
		return
	}
	events, err := s.scanner.ScanOnce(r.Context())
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	if events == nil {
		events = []scanner.DueEvent{}
	}
	respondJSON(w, http.StatusOK, scanResponse{Due: len(events), Events: events})
}

func (s *Server) respondStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, reminders.ErrStoreBusy) {
		respondError(w, http.StatusServiceUnavailable, "store_busy", err.Error())
		return
	}
	s.logger.Error("store request failed", "error", err)
	respondError(w, http.StatusInternalServerError, "store_failed", err.Error())
}
