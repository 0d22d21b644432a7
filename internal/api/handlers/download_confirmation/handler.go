package download_confirmation

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingWizard/internal/api/handlers"
	"github.com/m04kA/SMC-BookingWizard/internal/service/confirmation"
	"github.com/m04kA/SMC-BookingWizard/internal/service/wizard"
)

const (
	msgSessionNotFound = "сессия не найдена или истекла"
	msgNotConfirmed    = "бронирование еще не подтверждено"
)

type Handler struct {
	service WizardService
	logger  Logger
}

func NewHandler(service WizardService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/sessions/{sessionId}/booking.ics
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	result, err := h.service.Confirmation(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, wizard.ErrSessionNotFound):
			h.logger.Warn("GET /sessions/{id}/booking.ics - Session not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, wizard.ErrNotConfirmed):
			h.logger.Warn("GET /sessions/{id}/booking.ics - Not confirmed: session_id=%s", sessionID)
			handlers.RespondConflict(w, msgNotConfirmed)

		default:
			h.logger.Error("GET /sessions/{id}/booking.ics - Failed to get booking: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	var buf bytes.Buffer
	err = confirmation.WriteICS(&buf, confirmation.Event{
		SessionID: result.SessionID,
		OwnerName: result.OwnerName,
		Booking:   result.Booking,
		Now:       time.Now(),
	})
	if err != nil {
		if errors.Is(err, confirmation.ErrNotConfirmed) {
			handlers.RespondConflict(w, msgNotConfirmed)
			return
		}
		h.logger.Error("GET /sessions/{id}/booking.ics - Failed to encode calendar: session_id=%s, error=%v", sessionID, err)
		handlers.RespondInternalError(w)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+confirmation.FileName(result.Booking)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
