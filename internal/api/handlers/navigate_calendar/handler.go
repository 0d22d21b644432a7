package navigate_calendar

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingWizard/internal/api/handlers"
	"github.com/m04kA/SMC-BookingWizard/internal/service/calendar"
	"github.com/m04kA/SMC-BookingWizard/internal/service/wizard"
)

const (
	msgSessionNotFound  = "сессия не найдена или истекла"
	msgInvalidDirection = "некорректное направление, ожидается prev или next"
	msgOutOfRange       = "месяц вне доступного для записи периода"
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

// Handle POST /api/v1/sessions/{sessionId}/calendar/{direction}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["sessionId"]
	direction := calendar.Direction(vars["direction"])

	if direction != calendar.DirectionPrev && direction != calendar.DirectionNext {
		h.logger.Warn("POST /sessions/{id}/calendar/{direction} - Invalid direction: %q", direction)
		handlers.RespondBadRequest(w, msgInvalidDirection)
		return
	}

	view, err := h.service.NavigateCalendar(r.Context(), sessionID, direction)
	if err != nil {
		switch {
		case errors.Is(err, wizard.ErrSessionNotFound):
			h.logger.Warn("POST /sessions/{id}/calendar/{direction} - Session not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, wizard.ErrNavigationOutOfRange):
			h.logger.Warn("POST /sessions/{id}/calendar/{direction} - Out of range: session_id=%s, direction=%s", sessionID, direction)
			handlers.RespondBadRequest(w, msgOutOfRange)

		default:
			h.logger.Error("POST /sessions/{id}/calendar/{direction} - Failed to navigate: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.FromCalendarView(view))
}
