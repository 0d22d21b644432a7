package select_time

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingWizard/internal/api/handlers"
	"github.com/m04kA/SMC-BookingWizard/internal/service/wizard"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgSessionNotFound    = "сессия не найдена или истекла"
	msgTimeRequired       = "не указано время"
	msgTimeNotAvailable   = "выбранное время недоступно"
	msgInvalidStep        = "время можно выбрать только на шаге выбора времени"
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

// Handle POST /api/v1/sessions/{sessionId}/time
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req SelectTimeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions/{id}/time - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if strings.TrimSpace(req.Time) == "" {
		handlers.RespondBadRequest(w, msgTimeRequired)
		return
	}

	view, err := h.service.SelectTime(r.Context(), sessionID, req.Time)
	if err != nil {
		switch {
		case errors.Is(err, wizard.ErrSessionNotFound):
			h.logger.Warn("POST /sessions/{id}/time - Session not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, wizard.ErrTimeNotAvailable):
			h.logger.Warn("POST /sessions/{id}/time - Time not available: session_id=%s, time=%q", sessionID, req.Time)
			handlers.RespondBadRequest(w, msgTimeNotAvailable)

		case errors.Is(err, wizard.ErrInvalidTransition):
			h.logger.Warn("POST /sessions/{id}/time - Invalid step: session_id=%s, error=%v", sessionID, err)
			handlers.RespondConflict(w, msgInvalidStep)

		default:
			h.logger.Error("POST /sessions/{id}/time - Failed to select time: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /sessions/{id}/time - Time selected: session_id=%s, time=%s", sessionID, view.SelectedLabel)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromView(view))
}
