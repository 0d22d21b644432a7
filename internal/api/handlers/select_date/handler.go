package select_date

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingWizard/internal/api/handlers"
	"github.com/m04kA/SMC-BookingWizard/internal/service/wizard"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgSessionNotFound    = "сессия не найдена или истекла"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgDateNotSelectable  = "эту дату нельзя выбрать"
	msgInvalidStep        = "дату можно выбрать только на шаге выбора даты"
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

// Handle POST /api/v1/sessions/{sessionId}/date
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req SelectDateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions/{id}/date - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	view, err := h.service.SelectDate(r.Context(), sessionID, req.Date)
	if err != nil {
		switch {
		case errors.Is(err, wizard.ErrSessionNotFound):
			h.logger.Warn("POST /sessions/{id}/date - Session not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, wizard.ErrInvalidDate):
			h.logger.Warn("POST /sessions/{id}/date - Invalid date: session_id=%s, date=%q", sessionID, req.Date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, wizard.ErrDateNotSelectable):
			h.logger.Warn("POST /sessions/{id}/date - Date not selectable: session_id=%s, date=%s", sessionID, req.Date)
			handlers.RespondBadRequest(w, msgDateNotSelectable)

		case errors.Is(err, wizard.ErrInvalidTransition):
			h.logger.Warn("POST /sessions/{id}/date - Invalid step: session_id=%s, error=%v", sessionID, err)
			handlers.RespondConflict(w, msgInvalidStep)

		default:
			h.logger.Error("POST /sessions/{id}/date - Failed to select date: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /sessions/{id}/date - Date selected: session_id=%s, date=%s", sessionID, req.Date)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromView(view))
}
