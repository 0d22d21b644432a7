package start_over

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingWizard/internal/api/handlers"
	"github.com/m04kA/SMC-BookingWizard/internal/service/wizard"
)

const (
	msgSessionNotFound = "сессия не найдена или истекла"
	msgNotConfirmed    = "новое бронирование можно начать только после подтверждения"
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

// Handle POST /api/v1/sessions/{sessionId}/reset
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	view, err := h.service.StartOver(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, wizard.ErrSessionNotFound):
			h.logger.Warn("POST /sessions/{id}/reset - Session not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, wizard.ErrInvalidTransition):
			h.logger.Warn("POST /sessions/{id}/reset - Invalid step: session_id=%s, error=%v", sessionID, err)
			handlers.RespondConflict(w, msgNotConfirmed)

		default:
			h.logger.Error("POST /sessions/{id}/reset - Failed to start over: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /sessions/{id}/reset - New booking started: session_id=%s", sessionID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromView(view))
}
