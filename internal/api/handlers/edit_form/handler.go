package edit_form

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingWizard/internal/api/handlers"
	"github.com/m04kA/SMC-BookingWizard/internal/service/wizard"
	"github.com/m04kA/SMC-BookingWizard/internal/usecase/contact_form"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgSessionNotFound    = "сессия не найдена или истекла"
	msgUnknownField       = "неизвестное поле формы"
	msgInvalidStep        = "контактные данные можно менять только на шаге ввода контактов"
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

// Handle PATCH /api/v1/sessions/{sessionId}/form
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req EditFieldRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /sessions/{id}/form - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	field, err := contact_form.ParseField(req.Field)
	if err != nil {
		h.logger.Warn("PATCH /sessions/{id}/form - Unknown field: %q", req.Field)
		handlers.RespondBadRequest(w, msgUnknownField)
		return
	}

	view, err := h.service.EditField(r.Context(), sessionID, field, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, wizard.ErrSessionNotFound):
			h.logger.Warn("PATCH /sessions/{id}/form - Session not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.Is(err, wizard.ErrInvalidTransition):
			h.logger.Warn("PATCH /sessions/{id}/form - Invalid step: session_id=%s, error=%v", sessionID, err)
			handlers.RespondConflict(w, msgInvalidStep)

		case errors.Is(err, contact_form.ErrUnknownField):
			handlers.RespondBadRequest(w, msgUnknownField)

		default:
			h.logger.Error("PATCH /sessions/{id}/form - Failed to edit field: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, handlers.FromView(view))
}
