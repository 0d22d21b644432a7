package submit_booking

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BookingWizard/internal/api/handlers"
	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	"github.com/m04kA/SMC-BookingWizard/internal/service/wizard"
	"github.com/m04kA/SMC-BookingWizard/internal/usecase/contact_form"
)

const (
	msgSessionNotFound    = "сессия не найдена или истекла"
	msgValidationFailed   = "проверьте введенные данные"
	msgSubmissionInFlight = "бронирование уже отправлено, дождитесь ответа"
	msgInvalidStep        = "бронирование можно отправить только на шаге ввода контактов"
	msgSubmissionFailed   = "не удалось создать бронирование, попробуйте еще раз"
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

// Handle POST /api/v1/sessions/{sessionId}/booking
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	view, err := h.service.Submit(r.Context(), sessionID)
	if err != nil {
		var validationErr *contact_form.ValidationError

		switch {
		case errors.Is(err, wizard.ErrSessionNotFound):
			h.logger.Warn("POST /sessions/{id}/booking - Session not found: session_id=%s", sessionID)
			handlers.RespondNotFound(w, msgSessionNotFound)

		case errors.As(err, &validationErr):
			h.logger.Warn("POST /sessions/{id}/booking - Validation failed: session_id=%s, fields=%d", sessionID, len(validationErr.Fields))
			fields := make(map[string]string, len(validationErr.Fields))
			for field, msg := range validationErr.Fields {
				fields[string(field)] = msg
			}
			handlers.RespondValidationError(w, msgValidationFailed, fields)

		case errors.Is(err, wizard.ErrSubmissionInFlight):
			h.logger.Warn("POST /sessions/{id}/booking - Submission in flight: session_id=%s", sessionID)
			handlers.RespondConflict(w, msgSubmissionInFlight)

		case errors.Is(err, wizard.ErrInvalidTransition):
			h.logger.Warn("POST /sessions/{id}/booking - Invalid step: session_id=%s, error=%v", sessionID, err)
			handlers.RespondConflict(w, msgInvalidStep)

		case errors.Is(err, wizard.ErrSubmissionFailed):
			h.logger.Warn("POST /sessions/{id}/booking - Backend rejected booking: session_id=%s, error=%v", sessionID, err)
			message := msgSubmissionFailed
			if view != nil && view.Banner != nil {
				message = view.Banner.Message
			}
			handlers.RespondError(w, http.StatusBadGateway, message)

		default:
			h.logger.Error("POST /sessions/{id}/booking - Failed to submit booking: session_id=%s, error=%v", sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Оптимистичный режим возвращает Submitting: подтверждение появится позже
	status := http.StatusCreated
	if view.Step != domain.StepConfirmed {
		status = http.StatusAccepted
	}

	h.logger.Info("POST /sessions/{id}/booking - Booking submitted: session_id=%s, step=%s", sessionID, view.Step)
	handlers.RespondJSON(w, status, handlers.FromView(view))
}
