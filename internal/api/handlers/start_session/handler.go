package start_session

import (
	"net/http"
	"strings"

	"github.com/m04kA/SMC-BookingWizard/internal/api/handlers"
)

// Имена query-параметра с идентификатором посетителя, в порядке приоритета
var identifierParams = []string{"userId", "uid"}

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

// Handle POST /api/v1/sessions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	identifier := identifierFromQuery(r)

	view, err := h.service.Start(r.Context(), identifier)
	if err != nil {
		h.logger.Error("POST /sessions - Failed to start session: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /sessions - Session started: session_id=%s, slots=%d", view.SessionID, view.SlotCount)
	handlers.RespondJSON(w, http.StatusCreated, handlers.FromView(view))
}

// identifierFromQuery возвращает идентификатор без изменений; пустое значение - nil
func identifierFromQuery(r *http.Request) *string {
	query := r.URL.Query()
	for _, name := range identifierParams {
		if value := query.Get(name); strings.TrimSpace(value) != "" {
			return &value
		}
	}
	return nil
}
