package list_failures

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-BookingWizard/internal/api/handlers"
)

const (
	defaultLimit = 50
	maxLimit     = 500

	msgInvalidLimit = "некорректный limit, ожидается число от 1 до 500"
)

type Handler struct {
	repo   FailureRepository
	logger Logger
}

func NewHandler(repo FailureRepository, logger Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// Handle GET /api/v1/diagnostics/failures
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	limit := uint64(defaultLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || parsed == 0 || parsed > maxLimit {
			h.logger.Warn("GET /diagnostics/failures - Invalid limit: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
		limit = parsed
	}

	failures, err := h.repo.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("GET /diagnostics/failures - Failed to list failures: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(failures))
}
