package list_failures

import (
	"time"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
)

// FailureResponse HTTP response model
type FailureResponse struct {
	ID         int64   `json:"id"`
	SessionID  string  `json:"sessionId"`
	Token      uint64  `json:"token"`
	Identifier *string `json:"identifier,omitempty"`
	Datetime   string  `json:"datetime"`
	Name       string  `json:"name"`
	Message    string  `json:"message"`
	OccurredAt string  `json:"occurredAt"`
}

// FailureListResponse HTTP response model
type FailureListResponse struct {
	Failures []FailureResponse `json:"failures"`
	Total    int               `json:"total"`
}

// FromDomain конвертирует записи журнала в HTTP response
func FromDomain(failures []domain.SubmissionFailure) *FailureListResponse {
	items := make([]FailureResponse, 0, len(failures))
	for _, f := range failures {
		items = append(items, FailureResponse{
			ID:         f.ID,
			SessionID:  f.SessionID,
			Token:      f.Token,
			Identifier: f.Identifier,
			Datetime:   f.Datetime.Format(time.RFC3339),
			Name:       f.Name,
			Message:    f.Message,
			OccurredAt: f.OccurredAt.Format(time.RFC3339),
		})
	}
	return &FailureListResponse{Failures: items, Total: len(items)}
}
