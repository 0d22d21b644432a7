package list_failures

import (
	"context"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
)

// FailureRepository интерфейс журнала фоновых ошибок бронирования
type FailureRepository interface {
	ListRecent(ctx context.Context, limit uint64) ([]domain.SubmissionFailure, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
