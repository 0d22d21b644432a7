package diagnostics

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
)

// LogRecorder пишет ошибки только в лог. Используется, когда журнал в БД отключен.
type LogRecorder struct {
	logger  Logger
	metrics Metrics
}

// NewLogRecorder создает recorder без хранилища
func NewLogRecorder(logger Logger, metrics Metrics) *LogRecorder {
	return &LogRecorder{logger: logger, metrics: metrics}
}

// Record пишет ошибку в лог
func (r *LogRecorder) Record(ctx context.Context, failure domain.SubmissionFailure) error {
	identifier := "-"
	if failure.Identifier != nil {
		identifier = *failure.Identifier
	}

	r.logger.Error("Diagnostics: swallowed booking failure session=%s token=%d identifier=%s datetime=%s name=%q: %s",
		failure.SessionID, failure.Token, identifier, failure.Datetime.Format(time.RFC3339), failure.Name, failure.Message)
	r.metrics.ObserveDiagnosticsRecorded("logged")
	return nil
}
