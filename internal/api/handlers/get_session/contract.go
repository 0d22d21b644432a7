package get_session

import (
	"context"

	"github.com/m04kA/SMC-BookingWizard/internal/service/wizard"
)

// WizardService интерфейс сервиса визарда
type WizardService interface {
	View(ctx context.Context, sessionID string) (*wizard.View, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
