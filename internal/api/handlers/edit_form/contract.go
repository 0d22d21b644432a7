package edit_form

import (
	"context"

	"github.com/m04kA/SMC-BookingWizard/internal/service/wizard"
	"github.com/m04kA/SMC-BookingWizard/internal/usecase/contact_form"
)

// WizardService интерфейс сервиса визарда
type WizardService interface {
	EditField(ctx context.Context, sessionID string, field contact_form.Field, value string) (*wizard.View, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
