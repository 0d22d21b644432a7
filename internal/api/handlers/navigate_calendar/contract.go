package navigate_calendar

import (
	"context"

	"github.com/m04kA/SMC-BookingWizard/internal/service/calendar"
	"github.com/m04kA/SMC-BookingWizard/internal/service/wizard"
)

// WizardService интерфейс сервиса визарда
type WizardService interface {
	NavigateCalendar(ctx context.Context, sessionID string, direction calendar.Direction) (*wizard.CalendarView, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
