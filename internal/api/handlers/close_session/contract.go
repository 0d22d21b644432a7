package close_session

import "context"

// WizardService интерфейс сервиса визарда
type WizardService interface {
	Close(ctx context.Context, sessionID string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
