package wizard

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	"github.com/m04kA/SMC-BookingWizard/internal/integrations/scheduler"
)

// SchedulerClient интерфейс клиента внешнего бэкенда расписания
type SchedulerClient interface {
	GetAvailableSlots(ctx context.Context, identifier *string) (*scheduler.Availability, error)
	CreateBooking(ctx context.Context, booking domain.BookingRequest) (*scheduler.Confirmation, error)
}

// SessionStore интерфейс хранилища сессий визарда
type SessionStore interface {
	Save(session *Session) error
	Get(id string) (*Session, error)
	Delete(id string)
	Len() int
}

// FailureRecorder сохраняет фоновые ошибки бронирования, не показанные посетителю
type FailureRecorder interface {
	Record(ctx context.Context, failure domain.SubmissionFailure) error
}

// Metrics интерфейс метрик визарда
type Metrics interface {
	SetActiveSessions(n int)
	ObserveSlotFetch(outcome string)
	ObserveSubmission(mode string)
	ObserveBackendResult(outcome string)
	ObserveReconciliation(result string)
}

// Timer отменяемый отложенный вызов
type Timer interface {
	Stop() bool
}

// TimeProvider интерфейс для получения текущего времени и таймеров (для тестирования)
type TimeProvider interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// AfterFunc запускает f через d в отдельной горутине
func (p *RealTimeProvider) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
