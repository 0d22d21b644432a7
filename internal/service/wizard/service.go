package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	sessionRepo "github.com/m04kA/SMC-BookingWizard/internal/infra/storage/session"
	"github.com/m04kA/SMC-BookingWizard/internal/integrations/scheduler"
	"github.com/m04kA/SMC-BookingWizard/internal/service/availability"
	"github.com/m04kA/SMC-BookingWizard/internal/service/calendar"
	"github.com/m04kA/SMC-BookingWizard/internal/usecase/contact_form"
)

const (
	msgFetchFailed      = "не удалось получить свободное время, попробуйте еще раз"
	msgSubmissionFailed = "не удалось создать бронирование, попробуйте еще раз"
)

// Исходы запросов к бэкенду для метрик
const (
	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

// Service сервис визарда бронирования: ведет сессии и переводит их между шагами
type Service struct {
	cfg          Config
	scheduler    SchedulerClient
	store        SessionStore
	recorder     FailureRecorder
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger

	// wg отслеживает фоновые запросы создания бронирования
	wg sync.WaitGroup
}

// NewService создает новый экземпляр сервиса визарда
func NewService(
	cfg Config,
	scheduler SchedulerClient,
	store SessionStore,
	recorder FailureRecorder,
	metrics Metrics,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		cfg:          cfg,
		scheduler:    scheduler,
		store:        store,
		recorder:     recorder,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Start открывает новую сессию и загружает свободные слоты.
// Ошибка загрузки не прерывает сессию: она начинается с пустым набором слотов и баннером.
func (s *Service) Start(ctx context.Context, identifier *string) (*View, error) {
	now := s.timeProvider.Now()
	sess := newSession(uuid.NewString(), identifier, now, s.cfg.Hours)

	s.logger.Info("Start: opening session id=%s", sess.id)

	result, err := s.scheduler.GetAvailableSlots(ctx, identifier)
	if err != nil {
		s.metrics.ObserveSlotFetch(outcomeOf(err))
		s.logger.Warn("Start: failed to fetch slots for session id=%s: %v", sess.id, err)
		sess.banner = &domain.Banner{Kind: domain.BannerFetchFailed, Message: bannerMessage(err, msgFetchFailed)}
	} else {
		s.metrics.ObserveSlotFetch(outcomeSuccess)
		sess.setSlots(result.Slots, result.Config)
	}

	if err := s.store.Save(sess); err != nil {
		s.logger.Error("Start: failed to save session id=%s: %v", sess.id, err)
		return nil, fmt.Errorf("%w: Start - store error: %v", ErrInternal, err)
	}
	s.metrics.SetActiveSessions(s.store.Len())

	sess.mu.Lock()
	defer sess.mu.Unlock()

	s.logger.Info("Start: session id=%s started with %d slots", sess.id, len(sess.slots))
	return sess.view(s.cfg), nil
}

// View возвращает снимок сессии
func (s *Service) View(ctx context.Context, sessionID string) (*View, error) {
	return s.update(sessionID, func(sess *Session, now time.Time) error {
		return nil
	})
}

// Calendar возвращает сетку видимого месяца
func (s *Service) Calendar(ctx context.Context, sessionID string) (*CalendarView, error) {
	var result *CalendarView
	_, err := s.update(sessionID, func(sess *Session, now time.Time) error {
		result = s.calendarView(sess, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// NavigateCalendar перелистывает видимый месяц
func (s *Service) NavigateCalendar(ctx context.Context, sessionID string, direction calendar.Direction) (*CalendarView, error) {
	var result *CalendarView
	_, err := s.update(sessionID, func(sess *Session, now time.Time) error {
		if err := sess.calendar.Navigate(direction, now); err != nil {
			return fmt.Errorf("%w: %v", ErrNavigationOutOfRange, err)
		}
		result = s.calendarView(sess, now)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SelectDate выбирает дату и переходит к выбору времени. Прошедшие даты выбрать нельзя.
func (s *Service) SelectDate(ctx context.Context, sessionID, date string) (*View, error) {
	return s.update(sessionID, func(sess *Session, now time.Time) error {
		status, err := sess.calendar.StatusOf(date, sess.availability, now)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidDate, date)
		}
		if !status.IsSelectable() {
			return fmt.Errorf("%w: %s is %s", ErrDateNotSelectable, date, status)
		}

		next, err := SelectDate(sess.state, date)
		if err != nil {
			return err
		}
		sess.state = next
		return nil
	})
}

// TimeOptions возвращает варианты времени на выбранную дату
func (s *Service) TimeOptions(ctx context.Context, sessionID string) (*TimeOptionsView, error) {
	var result *TimeOptionsView
	_, err := s.update(sessionID, func(sess *Session, now time.Time) error {
		selection := SelectionOf(sess.state)
		if selection.Date == nil {
			return invalid(sess.state, "list time options")
		}

		options, err := s.timeOptions(sess, *selection.Date, now)
		if err != nil {
			return err
		}
		result = &TimeOptionsView{Date: *selection.Date, Options: options}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SelectTime выбирает время по метке HH:MM или абсолютному времени и переходит к вводу контактов
func (s *Service) SelectTime(ctx context.Context, sessionID, value string) (*View, error) {
	return s.update(sessionID, func(sess *Session, now time.Time) error {
		current, ok := sess.state.(ChoosingTime)
		if !ok {
			return invalid(sess.state, "select time")
		}

		options, err := s.timeOptions(sess, current.Date, now)
		if err != nil {
			return err
		}
		option, ok := availability.FindOption(options, value)
		if !ok {
			return fmt.Errorf("%w: %q on %s", ErrTimeNotAvailable, value, current.Date)
		}

		next, err := SelectTime(sess.state, option)
		if err != nil {
			return err
		}
		sess.state = next
		return nil
	})
}

// Back возвращает на предыдущий шаг
func (s *Service) Back(ctx context.Context, sessionID string) (*View, error) {
	return s.update(sessionID, func(sess *Session, now time.Time) error {
		next, err := Back(sess.state)
		if err != nil {
			return err
		}
		sess.state = next
		return nil
	})
}

// EditField меняет поле формы и сразу снимает ошибку этого поля
func (s *Service) EditField(ctx context.Context, sessionID string, field contact_form.Field, value string) (*View, error) {
	return s.update(sessionID, func(sess *Session, now time.Time) error {
		if _, ok := sess.state.(EnteringDetails); !ok {
			return invalid(sess.state, "edit contact details")
		}

		switch field {
		case contact_form.FieldName:
			sess.form.Name = value
		case contact_form.FieldEmail:
			sess.form.Email = value
		case contact_form.FieldPhone:
			sess.form.Phone = value
		case contact_form.FieldNote:
			sess.form.Note = value
		default:
			return contact_form.ErrUnknownField
		}
		sess.fieldErrors.Clear(field)
		return nil
	})
}

// DismissError убирает баннер ошибки
func (s *Service) DismissError(ctx context.Context, sessionID string) (*View, error) {
	return s.update(sessionID, func(sess *Session, now time.Time) error {
		sess.banner = nil
		return nil
	})
}

// StartOver начинает новое бронирование после подтверждения.
// Дата, время, результат и форма сбрасываются, незавершенная сверка становится устаревшей.
func (s *Service) StartOver(ctx context.Context, sessionID string) (*View, error) {
	return s.update(sessionID, func(sess *Session, now time.Time) error {
		next, err := StartOver(sess.state)
		if err != nil {
			return err
		}
		sess.supersede()
		sess.state = next
		sess.banner = nil
		sess.form = contact_form.Form{}
		sess.fieldErrors = contact_form.FieldErrors{}
		sess.calendar.Reset(now)
		return nil
	})
}

// Confirmation возвращает подтвержденное бронирование вместе с именем владельца календаря
func (s *Service) Confirmation(ctx context.Context, sessionID string) (*ConfirmationView, error) {
	var result *ConfirmationView
	_, err := s.update(sessionID, func(sess *Session, now time.Time) error {
		confirmed, ok := sess.state.(Confirmed)
		if !ok || confirmed.Booking == nil {
			return fmt.Errorf("%w: session is %s", ErrNotConfirmed, sess.state.Step())
		}
		result = &ConfirmationView{
			SessionID: sess.id,
			Booking:   *confirmed.Booking,
		}
		if sess.backend != nil {
			result.OwnerName = sess.backend.OwnerName
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Close закрывает сессию и удаляет ее из хранилища
func (s *Service) Close(ctx context.Context, sessionID string) error {
	if _, err := s.session(sessionID); err != nil {
		return err
	}
	s.store.Delete(sessionID)
	s.metrics.SetActiveSessions(s.store.Len())
	s.logger.Info("Close: session id=%s closed", sessionID)
	return nil
}

// Wait ждет завершения фоновых запросов бронирования
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// update находит сессию, применяет fn под ее мьютексом и возвращает снимок
func (s *Service) update(sessionID string, fn func(sess *Session, now time.Time) error) (*View, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.closed {
		return nil, fmt.Errorf("%w: id=%s", ErrSessionNotFound, sessionID)
	}

	now := s.timeProvider.Now()
	sess.touch(now)

	if err := fn(sess, now); err != nil {
		return nil, err
	}
	return sess.view(s.cfg), nil
}

func (s *Service) session(sessionID string) (*Session, error) {
	sess, err := s.store.Get(sessionID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: id=%s", ErrSessionNotFound, sessionID)
		}
		s.logger.Error("session: store error for id=%s: %v", sessionID, err)
		return nil, fmt.Errorf("%w: store error: %v", ErrInternal, err)
	}
	return sess, nil
}

func (s *Service) timeOptions(sess *Session, date string, now time.Time) ([]domain.TimeOption, error) {
	options, err := availability.TimeOptionsFor(date, sess.slots, now, s.cfg.Hours, s.cfg.TimeMode)
	if err != nil {
		if errors.Is(err, availability.ErrInvalidDate) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
		}
		return nil, fmt.Errorf("%w: time options: %v", ErrInternal, err)
	}
	return options, nil
}

func (s *Service) calendarView(sess *Session, now time.Time) *CalendarView {
	return &CalendarView{
		Month:     sess.calendar.MonthLabel(),
		Days:      sess.calendar.Days(sess.availability, SelectionOf(sess.state).Date, now),
		CanGoPrev: sess.calendar.CanGoPrev(now),
		CanGoNext: sess.calendar.CanGoNext(now),
	}
}

// outcomeOf классифицирует ошибку бэкенда для метрик
func outcomeOf(err error) string {
	if errors.Is(err, scheduler.ErrRejected) {
		return outcomeRejected
	}
	return outcomeError
}

// bannerMessage берет сообщение бэкенда, если он его прислал, иначе fallback
func bannerMessage(err error, fallback string) string {
	var rejected *scheduler.RejectedError
	if errors.As(err, &rejected) && rejected.Message != "" {
		return rejected.Message
	}
	return fallback
}
