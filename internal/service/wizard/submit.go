package wizard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	"github.com/m04kA/SMC-BookingWizard/internal/integrations/scheduler"
	"github.com/m04kA/SMC-BookingWizard/internal/usecase/contact_form"
)

const provisionalEventPrefix = "provisional-"

// Результаты сверки оптимистичного подтверждения для метрик
const (
	reconcileApplied  = "applied"
	reconcileDeferred = "deferred"
	reconcileStale    = "stale"
)

// Submit валидирует форму и отправляет бронирование.
//
// Блокирующий режим: один запрос к бэкенду, Confirmed при успехе,
// EnteringDetails с баннером и ErrSubmissionFailed при ошибке.
//
// Оптимистичный режим: сразу возвращает Submitting, через ConfirmDelay показывает
// подтверждение, запрос к бэкенду идет в фоне. Ошибка фонового запроса посетителю не показывается.
func (s *Service) Submit(ctx context.Context, sessionID string) (*View, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if sess.closed {
		sess.mu.Unlock()
		return nil, fmt.Errorf("%w: id=%s", ErrSessionNotFound, sessionID)
	}

	now := s.timeProvider.Now()
	sess.touch(now)

	current, ok := sess.state.(EnteringDetails)
	if !ok {
		state := sess.state
		sess.mu.Unlock()
		if _, inFlight := state.(Submitting); inFlight {
			return nil, ErrSubmissionInFlight
		}
		return nil, invalid(state, "submit")
	}

	if err := contact_form.Check(sess.form, s.cfg.ContactVariant); err != nil {
		var validationErr *contact_form.ValidationError
		if errors.As(err, &validationErr) {
			sess.fieldErrors = validationErr.Fields
		}
		sess.mu.Unlock()
		s.logger.Warn("Submit: validation failed for session id=%s: %v", sessionID, err)
		return nil, err
	}

	req := domain.BookingRequest{
		Identifier: sess.identifier,
		Datetime:   current.Option.Datetime,
		Contact:    sess.form.ToContactDetails(s.cfg.ContactVariant),
	}

	next, err := Submit(sess.state, req)
	if err != nil {
		sess.mu.Unlock()
		return nil, err
	}
	sess.state = next
	sess.banner = nil
	token := sess.supersede()

	s.metrics.ObserveSubmission(string(s.cfg.SubmissionMode))
	s.logger.Info("Submit: session id=%s submitting booking at %s (mode=%s)",
		sessionID, req.Datetime.Format(time.RFC3339), s.cfg.SubmissionMode)

	if s.cfg.SubmissionMode == domain.SubmissionOptimistic {
		sess.pacing = s.timeProvider.AfterFunc(s.cfg.ConfirmDelay, func() {
			s.confirmOptimistic(sess, token)
		})
		s.wg.Add(1)
		go s.submitInBackground(sess, token, req)

		view := sess.view(s.cfg)
		sess.mu.Unlock()
		return view, nil
	}

	sess.mu.Unlock()
	return s.submitBlocking(ctx, sess, token, req)
}

// submitBlocking ждет ответа бэкенда, шаг Submitting виден конкурентным запросам.
// Запрос к бэкенду не отменяется вместе с HTTP-запросом посетителя: его ограничивает только BackendTimeout.
func (s *Service) submitBlocking(ctx context.Context, sess *Session, token uint64, req domain.BookingRequest) (*View, error) {
	callCtx := context.WithoutCancel(ctx)
	if s.cfg.BackendTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(callCtx, s.cfg.BackendTimeout)
		defer cancel()
	}

	confirmation, callErr := s.scheduler.CreateBooking(callCtx, req)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.closed || sess.token != token {
		s.logger.Warn("submitBlocking: session id=%s was superseded while booking was in flight", sess.id)
		return nil, fmt.Errorf("%w: id=%s", ErrSessionNotFound, sess.id)
	}

	if callErr != nil {
		s.metrics.ObserveBackendResult(outcomeOf(callErr))
		s.logger.Error("submitBlocking: booking failed for session id=%s: %v", sess.id, callErr)

		next, err := SubmitFailed(sess.state)
		if err != nil {
			return nil, err
		}
		sess.state = next
		sess.banner = &domain.Banner{
			Kind:    domain.BannerSubmissionFailed,
			Message: bannerMessage(callErr, msgSubmissionFailed),
		}
		return sess.view(s.cfg), fmt.Errorf("%w: %v", ErrSubmissionFailed, callErr)
	}

	s.metrics.ObserveBackendResult(outcomeSuccess)

	booking := s.newBookingResult(req, sess.backend)
	booking.Reconcile(confirmation.EventID, confirmation.MeetingLink, confirmation.ConfirmedStart, confirmation.ConfirmedEnd)

	next, err := Confirm(sess.state, booking)
	if err != nil {
		return nil, err
	}
	sess.state = next

	s.logger.Info("submitBlocking: session id=%s confirmed event_id=%s", sess.id, booking.EventID)
	return sess.view(s.cfg), nil
}

// confirmOptimistic срабатывает по таймеру и показывает предварительное подтверждение
func (s *Service) confirmOptimistic(sess *Session, token uint64) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.closed || sess.token != token {
		return
	}
	current, ok := sess.state.(Submitting)
	if !ok {
		return
	}

	booking := s.newBookingResult(current.Request, sess.backend)
	booking.EventID = provisionalEventPrefix + uuid.NewString()
	booking.Provisional = true

	// Бэкенд успел ответить раньше таймера
	if sess.pending != nil {
		booking.Reconcile(sess.pending.EventID, sess.pending.MeetingLink, sess.pending.ConfirmedStart, sess.pending.ConfirmedEnd)
		sess.pending = nil
		s.metrics.ObserveReconciliation(reconcileApplied)
	}

	next, err := Confirm(sess.state, booking)
	if err != nil {
		s.logger.Error("confirmOptimistic: session id=%s: %v", sess.id, err)
		return
	}
	sess.state = next
	sess.pacing = nil

	s.logger.Info("confirmOptimistic: session id=%s confirmed (provisional=%t)", sess.id, booking.Provisional)
}

// submitInBackground выполняет запрос создания бронирования и сверяет результат
func (s *Service) submitInBackground(sess *Session, token uint64, req domain.BookingRequest) {
	defer s.wg.Done()

	ctx := context.Background()
	if s.cfg.BackendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.BackendTimeout)
		defer cancel()
	}

	confirmation, err := s.scheduler.CreateBooking(ctx, req)
	if err != nil {
		s.metrics.ObserveBackendResult(outcomeOf(err))
		s.logger.Error("submitInBackground: booking failed for session id=%s after optimistic confirmation: %v", sess.id, err)
		s.recordFailure(ctx, sess.id, token, req, err)
		return
	}
	s.metrics.ObserveBackendResult(outcomeSuccess)

	s.reconcile(sess, token, confirmation)
}

// reconcile применяет подтвержденные бэкендом поля к показанному бронированию.
// Устаревший ответ (после StartOver или закрытия сессии) отбрасывается.
func (s *Service) reconcile(sess *Session, token uint64, confirmation *scheduler.Confirmation) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.closed || sess.token != token {
		s.metrics.ObserveReconciliation(reconcileStale)
		s.logger.Warn("reconcile: dropping stale confirmation event_id=%s for session id=%s", confirmation.EventID, sess.id)
		return
	}

	switch current := sess.state.(type) {
	case Confirmed:
		current.Booking.Reconcile(confirmation.EventID, confirmation.MeetingLink, confirmation.ConfirmedStart, confirmation.ConfirmedEnd)
		s.metrics.ObserveReconciliation(reconcileApplied)
		s.logger.Info("reconcile: session id=%s reconciled event_id=%s", sess.id, confirmation.EventID)
	case Submitting:
		sess.pending = confirmation
		s.metrics.ObserveReconciliation(reconcileDeferred)
	default:
		s.metrics.ObserveReconciliation(reconcileStale)
		s.logger.Warn("reconcile: session id=%s is %s, confirmation dropped", sess.id, current.Step())
	}
}

func (s *Service) recordFailure(ctx context.Context, sessionID string, token uint64, req domain.BookingRequest, cause error) {
	failure := domain.SubmissionFailure{
		SessionID:  sessionID,
		Token:      token,
		Identifier: req.Identifier,
		Datetime:   req.Datetime,
		Name:       req.Contact.Name,
		Message:    cause.Error(),
		OccurredAt: s.timeProvider.Now(),
	}

	// Контекст запроса мог истечь вместе с таймаутом бэкенда
	if ctx.Err() != nil {
		ctx = context.Background()
	}
	if err := s.recorder.Record(ctx, failure); err != nil {
		s.logger.Error("recordFailure: failed to record failure for session id=%s: %v", sessionID, err)
	}
}

// newBookingResult строит бронирование из запроса. Конец встречи - начало плюс длительность слота.
func (s *Service) newBookingResult(req domain.BookingRequest, backend *domain.BackendConfig) *domain.BookingResult {
	duration := s.cfg.Hours.SlotDurationMinutes
	if backend != nil && backend.SlotDurationMinutes > 0 {
		duration = backend.SlotDurationMinutes
	}

	return &domain.BookingResult{
		Success:        true,
		ConfirmedStart: req.Datetime,
		ConfirmedEnd:   req.Datetime.Add(time.Duration(duration) * time.Minute),
		Name:           req.Contact.Name,
		Email:          req.Contact.Email,
		Phone:          req.Contact.Phone,
		Note:           req.Contact.Note,
	}
}
