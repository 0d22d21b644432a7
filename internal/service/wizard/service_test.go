package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	sessionRepo "github.com/m04kA/SMC-BookingWizard/internal/infra/storage/session"
	"github.com/m04kA/SMC-BookingWizard/internal/integrations/scheduler"
	"github.com/m04kA/SMC-BookingWizard/internal/usecase/contact_form"
	"github.com/m04kA/SMC-BookingWizard/pkg/logger"
	"github.com/m04kA/SMC-BookingWizard/pkg/ptr"
)

// fakeScheduler отдает заранее заданные ответы. Если release не nil, CreateBooking ждет его закрытия
// или отмены контекста, как настоящий HTTP-клиент.
type fakeScheduler struct {
	mu           sync.Mutex
	availability *scheduler.Availability
	fetchErr     error
	confirmation *scheduler.Confirmation
	bookErr      error
	release      chan struct{}
	requests     []domain.BookingRequest
	identifiers  []*string
}

func (f *fakeScheduler) GetAvailableSlots(ctx context.Context, identifier *string) (*scheduler.Availability, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.identifiers = append(f.identifiers, identifier)
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.availability, nil
}

func (f *fakeScheduler) CreateBooking(ctx context.Context, booking domain.BookingRequest) (*scheduler.Confirmation, error) {
	f.mu.Lock()
	f.requests = append(f.requests, booking)
	release := f.release
	f.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.bookErr != nil {
		return nil, f.bookErr
	}
	return f.confirmation, nil
}

func (f *fakeScheduler) bookingCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type fakeTimer struct {
	f       func()
	stopped bool
	fired   bool
}

// fakeClock - управляемое время: таймеры срабатывают только по Fire
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{f: f}
	c.timers = append(c.timers, t)
	return &fakeTimerHandle{clock: c, timer: t}
}

// Fire запускает все ожидающие таймеры
func (c *fakeClock) Fire() {
	c.mu.Lock()
	var due []func()
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t.f)
		}
	}
	c.mu.Unlock()

	for _, f := range due {
		f()
	}
}

type fakeTimerHandle struct {
	clock *fakeClock
	timer *fakeTimer
}

func (h *fakeTimerHandle) Stop() bool {
	h.clock.mu.Lock()
	defer h.clock.mu.Unlock()
	if h.timer.fired || h.timer.stopped {
		return false
	}
	h.timer.stopped = true
	return true
}

type fakeMetrics struct {
	mu              sync.Mutex
	reconciliations []string
	backend         []string
}

func (m *fakeMetrics) SetActiveSessions(n int)         {}
func (m *fakeMetrics) ObserveSlotFetch(outcome string) {}
func (m *fakeMetrics) ObserveSubmission(mode string)   {}
func (m *fakeMetrics) ObserveBackendResult(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.backend = append(m.backend, outcome)
}
func (m *fakeMetrics) ObserveReconciliation(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reconciliations = append(m.reconciliations, result)
}

type fakeRecorder struct {
	mu       sync.Mutex
	failures []domain.SubmissionFailure
}

func (r *fakeRecorder) Record(ctx context.Context, failure domain.SubmissionFailure) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, failure)
	return nil
}

type testEnv struct {
	service   *Service
	scheduler *fakeScheduler
	clock     *fakeClock
	metrics   *fakeMetrics
	recorder  *fakeRecorder
	store     *sessionRepo.Store[*Session]
}

var slotStart = time.Date(2025, 6, 10, 11, 0, 0, 0, time.UTC)

func newTestEnv(t *testing.T, mode domain.SubmissionMode) *testEnv {
	t.Helper()

	hours := domain.BusinessHours{
		Location:             time.UTC,
		StartHour:            9,
		EndHour:              21,
		IntervalMinutes:      60,
		ExcludedWeekdays:     []time.Weekday{time.Saturday, time.Sunday},
		CutoffHour:           20,
		NavigationWindowDays: 90,
		SlotDurationMinutes:  60,
	}

	env := &testEnv{
		scheduler: &fakeScheduler{
			availability: &scheduler.Availability{
				Slots: domain.SlotCollection{{Date: "2025-06-10", Time: "11:00", Datetime: slotStart}},
				Config: &domain.BackendConfig{
					SlotDurationMinutes: 30,
					OwnerName:           "Owner",
				},
			},
			confirmation: &scheduler.Confirmation{
				EventID:     "evt-1",
				MeetingLink: ptr.Ptr("https://meet.example.com/abc"),
			},
		},
		clock:    &fakeClock{now: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)},
		metrics:  &fakeMetrics{},
		recorder: &fakeRecorder{},
		store:    sessionRepo.NewStore[*Session](time.Hour),
	}

	env.service = NewService(
		Config{
			Hours:          hours,
			SubmissionMode: mode,
			TimeMode:       domain.TimeFromSlots,
			ContactVariant: contact_form.VariantEmail,
			ConfirmDelay:   time.Second,
			BackendTimeout: 5 * time.Second,
		},
		env.scheduler,
		env.store,
		env.recorder,
		env.metrics,
		env.clock,
		logger.NewNop(),
	)
	return env
}

// toDetails проходит путь от старта до ввода контактов
func (e *testEnv) toDetails(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	view, err := e.service.Start(ctx, ptr.Ptr("U123"))
	require.NoError(t, err)
	id := view.SessionID

	view, err = e.service.SelectDate(ctx, id, "2025-06-10")
	require.NoError(t, err)
	require.Equal(t, domain.StepChoosingTime, view.Step)

	options, err := e.service.TimeOptions(ctx, id)
	require.NoError(t, err)
	require.Len(t, options.Options, 1)
	require.Equal(t, "11:00", options.Options[0].Time)

	view, err = e.service.SelectTime(ctx, id, "11:00")
	require.NoError(t, err)
	require.Equal(t, domain.StepEnteringDetails, view.Step)

	_, err = e.service.EditField(ctx, id, contact_form.FieldName, "Taro")
	require.NoError(t, err)
	_, err = e.service.EditField(ctx, id, contact_form.FieldEmail, "taro@example.com")
	require.NoError(t, err)
	return id
}

func TestService_EndToEndBlocking(t *testing.T) {
	env := newTestEnv(t, domain.SubmissionBlocking)
	ctx := context.Background()
	id := env.toDetails(t)

	view, err := env.service.Submit(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, domain.StepConfirmed, view.Step)
	require.NotNil(t, view.Booking)
	assert.Equal(t, "Taro", view.Booking.Name)
	assert.Equal(t, "evt-1", view.Booking.EventID)
	assert.False(t, view.Booking.Provisional)
	assert.Equal(t, "https://meet.example.com/abc", *view.Booking.MeetingLink)
	assert.True(t, view.Booking.ConfirmedStart.Equal(slotStart))
	assert.True(t, view.Booking.ConfirmedEnd.Equal(slotStart.Add(30*time.Minute)))
	assert.Equal(t, "Owner", view.OwnerName)

	require.Len(t, env.scheduler.requests, 1)
	req := env.scheduler.requests[0]
	assert.Equal(t, "U123", *req.Identifier)
	assert.True(t, req.Datetime.Equal(slotStart))
	assert.Equal(t, "taro@example.com", req.Contact.Email)

	confirmation, err := env.service.Confirmation(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Owner", confirmation.OwnerName)
	assert.Equal(t, "evt-1", confirmation.Booking.EventID)
}

func TestService_BlockingFailureShowsBanner(t *testing.T) {
	env := newTestEnv(t, domain.SubmissionBlocking)
	env.scheduler.bookErr = &scheduler.RejectedError{Message: "slot already taken"}
	id := env.toDetails(t)

	view, err := env.service.Submit(context.Background(), id)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSubmissionFailed)

	require.NotNil(t, view)
	assert.Equal(t, domain.StepEnteringDetails, view.Step)
	require.NotNil(t, view.Banner)
	assert.Equal(t, domain.BannerSubmissionFailed, view.Banner.Kind)
	assert.Equal(t, "slot already taken", view.Banner.Message)
	assert.Equal(t, "Taro", view.Form.Name)
	assert.Empty(t, env.recorder.failures)

	view, err = env.service.DismissError(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, view.Banner)
}

func TestService_BlockingSubmitSurvivesCallerCancel(t *testing.T) {
	env := newTestEnv(t, domain.SubmissionBlocking)
	env.scheduler.release = make(chan struct{})
	id := env.toDetails(t)

	ctx, cancel := context.WithCancel(context.Background())
	type result struct {
		view *View
		err  error
	}
	done := make(chan result, 1)
	go func() {
		view, err := env.service.Submit(ctx, id)
		done <- result{view: view, err: err}
	}()

	require.Eventually(t, func() bool { return env.scheduler.bookingCount() == 1 }, time.Second, 5*time.Millisecond)

	// посетитель ушел, пока бэкенд создает бронирование
	cancel()
	close(env.scheduler.release)

	var res result
	select {
	case res = <-done:
	case <-time.After(time.Second):
		t.Fatal("submit did not return")
	}
	require.NoError(t, res.err)
	assert.Equal(t, domain.StepConfirmed, res.view.Step)
	assert.Nil(t, res.view.Banner)

	view, err := env.service.View(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StepConfirmed, view.Step)
	assert.Equal(t, "evt-1", view.Booking.EventID)
}

func TestService_OptimisticReconcilesMeetingLink(t *testing.T) {
	env := newTestEnv(t, domain.SubmissionOptimistic)
	env.scheduler.release = make(chan struct{})
	ctx := context.Background()
	id := env.toDetails(t)

	view, err := env.service.Submit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StepSubmitting, view.Step)

	_, err = env.service.Submit(ctx, id)
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	env.clock.Fire()

	view, err = env.service.View(ctx, id)
	require.NoError(t, err)
	require.Equal(t, domain.StepConfirmed, view.Step)
	require.NotNil(t, view.Booking)
	assert.True(t, view.Booking.Provisional)
	assert.Nil(t, view.Booking.MeetingLink)
	assert.Contains(t, view.Booking.EventID, provisionalEventPrefix)
	before := view

	close(env.scheduler.release)
	require.NoError(t, env.service.Wait(ctx))

	view, err = env.service.View(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, view.Booking.MeetingLink)
	assert.Equal(t, "https://meet.example.com/abc", *view.Booking.MeetingLink)
	assert.Equal(t, "evt-1", view.Booking.EventID)
	assert.False(t, view.Booking.Provisional)

	assert.Equal(t, before.Booking.Name, view.Booking.Name)
	assert.Equal(t, *before.Selection.Date, *view.Selection.Date)
	assert.True(t, before.Selection.Time.Equal(*view.Selection.Time))
	assert.True(t, before.Booking.ConfirmedStart.Equal(view.Booking.ConfirmedStart))
	assert.Equal(t, []string{reconcileApplied}, env.metrics.reconciliations)
}

func TestService_OptimisticBackendFasterThanTimer(t *testing.T) {
	env := newTestEnv(t, domain.SubmissionOptimistic)
	ctx := context.Background()
	id := env.toDetails(t)

	_, err := env.service.Submit(ctx, id)
	require.NoError(t, err)
	require.NoError(t, env.service.Wait(ctx))

	view, err := env.service.View(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StepSubmitting, view.Step)

	env.clock.Fire()

	view, err = env.service.View(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StepConfirmed, view.Step)
	assert.Equal(t, "evt-1", view.Booking.EventID)
	assert.Equal(t, "https://meet.example.com/abc", *view.Booking.MeetingLink)
	assert.Equal(t, []string{reconcileDeferred, reconcileApplied}, env.metrics.reconciliations)
}

func TestService_OptimisticFailureIsRecordedNotShown(t *testing.T) {
	env := newTestEnv(t, domain.SubmissionOptimistic)
	env.scheduler.bookErr = errors.New("connection reset")
	ctx := context.Background()
	id := env.toDetails(t)

	_, err := env.service.Submit(ctx, id)
	require.NoError(t, err)
	require.NoError(t, env.service.Wait(ctx))
	env.clock.Fire()

	view, err := env.service.View(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StepConfirmed, view.Step)
	assert.Nil(t, view.Banner)

	require.Len(t, env.recorder.failures, 1)
	failure := env.recorder.failures[0]
	assert.Equal(t, id, failure.SessionID)
	assert.Equal(t, "Taro", failure.Name)
	assert.True(t, failure.Datetime.Equal(slotStart))
	assert.Contains(t, failure.Message, "connection reset")
	assert.Equal(t, []string{outcomeError}, env.metrics.backend)
}

func TestService_StaleReconciliationAfterStartOver(t *testing.T) {
	env := newTestEnv(t, domain.SubmissionOptimistic)
	env.scheduler.release = make(chan struct{})
	ctx := context.Background()
	id := env.toDetails(t)

	_, err := env.service.Submit(ctx, id)
	require.NoError(t, err)
	env.clock.Fire()

	view, err := env.service.StartOver(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StepChoosingDate, view.Step)

	close(env.scheduler.release)
	require.NoError(t, env.service.Wait(ctx))

	view, err = env.service.View(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StepChoosingDate, view.Step)
	assert.Nil(t, view.Booking)
	assert.Nil(t, view.Selection.Date)
	assert.Nil(t, view.Selection.Time)
	assert.Equal(t, []string{reconcileStale}, env.metrics.reconciliations)
}

func TestService_StartOverResetsSelectionAndBooking(t *testing.T) {
	env := newTestEnv(t, domain.SubmissionBlocking)
	ctx := context.Background()
	id := env.toDetails(t)

	_, err := env.service.Submit(ctx, id)
	require.NoError(t, err)

	_, err = env.service.NavigateCalendar(ctx, id, "next")
	require.NoError(t, err)

	view, err := env.service.StartOver(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, domain.StepChoosingDate, view.Step)
	assert.Nil(t, view.Selection.Date)
	assert.Nil(t, view.Selection.Time)
	assert.Nil(t, view.Booking)
	assert.Empty(t, view.Form.Name)

	cal, err := env.service.Calendar(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "2025-06", cal.Month)

	_, err = env.service.Confirmation(ctx, id)
	assert.ErrorIs(t, err, ErrNotConfirmed)
}

func TestService_StartOverOnlyAfterConfirmation(t *testing.T) {
	env := newTestEnv(t, domain.SubmissionBlocking)
	id := env.toDetails(t)

	_, err := env.service.StartOver(context.Background(), id)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_FetchFailureStillStarts(t *testing.T) {
	env := newTestEnv(t, domain.SubmissionBlocking)
	env.scheduler.fetchErr = errors.New("timeout")
	ctx := context.Background()

	view, err := env.service.Start(ctx, nil)
	require.NoError(t, err)

	assert.Equal(t, domain.StepChoosingDate, view.Step)
	assert.Zero(t, view.SlotCount)
	assert.Empty(t, view.AvailableDates)
	require.NotNil(t, view.Banner)
	assert.Equal(t, domain.BannerFetchFailed, view.Banner.Kind)
	assert.Equal(t, msgFetchFailed, view.Banner.Message)
	assert.Nil(t, env.scheduler.identifiers[0])

	view, err = env.service.DismissError(ctx, view.SessionID)
	require.NoError(t, err)
	assert.Nil(t, view.Banner)
}

func TestService_ValidationErrorsClearOnEdit(t *testing.T) {
	env := newTestEnv(t, domain.SubmissionBlocking)
	ctx := context.Background()
	id := env.toDetails(t)

	_, err := env.service.EditField(ctx, id, contact_form.FieldName, "  ")
	require.NoError(t, err)
	_, err = env.service.EditField(ctx, id, contact_form.FieldEmail, "not-an-email")
	require.NoError(t, err)

	_, err = env.service.Submit(ctx, id)
	require.Error(t, err)
	assert.ErrorIs(t, err, contact_form.ErrValidationFailed)
	assert.Empty(t, env.scheduler.requests)

	view, err := env.service.View(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StepEnteringDetails, view.Step)
	assert.Len(t, view.FieldErrors, 2)

	view, err = env.service.EditField(ctx, id, contact_form.FieldEmail, "taro@")
	require.NoError(t, err)
	assert.Contains(t, view.FieldErrors, contact_form.FieldName)
	assert.NotContains(t, view.FieldErrors, contact_form.FieldEmail)
}

func TestService_SelectDate(t *testing.T) {
	env := newTestEnv(t, domain.SubmissionBlocking)
	ctx := context.Background()

	view, err := env.service.Start(ctx, nil)
	require.NoError(t, err)
	id := view.SessionID

	_, err = env.service.SelectDate(ctx, id, "2025-05-30")
	assert.ErrorIs(t, err, ErrDateNotSelectable)

	_, err = env.service.SelectDate(ctx, id, "30.05.2025")
	assert.ErrorIs(t, err, ErrInvalidDate)

	// дата без слотов выбирается, но вариантов времени нет
	view, err = env.service.SelectDate(ctx, id, "2025-06-11")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-11", *view.Selection.Date)
	assert.Nil(t, view.Selection.Time)

	options, err := env.service.TimeOptions(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, options.Options)

	_, err = env.service.SelectTime(ctx, id, "11:00")
	assert.ErrorIs(t, err, ErrTimeNotAvailable)
}

func TestService_BackThenNewDateClearsTime(t *testing.T) {
	env := newTestEnv(t, domain.SubmissionBlocking)
	ctx := context.Background()
	id := env.toDetails(t)

	view, err := env.service.Back(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StepChoosingTime, view.Step)
	assert.Equal(t, "2025-06-10", *view.Selection.Date)
	assert.Nil(t, view.Selection.Time)

	_, err = env.service.Back(ctx, id)
	require.NoError(t, err)

	view, err = env.service.SelectDate(ctx, id, "2025-06-12")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-12", *view.Selection.Date)
	assert.Nil(t, view.Selection.Time)
}

func TestService_CalendarNavigation(t *testing.T) {
	env := newTestEnv(t, domain.SubmissionBlocking)
	ctx := context.Background()

	view, err := env.service.Start(ctx, nil)
	require.NoError(t, err)
	id := view.SessionID

	cal, err := env.service.Calendar(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "2025-06", cal.Month)
	assert.False(t, cal.CanGoPrev)
	assert.True(t, cal.CanGoNext)

	_, err = env.service.NavigateCalendar(ctx, id, "prev")
	assert.ErrorIs(t, err, ErrNavigationOutOfRange)

	cal, err = env.service.NavigateCalendar(ctx, id, "next")
	require.NoError(t, err)
	assert.Equal(t, "2025-07", cal.Month)
	assert.True(t, cal.CanGoPrev)
}

func TestService_UnknownSession(t *testing.T) {
	env := newTestEnv(t, domain.SubmissionBlocking)

	_, err := env.service.View(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = env.service.Submit(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestService_ClosedSessionDropsReconciliation(t *testing.T) {
	env := newTestEnv(t, domain.SubmissionOptimistic)
	env.scheduler.release = make(chan struct{})
	ctx := context.Background()
	id := env.toDetails(t)

	_, err := env.service.Submit(ctx, id)
	require.NoError(t, err)

	require.NoError(t, env.service.Close(ctx, id))
	env.clock.Fire()
	close(env.scheduler.release)
	require.NoError(t, env.service.Wait(ctx))

	_, err = env.service.View(ctx, id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, []string{reconcileStale}, env.metrics.reconciliations)
}
