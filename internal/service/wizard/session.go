package wizard

import (
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	"github.com/m04kA/SMC-BookingWizard/internal/integrations/scheduler"
	"github.com/m04kA/SMC-BookingWizard/internal/service/availability"
	"github.com/m04kA/SMC-BookingWizard/internal/service/calendar"
	"github.com/m04kA/SMC-BookingWizard/internal/usecase/contact_form"
)

// Session - состояние одного прохода визарда.
// Все изменения идут под mu: HTTP-запросы и фоновые завершения бронирования конкурируют за сессию.
type Session struct {
	mu sync.Mutex

	id           string
	identifier   *string
	createdAt    time.Time
	lastActivity time.Time

	slots        domain.SlotCollection
	availability map[string]struct{}
	backend      *domain.BackendConfig

	state       State
	calendar    *calendar.Calendar
	banner      *domain.Banner
	form        contact_form.Form
	fieldErrors contact_form.FieldErrors

	// token растет при каждой отправке и каждом StartOver.
	// Таймер подтверждения и фоновое завершение применяются, только пока token совпадает.
	token   uint64
	pending *scheduler.Confirmation
	pacing  Timer
	closed  bool
}

func newSession(id string, identifier *string, now time.Time, hours domain.BusinessHours) *Session {
	return &Session{
		id:           id,
		identifier:   identifier,
		createdAt:    now,
		lastActivity: now,
		availability: map[string]struct{}{},
		state:        ChoosingDate{},
		calendar:     calendar.New(now, hours),
		fieldErrors:  contact_form.FieldErrors{},
	}
}

// ID возвращает идентификатор сессии
func (s *Session) ID() string {
	return s.id
}

// LastActivity возвращает время последнего действия посетителя
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// Close останавливает таймер подтверждения и делает все незавершенные операции устаревшими
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.supersede()
}

// supersede отменяет текущий контекст бронирования. Вызывается под mu.
func (s *Session) supersede() uint64 {
	s.token++
	s.pending = nil
	if s.pacing != nil {
		s.pacing.Stop()
		s.pacing = nil
	}
	return s.token
}

func (s *Session) touch(now time.Time) {
	s.lastActivity = now
}

func (s *Session) setSlots(slots domain.SlotCollection, backend *domain.BackendConfig) {
	s.slots = slots
	s.backend = backend
	s.availability = availability.BuildDateAvailability(slots)
}

// view строит снимок сессии. Вызывается под mu.
func (s *Session) view(cfg Config) *View {
	selection := SelectionOf(s.state)

	v := &View{
		SessionID:      s.id,
		Step:           s.state.Step(),
		Selection:      selection,
		SlotCount:      len(s.slots),
		AvailableDates: sortedDates(s.availability),
		Form:           s.form,
		FieldErrors:    make(contact_form.FieldErrors, len(s.fieldErrors)),
		SubmissionMode: cfg.SubmissionMode,
		TimeMode:       cfg.TimeMode,
		ContactVariant: cfg.ContactVariant,
		Timezone:       cfg.Hours.Location.String(),
	}
	for field, msg := range s.fieldErrors {
		v.FieldErrors[field] = msg
	}
	if s.backend != nil {
		v.OwnerName = s.backend.OwnerName
	}
	if s.banner != nil {
		banner := *s.banner
		v.Banner = &banner
	}
	if option, ok := selectedOption(s.state); ok {
		v.SelectedLabel = option.Time
	}
	if confirmed, ok := s.state.(Confirmed); ok && confirmed.Booking != nil {
		booking := *confirmed.Booking
		v.Booking = &booking
	}
	return v
}

func selectedOption(s State) (domain.TimeOption, bool) {
	switch current := s.(type) {
	case EnteringDetails:
		return current.Option, true
	case Submitting:
		return current.Option, true
	case Confirmed:
		return current.Option, true
	default:
		return domain.TimeOption{}, false
	}
}

func sortedDates(set map[string]struct{}) []string {
	dates := make([]string, 0, len(set))
	for date := range set {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}
