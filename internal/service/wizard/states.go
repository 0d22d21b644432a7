package wizard

import (
	"fmt"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	"github.com/m04kA/SMC-BookingWizard/pkg/ptr"
)

// State - шаг визарда вместе с данными, допустимыми только на этом шаге.
// Невозможные комбинации (например, Submitting без выбранного времени) не выражаются типами.
type State interface {
	Step() domain.WizardStep
}

// ChoosingDate - выбор даты в календаре
type ChoosingDate struct{}

// ChoosingTime - выбор времени на выбранную дату
type ChoosingTime struct {
	Date string
}

// EnteringDetails - ввод контактных данных
type EnteringDetails struct {
	Date   string
	Option domain.TimeOption
}

// Submitting - бронирование отправлено, ответ еще не применен
type Submitting struct {
	Date    string
	Option  domain.TimeOption
	Request domain.BookingRequest
}

// Confirmed - подтверждение показано посетителю
type Confirmed struct {
	Date    string
	Option  domain.TimeOption
	Booking *domain.BookingResult
}

func (ChoosingDate) Step() domain.WizardStep    { return domain.StepChoosingDate }
func (ChoosingTime) Step() domain.WizardStep    { return domain.StepChoosingTime }
func (EnteringDetails) Step() domain.WizardStep { return domain.StepEnteringDetails }
func (Submitting) Step() domain.WizardStep      { return domain.StepSubmitting }
func (Confirmed) Step() domain.WizardStep       { return domain.StepConfirmed }

// SelectDate: ChoosingDate → ChoosingTime. Выбранное время при этом всегда сбрасывается.
func SelectDate(s State, date string) (State, error) {
	if _, ok := s.(ChoosingDate); !ok {
		return s, invalid(s, "select date")
	}
	return ChoosingTime{Date: date}, nil
}

// SelectTime: ChoosingTime → EnteringDetails. Выбранная дата не меняется.
func SelectTime(s State, option domain.TimeOption) (State, error) {
	current, ok := s.(ChoosingTime)
	if !ok {
		return s, invalid(s, "select time")
	}
	return EnteringDetails{Date: current.Date, Option: option}, nil
}

// Back: ChoosingTime → ChoosingDate (сбрасывает дату), EnteringDetails → ChoosingTime (сбрасывает только время)
func Back(s State) (State, error) {
	switch current := s.(type) {
	case ChoosingTime:
		return ChoosingDate{}, nil
	case EnteringDetails:
		return ChoosingTime{Date: current.Date}, nil
	default:
		return s, invalid(s, "go back")
	}
}

// Submit: EnteringDetails → Submitting
func Submit(s State, req domain.BookingRequest) (State, error) {
	switch current := s.(type) {
	case EnteringDetails:
		return Submitting{Date: current.Date, Option: current.Option, Request: req}, nil
	case Submitting:
		return s, ErrSubmissionInFlight
	default:
		return s, invalid(s, "submit")
	}
}

// SubmitFailed: Submitting → EnteringDetails (блокирующий режим, бэкенд отказал)
func SubmitFailed(s State) (State, error) {
	current, ok := s.(Submitting)
	if !ok {
		return s, invalid(s, "fail submission")
	}
	return EnteringDetails{Date: current.Date, Option: current.Option}, nil
}

// Confirm: Submitting → Confirmed
func Confirm(s State, booking *domain.BookingResult) (State, error) {
	current, ok := s.(Submitting)
	if !ok {
		return s, invalid(s, "confirm")
	}
	return Confirmed{Date: current.Date, Option: current.Option, Booking: booking}, nil
}

// StartOver: Confirmed → ChoosingDate, сбрасывает дату, время и результат бронирования
func StartOver(s State) (State, error) {
	if _, ok := s.(Confirmed); !ok {
		return s, invalid(s, "start over")
	}
	return ChoosingDate{}, nil
}

// SelectionOf возвращает текущий выбор посетителя для состояния
func SelectionOf(s State) domain.Selection {
	switch current := s.(type) {
	case ChoosingTime:
		return domain.Selection{Date: ptr.Ptr(current.Date)}
	case EnteringDetails:
		return domain.Selection{Date: ptr.Ptr(current.Date), Time: ptr.Ptr(current.Option.Datetime)}
	case Submitting:
		return domain.Selection{Date: ptr.Ptr(current.Date), Time: ptr.Ptr(current.Option.Datetime)}
	case Confirmed:
		return domain.Selection{Date: ptr.Ptr(current.Date), Time: ptr.Ptr(current.Option.Datetime)}
	default:
		return domain.Selection{}
	}
}

func invalid(s State, action string) error {
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidTransition, action, s.Step())
}

