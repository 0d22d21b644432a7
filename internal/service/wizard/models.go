package wizard

import (
	"time"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	"github.com/m04kA/SMC-BookingWizard/internal/usecase/contact_form"
)

// Config настройки визарда для конкретного развертывания
type Config struct {
	Hours          domain.BusinessHours
	SubmissionMode domain.SubmissionMode
	TimeMode       domain.TimeSelectionMode
	ContactVariant contact_form.Variant
	// ConfirmDelay - пауза перед оптимистичным подтверждением
	ConfirmDelay time.Duration
	// BackendTimeout ограничивает фоновый запрос создания бронирования
	BackendTimeout time.Duration
}

// View снимок сессии для отображения активного шага
type View struct {
	SessionID      string
	Step           domain.WizardStep
	Selection      domain.Selection
	SelectedLabel  string // HH:MM выбранного времени
	OwnerName      string
	AvailableDates []string
	SlotCount      int
	Banner         *domain.Banner
	Form           contact_form.Form
	FieldErrors    contact_form.FieldErrors
	Booking        *domain.BookingResult
	SubmissionMode domain.SubmissionMode
	TimeMode       domain.TimeSelectionMode
	ContactVariant contact_form.Variant
	Timezone       string
}

// CalendarView сетка видимого месяца с флагами навигации
type CalendarView struct {
	Month     string
	Days      []domain.DayCell
	CanGoPrev bool
	CanGoNext bool
}

// TimeOptionsView варианты времени для выбранной даты
type TimeOptionsView struct {
	Date    string
	Options []domain.TimeOption
}

// ConfirmationView подтвержденное бронирование для выгрузки
type ConfirmationView struct {
	SessionID string
	OwnerName string
	Booking   domain.BookingResult
}
