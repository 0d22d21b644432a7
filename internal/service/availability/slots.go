package availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	"github.com/m04kA/SMC-BookingWizard/pkg/types"
)

// BuildDateAvailability возвращает множество дат, на которые у бэкенда есть хотя бы один слот
func BuildDateAvailability(slots domain.SlotCollection) map[string]struct{} {
	dates := make(map[string]struct{}, len(slots))
	for _, slot := range slots {
		dates[slot.Date] = struct{}{}
	}
	return dates
}

// TimeOptionsFor строит варианты времени начала встречи на указанную дату.
// Чистая функция от (date, slots, now, hours, mode): без скрытого состояния.
//
// Если дата - сегодня (в часовом поясе hours), отбрасываются варианты,
// чей час начала <= текущего часа: встреча должна начинаться строго в будущем.
func TimeOptionsFor(
	date string,
	slots domain.SlotCollection,
	now time.Time,
	hours domain.BusinessHours,
	mode domain.TimeSelectionMode,
) ([]domain.TimeOption, error) {
	day, err := hours.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	var options []domain.TimeOption
	switch mode {
	case domain.TimeFromSlots:
		options = optionsFromSlots(slots.OnDate(date), hours)
	case domain.TimeFromDropdown:
		options, err = generateTimeOptions(day, slots.OnDate(date), hours)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	// Если дата не сегодня - возвращаем все варианты
	if !isSameDay(day, now.In(hours.Location)) {
		return options, nil
	}

	currentHour := now.In(hours.Location).Hour()
	result := make([]domain.TimeOption, 0, len(options))
	for _, option := range options {
		if optionHour(option, hours) > currentHour {
			result = append(result, option)
		}
	}
	return result, nil
}

// FindOption ищет вариант по метке HH:MM или по абсолютному времени в RFC3339
func FindOption(options []domain.TimeOption, value string) (domain.TimeOption, bool) {
	for _, option := range options {
		if option.Time == value {
			return option, true
		}
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return domain.TimeOption{}, false
	}
	for _, option := range options {
		if option.Datetime.Equal(t) {
			return option, true
		}
	}
	return domain.TimeOption{}, false
}

// optionsFromSlots - вариант "конкретные слоты": ровно слоты даты в порядке получения
func optionsFromSlots(dateSlots []domain.Slot, hours domain.BusinessHours) []domain.TimeOption {
	options := make([]domain.TimeOption, 0, len(dateSlots))
	for _, slot := range dateSlots {
		label := slot.Time
		if _, err := types.NewTimeStringFromString(label); err != nil {
			label = types.NewTimeString(slot.Datetime.In(hours.Location)).String()
		}
		options = append(options, domain.TimeOption{
			Time:     label,
			Datetime: slot.Datetime,
			HasSlot:  true,
		})
	}
	return options
}

// generateTimeOptions - вариант "выпадающий список": все начала в рабочих часах
// с шагом IntervalMinutes. Наличие слота в том же часе - только пометка, выбор не ограничивает.
func generateTimeOptions(day time.Time, dateSlots []domain.Slot, hours domain.BusinessHours) ([]domain.TimeOption, error) {
	// В исключенные дни недели запись не ведется
	if hours.IsExcluded(day.Weekday()) {
		return []domain.TimeOption{}, nil
	}

	slotHours := make(map[int]struct{}, len(dateSlots))
	for _, slot := range dateSlots {
		slotHours[slotHour(slot, hours)] = struct{}{}
	}

	options := make([]domain.TimeOption, 0)
	for minutes := hours.StartHour * 60; minutes < hours.EndHour*60; minutes += hours.IntervalMinutes {
		start, err := types.NewTimeStringFromMinutes(minutes)
		if err != nil {
			return nil, err
		}
		datetime, err := start.On(day, hours.Location)
		if err != nil {
			return nil, err
		}
		_, hasSlot := slotHours[start.Hour()]
		options = append(options, domain.TimeOption{
			Time:     start.String(),
			Datetime: datetime,
			HasSlot:  hasSlot,
		})
	}
	return options, nil
}

// slotHour возвращает час начала слота: из метки HH:MM, либо из абсолютного времени
func slotHour(slot domain.Slot, hours domain.BusinessHours) int {
	if hour := types.TimeString(slot.Time).Hour(); hour >= 0 {
		return hour
	}
	return slot.Datetime.In(hours.Location).Hour()
}

func optionHour(option domain.TimeOption, hours domain.BusinessHours) int {
	if hour := types.TimeString(option.Time).Hour(); hour >= 0 {
		return hour
	}
	return option.Datetime.In(hours.Location).Hour()
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
