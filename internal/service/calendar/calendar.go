package calendar

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
)

// Direction направление перелистывания месяца
type Direction string

const (
	DirectionPrev Direction = "prev"
	DirectionNext Direction = "next"
)

// Calendar хранит видимый месяц и строит по нему сетку дней.
// Не потокобезопасен: владелец (сессия визарда) сериализует доступ сам.
type Calendar struct {
	hours        domain.BusinessHours
	visibleMonth time.Time // первое число месяца, полночь в hours.Location
}

// New создает календарь, открытый на текущем месяце
func New(now time.Time, hours domain.BusinessHours) *Calendar {
	return &Calendar{
		hours:        hours,
		visibleMonth: monthStart(now.In(hours.Location)),
	}
}

// VisibleMonth возвращает первое число видимого месяца
func (c *Calendar) VisibleMonth() time.Time {
	return c.visibleMonth
}

// MonthLabel возвращает видимый месяц в формате YYYY-MM
func (c *Calendar) MonthLabel() string {
	return c.visibleMonth.Format(domain.MonthFormat)
}

// Days строит ячейки видимого месяца: ведущие пустые ячейки (неделя начинается с воскресенья),
// затем по одной ячейке на каждый день.
//
// Приоритет статусов:
//  1. дата раньше сегодняшней → past
//  2. сегодня и запись на сегодня закрыта → past
//  3. дата есть в availability → available
//  4. сегодня → today
//  5. иначе → unavailable
func (c *Calendar) Days(availability map[string]struct{}, selectedDate *string, now time.Time) []domain.DayCell {
	first := c.visibleMonth
	leading := int(first.Weekday())
	last := first.AddDate(0, 1, -1).Day()

	today := c.hours.Today(now)
	todayBlocked := c.hours.IsTodayBlocked(now)

	cells := make([]domain.DayCell, 0, leading+last)
	for i := 0; i < leading; i++ {
		cells = append(cells, domain.DayCell{Status: domain.DayEmpty})
	}

	for day := 1; day <= last; day++ {
		date := time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, c.hours.Location)
		dateStr := date.Format(domain.DateFormat)
		isToday := date.Equal(today)
		_, hasSlots := availability[dateStr]

		var status domain.DayStatus
		switch {
		case date.Before(today):
			status = domain.DayPast
		case isToday && todayBlocked:
			status = domain.DayPast
		case hasSlots:
			status = domain.DayAvailable
		case isToday:
			status = domain.DayToday
		default:
			status = domain.DayUnavailable
		}

		cells = append(cells, domain.DayCell{
			Date:       dateStr,
			Day:        day,
			Status:     status,
			IsToday:    isToday,
			IsSelected: selectedDate != nil && *selectedDate == dateStr,
		})
	}

	return cells
}

// StatusOf возвращает статус даты независимо от видимого месяца
func (c *Calendar) StatusOf(date string, availability map[string]struct{}, now time.Time) (domain.DayStatus, error) {
	parsed, err := c.hours.ParseDate(date)
	if err != nil {
		return domain.DayEmpty, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	probe := &Calendar{hours: c.hours, visibleMonth: monthStart(parsed)}
	for _, cell := range probe.Days(availability, nil, now) {
		if cell.Date == date {
			return cell.Status, nil
		}
	}
	return domain.DayEmpty, nil
}

// CanGoPrev ложно, когда виден текущий месяц: раньше "сейчас" листать нельзя
func (c *Calendar) CanGoPrev(now time.Time) bool {
	return c.visibleMonth.After(monthStart(now.In(c.hours.Location)))
}

// CanGoNext ложно, когда видимый месяц уже не раньше месяца, содержащего now + окно навигации
func (c *Calendar) CanGoNext(now time.Time) bool {
	limit := now.In(c.hours.Location).AddDate(0, 0, c.hours.NavigationWindowDays)
	return c.visibleMonth.Before(monthStart(limit))
}

// Navigate перелистывает видимый месяц
func (c *Calendar) Navigate(direction Direction, now time.Time) error {
	switch direction {
	case DirectionPrev:
		if !c.CanGoPrev(now) {
			return ErrNavigationOutOfRange
		}
		c.visibleMonth = c.visibleMonth.AddDate(0, -1, 0)
	case DirectionNext:
		if !c.CanGoNext(now) {
			return ErrNavigationOutOfRange
		}
		c.visibleMonth = c.visibleMonth.AddDate(0, 1, 0)
	default:
		return fmt.Errorf("%w: unknown direction %q", ErrNavigationOutOfRange, direction)
	}
	return nil
}

// Reset возвращает календарь на текущий месяц
func (c *Calendar) Reset(now time.Time) {
	c.visibleMonth = monthStart(now.In(c.hours.Location))
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
