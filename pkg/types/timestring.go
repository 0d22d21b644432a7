package types

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTimeString строка не является временем в формате HH:MM
var ErrInvalidTimeString = errors.New("invalid time string format")

// ErrTimeOverflow результат вычисления выходит за пределы суток
var ErrTimeOverflow = errors.New("time string overflows the day")

const layout = "15:04"

// TimeString время суток в формате HH:MM.
// Нулевое значение ("") означает "не задано".
type TimeString string

// NewTimeString создает TimeString из часа и минуты t (в его часовом поясе)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(layout))
}

// NewTimeStringFromString разбирает и проверяет строку HH:MM
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// NewTimeStringFromMinutes создает TimeString из минут от полуночи
func NewTimeStringFromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes >= 24*60 {
		return "", fmt.Errorf("%w: %d minutes", ErrTimeOverflow, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)), nil
}

// Validate проверяет формат HH:MM
func (t TimeString) Validate() error {
	if len(t) != len(layout) {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	if _, err := time.Parse(layout, string(t)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return nil
}

// IsZero возвращает true, если значение не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

// String возвращает представление HH:MM
func (t TimeString) String() string {
	return string(t)
}

// Hour возвращает час или -1 для некорректного значения
func (t TimeString) Hour() int {
	parsed, err := time.Parse(layout, string(t))
	if err != nil {
		return -1
	}
	return parsed.Hour()
}

// Minutes возвращает минуты от полуночи или -1 для некорректного значения
func (t TimeString) Minutes() int {
	parsed, err := time.Parse(layout, string(t))
	if err != nil {
		return -1
	}
	return parsed.Hour()*60 + parsed.Minute()
}

// AddMinutes сдвигает t на заданное число минут.
// Результат за пределами суток - ошибка.
func (t TimeString) AddMinutes(minutes int) (TimeString, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	return NewTimeStringFromMinutes(t.Minutes() + minutes)
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return t.Minutes() < other.Minutes()
}

// IsAfter возвращает true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return t.Minutes() > other.Minutes()
}

// On соединяет t с календарной датой day в поясе loc
func (t TimeString) On(day time.Time, loc *time.Location) (time.Time, error) {
	if err := t.Validate(); err != nil {
		return time.Time{}, err
	}
	m := t.Minutes()
	y, mo, d := day.Date()
	return time.Date(y, mo, d, m/60, m%60, 0, 0, loc), nil
}
