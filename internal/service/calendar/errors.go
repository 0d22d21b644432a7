package calendar

import "errors"

var (
	// ErrNavigationOutOfRange возвращается при переходе за пределы доступного окна месяцев
	ErrNavigationOutOfRange = errors.New("calendar: month is outside the navigable window")

	// ErrInvalidDate возвращается при некорректном формате даты
	ErrInvalidDate = errors.New("calendar: invalid date")
)
