package availability

import "errors"

var (
	// ErrInvalidDate возвращается, когда дата не в формате YYYY-MM-DD
	ErrInvalidDate = errors.New("availability: invalid date")

	// ErrUnknownMode возвращается при неизвестном режиме выбора времени
	ErrUnknownMode = errors.New("availability: unknown time selection mode")
)
