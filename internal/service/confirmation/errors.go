package confirmation

import "errors"

var (
	// ErrNotConfirmed возвращается для бронирования без времени начала
	ErrNotConfirmed = errors.New("confirmation: booking has no confirmed start")

	// ErrEncode возвращается при ошибке кодирования календаря
	ErrEncode = errors.New("confirmation: failed to encode calendar")
)
