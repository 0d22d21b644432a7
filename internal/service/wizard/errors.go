package wizard

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена или уже истекла
	ErrSessionNotFound = errors.New("wizard: session not found")

	// ErrInvalidTransition возвращается, когда действие недопустимо на текущем шаге
	ErrInvalidTransition = errors.New("wizard: action is not allowed on the current step")

	// ErrDateNotSelectable возвращается при выборе прошедшей или пустой даты
	ErrDateNotSelectable = errors.New("wizard: date cannot be selected")

	// ErrInvalidDate возвращается при некорректном формате даты
	ErrInvalidDate = errors.New("wizard: invalid date")

	// ErrNavigationOutOfRange возвращается при перелистывании календаря за пределы окна записи
	ErrNavigationOutOfRange = errors.New("wizard: calendar navigation out of range")

	// ErrTimeNotAvailable возвращается, когда выбранного времени нет среди вариантов даты
	ErrTimeNotAvailable = errors.New("wizard: time is not among the options of the selected date")

	// ErrSubmissionInFlight возвращается при повторной отправке, пока предыдущая не завершилась
	ErrSubmissionInFlight = errors.New("wizard: submission already in flight")

	// ErrSubmissionFailed возвращается, когда бэкенд не создал бронирование (блокирующий режим)
	ErrSubmissionFailed = errors.New("wizard: booking submission failed")

	// ErrNotConfirmed возвращается при запросе бронирования до шага подтверждения
	ErrNotConfirmed = errors.New("wizard: booking is not confirmed yet")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("wizard: internal error")
)
