package scheduler

import "errors"

var (
	// ErrRejected возвращается, когда бэкенд ответил success=false
	ErrRejected = errors.New("scheduler client: request rejected by backend")

	// ErrInternal возвращается при внутренних ошибках клиента (сборка запроса, транспорт)
	ErrInternal = errors.New("scheduler client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от бэкенда
	ErrInvalidResponse = errors.New("scheduler client: invalid response")
)

// RejectedError - ответ бэкенда с success=false и его сообщением об ошибке
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return ErrRejected.Error()
	}
	return ErrRejected.Error() + ": " + e.Message
}

func (e *RejectedError) Unwrap() error {
	return ErrRejected
}
