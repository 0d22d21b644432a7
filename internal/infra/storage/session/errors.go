package session

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена или уже удалена по простою
	ErrSessionNotFound = errors.New("session storage: session not found")

	// ErrEmptyID возвращается при сохранении сессии без идентификатора
	ErrEmptyID = errors.New("session storage: empty session id")

	// ErrInvalidSchedule возвращается при некорректном расписании очистки
	ErrInvalidSchedule = errors.New("session storage: invalid sweep schedule")
)
