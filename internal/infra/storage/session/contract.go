package session

import "time"

// Entry - то, что хранится в Store: сессия с идентификатором и временем последней активности
type Entry interface {
	ID() string
	LastActivity() time.Time
	Close()
}

// Metrics интерфейс метрик хранилища
type Metrics interface {
	SetActiveSessions(n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
