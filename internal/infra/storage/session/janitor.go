package session

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper - хранилище, умеющее удалять простаивающие сессии
type Sweeper interface {
	Sweep(now time.Time) int
	Len() int
}

// Janitor периодически удаляет простаивающие сессии по cron-расписанию
type Janitor struct {
	cron    *cron.Cron
	store   Sweeper
	metrics Metrics
	logger  Logger
	now     func() time.Time
}

// NewJanitor создает janitor. schedule - cron-выражение или дескриптор вида "@every 1m".
func NewJanitor(store Sweeper, schedule string, metrics Metrics, logger Logger) (*Janitor, error) {
	j := &Janitor{
		cron:    cron.New(),
		store:   store,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}

	if _, err := j.cron.AddFunc(schedule, j.RunOnce); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, schedule, err)
	}
	return j, nil
}

// AddJob добавляет в расписание еще одну периодическую задачу, например очистку журнала ошибок
func (j *Janitor) AddJob(schedule string, job func()) error {
	if _, err := j.cron.AddFunc(schedule, job); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidSchedule, schedule, err)
	}
	return nil
}

// Start запускает расписание в фоне
func (j *Janitor) Start() {
	j.cron.Start()
}

// Stop останавливает расписание и ждет завершения текущего прохода
func (j *Janitor) Stop(ctx context.Context) {
	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
		j.logger.Warn("Janitor: stop timed out: %v", ctx.Err())
	}
}

// RunOnce выполняет один проход очистки
func (j *Janitor) RunOnce() {
	removed := j.store.Sweep(j.now())
	active := j.store.Len()
	j.metrics.SetActiveSessions(active)

	if removed > 0 {
		j.logger.Info("Janitor: removed %d idle sessions, %d active", removed, active)
	}
}
