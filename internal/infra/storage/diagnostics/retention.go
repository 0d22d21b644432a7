package diagnostics

import (
	"context"
	"time"
)

// Retention периодически удаляет старые записи журнала
type Retention struct {
	repo    *Repository
	maxAge  time.Duration
	timeout time.Duration
	logger  Logger
	now     func() time.Time
}

// NewRetention создает задачу очистки журнала
func NewRetention(repo *Repository, maxAge, timeout time.Duration, logger Logger) *Retention {
	return &Retention{
		repo:    repo,
		maxAge:  maxAge,
		timeout: timeout,
		logger:  logger,
		now:     time.Now,
	}
}

// RunOnce удаляет записи старше maxAge
func (r *Retention) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	deleted, err := r.repo.DeleteOlderThan(ctx, r.now().Add(-r.maxAge))
	if err != nil {
		r.logger.Error("Retention: failed to delete old failures: %v", err)
		return
	}
	if deleted > 0 {
		r.logger.Info("Retention: deleted %d failures older than %s", deleted, r.maxAge)
	}
}
