package diagnostics

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	"github.com/m04kA/SMC-BookingWizard/pkg/psqlbuilder"
)

const tableFailures = "booking_submission_failures"

// Repository журнал фоновых ошибок бронирования в PostgreSQL
type Repository struct {
	db      DBExecutor
	metrics Metrics
}

// NewRepository создает новый экземпляр репозитория журнала
func NewRepository(db DBExecutor, metrics Metrics) *Repository {
	return &Repository{db: db, metrics: metrics}
}

// Record сохраняет ошибку в журнал
func (r *Repository) Record(ctx context.Context, failure domain.SubmissionFailure) error {
	query, args, err := psqlbuilder.Insert(tableFailures).
		Columns(
			"session_id",
			"booking_token",
			"identifier",
			"booking_datetime",
			"contact_name",
			"message",
			"occurred_at",
		).
		Values(
			failure.SessionID,
			int64(failure.Token),
			toNullString(failure.Identifier),
			failure.Datetime.UTC(),
			failure.Name,
			failure.Message,
			failure.OccurredAt.UTC(),
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Record - build insert query: %v", ErrBuildQuery, err)
	}

	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		r.metrics.ObserveDiagnosticsRecorded("error")
		return fmt.Errorf("%w: Record - execute insert: %v", ErrExecQuery, err)
	}

	r.metrics.ObserveDiagnosticsRecorded("stored")
	return nil
}

// ListRecent возвращает последние ошибки, новые первыми
func (r *Repository) ListRecent(ctx context.Context, limit uint64) ([]domain.SubmissionFailure, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"session_id",
		"booking_token",
		"identifier",
		"booking_datetime",
		"contact_name",
		"message",
		"occurred_at",
	).
		From(tableFailures).
		OrderBy("occurred_at DESC", "id DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListRecent - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListRecent - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	failures := make([]domain.SubmissionFailure, 0)
	for rows.Next() {
		var (
			failure    domain.SubmissionFailure
			token      int64
			identifier sql.NullString
		)
		if err := rows.Scan(
			&failure.ID,
			&failure.SessionID,
			&token,
			&identifier,
			&failure.Datetime,
			&failure.Name,
			&failure.Message,
			&failure.OccurredAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListRecent - scan row: %v", ErrScanRow, err)
		}
		failure.Token = uint64(token)
		if identifier.Valid {
			value := identifier.String
			failure.Identifier = &value
		}
		failures = append(failures, failure)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListRecent - rows iteration: %v", ErrScanRow, err)
	}
	return failures, nil
}

// DeleteOlderThan удаляет записи старше before и возвращает их количество
func (r *Repository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	query, args, err := psqlbuilder.Delete(tableFailures).
		Where(squirrel.Lt{"occurred_at": before.UTC()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteOlderThan - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteOlderThan - execute delete: %v", ErrExecQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteOlderThan - rows affected: %v", ErrExecQuery, err)
	}
	return deleted, nil
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
