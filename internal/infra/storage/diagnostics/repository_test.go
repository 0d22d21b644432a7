package diagnostics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	"github.com/m04kA/SMC-BookingWizard/pkg/logger"
	"github.com/m04kA/SMC-BookingWizard/pkg/ptr"
)

type fakeMetrics struct {
	statuses []string
}

func (m *fakeMetrics) ObserveDiagnosticsRecorded(status string) {
	m.statuses = append(m.statuses, status)
}

func testFailure() domain.SubmissionFailure {
	return domain.SubmissionFailure{
		SessionID:  "sess-1",
		Token:      3,
		Identifier: ptr.Ptr("U123"),
		Datetime:   time.Date(2025, 6, 10, 11, 0, 0, 0, time.UTC),
		Name:       "Taro",
		Message:    "scheduler client: request rejected by backend: slot already taken",
		OccurredAt: time.Date(2025, 6, 1, 10, 0, 1, 0, time.UTC),
	}
}

func TestRepository_Record(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	metrics := &fakeMetrics{}
	repo := NewRepository(db, metrics)
	failure := testFailure()

	mock.ExpectQuery("INSERT INTO booking_submission_failures").
		WithArgs("sess-1", int64(3), "U123", failure.Datetime, "Taro", failure.Message, failure.OccurredAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	require.NoError(t, repo.Record(context.Background(), failure))
	assert.Equal(t, []string{"stored"}, metrics.statuses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_RecordWithoutIdentifier(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db, &fakeMetrics{})
	failure := testFailure()
	failure.Identifier = nil

	mock.ExpectQuery("INSERT INTO booking_submission_failures").
		WithArgs("sess-1", int64(3), nil, sqlmock.AnyArg(), "Taro", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	require.NoError(t, repo.Record(context.Background(), failure))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_RecordError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	metrics := &fakeMetrics{}
	repo := NewRepository(db, metrics)

	mock.ExpectQuery("INSERT INTO booking_submission_failures").
		WillReturnError(errors.New("connection refused"))

	err = repo.Record(context.Background(), testFailure())
	assert.ErrorIs(t, err, ErrExecQuery)
	assert.Equal(t, []string{"error"}, metrics.statuses)
}

func TestRepository_ListRecent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db, &fakeMetrics{})
	failure := testFailure()

	rows := sqlmock.NewRows([]string{
		"id", "session_id", "booking_token", "identifier", "booking_datetime", "contact_name", "message", "occurred_at",
	}).
		AddRow(2, "sess-2", 1, nil, failure.Datetime, "Hanako", "timeout", failure.OccurredAt.Add(time.Minute)).
		AddRow(1, "sess-1", 3, "U123", failure.Datetime, "Taro", failure.Message, failure.OccurredAt)

	mock.ExpectQuery("SELECT (.+) FROM booking_submission_failures ORDER BY occurred_at DESC, id DESC LIMIT 10").
		WillReturnRows(rows)

	failures, err := repo.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, failures, 2)

	assert.Equal(t, int64(2), failures[0].ID)
	assert.Nil(t, failures[0].Identifier)
	assert.Equal(t, "Hanako", failures[0].Name)

	assert.Equal(t, uint64(3), failures[1].Token)
	require.NotNil(t, failures[1].Identifier)
	assert.Equal(t, "U123", *failures[1].Identifier)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteOlderThan(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db, &fakeMetrics{})
	before := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec("DELETE FROM booking_submission_failures WHERE occurred_at <").
		WithArgs(before).
		WillReturnResult(sqlmock.NewResult(0, 5))

	deleted, err := repo.DeleteOlderThan(context.Background(), before)
	require.NoError(t, err)
	assert.Equal(t, int64(5), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRetention_RunOnce(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	retention := NewRetention(NewRepository(db, &fakeMetrics{}), 30*24*time.Hour, time.Second, logger.NewNop())
	retention.now = func() time.Time { return now }

	mock.ExpectExec("DELETE FROM booking_submission_failures").
		WithArgs(now.Add(-30 * 24 * time.Hour)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	retention.RunOnce()
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogRecorder_Record(t *testing.T) {
	metrics := &fakeMetrics{}
	recorder := NewLogRecorder(logger.NewNop(), metrics)

	require.NoError(t, recorder.Record(context.Background(), testFailure()))
	assert.Equal(t, []string{"logged"}, metrics.statuses)
}
