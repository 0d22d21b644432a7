package list_failures

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	"github.com/m04kA/SMC-BookingWizard/pkg/logger"
)

type fakeRepo struct {
	limit    uint64
	failures []domain.SubmissionFailure
	err      error
}

func (f *fakeRepo) ListRecent(ctx context.Context, limit uint64) ([]domain.SubmissionFailure, error) {
	f.limit = limit
	return f.failures, f.err
}

func TestHandle_Limit(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		status    int
		wantLimit uint64
	}{
		{name: "default", query: "", status: http.StatusOK, wantLimit: defaultLimit},
		{name: "explicit", query: "?limit=10", status: http.StatusOK, wantLimit: 10},
		{name: "max", query: "?limit=500", status: http.StatusOK, wantLimit: maxLimit},
		{name: "zero", query: "?limit=0", status: http.StatusBadRequest},
		{name: "too large", query: "?limit=501", status: http.StatusBadRequest},
		{name: "negative", query: "?limit=-1", status: http.StatusBadRequest},
		{name: "not a number", query: "?limit=ten", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			rec := httptest.NewRecorder()
			NewHandler(repo, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/diagnostics/failures"+tt.query, nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.wantLimit, repo.limit)
		})
	}
}

func TestHandle_Body(t *testing.T) {
	occurred := time.Date(2025, 6, 10, 3, 0, 0, 0, time.UTC)
	repo := &fakeRepo{failures: []domain.SubmissionFailure{{
		ID:         7,
		SessionID:  "sess-1",
		Token:      2,
		Datetime:   occurred.Add(time.Hour),
		Name:       "Taro",
		Message:    "slot already taken",
		OccurredAt: occurred,
	}}}

	rec := httptest.NewRecorder()
	NewHandler(repo, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/diagnostics/failures", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp FailureListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, int64(7), resp.Failures[0].ID)
	assert.Equal(t, "slot already taken", resp.Failures[0].Message)
	assert.Equal(t, "2025-06-10T03:00:00Z", resp.Failures[0].OccurredAt)
	assert.Nil(t, resp.Failures[0].Identifier)
}

func TestHandle_RepositoryError(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(&fakeRepo{err: errors.New("connection refused")}, logger.NewNop()).
		Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/diagnostics/failures", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
