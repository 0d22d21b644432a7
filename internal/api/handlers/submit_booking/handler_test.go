package submit_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingWizard/internal/api/handlers"
	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	"github.com/m04kA/SMC-BookingWizard/internal/service/wizard"
	"github.com/m04kA/SMC-BookingWizard/internal/usecase/contact_form"
	"github.com/m04kA/SMC-BookingWizard/pkg/logger"
)

type fakeService struct {
	view *wizard.View
	err  error
}

func (f *fakeService) Submit(ctx context.Context, sessionID string) (*wizard.View, error) {
	return f.view, f.err
}

func serve(t *testing.T, svc WizardService) *httptest.ResponseRecorder {
	t.Helper()
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/sessions/{sessionId}/booking", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodPost)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/sessions/sess-1/booking", nil))
	return rec
}

func TestHandle_Statuses(t *testing.T) {
	tests := []struct {
		name   string
		svc    *fakeService
		status int
	}{
		{
			name:   "blocking confirmed",
			svc:    &fakeService{view: &wizard.View{SessionID: "sess-1", Step: domain.StepConfirmed}},
			status: http.StatusCreated,
		},
		{
			name:   "optimistic submitting",
			svc:    &fakeService{view: &wizard.View{SessionID: "sess-1", Step: domain.StepSubmitting}},
			status: http.StatusAccepted,
		},
		{
			name:   "unknown session",
			svc:    &fakeService{err: fmt.Errorf("%w: id=sess-1", wizard.ErrSessionNotFound)},
			status: http.StatusNotFound,
		},
		{
			name:   "in flight",
			svc:    &fakeService{err: wizard.ErrSubmissionInFlight},
			status: http.StatusConflict,
		},
		{
			name:   "wrong step",
			svc:    &fakeService{err: fmt.Errorf("%w: cannot submit while choosing_date", wizard.ErrInvalidTransition)},
			status: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, serve(t, tt.svc).Code)
		})
	}
}

func TestHandle_ValidationFailed(t *testing.T) {
	rec := serve(t, &fakeService{err: &contact_form.ValidationError{Fields: contact_form.FieldErrors{
		contact_form.FieldName: "введите имя",
	}}})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, map[string]string{"name": "введите имя"}, resp.Fields)
}

func TestHandle_SubmissionFailedUsesBanner(t *testing.T) {
	rec := serve(t, &fakeService{
		view: &wizard.View{
			Step:   domain.StepEnteringDetails,
			Banner: &domain.Banner{Kind: domain.BannerSubmissionFailed, Message: "slot already taken"},
		},
		err: fmt.Errorf("%w: rejected", wizard.ErrSubmissionFailed),
	})

	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "slot already taken", resp.Error)
}
