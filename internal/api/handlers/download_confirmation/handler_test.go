package download_confirmation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	"github.com/m04kA/SMC-BookingWizard/internal/service/wizard"
	"github.com/m04kA/SMC-BookingWizard/pkg/logger"
)

type fakeService struct {
	view *wizard.ConfirmationView
	err  error
}

func (f *fakeService) Confirmation(ctx context.Context, sessionID string) (*wizard.ConfirmationView, error) {
	return f.view, f.err
}

func serve(svc WizardService) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/sessions/{sessionId}/booking.ics", NewHandler(svc, logger.NewNop()).Handle).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/sess-1/booking.ics", nil))
	return rec
}

func TestHandle_Calendar(t *testing.T) {
	start := time.Date(2025, 6, 10, 2, 0, 0, 0, time.UTC)
	link := "https://meet.example.com/abc"

	rec := serve(&fakeService{view: &wizard.ConfirmationView{
		SessionID: "sess-1",
		OwnerName: "Owner",
		Booking: domain.BookingResult{
			Success:        true,
			EventID:        "evt-1",
			MeetingLink:    &link,
			ConfirmedStart: start,
			ConfirmedEnd:   start.Add(time.Hour),
			Name:           "Taro",
		},
	}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="booking-20250610T0200.ics"`, rec.Header().Get("Content-Disposition"))

	body := rec.Body.String()
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Contains(t, body, "UID:evt-1@booking-wizard")
	assert.Contains(t, body, "DTSTART:20250610T020000Z")
	assert.Contains(t, body, "STATUS:CONFIRMED")
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		svc    *fakeService
		status int
	}{
		{name: "unknown session", svc: &fakeService{err: wizard.ErrSessionNotFound}, status: http.StatusNotFound},
		{name: "not confirmed", svc: &fakeService{err: wizard.ErrNotConfirmed}, status: http.StatusConflict},
		{
			name:   "confirmed without start",
			svc:    &fakeService{view: &wizard.ConfirmationView{SessionID: "sess-1"}},
			status: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, serve(tt.svc).Code)
		})
	}
}
