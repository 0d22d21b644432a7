package handlers

import (
	"time"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
	"github.com/m04kA/SMC-BookingWizard/internal/service/wizard"
)

// SessionResponse снимок сессии визарда
type SessionResponse struct {
	SessionID      string            `json:"sessionId"`
	Step           string            `json:"step"`
	SelectedDate   *string           `json:"selectedDate,omitempty"`
	SelectedTime   *string           `json:"selectedTime,omitempty"` // RFC3339
	SelectedLabel  string            `json:"selectedLabel,omitempty"`
	OwnerName      string            `json:"ownerName,omitempty"`
	AvailableDates []string          `json:"availableDates"`
	SlotCount      int               `json:"slotCount"`
	Banner         *BannerResponse   `json:"banner,omitempty"`
	Form           FormResponse      `json:"form"`
	FieldErrors    map[string]string `json:"fieldErrors,omitempty"`
	Booking        *BookingResponse  `json:"booking,omitempty"`
	SubmissionMode string            `json:"submissionMode"`
	TimeMode       string            `json:"timeMode"`
	ContactVariant string            `json:"contactVariant"`
	Timezone       string            `json:"timezone"`
}

// BannerResponse баннер ошибки над активным шагом
type BannerResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// FormResponse введенные контактные данные
type FormResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Note  string `json:"note"`
}

// BookingResponse результат бронирования на шаге подтверждения
type BookingResponse struct {
	Success        bool    `json:"success"`
	EventID        string  `json:"eventId,omitempty"`
	MeetingLink    *string `json:"meetingLink,omitempty"`
	ConfirmedStart string  `json:"confirmedStart,omitempty"`
	ConfirmedEnd   string  `json:"confirmedEnd,omitempty"`
	Provisional    bool    `json:"provisional"`
	Name           string  `json:"name"`
	Email          string  `json:"email,omitempty"`
	Phone          string  `json:"phone,omitempty"`
	Note           string  `json:"note,omitempty"`
}

// FromView конвертирует снимок сервиса в HTTP ответ
func FromView(v *wizard.View) *SessionResponse {
	resp := &SessionResponse{
		SessionID:      v.SessionID,
		Step:           string(v.Step),
		SelectedDate:   v.Selection.Date,
		SelectedLabel:  v.SelectedLabel,
		OwnerName:      v.OwnerName,
		AvailableDates: v.AvailableDates,
		SlotCount:      v.SlotCount,
		Form: FormResponse{
			Name:  v.Form.Name,
			Email: v.Form.Email,
			Phone: v.Form.Phone,
			Note:  v.Form.Note,
		},
		SubmissionMode: string(v.SubmissionMode),
		TimeMode:       string(v.TimeMode),
		ContactVariant: string(v.ContactVariant),
		Timezone:       v.Timezone,
	}

	if v.Selection.Time != nil {
		selected := v.Selection.Time.Format(time.RFC3339)
		resp.SelectedTime = &selected
	}
	if v.Banner != nil {
		resp.Banner = &BannerResponse{Kind: string(v.Banner.Kind), Message: v.Banner.Message}
	}
	if len(v.FieldErrors) > 0 {
		resp.FieldErrors = make(map[string]string, len(v.FieldErrors))
		for field, msg := range v.FieldErrors {
			resp.FieldErrors[string(field)] = msg
		}
	}
	if v.Booking != nil {
		resp.Booking = FromBooking(*v.Booking)
	}
	return resp
}

// FromBooking конвертирует результат бронирования в HTTP ответ
func FromBooking(b domain.BookingResult) *BookingResponse {
	return &BookingResponse{
		Success:        b.Success,
		EventID:        b.EventID,
		MeetingLink:    b.MeetingLink,
		ConfirmedStart: formatTime(b.ConfirmedStart),
		ConfirmedEnd:   formatTime(b.ConfirmedEnd),
		Provisional:    b.Provisional,
		Name:           b.Name,
		Email:          b.Email,
		Phone:          b.Phone,
		Note:           b.Note,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
