package scheduler

import (
	"time"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
)

// Availability - проверенный ответ на запрос свободных слотов
type Availability struct {
	Slots  domain.SlotCollection
	Config *domain.BackendConfig // nil, если бэкенд не прислал config
}

// Confirmation - проверенный успешный ответ на создание бронирования
type Confirmation struct {
	EventID        string
	MeetingLink    *string
	ConfirmedStart time.Time // zero, если бэкенд не прислал
	ConfirmedEnd   time.Time // zero, если бэкенд не прислал
}

// slotsResponse сырой ответ GET /availability
type slotsResponse struct {
	Success *bool          `json:"success"`
	Slots   []slotPayload  `json:"slots"`
	Config  *configPayload `json:"config,omitempty"`
	Error   string         `json:"error,omitempty"`
}

type slotPayload struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Datetime string `json:"datetime"`
}

type configPayload struct {
	SlotDuration int    `json:"slotDuration"`
	Timezone     string `json:"timezone"`
	OwnerName    string `json:"ownerName"`
}

// bookingPayload тело POST /booking
type bookingPayload struct {
	Identifier *string `json:"identifier,omitempty"`
	Datetime   string  `json:"datetime"`
	Name       string  `json:"name"`
	Phone      string  `json:"phone,omitempty"`
	Email      string  `json:"email,omitempty"`
	Note       string  `json:"note,omitempty"`
}

// bookingResponse сырой ответ POST /booking.
// Старые версии бэкенда присылают meetLink/startTime/endTime вместо meetingLink/confirmedStart/confirmedEnd.
type bookingResponse struct {
	Success        *bool   `json:"success"`
	EventID        string  `json:"eventId"`
	MeetingLink    *string `json:"meetingLink"`
	MeetLink       *string `json:"meetLink"`
	ConfirmedStart string  `json:"confirmedStart"`
	StartTime      string  `json:"startTime"`
	ConfirmedEnd   string  `json:"confirmedEnd"`
	EndTime        string  `json:"endTime"`
	Error          string  `json:"error,omitempty"`
}
