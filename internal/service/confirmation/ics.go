package confirmation

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/emersion/go-ical"

	"github.com/m04kA/SMC-BookingWizard/internal/domain"
)

const (
	productID  = "-//SMC//Booking Wizard//RU"
	uidDomain  = "booking-wizard"
	summaryFmt = "Встреча с %s"
	summary    = "Встреча"
)

// Event данные для календарного файла подтверждения
type Event struct {
	SessionID string
	OwnerName string
	Booking   domain.BookingResult
	Now       time.Time
}

// WriteICS пишет подтверждение бронирования в формате iCalendar (RFC 5545)
func WriteICS(w io.Writer, event Event) error {
	booking := event.Booking
	if booking.ConfirmedStart.IsZero() {
		return ErrNotConfirmed
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(ical.PropMethod, "PUBLISH")

	vevent := ical.NewEvent()
	vevent.Props.SetText(ical.PropUID, uid(event))
	vevent.Props.SetDateTime(ical.PropDateTimeStamp, event.Now.UTC())
	vevent.Props.SetDateTime(ical.PropDateTimeStart, booking.ConfirmedStart.UTC())
	if !booking.ConfirmedEnd.IsZero() {
		vevent.Props.SetDateTime(ical.PropDateTimeEnd, booking.ConfirmedEnd.UTC())
	}
	vevent.Props.SetText(ical.PropSummary, title(event.OwnerName))

	if description := describe(booking); description != "" {
		vevent.Props.SetText(ical.PropDescription, description)
	}
	if booking.MeetingLink != nil {
		link := ical.NewProp(ical.PropURL)
		link.Value = *booking.MeetingLink
		vevent.Props.Set(link)
		vevent.Props.SetText(ical.PropLocation, *booking.MeetingLink)
	}

	status := "CONFIRMED"
	if booking.Provisional {
		status = "TENTATIVE"
	}
	vevent.Props.SetText(ical.PropStatus, status)

	cal.Children = append(cal.Children, vevent.Component)

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	return nil
}

// FileName имя файла для Content-Disposition
func FileName(booking domain.BookingResult) string {
	return "booking-" + booking.ConfirmedStart.UTC().Format("20060102T1504") + ".ics"
}

func uid(event Event) string {
	id := event.Booking.EventID
	if id == "" {
		id = event.SessionID
	}
	return id + "@" + uidDomain
}

func title(ownerName string) string {
	if ownerName == "" {
		return summary
	}
	return fmt.Sprintf(summaryFmt, ownerName)
}

// describe собирает описание: контакты, заметка и ссылка на встречу
func describe(booking domain.BookingResult) string {
	lines := make([]string, 0, 5)
	if booking.Name != "" {
		lines = append(lines, "Имя: "+booking.Name)
	}
	if booking.Email != "" {
		lines = append(lines, "Email: "+booking.Email)
	}
	if booking.Phone != "" {
		lines = append(lines, "Телефон: "+booking.Phone)
	}
	if booking.Note != "" {
		lines = append(lines, "Комментарий: "+booking.Note)
	}
	if booking.MeetingLink != nil {
		lines = append(lines, "Ссылка на встречу: "+*booking.MeetingLink)
	}
	return strings.Join(lines, "\n")
}
