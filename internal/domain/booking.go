package domain

import "time"

// ContactDetails is what the visitor typed into the details form, already trimmed.
// Which of Email/Phone is required depends on the deployment's contact variant.
type ContactDetails struct {
	Name  string
	Email string
	Phone string
	Note  string
}

// BookingRequest is sent to the scheduling backend. Immutable once submitted.
type BookingRequest struct {
	Identifier *string // Opaque caller-supplied token, passed through unmodified
	Datetime   time.Time
	Contact    ContactDetails
}

// BookingResult is the booking shown on the confirmation step.
// In optimistic mode it is first built locally (Provisional) and later reconciled in place.
type BookingResult struct {
	Success        bool
	EventID        string
	MeetingLink    *string // May arrive only after reconciliation
	ConfirmedStart time.Time
	ConfirmedEnd   time.Time
	Error          string
	Provisional    bool

	// Denormalized form data for the confirmation view
	Name  string
	Email string
	Phone string
	Note  string
}

// Reconcile copies backend-confirmed fields into the displayed booking.
// Contact fields are never touched.
func (b *BookingResult) Reconcile(eventID string, meetingLink *string, start, end time.Time) {
	if eventID != "" {
		b.EventID = eventID
	}
	if meetingLink != nil && *meetingLink != "" {
		link := *meetingLink
		b.MeetingLink = &link
	}
	if !start.IsZero() {
		b.ConfirmedStart = start
	}
	if !end.IsZero() {
		b.ConfirmedEnd = end
	}
	b.Success = true
	b.Provisional = false
}

// SubmissionFailure is a background booking failure that was not shown to the visitor
// because the confirmation had already been displayed. Kept for diagnostics only.
type SubmissionFailure struct {
	ID         int64
	SessionID  string
	Token      uint64
	Identifier *string
	Datetime   time.Time
	Name       string
	Message    string
	OccurredAt time.Time
}
