package domain

import "time"

// WizardStep is the active step of a booking wizard session
type WizardStep string

const (
	StepChoosingDate    WizardStep = "choosing_date"
	StepChoosingTime    WizardStep = "choosing_time"
	StepEnteringDetails WizardStep = "entering_details"
	StepSubmitting      WizardStep = "submitting"
	StepConfirmed       WizardStep = "confirmed"
)

// Selection is the visitor's current date/time choice.
// Time is only set together with Date, and always falls on Date.
type Selection struct {
	Date *string
	Time *time.Time
}

// SubmissionMode controls how the Submitting step resolves
type SubmissionMode string

const (
	// SubmissionBlocking waits for the backend and confirms only on success
	SubmissionBlocking SubmissionMode = "blocking"
	// SubmissionOptimistic confirms after a short delay and reconciles in the background
	SubmissionOptimistic SubmissionMode = "optimistic"
)

// TimeSelectionMode controls how time options are derived
type TimeSelectionMode string

const (
	// TimeFromSlots offers exactly the backend slots of the date
	TimeFromSlots TimeSelectionMode = "slots"
	// TimeFromDropdown offers every business-hours start, annotated with slot presence
	TimeFromDropdown TimeSelectionMode = "dropdown"
)

// BannerKind classifies the dismissable top-level error banner
type BannerKind string

const (
	BannerFetchFailed      BannerKind = "fetch_failed"
	BannerSubmissionFailed BannerKind = "submission_failed"
)

// Banner is a dismissable top-level error shown above the active step
type Banner struct {
	Kind    BannerKind
	Message string
}
