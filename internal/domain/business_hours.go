package domain

import (
	"fmt"
	"time"
)

// BusinessHours is the deployment-specific booking window.
// Start/End bound the offered start times as [StartHour:00, EndHour:00).
type BusinessHours struct {
	Location             *time.Location
	StartHour            int
	EndHour              int
	IntervalMinutes      int
	ExcludedWeekdays     []time.Weekday
	CutoffHour           int // Same-day booking closes at this local hour
	NavigationWindowDays int
	SlotDurationMinutes  int
}

// DefaultBusinessHours returns the 1-hour, 9-21h variant in the default timezone
func DefaultBusinessHours() BusinessHours {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		loc = time.UTC
	}
	return BusinessHours{
		Location:             loc,
		StartHour:            DefaultStartHour,
		EndHour:              DefaultEndHour,
		IntervalMinutes:      DefaultIntervalMinutes,
		ExcludedWeekdays:     []time.Weekday{time.Saturday, time.Sunday},
		CutoffHour:           DefaultCutoffHour,
		NavigationWindowDays: DefaultNavigationWindowDays,
		SlotDurationMinutes:  DefaultSlotDurationMinutes,
	}
}

// Validate checks the configured values
func (h BusinessHours) Validate() error {
	if h.Location == nil {
		return fmt.Errorf("business hours: location is required")
	}
	if h.StartHour < 0 || h.StartHour > 23 {
		return fmt.Errorf("business hours: start hour %d out of range", h.StartHour)
	}
	if h.EndHour <= h.StartHour || h.EndHour > 24 {
		return fmt.Errorf("business hours: end hour %d must be after start hour %d", h.EndHour, h.StartHour)
	}
	if h.IntervalMinutes < MinIntervalMinutes || h.IntervalMinutes > MaxIntervalMinutes {
		return fmt.Errorf("business hours: interval %d out of range [%d, %d]",
			h.IntervalMinutes, MinIntervalMinutes, MaxIntervalMinutes)
	}
	if h.CutoffHour < 0 || h.CutoffHour > 24 {
		return fmt.Errorf("business hours: cutoff hour %d out of range", h.CutoffHour)
	}
	if h.NavigationWindowDays <= 0 {
		return fmt.Errorf("business hours: navigation window must be positive")
	}
	if h.SlotDurationMinutes <= 0 {
		return fmt.Errorf("business hours: slot duration must be positive")
	}
	return nil
}

// IsExcluded reports whether bookings are closed on the given weekday
func (h BusinessHours) IsExcluded(day time.Weekday) bool {
	for _, excluded := range h.ExcludedWeekdays {
		if excluded == day {
			return true
		}
	}
	return false
}

// Today returns local midnight of now's calendar date
func (h BusinessHours) Today(now time.Time) time.Time {
	local := now.In(h.Location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, h.Location)
}

// IsTodayBlocked reports whether same-day booking is closed: past the cutoff hour,
// or today is an excluded weekday
func (h BusinessHours) IsTodayBlocked(now time.Time) bool {
	local := now.In(h.Location)
	return local.Hour() >= h.CutoffHour || h.IsExcluded(local.Weekday())
}

// ParseDate parses a YYYY-MM-DD string as local midnight
func (h BusinessHours) ParseDate(date string) (time.Time, error) {
	return time.ParseInLocation(DateFormat, date, h.Location)
}
