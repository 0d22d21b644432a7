package domain

// Default configuration values
const (
	DefaultStartHour            = 9
	DefaultEndHour              = 21
	DefaultIntervalMinutes      = 60
	DefaultCutoffHour           = 20
	DefaultNavigationWindowDays = 90
	DefaultSlotDurationMinutes  = 60
	DefaultTimezone             = "Asia/Tokyo"
	DefaultConfirmDelayMillis   = 1000
)

// Business validation constants
const (
	MinIntervalMinutes = 5
	MaxIntervalMinutes = 240
)

// Time format constants
const (
	TimeFormat  = "15:04"      // HH:MM
	DateFormat  = "2006-01-02" // YYYY-MM-DD
	MonthFormat = "2006-01"    // YYYY-MM
)
