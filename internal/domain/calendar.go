package domain

// DayStatus is the derived display status of one calendar cell
type DayStatus string

const (
	DayEmpty       DayStatus = "empty"
	DayPast        DayStatus = "past"
	DayToday       DayStatus = "today"
	DayAvailable   DayStatus = "available"
	DayUnavailable DayStatus = "unavailable"
)

// IsSelectable reports whether a visitor may pick a day with this status
func (s DayStatus) IsSelectable() bool {
	return s != DayPast && s != DayEmpty
}

// DayCell is one cell of the month grid. Leading blanks have an empty Date.
type DayCell struct {
	Date       string
	Day        int
	Status     DayStatus
	IsToday    bool
	IsSelected bool
}
