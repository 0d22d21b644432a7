package handlers

import "github.com/m04kA/SMC-BookingWizard/internal/service/wizard"

// CalendarResponse сетка видимого месяца
type CalendarResponse struct {
	Month     string        `json:"month"` // YYYY-MM
	Days      []DayResponse `json:"days"`
	CanGoPrev bool          `json:"canGoPrev"`
	CanGoNext bool          `json:"canGoNext"`
}

// DayResponse ячейка календаря. Ведущие пустые ячейки без даты.
type DayResponse struct {
	Date       string `json:"date,omitempty"`
	Day        int    `json:"day,omitempty"`
	Status     string `json:"status"`
	IsToday    bool   `json:"isToday"`
	IsSelected bool   `json:"isSelected"`
}

// FromCalendarView конвертирует сетку сервиса в HTTP ответ
func FromCalendarView(v *wizard.CalendarView) *CalendarResponse {
	days := make([]DayResponse, 0, len(v.Days))
	for _, cell := range v.Days {
		days = append(days, DayResponse{
			Date:       cell.Date,
			Day:        cell.Day,
			Status:     string(cell.Status),
			IsToday:    cell.IsToday,
			IsSelected: cell.IsSelected,
		})
	}
	return &CalendarResponse{
		Month:     v.Month,
		Days:      days,
		CanGoPrev: v.CanGoPrev,
		CanGoNext: v.CanGoNext,
	}
}
