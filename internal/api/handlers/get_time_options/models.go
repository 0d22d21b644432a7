package get_time_options

import (
	"time"

	"github.com/m04kA/SMC-BookingWizard/internal/service/wizard"
)

// TimeOptionsResponse HTTP response model
type TimeOptionsResponse struct {
	Date    string           `json:"date"`
	Options []OptionResponse `json:"options"`
}

// OptionResponse вариант времени начала встречи
type OptionResponse struct {
	Time     string `json:"time"`     // "11:00"
	Datetime string `json:"datetime"` // RFC3339
	HasSlot  bool   `json:"hasSlot"`
}

// FromServiceResponse конвертирует варианты сервиса в HTTP response
func FromServiceResponse(v *wizard.TimeOptionsView) *TimeOptionsResponse {
	options := make([]OptionResponse, 0, len(v.Options))
	for _, option := range v.Options {
		options = append(options, OptionResponse{
			Time:     option.Time,
			Datetime: option.Datetime.Format(time.RFC3339),
			HasSlot:  option.HasSlot,
		})
	}
	return &TimeOptionsResponse{
		Date:    v.Date,
		Options: options,
	}
}
