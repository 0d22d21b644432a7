package domain

import "time"

// Slot is a single bookable start time offered by the scheduling backend.
// Slots are produced by the backend and never mutated; Datetime identifies a slot.
type Slot struct {
	Date     string    // Calendar date, YYYY-MM-DD
	Time     string    // Wall-clock start, HH:MM
	Datetime time.Time // Absolute start instant
}

// SlotCollection keeps slots in the order the backend returned them
type SlotCollection []Slot

// OnDate returns the slots of the given calendar date, preserving order
func (c SlotCollection) OnDate(date string) []Slot {
	result := make([]Slot, 0)
	for _, slot := range c {
		if slot.Date == date {
			result = append(result, slot)
		}
	}
	return result
}

// FindByDatetime returns the slot starting at t, if any
func (c SlotCollection) FindByDatetime(t time.Time) (Slot, bool) {
	for _, slot := range c {
		if slot.Datetime.Equal(t) {
			return slot, true
		}
	}
	return Slot{}, false
}

// TimeOption is a candidate meeting start shown on the time step
type TimeOption struct {
	Time     string    // HH:MM label
	Datetime time.Time // Absolute start
	HasSlot  bool      // An open backend slot exists in this hour (informational)
}

// BackendConfig is the optional configuration echoed by the availability endpoint
type BackendConfig struct {
	SlotDurationMinutes int
	Timezone            string
	OwnerName           string
}
