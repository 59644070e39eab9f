package appointment

import "github.com/BruksfildServices01/clinic-scheduler/internal/models"

// SlotAvailability is a slot with its live booking count.
type SlotAvailability struct {
	models.TimeSlot
	CurrentBookings int64 `json:"current_bookings"`
	Remaining       int64 `json:"remaining"`
	IsFull          bool  `json:"is_full"`
}

func NewSlotAvailability(slot models.TimeSlot, current int64) SlotAvailability {
	remaining := int64(slot.MaxBookings) - current
	if remaining < 0 {
		remaining = 0
	}
	return SlotAvailability{
		TimeSlot:        slot,
		CurrentBookings: current,
		Remaining:       remaining,
		IsFull:          IsFull(current, slot.MaxBookings),
	}
}
