package appointment

import (
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

const clockLayout = "15:04"

// IsFull is the single capacity rule. A non-positive capacity is always full.
func IsFull(currentBookings int64, capacity int) bool {
	return currentBookings >= int64(capacity)
}

func SlotStart(slot *models.TimeSlot) (time.Time, error) {
	return onSlotDate(slot, slot.StartTime)
}

// SlotEnd is the slot's date and end time in the slot's own timezone.
func SlotEnd(slot *models.TimeSlot) (time.Time, error) {
	return onSlotDate(slot, slot.EndTime)
}

func onSlotDate(slot *models.TimeSlot, hm string) (time.Time, error) {
	t, err := time.Parse(clockLayout, hm)
	if err != nil {
		return time.Time{}, ErrInvalidSlot
	}
	loc := timezone.Location(slot.Timezone)
	return time.Date(
		slot.Date.Year(), slot.Date.Month(), slot.Date.Day(),
		t.Hour(), t.Minute(), 0, 0,
		loc,
	), nil
}

type SlotInput struct {
	Date        string // YYYY-MM-DD
	StartTime   string // HH:mm
	EndTime     string // HH:mm
	Timezone    string
	SlotType    string
	MaxBookings int
}

// NewSlot validates a staff-entered slot.
func NewSlot(in SlotInput) (*models.TimeSlot, error) {
	tz := in.Timezone
	if tz == "" {
		tz = timezone.DefaultTimezone
	}
	if !timezone.IsValid(tz) {
		return nil, ErrInvalidSlot
	}

	date, err := time.ParseInLocation("2006-01-02", in.Date, time.UTC)
	if err != nil {
		return nil, ErrInvalidSlot
	}

	start, err := time.Parse(clockLayout, in.StartTime)
	if err != nil {
		return nil, ErrInvalidSlot
	}
	end, err := time.Parse(clockLayout, in.EndTime)
	if err != nil || !end.After(start) {
		return nil, ErrInvalidSlot
	}

	if in.MaxBookings <= 0 {
		in.MaxBookings = 1
	}
	if in.SlotType == "" {
		in.SlotType = "consultation"
	}

	return &models.TimeSlot{
		Date:        date,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Timezone:    tz,
		SlotType:    in.SlotType,
		MaxBookings: in.MaxBookings,
		IsAvailable: true,
	}, nil
}
