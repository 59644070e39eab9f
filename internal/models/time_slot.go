package models

import "time"

type TimeSlot struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Date      time.Time `gorm:"type:date;not null;uniqueIndex:idx_slot_start" json:"date"`
	StartTime string    `gorm:"size:5;not null;uniqueIndex:idx_slot_start" json:"start_time"` // HH:mm
	EndTime   string    `gorm:"size:5;not null" json:"end_time"`                              // HH:mm
	Timezone  string    `gorm:"size:50;default:'Asia/Karachi';uniqueIndex:idx_slot_start" json:"timezone"`

	SlotType    string `gorm:"size:50;default:'consultation'" json:"slot_type"`
	MaxBookings int    `gorm:"default:1" json:"max_bookings"`
	IsAvailable bool   `gorm:"default:true" json:"is_available"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
