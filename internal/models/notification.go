package models

import "time"

type Notification struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index;not null" json:"user_id"`

	Type    string `gorm:"size:50;not null" json:"type"`
	Title   string `gorm:"size:200;not null" json:"title"`
	Message string `gorm:"type:text" json:"message"`

	AppointmentID *uint  `gorm:"index" json:"appointment_id"`
	ActionURL     string `gorm:"size:255" json:"action_url"`

	IsRead bool       `gorm:"default:false;index" json:"is_read"`
	ReadAt *time.Time `json:"read_at"`

	CreatedAt time.Time `json:"created_at"`
}
