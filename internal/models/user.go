package models

import "time"

const (
	RolePatient = "patient"
	RoleStaff   = "staff"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Email string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone string `gorm:"size:20" json:"phone"`
	Role  string `gorm:"size:20;default:'patient';index" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsStaff reports whether the user works at the clinic.
func (u User) IsStaff() bool {
	switch u.Role {
	case RoleStaff, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}
