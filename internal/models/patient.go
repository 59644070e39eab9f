package models

import "time"

// Patient is the clinic profile attached to a user account.
type Patient struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	FullName       string `gorm:"size:200" json:"full_name"`
	Phone          string `gorm:"size:17" json:"phone"`
	WhatsappNumber string `gorm:"size:17" json:"whatsapp_number"`
	Country        string `gorm:"size:100" json:"country"`
	City           string `gorm:"size:100" json:"city"`
	Timezone       string `gorm:"size:50;default:'Asia/Karachi'" json:"timezone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName prefers the profile name, then the account name, then email.
func (p Patient) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	if p.User.Name != "" {
		return p.User.Name
	}
	return p.User.Email
}
