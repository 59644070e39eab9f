package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PatientID uint    `gorm:"index;not null" json:"patient_id"`
	Patient   Patient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"patient"`

	// Nil while the appointment is an unscheduled request.
	TimeSlotID *uint     `gorm:"index" json:"time_slot_id"`
	TimeSlot   *TimeSlot `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"time_slot,omitempty"`

	AppointmentType    string `gorm:"size:50;default:'consultation'" json:"appointment_type"`
	ConsultationMethod string `gorm:"size:20;default:'video'" json:"consultation_method"`
	MeetingLink        string `gorm:"size:255" json:"meeting_link"`

	Status string `gorm:"size:20;default:'pending';index" json:"status"`

	PatientNotes string `gorm:"type:text" json:"patient_notes"`
	DoctorNotes  string `gorm:"type:text;not null;default:''" json:"doctor_notes"`

	ConsultationFeeCents int64      `gorm:"default:1000" json:"consultation_fee_cents"`
	PaymentStatus        string     `gorm:"size:20;default:'pending';index" json:"payment_status"`
	PaymentMethod        string     `gorm:"size:20" json:"payment_method"`
	PaymentProofRef      string     `gorm:"size:255" json:"payment_proof_ref"`
	PaymentDeadline      *time.Time `gorm:"index" json:"payment_deadline"`
	PaymentConfirmedByID *uint      `json:"payment_confirmed_by_id"`
	PaymentConfirmedAt   *time.Time `json:"payment_confirmed_at"`
	PaymentNotes         string     `gorm:"type:text" json:"payment_notes"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
