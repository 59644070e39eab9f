package dto

import (
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AppointmentListDTO struct {
	ID                 uint   `json:"id"`
	Status             string `json:"status"`
	PaymentStatus      string `json:"payment_status"`
	AppointmentType    string `json:"appointment_type"`
	ConsultationMethod string `json:"consultation_method"`
	PatientName        string `json:"patient_name"`

	PaymentDeadline *time.Time `json:"payment_deadline,omitempty"`
	SlotID          *uint      `json:"slot_id,omitempty"`
	SlotStart       *time.Time `json:"slot_start,omitempty"`
	SlotEnd         *time.Time `json:"slot_end,omitempty"`

	// slot start as the patient sees it, when their timezone is known
	PatientLocalStart *time.Time `json:"patient_local_start,omitempty"`
	MeetingLink       string     `json:"meeting_link,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func NewAppointmentListDTO(ap models.Appointment) AppointmentListDTO {
	out := AppointmentListDTO{
		ID:                 ap.ID,
		Status:             ap.Status,
		PaymentStatus:      ap.PaymentStatus,
		AppointmentType:    ap.AppointmentType,
		ConsultationMethod: ap.ConsultationMethod,
		PatientName:        ap.Patient.DisplayName(),
		PaymentDeadline:    ap.PaymentDeadline,
		SlotID:             ap.TimeSlotID,
		MeetingLink:        ap.MeetingLink,
		CreatedAt:          ap.CreatedAt,
	}

	if local, ok := domain.PatientLocalStart(&ap); ok {
		out.PatientLocalStart = &local
	}

	if ap.TimeSlot != nil {
		if start, err := domain.SlotStart(ap.TimeSlot); err == nil {
			out.SlotStart = &start
		}
		if end, err := domain.SlotEnd(ap.TimeSlot); err == nil {
			out.SlotEnd = &end
		}
	}
	return out
}
