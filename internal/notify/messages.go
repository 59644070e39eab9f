package notify

import (
	"fmt"
	"strings"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const (
	TypeAppointmentSubmitted = "appointment_submitted"
	TypeNewAppointment       = "new_appointment"
	TypePaymentSubmitted     = "payment_submitted"
	TypePaymentVerified      = "payment_verified"
	TypePaymentRejected      = "payment_rejected"
	TypeAppointmentConfirmed = "appointment_confirmed"
	TypeAppointmentCancelled = "appointment_cancelled"
	TypeAppointmentCompleted = "appointment_completed"
)

func forPatient(ap *models.Appointment, noticeType, title, message, actionURL string) Notice {
	return Notice{
		UserID:        ap.Patient.UserID,
		Email:         ap.Patient.User.Email,
		Type:          noticeType,
		Title:         title,
		Message:       message,
		AppointmentID: ap.ID,
		ActionURL:     actionURL,
	}
}

func forStaff(ap *models.Appointment, noticeType, title, message string) Notice {
	return Notice{
		Role:          RoleStaff,
		Type:          noticeType,
		Title:         title,
		Message:       message,
		AppointmentID: ap.ID,
		ActionURL:     fmt.Sprintf("/staff/appointments/%d/", ap.ID),
	}
}

func paymentURL(ap *models.Appointment) string {
	return fmt.Sprintf("/portal/appointments/%d/payment/", ap.ID)
}

// slotLabel renders the slot start in the slot's own timezone.
func slotLabel(slot *models.TimeSlot, layout string) string {
	if slot == nil {
		return ""
	}
	start, err := domain.SlotStart(slot)
	if err != nil {
		return slot.Date.Format(layout)
	}
	return start.Format(layout)
}

// RequestSubmitted tells the patient to pay and tells staff a request arrived.
func RequestSubmitted(ap *models.Appointment) []Notice {
	return []Notice{
		forPatient(ap, TypeAppointmentSubmitted,
			"Appointment Request Submitted",
			fmt.Sprintf("Your consultation request #%d has been submitted. Please complete payment within 48 hours.", ap.ID),
			paymentURL(ap),
		),
		forStaff(ap, TypeNewAppointment,
			"New Appointment Request",
			fmt.Sprintf("New consultation request from %s.", ap.Patient.DisplayName()),
		),
	}
}

func PaymentSubmitted(ap *models.Appointment) Notice {
	return forStaff(ap, TypePaymentSubmitted,
		"Payment Proof Submitted",
		fmt.Sprintf("Payment proof submitted for appointment #%d by %s.", ap.ID, ap.Patient.DisplayName()),
	)
}

func PaymentVerified(ap *models.Appointment) Notice {
	return forPatient(ap, TypePaymentVerified,
		"Payment Verified",
		fmt.Sprintf("Your payment for appointment #%d has been verified. A doctor will assign your time slot soon.", ap.ID),
		"/portal/appointments/",
	)
}

func PaymentRejected(ap *models.Appointment, reason string) Notice {
	var b strings.Builder
	fmt.Fprintf(&b, "Your payment for appointment #%d could not be verified.", ap.ID)
	if reason = strings.TrimSpace(reason); reason != "" {
		fmt.Fprintf(&b, " Reason: %s", reason)
	}
	b.WriteString(" Please resubmit payment.")

	return forPatient(ap, TypePaymentRejected, "Payment Verification Failed", b.String(), paymentURL(ap))
}

// localLabel renders the slot start in the patient's zone when that zone
// differs from the slot's.
func localLabel(ap *models.Appointment) string {
	local, ok := domain.PatientLocalStart(ap)
	if !ok {
		return ""
	}
	start, err := domain.SlotStart(ap.TimeSlot)
	if err != nil {
		return ""
	}
	_, slotOffset := start.Zone()
	_, localOffset := local.Zone()
	if slotOffset == localOffset {
		return ""
	}
	return local.Format("Jan 02, 03:04 PM MST")
}

func AppointmentConfirmed(ap *models.Appointment) Notice {
	when := slotLabel(ap.TimeSlot, "January 02, 2006 at 03:04 PM")
	if when == "" {
		when = "a time shown in your portal"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Your appointment #%d is confirmed for %s", ap.ID, when)
	if local := localLabel(ap); local != "" {
		fmt.Fprintf(&b, " (%s your time)", local)
	}
	b.WriteString(".")
	if ap.MeetingLink != "" {
		fmt.Fprintf(&b, " Join your video consultation at %s", ap.MeetingLink)
	}

	return forPatient(ap, TypeAppointmentConfirmed,
		"Appointment Confirmed!",
		b.String(),
		"/portal/appointments/calendar/",
	)
}

func AppointmentCancelled(ap *models.Appointment, reason string) Notice {
	msg := fmt.Sprintf("Your appointment #%d has been cancelled.", ap.ID)
	if reason = strings.TrimSpace(reason); reason != "" {
		msg += " Reason: " + reason
	}
	return forPatient(ap, TypeAppointmentCancelled, "Appointment Cancelled", msg, "/portal/appointments/")
}

func AppointmentCompleted(ap *models.Appointment) Notice {
	msg := "Your consultation appointment"
	if day := slotLabel(ap.TimeSlot, "January 02, 2006"); day != "" {
		msg += " on " + day
	}
	msg += " has been completed. Thank you for choosing Hills Clinic!"

	return forPatient(ap, TypeAppointmentCompleted, "Consultation Completed", msg, "/portal/appointments/")
}
