package appointment

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const (
	DefaultPaymentWindow   = 48 * time.Hour
	DefaultCompletionGrace = time.Hour
	DefaultFeeCents        = 1000

	AutoCancelNote = "[Auto-cancelled: Payment deadline expired]"
)

// ===============================
// Creation
// ===============================

type RequestInput struct {
	PatientID          uint
	Type               Type
	ConsultationMethod ConsultationMethod
	Notes              string
	FeeCents           int64
}

// NewRequest builds an unscheduled appointment request whose payment is due
// window after now.
func NewRequest(in RequestInput, now time.Time, window time.Duration) (*models.Appointment, error) {
	if in.Type == "" {
		in.Type = TypeConsultation
	}
	if in.ConsultationMethod == "" {
		in.ConsultationMethod = MethodVideo
	}
	if !in.Type.Valid() {
		return nil, ErrInvalidType
	}
	if !in.ConsultationMethod.Valid() {
		return nil, ErrInvalidMethod
	}
	if in.FeeCents <= 0 {
		in.FeeCents = DefaultFeeCents
	}
	if window <= 0 {
		window = DefaultPaymentWindow
	}

	deadline := now.Add(window)
	return &models.Appointment{
		PatientID:            in.PatientID,
		AppointmentType:      string(in.Type),
		ConsultationMethod:   string(in.ConsultationMethod),
		PatientNotes:         in.Notes,
		Status:               string(InitialStatus()),
		PaymentStatus:        string(PaymentPending),
		ConsultationFeeCents: in.FeeCents,
		PaymentDeadline:      &deadline,
	}, nil
}

// ===============================
// Payment
// ===============================

func SubmitPaymentProof(ap *models.Appointment, method PaymentMethod, proofRef string) error {
	if err := CanSubmitPayment(Status(ap.Status), PaymentStatus(ap.PaymentStatus)); err != nil {
		return err
	}
	if !method.Valid() {
		return ErrInvalidPaymentMethod
	}
	proofRef = strings.TrimSpace(proofRef)
	if proofRef == "" {
		return ErrMissingProof
	}

	ap.PaymentStatus = string(PaymentSubmitted)
	ap.PaymentMethod = string(method)
	ap.PaymentProofRef = proofRef
	return nil
}

// VerifyPayment records staff confirmation of funds. Status is left alone:
// confirmation happens when a slot is assigned.
func VerifyPayment(ap *models.Appointment, verifierID uint, notes string, now time.Time) error {
	if err := CanVerifyPayment(Status(ap.Status), PaymentStatus(ap.PaymentStatus)); err != nil {
		return err
	}

	ap.PaymentStatus = string(PaymentVerified)
	ap.PaymentConfirmedByID = &verifierID
	ap.PaymentConfirmedAt = &now
	ap.PaymentNotes = notes
	return nil
}

func RejectPayment(ap *models.Appointment, reason string) error {
	if err := CanRejectPayment(Status(ap.Status), PaymentStatus(ap.PaymentStatus)); err != nil {
		return err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "Payment rejected by staff"
	}
	ap.PaymentStatus = string(PaymentFailed)
	ap.PaymentNotes = reason
	return nil
}

// ===============================
// Scheduling
// ===============================

// AssignSlot attaches slot and confirms the appointment. Video consultations
// get a meeting link on first confirmation. currentBookings must be read under
// the same lock as the write and must not count ap. The payment deadline is
// left as is.
func AssignSlot(ap *models.Appointment, slot *models.TimeSlot, currentBookings int64) error {
	if err := CanAssignSlot(Status(ap.Status), PaymentStatus(ap.PaymentStatus)); err != nil {
		return err
	}
	if !slot.IsAvailable {
		return ErrSlotUnavailable
	}
	if IsFull(currentBookings, slot.MaxBookings) {
		return ErrSlotFull
	}

	id := slot.ID
	ap.TimeSlotID = &id
	ap.TimeSlot = slot
	ap.Status = string(StatusConfirmed)
	EnsureMeetingLink(ap)
	return nil
}

// ===============================
// Staff actions
// ===============================

func Cancel(ap *models.Appointment, reason string, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	if reason = strings.TrimSpace(reason); reason != "" {
		ap.DoctorNotes = appendNote(ap.DoctorNotes, "[Cancelled: "+reason+"]")
	}
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

// ===============================
// Deadline / time based
// ===============================

// IsPaymentOverdue is true when the deadline has passed without a verified
// payment. A verified payment is never overdue.
func IsPaymentOverdue(ap *models.Appointment, now time.Time) bool {
	if PaymentStatus(ap.PaymentStatus) == PaymentVerified {
		return false
	}
	return ap.PaymentDeadline != nil && now.After(*ap.PaymentDeadline)
}

func CancelIfUnpaid(ap *models.Appointment, now time.Time) bool {
	if !IsPaymentOverdue(ap, now) || Status(ap.Status).IsTerminal() {
		return false
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	ap.DoctorNotes = appendNote(ap.DoctorNotes, AutoCancelNote)
	return true
}

// IsPast reports whether the assigned slot ended more than grace ago.
// The slot must be loaded.
func IsPast(ap *models.Appointment, now time.Time, grace time.Duration) bool {
	if ap.TimeSlot == nil {
		return false
	}
	end, err := SlotEnd(ap.TimeSlot)
	if err != nil {
		return false
	}
	return now.After(end.Add(grace))
}

func CompleteIfPast(ap *models.Appointment, now time.Time, grace time.Duration) bool {
	if Status(ap.Status) != StatusConfirmed || !IsPast(ap, now, grace) {
		return false
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return true
}

func appendNote(existing, note string) string {
	return strings.TrimSpace(existing + "\n" + note)
}
