package appointment

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

const (
	MeetingDomain = "meet.jit.si"

	JoinEarly = 10 * time.Minute
	JoinLate  = 15 * time.Minute
)

// NewMeetingRoom returns an unguessable room name for ap.
func NewMeetingRoom(ap *models.Appointment) string {
	seed := fmt.Sprintf("%d-%s-%s", ap.ID, ap.Patient.User.Email, uuid.NewString())
	sum := sha256.Sum256([]byte(seed))
	return "HillsClinic-" + hex.EncodeToString(sum[:])[:12]
}

func MeetingURL(room string) string {
	return fmt.Sprintf("https://%s/%s", MeetingDomain, room)
}

// EnsureMeetingLink gives a video consultation a room once. It reports
// whether the link was created.
func EnsureMeetingLink(ap *models.Appointment) bool {
	if ConsultationMethod(ap.ConsultationMethod) != MethodVideo || ap.MeetingLink != "" {
		return false
	}
	ap.MeetingLink = MeetingURL(NewMeetingRoom(ap))
	return true
}

// JoinWindow is [start-JoinEarly, end+JoinLate] of the assigned slot.
func JoinWindow(ap *models.Appointment) (time.Time, time.Time, bool) {
	if ap.TimeSlot == nil {
		return time.Time{}, time.Time{}, false
	}
	start, err := SlotStart(ap.TimeSlot)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err := SlotEnd(ap.TimeSlot)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start.Add(-JoinEarly), end.Add(JoinLate), true
}

func CanJoin(ap *models.Appointment, now time.Time) error {
	if Status(ap.Status) != StatusConfirmed {
		return ErrInvalidTransition
	}
	if ConsultationMethod(ap.ConsultationMethod) != MethodVideo {
		return ErrNotVideo
	}
	from, to, ok := JoinWindow(ap)
	if !ok || now.Before(from) || now.After(to) {
		return ErrJoinWindowClosed
	}
	return nil
}

// PatientLocalStart is the slot start in the patient's own timezone. ok is
// false when no slot is loaded or the patient has no timezone set.
func PatientLocalStart(ap *models.Appointment) (time.Time, bool) {
	if ap.TimeSlot == nil || ap.Patient.Timezone == "" || !timezone.IsValid(ap.Patient.Timezone) {
		return time.Time{}, false
	}
	start, err := SlotStart(ap.TimeSlot)
	if err != nil {
		return time.Time{}, false
	}
	return timezone.In(start, ap.Patient.Timezone), true
}
