package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// AssignFunc decides, under the repository's lock, whether slot may be
// attached to ap. currentBookings excludes ap itself.
type AssignFunc func(ap *models.Appointment, slot *models.TimeSlot, currentBookings int64) error

// Expect is the state a transition was decided against. An update whose row
// has since moved on fails with ErrInvalidTransition.
type Expect struct {
	Status        string
	PaymentStatus string
}

func ExpectOf(ap *models.Appointment) Expect {
	return Expect{Status: ap.Status, PaymentStatus: ap.PaymentStatus}
}

type Filter struct {
	PatientID     *uint
	Status        string
	PaymentStatus string
	Limit         int
	Offset        int
}

type Repository interface {
	// -------- Patient --------
	FindPatientByUser(
		ctx context.Context,
		userID uint,
	) (*models.Patient, error)

	// -------- Appointment --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// GetAppointment preloads the patient (with user) and the slot.
	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
		expect Expect,
	) error

	ListAppointments(
		ctx context.Context,
		f Filter,
	) ([]models.Appointment, int64, error)

	// AssignSlot locks the slot and the appointment, counts active bookings
	// and persists whatever apply leaves in ap, all in one transaction.
	AssignSlot(
		ctx context.Context,
		appointmentID uint,
		slotID uint,
		apply AssignFunc,
	) (*models.Appointment, error)

	// -------- Sweep --------

	// CancelOverdue is one conditional bulk update. It returns exactly the
	// rows it changed, with patient and user loaded.
	CancelOverdue(
		ctx context.Context,
		now time.Time,
		note string,
	) ([]models.Appointment, error)

	ListOverdue(
		ctx context.Context,
		now time.Time,
	) ([]models.Appointment, error)

	ListConfirmedWithSlot(
		ctx context.Context,
	) ([]models.Appointment, error)

	// CompleteIfConfirmed reports whether this call moved the row from
	// confirmed to completed.
	CompleteIfConfirmed(
		ctx context.Context,
		id uint,
		now time.Time,
	) (bool, error)

	// -------- Slot --------
	CreateSlot(
		ctx context.Context,
		slot *models.TimeSlot,
	) error

	GetSlot(
		ctx context.Context,
		id uint,
	) (*models.TimeSlot, error)

	UpdateSlot(
		ctx context.Context,
		slot *models.TimeSlot,
	) error

	DeleteSlotIfUnbooked(
		ctx context.Context,
		id uint,
	) error

	ListSlots(
		ctx context.Context,
		from time.Time,
		onlyAvailable bool,
	) ([]SlotAvailability, error)
}
