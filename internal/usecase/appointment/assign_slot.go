package appointment

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notify"
)

type AssignSlot struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	notify *notify.Dispatcher
}

func NewAssignSlot(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notify *notify.Dispatcher,
) *AssignSlot {
	return &AssignSlot{
		repo:   repo,
		audit:  audit,
		notify: notify,
	}
}

// Execute confirms the appointment into slotID. The capacity check and the
// write happen inside the repository's lock.
func (uc *AssignSlot) Execute(
	ctx context.Context,
	staffID uint,
	appointmentID uint,
	slotID uint,
) (*models.Appointment, error) {

	var previousSlot *uint

	ap, err := uc.repo.AssignSlot(ctx, appointmentID, slotID,
		func(ap *models.Appointment, slot *models.TimeSlot, current int64) error {
			previousSlot = ap.TimeSlotID
			return domain.AssignSlot(ap, slot, current)
		},
	)
	if err != nil {
		return nil, err
	}

	// reload for the patient's contact details
	if full, err := uc.repo.GetAppointment(ctx, ap.ID); err == nil {
		ap = full
	}

	meta := map[string]any{"slot_id": slotID}
	if previousSlot != nil {
		meta["previous_slot_id"] = *previousSlot
	}
	uc.audit.Dispatch(audit.AppointmentEvent("slot_assigned", staffID, ap.ID, meta))
	metrics.RecordTransition("slot_assigned")
	uc.notify.Dispatch(notify.AppointmentConfirmed(ap))

	return ap, nil
}
