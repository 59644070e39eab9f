package appointment

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notify"
)

type CancelAppointment struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	notify *notify.Dispatcher
	clock  domain.Clock
}

func NewCancelAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notify *notify.Dispatcher,
	clock domain.Clock,
) *CancelAppointment {
	return &CancelAppointment{
		repo:   repo,
		audit:  audit,
		notify: notify,
		clock:  clock,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	staffID uint,
	appointmentID uint,
	reason string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	expect := domain.ExpectOf(ap)
	if err := domain.Cancel(ap, reason, uc.clock.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap, expect); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.AppointmentEvent("appointment_cancelled", staffID, ap.ID, map[string]any{
		"reason": reason,
	}))
	metrics.RecordTransition("cancelled")
	uc.notify.Dispatch(notify.AppointmentCancelled(ap, reason))

	return ap, nil
}
