package appointment

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notify"
)

type CompleteAppointment struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	notify *notify.Dispatcher
	clock  domain.Clock
}

func NewCompleteAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notify *notify.Dispatcher,
	clock domain.Clock,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:   repo,
		audit:  audit,
		notify: notify,
		clock:  clock,
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	staffID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	expect := domain.ExpectOf(ap)
	if err := domain.Complete(ap, uc.clock.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap, expect); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.AppointmentEvent("appointment_completed", staffID, ap.ID, nil))
	metrics.RecordTransition("completed")
	uc.notify.Dispatch(notify.AppointmentCompleted(ap))

	return ap, nil
}
