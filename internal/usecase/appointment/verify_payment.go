package appointment

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notify"
)

type VerifyPayment struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	notify *notify.Dispatcher
	clock  domain.Clock
}

func NewVerifyPayment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notify *notify.Dispatcher,
	clock domain.Clock,
) *VerifyPayment {
	return &VerifyPayment{
		repo:   repo,
		audit:  audit,
		notify: notify,
		clock:  clock,
	}
}

func (uc *VerifyPayment) Execute(
	ctx context.Context,
	staffID uint,
	appointmentID uint,
	notes string,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	expect := domain.ExpectOf(ap)
	if err := domain.VerifyPayment(ap, staffID, notes, uc.clock.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap, expect); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.AppointmentEvent("payment_verified", staffID, ap.ID, map[string]any{
		"notes": notes,
	}))
	metrics.RecordTransition("payment_verified")
	uc.notify.Dispatch(notify.PaymentVerified(ap))

	return ap, nil
}
