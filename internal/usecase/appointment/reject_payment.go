package appointment

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notify"
)

type RejectPayment struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	notify *notify.Dispatcher
}

func NewRejectPayment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notify *notify.Dispatcher,
) *RejectPayment {
	return &RejectPayment{
		repo:   repo,
		audit:  audit,
		notify: notify,
	}
}

func (uc *RejectPayment) Execute(
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
	if err := domain.RejectPayment(ap, reason); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap, expect); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.AppointmentEvent("payment_rejected", staffID, ap.ID, map[string]any{
		"reason": ap.PaymentNotes,
	}))
	metrics.RecordTransition("payment_rejected")
	uc.notify.Dispatch(notify.PaymentRejected(ap, ap.PaymentNotes))

	return ap, nil
}
