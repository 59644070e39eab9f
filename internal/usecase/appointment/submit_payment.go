package appointment

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notify"
)

type SubmitPaymentInput struct {
	UserID        uint
	AppointmentID uint
	Method        string
	ProofRef      string
}

type SubmitPaymentProof struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	notify *notify.Dispatcher
}

func NewSubmitPaymentProof(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notify *notify.Dispatcher,
) *SubmitPaymentProof {
	return &SubmitPaymentProof{
		repo:   repo,
		audit:  audit,
		notify: notify,
	}
}

// Execute records the proof reference for the caller's own appointment.
// A rejected payment may be resubmitted.
func (uc *SubmitPaymentProof) Execute(
	ctx context.Context,
	in SubmitPaymentInput,
) (*models.Appointment, error) {

	ap, err := loadOwned(ctx, uc.repo, in.UserID, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	expect := domain.ExpectOf(ap)
	if err := domain.SubmitPaymentProof(ap, domain.PaymentMethod(in.Method), in.ProofRef); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap, expect); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.AppointmentEvent("payment_submitted", in.UserID, ap.ID, map[string]any{
		"method":    ap.PaymentMethod,
		"proof_ref": ap.PaymentProofRef,
	}))
	metrics.RecordTransition("payment_submitted")
	uc.notify.Dispatch(notify.PaymentSubmitted(ap))

	return ap, nil
}
