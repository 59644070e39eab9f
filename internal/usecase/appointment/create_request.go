package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notify"
)

// ======================================================
// INPUT
// ======================================================

type CreateRequestInput struct {
	UserID uint

	Type               string
	ConsultationMethod string
	Notes              string
}

// ======================================================
// USE CASE
// ======================================================

type CreateRequest struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	notify *notify.Dispatcher
	clock  domain.Clock

	window   time.Duration
	feeCents int64
}

func NewCreateRequest(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notify *notify.Dispatcher,
	clock domain.Clock,
	window time.Duration,
) *CreateRequest {
	return &CreateRequest{
		repo:     repo,
		audit:    audit,
		notify:   notify,
		clock:    clock,
		window:   window,
		feeCents: domain.DefaultFeeCents,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateRequest) Execute(
	ctx context.Context,
	in CreateRequestInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1️⃣ Patient profile of the caller
	// --------------------------------------------------
	patient, err := uc.repo.FindPatientByUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Build the request (deadline starts now)
	// --------------------------------------------------
	ap, err := domain.NewRequest(domain.RequestInput{
		PatientID:          patient.ID,
		Type:               domain.Type(in.Type),
		ConsultationMethod: domain.ConsultationMethod(in.ConsultationMethod),
		Notes:              in.Notes,
		FeeCents:           uc.feeCents,
	}, uc.clock.Now(), uc.window)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}
	ap.Patient = *patient

	// --------------------------------------------------
	// 3️⃣ Side effects
	// --------------------------------------------------
	uc.audit.Dispatch(audit.AppointmentEvent("appointment_requested", in.UserID, ap.ID, map[string]any{
		"type":   ap.AppointmentType,
		"method": ap.ConsultationMethod,
	}))
	metrics.RecordTransition("requested")
	uc.notify.Dispatch(notify.RequestSubmitted(ap)...)

	return ap, nil
}
