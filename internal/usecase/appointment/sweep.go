package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logger"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notify"
)

const autoCancelReason = "Payment deadline expired"

type SweepResult struct {
	Cancelled int `json:"cancelled"`
	Completed int `json:"completed"`
}

type SweepPreview struct {
	Cancel   []models.Appointment `json:"cancel"`
	Complete []models.Appointment `json:"complete"`
}

// Sweep applies the deadline and time based transitions in one pass.
// Running it twice, or twice at once, changes nothing the second time.
type Sweep struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	notify *notify.Dispatcher
	clock  domain.Clock
	grace  time.Duration
}

func NewSweep(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notify *notify.Dispatcher,
	clock domain.Clock,
	grace time.Duration,
) *Sweep {
	if grace <= 0 {
		grace = domain.DefaultCompletionGrace
	}
	return &Sweep{
		repo:   repo,
		audit:  audit,
		notify: notify,
		clock:  clock,
		grace:  grace,
	}
}

func (uc *Sweep) Execute(ctx context.Context) (SweepResult, error) {
	now := uc.clock.Now()

	var res SweepResult

	// --------------------------------------------------
	// 1️⃣ Overdue unpaid requests: one conditional bulk update
	// --------------------------------------------------
	cancelled, err := uc.repo.CancelOverdue(ctx, now, domain.AutoCancelNote)
	if err != nil {
		metrics.RecordSweep("error", 0, 0)
		return res, err
	}

	for i := range cancelled {
		ap := &cancelled[i]
		uc.audit.Dispatch(audit.AppointmentEvent("appointment_auto_cancelled", 0, ap.ID, nil))
		uc.notify.Dispatch(notify.AppointmentCancelled(ap, autoCancelReason))
	}
	res.Cancelled = len(cancelled)

	// --------------------------------------------------
	// 2️⃣ Past confirmed appointments: per-row conditional update
	// --------------------------------------------------
	confirmed, err := uc.repo.ListConfirmedWithSlot(ctx)
	if err != nil {
		metrics.RecordSweep("error", res.Cancelled, 0)
		return res, fmt.Errorf("list confirmed appointments: %w", err)
	}

	for i := range confirmed {
		ap := &confirmed[i]
		if !domain.IsPast(ap, now, uc.grace) {
			continue
		}

		changed, err := uc.repo.CompleteIfConfirmed(ctx, ap.ID, now)
		if err != nil {
			logger.Error("sweep: complete appointment failed", "appointment_id", ap.ID, "error", err)
			continue
		}
		if !changed {
			continue
		}

		domain.CompleteIfPast(ap, now, uc.grace)
		res.Completed++

		uc.audit.Dispatch(audit.AppointmentEvent("appointment_auto_completed", 0, ap.ID, nil))
		uc.notify.Dispatch(notify.AppointmentCompleted(ap))
	}

	metrics.RecordSweep("ok", res.Cancelled, res.Completed)
	if res.Cancelled > 0 || res.Completed > 0 {
		logger.Info("sweep finished", "cancelled", res.Cancelled, "completed", res.Completed)
	}

	return res, nil
}

// Preview reports what Execute would change right now, without writing.
func (uc *Sweep) Preview(ctx context.Context) (SweepPreview, error) {
	now := uc.clock.Now()

	overdue, err := uc.repo.ListOverdue(ctx, now)
	if err != nil {
		return SweepPreview{}, err
	}

	confirmed, err := uc.repo.ListConfirmedWithSlot(ctx)
	if err != nil {
		return SweepPreview{}, err
	}

	if overdue == nil {
		overdue = []models.Appointment{}
	}

	out := SweepPreview{
		Cancel:   overdue,
		Complete: []models.Appointment{},
	}
	for _, ap := range confirmed {
		if domain.IsPast(&ap, now, uc.grace) {
			out.Complete = append(out.Complete, ap)
		}
	}
	return out, nil
}
