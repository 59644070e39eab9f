package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

type JoinInfo struct {
	AppointmentID uint      `json:"appointment_id"`
	MeetingLink   string    `json:"meeting_link"`
	OpensAt       time.Time `json:"opens_at"`
	ClosesAt      time.Time `json:"closes_at"`
}

type JoinConsultation struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	clock domain.Clock
}

func NewJoinConsultation(
	repo domain.Repository,
	audit *audit.Dispatcher,
	clock domain.Clock,
) *JoinConsultation {
	return &JoinConsultation{
		repo:  repo,
		audit: audit,
		clock: clock,
	}
}

// Execute hands the patient the meeting link while the join window is open.
// Appointments confirmed before links existed get one here.
func (uc *JoinConsultation) Execute(
	ctx context.Context,
	userID uint,
	appointmentID uint,
) (*JoinInfo, error) {

	ap, err := loadOwned(ctx, uc.repo, userID, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanJoin(ap, uc.clock.Now()); err != nil {
		return nil, err
	}

	expect := domain.ExpectOf(ap)
	if domain.EnsureMeetingLink(ap) {
		if err := uc.repo.UpdateAppointment(ctx, ap, expect); err != nil {
			return nil, err
		}
		uc.audit.Dispatch(audit.AppointmentEvent("meeting_link_created", 0, ap.ID, map[string]any{
			"meeting_link": ap.MeetingLink,
		}))
	}

	opens, closes, _ := domain.JoinWindow(ap)
	return &JoinInfo{
		AppointmentID: ap.ID,
		MeetingLink:   ap.MeetingLink,
		OpensAt:       opens,
		ClosesAt:      closes,
	}, nil
}
