package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(
	repo domain.Repository,
) *ListAppointments {
	return &ListAppointments{
		repo: repo,
	}
}

// ForPatient lists the caller's own appointments. The patient filter from f
// is always overridden.
func (uc *ListAppointments) ForPatient(
	ctx context.Context,
	userID uint,
	f domain.Filter,
) ([]dto.AppointmentListDTO, int64, error) {

	patient, err := uc.repo.FindPatientByUser(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	f.PatientID = &patient.ID
	return uc.list(ctx, f)
}

func (uc *ListAppointments) ForStaff(
	ctx context.Context,
	f domain.Filter,
) ([]dto.AppointmentListDTO, int64, error) {
	return uc.list(ctx, f)
}

func (uc *ListAppointments) list(
	ctx context.Context,
	f domain.Filter,
) ([]dto.AppointmentListDTO, int64, error) {

	aps, total, err := uc.repo.ListAppointments(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(aps))
	for _, ap := range aps {
		out = append(out, dto.NewAppointmentListDTO(ap))
	}
	return out, total, nil
}

// GetForPatient returns one of the caller's appointments in full.
func (uc *ListAppointments) GetForPatient(
	ctx context.Context,
	userID uint,
	appointmentID uint,
) (*models.Appointment, error) {
	return loadOwned(ctx, uc.repo, userID, appointmentID)
}

func (uc *ListAppointments) Get(
	ctx context.Context,
	appointmentID uint,
) (*models.Appointment, error) {
	return uc.repo.GetAppointment(ctx, appointmentID)
}
