package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// loadOwned loads an appointment for a patient account. Someone else's
// appointment is reported as not found.
func loadOwned(
	ctx context.Context,
	repo domain.Repository,
	userID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	patient, err := repo.FindPatientByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ap, err := repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if ap.PatientID != patient.ID {
		return nil, domain.ErrAppointmentNotFound
	}
	return ap, nil
}
