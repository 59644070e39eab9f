package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func TestListDTOShowsPatientLocalStart(t *testing.T) {
	slotID := uint(5)
	ap := models.Appointment{
		ID:          3,
		Status:      "confirmed",
		MeetingLink: "https://meet.jit.si/HillsClinic-abc123def456",
		TimeSlotID:  &slotID,
		Patient:     models.Patient{FullName: "Ayesha Khan", Timezone: "America/New_York"},
		TimeSlot: &models.TimeSlot{
			ID:        slotID,
			Date:      time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC),
			StartTime: "15:30",
			EndTime:   "16:00",
			Timezone:  "Asia/Karachi",
		},
	}

	out := NewAppointmentListDTO(ap)

	require.NotNil(t, out.SlotStart)
	require.NotNil(t, out.PatientLocalStart)
	assert.True(t, out.SlotStart.Equal(*out.PatientLocalStart))
	assert.Equal(t, 6, out.PatientLocalStart.Hour())
	assert.Equal(t, "America/New_York", out.PatientLocalStart.Location().String())
	assert.Equal(t, ap.MeetingLink, out.MeetingLink)
	assert.Equal(t, "Ayesha Khan", out.PatientName)
}

func TestListDTOWithoutPatientTimezone(t *testing.T) {
	out := NewAppointmentListDTO(models.Appointment{
		ID:       4,
		TimeSlot: &models.TimeSlot{Date: time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC), StartTime: "09:00", EndTime: "09:30"},
	})
	assert.NotNil(t, out.SlotStart)
	assert.Nil(t, out.PatientLocalStart)
}
