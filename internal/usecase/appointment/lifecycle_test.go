package appointment

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notify"
)

func TestCreateRequestStartsPendingWithDeadline(t *testing.T) {
	h := newHarness(t)

	ap := h.create(h.patient.UserID)

	assert.Equal(t, string(domain.StatusPending), ap.Status)
	assert.Equal(t, string(domain.PaymentPending), ap.PaymentStatus)
	require.NotNil(t, ap.PaymentDeadline)
	assert.Equal(t, t0.Add(48*time.Hour), *ap.PaymentDeadline)
	assert.Equal(t, int64(domain.DefaultFeeCents), ap.ConsultationFeeCents)

	h.flush()
	assert.Len(t, h.sink.ofType(notify.TypeAppointmentSubmitted), 1)
	assert.Len(t, h.sink.ofType(notify.TypeNewAppointment), 1)
}

func TestCreateRequestWithoutPatientProfile(t *testing.T) {
	h := newHarness(t)

	_, err := NewCreateRequest(h.repo, h.audit, h.notify, h.clock, 0).
		Execute(context.Background(), CreateRequestInput{UserID: 404})
	assert.ErrorIs(t, err, domain.ErrPatientNotFound)
}

func TestCreateRequestRejectsUnknownMethod(t *testing.T) {
	h := newHarness(t)

	_, err := NewCreateRequest(h.repo, h.audit, h.notify, h.clock, 0).
		Execute(context.Background(), CreateRequestInput{UserID: h.patient.UserID, ConsultationMethod: "telepathy"})
	assert.ErrorIs(t, err, domain.ErrInvalidMethod)
}

func TestSubmitPaymentForSomeoneElsesAppointment(t *testing.T) {
	h := newHarness(t)
	other := h.addPatient(12, "Bilal Ahmed")

	ap := h.create(h.patient.UserID)

	_, err := h.submit(other.UserID, ap.ID)
	assert.ErrorIs(t, err, domain.ErrAppointmentNotFound)
}

func TestRejectThenResubmit(t *testing.T) {
	h := newHarness(t)
	ap := h.create(h.patient.UserID)

	_, err := h.submit(h.patient.UserID, ap.ID)
	require.NoError(t, err)

	rejected, err := NewRejectPayment(h.repo, h.audit, h.notify).
		Execute(context.Background(), h.staffID, ap.ID, "Amount does not match")
	require.NoError(t, err)
	assert.Equal(t, string(domain.PaymentFailed), rejected.PaymentStatus)

	again, err := h.submit(h.patient.UserID, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.PaymentSubmitted), again.PaymentStatus)
	assert.Equal(t, string(domain.PaymentSubmitted), h.get(ap.ID).PaymentStatus)

	h.flush()
	got := h.sink.ofType(notify.TypePaymentRejected)
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Message, "Amount does not match")
	assert.Len(t, h.sink.ofType(notify.TypePaymentSubmitted), 2)
}

func TestVerifyRequiresSubmittedPayment(t *testing.T) {
	h := newHarness(t)
	ap := h.create(h.patient.UserID)

	_, err := NewVerifyPayment(h.repo, h.audit, h.notify, h.clock).
		Execute(context.Background(), h.staffID, ap.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestVerifyRecordsStaffAndKeepsStatus(t *testing.T) {
	h := newHarness(t)
	h.clock.Set(t0.Add(time.Hour))

	ap := h.paid()

	assert.Equal(t, string(domain.StatusPending), ap.Status)
	require.NotNil(t, ap.PaymentConfirmedByID)
	assert.Equal(t, h.staffID, *ap.PaymentConfirmedByID)
	assert.Equal(t, t0.Add(time.Hour), *ap.PaymentConfirmedAt)
}

func TestAssignSlotBeforeVerification(t *testing.T) {
	h := newHarness(t)
	slot := h.slot("2026-03-13", "09:00", "09:30", 3)

	ap := h.create(h.patient.UserID)
	_, err := h.assign(ap.ID, slot.ID)
	assert.ErrorIs(t, err, domain.ErrPaymentNotVerified)

	_, err = h.submit(h.patient.UserID, ap.ID)
	require.NoError(t, err)
	_, err = h.assign(ap.ID, slot.ID)
	assert.ErrorIs(t, err, domain.ErrPaymentNotVerified)

	assert.Nil(t, h.get(ap.ID).TimeSlotID)
}

func TestAssignSlotAfterAutoCancelWithoutPayment(t *testing.T) {
	h := newHarness(t)
	slot := h.slot("2026-03-13", "09:00", "09:30", 3)
	ap := h.create(h.patient.UserID)

	h.clock.Set(t0.Add(49 * time.Hour))
	h.sweep()
	require.Equal(t, string(domain.StatusCancelled), h.get(ap.ID).Status)

	_, err := h.assign(ap.ID, slot.ID)
	assert.ErrorIs(t, err, domain.ErrPaymentNotVerified)
	assert.Nil(t, h.get(ap.ID).TimeSlotID)
}

func TestAssignSlotConfirmsAndNotifies(t *testing.T) {
	h := newHarness(t)
	slot := h.slot("2026-03-13", "15:30", "16:00", 1)
	ap := h.paid()

	got, err := h.assign(ap.ID, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), got.Status)
	require.NotNil(t, got.TimeSlotID)
	assert.Equal(t, slot.ID, *got.TimeSlotID)
	assert.True(t, strings.HasPrefix(got.MeetingLink, "https://meet.jit.si/"))

	// the deadline from creation stays; verified payments are exempt anyway
	require.NotNil(t, got.PaymentDeadline)
	assert.Equal(t, *ap.PaymentDeadline, *got.PaymentDeadline)

	h.flush()
	confirmed := h.sink.ofType(notify.TypeAppointmentConfirmed)
	require.Len(t, confirmed, 1)
	assert.Equal(t, h.patient.UserID, confirmed[0].UserID)
	assert.Contains(t, confirmed[0].Message, "March 13, 2026 at 03:30 PM")
}

func TestAssignSlotRejectsSwitchedOffSlot(t *testing.T) {
	h := newHarness(t)
	slot := h.slot("2026-03-13", "09:00", "09:30", 2)
	_, err := NewManageSlots(h.repo, h.audit).Toggle(context.Background(), h.staffID, slot.ID)
	require.NoError(t, err)

	ap := h.paid()
	_, err = h.assign(ap.ID, slot.ID)
	assert.ErrorIs(t, err, domain.ErrSlotUnavailable)
}

func TestRescheduleDoesNotCountItself(t *testing.T) {
	h := newHarness(t)
	first := h.slot("2026-03-13", "09:00", "09:30", 1)
	second := h.slot("2026-03-14", "09:00", "09:30", 1)
	ap := h.paid()

	_, err := h.assign(ap.ID, first.ID)
	require.NoError(t, err)

	// same slot again is not "full" because of itself
	_, err = h.assign(ap.ID, first.ID)
	require.NoError(t, err)

	moved, err := h.assign(ap.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, *moved.TimeSlotID)
}

func TestConcurrentAssignNeverOverbooks(t *testing.T) {
	h := newHarness(t)
	slot := h.slot("2026-03-13", "09:00", "09:30", 1)

	a := h.paid()
	b := h.paid()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []uint{a.ID, b.ID} {
		wg.Add(1)
		go func(i int, id uint) {
			defer wg.Done()
			_, errs[i] = h.assign(id, slot.ID)
		}(i, id)
	}
	wg.Wait()

	var ok, full int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrSlotFull)
		full++
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, full)

	slots, err := NewListSlots(h.repo, h.clock).All(context.Background())
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, int64(1), slots[0].CurrentBookings)
}

func TestStaffCancelAndComplete(t *testing.T) {
	h := newHarness(t)
	slot := h.slot("2026-03-13", "09:00", "09:30", 1)
	ap := h.paid()
	_, err := h.assign(ap.ID, slot.ID)
	require.NoError(t, err)

	complete := NewCompleteAppointment(h.repo, h.audit, h.notify, h.clock)
	done, err := complete.Execute(context.Background(), h.staffID, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), done.Status)

	cancel := NewCancelAppointment(h.repo, h.audit, h.notify, h.clock)
	_, err = cancel.Execute(context.Background(), h.staffID, ap.ID, "too late")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	other := h.create(h.patient.UserID)
	_, err = complete.Execute(context.Background(), h.staffID, other.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	cancelled, err := cancel.Execute(context.Background(), h.staffID, other.ID, "Patient asked")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), cancelled.Status)
	assert.Contains(t, h.get(other.ID).DoctorNotes, "[Cancelled: Patient asked]")

	h.flush()
	assert.Len(t, h.sink.ofType(notify.TypeAppointmentCompleted), 1)
	assert.Len(t, h.sink.ofType(notify.TypeAppointmentCancelled), 1)
}

func TestListAppointmentsScopesPatients(t *testing.T) {
	h := newHarness(t)
	other := h.addPatient(12, "Bilal Ahmed")

	h.create(h.patient.UserID)
	h.create(h.patient.UserID)
	h.create(other.UserID)

	uc := NewListAppointments(h.repo)

	mine, total, err := uc.ForPatient(context.Background(), h.patient.UserID, domain.Filter{PatientID: &other.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, ap := range mine {
		assert.Equal(t, "Ayesha Khan", ap.PatientName)
	}

	all, total, err := uc.ForStaff(context.Background(), domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)
}

func TestOpenSlotsHideFullAndPast(t *testing.T) {
	h := newHarness(t)
	h.slot("2026-03-01", "09:00", "09:30", 1)
	busy := h.slot("2026-03-13", "09:00", "09:30", 1)
	free := h.slot("2026-03-13", "10:00", "10:30", 1)

	ap := h.paid()
	_, err := h.assign(ap.ID, busy.ID)
	require.NoError(t, err)

	open, err := NewListSlots(h.repo, h.clock).Open(context.Background())
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, free.ID, open[0].ID)

	manage := NewManageSlots(h.repo, h.audit)
	assert.ErrorIs(t, manage.Delete(context.Background(), h.staffID, busy.ID), domain.ErrSlotHasBookings)
	assert.NoError(t, manage.Delete(context.Background(), h.staffID, free.ID))
}

func TestCreateSlotValidation(t *testing.T) {
	h := newHarness(t)
	_, err := NewManageSlots(h.repo, h.audit).Create(context.Background(), h.staffID, domain.SlotInput{
		Date: "2026-03-13", StartTime: "10:00", EndTime: "09:00",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSlot)
}

func TestStaleUpdateIsRefused(t *testing.T) {
	h := newHarness(t)
	ap := h.create(h.patient.UserID)

	stale := h.get(ap.ID)

	h.clock.Set(t0.Add(49 * time.Hour))
	h.sweep()

	_, err := NewSubmitPaymentProof(h.repo, h.audit, h.notify).Execute(context.Background(), SubmitPaymentInput{
		UserID: h.patient.UserID, AppointmentID: ap.ID, Method: "jazzcash", ProofRef: "x",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	expect := domain.ExpectOf(stale)
	stale.PaymentStatus = string(domain.PaymentSubmitted)
	assert.ErrorIs(t, h.repo.UpdateAppointment(context.Background(), stale, expect), domain.ErrInvalidTransition)
	assert.Equal(t, string(domain.StatusCancelled), h.get(ap.ID).Status)
	assert.True(t, strings.Contains(h.get(ap.ID).DoctorNotes, domain.AutoCancelNote))
}

func TestJoinVideoConsultation(t *testing.T) {
	h := newHarness(t)
	slot := h.slot("2026-03-13", "15:30", "16:00", 1)
	ap := h.paid()

	assigned, err := h.assign(ap.ID, slot.ID)
	require.NoError(t, err)

	join := NewJoinConsultation(h.repo, h.audit, h.clock)

	_, err = join.Execute(context.Background(), h.patient.UserID, ap.ID)
	assert.ErrorIs(t, err, domain.ErrJoinWindowClosed)

	h.clock.Set(time.Date(2026, 3, 13, 15, 25, 0, 0, time.UTC))
	info, err := join.Execute(context.Background(), h.patient.UserID, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, assigned.MeetingLink, info.MeetingLink)
	assert.Equal(t, time.Date(2026, 3, 13, 15, 20, 0, 0, time.UTC), info.OpensAt.UTC())
	assert.Equal(t, time.Date(2026, 3, 13, 16, 15, 0, 0, time.UTC), info.ClosesAt.UTC())

	other := h.addPatient(12, "Bilal Ahmed")
	_, err = join.Execute(context.Background(), other.UserID, ap.ID)
	assert.ErrorIs(t, err, domain.ErrAppointmentNotFound)
}

func TestJoinCreatesMissingMeetingLink(t *testing.T) {
	h := newHarness(t)
	slot := h.slot("2026-03-13", "15:30", "16:00", 1)
	ap := h.paid()

	assigned, err := h.assign(ap.ID, slot.ID)
	require.NoError(t, err)

	assigned.MeetingLink = ""
	require.NoError(t, h.repo.UpdateAppointment(context.Background(), assigned, domain.ExpectOf(assigned)))

	h.clock.Set(time.Date(2026, 3, 13, 15, 40, 0, 0, time.UTC))
	info, err := NewJoinConsultation(h.repo, h.audit, h.clock).
		Execute(context.Background(), h.patient.UserID, ap.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, info.MeetingLink)
	assert.Equal(t, info.MeetingLink, h.get(ap.ID).MeetingLink)
}
