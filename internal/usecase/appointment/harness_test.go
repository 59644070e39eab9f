package appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notify"
)

var t0 = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type auditRecorder struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *auditRecorder) Log(ev audit.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

type noticeSink struct {
	mu      sync.Mutex
	notices []notify.Notice
	fail    bool
}

func (s *noticeSink) Deliver(ctx context.Context, n notify.Notice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, n)
	if s.fail {
		return errors.New("smtp: connection refused")
	}
	return nil
}

func (s *noticeSink) ofType(noticeType string) []notify.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []notify.Notice
	for _, n := range s.notices {
		if n.Type == noticeType {
			out = append(out, n)
		}
	}
	return out
}

type harness struct {
	t *testing.T

	repo   *repository.AppointmentMemoryRepository
	clock  *fakeClock
	sink   *noticeSink
	audits *auditRecorder

	audit  *audit.Dispatcher
	notify *notify.Dispatcher

	patient models.Patient
	staffID uint
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		t:       t,
		repo:    repository.NewAppointmentMemoryRepository(),
		clock:   &fakeClock{now: t0},
		sink:    &noticeSink{},
		audits:  &auditRecorder{},
		staffID: 900,
	}
	h.audit = audit.NewDispatcher(h.audits)
	h.notify = notify.NewDispatcher(h.sink, 100)

	h.patient = h.addPatient(11, "Ayesha Khan")

	t.Cleanup(h.flush)
	return h
}

func (h *harness) addPatient(userID uint, name string) models.Patient {
	return h.repo.AddPatient(models.Patient{
		User: models.User{
			ID:    userID,
			Name:  name,
			Email: "patient@example.com",
			Role:  models.RolePatient,
		},
		FullName: name,
	})
}

// flush drains both dispatchers. Dispatches after a flush are dropped.
func (h *harness) flush() {
	h.notify.Close()
	h.audit.Close()
}

func (h *harness) create(userID uint) *models.Appointment {
	h.t.Helper()
	ap, err := NewCreateRequest(h.repo, h.audit, h.notify, h.clock, domain.DefaultPaymentWindow).
		Execute(context.Background(), CreateRequestInput{UserID: userID, Notes: "knee pain"})
	require.NoError(h.t, err)
	return ap
}

func (h *harness) submit(userID, id uint) (*models.Appointment, error) {
	return NewSubmitPaymentProof(h.repo, h.audit, h.notify).Execute(context.Background(), SubmitPaymentInput{
		UserID:        userID,
		AppointmentID: id,
		Method:        string(domain.MethodEasyPaisa),
		ProofRef:      "payment_proofs/receipt.png",
	})
}

func (h *harness) verify(id uint) *models.Appointment {
	h.t.Helper()
	ap, err := NewVerifyPayment(h.repo, h.audit, h.notify, h.clock).
		Execute(context.Background(), h.staffID, id, "received")
	require.NoError(h.t, err)
	return ap
}

// paid creates a request for the default patient with a verified payment.
func (h *harness) paid() *models.Appointment {
	h.t.Helper()
	ap := h.create(h.patient.UserID)
	_, err := h.submit(h.patient.UserID, ap.ID)
	require.NoError(h.t, err)
	return h.verify(ap.ID)
}

func (h *harness) slot(date, start, end string, capacity int) *models.TimeSlot {
	h.t.Helper()
	slot, err := NewManageSlots(h.repo, h.audit).Create(context.Background(), h.staffID, domain.SlotInput{
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		Timezone:    "UTC",
		MaxBookings: capacity,
	})
	require.NoError(h.t, err)
	return slot
}

func (h *harness) assign(id, slotID uint) (*models.Appointment, error) {
	return NewAssignSlot(h.repo, h.audit, h.notify).Execute(context.Background(), h.staffID, id, slotID)
}

func (h *harness) sweep() SweepResult {
	h.t.Helper()
	res, err := NewSweep(h.repo, h.audit, h.notify, h.clock, time.Hour).Execute(context.Background())
	require.NoError(h.t, err)
	return res
}

func (h *harness) get(id uint) *models.Appointment {
	h.t.Helper()
	ap, err := h.repo.GetAppointment(context.Background(), id)
	require.NoError(h.t, err)
	return ap
}
