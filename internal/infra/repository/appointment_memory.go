package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// AppointmentMemoryRepository keeps everything in process behind one mutex.
// It gives the same atomicity as the gorm repository and backs local runs
// without Postgres.
type AppointmentMemoryRepository struct {
	mu sync.Mutex

	patients     map[uint]models.Patient
	appointments map[uint]models.Appointment
	slots        map[uint]models.TimeSlot

	nextAppointmentID uint
	nextSlotID        uint
	nextPatientID     uint
}

func NewAppointmentMemoryRepository() *AppointmentMemoryRepository {
	return &AppointmentMemoryRepository{
		patients:     map[uint]models.Patient{},
		appointments: map[uint]models.Appointment{},
		slots:        map[uint]models.TimeSlot{},
	}
}

// AddPatient stores p, assigning an ID when it has none.
func (r *AppointmentMemoryRepository) AddPatient(p models.Patient) models.Patient {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == 0 {
		r.nextPatientID++
		p.ID = r.nextPatientID
	} else if p.ID > r.nextPatientID {
		r.nextPatientID = p.ID
	}
	if p.UserID == 0 {
		p.UserID = p.User.ID
	}
	r.patients[p.ID] = p
	return p
}

// hydrate returns a copy of ap with its patient and slot attached.
func (r *AppointmentMemoryRepository) hydrate(ap models.Appointment) models.Appointment {
	if p, ok := r.patients[ap.PatientID]; ok {
		ap.Patient = p
	}
	ap.TimeSlot = nil
	if ap.TimeSlotID != nil {
		if s, ok := r.slots[*ap.TimeSlotID]; ok {
			slot := s
			ap.TimeSlot = &slot
		}
	}
	return ap
}

func (r *AppointmentMemoryRepository) activeBookings(slotID, except uint) int64 {
	var n int64
	for _, ap := range r.appointments {
		if ap.ID == except || ap.TimeSlotID == nil || *ap.TimeSlotID != slotID {
			continue
		}
		if ap.Status == string(domain.StatusPending) || ap.Status == string(domain.StatusConfirmed) {
			n++
		}
	}
	return n
}

func (r *AppointmentMemoryRepository) FindPatientByUser(
	ctx context.Context,
	userID uint,
) (*models.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.patients {
		if p.UserID == userID {
			out := p
			return &out, nil
		}
	}
	return nil, domain.ErrPatientNotFound
}

func (r *AppointmentMemoryRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextAppointmentID++
	ap.ID = r.nextAppointmentID
	if ap.CreatedAt.IsZero() {
		ap.CreatedAt = time.Now()
	}
	ap.UpdatedAt = ap.CreatedAt

	stored := *ap
	stored.Patient = models.Patient{}
	stored.TimeSlot = nil
	r.appointments[ap.ID] = stored
	return nil
}

func (r *AppointmentMemoryRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ap, ok := r.appointments[id]
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}
	out := r.hydrate(ap)
	return &out, nil
}

func (r *AppointmentMemoryRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
	expect domain.Expect,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.appointments[ap.ID]
	if !ok {
		return domain.ErrAppointmentNotFound
	}
	if cur.Status != expect.Status || cur.PaymentStatus != expect.PaymentStatus {
		return domain.ErrInvalidTransition
	}
	stored := *ap
	stored.Patient = models.Patient{}
	stored.TimeSlot = nil
	stored.UpdatedAt = time.Now()
	r.appointments[ap.ID] = stored
	return nil
}

func (r *AppointmentMemoryRepository) ListAppointments(
	ctx context.Context,
	f domain.Filter,
) ([]models.Appointment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []models.Appointment
	for _, ap := range r.appointments {
		if f.PatientID != nil && ap.PatientID != *f.PatientID {
			continue
		}
		if f.Status != "" && ap.Status != f.Status {
			continue
		}
		if f.PaymentStatus != "" && ap.PaymentStatus != f.PaymentStatus {
			continue
		}
		all = append(all, r.hydrate(ap))
	}

	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	total := int64(len(all))
	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if f.Offset >= len(all) {
		return []models.Appointment{}, total, nil
	}
	end := f.Offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[f.Offset:end], total, nil
}

func (r *AppointmentMemoryRepository) AssignSlot(
	ctx context.Context,
	appointmentID uint,
	slotID uint,
	apply domain.AssignFunc,
) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, ok := r.slots[slotID]
	if !ok {
		return nil, domain.ErrSlotNotFound
	}
	ap, ok := r.appointments[appointmentID]
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}

	current := r.activeBookings(slotID, appointmentID)
	if err := apply(&ap, &slot, current); err != nil {
		return nil, err
	}

	ap.TimeSlot = nil
	ap.UpdatedAt = time.Now()
	r.appointments[ap.ID] = ap

	out := r.hydrate(ap)
	return &out, nil
}

func (r *AppointmentMemoryRepository) overdue(ap models.Appointment, now time.Time) bool {
	if ap.Status != string(domain.StatusPending) && ap.Status != string(domain.StatusConfirmed) {
		return false
	}
	return domain.IsPaymentOverdue(&ap, now)
}

func (r *AppointmentMemoryRepository) CancelOverdue(
	ctx context.Context,
	now time.Time,
	note string,
) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Appointment
	for id, ap := range r.appointments {
		if !r.overdue(ap, now) {
			continue
		}
		domain.CancelIfUnpaid(&ap, now)
		r.appointments[id] = ap
		out = append(out, r.hydrate(ap))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *AppointmentMemoryRepository) ListOverdue(
	ctx context.Context,
	now time.Time,
) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Appointment
	for _, ap := range r.appointments {
		if r.overdue(ap, now) {
			out = append(out, r.hydrate(ap))
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *AppointmentMemoryRepository) ListConfirmedWithSlot(
	ctx context.Context,
) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.Status == string(domain.StatusConfirmed) && ap.TimeSlotID != nil {
			out = append(out, r.hydrate(ap))
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *AppointmentMemoryRepository) CompleteIfConfirmed(
	ctx context.Context,
	id uint,
	now time.Time,
) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ap, ok := r.appointments[id]
	if !ok || ap.Status != string(domain.StatusConfirmed) {
		return false, nil
	}
	ap.Status = string(domain.StatusCompleted)
	ap.CompletedAt = &now
	r.appointments[id] = ap
	return true, nil
}

func (r *AppointmentMemoryRepository) CreateSlot(
	ctx context.Context,
	slot *models.TimeSlot,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextSlotID++
	slot.ID = r.nextSlotID
	r.slots[slot.ID] = *slot
	return nil
}

func (r *AppointmentMemoryRepository) GetSlot(
	ctx context.Context,
	id uint,
) (*models.TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, ok := r.slots[id]
	if !ok {
		return nil, domain.ErrSlotNotFound
	}
	return &slot, nil
}

func (r *AppointmentMemoryRepository) UpdateSlot(
	ctx context.Context,
	slot *models.TimeSlot,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.slots[slot.ID]; !ok {
		return domain.ErrSlotNotFound
	}
	r.slots[slot.ID] = *slot
	return nil
}

func (r *AppointmentMemoryRepository) DeleteSlotIfUnbooked(
	ctx context.Context,
	id uint,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.slots[id]; !ok {
		return domain.ErrSlotNotFound
	}
	if r.activeBookings(id, 0) > 0 {
		return domain.ErrSlotHasBookings
	}
	delete(r.slots, id)
	return nil
}

func (r *AppointmentMemoryRepository) ListSlots(
	ctx context.Context,
	from time.Time,
	onlyAvailable bool,
) ([]domain.SlotAvailability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)

	out := []domain.SlotAvailability{}
	for _, s := range r.slots {
		if s.Date.Before(day) {
			continue
		}
		if onlyAvailable && !s.IsAvailable {
			continue
		}
		out = append(out, domain.NewSlotAvailability(s, r.activeBookings(s.ID, 0)))
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

var _ domain.Repository = (*AppointmentMemoryRepository)(nil)
