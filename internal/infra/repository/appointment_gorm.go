package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func notFound(err error, as error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return as
	}
	return err
}

// --------------------------------------------------
// Patient
// --------------------------------------------------

func (r *AppointmentGormRepository) FindPatientByUser(
	ctx context.Context,
	userID uint,
) (*models.Patient, error) {

	var p models.Patient
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&p).Error; err != nil {
		return nil, notFound(err, domain.ErrPatientNotFound)
	}
	return &p, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(ap).Error
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Patient.User").
		Preload("TimeSlot").
		First(&ap, id).Error; err != nil {
		return nil, notFound(err, domain.ErrAppointmentNotFound)
	}
	return &ap, nil
}

// UpdateAppointment writes every column of ap, but only while the row still
// holds the expected status pair.
func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
	expect domain.Expect,
) error {

	res := r.db.WithContext(ctx).
		Model(ap).
		Where("status = ? AND payment_status = ?", expect.Status, expect.PaymentStatus).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(ap)
	if res.Error != nil {
		return fmt.Errorf("update appointment %d: %w", ap.ID, res.Error)
	}

	if res.RowsAffected == 0 {
		var n int64
		if err := r.db.WithContext(ctx).
			Model(&models.Appointment{}).
			Where("id = ?", ap.ID).
			Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrAppointmentNotFound
		}
		return domain.ErrInvalidTransition
	}
	return nil
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	f domain.Filter,
) ([]models.Appointment, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Appointment{})

	if f.PatientID != nil {
		q = q.Where("patient_id = ?", *f.PatientID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.PaymentStatus != "" {
		q = q.Where("payment_status = ?", f.PaymentStatus)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var aps []models.Appointment
	if err := q.
		Preload("Patient.User").
		Preload("TimeSlot").
		Order("created_at DESC").
		Limit(limit).
		Offset(f.Offset).
		Find(&aps).Error; err != nil {
		return nil, 0, err
	}

	return aps, total, nil
}

// AssignSlot serialises concurrent assignments to the same slot on the
// slot's row lock, so the booking count read here cannot go stale before
// the write.
func (r *AppointmentGormRepository) AssignSlot(
	ctx context.Context,
	appointmentID uint,
	slotID uint,
	apply domain.AssignFunc,
) (*models.Appointment, error) {

	var out models.Appointment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var slot models.TimeSlot
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&slot, slotID).Error; err != nil {
			return notFound(err, domain.ErrSlotNotFound)
		}

		var ap models.Appointment
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&ap, appointmentID).Error; err != nil {
			return notFound(err, domain.ErrAppointmentNotFound)
		}

		var current int64
		if err := tx.
			Model(&models.Appointment{}).
			Where(
				"time_slot_id = ? AND status IN ? AND id <> ?",
				slotID, domain.ActiveStatuses, appointmentID,
			).
			Count(&current).Error; err != nil {
			return err
		}

		if err := apply(&ap, &slot, current); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Save(&ap).Error; err != nil {
			return err
		}

		ap.TimeSlot = &slot
		out = ap
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// --------------------------------------------------
// Sweep
// --------------------------------------------------

func overdueScope(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"status IN ? AND payment_deadline IS NOT NULL AND payment_deadline < ? AND payment_status <> ?",
			domain.ActiveStatuses, now, string(domain.PaymentVerified),
		)
	}
}

func (r *AppointmentGormRepository) CancelOverdue(
	ctx context.Context,
	now time.Time,
	note string,
) ([]models.Appointment, error) {

	var changed []models.Appointment
	if err := r.db.WithContext(ctx).
		Model(&changed).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}}}).
		Scopes(overdueScope(now)).
		Updates(map[string]any{
			"status":       string(domain.StatusCancelled),
			"cancelled_at": now,
			"doctor_notes": gorm.Expr("TRIM(BOTH E'\\n' FROM COALESCE(doctor_notes, '') || E'\\n' || ?)", note),
		}).Error; err != nil {
		return nil, fmt.Errorf("cancel overdue appointments: %w", err)
	}

	if len(changed) == 0 {
		return nil, nil
	}

	ids := make([]uint, 0, len(changed))
	for _, ap := range changed {
		ids = append(ids, ap.ID)
	}

	var out []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Patient.User").
		Preload("TimeSlot").
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("load cancelled appointments: %w", err)
	}

	return out, nil
}

func (r *AppointmentGormRepository) ListOverdue(
	ctx context.Context,
	now time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Patient.User").
		Scopes(overdueScope(now)).
		Order("payment_deadline ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

func (r *AppointmentGormRepository) ListConfirmedWithSlot(
	ctx context.Context,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Patient.User").
		Preload("TimeSlot").
		Where("status = ? AND time_slot_id IS NOT NULL", string(domain.StatusConfirmed)).
		Order("id ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}
	return aps, nil
}

func (r *AppointmentGormRepository) CompleteIfConfirmed(
	ctx context.Context,
	id uint,
	now time.Time,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ?", id, string(domain.StatusConfirmed)).
		Updates(map[string]any{
			"status":       string(domain.StatusCompleted),
			"completed_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected == 1, nil
}

// --------------------------------------------------
// Slot
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateSlot(
	ctx context.Context,
	slot *models.TimeSlot,
) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *AppointmentGormRepository) GetSlot(
	ctx context.Context,
	id uint,
) (*models.TimeSlot, error) {

	var slot models.TimeSlot
	if err := r.db.WithContext(ctx).First(&slot, id).Error; err != nil {
		return nil, notFound(err, domain.ErrSlotNotFound)
	}
	return &slot, nil
}

func (r *AppointmentGormRepository) UpdateSlot(
	ctx context.Context,
	slot *models.TimeSlot,
) error {
	return r.db.WithContext(ctx).Save(slot).Error
}

func (r *AppointmentGormRepository) DeleteSlotIfUnbooked(
	ctx context.Context,
	id uint,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var slot models.TimeSlot
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&slot, id).Error; err != nil {
			return notFound(err, domain.ErrSlotNotFound)
		}

		var current int64
		if err := tx.
			Model(&models.Appointment{}).
			Where("time_slot_id = ? AND status IN ?", id, domain.ActiveStatuses).
			Count(&current).Error; err != nil {
			return err
		}

		if current > 0 {
			return domain.ErrSlotHasBookings
		}

		return tx.Delete(&slot).Error
	})
}

type slotCount struct {
	TimeSlotID uint
	Total      int64
}

func (r *AppointmentGormRepository) ListSlots(
	ctx context.Context,
	from time.Time,
	onlyAvailable bool,
) ([]domain.SlotAvailability, error) {

	q := r.db.WithContext(ctx).Where("date >= ?", from.Format("2006-01-02"))
	if onlyAvailable {
		q = q.Where("is_available = ?", true)
	}

	var slots []models.TimeSlot
	if err := q.
		Order("date ASC, start_time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}

	if len(slots) == 0 {
		return []domain.SlotAvailability{}, nil
	}

	ids := make([]uint, 0, len(slots))
	for _, s := range slots {
		ids = append(ids, s.ID)
	}

	var counts []slotCount
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("time_slot_id, COUNT(*) AS total").
		Where("time_slot_id IN ? AND status IN ?", ids, domain.ActiveStatuses).
		Group("time_slot_id").
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]int64, len(counts))
	for _, c := range counts {
		byID[c.TimeSlotID] = c.Total
	}

	out := make([]domain.SlotAvailability, 0, len(slots))
	for _, s := range slots {
		out = append(out, domain.NewSlotAvailability(s, byID[s.ID]))
	}
	return out, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
