package appointment

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ======================================================
// LIST
// ======================================================

type ListSlots struct {
	repo  domain.Repository
	clock domain.Clock
}

func NewListSlots(repo domain.Repository, clock domain.Clock) *ListSlots {
	return &ListSlots{repo: repo, clock: clock}
}

// Open lists today's and future slots that are switched on and not full.
func (uc *ListSlots) Open(ctx context.Context) ([]domain.SlotAvailability, error) {
	all, err := uc.repo.ListSlots(ctx, uc.clock.Now(), true)
	if err != nil {
		return nil, err
	}

	out := make([]domain.SlotAvailability, 0, len(all))
	for _, s := range all {
		if !s.IsFull {
			out = append(out, s)
		}
	}
	return out, nil
}

// All is the staff view, full and switched-off slots included.
func (uc *ListSlots) All(ctx context.Context) ([]domain.SlotAvailability, error) {
	return uc.repo.ListSlots(ctx, uc.clock.Now(), false)
}

// ======================================================
// MANAGE
// ======================================================

type ManageSlots struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewManageSlots(repo domain.Repository, audit *audit.Dispatcher) *ManageSlots {
	return &ManageSlots{repo: repo, audit: audit}
}

func slotEvent(action string, staffID, slotID uint, meta any) audit.Event {
	return audit.Event{
		UserID:   &staffID,
		Action:   action,
		Entity:   "time_slot",
		EntityID: &slotID,
		Metadata: meta,
	}
}

func (uc *ManageSlots) Create(
	ctx context.Context,
	staffID uint,
	in domain.SlotInput,
) (*models.TimeSlot, error) {

	slot, err := domain.NewSlot(in)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.CreateSlot(ctx, slot); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(slotEvent("slot_created", staffID, slot.ID, map[string]any{
		"date":  in.Date,
		"start": slot.StartTime,
		"end":   slot.EndTime,
	}))
	return slot, nil
}

// Toggle flips availability. Existing bookings are kept either way.
func (uc *ManageSlots) Toggle(
	ctx context.Context,
	staffID uint,
	slotID uint,
) (*models.TimeSlot, error) {

	slot, err := uc.repo.GetSlot(ctx, slotID)
	if err != nil {
		return nil, err
	}

	slot.IsAvailable = !slot.IsAvailable
	if err := uc.repo.UpdateSlot(ctx, slot); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(slotEvent("slot_toggled", staffID, slot.ID, map[string]any{
		"is_available": slot.IsAvailable,
	}))
	return slot, nil
}

func (uc *ManageSlots) Delete(
	ctx context.Context,
	staffID uint,
	slotID uint,
) error {

	if err := uc.repo.DeleteSlotIfUnbooked(ctx, slotID); err != nil {
		return err
	}

	uc.audit.Dispatch(slotEvent("slot_deleted", staffID, slotID, nil))
	return nil
}
