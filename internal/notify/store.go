package notify

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// StoreSink persists notices as portal notifications. Role notices fan out
// to one row per staff account.
type StoreSink struct {
	db *gorm.DB
}

func NewStoreSink(db *gorm.DB) *StoreSink {
	return &StoreSink{db: db}
}

func (s *StoreSink) Deliver(ctx context.Context, n Notice) error {
	var appointmentID *uint
	if n.AppointmentID != 0 {
		id := n.AppointmentID
		appointmentID = &id
	}

	row := func(userID uint) models.Notification {
		return models.Notification{
			UserID:        userID,
			Type:          n.Type,
			Title:         n.Title,
			Message:       n.Message,
			AppointmentID: appointmentID,
			ActionURL:     n.ActionURL,
		}
	}

	if n.UserID != 0 {
		rec := row(n.UserID)
		return s.db.WithContext(ctx).Create(&rec).Error
	}

	if n.Role != RoleStaff {
		return nil
	}

	var staffIDs []uint
	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role IN ?", []string{models.RoleStaff, models.RoleDoctor, models.RoleAdmin}).
		Pluck("id", &staffIDs).Error; err != nil {
		return err
	}

	if len(staffIDs) == 0 {
		return nil
	}

	rows := make([]models.Notification, 0, len(staffIDs))
	for _, id := range staffIDs {
		rows = append(rows, row(id))
	}
	return s.db.WithContext(ctx).Create(&rows).Error
}
