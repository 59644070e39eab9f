package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type NotificationsHandler struct {
	db *gorm.DB
}

func NewNotificationsHandler(db *gorm.DB) *NotificationsHandler {
	return &NotificationsHandler{db: db}
}

func (h *NotificationsHandler) List(c *gin.Context) {
	userID := middleware.UserID(c)
	page, limit, offset := pagination(c)

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.Notification{}).
		Where("user_id = ?", userID)

	if c.Query("unread") == "true" {
		q = q.Where("is_read = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "notifications_count_failed", "Could not count notifications.")
		return
	}

	var items []models.Notification
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error; err != nil {
		httperr.Internal(c, "notifications_list_failed", "Could not list notifications.")
		return
	}

	httpresp.Page(c, items, total, page, limit)
}

func (h *NotificationsHandler) MarkRead(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	now := time.Now().UTC()
	res := h.db.WithContext(c.Request.Context()).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, middleware.UserID(c)).
		Updates(map[string]any{"is_read": true, "read_at": now})
	if res.Error != nil {
		httperr.Internal(c, "notification_update_failed", "Could not update notification.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "notification_not_found", "Notification not found.")
		return
	}

	c.Status(http.StatusNoContent)
}
