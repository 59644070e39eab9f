package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

type SlotHandler struct {
	list   *ucAppointment.ListSlots
	manage *ucAppointment.ManageSlots
}

func NewSlotHandler(
	list *ucAppointment.ListSlots,
	manage *ucAppointment.ManageSlots,
) *SlotHandler {
	return &SlotHandler{list: list, manage: manage}
}

type CreateSlotRequest struct {
	Date        string `json:"date" binding:"required"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	Timezone    string `json:"timezone"`
	SlotType    string `json:"slot_type"`
	MaxBookings int    `json:"max_bookings"`
}

// Open is the patient view: bookable slots only.
func (h *SlotHandler) Open(c *gin.Context) {
	slots, err := h.list.Open(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err, "slot_list_failed")
		return
	}
	httpresp.List(c, slots)
}

func (h *SlotHandler) List(c *gin.Context) {
	slots, err := h.list.All(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err, "slot_list_failed")
		return
	}
	httpresp.List(c, slots)
}

func (h *SlotHandler) Create(c *gin.Context) {
	var req CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "date, start_time and end_time are required.")
		return
	}

	slot, err := h.manage.Create(c.Request.Context(), middleware.UserID(c), domain.SlotInput{
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Timezone:    req.Timezone,
		SlotType:    req.SlotType,
		MaxBookings: req.MaxBookings,
	})
	if err != nil {
		httperr.FromError(c, err, "slot_create_failed")
		return
	}

	httpresp.Created(c, slot)
}

func (h *SlotHandler) Toggle(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	slot, err := h.manage.Toggle(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		httperr.FromError(c, err, "slot_toggle_failed")
		return
	}
	httpresp.OK(c, slot)
}

func (h *SlotHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.manage.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		httperr.FromError(c, err, "slot_delete_failed")
		return
	}
	c.Status(http.StatusNoContent)
}
