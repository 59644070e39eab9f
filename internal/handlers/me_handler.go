package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
)

type MeHandler struct {
	repo domain.Repository
}

func NewMeHandler(repo domain.Repository) *MeHandler {
	return &MeHandler{repo: repo}
}

// GetMe returns the caller's patient profile. Staff accounts have none and
// get only their identity back.
func (h *MeHandler) GetMe(c *gin.Context) {
	userID := middleware.UserID(c)
	role := c.GetString(middleware.ContextUserRole)

	patient, err := h.repo.FindPatientByUser(c.Request.Context(), userID)
	if err != nil {
		if httperr.IsBusiness(err, "patient_not_found") {
			c.JSON(http.StatusOK, gin.H{
				"user":    gin.H{"id": userID, "role": role},
				"patient": nil,
			})
			return
		}
		httperr.FromError(c, err, "profile_lookup_failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":    userID,
			"role":  role,
			"name":  patient.User.Name,
			"email": patient.User.Email,
		},
		"patient": gin.H{
			"id":              patient.ID,
			"full_name":       patient.DisplayName(),
			"phone":           patient.Phone,
			"whatsapp_number": patient.WhatsappNumber,
			"country":         patient.Country,
			"city":            patient.City,
			"timezone":        patient.Timezone,
		},
	})
}
