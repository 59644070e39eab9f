package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

type SweepHandler struct {
	sweep *ucAppointment.Sweep
}

func NewSweepHandler(sweep *ucAppointment.Sweep) *SweepHandler {
	return &SweepHandler{sweep: sweep}
}

// Run forces a sweep now, ignoring the throttle. ?dry_run=true only reports.
func (h *SweepHandler) Run(c *gin.Context) {
	if c.Query("dry_run") == "true" {
		preview, err := h.sweep.Preview(c.Request.Context())
		if err != nil {
			httperr.FromError(c, err, "sweep_failed")
			return
		}
		httpresp.OK(c, gin.H{
			"dry_run":   true,
			"cancelled": len(preview.Cancel),
			"completed": len(preview.Complete),
			"preview":   preview,
		})
		return
	}

	res, err := h.sweep.Execute(c.Request.Context())
	if err != nil {
		httperr.FromError(c, err, "sweep_failed")
		return
	}
	httpresp.OK(c, res)
}
