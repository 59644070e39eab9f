package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/handlers"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/sweep"
)

type Handlers struct {
	Me            *handlers.MeHandler
	Appointments  *handlers.AppointmentHandler
	Slots         *handlers.SlotHandler
	Sweep         *handlers.SweepHandler
	Notifications *handlers.NotificationsHandler
	AuditLogs     *handlers.AuditLogsHandler
}

type Options struct {
	JWTSecret   string
	CORSOrigins []string

	// SweepGate, when set, piggybacks the periodic sweep on portal and
	// staff traffic.
	SweepGate *sweep.Gate

	// Extra unauthenticated routes such as /metrics.
	Metrics http.Handler
}

func RegisterRoutes(r *gin.Engine, h Handlers, opts Options) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.CORSMiddleware(opts.CORSOrigins),
		middleware.RequestLogger(),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(opts.JWTSecret))

	api.GET("/me", h.Me.GetMe)

	throttle := func(g *gin.RouterGroup) {
		if opts.SweepGate != nil {
			g.Use(opts.SweepGate.Middleware())
		}
	}

	// ------------------------------
	// 🧑 PATIENT PORTAL
	// ------------------------------
	portal := api.Group("/portal")
	portal.Use(middleware.RequireRole(models.RolePatient))
	throttle(portal)
	{
		portal.POST("/appointments", h.Appointments.Create)
		portal.GET("/appointments", h.Appointments.ListMine)
		portal.GET("/appointments/:id", h.Appointments.GetMine)
		portal.POST("/appointments/:id/payment", h.Appointments.SubmitPayment)
		portal.GET("/appointments/:id/join", h.Appointments.Join)

		portal.GET("/notifications", h.Notifications.List)
		portal.PATCH("/notifications/:id/read", h.Notifications.MarkRead)

		portal.GET("/slots", h.Slots.Open)
	}

	// ------------------------------
	// 🩺 STAFF
	// ------------------------------
	staff := api.Group("/staff")
	staff.Use(middleware.RequireStaff())
	throttle(staff)
	{
		staff.GET("/appointments", h.Appointments.List)
		staff.GET("/appointments/:id", h.Appointments.Get)
		staff.POST("/appointments/:id/verify-payment", h.Appointments.VerifyPayment)
		staff.POST("/appointments/:id/reject-payment", h.Appointments.RejectPayment)
		staff.POST("/appointments/:id/assign-slot", h.Appointments.AssignSlot)
		staff.POST("/appointments/:id/cancel", h.Appointments.Cancel)
		staff.POST("/appointments/:id/complete", h.Appointments.Complete)

		staff.GET("/slots", h.Slots.List)
		staff.POST("/slots", h.Slots.Create)
		staff.PATCH("/slots/:id/toggle", h.Slots.Toggle)
		staff.DELETE("/slots/:id", h.Slots.Delete)

		staff.POST("/sweep", h.Sweep.Run)
		staff.GET("/audit-logs", h.AuditLogs.List)
	}
}
