package app

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/handlers"
	infraRepo "github.com/BruksfildServices01/clinic-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logger"
	"github.com/BruksfildServices01/clinic-scheduler/internal/notify"
	"github.com/BruksfildServices01/clinic-scheduler/internal/routes"
	"github.com/BruksfildServices01/clinic-scheduler/internal/storage"
	"github.com/BruksfildServices01/clinic-scheduler/internal/sweep"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// App holds the long-lived singletons shared by the API server and the
// sweep command.
type App struct {
	Repo   domain.Repository
	Audit  *audit.Dispatcher
	Notify *notify.Dispatcher
	Sweep  *ucAppointment.Sweep
	Gate   *sweep.Gate

	Handlers routes.Handlers

	closers []func()
}

func New(cfg *config.Config, db *gorm.DB) *App {
	a := &App{}
	clock := domain.SystemClock{}

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	a.Repo = infraRepo.NewAppointmentGormRepository(db)

	a.Audit = audit.NewDispatcher(audit.New(db))
	a.Notify = notify.NewDispatcher(buildSinks(cfg, db, a), notify.DefaultQueueSize)

	var marker sweep.MarkerStore = sweep.NewMemoryMarker()
	if cfg.RedisEnabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		marker = sweep.NewRedisMarker(rdb)
		logger.Info("sweep marker: redis", "addr", cfg.RedisAddr)
	}

	var proofs handlers.ProofUploader
	if cfg.S3Enabled() {
		proofs = storage.NewS3ProofStore(storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	}

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	a.Sweep = ucAppointment.NewSweep(a.Repo, a.Audit, a.Notify, clock, cfg.CompletionGrace)
	a.Gate = sweep.NewGate(marker, a.Sweep, cfg.SweepInterval)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	a.Handlers = routes.Handlers{
		Me: handlers.NewMeHandler(a.Repo),
		Appointments: handlers.NewAppointmentHandler(
			ucAppointment.NewCreateRequest(a.Repo, a.Audit, a.Notify, clock, cfg.PaymentWindow),
			ucAppointment.NewSubmitPaymentProof(a.Repo, a.Audit, a.Notify),
			ucAppointment.NewVerifyPayment(a.Repo, a.Audit, a.Notify, clock),
			ucAppointment.NewRejectPayment(a.Repo, a.Audit, a.Notify),
			ucAppointment.NewAssignSlot(a.Repo, a.Audit, a.Notify),
			ucAppointment.NewCancelAppointment(a.Repo, a.Audit, a.Notify, clock),
			ucAppointment.NewCompleteAppointment(a.Repo, a.Audit, a.Notify, clock),
			ucAppointment.NewListAppointments(a.Repo),
			ucAppointment.NewJoinConsultation(a.Repo, a.Audit, clock),
			proofs,
		),
		Slots: handlers.NewSlotHandler(
			ucAppointment.NewListSlots(a.Repo, clock),
			ucAppointment.NewManageSlots(a.Repo, a.Audit),
		),
		Sweep:         handlers.NewSweepHandler(a.Sweep),
		Notifications: handlers.NewNotificationsHandler(db),
		AuditLogs:     handlers.NewAuditLogsHandler(db),
	}

	return a
}

func buildSinks(cfg *config.Config, db *gorm.DB, a *App) notify.Sink {
	sinks := notify.Multi{notify.NewStoreSink(db)}

	if cfg.EmailEnabled() {
		sinks = append(sinks, notify.NewEmailSink(
			cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword,
			cfg.EmailFrom, cfg.SiteURL,
		))
		logger.Info("notifications: email enabled", "host", cfg.SMTPHost)
	}

	if cfg.KafkaEnabled() {
		k := notify.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic)
		a.closers = append(a.closers, func() { _ = k.Close() })
		sinks = append(sinks, k)
		logger.Info("notifications: kafka enabled", "topic", cfg.KafkaTopic)
	}

	return sinks
}

// Close drains the queues first, then releases the clients they write to.
func (a *App) Close() {
	a.Notify.Close()
	a.Audit.Close()
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
