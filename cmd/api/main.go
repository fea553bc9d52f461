package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-marketplace/internal/audit"
	"github.com/BruksfildServices01/booking-marketplace/internal/catalog"
	"github.com/BruksfildServices01/booking-marketplace/internal/config"
	dbpkg "github.com/BruksfildServices01/booking-marketplace/internal/db"
	"github.com/BruksfildServices01/booking-marketplace/internal/handlers"
	"github.com/BruksfildServices01/booking-marketplace/internal/idempotency"
	infraRepo "github.com/BruksfildServices01/booking-marketplace/internal/infra/repository"
	"github.com/BruksfildServices01/booking-marketplace/internal/logging"
	"github.com/BruksfildServices01/booking-marketplace/internal/media"
	"github.com/BruksfildServices01/booking-marketplace/internal/metrics"
	"github.com/BruksfildServices01/booking-marketplace/internal/notify"
	"github.com/BruksfildServices01/booking-marketplace/internal/payment"
	"github.com/BruksfildServices01/booking-marketplace/internal/reminder"
	"github.com/BruksfildServices01/booking-marketplace/internal/routes"
	"github.com/BruksfildServices01/booking-marketplace/internal/timezone"
	ucBooking "github.com/BruksfildServices01/booking-marketplace/internal/usecase/booking"
	ucTimeOff "github.com/BruksfildServices01/booking-marketplace/internal/usecase/timeoff"
)

func main() {

	cfg := config.Load()

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ======================================================
	// 🔧 INFRA
	// ======================================================
	db, err := dbpkg.NewDB(cfg, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}

	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		logger.Fatal("catalog", zap.Error(err))
	}

	if !timezone.IsValid(cfg.BusinessTimezone) {
		logger.Warn("unknown business timezone, using default",
			zap.String("configured", cfg.BusinessTimezone),
			zap.String("default", timezone.DefaultTimezone),
		)
	}
	loc := timezone.Location(cfg.BusinessTimezone)

	// redis is optional; without it webhooks are not deduplicated and
	// reminder runs are not locked across replicas
	var (
		rdb    *redis.Client
		claims ucBooking.Claimer
		locker reminder.Locker
	)
	if cfg.RedisURL != "" {
		rdb, err = idempotency.NewClient(cfg.RedisURL)
		if err != nil {
			logger.Fatal("redis", zap.Error(err))
		}
		defer rdb.Close()

		store := idempotency.New(rdb)
		claims, locker = store, store
	} else {
		logger.Warn("REDIS_URL not set, webhook dedupe and reminder lock disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	auditDispatcher := audit.NewDispatcher(audit.New(db), logger)
	defer auditDispatcher.Close()

	gateway, err := payment.New(cfg.PaymentProvider, payment.Config{
		StripeSecretKey:          cfg.StripeSecretKey,
		StripeWebhookSecret:      cfg.StripeWebhookSecret,
		MercadoPagoAccessToken:   cfg.MercadoPagoAccessToken,
		MercadoPagoWebhookSecret: cfg.MercadoPagoWebhookSecret,
	})
	if err != nil {
		logger.Fatal("payment gateway", zap.Error(err))
	}
	logger.Info("payment gateway", zap.String("provider", gateway.Name()))

	notifier := notify.NewService(notify.NewSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.EmailFrom,
		FromName:  cfg.EmailFromName,
	}, logger), logger)

	s3cfg := media.S3Config{
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		Endpoint:        cfg.S3Endpoint,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretKey,
		PublicBaseURL:   cfg.S3PublicBaseURL,
	}
	var images *media.Store
	if cfg.S3Bucket != "" {
		images = media.NewStore(media.NewS3Client(s3cfg), s3cfg, logger)
	}

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db, cat)
	timeOffRepo := infraRepo.NewTimeOffGormRepository(db)

	availabilityUC := ucBooking.NewGetAvailability(bookingRepo, cat, m, logger)
	checkTimeOffUC := ucBooking.NewCheckTimeOff(
		bookingRepo,
		ucBooking.ParseFailMode(cfg.TimeOffFailMode),
		m,
		logger,
	)

	createBookingUC := ucBooking.NewCreateBooking(
		bookingRepo,
		availabilityUC,
		gateway,
		ucBooking.CheckoutURLs{
			Success:      cfg.FrontendBaseURL + "/bookings/success",
			Cancel:       cfg.FrontendBaseURL + "/bookings/cancelled",
			Notification: cfg.PublicBaseURL + "/api/webhooks/payments/" + gateway.Name(),
		},
		auditDispatcher,
		m,
		logger,
	)
	rescheduleUC := ucBooking.NewRescheduleBooking(
		bookingRepo,
		availabilityUC,
		checkTimeOffUC,
		notifier,
		auditDispatcher,
		logger,
	)
	cancelUC := ucBooking.NewCancelBooking(bookingRepo, notifier, auditDispatcher)
	updateStatusUC := ucBooking.NewUpdateBookingStatus(bookingRepo, notifier, auditDispatcher)
	listUC := ucBooking.NewListBookings(bookingRepo)
	applyPaymentUC := ucBooking.NewApplyPaymentEvent(
		bookingRepo,
		claims,
		notifier,
		auditDispatcher,
		m,
		logger,
	)

	timeOffUC := ucTimeOff.NewManage(timeOffRepo, auditDispatcher)

	reminderJob := reminder.NewJob(bookingRepo, notifier, locker, loc, m, logger)

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	var imageStore handlers.ImageStore
	if images != nil {
		imageStore = images
	}

	h := routes.Handlers{
		Health: handlers.NewHealthHandler(readinessChecks(db, rdb)),
		Bookings: handlers.NewBookingHandler(
			availabilityUC,
			createBookingUC,
			listUC,
			rescheduleUC,
			cancelUC,
			cfg.CheckEmailMX,
		),
		AdminBooking: handlers.NewAdminBookingHandler(listUC, updateStatusUC),
		TimeOff:      handlers.NewTimeOffHandler(timeOffUC, checkTimeOffUC),
		Services:     handlers.NewServiceHandler(db, imageStore, auditDispatcher, logger),
		Users:        handlers.NewUserHandler(db, auditDispatcher),
		AuditLogs:    handlers.NewAuditLogsHandler(db),
		Webhooks:     handlers.NewPaymentWebhookHandler(gateway, applyPaymentUC, logger),
		Cron:         handlers.NewCronHandler(reminderJob),
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), logging.GinMiddleware(logger))

	routes.RegisterRoutes(r, h, routes.Options{
		AuthSecret:  cfg.AuthJWTSecret,
		CronSecret:  cfg.CronSecret,
		CORSOrigins: cfg.CORSOrigins,
		Gatherer:    registry,
	})

	// ======================================================
	// ⏰ IN-PROCESS SCHEDULE
	// ======================================================
	if cfg.ReminderCron != "" {
		scheduler, err := reminder.Schedule(cfg.ReminderCron, reminderJob)
		if err != nil {
			logger.Fatal("reminder schedule", zap.Error(err))
		}
		scheduler.Start()
		defer func() { <-scheduler.Stop().Done() }()

		logger.Info("reminder schedule started",
			zap.String("spec", cfg.ReminderCron),
			zap.String("timezone", loc.String()),
		)
	}

	// ======================================================
	// 🚀 SERVER
	// ======================================================
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
}

func readinessChecks(db *gorm.DB, rdb *redis.Client) map[string]handlers.Pinger {
	checks := map[string]handlers.Pinger{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}
	return checks
}
