package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BruksfildServices01/booking-marketplace/internal/handlers"
	"github.com/BruksfildServices01/booking-marketplace/internal/middleware"
)

type Handlers struct {
	Health       *handlers.HealthHandler
	Bookings     *handlers.BookingHandler
	AdminBooking *handlers.AdminBookingHandler
	TimeOff      *handlers.TimeOffHandler
	Services     *handlers.ServiceHandler
	Users        *handlers.UserHandler
	AuditLogs    *handlers.AuditLogsHandler
	Webhooks     *handlers.PaymentWebhookHandler
	Cron         *handlers.CronHandler
}

type Options struct {
	AuthSecret  string
	CronSecret  string
	CORSOrigins []string

	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

func RegisterRoutes(r *gin.Engine, h Handlers, opts Options) {

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware(opts.CORSOrigins))

	r.GET("/health", h.Health.Live)
	r.GET("/ready", h.Health.Ready)

	if opts.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 PUBLIC
		// ------------------------------
		api.GET("/availability", h.Bookings.Availability)
		api.GET("/services", h.Services.ListPublic)
		api.GET("/services/:id", h.Services.Get)

		api.POST("/webhooks/payments/:provider", h.Webhooks.Handle)

		cron := api.Group("/cron")
		cron.Use(middleware.CronSecret(opts.CronSecret))
		{
			cron.POST("/reminders", h.Cron.Reminders)
		}

		// ------------------------------
		// 🔐 AUTHENTICATED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(
			middleware.AuthMiddleware(opts.AuthSecret),
			middleware.ProfileRole(h.Users.RoleOf),
		)
		{
			secured.GET("/me", h.Users.GetMe)
			secured.PATCH("/me", h.Users.UpdateMe)

			secured.GET("/bookings", h.Bookings.ListMine)
			secured.POST("/bookings", h.Bookings.Create)
			secured.POST("/bookings/:id/reschedule", h.Bookings.Reschedule)
			secured.POST("/bookings/:id/cancel", h.Bookings.Cancel)
		}

		// ------------------------------
		// 🛠️ ADMIN
		// ------------------------------
		admin := secured.Group("/admin")
		admin.Use(middleware.RequireRole(middleware.RoleAdmin))
		{
			admin.GET("/bookings", h.AdminBooking.List)
			admin.PATCH("/bookings/:id/status", h.AdminBooking.UpdateStatus)

			admin.GET("/services", h.Services.ListAll)
			admin.POST("/services", h.Services.Create)
			admin.PATCH("/services/:id", h.Services.Update)
			admin.POST("/services/:id/image", h.Services.UploadImage)

			admin.GET("/users", h.Users.List)
			admin.PATCH("/users/:id/role", h.Users.UpdateRole)

			admin.GET("/time-off", h.TimeOff.List)
			admin.POST("/time-off", h.TimeOff.Create)
			admin.GET("/time-off/check", h.TimeOff.Check)
			admin.DELETE("/time-off/:id", h.TimeOff.Delete)

			admin.GET("/audit-logs", h.AuditLogs.List)
		}
	}
}
