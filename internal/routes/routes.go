package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/room-scheduler/internal/audit"
	"github.com/BruksfildServices01/room-scheduler/internal/clock"
	"github.com/BruksfildServices01/room-scheduler/internal/config"
	"github.com/BruksfildServices01/room-scheduler/internal/events"
	"github.com/BruksfildServices01/room-scheduler/internal/handlers"
	infraRepo "github.com/BruksfildServices01/room-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/room-scheduler/internal/lookup"
	"github.com/BruksfildServices01/room-scheduler/internal/middleware"
	"github.com/BruksfildServices01/room-scheduler/internal/timezone"
	ucBooking "github.com/BruksfildServices01/room-scheduler/internal/usecase/booking"
	ucNotification "github.com/BruksfildServices01/room-scheduler/internal/usecase/notification"
)

// Deps are the singletons built in main.
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Catalog  *lookup.Catalog
	Clock    clock.Clock
	Audit    *audit.Dispatcher
	Events   events.Publisher
	Pipeline ucNotification.Runner
	Log      *slog.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	r.HandleMethodNotAllowed = true
	r.NoMethod(handlers.MethodNotAllowed)

	// ======================================================
	// INFRA
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(d.DB)
	notificationRepo := infraRepo.NewNotificationGormRepository(d.DB)

	// ======================================================
	// USE CASES: BOOKINGS
	// ======================================================
	bookingDeps := ucBooking.Deps{
		Repo:    bookingRepo,
		Catalog: d.Catalog,
		Clock:   d.Clock,
		Audit:   d.Audit,
		Events:  d.Events,
		Log:     d.Log,
		Policy: ucBooking.Policy{
			RequireApproval: cfg.RequireApproval,
			NotifyOnCancel:  cfg.NotifyOnCancel,
			MaxRetries:      cfg.MaxRetries,
			Location:        timezone.Location(cfg.Timezone),
		},
	}

	// ======================================================
	// HANDLERS
	// ======================================================
	bookingHandler := handlers.NewBookingHandler(
		ucBooking.NewCreateBooking(bookingDeps),
		ucBooking.NewUpdateBooking(bookingDeps),
		ucBooking.NewCancelBooking(bookingDeps),
		ucBooking.NewConfirmBooking(bookingDeps),
		ucBooking.NewRejectBooking(bookingDeps),
		ucBooking.NewCompleteBooking(bookingDeps),
		ucBooking.NewCheckAvailability(bookingDeps),
		ucBooking.NewListBookings(bookingDeps),
	)

	notificationHandler := handlers.NewNotificationHandler(
		d.Pipeline,
		ucNotification.NewListInbox(notificationRepo, d.Catalog),
		ucNotification.NewMarkRead(notificationRepo, d.Catalog, d.Clock),
		d.Log,
	)

	meHandler := handlers.NewMeHandler(d.DB)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// TRIGGER (admin or cron secret)
		// ------------------------------
		api.POST("/notifications/process", middleware.CronOrAdmin(cfg), notificationHandler.Process)

		// ------------------------------
		// AUTHENTICATED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.GET("/me/notifications", notificationHandler.Inbox)
			secured.PATCH("/me/notifications/:id/read", notificationHandler.MarkRead)

			// ------------------------------
			// BOOKINGS
			// ------------------------------
			secured.GET("/bookings", bookingHandler.List)
			secured.POST("/bookings", bookingHandler.Create)
			secured.POST("/bookings/availability", bookingHandler.Availability)
			secured.PUT("/bookings/:id", bookingHandler.Update)
			secured.POST("/bookings/:id/cancel", bookingHandler.Cancel)
			secured.PATCH("/bookings/:id/complete", bookingHandler.Complete)
			secured.PATCH("/bookings/:id/confirm", middleware.RequireRole(middleware.RoleAdmin), bookingHandler.Confirm)
			secured.PATCH("/bookings/:id/reject", middleware.RequireRole(middleware.RoleAdmin), bookingHandler.Reject)

			secured.GET("/audit-logs", middleware.RequireRole(middleware.RoleAdmin), auditLogsHandler.List)
		}
	}
}
