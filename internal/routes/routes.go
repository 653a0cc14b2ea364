package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/caresync-app/caresync-api/internal/audit"
	"github.com/caresync-app/caresync-api/internal/config"
	"github.com/caresync-app/caresync-api/internal/domain/account"
	"github.com/caresync-app/caresync-api/internal/handlers"
	"github.com/caresync-app/caresync-api/internal/imagestore"
	infraRepo "github.com/caresync-app/caresync-api/internal/infra/repository"
	"github.com/caresync-app/caresync-api/internal/mailer"
	"github.com/caresync-app/caresync-api/internal/middleware"
	"github.com/caresync-app/caresync-api/internal/payments"
	ucAccounts "github.com/caresync-app/caresync-api/internal/usecase/accounts"
	ucBooking "github.com/caresync-app/caresync-api/internal/usecase/booking"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	rdb *redis.Client,
	cfg *config.Config,
	log *logrus.Logger,
) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	accountRepo := infraRepo.NewAccountGormRepository(db)
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	images := imagestore.NewS3Store(cfg)
	gateway := payments.NewStripeGateway(cfg)
	mail := mailer.NewMailgun(cfg)

	// ======================================================
	// USE CASES
	// ======================================================
	createAppointmentUC := ucBooking.NewCreateAppointment(appointmentRepo, accountRepo, auditDispatcher)
	updateAppointmentUC := ucBooking.NewUpdateAppointment(appointmentRepo, auditDispatcher)
	deleteAppointmentUC := ucBooking.NewDeleteAppointment(appointmentRepo, auditDispatcher)
	listAppointmentsUC := ucBooking.NewListAppointments(appointmentRepo)
	bookedSlotsUC := ucBooking.NewListBookedSlots(appointmentRepo, accountRepo)
	markPaidUC := ucBooking.NewMarkPaid(appointmentRepo, auditDispatcher)

	deleteAccountUC := ucAccounts.NewDeleteAccount(accountRepo, images, auditDispatcher, log)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(accountRepo, mail, cfg, log)
	doctorHandler := handlers.NewDoctorHandler(accountRepo, images, deleteAccountUC, auditDispatcher, log)
	meHandler := handlers.NewMeHandler(accountRepo, images, deleteAccountUC, auditDispatcher, log)
	adminHandler := handlers.NewAdminHandler(accountRepo, deleteAccountUC)
	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		updateAppointmentUC,
		deleteAppointmentUC,
		listAppointmentsUC,
		bookedSlotsUC,
	)
	paymentHandler := handlers.NewPaymentHandler(gateway, listAppointmentsUC, markPaidUC, cfg, log)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	authLimit := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP("auth"))
	bookingLimit := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByIP("booking"))

	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.GET("/doctors", doctorHandler.List)
		api.GET("/doctors/:id", doctorHandler.Get)

		api.POST("/auth/register", authLimit, authHandler.Register)
		api.POST("/auth/login", authLimit, authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)
		api.POST("/auth/forgot-password", authLimit, authHandler.ForgotPassword)
		api.POST("/auth/reset-password/:token", authLimit, authHandler.ResetPassword)

		// Gateway-signed, not user-authenticated.
		api.POST("/payments/webhook", paymentHandler.Webhook)

		// ------------------------------
		// AUTHENTICATED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.Get)
			secured.PATCH("/me", meHandler.Update)
			secured.DELETE("/me", meHandler.Delete)

			secured.PATCH("/me/doctor", doctorHandler.UpdateMe)

			secured.GET("/doctors/:id/slots", appointmentHandler.BookedSlots)

			secured.POST("/appointments", bookingLimit, appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.List)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.PATCH("/appointments/:id", appointmentHandler.Update)
			secured.DELETE("/appointments/:id", appointmentHandler.Delete)

			secured.POST("/payments/intent", paymentHandler.CreateIntent)

			// ------------------------------
			// ADMIN
			// ------------------------------
			admin := secured.Group("/admin")
			admin.Use(middleware.RequireRole(account.RoleAdmin))
			{
				admin.POST("/doctors", doctorHandler.Add)
				admin.PATCH("/doctors/:id", doctorHandler.Update)
				admin.DELETE("/doctors/:id", doctorHandler.Delete)

				admin.GET("/patients", adminHandler.ListPatients)
				admin.GET("/patients/:id", adminHandler.GetPatient)
				admin.DELETE("/patients/:id", adminHandler.DeletePatient)

				admin.GET("/audit-logs", auditLogsHandler.List)
			}
		}
	}
}
