package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hospital-appointments-server/internal/handlers"
	"hospital-appointments-server/internal/middleware"
	"hospital-appointments-server/internal/models"
)

// Handlers bundles everything the router serves.
type Handlers struct {
	Auth          *handlers.AuthHandler
	Appointments  *handlers.AppointmentHandler
	PasswordReset *handlers.PasswordResetHandler
	Metrics       http.Handler
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, h Handlers, jwtSecret string) {
	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/patient/register", h.Auth.RegisterPatient)
			authRoutes.POST("/patient/login", h.Auth.PatientLogin)
			authRoutes.POST("/doctor/login", h.Auth.DoctorLogin)
		}

		resetRoutes := public.Group("/password-reset")
		{
			resetRoutes.POST("/initiate", h.PasswordReset.InitiateReset)
			resetRoutes.POST("/complete", h.PasswordReset.CompleteReset)
		}
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(jwtSecret))
	{
		private.GET("/auth/me", h.Auth.GetProfile)
		private.PUT("/auth/me", middleware.RoleAuthMiddleware(models.RolePatient), h.Auth.UpdateProfile)
		private.PUT("/auth/change-password", middleware.RoleAuthMiddleware(models.RolePatient), h.PasswordReset.ChangePassword)

		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("", h.Appointments.CreateAppointment)
			appointmentRoutes.GET("", h.Appointments.GetAppointments)
			appointmentRoutes.GET("/:id", h.Appointments.GetAppointmentByID)
			appointmentRoutes.PUT("/:id", h.Appointments.UpdateAppointment)
			appointmentRoutes.PUT("/:id/status", h.Appointments.UpdateAppointmentStatus)
			appointmentRoutes.DELETE("/:id", middleware.RoleAuthMiddleware(models.RoleDoctor), h.Appointments.DeleteAppointment)

			appointmentRoutes.GET("/patient/:patientId", h.Appointments.GetAppointmentsByPatient)
			appointmentRoutes.GET("/status/:status", middleware.RoleAuthMiddleware(models.RoleDoctor), h.Appointments.GetAppointmentsByStatus)
			appointmentRoutes.GET("/date/:date", middleware.RoleAuthMiddleware(models.RoleDoctor), h.Appointments.GetAppointmentsByDate)

			doctorRoutes := appointmentRoutes.Group("/doctor/:doctorId")
			doctorRoutes.Use(middleware.RoleAuthMiddleware(models.RoleDoctor))
			{
				doctorRoutes.GET("", h.Appointments.GetAppointmentsByDoctor)
				doctorRoutes.GET("/date/:date", h.Appointments.GetAppointmentsByDoctorAndDate)
				doctorRoutes.GET("/upcoming", h.Appointments.GetUpcomingAppointments)
				doctorRoutes.GET("/past", h.Appointments.GetPastAppointments)
				doctorRoutes.GET("/today", h.Appointments.GetTodayAppointments)
			}
		}
	}

	if h.Metrics != nil {
		router.GET("/metrics", gin.WrapH(h.Metrics))
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
}
