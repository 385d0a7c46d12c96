package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/careerlanka/careerlink_backend/controllers"
	"github.com/careerlanka/careerlink_backend/middleware"
	"github.com/careerlanka/careerlink_backend/repositories"
	"github.com/careerlanka/careerlink_backend/services"
	"github.com/careerlanka/careerlink_backend/utils"
)

// RegisterRoutes wires the registration pipeline and its supporting routes
func RegisterRoutes(e *echo.Echo, db *mongo.Client) {
	accounts := repositories.NewAccountRepository(db)
	pending := repositories.NewPendingRepository(db)
	service := services.NewRegistrationService(accounts, pending, utils.NewSMTPMailer())

	registrationController := controllers.NewRegistrationController(service)
	authController := controllers.NewAuthController(service)

	// Public registration pipeline
	e.POST("/register/start", registrationController.StartRegistration)
	e.POST("/register/resend-otp", registrationController.ResendOTP)
	e.POST("/register/verify-otp", registrationController.VerifyOTP)
	e.POST("/verify-logo", registrationController.VerifyLogo)
	e.POST("/check-duplicate", registrationController.CheckDuplicate)

	// Sign-in for committed accounts
	e.POST("/login", authController.Login)

	// Authenticated organization routes
	org := e.Group("/organization", middleware.JWTMiddleware())
	org.PUT("/logo", authController.UpdateOrganizationLogo)
}
