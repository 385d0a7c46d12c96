// controllers/registration_controller.go
package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/careerlanka/careerlink_backend/config"
	"github.com/careerlanka/careerlink_backend/middleware"
	"github.com/careerlanka/careerlink_backend/models"
	"github.com/careerlanka/careerlink_backend/services"
	"github.com/careerlanka/careerlink_backend/utils"
)

// RegistrationController exposes the registration pipeline over HTTP. The
// five endpoint shapes follow the public API contract rather than the
// internal response envelope.
type RegistrationController struct {
	service *services.RegistrationService
	logger  *log.Logger
}

func NewRegistrationController(service *services.RegistrationService) *RegistrationController {
	return &RegistrationController{
		service: service,
		logger:  log.New(os.Stdout, "registration-controller: ", log.LstdFlags),
	}
}

func requestContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 15*time.Second)
}

// StartRegistration handles POST /register/start. Accepts JSON or, when a
// logo accompanies an organization signup, multipart form data.
func (rc *RegistrationController) StartRegistration(c echo.Context) error {
	var req models.RegistrationRequest
	var logoPath string

	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		req = models.RegistrationRequest{
			Kind:            models.AccountKind(c.FormValue("kind")),
			FullName:        c.FormValue("fullName"),
			Email:           c.FormValue("email"),
			Phone:           c.FormValue("phone"),
			Password:        c.FormValue("password"),
			ConfirmPassword: c.FormValue("confirmPassword"),
			TermsAccepted:   c.FormValue("termsAccepted") == "true",
		}
		if req.Kind == models.KindOrganization {
			req.Organization = &models.OrganizationDetails{
				RegNumber: c.FormValue("regNumber"),
				Address:   c.FormValue("address"),
			}
		}

		if file, err := c.FormFile("logo"); err == nil {
			path, err := utils.SaveTempUpload(file)
			if err != nil {
				return c.JSON(http.StatusBadRequest, map[string]interface{}{
					"errors": []models.FieldError{{Field: "logo", Message: err.Error()}},
				})
			}
			logoPath = path
		}
	} else {
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"errors": []models.FieldError{{Field: "request", Message: "invalid request body"}},
			})
		}
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := rc.service.Start(ctx, &req, logoPath)
	if err != nil {
		return rc.renderStartError(c, err)
	}

	rc.logger.Printf("registration parked for %s, stage=%s", utils.MaskEmail(req.Email), result.Stage)
	return c.JSON(http.StatusAccepted, result)
}

func (rc *RegistrationController) renderStartError(c echo.Context, err error) error {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"errors": validationErr.Fields,
		})
	}

	var authenticityErr *services.AuthenticityError
	if errors.As(err, &authenticityErr) {
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"message":    "organization could not be verified, provide a valid registration number or logo",
			"confidence": authenticityErr.Confidence,
		})
	}

	if errors.Is(err, services.ErrDuplicate) || errors.Is(err, services.ErrStorageConflict) {
		return c.JSON(http.StatusConflict, map[string]interface{}{
			"message": "an account with these details already exists",
		})
	}

	rc.logger.Printf("registration start failed: %v", err)
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"message": "registration failed, please try again",
	})
}

// ResendOTP handles POST /register/resend-otp
func (rc *RegistrationController) ResendOTP(c echo.Context) error {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"message": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"message": "a valid email is required"})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := utils.CheckResendThrottle(ctx, config.GetRedisClient(), req.Email); err != nil {
		return c.JSON(http.StatusTooManyRequests, map[string]interface{}{"message": "too many resend requests"})
	}

	if err := rc.service.Resend(ctx, req.Email); err != nil {
		if errors.Is(err, services.ErrOtpNotFound) {
			return c.JSON(http.StatusNotFound, map[string]interface{}{"message": "no pending registration for this email"})
		}
		rc.logger.Printf("resend failed for %s: %v", utils.MaskEmail(req.Email), err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{"message": "failed to resend code"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"message": "verification code resent"})
}

// VerifyOTP handles POST /register/verify-otp: the commit step of a
// registration.
func (rc *RegistrationController) VerifyOTP(c echo.Context) error {
	var req struct {
		Email string `json:"email" validate:"required,email"`
		OTP   string `json:"otp" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"message": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"message": "email and otp are required"})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	account, err := rc.service.VerifyOtp(ctx, req.Email, req.OTP)
	if err != nil {
		if reason := services.OtpReason(err); reason != "" {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{"reason": reason})
		}
		if errors.Is(err, services.ErrStorageConflict) {
			return c.JSON(http.StatusConflict, map[string]interface{}{
				"message": "an account with these details already exists",
			})
		}
		rc.logger.Printf("OTP verification failed for %s: %v", utils.MaskEmail(req.Email), err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{"message": "verification failed"})
	}

	token, err := middleware.GenerateJWT(account.ID, account.Email, string(account.Kind))
	if err != nil {
		rc.logger.Printf("token generation failed for %s: %v", utils.MaskEmail(account.Email), err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{"message": "account created but sign-in failed, please log in"})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"account": account,
		"token":   token,
	})
}

// VerifyLogo handles POST /verify-logo: compares an uploaded logo against
// the stored reference of the named organization.
func (rc *RegistrationController) VerifyLogo(c echo.Context) error {
	organizationName := c.FormValue("organizationName")
	if organizationName == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"message": "organizationName is required"})
	}

	file, err := c.FormFile("logo")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"message": "logo image is required"})
	}
	logoPath, err := utils.SaveTempUpload(file)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"message": err.Error()})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := rc.service.VerifyLogo(ctx, organizationName, logoPath)
	if err != nil {
		rc.logger.Printf("logo verification failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{"message": "logo verification failed"})
	}
	return c.JSON(http.StatusOK, result)
}

// CheckDuplicate handles POST /check-duplicate, the pre-submit probe. It
// answers existence only, never which field collided.
func (rc *RegistrationController) CheckDuplicate(c echo.Context) error {
	var query models.DuplicateQuery
	if err := c.Bind(&query); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"message": "invalid request body"})
	}
	if query.IsEmpty() {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{"message": "at least one field is required"})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	return c.JSON(http.StatusOK, map[string]interface{}{
		"exists": rc.service.CheckDuplicate(ctx, query),
	})
}
