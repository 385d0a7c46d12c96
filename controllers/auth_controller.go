// controllers/auth_controller.go
package controllers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/careerlanka/careerlink_backend/middleware"
	"github.com/careerlanka/careerlink_backend/models"
	"github.com/careerlanka/careerlink_backend/services"
	"github.com/careerlanka/careerlink_backend/utils"
)

// AuthController handles sign-in and the authenticated logo update
type AuthController struct {
	service *services.RegistrationService
	logger  *log.Logger
}

func NewAuthController(service *services.RegistrationService) *AuthController {
	return &AuthController{
		service: service,
		logger:  log.New(os.Stdout, "auth-controller: ", log.LstdFlags),
	}
}

// Login authenticates a committed account and returns a JWT
func (ac *AuthController) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email and password are required",
		})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	account, err := ac.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid email or password",
			})
		}
		ac.logger.Printf("login failed for %s: %v", utils.MaskEmail(req.Email), err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Login failed",
		})
	}

	token, err := middleware.GenerateJWT(account.ID, account.Email, string(account.Kind))
	if err != nil {
		ac.logger.Printf("token generation failed: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Login failed",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: map[string]interface{}{
			"account": account,
			"token":   token,
		},
	})
}

// UpdateOrganizationLogo replaces the stored logo and its reference hash for
// the authenticated organization. This is the only operation that mutates a
// committed logoHash.
func (ac *AuthController) UpdateOrganizationLogo(c echo.Context) error {
	claims := middleware.GetClaims(c)
	if claims == nil || claims.Role != string(models.KindOrganization) {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "Only organization accounts can update a logo",
		})
	}

	file, err := c.FormFile("logo")
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Logo image is required",
		})
	}

	data, err := utils.ReadFormFile(file)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	logoURL, err := utils.SaveLogoFile(data, claims.AccountID, ext)
	if err != nil {
		ac.logger.Printf("logo save failed for %s: %v", claims.AccountID, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to store logo",
		})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	hash, err := ac.service.UpdateLogo(ctx, claims.AccountID, data, logoURL)
	if err != nil {
		if errors.Is(err, services.ErrImageDecode) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Logo image could not be decoded",
			})
		}
		if errors.Is(err, services.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Organization not found",
			})
		}
		ac.logger.Printf("logo update failed for %s: %v", claims.AccountID, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update logo",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Logo updated",
		Data: map[string]interface{}{
			"logoHash": hash,
			"logoUrl":  logoURL,
		},
	})
}
