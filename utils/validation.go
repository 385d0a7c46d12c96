// utils/validation.go
package utils

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/careerlanka/careerlink_backend/models"
)

// passwordSymbols is the fixed punctuation set a password must draw its
// symbol character from.
const passwordSymbols = "!@#$%^&*()-_=+[]{};:'\",.<>/?`~|\\"

var (
	phonePattern = regexp.MustCompile(`^[0-9]{9,10}$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("localphone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return isStrongPassword(fl.Field().String())
	})
	return v
}

// isStrongPassword enforces length plus one of each character class
func isStrongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

// ValidateRegistration normalizes the request in place and returns every
// violated rule found in this pass, not just the first, so the client can
// render the complete error set. A nil result means the request is valid.
func ValidateRegistration(req *models.RegistrationRequest) []models.FieldError {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)
	req.FullName = SanitizeInput(req.FullName)
	if req.Organization != nil {
		req.Organization.RegNumber = strings.ToUpper(strings.TrimSpace(req.Organization.RegNumber))
		req.Organization.Address = SanitizeInput(req.Organization.Address)
	}

	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	violations, ok := err.(validator.ValidationErrors)
	if !ok {
		return []models.FieldError{{Field: "request", Message: "invalid request"}}
	}

	fieldErrors := make([]models.FieldError, 0, len(violations))
	for _, v := range violations {
		fieldErrors = append(fieldErrors, fieldError(v))
	}
	return fieldErrors
}

func fieldError(v validator.FieldError) models.FieldError {
	switch v.StructField() {
	case "Kind":
		return models.FieldError{Field: "kind", Message: "kind must be individual or organization"}
	case "FullName":
		return models.FieldError{Field: "fullName", Message: "organization name is required"}
	case "Email":
		return models.FieldError{Field: "email", Message: "a valid email address is required"}
	case "Phone":
		return models.FieldError{Field: "phone", Message: "phone must be 9 to 10 digits"}
	case "Password":
		return models.FieldError{Field: "password", Message: "password must be at least 8 characters with an uppercase letter, a lowercase letter, a digit and a symbol"}
	case "ConfirmPassword":
		return models.FieldError{Field: "confirmPassword", Message: "password confirmation does not match"}
	case "TermsAccepted":
		return models.FieldError{Field: "termsAccepted", Message: "terms must be accepted"}
	}
	return models.FieldError{Field: strings.ToLower(v.StructField()), Message: "invalid value"}
}

// SanitizeInput strips control characters and HTML-escapes user input
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = html.EscapeString(input)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)
}
