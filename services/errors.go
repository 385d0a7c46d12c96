// services/errors.go
package services

import (
	"errors"
	"fmt"

	"github.com/careerlanka/careerlink_backend/models"
)

// Store-level sentinels returned by AccountStore / PendingStore
// implementations.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record violates a uniqueness constraint")
)

// Registration pipeline errors. Every component failure is translated into
// one of these before it leaves the service layer; raw storage and filesystem
// errors never reach a handler.
var (
	// ErrDuplicate is the pre-commit duplicate check firing
	ErrDuplicate = errors.New("an account with these details already exists")
	// ErrStorageConflict is a unique index firing at commit time, the
	// fallback for the check-then-act window. Handlers present it exactly
	// like ErrDuplicate.
	ErrStorageConflict = errors.New("account creation conflicted with an existing record")

	ErrInvalidCredentials = errors.New("invalid email or password")
)

// OTP verification failures
var (
	ErrOtpNotFound  = errors.New("no pending verification for this email")
	ErrOtpExpired   = errors.New("verification code has expired")
	ErrOtpMismatch  = errors.New("verification code does not match")
	ErrOtpExhausted = errors.New("verification attempts exhausted")
)

// OtpReason maps an OTP error to its wire reason string
func OtpReason(err error) string {
	switch {
	case errors.Is(err, ErrOtpNotFound):
		return "NotFound"
	case errors.Is(err, ErrOtpExpired):
		return "Expired"
	case errors.Is(err, ErrOtpMismatch):
		return "Mismatch"
	case errors.Is(err, ErrOtpExhausted):
		return "Exhausted"
	}
	return ""
}

// ValidationError carries the complete set of violated field rules
type ValidationError struct {
	Fields []models.FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// AuthenticityError means an organization failed both the heuristic score and
// the logo check. Confidence is echoed so the client can show how far off the
// submission was.
type AuthenticityError struct {
	Confidence float64
}

func (e *AuthenticityError) Error() string {
	return fmt.Sprintf("organization authenticity could not be verified (confidence %.2f)", e.Confidence)
}
