// services/otp_gateway.go
package services

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/careerlanka/careerlink_backend/models"
	"github.com/careerlanka/careerlink_backend/utils"
)

const (
	otpLength = 6
	otpTTL    = 10 * time.Minute
	// Failed verification attempts beyond this cap delete the record
	maxOtpAttempts = 5
)

// Mailer delivers a generated code out of band
type Mailer interface {
	SendOTP(email, name, code string) error
}

// OtpGateway runs the per-email OTP state machine over the pending store:
// NoOtp -> Issued -> (Verified | Expired | Exhausted). All state lives in the
// store, so any server instance can pick up any step.
type OtpGateway struct {
	pending PendingStore
	mailer  Mailer
	logger  *log.Logger
}

func NewOtpGateway(pending PendingStore, mailer Mailer) *OtpGateway {
	return &OtpGateway{
		pending: pending,
		mailer:  mailer,
		logger:  log.New(os.Stdout, "otp-gateway: ", log.LstdFlags),
	}
}

// Issue generates a fresh code, persists the pending record and then
// attempts delivery. A nil payload reuses the payload already on file
// (resend); ErrOtpNotFound if there is none. Reissuing replaces the code and
// resets expiry and the attempt counter.
func (g *OtpGateway) Issue(ctx context.Context, email string, payload *models.ValidatedRegistration) (time.Time, error) {
	existing, err := g.pending.Get(ctx, email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return time.Time{}, err
	}

	if payload == nil {
		if existing == nil {
			return time.Time{}, ErrOtpNotFound
		}
		payload = &existing.Payload
	}

	code, err := utils.GenerateOTP(otpLength)
	if err != nil {
		return time.Time{}, err
	}
	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return time.Time{}, err
	}

	record := &models.PendingVerification{
		Email:     email,
		CodeHash:  string(codeHash),
		Payload:   *payload,
		ExpiresAt: time.Now().Add(otpTTL),
		Attempts:  0,
		CreatedAt: time.Now(),
	}
	if existing != nil {
		record.Resends = existing.Resends + 1
	}

	if err := g.pending.Put(ctx, record); err != nil {
		return time.Time{}, err
	}

	// The code is durable from here on; delivery is best effort and a
	// failure must not lose the stored code.
	if err := g.mailer.SendOTP(email, payload.FullName, code); err != nil {
		g.logger.Printf("OTP delivery to %s failed: %v", utils.MaskEmail(email), err)
	}

	return record.ExpiresAt, nil
}

// Verify checks a submitted code. On match the stored payload is returned
// and the record deleted: codes are strictly one-time. An expired record is
// deleted on sight; an exhausted one is deleted so even the correct code can
// no longer succeed.
func (g *OtpGateway) Verify(ctx context.Context, email, code string) (*models.ValidatedRegistration, error) {
	record, err := g.pending.Get(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrOtpNotFound
	}
	if err != nil {
		return nil, err
	}

	if time.Now().After(record.ExpiresAt) {
		if err := g.pending.Delete(ctx, email); err != nil {
			g.logger.Printf("failed to delete expired record for %s: %v", utils.MaskEmail(email), err)
		}
		return nil, ErrOtpExpired
	}

	if bcrypt.CompareHashAndPassword([]byte(record.CodeHash), []byte(code)) != nil {
		attempts, err := g.pending.IncrementAttempts(ctx, email)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		if attempts > maxOtpAttempts {
			if err := g.pending.Delete(ctx, email); err != nil {
				g.logger.Printf("failed to delete exhausted record for %s: %v", utils.MaskEmail(email), err)
			}
			return nil, ErrOtpExhausted
		}
		return nil, ErrOtpMismatch
	}

	payload := record.Payload
	// Deletion must succeed before the payload is released, otherwise the
	// code would remain verifiable a second time.
	if err := g.pending.Delete(ctx, email); err != nil {
		return nil, err
	}
	return &payload, nil
}
