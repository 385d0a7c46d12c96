package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerlanka/careerlink_backend/models"
	"github.com/careerlanka/careerlink_backend/repositories"
	"github.com/careerlanka/careerlink_backend/services"
)

// captureMailer records every code handed to it instead of sending mail
type captureMailer struct {
	mu    sync.Mutex
	codes []string
	fail  bool
}

func (m *captureMailer) SendOTP(_, _, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes = append(m.codes, code)
	if m.fail {
		return errors.New("smtp unreachable")
	}
	return nil
}

func (m *captureMailer) lastCode() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.codes) == 0 {
		return ""
	}
	return m.codes[len(m.codes)-1]
}

func testPayload(email string) *models.ValidatedRegistration {
	return &models.ValidatedRegistration{
		Kind:         models.KindIndividual,
		Email:        email,
		Phone:        "0771234567",
		PasswordHash: "$2a$10$fake",
	}
}

func newGateway() (*services.OtpGateway, *repositories.MemoryPendingStore, *captureMailer) {
	pending := repositories.NewMemoryPendingStore()
	mailer := &captureMailer{}
	return services.NewOtpGateway(pending, mailer), pending, mailer
}

func TestOtpIssueDeliversSixDigitCode(t *testing.T) {
	gateway, _, mailer := newGateway()
	ctx := context.Background()

	expiresAt, err := gateway.Issue(ctx, "a@x.com", testPayload("a@x.com"))
	require.NoError(t, err)
	assert.False(t, expiresAt.IsZero())

	code := mailer.lastCode()
	require.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9', "code must be digits only, got %q", code)
	}
}

func TestOtpVerifyIsOneTimeUse(t *testing.T) {
	gateway, _, mailer := newGateway()
	ctx := context.Background()

	_, err := gateway.Issue(ctx, "a@x.com", testPayload("a@x.com"))
	require.NoError(t, err)
	code := mailer.lastCode()

	payload, err := gateway.Verify(ctx, "a@x.com", code)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", payload.Email)

	_, err = gateway.Verify(ctx, "a@x.com", code)
	assert.ErrorIs(t, err, services.ErrOtpNotFound, "a consumed code must not verify twice")
}

func TestOtpVerifyWrongCode(t *testing.T) {
	gateway, _, mailer := newGateway()
	ctx := context.Background()

	_, err := gateway.Issue(ctx, "a@x.com", testPayload("a@x.com"))
	require.NoError(t, err)

	_, err = gateway.Verify(ctx, "a@x.com", "000000")
	if mailer.lastCode() == "000000" {
		t.Skip("generated code collided with the wrong-code probe")
	}
	assert.ErrorIs(t, err, services.ErrOtpMismatch)

	// correct code still works after a single miss
	payload, err := gateway.Verify(ctx, "a@x.com", mailer.lastCode())
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", payload.Email)
}

func TestOtpVerifyExhaustsAfterRepeatedFailures(t *testing.T) {
	gateway, _, mailer := newGateway()
	ctx := context.Background()

	_, err := gateway.Issue(ctx, "a@x.com", testPayload("a@x.com"))
	require.NoError(t, err)
	code := mailer.lastCode()
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	for i := 0; i < 5; i++ {
		_, err = gateway.Verify(ctx, "a@x.com", wrong)
		assert.ErrorIs(t, err, services.ErrOtpMismatch, "attempt %d", i+1)
	}

	_, err = gateway.Verify(ctx, "a@x.com", wrong)
	assert.ErrorIs(t, err, services.ErrOtpExhausted)

	// the record is gone, so even the real code is dead now
	_, err = gateway.Verify(ctx, "a@x.com", code)
	assert.ErrorIs(t, err, services.ErrOtpNotFound)
}

func TestOtpVerifyExpired(t *testing.T) {
	gateway, pending, mailer := newGateway()
	ctx := context.Background()

	_, err := gateway.Issue(ctx, "a@x.com", testPayload("a@x.com"))
	require.NoError(t, err)
	pending.ExpireNow("a@x.com")

	_, err = gateway.Verify(ctx, "a@x.com", mailer.lastCode())
	assert.ErrorIs(t, err, services.ErrOtpExpired)

	// expired records are deleted on sight
	_, err = gateway.Verify(ctx, "a@x.com", mailer.lastCode())
	assert.ErrorIs(t, err, services.ErrOtpNotFound)
}

func TestOtpResendInvalidatesPreviousCode(t *testing.T) {
	gateway, _, mailer := newGateway()
	ctx := context.Background()

	_, err := gateway.Issue(ctx, "a@x.com", testPayload("a@x.com"))
	require.NoError(t, err)
	firstCode := mailer.lastCode()

	_, err = gateway.Issue(ctx, "a@x.com", nil)
	require.NoError(t, err)
	secondCode := mailer.lastCode()

	if firstCode != secondCode {
		_, err = gateway.Verify(ctx, "a@x.com", firstCode)
		assert.ErrorIs(t, err, services.ErrOtpMismatch, "old code must stop working after a resend")
	}

	payload, err := gateway.Verify(ctx, "a@x.com", secondCode)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", payload.Email, "payload survives a resend untouched")
}

func TestOtpResendWithoutPendingRegistration(t *testing.T) {
	gateway, _, _ := newGateway()

	_, err := gateway.Issue(context.Background(), "nobody@x.com", nil)
	assert.ErrorIs(t, err, services.ErrOtpNotFound)
}

func TestOtpIssueSurvivesDeliveryFailure(t *testing.T) {
	pending := repositories.NewMemoryPendingStore()
	mailer := &captureMailer{fail: true}
	gateway := services.NewOtpGateway(pending, mailer)
	ctx := context.Background()

	_, err := gateway.Issue(ctx, "a@x.com", testPayload("a@x.com"))
	require.NoError(t, err, "a dead mailer must not fail the issue")

	// the code was stored before the delivery attempt
	payload, err := gateway.Verify(ctx, "a@x.com", mailer.lastCode())
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", payload.Email)
}
