package services_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerlanka/careerlink_backend/models"
	"github.com/careerlanka/careerlink_backend/repositories"
	"github.com/careerlanka/careerlink_backend/services"
)

func newRegistrationService() (*services.RegistrationService, *repositories.MemoryAccountStore, *captureMailer) {
	accounts := repositories.NewMemoryAccountStore()
	mailer := &captureMailer{}
	svc := services.NewRegistrationService(accounts, repositories.NewMemoryPendingStore(), mailer)
	return svc, accounts, mailer
}

func individualRequest(email, phone string) *models.RegistrationRequest {
	return &models.RegistrationRequest{
		Kind:            models.KindIndividual,
		Email:           email,
		Phone:           phone,
		Password:        "Abcd123!",
		ConfirmPassword: "Abcd123!",
		TermsAccepted:   true,
	}
}

func organizationRequest(name, email, phone, regNumber string) *models.RegistrationRequest {
	req := individualRequest(email, phone)
	req.Kind = models.KindOrganization
	req.FullName = name
	req.Organization = &models.OrganizationDetails{RegNumber: regNumber}
	return req
}

// logoPNG renders a half-bright half-dark square, flipped by orientation so
// two orientations hash far apart.
func logoPNG(t *testing.T, vertical bool) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			bright := x < 32
			if !vertical {
				bright = y < 32
			}
			if bright {
				img.Set(x, y, color.White)
			} else {
				img.Set(x, y, color.Black)
			}
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func writeTempLogo(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestRegisterIndividualEndToEnd(t *testing.T) {
	svc, _, mailer := newRegistrationService()
	ctx := context.Background()

	result, err := svc.Start(ctx, individualRequest("seeker@x.com", "0771234567"), "")
	require.NoError(t, err)
	assert.Equal(t, "otp-pending", result.Stage)
	assert.False(t, result.ExpiresAt.IsZero())
	assert.Nil(t, result.Authenticity, "individuals skip the organization checks")

	account, err := svc.VerifyOtp(ctx, "seeker@x.com", mailer.lastCode())
	require.NoError(t, err)
	assert.Equal(t, models.KindIndividual, account.Kind)
	assert.Equal(t, "seeker@x.com", account.Email)
	assert.NotEmpty(t, account.ID)

	// the committed account is now reachable with the registered password
	logged, err := svc.Login(ctx, "seeker@x.com", "Abcd123!")
	require.NoError(t, err)
	assert.Equal(t, account.ID, logged.ID)
}

func TestRegisterReportsValidationErrors(t *testing.T) {
	svc, _, _ := newRegistrationService()

	req := individualRequest("not-an-email", "123")
	_, err := svc.Start(context.Background(), req, "")

	var validationErr *services.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.GreaterOrEqual(t, len(validationErr.Fields), 2)
}

func TestRegisterOrganizationByKeyword(t *testing.T) {
	svc, _, mailer := newRegistrationService()
	ctx := context.Background()

	req := organizationRequest("Lanka Traders Pvt Ltd", "org@x.com", "0112345678", "")
	result, err := svc.Start(ctx, req, "")
	require.NoError(t, err)
	require.NotNil(t, result.Authenticity)
	assert.Equal(t, 0.75, result.Authenticity.Confidence)
	assert.True(t, result.Authenticity.Verified)

	account, err := svc.VerifyOtp(ctx, "org@x.com", mailer.lastCode())
	require.NoError(t, err)
	assert.Equal(t, models.KindOrganization, account.Kind)
	assert.Equal(t, "Lanka Traders Pvt Ltd", account.Name)
}

func TestRegisterOrganizationFailsBothChecks(t *testing.T) {
	svc, _, _ := newRegistrationService()

	req := organizationRequest("Acme", "acme@x.com", "0112345678", "X")
	_, err := svc.Start(context.Background(), req, "")

	var authErr *services.AuthenticityError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, 0.20, authErr.Confidence)
}

func TestRegisterOrganizationByLogoOnly(t *testing.T) {
	svc, _, mailer := newRegistrationService()
	ctx := context.Background()
	logo := logoPNG(t, true)

	// name and reg number fail the heuristics; the decodable logo carries it
	req := organizationRequest("Zeta", "zeta@x.com", "0112345678", "X")
	result, err := svc.Start(ctx, req, writeTempLogo(t, logo))
	require.NoError(t, err)
	assert.False(t, result.Authenticity.Verified)

	account, err := svc.VerifyOtp(ctx, "zeta@x.com", mailer.lastCode())
	require.NoError(t, err)
	assert.NotEmpty(t, account.LogoHash, "the uploaded logo becomes the stored reference")

	// the same mark verifies against the stored reference
	verification, err := svc.VerifyLogo(ctx, "Zeta", writeTempLogo(t, logo))
	require.NoError(t, err)
	assert.True(t, verification.Verified)
	require.NotNil(t, verification.Distance)
	assert.Equal(t, 0, *verification.Distance)

	// a structurally different mark does not
	verification, err = svc.VerifyLogo(ctx, "Zeta", writeTempLogo(t, logoPNG(t, false)))
	require.NoError(t, err)
	assert.False(t, verification.Verified)
}

func TestRegisterOrganizationCorruptLogoFailsBothChecks(t *testing.T) {
	svc, _, _ := newRegistrationService()

	path := writeTempLogo(t, []byte("corrupt"))
	req := organizationRequest("Acme", "acme@x.com", "0112345678", "X")
	_, err := svc.Start(context.Background(), req, path)

	var authErr *services.AuthenticityError
	require.ErrorAs(t, err, &authErr)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "temporary upload must be cleaned up")
}

func TestRegisterRemovesLogoOnValidationFailure(t *testing.T) {
	svc, _, _ := newRegistrationService()

	path := writeTempLogo(t, logoPNG(t, true))
	req := organizationRequest("Lanka Traders", "bad-email", "0112345678", "")
	_, err := svc.Start(context.Background(), req, path)

	var validationErr *services.ValidationError
	require.ErrorAs(t, err, &validationErr)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRegisterRejectsDuplicateOfCommittedAccount(t *testing.T) {
	svc, _, mailer := newRegistrationService()
	ctx := context.Background()

	_, err := svc.Start(ctx, individualRequest("taken@x.com", "0771234567"), "")
	require.NoError(t, err)
	_, err = svc.VerifyOtp(ctx, "taken@x.com", mailer.lastCode())
	require.NoError(t, err)

	// same email, different phone
	_, err = svc.Start(ctx, individualRequest("taken@x.com", "0779999999"), "")
	assert.ErrorIs(t, err, services.ErrDuplicate)

	// same phone, different email
	_, err = svc.Start(ctx, individualRequest("other@x.com", "0771234567"), "")
	assert.ErrorIs(t, err, services.ErrDuplicate)
}

func TestRegisterCommitConflictWhenAccountAppearsMidFlight(t *testing.T) {
	svc, accounts, mailer := newRegistrationService()
	ctx := context.Background()

	_, err := svc.Start(ctx, individualRequest("race@x.com", "0771234567"), "")
	require.NoError(t, err)

	// another instance commits the same identity between Start and VerifyOtp
	require.NoError(t, accounts.CreateIndividual(ctx, &models.Individual{
		Email: "race@x.com",
		Phone: "0771234567",
	}))

	_, err = svc.VerifyOtp(ctx, "race@x.com", mailer.lastCode())
	assert.ErrorIs(t, err, services.ErrStorageConflict)
}

func TestRegisterFailsClosedWhenLookupsDegrade(t *testing.T) {
	svc, accounts, _ := newRegistrationService()
	accounts.FailLookups = true

	_, err := svc.Start(context.Background(), individualRequest("a@x.com", "0771234567"), "")
	assert.ErrorIs(t, err, services.ErrDuplicate, "an unanswerable duplicate check must reject, not admit")
}

func TestCheckDuplicate(t *testing.T) {
	svc, _, mailer := newRegistrationService()
	ctx := context.Background()

	assert.False(t, svc.CheckDuplicate(ctx, models.DuplicateQuery{Email: "free@x.com"}))

	_, err := svc.Start(ctx, individualRequest("taken@x.com", "0771234567"), "")
	require.NoError(t, err)
	_, err = svc.VerifyOtp(ctx, "taken@x.com", mailer.lastCode())
	require.NoError(t, err)

	assert.True(t, svc.CheckDuplicate(ctx, models.DuplicateQuery{Email: "Taken@X.com"}), "email check is case-insensitive")
	assert.True(t, svc.CheckDuplicate(ctx, models.DuplicateQuery{Phone: "0771234567"}))
	assert.False(t, svc.CheckDuplicate(ctx, models.DuplicateQuery{Email: "free@x.com"}))
}

func TestVerifyLogoUnknownOrganization(t *testing.T) {
	svc, _, _ := newRegistrationService()

	verification, err := svc.VerifyLogo(context.Background(), "Nobody Inc", writeTempLogo(t, logoPNG(t, true)))
	require.NoError(t, err)
	assert.False(t, verification.Verified)
	assert.Nil(t, verification.Distance)
}

func TestVerifyLogoOrganizationWithoutReference(t *testing.T) {
	svc, _, mailer := newRegistrationService()
	ctx := context.Background()

	req := organizationRequest("Lanka Traders Pvt Ltd", "org@x.com", "0112345678", "")
	_, err := svc.Start(ctx, req, "")
	require.NoError(t, err)
	_, err = svc.VerifyOtp(ctx, "org@x.com", mailer.lastCode())
	require.NoError(t, err)

	verification, err := svc.VerifyLogo(ctx, "lanka traders pvt ltd", writeTempLogo(t, logoPNG(t, true)))
	require.NoError(t, err)
	assert.False(t, verification.Verified, "no stored hash means no match, never an error")
}

func TestUpdateLogoSetsReferenceHash(t *testing.T) {
	svc, accounts, mailer := newRegistrationService()
	ctx := context.Background()

	req := organizationRequest("Lanka Traders Pvt Ltd", "org@x.com", "0112345678", "")
	_, err := svc.Start(ctx, req, "")
	require.NoError(t, err)
	account, err := svc.VerifyOtp(ctx, "org@x.com", mailer.lastCode())
	require.NoError(t, err)

	logo := logoPNG(t, true)
	hash, err := svc.UpdateLogo(ctx, account.ID, logo, "/uploads/logos/x.png")
	require.NoError(t, err)
	assert.Len(t, hash, 16)

	stored, err := accounts.FindOrganizationByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, hash, stored.LogoHash)

	verification, err := svc.VerifyLogo(ctx, "Lanka Traders Pvt Ltd", writeTempLogo(t, logo))
	require.NoError(t, err)
	assert.True(t, verification.Verified)
}

func TestUpdateLogoRejectsGarbage(t *testing.T) {
	svc, _, _ := newRegistrationService()

	_, err := svc.UpdateLogo(context.Background(), "ffffffffffffffffffffffff", []byte("corrupt"), "")
	assert.ErrorIs(t, err, services.ErrImageDecode)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, mailer := newRegistrationService()
	ctx := context.Background()

	_, err := svc.Start(ctx, individualRequest("seeker@x.com", "0771234567"), "")
	require.NoError(t, err)
	_, err = svc.VerifyOtp(ctx, "seeker@x.com", mailer.lastCode())
	require.NoError(t, err)

	_, err = svc.Login(ctx, "seeker@x.com", "WrongPass1!")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@x.com", "Abcd123!")
	assert.True(t, errors.Is(err, services.ErrInvalidCredentials))
}
