// services/registration.go
package services

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/careerlanka/careerlink_backend/models"
	"github.com/careerlanka/careerlink_backend/utils"
)

// RegistrationService sequences the registration pipeline:
// Draft -> Validated -> (OrgChecked)? -> DuplicateChecked -> OtpPending ->
// OtpVerified -> Committed, with Rejected reachable from every stage. The
// only cross-request state is the persisted PendingVerification, so a second
// request may land on a different instance.
type RegistrationService struct {
	accounts AccountStore
	dup      *DuplicateChecker
	otp      *OtpGateway
	logger   *log.Logger
}

func NewRegistrationService(accounts AccountStore, pending PendingStore, mailer Mailer) *RegistrationService {
	return &RegistrationService{
		accounts: accounts,
		dup:      NewDuplicateChecker(accounts),
		otp:      NewOtpGateway(pending, mailer),
		logger:   log.New(os.Stdout, "registration: ", log.LstdFlags),
	}
}

// StartResult reports a registration parked at the OTP stage
type StartResult struct {
	Stage        string              `json:"stage"`
	ExpiresAt    time.Time           `json:"expiresAt"`
	Authenticity *AuthenticityResult `json:"authenticity,omitempty"`
}

// LogoVerification is the outcome of comparing an uploaded logo against an
// organization's stored reference hash.
type LogoVerification struct {
	Verified bool `json:"verified"`
	Distance *int `json:"distance,omitempty"`
}

// Start runs validation, the organization checks and the duplicate check,
// then parks the registration behind an OTP. logoPath, when set, is a
// temporary uploaded file; it is deleted before Start returns no matter which
// stage rejects.
func (s *RegistrationService) Start(ctx context.Context, req *models.RegistrationRequest, logoPath string) (*StartResult, error) {
	if logoPath != "" {
		defer os.Remove(logoPath)
	}

	if fieldErrors := utils.ValidateRegistration(req); len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	var authenticity *AuthenticityResult
	var orgPayload *models.OrganizationPayload
	if req.Kind == models.KindOrganization {
		var regNumber, address string
		if req.Organization != nil {
			regNumber = req.Organization.RegNumber
			address = req.Organization.Address
		}

		score := ScoreOrganization(req.FullName, regNumber)

		logoHash := ""
		if logoPath != "" {
			hash, err := ComputeLogoHashFromFile(logoPath)
			if err != nil {
				// decode failure is a failed check, not a crash
				s.logger.Printf("logo hashing failed for %s: %v", utils.MaskEmail(req.Email), err)
			} else {
				logoHash = hash
			}
		}

		// at least one of the two checks must pass for an organization
		if !score.Verified && logoHash == "" {
			return nil, &AuthenticityError{Confidence: score.Confidence}
		}

		authenticity = &score
		orgPayload = &models.OrganizationPayload{
			RegNumber:      regNumber,
			Address:        address,
			LogoHash:       logoHash,
			Confidence:     score.Confidence,
			MatchedKeyword: score.MatchedKeyword,
		}
	}

	query := models.DuplicateQuery{Email: req.Email, Phone: req.Phone}
	if req.Kind == models.KindOrganization {
		query.Name = req.FullName
		if orgPayload != nil {
			query.RegNumber = orgPayload.RegNumber
		}
	}
	if s.dup.Exists(ctx, query) {
		return nil, ErrDuplicate
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	payload := models.ValidatedRegistration{
		Kind:         req.Kind,
		FullName:     req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(passwordHash),
		Organization: orgPayload,
	}

	expiresAt, err := s.otp.Issue(ctx, req.Email, &payload)
	if err != nil {
		return nil, err
	}

	return &StartResult{Stage: "otp-pending", ExpiresAt: expiresAt, Authenticity: authenticity}, nil
}

// VerifyOtp consumes the submitted code and, on match, commits the account.
// A unique index firing at insert time surfaces as ErrStorageConflict; the
// registration stays consumable only through its OTP limits otherwise.
func (s *RegistrationService) VerifyOtp(ctx context.Context, email, code string) (*models.Account, error) {
	payload, err := s.otp.Verify(ctx, normalizeEmail(email), code)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	switch payload.Kind {
	case models.KindOrganization:
		org := &models.Organization{
			ID:        primitive.NewObjectID(),
			Name:      payload.FullName,
			NameLower: strings.ToLower(payload.FullName),
			Email:     payload.Email,
			Phone:     payload.Phone,
			Password:  payload.PasswordHash,
			Role:      string(models.KindOrganization),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if payload.Organization != nil {
			org.RegNumber = payload.Organization.RegNumber
			org.Address = payload.Organization.Address
			org.LogoHash = payload.Organization.LogoHash
			org.Confidence = payload.Organization.Confidence
			org.MatchedKeyword = payload.Organization.MatchedKeyword
		}
		if err := s.accounts.CreateOrganization(ctx, org); err != nil {
			return nil, translateCommitError(err)
		}
		return org.PublicView(), nil
	default:
		individual := &models.Individual{
			ID:        primitive.NewObjectID(),
			Email:     payload.Email,
			Phone:     payload.Phone,
			FullName:  payload.FullName,
			Password:  payload.PasswordHash,
			Role:      string(models.KindIndividual),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.accounts.CreateIndividual(ctx, individual); err != nil {
			return nil, translateCommitError(err)
		}
		return individual.PublicView(), nil
	}
}

// Resend reissues the code for a pending registration without touching its
// stored payload.
func (s *RegistrationService) Resend(ctx context.Context, email string) error {
	_, err := s.otp.Issue(ctx, normalizeEmail(email), nil)
	return err
}

// CheckDuplicate exposes the duplicate checker for the pre-submit probe
func (s *RegistrationService) CheckDuplicate(ctx context.Context, q models.DuplicateQuery) bool {
	q.Email = normalizeEmail(q.Email)
	return s.dup.Exists(ctx, q)
}

// VerifyLogo compares a freshly uploaded logo against the stored reference
// hash of the named organization. Missing organization, missing reference
// hash and undecodable images all come back as not verified.
func (s *RegistrationService) VerifyLogo(ctx context.Context, organizationName, logoPath string) (*LogoVerification, error) {
	hash, err := ComputeLogoHashFromFile(logoPath)
	if err != nil {
		s.logger.Printf("logo verification hash failed: %v", err)
		return &LogoVerification{Verified: false}, nil
	}

	org, err := s.accounts.FindOrganizationByName(ctx, organizationName)
	if errors.Is(err, ErrNotFound) || (err == nil && org.LogoHash == "") {
		s.logger.Printf("no reference hash for organization %q", organizationName)
		return &LogoVerification{Verified: false}, nil
	}
	if err != nil {
		return nil, err
	}

	distance := HashDistance(hash, org.LogoHash)
	return &LogoVerification{Verified: distance <= LogoMatchThreshold, Distance: &distance}, nil
}

// UpdateLogo recomputes and stores the reference hash for an organization's
// new logo, the only path that mutates a stored LogoHash.
func (s *RegistrationService) UpdateLogo(ctx context.Context, orgID string, data []byte, logoURL string) (string, error) {
	hash, err := ComputeLogoHash(data)
	if err != nil {
		return "", err
	}
	if err := s.accounts.UpdateOrganizationLogo(ctx, orgID, hash, logoURL); err != nil {
		return "", err
	}
	return hash, nil
}

// Login authenticates against both collections, individuals first
func (s *RegistrationService) Login(ctx context.Context, email, password string) (*models.Account, error) {
	email = normalizeEmail(email)

	if individual, err := s.accounts.FindIndividualByEmail(ctx, email); err == nil {
		if bcrypt.CompareHashAndPassword([]byte(individual.Password), []byte(password)) != nil {
			return nil, ErrInvalidCredentials
		}
		return individual.PublicView(), nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	org, err := s.accounts.FindOrganizationByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(org.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return org.PublicView(), nil
}

func translateCommitError(err error) error {
	if errors.Is(err, ErrConflict) {
		return ErrStorageConflict
	}
	return err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
