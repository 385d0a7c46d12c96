package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerlanka/careerlink_backend/models"
)

func validIndividualRequest() *models.RegistrationRequest {
	return &models.RegistrationRequest{
		Kind:            models.KindIndividual,
		Email:           "a@x.com",
		Phone:           "0771234567",
		Password:        "Abcd123!",
		ConfirmPassword: "Abcd123!",
		TermsAccepted:   true,
	}
}

func TestValidateRegistrationValidIndividual(t *testing.T) {
	req := validIndividualRequest()
	require.Empty(t, ValidateRegistration(req))
}

func TestValidateRegistrationValidOrganization(t *testing.T) {
	req := validIndividualRequest()
	req.Kind = models.KindOrganization
	req.FullName = "Lanka Traders Pvt Ltd"
	req.Organization = &models.OrganizationDetails{RegNumber: "pv-12345-2019"}

	require.Empty(t, ValidateRegistration(req))
	assert.Equal(t, "PV-12345-2019", req.Organization.RegNumber, "reg number should be upper-cased")
}

func TestValidateRegistrationNormalizesEmail(t *testing.T) {
	req := validIndividualRequest()
	req.Email = "  A@X.Com "

	require.Empty(t, ValidateRegistration(req))
	assert.Equal(t, "a@x.com", req.Email)
}

func TestValidateRegistrationReturnsAllErrors(t *testing.T) {
	req := &models.RegistrationRequest{
		Kind:            models.KindOrganization,
		FullName:        "",
		Email:           "not-an-email",
		Phone:           "12345",
		Password:        "weak",
		ConfirmPassword: "different",
		TermsAccepted:   false,
	}

	fieldErrors := ValidateRegistration(req)
	require.Len(t, fieldErrors, 6, "every violated rule must be reported in one pass")

	fields := make(map[string]bool)
	for _, fe := range fieldErrors {
		fields[fe.Field] = true
	}
	for _, expected := range []string{"fullName", "email", "phone", "password", "confirmPassword", "termsAccepted"} {
		assert.True(t, fields[expected], "missing error for field %s", expected)
	}
}

func TestValidateRegistrationPhoneRules(t *testing.T) {
	cases := []struct {
		phone string
		valid bool
	}{
		{"0771234567", true},
		{"771234567", true},
		{"07712345678", false},
		{"07712345", false},
		{"07712345ab", false},
		{"+94771234567", false},
	}
	for _, tc := range cases {
		req := validIndividualRequest()
		req.Phone = tc.phone
		fieldErrors := ValidateRegistration(req)
		if tc.valid {
			assert.Empty(t, fieldErrors, "phone %q should be accepted", tc.phone)
		} else {
			assert.NotEmpty(t, fieldErrors, "phone %q should be rejected", tc.phone)
		}
	}
}

func TestValidateRegistrationPasswordRules(t *testing.T) {
	cases := []struct {
		password string
		valid    bool
	}{
		{"Abcd123!", true},
		{"abcd123!", false}, // no uppercase
		{"ABCD123!", false}, // no lowercase
		{"Abcdefg!", false}, // no digit
		{"Abcd1234", false}, // no symbol
		{"Ab1!", false},     // too short
	}
	for _, tc := range cases {
		req := validIndividualRequest()
		req.Password = tc.password
		req.ConfirmPassword = tc.password
		fieldErrors := ValidateRegistration(req)
		if tc.valid {
			assert.Empty(t, fieldErrors, "password %q should be accepted", tc.password)
		} else {
			assert.NotEmpty(t, fieldErrors, "password %q should be rejected", tc.password)
		}
	}
}

func TestValidateRegistrationOrganizationNameRequired(t *testing.T) {
	req := validIndividualRequest()
	req.Kind = models.KindOrganization
	req.FullName = ""

	fieldErrors := ValidateRegistration(req)
	require.Len(t, fieldErrors, 1)
	assert.Equal(t, "fullName", fieldErrors[0].Field)
}
