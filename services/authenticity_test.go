package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreOrganizationKeywordAndFormat(t *testing.T) {
	result := ScoreOrganization("Lanka Traders Pvt Ltd", "PV-12345-2019")

	assert.True(t, result.Verified)
	assert.True(t, result.RegNumberFormatValid)
	assert.Equal(t, 0.95, result.Confidence)
	assert.NotEmpty(t, result.MatchedKeyword)
}

func TestScoreOrganizationKeywordOnly(t *testing.T) {
	result := ScoreOrganization("Lanka Traders Pvt Ltd", "")

	assert.True(t, result.Verified)
	assert.False(t, result.RegNumberFormatValid)
	assert.Equal(t, 0.75, result.Confidence)
	assert.Equal(t, "pvt", result.MatchedKeyword, "entity suffix should win over the regional token")
}

func TestScoreOrganizationFormatOnly(t *testing.T) {
	result := ScoreOrganization("Acme", "PV-12345-2019")

	assert.True(t, result.Verified)
	assert.True(t, result.RegNumberFormatValid)
	assert.Equal(t, 0.70, result.Confidence)
	assert.Empty(t, result.MatchedKeyword)
}

func TestScoreOrganizationNeither(t *testing.T) {
	result := ScoreOrganization("Acme", "X")

	assert.False(t, result.Verified)
	assert.False(t, result.RegNumberFormatValid)
	assert.Equal(t, 0.20, result.Confidence)
	assert.Empty(t, result.MatchedKeyword)
}

func TestScoreOrganizationKeywordIsCaseInsensitive(t *testing.T) {
	assert.Equal(t, ScoreOrganization("lanka traders", ""), ScoreOrganization("LANKA TRADERS", ""))
}

func TestScoreOrganizationRegNumberFormats(t *testing.T) {
	cases := []struct {
		regNumber string
		valid     bool
	}{
		{"PV-12345-2019", true},
		{"REG-123-2020", true},
		{"pv-12345-2019", true}, // upper-cased before matching
		{"P-12345-2019", false},
		{"ABCD-123-2020", false},
		{"PV-12-2019", false},
		{"PV-12345-19", false},
		{"PV123452019", false},
		{"", false},
	}
	for _, tc := range cases {
		result := ScoreOrganization("Acme", tc.regNumber)
		assert.Equal(t, tc.valid, result.RegNumberFormatValid, "regNumber %q", tc.regNumber)
	}
}

// A keyword match never lowers the score relative to the same registration
// number without one.
func TestScoreOrganizationKeywordNeverLowersConfidence(t *testing.T) {
	for _, regNumber := range []string{"", "X", "PV-12345-2019"} {
		with := ScoreOrganization("Ceylon Holdings", regNumber)
		without := ScoreOrganization("Acme", regNumber)
		assert.GreaterOrEqual(t, with.Confidence, without.Confidence, "regNumber %q", regNumber)
	}
}
