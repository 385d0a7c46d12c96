// services/authenticity.go
package services

import (
	"regexp"
	"strings"
)

// AuthenticityResult is the outcome of the organization heuristics
type AuthenticityResult struct {
	MatchedKeyword       string  `json:"matchedKeyword,omitempty"`
	RegNumberFormatValid bool    `json:"regNumberFormatValid"`
	Confidence           float64 `json:"confidence"`
	Verified             bool    `json:"verified"`
}

// businessKeywords are corporate-entity suffixes and regional identifiers
// commonly present in legitimate business names. Entity suffixes first, so a
// suffix wins the reported match over a regional token.
var businessKeywords = []string{
	"pvt", "ltd", "plc", "private limited", "limited", "holdings", "group",
	"enterprises", "traders", "trading", "industries", "institute",
	"academy", "college", "campus",
	"lanka", "ceylon", "colombo", "kandy",
}

// regNumberPattern: letter block, numeric block, 4-digit year
var regNumberPattern = regexp.MustCompile(`^[A-Z]{2,3}-[0-9]{3,6}-[0-9]{4}$`)

// ScoreOrganization classifies an organization name and optional registration
// number into a confidence score. This is a best-effort heuristic for UX
// friction only, not proof of legitimacy; nothing security-sensitive may gate
// on it.
func ScoreOrganization(name, regNumber string) AuthenticityResult {
	normalized := strings.ToLower(strings.TrimSpace(name))

	var matched string
	for _, keyword := range businessKeywords {
		if strings.Contains(normalized, keyword) {
			matched = keyword
			break
		}
	}

	formatValid := regNumber != "" &&
		regNumberPattern.MatchString(strings.ToUpper(strings.TrimSpace(regNumber)))

	switch {
	case matched != "" && formatValid:
		return AuthenticityResult{MatchedKeyword: matched, RegNumberFormatValid: true, Confidence: 0.95, Verified: true}
	case matched != "":
		return AuthenticityResult{MatchedKeyword: matched, Confidence: 0.75, Verified: true}
	case formatValid:
		return AuthenticityResult{RegNumberFormatValid: true, Confidence: 0.70, Verified: true}
	}
	return AuthenticityResult{Confidence: 0.20}
}
