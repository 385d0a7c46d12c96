package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		code, err := GenerateOTP(6)
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "code %q must be digits only", code)
		}
		seen[code] = true
	}
	assert.Greater(t, len(seen), 1, "codes must not repeat deterministically")
}

func TestCheckResendThrottleWithoutRedis(t *testing.T) {
	assert.NoError(t, CheckResendThrottle(context.Background(), nil, "a@x.com"),
		"throttling degrades open when Redis is unavailable")
}

func TestMaskEmail(t *testing.T) {
	cases := []struct {
		in, out string
	}{
		{"someone@example.com", "so*****@example.com"},
		{"ab@example.com", "a***@example.com"},
		{"a@example.com", "a***@example.com"},
		{"@example.com", "@example.com"},
		{"not-an-email", "not-an-email"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.out, MaskEmail(tc.in), "input %q", tc.in)
	}
}
