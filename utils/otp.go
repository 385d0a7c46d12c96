// utils/otp.go
package utils

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrTooManyResends signals the per-email resend throttle has fired
var ErrTooManyResends = errors.New("too many OTP resend requests")

// GenerateOTP generates a random numeric code of the given length from a
// cryptographic source.
func GenerateOTP(length int) (string, error) {
	const digits = "0123456789"
	result := make([]byte, length)
	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		result[i] = digits[num.Int64()]
	}
	return string(result), nil
}

// CheckResendThrottle limits OTP resends to 5 per email per hour so the mail
// channel cannot be used as a spam relay. A nil client (Redis unavailable)
// disables the throttle rather than blocking registration.
func CheckResendThrottle(ctx context.Context, rdb *redis.Client, email string) error {
	if rdb == nil {
		return nil
	}

	key := "otp_resends:" + email
	count, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return nil
	}
	if count == 1 {
		rdb.Expire(ctx, key, 1*time.Hour)
	}
	if count > 5 {
		return ErrTooManyResends
	}
	return nil
}
