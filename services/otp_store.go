package services

import (
	"context"
	"fmt"
	"time"

	"github.com/skillora/skillora-api/utils/cache"
)

// OTP policy: codes are short-lived and attempts are bounded, so a leaked or
// guessed checkout cannot be brute forced.
const (
	OTPDigits      = 6
	OTPExpiry      = 5 * time.Minute
	OTPMaxAttempts = 5
)

// OTPStore holds one-time codes for payment confirmation together with their
// attempt counters. Codes expire on their own; consuming or failing out a
// code discards it.
type OTPStore interface {
	Put(ctx context.Context, key, code, destination string) error
	Get(ctx context.Context, key string) (code string, destination string, err error)
	RecordAttempt(ctx context.Context, key string) (int64, error)
	Discard(ctx context.Context, key string) error
}

// RedisOTPStore is the production OTPStore, backed by Redis TTLs.
type RedisOTPStore struct {
	cache *cache.RedisCache
}

// NewRedisOTPStore creates an OTP store over the shared Redis cache.
func NewRedisOTPStore(c *cache.RedisCache) *RedisOTPStore {
	return &RedisOTPStore{cache: c}
}

type otpRecord struct {
	Code        string `json:"code"`
	Destination string `json:"destination"`
}

func otpKey(key string) string      { return fmt.Sprintf("payment_otp:code:%s", key) }
func attemptsKey(key string) string { return fmt.Sprintf("payment_otp:attempts:%s", key) }

// Put stores a code and its delivery target under the payment key.
func (s *RedisOTPStore) Put(ctx context.Context, key, code, destination string) error {
	return s.cache.SetJSON(ctx, otpKey(key), otpRecord{Code: code, Destination: destination}, OTPExpiry)
}

// Get returns the stored code and destination, or cache.ErrNotFound when the
// code expired or was never issued.
func (s *RedisOTPStore) Get(ctx context.Context, key string) (string, string, error) {
	var rec otpRecord
	if err := s.cache.GetJSON(ctx, otpKey(key), &rec); err != nil {
		return "", "", err
	}
	return rec.Code, rec.Destination, nil
}

// RecordAttempt bumps the verification attempt counter. The counter shares
// the code's expiry window.
func (s *RedisOTPStore) RecordAttempt(ctx context.Context, key string) (int64, error) {
	attempts, err := s.cache.Increment(ctx, attemptsKey(key))
	if err != nil {
		return 0, err
	}
	if attempts == 1 {
		s.cache.Expire(ctx, attemptsKey(key), OTPExpiry)
	}
	return attempts, nil
}

// Discard drops the code and its attempt counter.
func (s *RedisOTPStore) Discard(ctx context.Context, key string) error {
	return s.cache.Delete(ctx, otpKey(key), attemptsKey(key))
}
