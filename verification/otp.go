package verification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type OTPConfig struct {
	TTL          time.Duration
	ResendWindow time.Duration
	MaxAttempts  int
}

// OTP sends SMS codes and exchanges a confirmed code for a single-use uid
// ticket. Codes, attempt counters and tickets live in Redis.
type OTP struct {
	rdb      *redis.Client
	sms      SMSSender
	cfg      OTPConfig
	generate func() (string, error)
}

func NewOTP(rdb *redis.Client, sms SMSSender, cfg OTPConfig) *OTP {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &OTP{rdb: rdb, sms: sms, cfg: cfg, generate: GenerateCode}
}

func codeKey(phone string) string     { return "otp:code:" + phone }
func attemptsKey(phone string) string { return "otp:att:" + phone }
func resendKey(phone string) string   { return "otp:res:" + phone }
func ticketKey(uid string) string     { return "otp:uid:" + uid }

// Request sends a fresh code to phone. A second request inside the resend
// window fails with ErrResendThrottled.
func (o *OTP) Request(ctx context.Context, phone string) error {
	ok, err := o.rdb.SetNX(ctx, resendKey(phone), 1, o.cfg.ResendWindow).Result()
	if err != nil {
		return fmt.Errorf("otp throttle: %w", err)
	}
	if !ok {
		return ErrResendThrottled
	}
	code, err := o.generate()
	if err != nil {
		return fmt.Errorf("otp generate: %w", err)
	}
	pipe := o.rdb.TxPipeline()
	pipe.Set(ctx, codeKey(phone), hashCode(code), o.cfg.TTL)
	pipe.Del(ctx, attemptsKey(phone))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("otp store: %w", err)
	}
	if err := o.sms.SendSMS(phone, "Your verification code is "+code); err != nil {
		o.rdb.Del(ctx, codeKey(phone), resendKey(phone))
		return err
	}
	return nil
}

// Confirm checks code for phone and returns a uid ticket valid for one
// ResolvePhone call within the code TTL.
func (o *OTP) Confirm(ctx context.Context, phone, code string) (string, error) {
	attempts, err := o.rdb.Incr(ctx, attemptsKey(phone)).Result()
	if err != nil {
		return "", fmt.Errorf("otp attempts: %w", err)
	}
	if attempts == 1 {
		o.rdb.Expire(ctx, attemptsKey(phone), o.cfg.TTL)
	}
	if attempts > int64(o.cfg.MaxAttempts) {
		return "", ErrTooManyAttempts
	}
	stored, err := o.rdb.Get(ctx, codeKey(phone)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrInvalidCode
	}
	if err != nil {
		return "", fmt.Errorf("otp lookup: %w", err)
	}
	if !codeEqual(code, stored) {
		return "", ErrInvalidCode
	}
	uid := uuid.NewString()
	pipe := o.rdb.TxPipeline()
	pipe.Del(ctx, codeKey(phone), attemptsKey(phone))
	pipe.Set(ctx, ticketKey(uid), phone, o.cfg.TTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("otp ticket: %w", err)
	}
	return uid, nil
}

func (o *OTP) ResolvePhone(ctx context.Context, uid string) (string, error) {
	phone, err := o.rdb.GetDel(ctx, ticketKey(uid)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrInvalidUID
	}
	if err != nil {
		return "", fmt.Errorf("otp ticket lookup: %w", err)
	}
	return phone, nil
}
