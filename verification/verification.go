// Package verification proves ownership of a mobile number. A provider turns
// an opaque uid, obtained by the client after completing an OTP challenge,
// into the phone number it verified.
package verification

import (
	"context"
	"errors"
)

var (
	ErrUnavailable     = errors.New("mobile verification unavailable")
	ErrInvalidUID      = errors.New("invalid uid")
	ErrInvalidCode     = errors.New("invalid otp code")
	ErrTooManyAttempts = errors.New("maximum otp attempts exceeded")
	ErrResendThrottled = errors.New("otp recently sent, try again later")
)

type MobileVerifier interface {
	ResolvePhone(ctx context.Context, uid string) (string, error)
}

// Chain asks each verifier in turn until one recognises the uid.
type Chain []MobileVerifier

func (c Chain) ResolvePhone(ctx context.Context, uid string) (string, error) {
	if len(c) == 0 {
		return "", ErrUnavailable
	}
	for _, v := range c {
		phone, err := v.ResolvePhone(ctx, uid)
		if errors.Is(err, ErrInvalidUID) {
			continue
		}
		return phone, err
	}
	return "", ErrInvalidUID
}
