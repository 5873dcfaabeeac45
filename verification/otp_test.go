package verification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSMS struct {
	to   []string
	body []string
	err  error
}

func (r *recordingSMS) SendSMS(to, body string) error {
	r.to = append(r.to, to)
	r.body = append(r.body, body)
	return r.err
}

func newTestOTP(t *testing.T, sms SMSSender) (*OTP, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	o := NewOTP(rdb, sms, OTPConfig{TTL: 5 * time.Minute, ResendWindow: time.Minute, MaxAttempts: 3})
	o.generate = func() (string, error) { return "123456", nil }
	return o, mr
}

func TestOTP_RequestConfirmResolve(t *testing.T) {
	ctx := context.Background()
	sms := &recordingSMS{}
	o, _ := newTestOTP(t, sms)

	require.NoError(t, o.Request(ctx, "+14155550100"))
	require.Len(t, sms.to, 1)
	assert.Equal(t, "+14155550100", sms.to[0])
	assert.Contains(t, sms.body[0], "123456")

	uid, err := o.Confirm(ctx, "+14155550100", "123456")
	require.NoError(t, err)
	assert.NotEmpty(t, uid)

	phone, err := o.ResolvePhone(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "+14155550100", phone)

	// tickets are single use
	_, err = o.ResolvePhone(ctx, uid)
	assert.ErrorIs(t, err, ErrInvalidUID)
}

func TestOTP_ResendThrottle(t *testing.T) {
	ctx := context.Background()
	o, mr := newTestOTP(t, &recordingSMS{})

	require.NoError(t, o.Request(ctx, "+14155550100"))
	assert.ErrorIs(t, o.Request(ctx, "+14155550100"), ErrResendThrottled)

	mr.FastForward(2 * time.Minute)
	assert.NoError(t, o.Request(ctx, "+14155550100"))
}

func TestOTP_WrongCodeAndAttempts(t *testing.T) {
	ctx := context.Background()
	o, _ := newTestOTP(t, &recordingSMS{})
	require.NoError(t, o.Request(ctx, "+14155550100"))

	for i := 0; i < 3; i++ {
		_, err := o.Confirm(ctx, "+14155550100", "000000")
		assert.ErrorIs(t, err, ErrInvalidCode)
	}
	_, err := o.Confirm(ctx, "+14155550100", "123456")
	assert.ErrorIs(t, err, ErrTooManyAttempts)
}

func TestOTP_ExpiredCode(t *testing.T) {
	ctx := context.Background()
	o, mr := newTestOTP(t, &recordingSMS{})
	require.NoError(t, o.Request(ctx, "+14155550100"))

	mr.FastForward(6 * time.Minute)
	_, err := o.Confirm(ctx, "+14155550100", "123456")
	assert.ErrorIs(t, err, ErrInvalidCode)
}

func TestOTP_SendFailureReleasesThrottle(t *testing.T) {
	ctx := context.Background()
	sms := &recordingSMS{err: errors.New("twilio down")}
	o, _ := newTestOTP(t, sms)

	assert.Error(t, o.Request(ctx, "+14155550100"))
	sms.err = nil
	assert.NoError(t, o.Request(ctx, "+14155550100"))
}

type staticVerifier struct {
	phone string
	err   error
}

func (s staticVerifier) ResolvePhone(context.Context, string) (string, error) {
	return s.phone, s.err
}

func TestOTP_NoSenderNumberSendsNothing(t *testing.T) {
	ctx := context.Background()
	o, mr := newTestOTP(t, NewTwilioSender("AC00000000000000000000000000000000", "token", ""))

	err := o.Request(ctx, "+14155550100")
	assert.ErrorIs(t, err, ErrNoSenderNumber)
	assert.False(t, mr.Exists(codeKey("+14155550100")))
	assert.False(t, mr.Exists(resendKey("+14155550100")))
}

func TestChain(t *testing.T) {
	ctx := context.Background()

	_, err := Chain{}.ResolvePhone(ctx, "x")
	assert.ErrorIs(t, err, ErrUnavailable)

	phone, err := Chain{staticVerifier{err: ErrInvalidUID}, staticVerifier{phone: "+1"}}.ResolvePhone(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "+1", phone)

	_, err = Chain{staticVerifier{err: ErrInvalidUID}}.ResolvePhone(ctx, "x")
	assert.ErrorIs(t, err, ErrInvalidUID)

	boom := errors.New("boom")
	_, err = Chain{staticVerifier{err: boom}, staticVerifier{phone: "+1"}}.ResolvePhone(ctx, "x")
	assert.ErrorIs(t, err, boom)
}

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode()
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, c := range code {
		assert.True(t, c >= '0' && c <= '9')
	}
	assert.True(t, codeEqual(code, hashCode(code)))
	assert.False(t, codeEqual("000000", hashCode("111111")))
}
