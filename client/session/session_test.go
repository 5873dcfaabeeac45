package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"company-onboarding/app/client/gateway"
	"company-onboarding/app/client/storage"
	"company-onboarding/app/routes/routestest"
)

func newSession(t *testing.T) (*Store, *gateway.Client, *storage.Memory, *routestest.Server) {
	t.Helper()
	srv := routestest.New(t)
	gw := gateway.New(srv.URL, nil)
	st := storage.NewMemory()
	return New(gw, st), gw, st, srv
}

var alice = RegisterInput{
	Email:    "a@x.com",
	Password: "longpass1",
	FullName: "Alice",
	Gender:   "f",
	Mobile:   "+14155550100",
}

func TestRegister_PendingVerification(t *testing.T) {
	s, gw, st, _ := newSession(t)

	require.NoError(t, s.Register(context.Background(), alice))
	got := s.Snapshot()
	assert.True(t, got.IsAuthenticated)
	assert.False(t, got.OTPVerified)
	assert.Empty(t, got.Token)
	require.NotNil(t, got.Pending)
	assert.Equal(t, Credentials{Email: "a@x.com", Password: "longpass1"}, *got.Pending)
	assert.Equal(t, StatusSucceeded, got.Status)
	assert.Empty(t, gw.Token())

	raw, ok, _ := st.Get(storage.UserKey)
	assert.True(t, ok)
	assert.Contains(t, raw, `"email":"a@x.com"`)
	_, ok, _ = st.Get(storage.TokenKey)
	assert.False(t, ok)
}

func TestRegister_DropsEarlierToken(t *testing.T) {
	s, gw, st, _ := newSession(t)
	ctx := context.Background()
	require.NoError(t, s.Register(ctx, alice))
	require.NoError(t, s.Login(ctx, Credentials{Email: "a@x.com", Password: "longpass1"}))
	require.NotEmpty(t, gw.Token())

	bob := RegisterInput{Email: "b@x.com", Password: "longpass2", FullName: "Bob", Gender: "m", Mobile: "+919876543210"}
	require.NoError(t, s.Register(ctx, bob))
	got := s.Snapshot()
	assert.Empty(t, got.Token)
	assert.False(t, got.OTPVerified)
	assert.Equal(t, "b@x.com", got.User.Email)
	assert.Empty(t, gw.Token())
	_, ok, _ := st.Get(storage.TokenKey)
	assert.False(t, ok)
}

func TestRegister_Failure(t *testing.T) {
	s, _, _, srv := newSession(t)
	ctx := context.Background()
	require.NoError(t, s.Register(ctx, alice))

	other := New(gateway.New(srv.URL, nil), storage.NewMemory())
	err := other.Register(ctx, alice)
	require.Error(t, err)
	got := other.Snapshot()
	assert.Equal(t, StatusFailed, got.Status)
	assert.Equal(t, "Email already registered", got.Error)
	assert.False(t, got.IsAuthenticated)
}

func TestVerifyOTP(t *testing.T) {
	s, gw, st, srv := newSession(t)
	ctx := context.Background()
	srv.Verifier.Add("fb-uid", "+14155550100")

	require.NoError(t, s.Register(ctx, alice))
	require.NoError(t, s.VerifyOTP(ctx, "fb-uid"))

	got := s.Snapshot()
	assert.True(t, got.IsAuthenticated)
	assert.True(t, got.OTPVerified)
	assert.Nil(t, got.Pending)
	assert.NotEmpty(t, got.Token)
	assert.Equal(t, got.Token, gw.Token())
	tok, _, _ := st.Get(storage.TokenKey)
	assert.Equal(t, got.Token, tok)

	u, err := srv.Store.FindUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, u.IsMobileVerified)
	assert.True(t, u.IsEmailVerified)
}

func TestVerifyOTP_RequiresPendingCredentials(t *testing.T) {
	s, _, _, _ := newSession(t)
	err := s.VerifyOTP(context.Background(), "uid")
	assert.True(t, errors.Is(err, ErrMissingCredentials))
	assert.Equal(t, "Missing credentials for verification", s.Snapshot().Error)
}

func TestVerifyOTP_InvalidUIDKeepsPending(t *testing.T) {
	s, _, _, _ := newSession(t)
	ctx := context.Background()
	require.NoError(t, s.Register(ctx, alice))

	err := s.VerifyOTP(ctx, "unknown")
	require.Error(t, err)
	got := s.Snapshot()
	assert.Equal(t, "Invalid UID", got.Error)
	assert.False(t, got.OTPVerified)
	assert.NotNil(t, got.Pending)
}

func TestLogin(t *testing.T) {
	s, gw, _, _ := newSession(t)
	ctx := context.Background()
	require.NoError(t, s.Register(ctx, alice))

	err := s.Login(ctx, Credentials{Email: "a@x.com", Password: "wrong-pass"})
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", s.Snapshot().Error)

	require.NoError(t, s.Login(ctx, Credentials{Email: "a@x.com", Password: "longpass1"}))
	got := s.Snapshot()
	assert.True(t, got.OTPVerified)
	assert.Nil(t, got.Pending)
	assert.Equal(t, "Alice", got.User.FullName)
	assert.Equal(t, got.Token, gw.Token())
}

func TestHydrate(t *testing.T) {
	s, gw, st, _ := newSession(t)
	require.NoError(t, st.Set(storage.TokenKey, "tok"))
	require.NoError(t, st.Set(storage.UserKey, `{"id":7,"email":"a@x.com","companyName":"Acme"}`))

	require.NoError(t, s.Hydrate())
	got := s.Snapshot()
	assert.True(t, got.IsAuthenticated)
	assert.True(t, got.OTPVerified)
	assert.Equal(t, "tok", got.Token)
	assert.EqualValues(t, 7, *got.UserID)
	assert.Equal(t, "Acme", got.User.CompanyName)
	assert.Equal(t, "tok", gw.Token())
}

func TestHydrate_CorruptUserClearsBothKeys(t *testing.T) {
	s, _, st, _ := newSession(t)
	require.NoError(t, st.Set(storage.TokenKey, "tok"))
	require.NoError(t, st.Set(storage.UserKey, "{not json"))

	require.NoError(t, s.Hydrate())
	assert.False(t, s.Snapshot().IsAuthenticated)
	_, ok, _ := st.Get(storage.TokenKey)
	assert.False(t, ok)
	_, ok, _ = st.Get(storage.UserKey)
	assert.False(t, ok)
}

func TestHydrate_NothingStored(t *testing.T) {
	s, _, _, _ := newSession(t)
	require.NoError(t, s.Hydrate())
	assert.False(t, s.Snapshot().IsAuthenticated)
}

func TestLogout(t *testing.T) {
	s, gw, st, _ := newSession(t)
	ctx := context.Background()
	require.NoError(t, s.Register(ctx, alice))
	require.NoError(t, s.Login(ctx, Credentials{Email: "a@x.com", Password: "longpass1"}))

	require.NoError(t, s.Logout())
	assert.Equal(t, State{Status: StatusIdle}, s.Snapshot())
	assert.Empty(t, gw.Token())
	_, ok, _ := st.Get(storage.TokenKey)
	assert.False(t, ok)
	_, ok, _ = st.Get(storage.UserKey)
	assert.False(t, ok)
}

func TestUpdateUser(t *testing.T) {
	s, _, st, _ := newSession(t)
	s.UpdateUser(UserPatch{FullName: ptr("ignored")})
	assert.Nil(t, s.Snapshot().User)

	require.NoError(t, s.Register(context.Background(), alice))
	s.UpdateUser(UserPatch{CompanyName: ptr("Acme")})
	assert.Equal(t, "Acme", s.Snapshot().User.CompanyName)
	assert.Equal(t, "Alice", s.Snapshot().User.FullName)
	raw, _, _ := st.Get(storage.UserKey)
	assert.Contains(t, raw, `"companyName":"Acme"`)
}

func TestSnapshotIsCopy(t *testing.T) {
	s, _, _, _ := newSession(t)
	require.NoError(t, s.Register(context.Background(), alice))
	snap := s.Snapshot()
	snap.Pending.Password = "changed"
	snap.User.Email = "changed"
	assert.Equal(t, "longpass1", s.Snapshot().Pending.Password)
	assert.Equal(t, "a@x.com", s.Snapshot().User.Email)
}

func ptr(s string) *string { return &s }
