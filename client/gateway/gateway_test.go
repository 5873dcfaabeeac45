package gateway

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"company-onboarding/app/models"
	"company-onboarding/app/routes/routestest"
)

func ptr(s string) *string { return &s }

func signedIn(t *testing.T) (*routestest.Server, *Client) {
	t.Helper()
	s := routestest.New(t)
	c := New(s.URL, nil)
	ctx := context.Background()
	_, err := c.RegisterUser(ctx, models.RegisterRequest{
		Email: "a@x.com", Password: "longpass1", FullName: "A", Gender: "o", MobileNo: "+14155550100",
	})
	require.NoError(t, err)
	res, err := c.Login(ctx, models.LoginRequest{Email: "a@x.com", Password: "longpass1"})
	require.NoError(t, err)
	c.SetToken(res.Token)
	return s, c
}

func TestErrorNormalization(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"message field", http.StatusBadRequest, `{"success":false,"message":"Email already registered"}`, "Email already registered"},
		{"error field", http.StatusBadGateway, `{"error":"otp provider error"}`, "otp provider error"},
		{"message wins", http.StatusBadRequest, `{"message":"m","error":"e"}`, "m"},
		{"no body", http.StatusInternalServerError, ``, "request failed with status code 500"},
		{"html body", http.StatusServiceUnavailable, `<html>down</html>`, "request failed with status code 503"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL, nil).Login(context.Background(), models.LoginRequest{})
			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMsg, apiErr.Error())
		})
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, nil).FetchProfile(context.Background())
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Zero(t, apiErr.Status)
	assert.NotEmpty(t, apiErr.Message)
	assert.False(t, errors.Is(err, ErrProfileNotFound))
}

func TestFetchProfile_NotFoundIsDistinguished(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"message":"Profile not found"}`))
	}))
	defer srv.Close()

	p, err := New(srv.URL, nil).FetchProfile(context.Background())
	assert.Nil(t, p)
	assert.True(t, errors.Is(err, ErrProfileNotFound))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsUnauthorized(err))
}

func TestAuthorizationHeader(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		w.Write([]byte(`{"success":true,"data":null}`))
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	ctx := context.Background()
	_, _ = c.FetchProfile(ctx)
	c.SetToken("tok")
	_, _ = c.FetchProfile(ctx)
	c.ClearToken()
	_, _ = c.FetchProfile(ctx)
	assert.Equal(t, []string{"", "Bearer tok", ""}, got)
}

func TestProfileRoundTrip(t *testing.T) {
	_, c := signedIn(t)
	ctx := context.Background()

	p, err := c.FetchProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)

	created, err := c.SubmitProfile(ctx, nil, models.CompanyPatch{
		CompanyName: ptr("Acme"),
		Address:     ptr("12 MG Road"),
		City:        ptr("Pune"),
		State:       ptr("MH"),
		Country:     ptr("India"),
		PostalCode:  ptr("411001"),
		Industry:    ptr("Retail"),
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "Acme", created.CompanyName)

	updated, err := c.SubmitProfile(ctx, &created.ID, models.CompanyPatch{Vision: ptr("Anvils for all")})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Anvils for all", updated.Vision)
	assert.Equal(t, "Pune", updated.City)

	_, err = c.SubmitProfile(ctx, nil, models.CompanyPatch{CompanyName: ptr("Again")})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, statusOf(err))

	fetched, err := c.FetchProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Anvils for all", fetched.Vision)
}

func TestUnauthorized(t *testing.T) {
	s := routestest.New(t)
	c := New(s.URL, nil)
	c.SetToken("garbage")

	_, err := c.FetchProfile(context.Background())
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Invalid token", err.Error())
}

func TestUploadAsset(t *testing.T) {
	_, c := signedIn(t)
	ctx := context.Background()
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	res, err := c.UploadAsset(ctx, "logo", "logo.png", bytes.NewReader(png))
	require.NoError(t, err)
	assert.Contains(t, res.URL, "/uploads/logo/")
	assert.NotEmpty(t, res.PublicID)

	_, err = c.UploadAsset(ctx, "banner", "notes.txt", bytes.NewReader([]byte("hello")))
	assert.Equal(t, "Only image uploads are allowed", err.Error())

	_, err = c.UploadAsset(ctx, "avatar", "a.png", bytes.NewReader(png))
	assert.Error(t, err)
}

func TestAuthEndpoints(t *testing.T) {
	s, c := signedIn(t)
	ctx := context.Background()

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", me.Email)

	v, err := c.VerifyEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, v.User.IsEmailVerified)

	require.NoError(t, c.RequestOTP(ctx, "+14155550100"))
	msg := s.Outbox.Last("+14155550100")
	uid, err := c.ConfirmOTP(ctx, "+14155550100", msg[len(msg)-6:])
	require.NoError(t, err)
	v, err = c.VerifyMobile(ctx, uid)
	require.NoError(t, err)
	assert.True(t, v.User.IsMobileVerified)

	_, err = c.VerifyMobile(ctx, "")
	assert.Equal(t, "uid required", err.Error())
}

func TestSuggestText(t *testing.T) {
	_, c := signedIn(t)
	text, err := c.SuggestText(context.Background(), models.SuggestRequest{Field: "about", CompanyName: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "Drafted (about)", text)
}
