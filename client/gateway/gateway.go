// Package gateway is the HTTP client of the onboarding API. Every failure is
// reduced to an *Error carrying one human-readable message.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"company-onboarding/app/models"
)

const defaultTimeout = 30 * time.Second

// ErrProfileNotFound is returned by FetchProfile on HTTP 404.
var ErrProfileNotFound = errors.New("company profile not found")

// Error is a normalized API or transport failure. Status is 0 when no
// response was received.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func IsUnauthorized(err error) bool { return statusOf(err) == http.StatusUnauthorized }

func IsNotFound(err error) bool { return statusOf(err) == http.StatusNotFound }

func statusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// New returns a client for the API at baseURL. A nil httpClient selects one
// with a 30s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// SetToken sets the bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) ClearToken() { c.SetToken("") }

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) RegisterUser(ctx context.Context, in models.RegisterRequest) (models.RegisterResponse, error) {
	var out models.RegisterResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", in, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, in models.LoginRequest) (models.LoginResponse, error) {
	var out models.LoginResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", in, &out)
	return out, err
}

func (c *Client) VerifyMobile(ctx context.Context, uid string) (models.VerifyResponse, error) {
	var out models.VerifyResponse
	err := c.doJSON(ctx, http.MethodPost, "/api/auth/verify-mobile", models.VerifyMobileRequest{UID: uid}, &out)
	return out, err
}

func (c *Client) VerifyEmail(ctx context.Context, email string) (models.VerifyResponse, error) {
	var out models.VerifyResponse
	err := c.doJSON(ctx, http.MethodGet, "/api/auth/verify-email?email="+url.QueryEscape(email), nil, &out)
	return out, err
}

// RequestOTP asks the server to text a verification code to mobile.
func (c *Client) RequestOTP(ctx context.Context, mobile string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/request-otp", models.OTPRequest{MobileNo: mobile}, nil)
}

// ConfirmOTP exchanges a texted code for the uid accepted by VerifyMobile.
func (c *Client) ConfirmOTP(ctx context.Context, mobile, code string) (string, error) {
	var out models.Envelope[struct {
		UID string `json:"uid"`
	}]
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/confirm-otp", models.OTPConfirmRequest{MobileNo: mobile, Code: code}, &out); err != nil {
		return "", err
	}
	return out.Data.UID, nil
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out models.Envelope[*models.User]
	err := c.doJSON(ctx, http.MethodGet, "/api/me", nil, &out)
	return out.Data, err
}

// FetchProfile returns the caller's profile, nil when the server has none,
// or an error wrapping ErrProfileNotFound on HTTP 404.
func (c *Client) FetchProfile(ctx context.Context) (*models.CompanyProfile, error) {
	var out models.Envelope[*models.CompanyProfile]
	err := c.doJSON(ctx, http.MethodGet, "/api/company/profile", nil, &out)
	if IsNotFound(err) {
		return nil, fmt.Errorf("%w: %w", ErrProfileNotFound, err)
	}
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

// SubmitProfile creates the profile when companyID is nil and updates it
// otherwise. It returns the server's canonical profile.
func (c *Client) SubmitProfile(ctx context.Context, companyID *int64, payload models.CompanyPatch) (*models.CompanyProfile, error) {
	method, path := http.MethodPost, "/api/company/register"
	if companyID != nil {
		method, path = http.MethodPut, "/api/company/profile"
	}
	var out models.Envelope[*models.CompanyProfile]
	if err := c.doJSON(ctx, method, path, payload, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// UploadAsset sends r as the multipart "file" field to upload-logo or
// upload-banner, depending on kind.
func (c *Client) UploadAsset(ctx context.Context, kind, filename string, r io.Reader) (models.UploadResult, error) {
	var path string
	switch kind {
	case "logo":
		path = "/api/company/upload-logo"
	case "banner":
		path = "/api/company/upload-banner"
	default:
		return models.UploadResult{}, &Error{Message: fmt.Sprintf("unknown asset kind %q", kind)}
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return models.UploadResult{}, &Error{Message: err.Error()}
	}
	if _, err := io.Copy(fw, r); err != nil {
		return models.UploadResult{}, &Error{Message: err.Error()}
	}
	if err := mw.Close(); err != nil {
		return models.UploadResult{}, &Error{Message: err.Error()}
	}

	var out models.Envelope[models.UploadResult]
	err = c.do(ctx, http.MethodPost, path, &buf, mw.FormDataContentType(), &out)
	return out.Data, err
}

// SuggestText asks the server to draft the about or vision text.
func (c *Client) SuggestText(ctx context.Context, req models.SuggestRequest) (string, error) {
	var out models.Envelope[models.Suggestion]
	if err := c.doJSON(ctx, http.MethodPost, "/api/company/suggest", req, &out); err != nil {
		return "", err
	}
	return out.Data.Text, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return &Error{Message: err.Error()}
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, body, contentType, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Status: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, raw)}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Status: resp.StatusCode, Message: "invalid response: " + err.Error()}
	}
	return nil
}

// errorMessage prefers the body's "message", then its "error" field.
func errorMessage(status int, raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return fmt.Sprintf("request failed with status code %d", status)
}
