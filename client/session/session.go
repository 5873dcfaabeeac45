// Package session holds the client's authentication state and keeps it in
// durable storage across restarts.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"company-onboarding/app/client/storage"
	"company-onboarding/app/models"
)

var ErrMissingCredentials = errors.New("Missing credentials for verification")

type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// User is the persisted user snapshot.
type User struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"fullName,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
	Mobile      string `json:"mobile,omitempty"`
	Gender      string `json:"gender,omitempty"`
}

// UserPatch updates the non-nil fields of the user snapshot.
type UserPatch struct {
	FullName    *string
	CompanyName *string
	Mobile      *string
	Gender      *string
}

type Credentials struct {
	Email    string
	Password string
}

// State is a value snapshot of the session. Token set implies
// IsAuthenticated.
type State struct {
	UserID          *int64
	Email           string
	Token           string
	IsAuthenticated bool
	OTPVerified     bool
	// Pending is only set between registration and OTP verification.
	Pending *Credentials
	User    *User
	Status  Status
	Error   string
}

func (s State) clone() State {
	if s.UserID != nil {
		id := *s.UserID
		s.UserID = &id
	}
	if s.Pending != nil {
		p := *s.Pending
		s.Pending = &p
	}
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

type RegisterInput struct {
	Email      string
	Password   string
	FullName   string
	Gender     string
	Mobile     string
	SignupType string
}

// Gateway is the part of the API client the session drives. SetToken and
// ClearToken keep its authorization header in step with the session token.
type Gateway interface {
	RegisterUser(ctx context.Context, in models.RegisterRequest) (models.RegisterResponse, error)
	Login(ctx context.Context, in models.LoginRequest) (models.LoginResponse, error)
	VerifyMobile(ctx context.Context, uid string) (models.VerifyResponse, error)
	VerifyEmail(ctx context.Context, email string) (models.VerifyResponse, error)
	SetToken(token string)
	ClearToken()
}

// Store is the session. It is the only writer of the persisted auth keys.
type Store struct {
	gw      Gateway
	storage storage.Storage

	mu sync.Mutex
	st State
}

func New(gw Gateway, s storage.Storage) *Store {
	return &Store{gw: gw, storage: s, st: State{Status: StatusIdle}}
}

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.clone()
}

func (s *Store) Register(ctx context.Context, in RegisterInput) error {
	s.begin()
	res, err := s.gw.RegisterUser(ctx, models.RegisterRequest{
		Email:      in.Email,
		Password:   in.Password,
		FullName:   in.FullName,
		Gender:     in.Gender,
		MobileNo:   in.Mobile,
		SignupType: in.SignupType,
	})
	if err != nil {
		return s.failed(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := res.Data.UserID
	s.st = State{
		UserID:          &id,
		Email:           in.Email,
		IsAuthenticated: true,
		Pending:         &Credentials{Email: in.Email, Password: in.Password},
		User:            &User{ID: id, Email: in.Email, FullName: in.FullName, Mobile: in.Mobile, Gender: in.Gender},
		Status:          StatusSucceeded,
	}
	// A token from an earlier sign-in belongs to another account.
	s.gw.ClearToken()
	if err := s.storage.Remove(storage.TokenKey); err != nil {
		log.Printf("clear token: %v", err)
	}
	s.persistUser(s.st.User)
	return nil
}

func (s *Store) Login(ctx context.Context, creds Credentials) error {
	s.begin()
	res, err := s.gw.Login(ctx, models.LoginRequest{Email: creds.Email, Password: creds.Password})
	if err != nil {
		return s.failed(err)
	}
	s.signedIn(res)
	return nil
}

// VerifyOTP completes registration: it proves the mobile number behind uid
// (when given), marks the email verified and signs in with the credentials
// kept since Register.
func (s *Store) VerifyOTP(ctx context.Context, uid string) error {
	s.mu.Lock()
	pending := s.st.Pending
	var email string
	if s.st.User != nil {
		email = s.st.User.Email
	}
	s.mu.Unlock()
	if pending == nil {
		return s.failed(ErrMissingCredentials)
	}
	creds := *pending

	s.begin()
	if uid != "" {
		if _, err := s.gw.VerifyMobile(ctx, uid); err != nil {
			return s.failed(err)
		}
	}
	if email != "" {
		if _, err := s.gw.VerifyEmail(ctx, email); err != nil {
			return s.failed(err)
		}
	}
	res, err := s.gw.Login(ctx, models.LoginRequest{Email: creds.Email, Password: creds.Password})
	if err != nil {
		return s.failed(err)
	}
	s.signedIn(res)
	return nil
}

// Hydrate restores a persisted session without contacting the server. A
// stored user that cannot be decoded clears both keys.
func (s *Store) Hydrate() error {
	token, okToken, err := s.storage.Get(storage.TokenKey)
	if err != nil {
		return err
	}
	raw, okUser, err := s.storage.Get(storage.UserKey)
	if err != nil {
		return err
	}
	if !okToken || !okUser || token == "" {
		return nil
	}
	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		log.Printf("discarding stored session: %v", err)
		s.mu.Lock()
		s.st = State{Status: StatusIdle}
		s.mu.Unlock()
		s.gw.ClearToken()
		return s.storage.Remove(storage.UserKey, storage.TokenKey)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := u.ID
	s.st = State{
		UserID:          &id,
		Email:           u.Email,
		Token:           token,
		IsAuthenticated: true,
		OTPVerified:     true,
		User:            &u,
		Status:          StatusSucceeded,
	}
	s.gw.SetToken(token)
	return nil
}

// Logout forgets the session and its persisted keys.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = State{Status: StatusIdle}
	s.gw.ClearToken()
	return s.storage.Remove(storage.TokenKey, storage.UserKey)
}

// UpdateUser merges patch into the user snapshot. It is a no-op without one.
func (s *Store) UpdateUser(patch UserPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.User == nil {
		return
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&s.st.User.FullName, patch.FullName)
	set(&s.st.User.CompanyName, patch.CompanyName)
	set(&s.st.User.Mobile, patch.Mobile)
	set(&s.st.User.Gender, patch.Gender)
	s.persistUser(s.st.User)
}

func (s *Store) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Status = StatusLoading
	s.st.Error = ""
}

func (s *Store) failed(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Status = StatusFailed
	s.st.Error = err.Error()
	return err
}

func (s *Store) signedIn(res models.LoginResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var company string
	if s.st.User != nil {
		company = s.st.User.CompanyName
	}
	id := res.User.ID
	s.st.Status = StatusSucceeded
	s.st.Error = ""
	s.st.IsAuthenticated = true
	s.st.OTPVerified = true
	s.st.Token = res.Token
	s.st.UserID = &id
	s.st.Email = res.User.Email
	s.st.Pending = nil
	s.st.User = &User{
		ID:          id,
		Email:       res.User.Email,
		FullName:    res.User.FullName,
		CompanyName: company,
		Mobile:      res.User.MobileNo,
		Gender:      res.User.Gender,
	}
	s.gw.SetToken(res.Token)
	if err := s.storage.Set(storage.TokenKey, res.Token); err != nil {
		log.Printf("persist token: %v", err)
	}
	s.persistUser(s.st.User)
}

func (s *Store) persistUser(u *User) {
	raw, err := json.Marshal(u)
	if err == nil {
		err = s.storage.Set(storage.UserKey, string(raw))
	}
	if err != nil {
		log.Printf("persist user: %v", err)
	}
}
