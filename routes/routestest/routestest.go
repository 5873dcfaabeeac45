// Package routestest runs the full API against in-memory collaborators for
// tests of the server and of its clients.
package routestest

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"company-onboarding/app/assets"
	"company-onboarding/app/config"
	"company-onboarding/app/middlewares"
	"company-onboarding/app/routes"
	"company-onboarding/app/store"
	"company-onboarding/app/utils"
	"company-onboarding/app/verification"
)

const Secret = "test-secret"

// Verifier resolves uids from a fixed table.
type Verifier struct {
	mu     sync.Mutex
	phones map[string]string
}

func (v *Verifier) Add(uid, phone string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.phones == nil {
		v.phones = map[string]string{}
	}
	v.phones[uid] = phone
}

func (v *Verifier) ResolvePhone(_ context.Context, uid string) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	phone, ok := v.phones[uid]
	if !ok {
		return "", verification.ErrInvalidUID
	}
	return phone, nil
}

// Outbox records SMS bodies instead of sending them.
type Outbox struct {
	mu   sync.Mutex
	Sent map[string][]string
}

func (o *Outbox) SendSMS(to, body string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Sent == nil {
		o.Sent = map[string][]string{}
	}
	o.Sent[to] = append(o.Sent[to], body)
	return nil
}

// Last returns the last message sent to phone.
func (o *Outbox) Last(phone string) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	msgs := o.Sent[phone]
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1]
}

// Drafter answers every suggestion with a canned text.
type Drafter struct {
	Text string
	Last utils.CompanyFacts
}

func (d *Drafter) Draft(_ context.Context, field string, f utils.CompanyFacts) (string, error) {
	d.Last = f
	return d.Text + " (" + field + ")", nil
}

type Server struct {
	*httptest.Server
	Config   config.Config
	Store    *store.Memory
	Verifier *Verifier
	Outbox   *Outbox
	Drafter  *Drafter
	Redis    *miniredis.Miniredis
}

// New starts the API on an httptest server that is closed with the test.
func New(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	s := &Server{
		Config: config.Config{
			JWTSecret:          Secret,
			JWTTTL:             time.Hour,
			AssetPublicBaseURL: "/uploads",
			MaxUploadBytes:     1 << 20,
		},
		Store:    store.NewMemory(),
		Verifier: &Verifier{},
		Outbox:   &Outbox{},
		Drafter:  &Drafter{Text: "Drafted"},
		Redis:    mr,
	}
	otp := verification.NewOTP(rdb, s.Outbox, verification.OTPConfig{
		TTL:          5 * time.Minute,
		ResendWindow: time.Minute,
		MaxAttempts:  3,
	})
	local, err := assets.NewLocal(t.TempDir(), s.Config.AssetPublicBaseURL)
	if err != nil {
		t.Fatal(err)
	}

	r := gin.New()
	r.Use(middlewares.CORS())
	routes.Register(r, s.Config, routes.Deps{
		Store:     s.Store,
		Hasher:    utils.NewHasher(4),
		Verifier:  verification.Chain{s.Verifier, otp},
		OTP:       otp,
		Assets:    local,
		Drafter:   s.Drafter,
		StaticDir: local.Dir(),
	})
	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Server.Close)
	return s
}
