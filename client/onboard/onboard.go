// Package onboard sequences the session, the wizard and the API client into
// the onboarding flow: sign up, verify, fill the four setup steps, submit.
package onboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"company-onboarding/app/client/gateway"
	"company-onboarding/app/client/session"
	"company-onboarding/app/client/storage"
	"company-onboarding/app/client/wizard"
	"company-onboarding/app/models"
)

var (
	ErrSubmitInFlight = errors.New("a submission for this step is already in progress")
	ErrSessionExpired = errors.New("session expired")
)

// Gateway is the part of the API client the flow drives directly.
type Gateway interface {
	FetchProfile(ctx context.Context) (*models.CompanyProfile, error)
	SubmitProfile(ctx context.Context, companyID *int64, payload models.CompanyPatch) (*models.CompanyProfile, error)
	UploadAsset(ctx context.Context, kind, filename string, r io.Reader) (models.UploadResult, error)
	SuggestText(ctx context.Context, req models.SuggestRequest) (string, error)
}

type Flow struct {
	Session *session.Store
	Wizard  *wizard.Machine
	gw      Gateway

	mu       sync.Mutex
	inFlight map[string]bool
}

func New(sess *session.Store, wz *wizard.Machine, gw Gateway) *Flow {
	return &Flow{Session: sess, Wizard: wz, gw: gw, inFlight: map[string]bool{}}
}

// NewClient wires a flow against the API at baseURL, persisting the
// session into st.
func NewClient(baseURL string, st storage.Storage) *Flow {
	gw := gateway.New(baseURL, nil)
	return New(session.New(gw, st), wizard.NewMachine(), gw)
}

// Start restores a persisted session and, when signed in, the profile.
func (f *Flow) Start(ctx context.Context) error {
	if err := f.Session.Hydrate(); err != nil {
		return err
	}
	if !f.Session.Snapshot().IsAuthenticated {
		return nil
	}
	return f.Refresh(ctx)
}

func (f *Flow) Register(ctx context.Context, in session.RegisterInput) error {
	return f.Session.Register(ctx, in)
}

func (f *Flow) Login(ctx context.Context, creds session.Credentials) error {
	if err := f.Session.Login(ctx, creds); err != nil {
		return err
	}
	return f.Refresh(ctx)
}

func (f *Flow) VerifyOTP(ctx context.Context, uid string) error {
	if err := f.Session.VerifyOTP(ctx, uid); err != nil {
		return err
	}
	return f.Refresh(ctx)
}

func (f *Flow) Logout() error {
	f.Wizard.Reset()
	return f.Session.Logout()
}

// Refresh fetches the profile and applies it. No profile yet is not an error.
func (f *Flow) Refresh(ctx context.Context) error {
	f.Wizard.SetStatus(wizard.StatusLoading, "")
	p, err := f.gw.FetchProfile(ctx)
	if errors.Is(err, gateway.ErrProfileNotFound) {
		f.Wizard.SetStatus(wizard.StatusSucceeded, "")
		return nil
	}
	if err != nil {
		return f.fail(err)
	}
	f.applyProfile(p)
	return nil
}

// Next saves the section of step. The last step, and every step once the
// profile exists, is only saved after the server accepted it, and the wizard
// then holds the server's stored values; earlier steps of a first run are
// saved locally.
func (f *Flow) Next(ctx context.Context, step wizard.Step, section wizard.Section) error {
	if err := wizard.Validate(step, section); err != nil {
		return err
	}
	release, err := f.acquire("step:" + string(step))
	if err != nil {
		return err
	}
	defer release()

	snap := f.Wizard.Snapshot()
	if snap.CompanyID == nil && step != wizard.StepOrder[len(wizard.StepOrder)-1] {
		return f.Wizard.SaveStep(step, section)
	}

	f.Wizard.SetStatus(wizard.StatusLoading, "")
	payload := wizard.BuildPayload(snap.WithSection(section))
	p, err := f.gw.SubmitProfile(ctx, snap.CompanyID, payload)
	if err != nil {
		return f.fail(err)
	}
	if err := f.Wizard.SaveStep(step, section); err != nil {
		return err
	}
	f.applyProfile(p)
	return nil
}

// UploadAsset shows preview as the logo or banner while the file uploads,
// then stores the hosted URL. A failed upload restores the previous URL.
func (f *Flow) UploadAsset(ctx context.Context, kind wizard.AssetKind, filename string, r io.Reader, preview string) (string, error) {
	release, err := f.acquire("asset:" + string(kind))
	if err != nil {
		return "", err
	}
	defer release()

	prev, err := f.Wizard.SetAsset(kind, preview)
	if err != nil {
		return "", err
	}
	res, err := f.gw.UploadAsset(ctx, string(kind), filename, r)
	if err != nil {
		if _, rerr := f.Wizard.SetAsset(kind, prev); rerr != nil {
			return "", rerr
		}
		return "", f.fail(err)
	}
	if _, err := f.Wizard.SetAsset(kind, res.URL); err != nil {
		return "", err
	}
	return res.URL, nil
}

// Suggest drafts the about or vision text from the wizard's current
// sections.
func (f *Flow) Suggest(ctx context.Context, field string) (string, error) {
	snap := f.Wizard.Snapshot()
	text, err := f.gw.SuggestText(ctx, models.SuggestRequest{
		Field:            field,
		CompanyName:      snap.Company.CompanyName,
		Industry:         snap.Founding.IndustryType,
		OrganizationType: snap.Founding.OrganizationType,
		TeamSize:         snap.Founding.TeamSize,
		Description:      snap.Company.About,
	})
	if err != nil {
		return "", f.fail(err)
	}
	return text, nil
}

func (f *Flow) applyProfile(p *models.CompanyProfile) {
	f.Wizard.ApplyServerProfile(p)
	if p != nil {
		name := p.CompanyName
		f.Session.UpdateUser(session.UserPatch{CompanyName: &name})
	}
	f.Wizard.SetStatus(wizard.StatusSucceeded, "")
}

// fail records err on the wizard. A rejected token ends the session.
func (f *Flow) fail(err error) error {
	if gateway.IsUnauthorized(err) {
		f.Wizard.Reset()
		expired := fmt.Errorf("%w: %w", ErrSessionExpired, err)
		if lerr := f.Session.Logout(); lerr != nil {
			return errors.Join(expired, lerr)
		}
		return expired
	}
	f.Wizard.SetStatus(wizard.StatusFailed, err.Error())
	return err
}

func (f *Flow) acquire(key string) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.inFlight[key] {
		return nil, ErrSubmitInFlight
	}
	f.inFlight[key] = true
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.inFlight, key)
	}, nil
}
